package middleware

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go-hrcore/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// Idempotency guards POST endpoints against duplicate submits. The first
// request with a given Idempotency-Key takes a short-lived lock; a concurrent
// duplicate gets 409, a later duplicate gets the cached response.
func Idempotency(rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		idempKey := c.GetHeader("Idempotency-Key")
		userID := c.GetString("user_id")

		if idempKey == "" || c.Request.Method != http.MethodPost {
			c.Next()
			return
		}

		cacheKey := fmt.Sprintf("idemp:%s:%s:%s", c.FullPath(), userID, idempKey)
		lockKey := cacheKey + ":lock"

		val, err := rdb.Get(c.Request.Context(), cacheKey).Bytes()
		if err == nil {
			var cached json.RawMessage
			if jsonErr := json.Unmarshal(val, &cached); jsonErr == nil {
				// Replay the original create's status and envelope.
				response.Success(c, http.StatusCreated, cached, nil)
				c.Abort()
				return
			}
			// A corrupt cache entry counts as a miss and gets overwritten.
		}

		// Lock expires on its own so a crashed worker cannot wedge the key.
		isNew, _ := rdb.SetNX(c.Request.Context(), lockKey, "locked", 30*time.Second).Result()
		if !isNew {
			response.Error(c, http.StatusConflict, "PROCESSING",
				"A request with this idempotency key is still in flight", nil)
			c.Abort()
			return
		}

		// Handlers pick these up to cache the final response and release the lock.
		c.Set("idempotency_cache_key", cacheKey)
		c.Set("idempotency_lock_key", lockKey)

		c.Next()
	}
}
