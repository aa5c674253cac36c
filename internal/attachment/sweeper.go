package attachment

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Sweeper periodically reclaims attachment rows that were uploaded but never
// bound to a leave request.
type Sweeper struct {
	service Service
	maxAge  time.Duration
	logger  *zap.Logger
}

func NewSweeper(service Service, maxAge time.Duration, logger *zap.Logger) *Sweeper {
	return &Sweeper{
		service: service,
		maxAge:  maxAge,
		logger:  logger.Named("attachment.sweeper"),
	}
}

// Register schedules the sweep on the given cron runner. The caller owns the
// runner's lifecycle.
func (s *Sweeper) Register(c *cron.Cron, spec string) (cron.EntryID, error) {
	return c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()

		swept, err := s.service.SweepOrphans(ctx, s.maxAge)
		if err != nil {
			s.logger.Error("orphan sweep failed", zap.Error(err))
			return
		}
		s.logger.Debug("orphan sweep finished", zap.Int("swept", swept))
	})
}
