package leavetype

import (
	"net/http"

	"go-hrcore/internal/shared/apperror"
	"go-hrcore/internal/shared/response"

	"github.com/gin-gonic/gin"
)

type LeaveTypeResponse struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	DisplayName string  `json:"display_name"`
	Description string  `json:"description"`
	TotalHours  *string `json:"total_hours,omitempty"`
	ResetRule   *string `json:"reset_rule,omitempty"`
}

type Handler struct {
	repo Repository
}

func NewHandler(repo Repository) *Handler {
	return &Handler{repo: repo}
}

func (h *Handler) GetAll(c *gin.Context) {
	types, err := h.repo.FindAll(c.Request.Context())
	if err != nil {
		httpErr := apperror.ToHTTP(err)
		response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
		return
	}

	resp := make([]LeaveTypeResponse, len(types))
	for i, lt := range types {
		item := LeaveTypeResponse{
			ID:          lt.ID.String(),
			Name:        lt.Name,
			DisplayName: lt.DisplayName,
			Description: lt.Description,
		}
		if lt.TotalHours != nil {
			v := lt.TotalHours.String()
			item.TotalHours = &v
		}
		if len(lt.ResetRules) > 0 {
			rule := lt.ResetRules[0].RuleType + " " + lt.ResetRules[0].RuleValue
			item.ResetRule = &rule
		}
		resp[i] = item
	}

	response.Success(c, http.StatusOK, resp, nil)
}
