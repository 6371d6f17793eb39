package notification

import (
	"go-hrms/internal/shared/apperror"
	"go-hrms/internal/shared/response"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("notification.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("notification.handler")
	}
	return &Handler{service: service, logger: l}
}

func (h *Handler) ListInbox(c *gin.Context) {
	recipientID := c.GetString("employee_id")
	if recipientID == "" {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Missing employee identity", nil)
		return
	}

	resp, err := h.service.ListInbox(c.Request.Context(), recipientID)
	if err != nil {
		httpErr := apperror.ToHTTP(err)
		response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}
