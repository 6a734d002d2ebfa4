// internal/handlers/notification/notification_handler.go
package notification

import (
	"net/http"
	"strconv"

	"slate-service/internal/middleware"
	"slate-service/internal/pkg/response"
	notifUsecase "slate-service/internal/service/notification"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type NotificationHandler struct {
	notificationService *notifUsecase.NotificationService
	logger              *zap.Logger
}

func NewNotificationHandler(notificationService *notifUsecase.NotificationService, logger *zap.Logger) *NotificationHandler {
	return &NotificationHandler{
		notificationService: notificationService,
		logger:              logger,
	}
}

// List returns the user's notifications with the unread count
func (h *NotificationHandler) List(c *gin.Context) {
	userID := middleware.MustGetUserID(c)

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	resp, err := h.notificationService.List(c.Request.Context(), userID, limit)
	if err != nil {
		h.logger.Error("failed to list notifications", zap.String("user_id", userID), zap.Error(err))
		response.Internal(c)
		return
	}

	response.Success(c, http.StatusOK, "notifications", resp)
}

// MarkAsRead flags one notification as read
func (h *NotificationHandler) MarkAsRead(c *gin.Context) {
	userID := middleware.MustGetUserID(c)

	notificationID := c.Param("notification_id")
	if _, err := uuid.Parse(notificationID); err != nil {
		response.ValidationError(c, "invalid notification id", nil)
		return
	}

	marked, err := h.notificationService.MarkAsRead(c.Request.Context(), notificationID, userID)
	if err != nil {
		h.logger.Error("failed to mark notification read",
			zap.String("user_id", userID),
			zap.String("notification_id", notificationID),
			zap.Error(err),
		)
		response.Internal(c)
		return
	}
	if !marked {
		response.NotFound(c, "notification not found")
		return
	}

	response.Success(c, http.StatusOK, "notification marked as read", nil)
}
