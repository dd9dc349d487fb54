package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/anonto42/microblog/internal/models"
	"github.com/anonto42/microblog/internal/repositories"
)

// NotificationHandler handles notification-related HTTP requests
type NotificationHandler struct {
	notificationRepository repositories.NotificationRepository
}

// NewNotificationHandler creates a new NotificationHandler
func NewNotificationHandler(notifRepo repositories.NotificationRepository) *NotificationHandler {
	return &NotificationHandler{notificationRepository: notifRepo}
}

// RegisterNotificationRoutes registers notification routes
func (h *NotificationHandler) RegisterNotificationRoutes(g *echo.Group) {
	g.GET("/notifications", h.GetNotifications)
}

// GetNotifications returns the notifications newer than ?since (unix seconds),
// oldest first, so clients can poll with the last timestamp they saw.
func (h *NotificationHandler) GetNotifications(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)

	var since float64
	if raw := c.QueryParam("since"); raw != "" {
		var err error
		if since, err = strconv.ParseFloat(raw, 64); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid since parameter")
		}
	}

	notifications, err := h.notificationRepository.NotificationsSince(currentUserID, since)
	if err != nil {
		return internalError(c, err)
	}

	views := make([]models.NotificationView, 0, len(notifications))
	for i := range notifications {
		data, err := notifications[i].Payload()
		if err != nil {
			return internalError(c, err)
		}
		views = append(views, models.NotificationView{
			Name:      notifications[i].Name,
			Data:      data,
			Timestamp: notifications[i].Timestamp,
		})
	}
	return c.JSON(http.StatusOK, views)
}
