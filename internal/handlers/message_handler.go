package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/anonto42/microblog/internal/i18n"
	"github.com/anonto42/microblog/internal/models"
	"github.com/anonto42/microblog/internal/repositories"
	"github.com/anonto42/microblog/pkg/config"
)

// MessageHandler handles private messages between users.
type MessageHandler struct {
	messageRepository      repositories.MessageRepository
	userRepository         repositories.UserRepository
	notificationRepository repositories.NotificationRepository
}

func NewMessageHandler(messageRepo repositories.MessageRepository, userRepo repositories.UserRepository, notifRepo repositories.NotificationRepository) *MessageHandler {
	return &MessageHandler{
		messageRepository:      messageRepo,
		userRepository:         userRepo,
		notificationRepository: notifRepo,
	}
}

func (h *MessageHandler) RegisterMessageRoutes(g *echo.Group) {
	g.POST("/send_message/:recipient", h.SendMessage)
	g.GET("/messages", h.GetMessages)
}

// SendMessage stores a message and refreshes the recipient's unread count.
func (h *MessageHandler) SendMessage(c echo.Context) error {
	recipient, err := lookupUser(c, h.userRepository, c.Param("recipient"))
	if err != nil {
		return err
	}

	var req models.SendMessageRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	msg := &models.Message{
		SenderID:    getUserIDFromContext(c),
		RecipientID: recipient.ID,
		Body:        strings.TrimSpace(req.Body),
	}
	if err := h.messageRepository.SendMessage(msg); err != nil {
		return internalError(c, err)
	}

	count, err := h.messageRepository.NewMessageCount(recipient)
	if err != nil {
		return internalError(c, err)
	}
	if _, err := h.notificationRepository.AddNotification(recipient.ID, models.NotificationUnreadMessageCount, count); err != nil {
		logrus.WithError(err).WithField("user_id", recipient.ID).Warn("failed to update unread message count")
	}

	return success(c, http.StatusCreated, i18n.T(c, i18n.MsgMessageSent), msg)
}

// GetMessages lists received messages and marks them all read.
func (h *MessageHandler) GetMessages(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)

	if err := h.messageRepository.MarkMessagesRead(currentUserID, time.Now().UTC()); err != nil {
		return internalError(c, err)
	}
	if _, err := h.notificationRepository.AddNotification(currentUserID, models.NotificationUnreadMessageCount, 0); err != nil {
		logrus.WithError(err).WithField("user_id", currentUserID).Warn("failed to reset unread message count")
	}

	page := pageParam(c)
	messages, total, err := h.messageRepository.ReceivedMessages(currentUserID, page, config.PostsPerPage)
	if err != nil {
		return internalError(c, err)
	}
	return paginated(c, "messages", models.MessageViews(messages), page, total)
}
