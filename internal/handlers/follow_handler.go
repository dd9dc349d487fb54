package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/anonto42/microblog/internal/i18n"
	"github.com/anonto42/microblog/internal/metrics"
	"github.com/anonto42/microblog/internal/models"
	"github.com/anonto42/microblog/internal/repositories"
)

// FollowHandler handles follow/unfollow HTTP requests
type FollowHandler struct {
	followRepository       repositories.FollowRepository
	userRepository         repositories.UserRepository
	notificationRepository repositories.NotificationRepository
}

// NewFollowHandler creates a new FollowHandler
func NewFollowHandler(followRepo repositories.FollowRepository, userRepo repositories.UserRepository, notifRepo repositories.NotificationRepository) *FollowHandler {
	return &FollowHandler{
		followRepository:       followRepo,
		userRepository:         userRepo,
		notificationRepository: notifRepo,
	}
}

// RegisterFollowRoutes registers follow-related routes
func (h *FollowHandler) RegisterFollowRoutes(g *echo.Group) {
	g.POST("/follow/:username", h.FollowUser)
	g.POST("/unfollow/:username", h.UnfollowUser)
}

// FollowUser follows a user
func (h *FollowHandler) FollowUser(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	target, err := lookupUser(c, h.userRepository, c.Param("username"))
	if err != nil {
		return err
	}

	err = h.followRepository.Follow(currentUserID, target.ID)
	switch {
	case errors.Is(err, repositories.ErrSelfFollow):
		return echo.NewHTTPError(http.StatusBadRequest, i18n.T(c, i18n.MsgCannotFollowSelf))
	case errors.Is(err, repositories.ErrAlreadyFollowing):
		return echo.NewHTTPError(http.StatusConflict, i18n.T(c, i18n.MsgAlreadyFollowing, target.Username))
	case err != nil:
		return internalError(c, err)
	}
	metrics.Followed("follow")

	if h.notificationRepository != nil {
		if actor, err := h.userRepository.GetUserByID(currentUserID); err == nil {
			_, err := h.notificationRepository.AddNotification(target.ID, models.NotificationNewFollower, actor.ToCompact())
			if err != nil {
				logrus.WithError(err).WithField("user_id", target.ID).Warn("failed to add follower notification")
			}
		}
	}

	return success(c, http.StatusOK, i18n.T(c, i18n.MsgFollowing, target.Username), echo.Map{"following": true})
}

// UnfollowUser unfollows a user
func (h *FollowHandler) UnfollowUser(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	target, err := lookupUser(c, h.userRepository, c.Param("username"))
	if err != nil {
		return err
	}
	if target.ID == currentUserID {
		return echo.NewHTTPError(http.StatusBadRequest, i18n.T(c, i18n.MsgCannotUnfollowSelf))
	}

	err = h.followRepository.Unfollow(currentUserID, target.ID)
	switch {
	case errors.Is(err, repositories.ErrNotFollowing):
		return echo.NewHTTPError(http.StatusBadRequest, i18n.T(c, i18n.MsgNotFollowing, target.Username))
	case err != nil:
		return internalError(c, err)
	}
	metrics.Followed("unfollow")

	return success(c, http.StatusOK, i18n.T(c, i18n.MsgNotFollowing, target.Username), echo.Map{"following": false})
}
