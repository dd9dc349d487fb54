package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/anonto42/microblog/internal/i18n"
	"github.com/anonto42/microblog/internal/models"
	"github.com/anonto42/microblog/internal/repositories"
	"github.com/anonto42/microblog/pkg/config"
)

// UserHandler handles HTTP requests related to users
type UserHandler struct {
	userRepository   repositories.UserRepository
	followRepository repositories.FollowRepository
	postRepository   repositories.PostRepository
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userRepo repositories.UserRepository, followRepo repositories.FollowRepository, postRepo repositories.PostRepository) *UserHandler {
	return &UserHandler{
		userRepository:   userRepo,
		followRepository: followRepo,
		postRepository:   postRepo,
	}
}

// RegisterProfileRoutes registers user profile-related routes
func (h *UserHandler) RegisterProfileRoutes(g *echo.Group) {
	g.GET("/users/:username", h.GetUser)
	g.GET("/users/:username/followers", h.GetFollowers)
	g.GET("/users/:username/followed", h.GetFollowed)
	g.PUT("/profile", h.UpdateProfile)
}

// Profile is the public view of a user.
type Profile struct {
	ID             uint       `json:"id"`
	Username       string     `json:"username"`
	Avatar         string     `json:"avatar"`
	AboutMe        *string    `json:"about_me"`
	LastSeen       *time.Time `json:"last_seen"`
	FollowersCount int64      `json:"followers_count"`
	FollowedCount  int64      `json:"followed_count"`
	IsFollowing    bool       `json:"is_following"`
}

// GetUser returns a profile together with one page of that user's posts.
func (h *UserHandler) GetUser(c echo.Context) error {
	user, err := lookupUser(c, h.userRepository, c.Param("username"))
	if err != nil {
		return err
	}

	profile := Profile{
		ID:       user.ID,
		Username: user.Username,
		Avatar:   user.Avatar(128),
		AboutMe:  user.AboutMe,
		LastSeen: user.LastSeen,
	}
	if profile.FollowersCount, err = h.followRepository.GetFollowersCount(user.ID); err != nil {
		return internalError(c, err)
	}
	if profile.FollowedCount, err = h.followRepository.GetFollowedCount(user.ID); err != nil {
		return internalError(c, err)
	}
	if currentUserID := getUserIDFromContext(c); currentUserID != 0 && currentUserID != user.ID {
		if profile.IsFollowing, err = h.followRepository.IsFollowing(currentUserID, user.ID); err != nil {
			return internalError(c, err)
		}
	}

	page := pageParam(c)
	posts, total, err := h.postRepository.PostsByAuthor(user.ID, page, config.PostsPerPage)
	if err != nil {
		return internalError(c, err)
	}
	totalPages := int((total + config.PostsPerPage - 1) / config.PostsPerPage)

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data": echo.Map{
			"user":  profile,
			"posts": models.PostViews(posts),
		},
		"meta": pageMeta(page, config.PostsPerPage, totalPages, total),
	})
}

// UpdateProfile changes the current user's username and about_me.
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	var req models.EditProfileRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.userRepository.GetUserByID(getUserIDFromContext(c))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "User profile not found")
		}
		return internalError(c, err)
	}

	user.Username = req.Username
	user.AboutMe = req.AboutMe
	if err := h.userRepository.UpdateUser(user); err != nil {
		return uniqueError(c, err)
	}

	return success(c, http.StatusOK, i18n.T(c, i18n.MsgChangesSaved), echo.Map{
		"id":       user.ID,
		"username": user.Username,
		"about_me": user.AboutMe,
		"avatar":   user.Avatar(128),
	})
}

func (h *UserHandler) GetFollowers(c echo.Context) error {
	return h.listUsers(c, h.followRepository.GetFollowers)
}

func (h *UserHandler) GetFollowed(c echo.Context) error {
	return h.listUsers(c, h.followRepository.GetFollowed)
}

func (h *UserHandler) listUsers(c echo.Context, list func(uint) ([]models.User, error)) error {
	user, err := lookupUser(c, h.userRepository, c.Param("username"))
	if err != nil {
		return err
	}
	users, err := list(user.ID)
	if err != nil {
		return internalError(c, err)
	}

	compact := make([]models.UserCompact, len(users))
	for i := range users {
		compact[i] = users[i].ToCompact()
	}
	return success(c, http.StatusOK, "", echo.Map{"users": compact})
}

// lookupUser resolves a username or answers 404.
func lookupUser(c echo.Context, users repositories.UserRepository, username string) (*models.User, error) {
	user, err := users.GetUserByUsername(username)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, echo.NewHTTPError(http.StatusNotFound, i18n.T(c, i18n.MsgUserNotFound, username))
		}
		return nil, internalError(c, err)
	}
	return user, nil
}
