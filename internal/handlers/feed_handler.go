package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/anonto42/microblog/internal/models"
	"github.com/anonto42/microblog/internal/repositories"
	"github.com/anonto42/microblog/pkg/config"
)

// FeedHandler serves the home timeline and the explore page.
type FeedHandler struct {
	postRepository repositories.PostRepository
}

// NewFeedHandler creates a new FeedHandler
func NewFeedHandler(postRepo repositories.PostRepository) *FeedHandler {
	return &FeedHandler{postRepository: postRepo}
}

// RegisterFeedRoutes registers feed-related routes
func (h *FeedHandler) RegisterFeedRoutes(g *echo.Group) {
	g.GET("/index", h.GetFeed)
	g.GET("/explore", h.Explore)
}

// GetFeed returns the current user's own posts and the posts of everyone they
// follow, newest first.
func (h *FeedHandler) GetFeed(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	page := pageParam(c)

	posts, total, err := h.postRepository.FollowedPosts(currentUserID, page, config.PostsPerPage)
	if err != nil {
		return internalError(c, err)
	}
	return paginated(c, "posts", models.PostViews(posts), page, total)
}

// Explore returns every post, newest first.
func (h *FeedHandler) Explore(c echo.Context) error {
	page := pageParam(c)

	posts, total, err := h.postRepository.AllPosts(page, config.PostsPerPage)
	if err != nil {
		return internalError(c, err)
	}
	return paginated(c, "posts", models.PostViews(posts), page, total)
}
