package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/anonto42/microblog/internal/i18n"
	"github.com/anonto42/microblog/internal/metrics"
	"github.com/anonto42/microblog/internal/models"
	"github.com/anonto42/microblog/internal/repositories"
	"github.com/anonto42/microblog/internal/search"
	"github.com/anonto42/microblog/pkg/config"
)

// PostHandler handles post-related HTTP requests
type PostHandler struct {
	postRepository repositories.PostRepository
	searchIndex    search.Index
}

// NewPostHandler creates a new PostHandler
func NewPostHandler(postRepo repositories.PostRepository, index search.Index) *PostHandler {
	return &PostHandler{
		postRepository: postRepo,
		searchIndex:    index,
	}
}

// RegisterPostRoutes registers post-related routes
func (h *PostHandler) RegisterPostRoutes(g *echo.Group) {
	g.POST("/posts", h.CreatePost)
	g.DELETE("/posts/:id", h.DeletePost)
	g.GET("/search", h.SearchPosts)
}

// CreatePost handles creating a new post
func (h *PostHandler) CreatePost(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)

	var req models.CreatePostRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	post := &models.Post{
		Body:     strings.TrimSpace(req.Body),
		UserID:   currentUserID,
		Language: i18n.Lang(c).String(),
	}
	if err := h.postRepository.CreatePost(post); err != nil {
		return internalError(c, err)
	}
	metrics.PostCreated()

	if err := search.AddPost(c.Request().Context(), h.searchIndex, post); err != nil {
		logrus.WithError(err).WithField("post_id", post.ID).Warn("failed to index post")
	}

	created, err := h.postRepository.GetPostByID(post.ID)
	if err != nil {
		return internalError(c, err)
	}
	return success(c, http.StatusCreated, i18n.T(c, i18n.MsgPostLive), created.View())
}

// DeletePost removes one of the current user's posts.
func (h *PostHandler) DeletePost(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid post ID")
	}

	post, err := h.postRepository.GetPostByID(uint(id))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, i18n.T(c, i18n.MsgPostNotFound))
		}
		return internalError(c, err)
	}
	if post.UserID != currentUserID {
		return echo.NewHTTPError(http.StatusForbidden, i18n.T(c, i18n.MsgNotPostAuthor))
	}

	if err := h.postRepository.DeletePost(post.ID); err != nil {
		return internalError(c, err)
	}
	if err := h.searchIndex.Remove(c.Request().Context(), search.PostsIndex, post.ID); err != nil {
		logrus.WithError(err).WithField("post_id", post.ID).Warn("failed to remove post from index")
	}
	return c.NoContent(http.StatusNoContent)
}

// SearchPosts runs a full-text query over post bodies.
func (h *PostHandler) SearchPosts(c echo.Context) error {
	q := strings.TrimSpace(c.QueryParam("q"))
	if q == "" {
		return echo.NewHTTPError(http.StatusBadRequest, i18n.T(c, i18n.MsgEmptySearch))
	}
	page := pageParam(c)

	ids, total, err := h.searchIndex.Query(c.Request().Context(), search.PostsIndex, q, page, config.PostsPerPage)
	if err != nil {
		return internalError(c, err)
	}
	posts, err := h.postRepository.PostsByIDs(ids)
	if err != nil {
		return internalError(c, err)
	}

	return paginated(c, "posts", models.PostViews(posts), page, total)
}
