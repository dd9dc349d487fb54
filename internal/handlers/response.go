package handlers

import (
	"math"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/anonto42/microblog/internal/i18n"
	"github.com/anonto42/microblog/internal/middleware"
	"github.com/anonto42/microblog/pkg/config"
)

func getUserIDFromContext(c echo.Context) uint {
	return middleware.CurrentUserID(c)
}

func pageParam(c echo.Context) int {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	if page < 1 {
		page = 1
	}
	return page
}

// paginated writes the list envelope: data under key plus page metadata.
func paginated(c echo.Context, key string, items any, page int, totalItems int64) error {
	perPage := config.PostsPerPage
	totalPages := int(math.Ceil(float64(totalItems) / float64(perPage)))

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data": echo.Map{
			key: items,
		},
		"meta": pageMeta(page, perPage, totalPages, totalItems),
	})
}

func pageMeta(page, perPage, totalPages int, totalItems int64) echo.Map {
	return echo.Map{
		"currentPage":     page,
		"totalPages":      totalPages,
		"totalItems":      totalItems,
		"itemsPerPage":    perPage,
		"hasNextPage":     page < totalPages,
		"hasPreviousPage": page > 1,
	}
}

func success(c echo.Context, status int, message string, data any) error {
	body := echo.Map{"success": true}
	if message != "" {
		body["message"] = message
	}
	if data != nil {
		body["data"] = data
	}
	return c.JSON(status, body)
}

// bindAndValidate decodes the request body into req and runs the echo validator.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, i18n.T(c, i18n.MsgInvalidRequest))
	}
	return c.Validate(req)
}

// internalError logs err at error level, which also mails the admins, and hides it from the client.
func internalError(c echo.Context, err error) error {
	logrus.WithError(err).WithFields(logrus.Fields{
		"method": c.Request().Method,
		"path":   c.Path(),
	}).Error("request failed")
	return echo.NewHTTPError(http.StatusInternalServerError, "Internal server error")
}
