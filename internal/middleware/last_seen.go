package middleware

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

// LastSeenToucher records when a user was last active.
type LastSeenToucher interface {
	TouchLastSeen(id uint, at time.Time) error
}

// LastSeenMiddleware stamps users.last_seen for every authenticated request.
// It must run after JWTAuthMiddleware.
func LastSeenMiddleware(users LastSeenToucher) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if id := CurrentUserID(c); id != 0 {
				if err := users.TouchLastSeen(id, time.Now().UTC()); err != nil {
					logrus.WithError(err).WithField("user_id", id).Warn("failed to update last_seen")
				}
			}
			return next(c)
		}
	}
}
