package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/taskdesk/task-manager/internal/api/handler"
	"github.com/taskdesk/task-manager/internal/core/domain"
)

// UserLookup resolves the account behind a token.
type UserLookup interface {
	GetUser(ctx context.Context, id string) (*domain.User, error)
}

// ActiveUser rejects tokens whose account was deactivated or removed after
// the token was issued. It must run after Auth.
func ActiveUser(users UserLookup) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			userID, _ := c.Get(handler.CtxUserID).(string)
			if userID == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
			}

			user, err := users.GetUser(c.Request().Context(), userID)
			switch {
			case errors.Is(err, domain.ErrUserNotFound), errors.Is(err, domain.ErrInvalidID):
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			case err != nil:
				return err
			case !user.Active:
				return domain.ErrUserInactive
			}
			return next(c)
		}
	}
}
