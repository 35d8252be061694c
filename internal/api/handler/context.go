package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/taskdesk/task-manager/internal/core/domain"
)

// Keys under which the Auth middleware stores token claims.
const (
	CtxUserID   = "user_id"
	CtxUsername = "username"
	CtxRoles    = "roles"
)

// ctxClaims extracts the claims injected by the Auth middleware. A missing
// user id means the middleware did not run or the token lacks identity.
func ctxClaims(c echo.Context) (userID string, roles []string, err error) {
	userID, _ = c.Get(CtxUserID).(string)
	if userID == "" {
		return "", nil, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	roles, _ = c.Get(CtxRoles).([]string)
	return userID, roles, nil
}

// sameRoles reports whether a and b hold the same set of roles.
func sameRoles(a, b []string) bool {
	toSet := func(roles []string) map[string]struct{} {
		set := make(map[string]struct{}, len(roles))
		for _, r := range roles {
			set[r] = struct{}{}
		}
		return set
	}
	as, bs := toSet(a), toSet(b)
	if len(as) != len(bs) {
		return false
	}
	for r := range as {
		if _, ok := bs[r]; !ok {
			return false
		}
	}
	return true
}

// isManager reports whether roles grant user administration rights.
func isManager(roles []string) bool {
	u := domain.User{Roles: roles}
	return u.HasAnyRole(domain.RoleManager, domain.RoleAdmin)
}
