package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/taskconnect/marketplace-api/internal/api/middleware"
	"github.com/taskconnect/marketplace-api/internal/core/ports"
)

// ctxActor extracts the session injected by the Auth middleware. A missing
// session means the route was mounted without Auth; reject with 401.
func ctxActor(c echo.Context) (ports.Actor, error) {
	sess, _ := c.Get(middleware.CtxSession).(*ports.Session)
	if sess == nil || sess.IdentityID == "" || !sess.Role.Valid() {
		return ports.Actor{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return ports.Actor{ID: sess.IdentityID, Role: sess.Role}, nil
}

func ctxToken(c echo.Context) string {
	token, _ := c.Get(middleware.CtxToken).(string)
	return token
}
