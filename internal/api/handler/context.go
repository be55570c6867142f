package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ansi-niger/decree-portal/internal/api/middleware"
	"github.com/ansi-niger/decree-portal/internal/core/domain"
	"github.com/ansi-niger/decree-portal/internal/core/ports"
)

// ctxClaims extracts the auth claims injected by the Auth middleware. An
// empty role means the middleware did not run or the token carried none.
func ctxClaims(c echo.Context) (userID, role string, err error) {
	role, _ = c.Get(middleware.CtxRole).(string)
	if role == "" {
		return "", "", echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	userID, _ = c.Get(middleware.CtxUserID).(string)
	return userID, role, nil
}

// isAdmin reports whether the request carries an administrator token.
func isAdmin(c echo.Context) bool {
	role, _ := c.Get(middleware.CtxRole).(string)
	return domain.IsAdminRole(role)
}

// activityFor builds an activity entry stamped with the caller's address and
// user agent.
func activityFor(c echo.Context, action domain.ActivityAction, description, decreeID string, metadata map[string]any) ports.ActivityInput {
	if userID, _ := c.Get(middleware.CtxUserID).(string); userID != "" {
		if metadata == nil {
			metadata = map[string]any{}
		}
		metadata["user_id"] = userID
	}
	return ports.ActivityInput{
		Action:      action,
		Description: description,
		DecreeID:    decreeID,
		Metadata:    metadata,
		IPAddress:   middleware.ClientIP(c.Request()),
		UserAgent:   c.Request().UserAgent(),
	}
}
