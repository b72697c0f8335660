package server

import (
	"context"
	"os"

	"github.com/assetdesk/assetdesk/internal/config"
	"github.com/assetdesk/assetdesk/internal/usecase"

	"github.com/labstack/echo/v4"
)

func (s *Server) getUID(c echo.Context) (string, error) {
	var (
		reqClientID = c.Request().Header.Get(config.HEADER_KEY_X_CLIENT_ID)
		reqUID      = c.Request().Header.Get(config.HEADER_KEY_X_UID)
		clientID    = os.Getenv(config.ENV_KEY_CLIENT_ID)
	)

	// Trusted internal clients may pass the uid directly.
	if reqClientID != "" &&
		reqUID != "" &&
		reqClientID == clientID {
		return reqUID, nil
	}

	var auth = c.Request().Header.Get("Authorization")

	if len(auth) < len("Bearer ") {
		return "", echo.NewHTTPError(401, "Authorization header is required")
	}

	token := auth[len("Bearer "):]

	return s.server.VerifyIDToken(c.Request().Context(), token)
}

// AuthMiddleware verifies the bearer token, resolves the uid to a local
// user and stores the user id and role in the request context for the
// domain layer.
func (s *Server) AuthMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		var (
			ctx = c.Request().Context()
		)

		uid, err := s.getUID(c)
		if err != nil {
			return c.JSON(401, Res{
				Error:   "Invalid token",
				Message: err.Error(),
			})
		}

		au, err := s.server.GetAuthUserByUID(ctx, uid)
		if err != nil {
			return c.JSON(401, Res{
				Error:   "User not found",
				Message: err.Error(),
			})
		}

		var role usecase.Role
		if au.User != nil {
			role = au.User.Role
		}

		ctx = context.WithValue(ctx, config.CTX_KEY_USER_ID, au.UserID)
		ctx = context.WithValue(ctx, config.CTX_KEY_USER_ROLE, role)

		c.SetRequest(c.Request().WithContext(ctx))

		return next(c)
	}
}
