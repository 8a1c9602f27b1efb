package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"ecomStore/domain"
	"ecomStore/pkg/logger"
	jsonres "ecomStore/pkg/response"

	"github.com/labstack/echo/v4"
)

const (
	ContextKeyIdentity = "identity"
	ContextKeyToken    = "token"
)

// Authenticator resolves a session token to a verified user.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (domain.User, error)
}

// TokenFromRequest reads the session cookie, falling back to a Bearer header.
func TokenFromRequest(c echo.Context, cookieName string) string {
	if cookie, err := c.Cookie(cookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
	tokenParts := strings.SplitN(authHeader, " ", 2)
	if len(tokenParts) == 2 && strings.EqualFold(tokenParts[0], "Bearer") {
		return strings.TrimSpace(tokenParts[1])
	}

	return ""
}

// AuthMiddleware requires a valid session for the wrapped route.
func AuthMiddleware(auth Authenticator, cookieName string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			tokenString := TokenFromRequest(c, cookieName)
			if tokenString == "" {
				return c.JSON(http.StatusUnauthorized, jsonres.Error(
					domain.ErrAuthenticationRequired.Code, domain.ErrAuthenticationRequired.Message, nil,
				))
			}

			ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
			defer cancel()

			user, err := auth.Authenticate(ctx, tokenString)
			if err != nil {
				status := domain.HTTPStatus(err)
				if status != http.StatusUnauthorized {
					logger.Error("Failed to authenticate request", err)
				}
				code, msg := domain.Public(err)
				return c.JSON(status, jsonres.Error(code, msg, nil))
			}

			c.Set(ContextKeyIdentity, domain.Identity{UserID: user.ID, Email: user.Email, Role: user.Role})
			c.Set(ContextKeyToken, tokenString)

			return next(c)
		}
	}
}

// SellerOnly must run after AuthMiddleware.
func SellerOnly() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			identity, ok := IdentityFrom(c)
			if !ok {
				return c.JSON(http.StatusUnauthorized, jsonres.Error(
					domain.ErrAuthenticationRequired.Code, domain.ErrAuthenticationRequired.Message, nil,
				))
			}

			if !identity.IsSeller() {
				return c.JSON(http.StatusForbidden, jsonres.Error(
					domain.ErrSellerAccessRequired.Code, domain.ErrSellerAccessRequired.Message, nil,
				))
			}

			return next(c)
		}
	}
}

func IdentityFrom(c echo.Context) (domain.Identity, bool) {
	identity, ok := c.Get(ContextKeyIdentity).(domain.Identity)
	return identity, ok
}
