package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"ecomStore/domain"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAuth struct {
	users map[string]domain.User
	err   error
}

func (s stubAuth) Authenticate(ctx context.Context, token string) (domain.User, error) {
	if s.err != nil {
		return domain.User{}, s.err
	}
	u, ok := s.users[token]
	if !ok {
		return domain.User{}, domain.ErrAuthenticationRequired
	}
	return u, nil
}

func newEcho(auth Authenticator) *echo.Echo {
	e := echo.New()
	e.HTTPErrorHandler = ErrorHandler

	whoami := func(c echo.Context) error {
		id, _ := IdentityFrom(c)
		return c.JSON(http.StatusOK, id)
	}

	e.GET("/me", whoami, AuthMiddleware(auth, "auth-token"))
	e.GET("/seller", whoami, AuthMiddleware(auth, "auth-token"), SellerOnly())
	e.GET("/boom", func(c echo.Context) error { return errors.New("disk on fire") })
	e.GET("/missing", func(c echo.Context) error { return domain.ErrOrderNotFound })
	return e
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorBody {
	t.Helper()
	var body errorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestAuthMiddleware(t *testing.T) {
	auth := stubAuth{users: map[string]domain.User{
		"cust-token":   {ID: "u1", Email: "c@x.com", Role: domain.RoleCustomer, IsVerified: true},
		"seller-token": {ID: "s1", Email: "s@x.com", Role: domain.RoleSeller, IsVerified: true},
	}}
	e := newEcho(auth)

	t.Run("no token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "AUTHENTICATION_REQUIRED", decodeError(t, rec).Code)
	})

	t.Run("cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.AddCookie(&http.Cookie{Name: "auth-token", Value: "cust-token"})
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var id domain.Identity
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &id))
		assert.Equal(t, "u1", id.UserID)
	})

	t.Run("bearer header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set(echo.HeaderAuthorization, "Bearer seller-token")
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("unknown token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set(echo.HeaderAuthorization, "Bearer forged")
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("backend failure is a 500", func(t *testing.T) {
		e := newEcho(stubAuth{err: errors.New("redis down")})
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set(echo.HeaderAuthorization, "Bearer cust-token")
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, "internal server error", decodeError(t, rec).Message)
	})
}

func TestSellerOnly(t *testing.T) {
	auth := stubAuth{users: map[string]domain.User{
		"cust-token":   {ID: "u1", Role: domain.RoleCustomer, IsVerified: true},
		"seller-token": {ID: "s1", Role: domain.RoleSeller, IsVerified: true},
	}}
	e := newEcho(auth)

	t.Run("customer forbidden", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/seller", nil)
		req.AddCookie(&http.Cookie{Name: "auth-token", Value: "cust-token"})
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Equal(t, "SELLER_ACCESS_REQUIRED", decodeError(t, rec).Code)
	})

	t.Run("seller allowed", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/seller", nil)
		req.AddCookie(&http.Cookie{Name: "auth-token", Value: "seller-token"})
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestErrorHandler(t *testing.T) {
	e := newEcho(stubAuth{})

	t.Run("unknown route", func(t *testing.T) {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nowhere", nil))

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "NOT_FOUND", decodeError(t, rec).Code)
	})

	t.Run("domain error", func(t *testing.T) {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/missing", nil))

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "ORDER_NOT_FOUND", decodeError(t, rec).Code)
	})

	t.Run("unexpected error is collapsed", func(t *testing.T) {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		body := decodeError(t, rec)
		assert.Equal(t, "INTERNAL", body.Code)
		assert.NotContains(t, body.Message, "disk")
	})
}
