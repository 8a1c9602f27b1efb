package rest

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

type SessionCookie struct {
	Name   string
	Domain string
	Secure bool
}

func (s SessionCookie) Set(c echo.Context, token string, expiresAt time.Time) {
	c.SetCookie(&http.Cookie{
		Name:     s.Name,
		Value:    token,
		Path:     "/",
		Domain:   s.Domain,
		Expires:  expiresAt,
		MaxAge:   maxAgeFrom(expiresAt),
		Secure:   s.Secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s SessionCookie) Clear(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     s.Name,
		Value:    "",
		Path:     "/",
		Domain:   s.Domain,
		MaxAge:   -1,
		Secure:   s.Secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func maxAgeFrom(exp time.Time) int {
	sec := int(time.Until(exp).Seconds())
	if sec < 0 {
		return 0
	}
	return sec
}
