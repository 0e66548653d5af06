package httpserver

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"net/http"
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"
)

const (
	csrfCookie   = "console_csrf"
	csrfField    = "csrf_token"
	csrfHeader   = "X-CSRF-Token"
	ctxCSRFToken = "console_csrf_token"
)

// csrfProtect is a double-submit guard for the form routes: the token lives
// in its own cookie and every state-changing POST must echo it back in the
// csrf_token form field (or the X-CSRF-Token header). Safe methods only
// ensure the cookie exists and expose the token to the templates.
func (s *Server) csrfProtect(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := c.Request()

		token := ""
		if ck, err := req.Cookie(csrfCookie); err == nil {
			token = ck.Value
		}
		if token == "" {
			t, err := newCSRFToken()
			if err != nil {
				return echo.NewHTTPError(http.StatusInternalServerError, "failed to create CSRF token")
			}
			token = t
			c.SetCookie(&http.Cookie{
				Name:     csrfCookie,
				Value:    token,
				Path:     "/",
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
		}
		c.Set(ctxCSRFToken, token)

		switch req.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			c.Response().Header().Set(csrfHeader, token)
			return next(c)
		}

		// A present Origin/Referer must match; absence alone does not fail,
		// the token comparison still stands.
		if !csrfOriginOK(req) {
			return echo.NewHTTPError(http.StatusForbidden, "invalid origin")
		}

		provided := req.Header.Get(csrfHeader)
		if provided == "" {
			provided = c.FormValue(csrfField)
		}
		if subtle.ConstantTimeCompare([]byte(token), []byte(provided)) != 1 {
			return echo.NewHTTPError(http.StatusForbidden, "invalid CSRF token")
		}
		return next(c)
	}
}

func csrfToken(c echo.Context) string {
	t, _ := c.Get(ctxCSRFToken).(string)
	return t
}

func newCSRFToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

func csrfOriginOK(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		origin = r.Header.Get("Referer")
	}
	if origin == "" {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	return strings.EqualFold(u.Host, r.Host)
}
