package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/deliverytech/console/internal/session"
)

const ctxEntry = "console_entry"

// resolveSession binds every request to the browser's session entry, minting
// the session cookie on first contact. Cookie values that are not well-formed
// session ids are replaced, so arbitrary strings never reach the registry or
// the store. The entry's Restore runs inside Manager.Resolve, once per entry.
func (s *Server) resolveSession(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		id := ""
		if ck, err := c.Cookie(s.CookieName); err == nil && s.Manager.ValidID(ck.Value) {
			id = ck.Value
		}
		if id == "" {
			id = s.Manager.NewID()
			c.SetCookie(&http.Cookie{
				Name:     s.CookieName,
				Value:    id,
				Path:     "/",
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
		}
		entry := s.Manager.Resolve(c.Request().Context(), id)
		c.Set(ctxEntry, entry)
		return next(c)
	}
}

func entryFrom(c echo.Context) *session.Entry {
	e, _ := c.Get(ctxEntry).(*session.Entry)
	return e
}

// page is the data every template receives.
type page struct {
	Title     string
	Ident     *session.Identity
	CartCount int
	FlashKind string
	Flash     string
	CSRF      string
	Data      any
}

func (s *Server) page(c echo.Context, title string, data any) page {
	e := entryFrom(c)
	p := page{Title: title, Data: data, CSRF: csrfToken(c)}
	if e != nil {
		p.Ident = e.Session.Identity()
		p.CartCount = e.Cart.Count()
	}
	p.FlashKind, p.Flash = takeFlash(c)
	return p
}
