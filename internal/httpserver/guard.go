package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/deliverytech/console/internal/authz"
)

type deniedView struct {
	Required []string
	Actual   []string
}

// Protected gates a route on the guard's decision. Outcomes other than
// Granted are rendered in place of the protected content; the URL never
// changes, so a later pass (restore finished, fresh login) re-evaluates.
func (s *Server) Protected(required ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			e := entryFrom(c)
			res := authz.Evaluate(e.Session, required)
			switch res.Decision {
			case authz.Loading:
				return c.Render(http.StatusOK, "loading.html", s.page(c, "Carregando", nil))
			case authz.LoginRequired:
				return c.Render(http.StatusOK, "login.html", s.page(c, "Login", loginView{
					ReturnTo: c.Request().URL.RequestURI(),
				}))
			case authz.Denied:
				return c.Render(http.StatusForbidden, "denied.html", s.page(c, "Acesso Negado", deniedView{
					Required: res.Required,
					Actual:   res.Actual,
				}))
			}
			return next(c)
		}
	}
}
