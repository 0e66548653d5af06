package httpserver

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/deliverytech/console/internal/apiclient"
	"github.com/deliverytech/console/internal/events"
	"github.com/deliverytech/console/internal/forms"
	"github.com/deliverytech/console/internal/logging"
)

type loginView struct {
	ReturnTo string
	Username string
	Error    string
	Errors   forms.Errors
}

func (s *Server) LoginPage(c echo.Context) error {
	return c.Render(http.StatusOK, "login.html", s.page(c, "Login", loginView{
		ReturnTo: c.QueryParam("return_to"),
	}))
}

func (s *Server) Login(c echo.Context) error {
	ctx := c.Request().Context()
	e := entryFrom(c)

	view := loginView{
		ReturnTo: c.FormValue("return_to"),
		Username: c.FormValue("username"),
	}
	creds := apiclient.Credentials{
		Username: view.Username,
		Password: c.FormValue("password"),
	}
	if errs := forms.Check(creds); errs != nil {
		view.Errors = errs
		return c.Render(http.StatusOK, "login.html", s.page(c, "Login", view))
	}

	ok, msg := e.Session.Login(ctx, creds.Username, creds.Password)
	if !ok {
		view.Error = msg
		return c.Render(http.StatusOK, "login.html", s.page(c, "Login", view))
	}

	ident := e.Session.Identity()
	s.Events.Publish(ctx, events.TopicAuth, e.ID, map[string]any{
		"event":    "login",
		"user_id":  ident.ID,
		"username": ident.Username,
	})

	setFlash(c, "success", "Bem-vindo, "+ident.Username+"!")
	return c.Redirect(http.StatusSeeOther, safeReturnTo(view.ReturnTo))
}

func (s *Server) Logout(c echo.Context) error {
	ctx := c.Request().Context()
	e := entryFrom(c)

	var userID int64
	if ident := e.Session.Identity(); ident != nil {
		userID = ident.ID
	}
	e.Session.Logout(ctx)
	if userID != 0 {
		s.Events.Publish(ctx, events.TopicAuth, e.ID, map[string]any{
			"event":   "logout",
			"user_id": userID,
		})
	}

	setFlash(c, "success", "Sessão encerrada.")
	return c.Redirect(http.StatusSeeOther, "/")
}

type registerView struct {
	Form   apiclient.RegisterInput
	Role   string
	Error  string
	Errors forms.Errors
}

func (s *Server) RegisterPage(c echo.Context) error {
	return c.Render(http.StatusOK, "register.html", s.page(c, "Cadastro", registerView{Role: "CLIENTE"}))
}

func (s *Server) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "register")
	api := entryFrom(c).Session.Client()

	view := registerView{
		Form: apiclient.RegisterInput{
			Nome:  c.FormValue("nome"),
			Email: c.FormValue("email"),
			Senha: c.FormValue("senha"),
		},
		Role: c.FormValue("role"),
	}
	if view.Role != "RESTAURANTE" {
		view.Role = "CLIENTE"
	}
	view.Form.Roles = []string{view.Role}

	if errs := forms.Check(view.Form); errs != nil {
		view.Errors = errs
		return c.Render(http.StatusOK, "register.html", s.page(c, "Cadastro", view))
	}

	if err := api.Register(ctx, view.Form); err != nil {
		l.Warn("register failed", "error", err)
		view.Error = backendMessage(err, "Não foi possível concluir o cadastro.")
		return c.Render(http.StatusOK, "register.html", s.page(c, "Cadastro", view))
	}

	setFlash(c, "success", "Cadastro realizado. Faça login para continuar.")
	return c.Redirect(http.StatusSeeOther, "/login")
}

// safeReturnTo keeps redirects on-site.
func safeReturnTo(target string) string {
	if target == "" || !strings.HasPrefix(target, "/") || strings.HasPrefix(target, "//") {
		return "/"
	}
	return target
}

func backendMessage(err error, fallback string) string {
	var apiErr *apiclient.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}
