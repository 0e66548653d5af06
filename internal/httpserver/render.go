package httpserver

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"net/http"
	"net/url"
	"path"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/deliverytech/console/internal/authz"
)

//go:embed templates/*.html
var templatesFS embed.FS

type Renderer struct {
	templates map[string]*template.Template
}

func NewRenderer() (*Renderer, error) {
	funcs := template.FuncMap{
		"money": func(v float64) string { return fmt.Sprintf("R$ %.2f", v) },
		"roles": func(names []string) string {
			out := make([]string, 0, len(names))
			for _, n := range names {
				out = append(out, authz.DisplayRole(n))
			}
			return strings.Join(out, ", ")
		},
	}

	names, err := fs.Glob(templatesFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	r := &Renderer{templates: make(map[string]*template.Template)}
	for _, name := range names {
		base := path.Base(name)
		if base == "layout.html" {
			continue
		}
		t, err := template.New("layout.html").Funcs(funcs).
			ParseFS(templatesFS, "templates/layout.html", name)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", base, err)
		}
		r.templates[base] = t
	}
	return r, nil
}

func (r *Renderer) Render(w io.Writer, name string, data any, c echo.Context) error {
	t, ok := r.templates[name]
	if !ok {
		return fmt.Errorf("unknown template %s", name)
	}
	return t.ExecuteTemplate(w, "layout.html", data)
}

const flashCookie = "console_flash"

// Flash messages carry transient request outcomes across the
// post-redirect-get hop; persistent states (denied, login prompt) render as
// full pages instead.
func setFlash(c echo.Context, kind, msg string) {
	c.SetCookie(&http.Cookie{
		Name:     flashCookie,
		Value:    url.QueryEscape(kind + "|" + msg),
		Path:     "/",
		HttpOnly: true,
	})
}

func takeFlash(c echo.Context) (kind, msg string) {
	ck, err := c.Cookie(flashCookie)
	if err != nil || ck.Value == "" {
		return "", ""
	}
	c.SetCookie(&http.Cookie{Name: flashCookie, Value: "", Path: "/", MaxAge: -1, HttpOnly: true})
	raw, err := url.QueryUnescape(ck.Value)
	if err != nil {
		return "", ""
	}
	kind, msg, ok := strings.Cut(raw, "|")
	if !ok {
		return "info", raw
	}
	return kind, msg
}
