package httpserver

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	ecM "github.com/labstack/echo/v4/middleware"

	"github.com/deliverytech/console/internal/events"
	"github.com/deliverytech/console/internal/session"
)

type Server struct {
	Manager    *session.Manager
	Events     *events.Producer
	CookieName string
	Log        *slog.Logger
}

func Register(e *echo.Echo, s *Server) error {
	r, err := NewRenderer()
	if err != nil {
		return err
	}
	e.Renderer = r

	e.Pre(ecM.RemoveTrailingSlash())
	e.Use(ecM.Recover(), ecM.RequestID(), ecM.Secure())
	e.Use(RequestLogger(s.Log))

	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	pages := e.Group("", s.csrfProtect, s.resolveSession)

	// Storefront.
	pages.GET("/", s.Home)
	pages.GET("/restaurantes/:id", s.RestaurantePage)

	// Cart.
	pages.GET("/cart", s.CartPage)
	pages.POST("/cart/add", s.CartAdd)
	pages.POST("/cart/remove", s.CartRemove)
	pages.POST("/cart/clear", s.CartClear)
	pages.POST("/cart/checkout", s.Checkout)

	// Auth.
	pages.GET("/login", s.LoginPage)
	pages.POST("/login", s.Login)
	pages.POST("/logout", s.Logout)
	pages.GET("/register", s.RegisterPage)
	pages.POST("/register", s.Register)

	// Management console. Dashboard and customer management are admin-only;
	// restaurant and product management also open to restaurant operators.
	pages.GET("/dashboard", s.Dashboard, s.Protected("ADMIN"))

	clientes := pages.Group("/admin/clientes", s.Protected("ADMIN"))
	clientes.GET("", s.ClientesPage)
	clientes.POST("", s.ClienteCreate)
	clientes.GET("/:id", s.ClienteEditPage)
	clientes.POST("/:id", s.ClienteUpdate)
	clientes.POST("/:id/status", s.ClienteToggleStatus)

	restaurantes := pages.Group("/admin/restaurantes", s.Protected("ADMIN", "RESTAURANTE"))
	restaurantes.GET("", s.RestaurantesAdminPage)
	restaurantes.POST("", s.RestauranteCreate)
	restaurantes.GET("/:id", s.RestauranteEditPage)
	restaurantes.POST("/:id", s.RestauranteUpdate)
	restaurantes.POST("/:id/status", s.RestauranteToggleStatus)

	pages.GET("/admin/produtos", s.ProdutosAdminPage, s.Protected("ADMIN", "RESTAURANTE"))

	return nil
}
