package httpserver

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/deliverytech/console/internal/apiclient"
	"github.com/deliverytech/console/internal/logging"
)

// Categorias mirrors the fixed category set the backend understands.
var Categorias = []string{
	"Pizzaria", "Hamburgueria", "Japonesa", "Italiana", "Brasileira",
	"Mexicana", "Chinesa", "Árabe", "Vegetariana", "Doces & Sobremesas",
	"Lanches", "Saudável",
}

type homeView struct {
	Restaurantes []apiclient.Restaurante
	Categoria    string
	Categorias   []string
	LoadError    string
}

func (s *Server) Home(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "home")
	api := entryFrom(c).Session.Client()

	view := homeView{Categoria: c.QueryParam("categoria"), Categorias: Categorias}

	var err error
	if view.Categoria != "" {
		view.Restaurantes, err = api.RestaurantesByCategoria(ctx, view.Categoria)
	} else {
		view.Restaurantes, err = api.Restaurantes(ctx)
	}
	if err != nil {
		// A failed listing fetch renders the page with an empty list and a
		// banner; it never corrupts other state.
		l.Warn("restaurantes fetch failed", "error", err)
		view.LoadError = "Não foi possível carregar os restaurantes."
	}

	return c.Render(http.StatusOK, "home.html", s.page(c, "Restaurantes", view))
}

type restauranteView struct {
	Restaurante *apiclient.Restaurante
	Produtos    []apiclient.Produto
	CEP         string
	Taxa        *apiclient.TaxaEntrega
	TaxaError   string
	LoadError   string
}

func (s *Server) RestaurantePage(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "restaurante")
	api := entryFrom(c).Session.Client()

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid restaurant id")
	}

	rest, err := api.RestauranteByID(ctx, id)
	if err != nil {
		l.Warn("restaurante fetch failed", "id", id, "error", err)
		return echo.NewHTTPError(http.StatusNotFound, "restaurante não encontrado")
	}

	view := restauranteView{Restaurante: rest, CEP: c.QueryParam("cep")}

	view.Produtos, err = api.ProdutosByRestaurante(ctx, id)
	if err != nil {
		l.Warn("produtos fetch failed", "id", id, "error", err)
		view.LoadError = "Não foi possível carregar o cardápio."
	}

	if view.CEP != "" {
		view.Taxa, err = api.TaxaEntrega(ctx, id, view.CEP)
		if err != nil {
			l.Warn("taxa fetch failed", "id", id, "cep", view.CEP, "error", err)
			view.TaxaError = "Não foi possível calcular a taxa de entrega."
		}
	}

	return c.Render(http.StatusOK, "restaurante.html", s.page(c, rest.Nome, view))
}

type dashboardView struct {
	TotalClientes     int
	TotalRestaurantes int
	TotalProdutos     int
	TotalPedidos      int
	PedidosPendentes  int
	PedidosEntregues  int
	FaturamentoTotal  float64
	Recentes          []apiclient.Pedido
	LoadError         string
}

// Dashboard aggregates counts from independent listing calls; a failed call
// zeroes its card and flags the banner instead of failing the page.
func (s *Server) Dashboard(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "dashboard")
	api := entryFrom(c).Session.Client()

	var view dashboardView

	if clientes, err := api.Clientes(ctx); err == nil {
		view.TotalClientes = len(clientes)
	} else {
		l.Warn("clientes fetch failed", "error", err)
		view.LoadError = "Alguns indicadores não puderam ser carregados."
	}
	if restaurantes, err := api.Restaurantes(ctx); err == nil {
		view.TotalRestaurantes = len(restaurantes)
	} else {
		l.Warn("restaurantes fetch failed", "error", err)
		view.LoadError = "Alguns indicadores não puderam ser carregados."
	}
	if produtos, err := api.Produtos(ctx); err == nil {
		view.TotalProdutos = len(produtos)
	} else {
		l.Warn("produtos fetch failed", "error", err)
		view.LoadError = "Alguns indicadores não puderam ser carregados."
	}
	if pedidos, err := api.PedidosRecentes(ctx); err == nil {
		view.Recentes = pedidos
		view.TotalPedidos = len(pedidos)
		for _, p := range pedidos {
			switch p.Status {
			case "PENDENTE", "CRIADO":
				view.PedidosPendentes++
			case "ENTREGUE":
				view.PedidosEntregues++
			}
			view.FaturamentoTotal += p.ValorTotal
		}
	} else {
		l.Warn("pedidos fetch failed", "error", err)
		view.LoadError = "Alguns indicadores não puderam ser carregados."
	}

	return c.Render(http.StatusOK, "dashboard.html", s.page(c, "Dashboard", view))
}
