package httpserver

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/deliverytech/console/internal/apiclient"
	"github.com/deliverytech/console/internal/cart"
	"github.com/deliverytech/console/internal/events"
	"github.com/deliverytech/console/internal/forms"
	"github.com/deliverytech/console/internal/logging"
)

type cartView struct {
	Lines  []cart.Line
	Total  float64
	Errors forms.Errors
}

func (s *Server) CartPage(c echo.Context) error {
	e := entryFrom(c)
	return c.Render(http.StatusOK, "cart.html", s.page(c, "Carrinho", cartView{
		Lines: e.Cart.Lines(),
		Total: e.Cart.Total(),
	}))
}

// CartAdd takes the product snapshot from the listing form, the same way the
// browser UI adds the product it already holds in memory.
func (s *Server) CartAdd(c echo.Context) error {
	e := entryFrom(c)

	id, err := strconv.ParseInt(c.FormValue("produto_id"), 10, 64)
	if err != nil || id <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid product")
	}
	preco, err := strconv.ParseFloat(c.FormValue("preco"), 64)
	if err != nil || preco < 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid price")
	}
	nome := c.FormValue("nome")
	if nome == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "product name required")
	}

	line := e.Cart.Add(cart.Product{ID: id, Name: nome, Price: preco})
	s.Events.Publish(c.Request().Context(), events.TopicCart, e.ID, map[string]any{
		"event":      "cart_add",
		"product_id": line.ProductID,
		"quantity":   line.Quantity,
	})

	setFlash(c, "success", nome+" adicionado ao carrinho!")
	return c.Redirect(http.StatusSeeOther, safeReturnTo(c.FormValue("return_to")))
}

func (s *Server) CartRemove(c echo.Context) error {
	e := entryFrom(c)

	id, err := strconv.ParseInt(c.FormValue("produto_id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid product")
	}
	// Removing an absent line is a no-op, not an error.
	if e.Cart.Remove(id) {
		s.Events.Publish(c.Request().Context(), events.TopicCart, e.ID, map[string]any{
			"event":      "cart_remove",
			"product_id": id,
		})
		setFlash(c, "info", "Item removido do carrinho.")
	}
	return c.Redirect(http.StatusSeeOther, "/cart")
}

func (s *Server) CartClear(c echo.Context) error {
	e := entryFrom(c)
	e.Cart.Clear()
	s.Events.Publish(c.Request().Context(), events.TopicCart, e.ID, map[string]any{
		"event": "cart_clear",
	})
	setFlash(c, "info", "Carrinho esvaziado.")
	return c.Redirect(http.StatusSeeOther, "/cart")
}

// Checkout turns the cart into a backend order. It requires a logged-in
// session but is not role-gated; an anonymous attempt gets a flash pointing
// at login, matching the storefront flow.
func (s *Server) Checkout(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "checkout")
	e := entryFrom(c)

	if !e.Session.IsAuthenticated() {
		setFlash(c, "error", "Você precisa fazer login para finalizar o pedido.")
		return c.Redirect(http.StatusSeeOther, "/login?return_to=/cart")
	}
	lines := e.Cart.Lines()
	if len(lines) == 0 {
		setFlash(c, "error", "Seu carrinho está vazio.")
		return c.Redirect(http.StatusSeeOther, "/cart")
	}

	restauranteID, _ := strconv.ParseInt(c.FormValue("restaurante_id"), 10, 64)
	in := apiclient.PedidoInput{
		ClienteID:       e.Session.Identity().ID,
		RestauranteID:   restauranteID,
		EnderecoEntrega: c.FormValue("endereco"),
		CepEntrega:      c.FormValue("cep"),
		Observacoes:     c.FormValue("observacoes"),
		FormaPagamento:  c.FormValue("forma_pagamento"),
	}
	for _, line := range lines {
		in.Itens = append(in.Itens, apiclient.ItemPedidoInput{
			ProdutoID:  line.ProductID,
			Quantidade: line.Quantity,
		})
	}

	if errs := forms.Check(in); errs != nil {
		return c.Render(http.StatusOK, "cart.html", s.page(c, "Carrinho", cartView{
			Lines:  lines,
			Total:  e.Cart.Total(),
			Errors: errs,
		}))
	}

	pedido, err := e.Session.Client().CreatePedido(ctx, in)
	if err != nil {
		l.Warn("pedido create failed", "error", err)
		setFlash(c, "error", backendMessage(err, "Não foi possível enviar o pedido."))
		return c.Redirect(http.StatusSeeOther, "/cart")
	}

	e.Cart.Clear()
	s.Events.Publish(ctx, events.TopicOrder, e.ID, map[string]any{
		"event":     "order_placed",
		"pedido_id": pedido.ID,
		"total":     pedido.ValorTotal,
	})

	l.Info("pedido created", "pedido_id", pedido.ID)
	setFlash(c, "success", fmt.Sprintf("Pedido #%d enviado com sucesso!", pedido.ID))
	return c.Redirect(http.StatusSeeOther, "/")
}
