package apiclient

import (
	"context"
	"fmt"
	"net/http"
)

func (c *Client) ProdutosByRestaurante(ctx context.Context, restauranteID int64) ([]Produto, error) {
	var out []Produto
	path := fmt.Sprintf("/produtos/restaurante/%d", restauranteID)
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Produtos lists every product; the dashboard uses it for its count card.
func (c *Client) Produtos(ctx context.Context) ([]Produto, error) {
	var out []Produto
	if err := c.do(ctx, http.MethodGet, "/produtos", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreatePedido(ctx context.Context, in PedidoInput) (*Pedido, error) {
	var out Pedido
	if err := c.do(ctx, http.MethodPost, "/pedidos", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) PedidosRecentes(ctx context.Context) ([]Pedido, error) {
	var out []Pedido
	if err := c.do(ctx, http.MethodGet, "/pedidos/recentes", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}
