package apiclient

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

func (c *Client) Restaurantes(ctx context.Context) ([]Restaurante, error) {
	var out []Restaurante
	if err := c.do(ctx, http.MethodGet, "/restaurantes", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) RestauranteByID(ctx context.Context, id int64) (*Restaurante, error) {
	var out Restaurante
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/restaurantes/%d", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) RestaurantesByCategoria(ctx context.Context, categoria string) ([]Restaurante, error) {
	var out []Restaurante
	path := "/restaurantes/categoria/" + url.PathEscape(categoria)
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateRestaurante(ctx context.Context, in RestauranteInput) (*Restaurante, error) {
	var out Restaurante
	if err := c.do(ctx, http.MethodPost, "/restaurantes", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateRestaurante(ctx context.Context, id int64, in RestauranteInput) (*Restaurante, error) {
	var out Restaurante
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/restaurantes/%d", id), in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ToggleRestauranteStatus(ctx context.Context, id int64) (*Restaurante, error) {
	var out Restaurante
	if err := c.do(ctx, http.MethodPatch, fmt.Sprintf("/restaurantes/%d/status", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// TaxaEntrega quotes the delivery fee from a restaurant to a CEP.
func (c *Client) TaxaEntrega(ctx context.Context, restauranteID int64, cep string) (*TaxaEntrega, error) {
	var out TaxaEntrega
	path := fmt.Sprintf("/restaurantes/%d/taxa-entrega/%s", restauranteID, url.PathEscape(cep))
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
