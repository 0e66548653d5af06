package apiclient

import (
	"context"
	"fmt"
	"net/http"
)

func (c *Client) Clientes(ctx context.Context) ([]Cliente, error) {
	var out []Cliente
	if err := c.do(ctx, http.MethodGet, "/clientes", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ClienteByID(ctx context.Context, id int64) (*Cliente, error) {
	var out Cliente
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/clientes/%d", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateCliente(ctx context.Context, in ClienteInput) (*Cliente, error) {
	var out Cliente
	if err := c.do(ctx, http.MethodPost, "/clientes", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateCliente(ctx context.Context, id int64, in ClienteInput) (*Cliente, error) {
	var out Cliente
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/clientes/%d", id), in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ToggleClienteStatus flips the ativo flag server-side.
func (c *Client) ToggleClienteStatus(ctx context.Context, id int64) (*Cliente, error) {
	var out Cliente
	if err := c.do(ctx, http.MethodPatch, fmt.Sprintf("/clientes/%d/status", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
