package apiclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

func (c *Client) Login(ctx context.Context, creds Credentials) (*LoginResponse, error) {
	var out LoginResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login", creds, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Me hydrates the identity behind token. The token is passed explicitly
// because the login flow needs it before the client is configured with one.
func (c *Client) Me(ctx context.Context, token string) (*Me, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/auth/me", nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errorFromResponse(resp)
	}
	var out Me
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &out, nil
}

func (c *Client) Register(ctx context.Context, in RegisterInput) error {
	return c.do(ctx, http.MethodPost, "/auth/register", in, nil)
}
