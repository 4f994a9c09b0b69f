package console

import (
	"context"
	"net/http"
)

// ListProviders returns all configured LLM providers.
func (c *Client) ListProviders(ctx context.Context) ([]Provider, error) {
	var result []Provider
	if err := c.doRequest(ctx, http.MethodGet, "/provider", nil, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// GetProvider retrieves a provider by ID.
func (c *Client) GetProvider(ctx context.Context, providerID string) (*Provider, error) {
	var result Provider
	if err := c.doRequest(ctx, http.MethodGet, "/provider/"+providerID, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// UpdateProvider updates a provider's model, endpoint, key or enabled flag.
func (c *Client) UpdateProvider(ctx context.Context, providerID string, req *UpdateProviderRequest) (*Provider, error) {
	var result Provider
	if err := c.doRequest(ctx, http.MethodPatch, "/provider/"+providerID, req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// TestProvider asks the server to probe the provider's connectivity.
func (c *Client) TestProvider(ctx context.Context, providerID string) (*ProviderTestResult, error) {
	var result ProviderTestResult
	if err := c.doRequest(ctx, http.MethodPost, "/provider/"+providerID+"/test", nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
