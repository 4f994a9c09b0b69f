package console

import (
	"context"
	"net/http"
)

// ListPlugins returns the plugin registry.
func (c *Client) ListPlugins(ctx context.Context) ([]Plugin, error) {
	var result []Plugin
	if err := c.doRequest(ctx, http.MethodGet, "/plugin", nil, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// GetPlugin retrieves a plugin by ID.
func (c *Client) GetPlugin(ctx context.Context, pluginID string) (*Plugin, error) {
	var result Plugin
	if err := c.doRequest(ctx, http.MethodGet, "/plugin/"+pluginID, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// RegisterPlugin adds a plugin to the registry.
func (c *Client) RegisterPlugin(ctx context.Context, req *RegisterPluginRequest) (*Plugin, error) {
	var result Plugin
	if err := c.doRequest(ctx, http.MethodPost, "/plugin", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// SetPluginEnabled enables or disables a plugin.
func (c *Client) SetPluginEnabled(ctx context.Context, pluginID string, enabled bool) (*Plugin, error) {
	body := map[string]bool{"enabled": enabled}
	var result Plugin
	if err := c.doRequest(ctx, http.MethodPatch, "/plugin/"+pluginID, body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// DeletePlugin removes a plugin from the registry.
func (c *Client) DeletePlugin(ctx context.Context, pluginID string) error {
	var result bool
	return c.doRequest(ctx, http.MethodDelete, "/plugin/"+pluginID, nil, &result)
}
