package console

import (
	"context"
	"net/http"
)

// ListRoles returns all roles.
func (c *Client) ListRoles(ctx context.Context) ([]Role, error) {
	var result []Role
	if err := c.doRequest(ctx, http.MethodGet, "/role", nil, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// ListGrants returns the permission grants of a role.
func (c *Client) ListGrants(ctx context.Context, roleID string) ([]PermissionGrant, error) {
	var result []PermissionGrant
	if err := c.doRequest(ctx, http.MethodGet, "/role/"+roleID+"/grant", nil, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// Grant allows a role an action on a resource.
func (c *Client) Grant(ctx context.Context, req *GrantRequest) (*PermissionGrant, error) {
	var result PermissionGrant
	if err := c.doRequest(ctx, http.MethodPost, "/grant", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Revoke removes a permission grant.
func (c *Client) Revoke(ctx context.Context, grantID string) error {
	var result bool
	return c.doRequest(ctx, http.MethodDelete, "/grant/"+grantID, nil, &result)
}
