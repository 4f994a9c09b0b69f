package console

import (
	"context"
	"net/http"
)

// ListExperiences returns the experience catalog.
func (c *Client) ListExperiences(ctx context.Context) ([]Experience, error) {
	var result []Experience
	if err := c.doRequest(ctx, http.MethodGet, "/experience", nil, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// GetExperience retrieves an experience, including its declared step
// manifest.
func (c *Client) GetExperience(ctx context.Context, experienceID string) (*Experience, error) {
	var result Experience
	if err := c.doRequest(ctx, http.MethodGet, "/experience/"+experienceID, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
