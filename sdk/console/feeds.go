package console

import (
	"context"
	"net/http"
)

// ListFeeds returns all scheduled feed jobs.
func (c *Client) ListFeeds(ctx context.Context) ([]Feed, error) {
	var result []Feed
	if err := c.doRequest(ctx, http.MethodGet, "/feed", nil, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// CreateFeed schedules a new feed job.
func (c *Client) CreateFeed(ctx context.Context, req *CreateFeedRequest) (*Feed, error) {
	var result Feed
	if err := c.doRequest(ctx, http.MethodPost, "/feed", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// TriggerFeed runs a feed immediately, outside its schedule.
func (c *Client) TriggerFeed(ctx context.Context, feedID string) (*Feed, error) {
	var result Feed
	if err := c.doRequest(ctx, http.MethodPost, "/feed/"+feedID+"/run", nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// DeleteFeed removes a feed job.
func (c *Client) DeleteFeed(ctx context.Context, feedID string) error {
	var result bool
	return c.doRequest(ctx, http.MethodDelete, "/feed/"+feedID, nil, &result)
}
