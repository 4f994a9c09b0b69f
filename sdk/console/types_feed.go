package console

// Feed is a scheduled ingestion job that pulls content into a knowledge base.
type Feed struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	KnowledgeBaseID string   `json:"knowledge_base_id"`
	Source          string   `json:"source"`
	Schedule        string   `json:"schedule"` // cron expression, opaque to the console
	Enabled         bool     `json:"enabled"`
	LastRun         *float64 `json:"last_run,omitempty"`
	Created         float64  `json:"created"`
}

// CreateFeedRequest is the request body for creating a feed.
type CreateFeedRequest struct {
	Name            string `json:"name"`
	KnowledgeBaseID string `json:"knowledge_base_id"`
	Source          string `json:"source"`
	Schedule        string `json:"schedule"`
}
