package console

// KnowledgeBase groups documents under one searchable corpus.
type KnowledgeBase struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Documents   int     `json:"documents"`
	Created     float64 `json:"created"`
	Updated     float64 `json:"updated"`
}

// Document is one entry in a knowledge base.
type Document struct {
	ID              string   `json:"id"`
	KnowledgeBaseID string   `json:"knowledge_base_id"`
	Title           string   `json:"title"`
	Source          string   `json:"source,omitempty"`
	Content         string   `json:"content,omitempty"`
	Tags            []string `json:"tags,omitempty"`
	Created         float64  `json:"created"`
	Updated         float64  `json:"updated"`
}

// CreateKnowledgeBaseRequest is the request body for creating a knowledge base.
type CreateKnowledgeBaseRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
}

// CreateDocumentRequest is the request body for adding a document.
type CreateDocumentRequest struct {
	Title   string   `json:"title"`
	Source  *string  `json:"source,omitempty"`
	Content string   `json:"content"`
	Tags    []string `json:"tags,omitempty"`
}

// UpdateDocumentRequest is the request body for updating a document.
type UpdateDocumentRequest struct {
	Title   *string  `json:"title,omitempty"`
	Content *string  `json:"content,omitempty"`
	Tags    []string `json:"tags,omitempty"`
}
