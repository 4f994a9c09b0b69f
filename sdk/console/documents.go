package console

import (
	"context"
	"fmt"
	"net/http"
)

// ListKnowledgeBases returns all knowledge bases.
func (c *Client) ListKnowledgeBases(ctx context.Context) ([]KnowledgeBase, error) {
	var result []KnowledgeBase
	if err := c.doRequest(ctx, http.MethodGet, "/kb", nil, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// CreateKnowledgeBase creates a new knowledge base.
func (c *Client) CreateKnowledgeBase(ctx context.Context, req *CreateKnowledgeBaseRequest) (*KnowledgeBase, error) {
	var result KnowledgeBase
	if err := c.doRequest(ctx, http.MethodPost, "/kb", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// DeleteKnowledgeBase deletes a knowledge base and its documents.
func (c *Client) DeleteKnowledgeBase(ctx context.Context, kbID string) error {
	var result bool
	return c.doRequest(ctx, http.MethodDelete, "/kb/"+kbID, nil, &result)
}

// ListDocuments returns the documents of a knowledge base.
func (c *Client) ListDocuments(ctx context.Context, kbID string, limit *int) ([]Document, error) {
	path := "/kb/" + kbID + "/document"
	if limit != nil {
		path = fmt.Sprintf("%s?limit=%d", path, *limit)
	}

	var result []Document
	if err := c.doRequest(ctx, http.MethodGet, path, nil, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// GetDocument retrieves a document with its content.
func (c *Client) GetDocument(ctx context.Context, documentID string) (*Document, error) {
	var result Document
	if err := c.doRequest(ctx, http.MethodGet, "/document/"+documentID, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// CreateDocument adds a document to a knowledge base.
func (c *Client) CreateDocument(ctx context.Context, kbID string, req *CreateDocumentRequest) (*Document, error) {
	var result Document
	if err := c.doRequest(ctx, http.MethodPost, "/kb/"+kbID+"/document", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// UpdateDocument updates a document's title, content or tags.
func (c *Client) UpdateDocument(ctx context.Context, documentID string, req *UpdateDocumentRequest) (*Document, error) {
	var result Document
	if err := c.doRequest(ctx, http.MethodPatch, "/document/"+documentID, req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// DeleteDocument removes a document.
func (c *Client) DeleteDocument(ctx context.Context, documentID string) error {
	var result bool
	return c.doRequest(ctx, http.MethodDelete, "/document/"+documentID, nil, &result)
}
