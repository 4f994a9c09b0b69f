package console_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"kbconsole/sdk/console"
)

// adminServer is a mock implementation of the admin API for testing.
type adminServer struct {
	server *httptest.Server

	mu        sync.RWMutex
	kbs       map[string]*console.KnowledgeBase
	documents map[string]*console.Document
	plugins   map[string]*console.Plugin
	providers map[string]*console.Provider
	feeds     map[string]*console.Feed
	grants    map[string]*console.PermissionGrant
	seq       int
}

func newAdminServer() *adminServer {
	as := &adminServer{
		kbs:       make(map[string]*console.KnowledgeBase),
		documents: make(map[string]*console.Document),
		plugins:   make(map[string]*console.Plugin),
		providers: make(map[string]*console.Provider),
		feeds:     make(map[string]*console.Feed),
		grants:    make(map[string]*console.PermissionGrant),
	}

	as.providers["anthropic"] = &console.Provider{
		ID: "anthropic", Name: "Anthropic", Kind: "anthropic",
		Model: "claude-sonnet-4-5", Enabled: true, Updated: console.Now(),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/health", as.handleHealth)
	mux.HandleFunc("/kb", as.handleKBs)
	mux.HandleFunc("/kb/", as.handleKB)
	mux.HandleFunc("/document/", as.handleDocument)
	mux.HandleFunc("/plugin", as.handlePlugins)
	mux.HandleFunc("/plugin/", as.handlePlugin)
	mux.HandleFunc("/provider", as.handleProviders)
	mux.HandleFunc("/provider/", as.handleProvider)
	mux.HandleFunc("/feed", as.handleFeeds)
	mux.HandleFunc("/feed/", as.handleFeed)
	mux.HandleFunc("/role", as.handleRoles)
	mux.HandleFunc("/role/", as.handleRole)
	mux.HandleFunc("/grant", as.handleGrants)
	mux.HandleFunc("/grant/", as.handleGrant)
	mux.HandleFunc("/experience", as.handleExperiences)
	mux.HandleFunc("/experience/", as.handleExperience)

	as.server = httptest.NewServer(mux)
	return as
}

func (as *adminServer) Close()      { as.server.Close() }
func (as *adminServer) URL() string { return as.server.URL }

func (as *adminServer) nextID(prefix string) string {
	as.seq++
	return fmt.Sprintf("%s_%d", prefix, as.seq)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func (as *adminServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, console.HealthResponse{Status: "ok", Version: "test"})
}

func (as *adminServer) handleKBs(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		as.mu.RLock()
		defer as.mu.RUnlock()
		list := make([]console.KnowledgeBase, 0, len(as.kbs))
		for _, kb := range as.kbs {
			list = append(list, *kb)
		}
		writeJSON(w, list)
	case http.MethodPost:
		var req console.CreateKnowledgeBaseRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		as.mu.Lock()
		defer as.mu.Unlock()
		kb := &console.KnowledgeBase{
			ID: as.nextID("kb"), Name: req.Name,
			Created: console.Now(), Updated: console.Now(),
		}
		if req.Description != nil {
			kb.Description = *req.Description
		}
		as.kbs[kb.ID] = kb
		writeJSON(w, kb)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (as *adminServer) handleKB(w http.ResponseWriter, r *http.Request) {
	parts := strings.Split(strings.TrimPrefix(r.URL.Path, "/kb/"), "/")
	kbID := parts[0]

	as.mu.Lock()
	defer as.mu.Unlock()
	kb, ok := as.kbs[kbID]
	if !ok {
		http.Error(w, "knowledge base not found", http.StatusNotFound)
		return
	}

	if len(parts) == 1 {
		if r.Method != http.MethodDelete {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		delete(as.kbs, kbID)
		for id, doc := range as.documents {
			if doc.KnowledgeBaseID == kbID {
				delete(as.documents, id)
			}
		}
		writeJSON(w, true)
		return
	}

	if parts[1] != "document" {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}

	switch r.Method {
	case http.MethodGet:
		list := make([]console.Document, 0)
		for _, doc := range as.documents {
			if doc.KnowledgeBaseID == kbID {
				list = append(list, *doc)
			}
		}
		writeJSON(w, list)
	case http.MethodPost:
		var req console.CreateDocumentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		doc := &console.Document{
			ID: as.nextID("doc"), KnowledgeBaseID: kbID,
			Title: req.Title, Content: req.Content, Tags: req.Tags,
			Created: console.Now(), Updated: console.Now(),
		}
		if req.Source != nil {
			doc.Source = *req.Source
		}
		as.documents[doc.ID] = doc
		kb.Documents++
		writeJSON(w, doc)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (as *adminServer) handleDocument(w http.ResponseWriter, r *http.Request) {
	docID := strings.TrimPrefix(r.URL.Path, "/document/")

	as.mu.Lock()
	defer as.mu.Unlock()
	doc, ok := as.documents[docID]
	if !ok {
		http.Error(w, "document not found", http.StatusNotFound)
		return
	}

	switch r.Method {
	case http.MethodGet:
		writeJSON(w, doc)
	case http.MethodPatch:
		var req console.UpdateDocumentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if req.Title != nil {
			doc.Title = *req.Title
		}
		if req.Content != nil {
			doc.Content = *req.Content
		}
		if req.Tags != nil {
			doc.Tags = req.Tags
		}
		doc.Updated = console.Now()
		writeJSON(w, doc)
	case http.MethodDelete:
		delete(as.documents, docID)
		writeJSON(w, true)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (as *adminServer) handlePlugins(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		as.mu.RLock()
		defer as.mu.RUnlock()
		list := make([]console.Plugin, 0, len(as.plugins))
		for _, p := range as.plugins {
			list = append(list, *p)
		}
		writeJSON(w, list)
	case http.MethodPost:
		var req console.RegisterPluginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		as.mu.Lock()
		defer as.mu.Unlock()
		p := &console.Plugin{
			ID: as.nextID("plg"), Name: req.Name, Version: req.Version,
			Endpoint: req.Endpoint, Enabled: true, Registered: console.Now(),
		}
		if req.Description != nil {
			p.Description = *req.Description
		}
		as.plugins[p.ID] = p
		writeJSON(w, p)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (as *adminServer) handlePlugin(w http.ResponseWriter, r *http.Request) {
	pluginID := strings.TrimPrefix(r.URL.Path, "/plugin/")

	as.mu.Lock()
	defer as.mu.Unlock()
	p, ok := as.plugins[pluginID]
	if !ok {
		http.Error(w, "plugin not found", http.StatusNotFound)
		return
	}

	switch r.Method {
	case http.MethodGet:
		writeJSON(w, p)
	case http.MethodPatch:
		var req struct {
			Enabled *bool `json:"enabled"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if req.Enabled != nil {
			p.Enabled = *req.Enabled
		}
		writeJSON(w, p)
	case http.MethodDelete:
		delete(as.plugins, pluginID)
		writeJSON(w, true)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (as *adminServer) handleProviders(w http.ResponseWriter, r *http.Request) {
	as.mu.RLock()
	defer as.mu.RUnlock()
	list := make([]console.Provider, 0, len(as.providers))
	for _, p := range as.providers {
		list = append(list, *p)
	}
	writeJSON(w, list)
}

func (as *adminServer) handleProvider(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/provider/")
	providerID := strings.TrimSuffix(path, "/test")

	as.mu.Lock()
	defer as.mu.Unlock()
	p, ok := as.providers[providerID]
	if !ok {
		http.Error(w, "provider not found", http.StatusNotFound)
		return
	}

	if strings.HasSuffix(path, "/test") {
		writeJSON(w, console.ProviderTestResult{OK: true, LatencyMS: 42})
		return
	}

	switch r.Method {
	case http.MethodGet:
		writeJSON(w, p)
	case http.MethodPatch:
		var req console.UpdateProviderRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if req.Model != nil {
			p.Model = *req.Model
		}
		if req.Enabled != nil {
			p.Enabled = *req.Enabled
		}
		p.Updated = console.Now()
		writeJSON(w, p)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (as *adminServer) handleFeeds(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		as.mu.RLock()
		defer as.mu.RUnlock()
		list := make([]console.Feed, 0, len(as.feeds))
		for _, f := range as.feeds {
			list = append(list, *f)
		}
		writeJSON(w, list)
	case http.MethodPost:
		var req console.CreateFeedRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		as.mu.Lock()
		defer as.mu.Unlock()
		f := &console.Feed{
			ID: as.nextID("feed"), Name: req.Name,
			KnowledgeBaseID: req.KnowledgeBaseID, Source: req.Source,
			Schedule: req.Schedule, Enabled: true, Created: console.Now(),
		}
		as.feeds[f.ID] = f
		writeJSON(w, f)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (as *adminServer) handleFeed(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/feed/")
	feedID := strings.TrimSuffix(path, "/run")

	as.mu.Lock()
	defer as.mu.Unlock()
	f, ok := as.feeds[feedID]
	if !ok {
		http.Error(w, "feed not found", http.StatusNotFound)
		return
	}

	if strings.HasSuffix(path, "/run") {
		now := console.Now()
		f.LastRun = &now
		writeJSON(w, f)
		return
	}

	if r.Method == http.MethodDelete {
		delete(as.feeds, feedID)
		writeJSON(w, true)
		return
	}
	http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
}

func (as *adminServer) handleRoles(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, []console.Role{
		{ID: "admin", Name: "Administrator"},
		{ID: "editor", Name: "Editor"},
	})
}

func (as *adminServer) handleRole(w http.ResponseWriter, r *http.Request) {
	parts := strings.Split(strings.TrimPrefix(r.URL.Path, "/role/"), "/")
	if len(parts) != 2 || parts[1] != "grant" {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	as.mu.RLock()
	defer as.mu.RUnlock()
	list := make([]console.PermissionGrant, 0)
	for _, g := range as.grants {
		if g.RoleID == parts[0] {
			list = append(list, *g)
		}
	}
	writeJSON(w, list)
}

func (as *adminServer) handleGrants(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req console.GrantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	as.mu.Lock()
	defer as.mu.Unlock()
	g := &console.PermissionGrant{
		ID: as.nextID("grant"), RoleID: req.RoleID,
		Resource: req.Resource, Action: req.Action,
	}
	as.grants[g.ID] = g
	writeJSON(w, g)
}

func (as *adminServer) handleGrant(w http.ResponseWriter, r *http.Request) {
	grantID := strings.TrimPrefix(r.URL.Path, "/grant/")
	as.mu.Lock()
	defer as.mu.Unlock()
	if _, ok := as.grants[grantID]; !ok {
		http.Error(w, "grant not found", http.StatusNotFound)
		return
	}
	delete(as.grants, grantID)
	writeJSON(w, true)
}

var testExperiences = []console.Experience{
	{
		ID:    "weekly-digest",
		Title: "Weekly Digest",
		Steps: []console.ExperienceStep{
			{Key: "fetch", Type: "plugin", Title: "Fetch documents"},
			{Key: "synthesize", Type: "llm", Title: "Synthesize"},
		},
	},
}

func (as *adminServer) handleExperiences(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, testExperiences)
}

func (as *adminServer) handleExperience(w http.ResponseWriter, r *http.Request) {
	experienceID := strings.TrimPrefix(r.URL.Path, "/experience/")
	for _, exp := range testExperiences {
		if exp.ID == experienceID {
			writeJSON(w, exp)
			return
		}
	}
	http.Error(w, "experience not found", http.StatusNotFound)
}

// Tests

func TestNewClient(t *testing.T) {
	t.Run("basic client creation", func(t *testing.T) {
		client := console.NewClient("http://localhost:8000")
		if client == nil {
			t.Fatal("expected non-nil client")
		}
	})

	t.Run("client with options", func(t *testing.T) {
		httpClient := &http.Client{Timeout: 10 * time.Second}
		client := console.NewClient("http://localhost:8000/",
			console.WithHTTPClient(httpClient),
			console.WithToken("secret"),
			console.WithTimeout(5*time.Second),
		)
		if client == nil {
			t.Fatal("expected non-nil client")
		}
	})
}

func TestHealth(t *testing.T) {
	srv := newAdminServer()
	defer srv.Close()

	client := console.NewClient(srv.URL())
	health, err := client.Health(context.Background())
	if err != nil {
		t.Fatalf("Health() error = %v", err)
	}
	if health.Status != "ok" {
		t.Errorf("status = %q", health.Status)
	}
}

func TestKnowledgeBaseOperations(t *testing.T) {
	srv := newAdminServer()
	defer srv.Close()

	client := console.NewClient(srv.URL())
	ctx := context.Background()

	kb, err := client.CreateKnowledgeBase(ctx, &console.CreateKnowledgeBaseRequest{
		Name:        "Runbooks",
		Description: console.String("Operational runbooks"),
	})
	if err != nil {
		t.Fatalf("CreateKnowledgeBase() error = %v", err)
	}
	if kb.ID == "" || kb.Name != "Runbooks" {
		t.Errorf("kb = %+v", kb)
	}

	t.Run("document lifecycle", func(t *testing.T) {
		doc, err := client.CreateDocument(ctx, kb.ID, &console.CreateDocumentRequest{
			Title:   "Incident response",
			Content: "# Incident response\n\nPage the on-call first.",
			Tags:    []string{"ops"},
		})
		if err != nil {
			t.Fatalf("CreateDocument() error = %v", err)
		}

		docs, err := client.ListDocuments(ctx, kb.ID, nil)
		if err != nil {
			t.Fatalf("ListDocuments() error = %v", err)
		}
		if len(docs) != 1 {
			t.Fatalf("expected one document, got %d", len(docs))
		}

		updated, err := client.UpdateDocument(ctx, doc.ID, &console.UpdateDocumentRequest{
			Title: console.String("Incident response v2"),
		})
		if err != nil {
			t.Fatalf("UpdateDocument() error = %v", err)
		}
		if updated.Title != "Incident response v2" {
			t.Errorf("title = %q", updated.Title)
		}

		if err := client.DeleteDocument(ctx, doc.ID); err != nil {
			t.Fatalf("DeleteDocument() error = %v", err)
		}
		if _, err := client.GetDocument(ctx, doc.ID); err == nil {
			t.Error("expected error for deleted document")
		}
	})

	t.Run("delete knowledge base", func(t *testing.T) {
		if err := client.DeleteKnowledgeBase(ctx, kb.ID); err != nil {
			t.Fatalf("DeleteKnowledgeBase() error = %v", err)
		}
		kbs, err := client.ListKnowledgeBases(ctx)
		if err != nil {
			t.Fatalf("ListKnowledgeBases() error = %v", err)
		}
		if len(kbs) != 0 {
			t.Errorf("expected no knowledge bases, got %d", len(kbs))
		}
	})
}

func TestPluginOperations(t *testing.T) {
	srv := newAdminServer()
	defer srv.Close()

	client := console.NewClient(srv.URL())
	ctx := context.Background()

	p, err := client.RegisterPlugin(ctx, &console.RegisterPluginRequest{
		Name:     "web-search",
		Version:  "1.2.0",
		Endpoint: "https://plugins.internal/web-search",
	})
	if err != nil {
		t.Fatalf("RegisterPlugin() error = %v", err)
	}
	if !p.Enabled {
		t.Error("expected new plugin to be enabled")
	}

	disabled, err := client.SetPluginEnabled(ctx, p.ID, false)
	if err != nil {
		t.Fatalf("SetPluginEnabled() error = %v", err)
	}
	if disabled.Enabled {
		t.Error("expected plugin to be disabled")
	}

	if err := client.DeletePlugin(ctx, p.ID); err != nil {
		t.Fatalf("DeletePlugin() error = %v", err)
	}
	if _, err := client.GetPlugin(ctx, p.ID); err == nil {
		t.Error("expected error for deleted plugin")
	}
}

func TestProviderOperations(t *testing.T) {
	srv := newAdminServer()
	defer srv.Close()

	client := console.NewClient(srv.URL())
	ctx := context.Background()

	providers, err := client.ListProviders(ctx)
	if err != nil {
		t.Fatalf("ListProviders() error = %v", err)
	}
	if len(providers) == 0 {
		t.Fatal("expected seeded provider")
	}

	updated, err := client.UpdateProvider(ctx, "anthropic", &console.UpdateProviderRequest{
		Model: console.String("claude-haiku-4-5"),
	})
	if err != nil {
		t.Fatalf("UpdateProvider() error = %v", err)
	}
	if updated.Model != "claude-haiku-4-5" {
		t.Errorf("model = %q", updated.Model)
	}

	result, err := client.TestProvider(ctx, "anthropic")
	if err != nil {
		t.Fatalf("TestProvider() error = %v", err)
	}
	if !result.OK {
		t.Errorf("test result = %+v", result)
	}
}

func TestFeedOperations(t *testing.T) {
	srv := newAdminServer()
	defer srv.Close()

	client := console.NewClient(srv.URL())
	ctx := context.Background()

	feed, err := client.CreateFeed(ctx, &console.CreateFeedRequest{
		Name:            "docs sync",
		KnowledgeBaseID: "kb_1",
		Source:          "https://docs.internal/feed.xml",
		Schedule:        "0 6 * * *",
	})
	if err != nil {
		t.Fatalf("CreateFeed() error = %v", err)
	}

	triggered, err := client.TriggerFeed(ctx, feed.ID)
	if err != nil {
		t.Fatalf("TriggerFeed() error = %v", err)
	}
	if triggered.LastRun == nil {
		t.Error("expected last_run after trigger")
	}

	if err := client.DeleteFeed(ctx, feed.ID); err != nil {
		t.Fatalf("DeleteFeed() error = %v", err)
	}
}

func TestPermissionOperations(t *testing.T) {
	srv := newAdminServer()
	defer srv.Close()

	client := console.NewClient(srv.URL())
	ctx := context.Background()

	roles, err := client.ListRoles(ctx)
	if err != nil {
		t.Fatalf("ListRoles() error = %v", err)
	}
	if len(roles) == 0 {
		t.Fatal("expected roles")
	}

	grant, err := client.Grant(ctx, &console.GrantRequest{
		RoleID: "editor", Resource: "kb", Action: "write",
	})
	if err != nil {
		t.Fatalf("Grant() error = %v", err)
	}

	grants, err := client.ListGrants(ctx, "editor")
	if err != nil {
		t.Fatalf("ListGrants() error = %v", err)
	}
	if len(grants) != 1 {
		t.Errorf("grants = %+v", grants)
	}

	if err := client.Revoke(ctx, grant.ID); err != nil {
		t.Fatalf("Revoke() error = %v", err)
	}
}

func TestExperienceCatalog(t *testing.T) {
	srv := newAdminServer()
	defer srv.Close()

	client := console.NewClient(srv.URL())
	ctx := context.Background()

	experiences, err := client.ListExperiences(ctx)
	if err != nil {
		t.Fatalf("ListExperiences() error = %v", err)
	}
	if len(experiences) == 0 {
		t.Fatal("expected experiences")
	}

	exp, err := client.GetExperience(ctx, "weekly-digest")
	if err != nil {
		t.Fatalf("GetExperience() error = %v", err)
	}
	if len(exp.Steps) != 2 {
		t.Errorf("steps = %+v", exp.Steps)
	}
}

func TestErrorHandling(t *testing.T) {
	srv := newAdminServer()
	defer srv.Close()

	client := console.NewClient(srv.URL())
	ctx := context.Background()

	t.Run("404 error", func(t *testing.T) {
		_, err := client.GetDocument(ctx, "nonexistent")
		if err == nil {
			t.Fatal("expected error for missing document")
		}
		if !strings.Contains(err.Error(), "404") {
			t.Errorf("expected 404 in error, got: %v", err)
		}
	})

	t.Run("context cancellation", func(t *testing.T) {
		cancelled, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := client.ListPlugins(cancelled)
		if err == nil {
			t.Error("expected error from cancelled context")
		}
	})
}
