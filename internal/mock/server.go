// Package mock implements an in-memory admin backend for local
// development. It serves the same API surface the console client
// speaks, including the streaming experience run endpoint.
package mock

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strconv"

	"github.com/go-chi/chi/v5"

	"kbconsole/sdk/console"
)

const version = "0.3.0-mock"

type Server struct {
	store        *store
	anthropicKey string
}

func NewServer() *Server {
	return &Server{
		store:        newStore(),
		anthropicKey: os.Getenv("ANTHROPIC_API_KEY"),
	}
}

// Router builds the chi router for the mock backend.
func (s *Server) Router() *chi.Mux {
	r := chi.NewRouter()

	r.Get("/health", s.handleHealth)

	r.Route("/kb", func(r chi.Router) {
		r.Get("/", s.handleListKBs)
		r.Post("/", s.handleCreateKB)
		r.Delete("/{id}", s.handleDeleteKB)
		r.Get("/{id}/document", s.handleListDocuments)
		r.Post("/{id}/document", s.handleCreateDocument)
	})
	r.Route("/document/{id}", func(r chi.Router) {
		r.Get("/", s.handleGetDocument)
		r.Patch("/", s.handleUpdateDocument)
		r.Delete("/", s.handleDeleteDocument)
	})

	r.Route("/plugin", func(r chi.Router) {
		r.Get("/", s.handleListPlugins)
		r.Post("/", s.handleRegisterPlugin)
		r.Get("/{id}", s.handleGetPlugin)
		r.Patch("/{id}", s.handleUpdatePlugin)
		r.Delete("/{id}", s.handleDeletePlugin)
	})

	r.Route("/provider", func(r chi.Router) {
		r.Get("/", s.handleListProviders)
		r.Get("/{id}", s.handleGetProvider)
		r.Patch("/{id}", s.handleUpdateProvider)
		r.Post("/{id}/test", s.handleTestProvider)
	})

	r.Route("/feed", func(r chi.Router) {
		r.Get("/", s.handleListFeeds)
		r.Post("/", s.handleCreateFeed)
		r.Post("/{id}/run", s.handleTriggerFeed)
		r.Delete("/{id}", s.handleDeleteFeed)
	})

	r.Get("/role", s.handleListRoles)
	r.Get("/role/{id}/grant", s.handleListGrants)
	r.Post("/grant", s.handleGrant)
	r.Delete("/grant/{id}", s.handleRevoke)

	r.Route("/experience", func(r chi.Router) {
		r.Get("/", s.handleListExperiences)
		r.Get("/{id}", s.handleGetExperience)
		r.Post("/{id}/run", s.handleRunExperience)
	})

	return r
}

// ListenAndServe starts the mock backend on the given port.
func (s *Server) ListenAndServe(port int) error {
	addr := fmt.Sprintf(":%d", port)
	fmt.Printf("mock backend listening on http://localhost%s\n", addr)
	return http.ListenAndServe(addr, s.Router())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func decodeJSON(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, console.HealthResponse{Status: "ok", Version: version})
}

func (s *Server) handleListKBs(w http.ResponseWriter, r *http.Request) {
	s.store.mu.RLock()
	defer s.store.mu.RUnlock()
	list := make([]console.KnowledgeBase, 0, len(s.store.kbs))
	for _, kb := range s.store.kbs {
		list = append(list, *kb)
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleCreateKB(w http.ResponseWriter, r *http.Request) {
	var req console.CreateKnowledgeBaseRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	kb := &console.KnowledgeBase{
		ID: s.store.nextID("kb"), Name: req.Name,
		Created: console.Now(), Updated: console.Now(),
	}
	if req.Description != nil {
		kb.Description = *req.Description
	}
	s.store.kbs[kb.ID] = kb
	writeJSON(w, http.StatusOK, kb)
}

func (s *Server) handleDeleteKB(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	if _, ok := s.store.kbs[id]; !ok {
		writeError(w, http.StatusNotFound, "knowledge base not found")
		return
	}
	delete(s.store.kbs, id)
	for docID, doc := range s.store.documents {
		if doc.KnowledgeBaseID == id {
			delete(s.store.documents, docID)
		}
	}
	writeJSON(w, http.StatusOK, true)
}

func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	kbID := chi.URLParam(r, "id")
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, _ = strconv.Atoi(raw)
	}
	s.store.mu.RLock()
	defer s.store.mu.RUnlock()
	if _, ok := s.store.kbs[kbID]; !ok {
		writeError(w, http.StatusNotFound, "knowledge base not found")
		return
	}
	list := make([]console.Document, 0)
	for _, doc := range s.store.documents {
		if doc.KnowledgeBaseID == kbID {
			list = append(list, *doc)
		}
		if limit > 0 && len(list) >= limit {
			break
		}
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleCreateDocument(w http.ResponseWriter, r *http.Request) {
	kbID := chi.URLParam(r, "id")
	var req console.CreateDocumentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	kb, ok := s.store.kbs[kbID]
	if !ok {
		writeError(w, http.StatusNotFound, "knowledge base not found")
		return
	}
	doc := &console.Document{
		ID: s.store.nextID("doc"), KnowledgeBaseID: kbID,
		Title: req.Title, Content: req.Content, Tags: req.Tags,
		Created: console.Now(), Updated: console.Now(),
	}
	if req.Source != nil {
		doc.Source = *req.Source
	}
	s.store.documents[doc.ID] = doc
	kb.Documents++
	writeJSON(w, http.StatusOK, doc)
}

func (s *Server) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	s.store.mu.RLock()
	defer s.store.mu.RUnlock()
	doc, ok := s.store.documents[chi.URLParam(r, "id")]
	if !ok {
		writeError(w, http.StatusNotFound, "document not found")
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (s *Server) handleUpdateDocument(w http.ResponseWriter, r *http.Request) {
	var req console.UpdateDocumentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	doc, ok := s.store.documents[chi.URLParam(r, "id")]
	if !ok {
		writeError(w, http.StatusNotFound, "document not found")
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
	writeJSON(w, http.StatusOK, doc)
}

func (s *Server) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	doc, ok := s.store.documents[id]
	if !ok {
		writeError(w, http.StatusNotFound, "document not found")
		return
	}
	if kb, ok := s.store.kbs[doc.KnowledgeBaseID]; ok {
		kb.Documents--
	}
	delete(s.store.documents, id)
	writeJSON(w, http.StatusOK, true)
}

func (s *Server) handleListPlugins(w http.ResponseWriter, r *http.Request) {
	s.store.mu.RLock()
	defer s.store.mu.RUnlock()
	list := make([]console.Plugin, 0, len(s.store.plugins))
	for _, p := range s.store.plugins {
		list = append(list, *p)
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleRegisterPlugin(w http.ResponseWriter, r *http.Request) {
	var req console.RegisterPluginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.Name == "" || req.Endpoint == "" {
		writeError(w, http.StatusBadRequest, "name and endpoint are required")
		return
	}
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	p := &console.Plugin{
		ID: s.store.nextID("plg"), Name: req.Name, Version: req.Version,
		Endpoint: req.Endpoint, Enabled: true, Registered: console.Now(),
	}
	if req.Description != nil {
		p.Description = *req.Description
	}
	s.store.plugins[p.ID] = p
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleGetPlugin(w http.ResponseWriter, r *http.Request) {
	s.store.mu.RLock()
	defer s.store.mu.RUnlock()
	p, ok := s.store.plugins[chi.URLParam(r, "id")]
	if !ok {
		writeError(w, http.StatusNotFound, "plugin not found")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleUpdatePlugin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Enabled *bool `json:"enabled"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	p, ok := s.store.plugins[chi.URLParam(r, "id")]
	if !ok {
		writeError(w, http.StatusNotFound, "plugin not found")
		return
	}
	if req.Enabled != nil {
		p.Enabled = *req.Enabled
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleDeletePlugin(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	if _, ok := s.store.plugins[id]; !ok {
		writeError(w, http.StatusNotFound, "plugin not found")
		return
	}
	delete(s.store.plugins, id)
	writeJSON(w, http.StatusOK, true)
}

func (s *Server) handleListProviders(w http.ResponseWriter, r *http.Request) {
	s.store.mu.RLock()
	defer s.store.mu.RUnlock()
	list := make([]console.Provider, 0, len(s.store.providers))
	for _, p := range s.store.providers {
		list = append(list, *p)
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleGetProvider(w http.ResponseWriter, r *http.Request) {
	s.store.mu.RLock()
	defer s.store.mu.RUnlock()
	p, ok := s.store.providers[chi.URLParam(r, "id")]
	if !ok {
		writeError(w, http.StatusNotFound, "provider not found")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleUpdateProvider(w http.ResponseWriter, r *http.Request) {
	var req console.UpdateProviderRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	p, ok := s.store.providers[chi.URLParam(r, "id")]
	if !ok {
		writeError(w, http.StatusNotFound, "provider not found")
		return
	}
	if req.Model != nil {
		p.Model = *req.Model
	}
	if req.Endpoint != nil {
		p.Endpoint = *req.Endpoint
	}
	if req.Enabled != nil {
		p.Enabled = *req.Enabled
	}
	p.Updated = console.Now()
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleTestProvider(w http.ResponseWriter, r *http.Request) {
	s.store.mu.RLock()
	p, ok := s.store.providers[chi.URLParam(r, "id")]
	s.store.mu.RUnlock()
	if !ok {
		writeError(w, http.StatusNotFound, "provider not found")
		return
	}
	if !p.Enabled {
		writeJSON(w, http.StatusOK, console.ProviderTestResult{
			OK: false, Error: "provider is disabled",
		})
		return
	}
	writeJSON(w, http.StatusOK, console.ProviderTestResult{OK: true, LatencyMS: 38})
}

func (s *Server) handleListFeeds(w http.ResponseWriter, r *http.Request) {
	s.store.mu.RLock()
	defer s.store.mu.RUnlock()
	list := make([]console.Feed, 0, len(s.store.feeds))
	for _, f := range s.store.feeds {
		list = append(list, *f)
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleCreateFeed(w http.ResponseWriter, r *http.Request) {
	var req console.CreateFeedRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	f := &console.Feed{
		ID: s.store.nextID("feed"), Name: req.Name,
		KnowledgeBaseID: req.KnowledgeBaseID, Source: req.Source,
		Schedule: req.Schedule, Enabled: true, Created: console.Now(),
	}
	s.store.feeds[f.ID] = f
	writeJSON(w, http.StatusOK, f)
}

func (s *Server) handleTriggerFeed(w http.ResponseWriter, r *http.Request) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	f, ok := s.store.feeds[chi.URLParam(r, "id")]
	if !ok {
		writeError(w, http.StatusNotFound, "feed not found")
		return
	}
	now := console.Now()
	f.LastRun = &now
	writeJSON(w, http.StatusOK, f)
}

func (s *Server) handleDeleteFeed(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	if _, ok := s.store.feeds[id]; !ok {
		writeError(w, http.StatusNotFound, "feed not found")
		return
	}
	delete(s.store.feeds, id)
	writeJSON(w, http.StatusOK, true)
}

func (s *Server) handleListRoles(w http.ResponseWriter, r *http.Request) {
	s.store.mu.RLock()
	defer s.store.mu.RUnlock()
	writeJSON(w, http.StatusOK, s.store.roles)
}

func (s *Server) handleListGrants(w http.ResponseWriter, r *http.Request) {
	roleID := chi.URLParam(r, "id")
	s.store.mu.RLock()
	defer s.store.mu.RUnlock()
	list := make([]console.PermissionGrant, 0)
	for _, g := range s.store.grants {
		if g.RoleID == roleID {
			list = append(list, *g)
		}
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleGrant(w http.ResponseWriter, r *http.Request) {
	var req console.GrantRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	g := &console.PermissionGrant{
		ID: s.store.nextID("grant"), RoleID: req.RoleID,
		Resource: req.Resource, Action: req.Action,
	}
	s.store.grants[g.ID] = g
	writeJSON(w, http.StatusOK, g)
}

func (s *Server) handleRevoke(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	if _, ok := s.store.grants[id]; !ok {
		writeError(w, http.StatusNotFound, "grant not found")
		return
	}
	delete(s.store.grants, id)
	writeJSON(w, http.StatusOK, true)
}

func (s *Server) handleListExperiences(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, experiences)
}

func (s *Server) handleGetExperience(w http.ResponseWriter, r *http.Request) {
	exp := findExperience(chi.URLParam(r, "id"))
	if exp == nil {
		writeError(w, http.StatusNotFound, "experience not found")
		return
	}
	writeJSON(w, http.StatusOK, exp)
}
