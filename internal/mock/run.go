package mock

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/go-chi/chi/v5"

	"kbconsole/sdk/console"
)

// StepDelay paces the mock event stream so progress is visible in the
// console. Tests set it to zero.
var StepDelay = 250 * time.Millisecond

func (s *Server) handleRunExperience(w http.ResponseWriter, r *http.Request) {
	exp := findExperience(chi.URLParam(r, "id"))
	if exp == nil {
		writeError(w, http.StatusNotFound, "experience not found")
		return
	}

	var req console.RunRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming not supported")
		return
	}

	emit := func(fields map[string]any) bool {
		if r.Context().Err() != nil {
			return false
		}
		payload, _ := json.Marshal(fields)
		fmt.Fprintf(w, "data: %s\n\n", payload)
		flusher.Flush()
		s.pause(r.Context())
		return true
	}

	if !emit(map[string]any{"type": "run_started"}) {
		return
	}

	for _, step := range exp.Steps {
		if !emit(map[string]any{
			"type": "step_started", "step_key": step.Key, "step_type": step.Type,
		}) {
			return
		}

		switch {
		case exp.ID == "flaky-run" && step.Key == "enrich":
			if !emit(map[string]any{
				"type": "step_failed", "step_key": step.Key,
				"error": "upstream metadata service returned 503",
			}) {
				return
			}
			continue
		case exp.ID == "flaky-run" && step.Key == "publish":
			if !emit(map[string]any{
				"type": "step_skipped", "step_key": step.Key,
				"reason": "nothing to publish after enrich failure",
			}) {
				return
			}
			continue
		}

		done := map[string]any{
			"type": "step_completed", "step_key": step.Key,
			"summary": s.stepSummary(exp.ID, step.Key),
		}
		if data := s.stepData(exp.ID, step.Key); data != nil {
			done["data"] = data
		}
		if !emit(done) {
			return
		}

		if step.Type == "llm" {
			for _, chunk := range s.synthesize(r.Context(), exp) {
				if !emit(map[string]any{"type": "content_delta", "content": chunk}) {
					return
				}
			}
		}
	}

	if !emit(map[string]any{"type": "run_completed"}) {
		return
	}
	fmt.Fprint(w, "data: [DONE]\n\n")
	flusher.Flush()
}

func (s *Server) pause(ctx context.Context) {
	if StepDelay <= 0 {
		return
	}
	select {
	case <-time.After(StepDelay):
	case <-ctx.Done():
	}
}

func (s *Server) stepSummary(experienceID, stepKey string) string {
	s.store.mu.RLock()
	docCount := len(s.store.documents)
	s.store.mu.RUnlock()

	switch stepKey {
	case "fetch", "scan":
		return fmt.Sprintf("examined %d documents", docCount)
	case "rank":
		return "ranked documents by recency and edit volume"
	case "classify":
		return "classified staleness via provider"
	case "report", "publish":
		return "report assembled"
	case "synthesize":
		return "digest written"
	default:
		return "done"
	}
}

func (s *Server) stepData(experienceID, stepKey string) map[string]any {
	switch stepKey {
	case "fetch", "scan":
		s.store.mu.RLock()
		defer s.store.mu.RUnlock()
		titles := make([]string, 0, len(s.store.documents))
		for _, doc := range s.store.documents {
			titles = append(titles, doc.Title)
		}
		return map[string]any{"documents": titles, "count": len(titles)}
	case "rank":
		return map[string]any{"top": "Deploy checklist", "scored": 3}
	default:
		return nil
	}
}

// synthesize produces the content stream for an llm step. With an
// Anthropic API key in the environment it asks the real model,
// otherwise it falls back to a canned digest.
func (s *Server) synthesize(ctx context.Context, exp *console.Experience) []string {
	if s.anthropicKey != "" {
		if chunks, err := s.synthesizeLive(ctx, exp); err == nil {
			return chunks
		}
	}
	return chunkText(cannedDigest(exp))
}

func (s *Server) synthesizeLive(ctx context.Context, exp *console.Experience) ([]string, error) {
	s.store.mu.RLock()
	var corpus string
	for _, doc := range s.store.documents {
		corpus += "## " + doc.Title + "\n\n" + doc.Content + "\n\n"
	}
	s.store.mu.RUnlock()

	client := anthropic.NewClient(option.WithAPIKey(s.anthropicKey))
	resp, err := client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model("claude-haiku-4-5"),
		MaxTokens: 1024,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(
				anthropic.NewTextBlock(fmt.Sprintf(
					"Write a short markdown digest titled %q covering these documents:\n\n%s",
					exp.Title, corpus,
				)),
			),
		},
	})
	if err != nil {
		return nil, err
	}

	var text string
	for _, block := range resp.Content {
		if block.Type == "text" {
			text += block.Text
		}
	}
	if text == "" {
		return nil, fmt.Errorf("empty completion")
	}
	return chunkText(text), nil
}

func cannedDigest(exp *console.Experience) string {
	switch exp.ID {
	case "stale-docs":
		return "# Stale Document Audit\n\nTwo documents have not been updated in over 90 days:\n\n- **On-call handbook** (last touched 112 days ago)\n- **Service catalog** (last touched 97 days ago)\n\nConsider assigning owners for a refresh pass.\n"
	default:
		return "# Weekly Digest\n\nThree documents saw activity this week.\n\n- **Deploy checklist** gained a smoke test step\n- **On-call handbook** clarified escalation paths\n- **Service catalog** added two services\n\nNo stale documents crossed the 90 day threshold.\n"
	}
}

// chunkText splits text into small pieces so content arrives as a
// stream of deltas rather than one block.
func chunkText(text string) []string {
	const size = 24
	runes := []rune(text)
	chunks := make([]string, 0, len(runes)/size+1)
	for i := 0; i < len(runes); i += size {
		end := i + size
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, string(runes[i:end]))
	}
	return chunks
}
