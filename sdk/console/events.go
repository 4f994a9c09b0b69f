package console

import (
	"encoding/json"
	"fmt"
)

// Event types emitted by the experience executor.
const (
	EventRunStarted    = "run_started"
	EventStepStarted   = "step_started"
	EventStepCompleted = "step_completed"
	EventStepFailed    = "step_failed"
	EventStepSkipped   = "step_skipped"
	EventContentDelta  = "content_delta"
	EventRunCompleted  = "run_completed"
	EventError         = "error"
)

// RunEvent is one decoded event from the execution stream, discriminated by
// Type. Only the fields relevant to the variant are populated.
type RunEvent struct {
	Type     string          `json:"type"`
	StepKey  string          `json:"step_key,omitempty"`
	StepType string          `json:"step_type,omitempty"`
	Summary  string          `json:"summary,omitempty"`
	Error    string          `json:"error,omitempty"`
	Reason   string          `json:"reason,omitempty"`
	Content  string          `json:"content,omitempty"`
	Message  string          `json:"message,omitempty"`
	Data     json.RawMessage `json:"data,omitempty"`
}

// parseEvent decodes a frame payload into an event. A decode failure is
// reported to the caller but is never fatal to the stream.
func parseEvent(payload string) (*RunEvent, error) {
	var ev RunEvent
	if err := json.Unmarshal([]byte(payload), &ev); err != nil {
		return nil, fmt.Errorf("decode event: %w", err)
	}
	if ev.Type == "" {
		return nil, fmt.Errorf("event missing type: %s", payload)
	}
	return &ev, nil
}
