package console

import "testing"

func TestParseEvent(t *testing.T) {
	t.Run("step completed", func(t *testing.T) {
		ev, err := parseEvent(`{"type":"step_completed","step_key":"fetch","summary":"12 documents","data":{"count":12}}`)
		if err != nil {
			t.Fatalf("parseEvent() error = %v", err)
		}
		if ev.Type != EventStepCompleted {
			t.Errorf("type = %q", ev.Type)
		}
		if ev.StepKey != "fetch" || ev.Summary != "12 documents" {
			t.Errorf("unexpected fields: %+v", ev)
		}
		if len(ev.Data) == 0 {
			t.Error("expected data payload to be retained")
		}
	})

	t.Run("step failed", func(t *testing.T) {
		ev, err := parseEvent(`{"type":"step_failed","step_key":"search","error":"upstream timeout"}`)
		if err != nil {
			t.Fatalf("parseEvent() error = %v", err)
		}
		if ev.Error != "upstream timeout" {
			t.Errorf("error = %q", ev.Error)
		}
	})

	t.Run("content delta", func(t *testing.T) {
		ev, err := parseEvent(`{"type":"content_delta","content":"Hel"}`)
		if err != nil {
			t.Fatalf("parseEvent() error = %v", err)
		}
		if ev.Content != "Hel" {
			t.Errorf("content = %q", ev.Content)
		}
	})

	t.Run("session error", func(t *testing.T) {
		ev, err := parseEvent(`{"type":"error","message":"boom"}`)
		if err != nil {
			t.Fatalf("parseEvent() error = %v", err)
		}
		if ev.Message != "boom" {
			t.Errorf("message = %q", ev.Message)
		}
	})

	t.Run("malformed payload", func(t *testing.T) {
		if _, err := parseEvent(`{not json}`); err == nil {
			t.Error("expected decode error")
		}
	})

	t.Run("missing type", func(t *testing.T) {
		if _, err := parseEvent(`{"step_key":"a"}`); err == nil {
			t.Error("expected error for typeless event")
		}
	})

	t.Run("unknown type parses", func(t *testing.T) {
		// Unknown variants decode fine; the session ignores them.
		ev, err := parseEvent(`{"type":"step_metrics","step_key":"a"}`)
		if err != nil {
			t.Fatalf("parseEvent() error = %v", err)
		}
		if ev.Type != "step_metrics" {
			t.Errorf("type = %q", ev.Type)
		}
	})
}
