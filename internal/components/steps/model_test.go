package steps

import (
	"encoding/json"
	"strings"
	"testing"

	"kbconsole/sdk/console"
)

func TestStepDetail(t *testing.T) {
	tests := []struct {
		name string
		step console.StepState
		want string
	}{
		{
			name: "failed step shows error",
			step: console.StepState{Status: console.StepFailed, Error: "timeout"},
			want: "timeout",
		},
		{
			name: "skipped step shows reason",
			step: console.StepState{Status: console.StepSkipped, Reason: "nothing to do"},
			want: "nothing to do",
		},
		{
			name: "succeeded step prefers summary",
			step: console.StepState{
				Status:  console.StepSucceeded,
				Summary: "12 documents",
				Data:    json.RawMessage(`{"count":12}`),
			},
			want: "12 documents",
		},
		{
			name: "succeeded step falls back to data count",
			step: console.StepState{
				Status: console.StepSucceeded,
				Data:   json.RawMessage(`{"count":7}`),
			},
			want: "7 items",
		},
		{
			name: "succeeded step falls back to data top",
			step: console.StepState{
				Status: console.StepSucceeded,
				Data:   json.RawMessage(`{"top":"Deploy checklist"}`),
			},
			want: "top: Deploy checklist",
		},
		{
			name: "running step has no detail",
			step: console.StepState{Status: console.StepRunning, Summary: "ignored"},
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := stepDetail(tt.step); got != tt.want {
				t.Errorf("stepDetail() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestViewRendersAllStatuses(t *testing.T) {
	m := New(80)
	m.SetSteps([]console.StepState{
		{Key: "fetch", Type: "plugin", Status: console.StepSucceeded},
		{Key: "rank", Status: console.StepRunning},
		{Key: "enrich", Status: console.StepFailed, Error: "boom"},
		{Key: "publish", Status: console.StepSkipped, Reason: "skipped"},
		{Key: "report", Status: console.StepUnseen},
	})

	view := m.View()
	for _, want := range []string{"fetch", "rank", "enrich", "publish", "report", "boom"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}

	if !m.HasRunning() {
		t.Error("expected HasRunning with a running step")
	}
}
