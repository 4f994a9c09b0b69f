package console

// ExperienceStep is one declared step of an experience workflow. The key is
// an opaque identifier agreed between console and executor.
type ExperienceStep struct {
	Key   string `json:"key"`
	Type  string `json:"type"`
	Title string `json:"title,omitempty"`
}

// Experience is a runnable workflow: a sequence of plugin calls followed by
// an LLM synthesis step.
type Experience struct {
	ID          string           `json:"id"`
	Title       string           `json:"title"`
	Description string           `json:"description,omitempty"`
	Steps       []ExperienceStep `json:"steps,omitempty"`
}

// RunRequest is the request body that starts an experience run.
type RunRequest struct {
	RunID  string         `json:"run_id"`
	Params map[string]any `json:"params,omitempty"`
}
