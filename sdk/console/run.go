package console

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// RunStatus is the overall status of an execution session.
type RunStatus string

const (
	RunPending   RunStatus = "pending"
	RunRunning   RunStatus = "running"
	RunCompleted RunStatus = "completed"
	RunFailed    RunStatus = "failed"
)

// Terminal reports whether the status admits no further transitions.
func (s RunStatus) Terminal() bool {
	return s == RunCompleted || s == RunFailed
}

// StepStatus is the status of a single workflow step.
type StepStatus string

const (
	StepUnseen    StepStatus = "unseen"
	StepRunning   StepStatus = "running"
	StepSucceeded StepStatus = "succeeded"
	StepFailed    StepStatus = "failed"
	StepSkipped   StepStatus = "skipped"
)

// Terminal reports whether the step has finished one way or another.
func (s StepStatus) Terminal() bool {
	return s == StepSucceeded || s == StepFailed || s == StepSkipped
}

// StepState is the observed state of one workflow step.
type StepState struct {
	Key     string
	Type    string
	Status  StepStatus
	Summary string
	Error   string
	Reason  string
	Data    json.RawMessage
}

// Snapshot is an immutable view of a run, delivered to the notify callback
// after every applied event.
type Snapshot struct {
	RunID       string
	Status      RunStatus
	Steps       []StepState
	Content     string
	Err         string
	Diagnostics []string
}

// Step returns the snapshot's state for a step key, if present.
func (s Snapshot) Step(key string) (StepState, bool) {
	for _, st := range s.Steps {
		if st.Key == key {
			return st, true
		}
	}
	return StepState{}, false
}

// Runner owns one experience execution at a time: the connection, the step
// map, the content accumulator and the overall status. Starting a new run
// cancels the previous one and resets all derived state, so events from an
// old connection can never leak into a fresh run.
type Runner struct {
	client   *Client
	notify   func(Snapshot)
	expected []ExperienceStep

	mu      sync.Mutex
	gen     int
	cancel  context.CancelFunc
	runID   string
	status  RunStatus
	steps   map[string]*StepState
	order   []string
	content strings.Builder
	errMsg  string
	diags   []string
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithNotify registers the snapshot callback. It is invoked on the run's
// consuming goroutine and must not call back into the Runner.
func WithNotify(fn func(Snapshot)) RunnerOption {
	return func(r *Runner) {
		r.notify = fn
	}
}

// WithExpectedSteps supplies a static step manifest merged into snapshots for
// display. Steps the server reports override manifest entries; manifest
// entries the server never mentions stay unseen.
func WithExpectedSteps(steps []ExperienceStep) RunnerOption {
	return func(r *Runner) {
		r.expected = steps
	}
}

// NewRunner creates a Runner bound to a client.
func NewRunner(client *Client, opts ...RunnerOption) *Runner {
	r := &Runner{
		client: client,
		status: RunPending,
		steps:  make(map[string]*StepState),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Start begins a new run of the experience. If a previous run is still
// active its connection is aborted first, and all derived state is reset
// before any event from the new run applies.
func (r *Runner) Start(ctx context.Context, experienceID string, params map[string]any) {
	r.mu.Lock()
	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}
	r.gen++
	gen := r.gen
	r.runID = uuid.NewString()
	r.status = RunPending
	r.steps = make(map[string]*StepState)
	r.order = nil
	r.content.Reset()
	r.errMsg = ""
	r.diags = nil

	runCtx, cancel := context.WithCancel(ctx)
	r.cancel = cancel
	req := &RunRequest{RunID: r.runID, Params: params}
	r.notifyLocked()
	r.mu.Unlock()

	go r.consume(runCtx, gen, experienceID, req)
}

// Cancel aborts the in-flight connection, if any. The run's last-observed
// state is left untouched; cancelling twice or cancelling a finished run is
// a no-op.
func (r *Runner) Cancel() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}
}

// Snapshot returns the current state of the run.
func (r *Runner) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshotLocked()
}

// consume reads the event stream and applies it frame by frame, strictly in
// arrival order.
func (r *Runner) consume(ctx context.Context, gen int, experienceID string, req *RunRequest) {
	body, err := r.client.openStream(ctx, "/experience/"+experienceID+"/run", req)
	if err != nil {
		// A caller-initiated abort is a normal exit, not a transport failure.
		if ctx.Err() == nil {
			r.fail(gen, err.Error())
		}
		return
	}
	defer body.Close()

	r.markRunning(gen)

	dec := &frameDecoder{}
	buf := make([]byte, 4096)
	for {
		n, err := body.Read(buf)
		if n > 0 && ctx.Err() == nil {
			for _, payload := range dec.Feed(buf[:n]) {
				r.apply(ctx, gen, payload)
			}
		}
		if err != nil {
			dec.Close()
			if ctx.Err() != nil {
				return
			}
			if err == io.EOF {
				r.checkComplete(gen)
			} else {
				r.fail(gen, fmt.Sprintf("stream error: %v", err))
			}
			return
		}
	}
}

// markRunning records that the connection is open. Entry to running happens
// on the earlier of connection-open and run_started.
func (r *Runner) markRunning(gen int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if gen != r.gen || r.status != RunPending {
		return
	}
	r.status = RunRunning
	r.notifyLocked()
}

// apply parses one frame payload and folds it into the run state. Malformed
// payloads are recorded as diagnostics and dropped; the session continues.
func (r *Runner) apply(ctx context.Context, gen int, payload string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if gen != r.gen || ctx.Err() != nil || r.status.Terminal() {
		return
	}

	ev, err := parseEvent(payload)
	if err != nil {
		r.diags = append(r.diags, err.Error())
		r.notifyLocked()
		return
	}

	switch ev.Type {
	case EventRunStarted:
		if r.status == RunPending {
			r.status = RunRunning
		}

	case EventStepStarted:
		if prev, ok := r.steps[ev.StepKey]; ok && prev.Status.Terminal() {
			// A finished step never regresses to running.
			return
		}
		r.replaceStep(ev, StepRunning)

	case EventStepCompleted:
		st := r.replaceStep(ev, StepSucceeded)
		st.Summary = ev.Summary
		st.Data = ev.Data

	case EventStepFailed:
		st := r.replaceStep(ev, StepFailed)
		st.Error = ev.Error

	case EventStepSkipped:
		st := r.replaceStep(ev, StepSkipped)
		st.Reason = ev.Reason

	case EventContentDelta:
		r.content.WriteString(ev.Content)

	case EventRunCompleted:
		r.status = RunCompleted

	case EventError:
		r.status = RunFailed
		r.errMsg = ev.Message

	default:
		// Unknown event types are ignored for forward compatibility.
		return
	}

	r.notifyLocked()
}

// replaceStep installs a fresh state record for the event's step, keeping
// only the step type from a previous observation when the event omits it.
func (r *Runner) replaceStep(ev *RunEvent, status StepStatus) *StepState {
	prev, seen := r.steps[ev.StepKey]
	next := &StepState{Key: ev.StepKey, Type: ev.StepType, Status: status}
	if next.Type == "" && seen {
		next.Type = prev.Type
	}
	if !seen {
		r.order = append(r.order, ev.StepKey)
	}
	r.steps[ev.StepKey] = next
	return next
}

func (r *Runner) markFailedLocked(msg string) {
	r.status = RunFailed
	r.errMsg = msg
	r.notifyLocked()
}

func (r *Runner) fail(gen int, msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if gen != r.gen || r.status.Terminal() {
		return
	}
	r.markFailedLocked(msg)
}

// checkComplete handles a clean end of stream. Ending without a terminal
// event is a server fault and maps to failed.
func (r *Runner) checkComplete(gen int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if gen != r.gen || r.status.Terminal() {
		return
	}
	r.markFailedLocked("stream ended before completion")
}

func (r *Runner) snapshotLocked() Snapshot {
	steps := make([]StepState, 0, len(r.expected)+len(r.order))
	fromManifest := make(map[string]bool, len(r.expected))
	for _, exp := range r.expected {
		fromManifest[exp.Key] = true
		if st, ok := r.steps[exp.Key]; ok {
			steps = append(steps, *st)
		} else {
			steps = append(steps, StepState{Key: exp.Key, Type: exp.Type, Status: StepUnseen})
		}
	}
	for _, key := range r.order {
		if fromManifest[key] {
			continue
		}
		steps = append(steps, *r.steps[key])
	}

	var diags []string
	if len(r.diags) > 0 {
		diags = append(diags, r.diags...)
	}

	return Snapshot{
		RunID:       r.runID,
		Status:      r.status,
		Steps:       steps,
		Content:     r.content.String(),
		Err:         r.errMsg,
		Diagnostics: diags,
	}
}

func (r *Runner) notifyLocked() {
	if r.notify != nil {
		r.notify(r.snapshotLocked())
	}
}
