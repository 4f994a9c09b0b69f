// Package console provides a Go SDK for the knowledge-base platform's admin API.
//
// It covers the ordinary administration surfaces (knowledge bases and
// documents, LLM providers, the plugin registry, feed jobs, permissions)
// and the streaming execution client used to run an experience and follow
// its progress live.
//
// Example usage:
//
//	client := console.NewClient("http://localhost:8000")
//
//	// Ordinary request/response call
//	plugins, err := client.ListPlugins(ctx)
//
//	// Streaming execution
//	runner := console.NewRunner(client, console.WithNotify(func(s console.Snapshot) {
//	    // render s.Steps and s.Content
//	}))
//	runner.Start(ctx, "weekly-digest", map[string]any{"audience": "ops"})
package console

import "time"

// Now returns the current time as a Unix timestamp (float64).
func Now() float64 {
	return float64(time.Now().UnixNano()) / 1e9
}

// String creates a string pointer (helper for optional fields).
func String(s string) *string {
	return &s
}

// Bool creates a bool pointer (helper for optional fields).
func Bool(b bool) *bool {
	return &b
}

// Int creates an int pointer (helper for optional fields).
func Int(i int) *int {
	return &i
}
