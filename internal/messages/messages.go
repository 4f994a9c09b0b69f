package messages

import "kbconsole/sdk/console"

// Backend events
type SnapshotMsg struct {
	Snapshot console.Snapshot
}

type ExperienceMsg struct {
	Experience *console.Experience
}

type ErrorMsg struct {
	Err error
}

// Internal app messages
type RunStartedMsg struct{}
