package bpf

import "errors"

var (
	ErrProgramMissing = errors.New("object file does not contain the ping_drop program")
	ErrMapMissing     = errors.New("object file is missing a required map")
	ErrNotAttached    = errors.New("filter is not attached to an interface")
)

// Object names inside the compiled collection. They are part of the shared
// contract with the kernel program and must not drift.
const (
	progName = "ping_drop"

	sockConnectProg = "socket_connect"
	execProg        = "handle_execve"

	blocklistMap    = "blocklist"
	eventsMap       = "events"
	eventLatestMap  = "event_latest"
	verdictStatsMap = "verdict_stats"
)
