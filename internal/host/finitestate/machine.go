// Package finitestate tracks the script host lifecycle with a finite state
// machine. The host is created idle, passes through initializing back to
// idle, runs, and ends in stopped or error; neither terminal state can be
// left except for the stopped transition a dispose from error performs.
package finitestate

import (
	"context"
	"log/slog"
	"time"

	"github.com/robbyt/go-fsm"
)

const (
	StatusIdle         = "idle"
	StatusInitializing = "initializing"
	StatusRunning      = "running"
	StatusStopped      = "stopped"
	StatusError        = "error"
)

// HostTransitions defines the valid lifecycle transitions. There is no path
// out of stopped, and out of error only to stopped (dispose); a new run
// needs a new host instance.
var HostTransitions = map[string][]string{
	StatusIdle:         {StatusInitializing, StatusRunning, StatusStopped, StatusError},
	StatusInitializing: {StatusIdle, StatusError},
	StatusRunning:      {StatusStopped, StatusError},
	StatusStopped:      {},
	StatusError:        {StatusStopped},
}

// Machine defines the interface for the state machine tracking the host
// lifecycle. This abstraction simplifies testing with substitute machines.
type Machine interface {
	// Transition attempts to transition the state machine to the specified state.
	Transition(state string) error

	// TransitionBool attempts to transition the state machine to the specified state.
	TransitionBool(state string) bool

	// TransitionIfCurrentState attempts to transition the state machine to the specified state
	TransitionIfCurrentState(currentState, newState string) error

	// GetState returns the current state of the state machine.
	GetState() string

	// GetStateChan returns a channel that emits the state machine's state
	// whenever it changes. The channel is closed when the context is canceled.
	GetStateChan(ctx context.Context) <-chan string
}

// HostFSM embeds fsm.Machine and overrides GetStateChan for sync broadcast.
type HostFSM struct {
	*fsm.Machine
}

// GetStateChan returns a sync broadcast channel with a timeout so state
// updates are still delivered during shutdown.
func (m *HostFSM) GetStateChan(ctx context.Context) <-chan string {
	return m.GetStateChanWithOptions(ctx, fsm.WithSyncTimeout(5*time.Second))
}

// New creates the host lifecycle state machine, starting idle.
func New(handler slog.Handler) (Machine, error) {
	machine, err := fsm.New(handler, StatusIdle, HostTransitions)
	if err != nil {
		return nil, err
	}
	return &HostFSM{Machine: machine}, nil
}
