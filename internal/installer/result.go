package installer

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownAgent is wrapped by an InstallError for names missing from
	// the table.
	ErrUnknownAgent = errors.New("unknown agent")
	// ErrInterrupted is returned when the context is cancelled between agents.
	ErrInterrupted = errors.New("installation interrupted")
)

// InstallError reports a configuration problem that prevents installation
// from starting, such as an unknown agent name.
type InstallError struct {
	Agent string
	Err   error
}

func (e *InstallError) Error() string {
	return fmt.Sprintf("installing %s: %v", e.Agent, e.Err)
}

func (e *InstallError) Unwrap() error { return e.Err }

// Status is the outcome of one agent's installation.
type Status string

const (
	StatusOK     Status = "ok"
	StatusFailed Status = "failed"
)

// AgentResult describes what happened to one agent. Skipped sources do not
// affect Status; the first hard failure does and is kept in Err.
type AgentResult struct {
	Name    string   `json:"name"`
	Label   string   `json:"label"`
	Status  Status   `json:"status"`
	Placed  []string `json:"placed,omitempty"`  // asset targets, relative to the target dir
	Skipped []string `json:"skipped,omitempty"` // asset or post-action sources not found
	Err     error    `json:"-"`
}

// OK reports whether the agent installed without a hard failure.
func (r AgentResult) OK() bool { return r.Status == StatusOK }

// Summary holds per-agent results in installation order.
type Summary struct {
	Results []AgentResult
}

// OK reports whether every attempted agent succeeded.
func (s Summary) OK() bool {
	for _, r := range s.Results {
		if !r.OK() {
			return false
		}
	}
	return true
}

// Failed returns the names of agents that failed.
func (s Summary) Failed() []string {
	var names []string
	for _, r := range s.Results {
		if !r.OK() {
			names = append(names, r.Name)
		}
	}
	return names
}
