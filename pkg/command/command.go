package command

import (
	"time"

	"github.com/google/uuid"
)

// Priority orders commands for operators reading logs and history; routing
// itself is first-come-first-served.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityNormal Priority = "normal"
	PriorityLow    Priority = "low"
)

var priorityByName = map[string]Priority{
	"help":   PriorityHigh,
	"stop":   PriorityHigh,
	"cancel": PriorityHigh,
	"log":    PriorityLow,
	"debug":  PriorityLow,
	"info":   PriorityLow,
}

// PriorityFor returns the priority for a command name from the fixed
// keyword table, defaulting to normal.
func PriorityFor(name string) Priority {
	if p, ok := priorityByName[name]; ok {
		return p
	}
	return PriorityNormal
}

// Metadata carries per-command execution policy.
type Metadata struct {
	Priority     Priority
	Timeout      time.Duration
	Retryable    bool
	MaxRetries   int
	Tags         []string
	Dependencies []string
}

// Command is the validated, routable unit of work. It is created once per
// successful validation and must not be mutated afterwards; the in-flight
// execution owns it exclusively.
type Command struct {
	ID        string
	SessionID string
	Name      string
	Arguments []string
	Options   map[string]OptionValue
	Raw       string
	Context   ExecutionContext
	Metadata  Metadata
	CreatedAt time.Time
	UpdatedAt time.Time
}

// New builds an immutable Command from a parsed invocation and its
// execution context.
func New(parsed ParsedCommand, execCtx ExecutionContext, timeout time.Duration) *Command {
	now := time.Now()
	return &Command{
		ID:        uuid.NewString(),
		SessionID: execCtx.SessionID,
		Name:      parsed.Name,
		Arguments: parsed.Arguments,
		Options:   parsed.Options,
		Raw:       parsed.Raw,
		Context:   execCtx,
		Metadata: Metadata{
			Priority: PriorityFor(parsed.Name),
			Timeout:  timeout,
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
}
