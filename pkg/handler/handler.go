// Package handler defines the capability contract pluggable task handlers
// implement and the registry the routing engine resolves them through.
package handler

import (
	"context"

	"github.com/maestrohq/maestro/pkg/command"
)

// ParamType is the declared type of a handler parameter.
type ParamType string

const (
	TypeString  ParamType = "string"
	TypeNumber  ParamType = "number"
	TypeBoolean ParamType = "boolean"
	TypeArray   ParamType = "array"
)

// Parameter declares one handler parameter. Declaration order doubles as
// the positional index a required parameter is satisfied from.
type Parameter struct {
	Name        string
	Type        ParamType
	Required    bool
	Description string
}

// Handler is the contract every registered task type implements. Execute
// receives a context that is cancelled when the command's timeout elapses;
// long-running handlers should observe it and release resources.
type Handler interface {
	Name() string
	Aliases() []string
	Description() string
	Parameters() []Parameter

	// CanHandle gates dispatch after validation; a handler may refuse an
	// invocation that is structurally valid but semantically out of scope.
	CanHandle(parsed command.ParsedCommand) bool

	// Execute runs the command and returns a result envelope. Returning an
	// error (or panicking) is converted by the dispatcher into a failed
	// Result; handlers never crash the host.
	Execute(ctx context.Context, cmd *command.Command) (*command.Result, error)
}

// Validating is an optional extension for handlers that add checks beyond
// the declared parameter contract.
type Validating interface {
	Validate(parsed command.ParsedCommand) []*command.ValidationError
}
