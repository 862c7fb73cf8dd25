package router

import (
	"context"

	"github.com/maestrohq/maestro/pkg/command"
	"github.com/maestrohq/maestro/pkg/handler"
	"github.com/maestrohq/maestro/pkg/parser"
	"github.com/maestrohq/maestro/pkg/persona"
)

// Engine is the front door: raw command line in, result envelope out.
// Parsing and validation failures come back as failed Results, never as
// errors; nothing that happens inside crashes the caller.
type Engine struct {
	parser     *parser.Parser
	validator  *Validator
	dispatcher *Dispatcher
	selector   *persona.Selector // optional
}

// Response pairs the dispatch result with the intermediate stages callers
// may want to surface (suggestions, warnings).
type Response struct {
	Parsed     command.ParsedCommand
	Validation ValidationResult
	Result     *command.Result
	Selection  *persona.SelectionResult
}

// NewEngine wires the engine over one registry and dispatcher.
func NewEngine(registry *handler.Registry, dispatcher *Dispatcher) *Engine {
	return &Engine{
		parser:     parser.New(registry),
		validator:  NewValidator(registry),
		dispatcher: dispatcher,
	}
}

// SetSelector attaches a persona selector; dispatched results are then
// tagged with the active persona.
func (e *Engine) SetSelector(s *persona.Selector) {
	e.selector = s
}

// Dispatcher exposes the underlying dispatcher for introspection.
func (e *Engine) Dispatcher() *Dispatcher {
	return e.dispatcher
}

// Execute parses, validates, and dispatches a raw command line. Response.
// Result is always non-nil.
func (e *Engine) Execute(ctx context.Context, raw string, execCtx command.ExecutionContext) Response {
	parsed, err := e.parser.Parse(raw)
	if err != nil {
		execErr := command.NewExecutionError(command.CodeUnclosedQuote, err.Error(), err)
		return Response{Result: command.FailedResult(execErr)}
	}

	validation := e.validator.Validate(parsed)
	if !validation.Valid {
		first := validation.Errors[0]
		execErr := command.NewExecutionError(first.Code, first.Message, nil)
		return Response{
			Parsed:     parsed,
			Validation: validation,
			Result:     command.FailedResult(execErr),
		}
	}

	var selection *persona.SelectionResult
	if e.selector != nil {
		sel := e.selector.Select(ctx, execCtx)
		selection = &sel
	}

	result := e.dispatcher.Dispatch(ctx, parsed, execCtx)
	if selection != nil && selection.Success && selection.Selected != nil {
		result.Metadata.PersonaID = selection.Selected.ID
	}

	return Response{
		Parsed:     parsed,
		Validation: validation,
		Result:     result,
		Selection:  selection,
	}
}
