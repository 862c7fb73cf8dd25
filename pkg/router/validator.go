// Package router validates parsed commands against their handler contracts
// and dispatches them under admission control and a timeout.
package router

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/maestrohq/maestro/pkg/command"
	"github.com/maestrohq/maestro/pkg/handler"
)

// maxPositionalArgs is the soft ceiling above which validation warns.
const maxPositionalArgs = 50

var commandNameRe = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_-]*$`)

// ValidationResult collects everything the validator found. It is always
// returned; invalid input never surfaces as a Go error.
type ValidationResult struct {
	Valid    bool
	Errors   []*command.ValidationError
	Warnings []*command.ValidationError
}

// Validator checks parsed commands against registered handler contracts.
type Validator struct {
	registry *handler.Registry
}

// NewValidator creates a Validator over the given registry.
func NewValidator(registry *handler.Registry) *Validator {
	return &Validator{registry: registry}
}

// Validate runs all checks. A missing handler short-circuits the parameter
// checks but the syntax checks still run.
func (v *Validator) Validate(parsed command.ParsedCommand) ValidationResult {
	var result ValidationResult

	h, ok := v.registry.Get(parsed.Name)
	if !ok {
		result.Errors = append(result.Errors, command.NewValidationError(
			command.CodeHandlerNotFound,
			"name",
			fmt.Sprintf("no handler registered for %q", parsed.Name),
		))
	} else {
		result.Errors = append(result.Errors, v.checkParameters(h, parsed)...)
		if hv, ok := h.(handler.Validating); ok {
			result.Errors = append(result.Errors, hv.Validate(parsed)...)
		}
	}

	if !commandNameRe.MatchString(parsed.Name) {
		result.Errors = append(result.Errors, command.NewValidationError(
			command.CodeInvalidCommandName,
			"name",
			fmt.Sprintf("command name %q is not valid", parsed.Name),
		))
	}
	if len(parsed.Arguments) > maxPositionalArgs {
		result.Warnings = append(result.Warnings, command.NewValidationError(
			command.CodeTooManyArguments,
			"arguments",
			fmt.Sprintf("%d positional arguments (max %d recommended)", len(parsed.Arguments), maxPositionalArgs),
		))
	}

	result.Valid = len(result.Errors) == 0
	return result
}

// checkParameters verifies required presence and declared types. A required
// parameter at declaration index i is satisfied by a positional argument at
// that index or by an option of the same name; the option value takes
// precedence for type checking.
func (v *Validator) checkParameters(h handler.Handler, parsed command.ParsedCommand) []*command.ValidationError {
	var errs []*command.ValidationError

	for i, param := range h.Parameters() {
		opt, hasOpt := parsed.Options[param.Name]
		hasPositional := i < len(parsed.Arguments)

		if param.Required && !hasOpt && !hasPositional {
			errs = append(errs, command.NewValidationError(
				command.CodeMissingRequired,
				param.Name,
				fmt.Sprintf("required parameter %q is missing", param.Name),
			))
			continue
		}

		var value command.OptionValue
		switch {
		case hasOpt:
			value = opt
		case hasPositional:
			value = command.StringOption(parsed.Arguments[i])
		default:
			continue // optional and absent
		}

		if !typeMatches(param.Type, value) {
			errs = append(errs, command.NewValidationError(
				command.CodeInvalidParamType,
				param.Name,
				fmt.Sprintf("parameter %q expects %s, got %q", param.Name, param.Type, value.String()),
			))
		}
	}

	return errs
}

func typeMatches(t handler.ParamType, value command.OptionValue) bool {
	switch t {
	case handler.TypeString:
		return !value.IsBool
	case handler.TypeNumber:
		if value.IsBool {
			return false
		}
		_, err := strconv.ParseFloat(value.Str, 64)
		return err == nil
	case handler.TypeBoolean:
		if value.IsBool {
			return true
		}
		return value.Str == "true" || value.Str == "false"
	case handler.TypeArray:
		// A single string is accepted as a one-element array candidate.
		return !value.IsBool
	default:
		return true
	}
}
