package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/maestrohq/maestro/pkg/command"
)

// personaHandler runs a persona selection for the current execution context
// and reports the pick, its confidence, and the runners-up.
type personaHandler struct {
	base
	rt *Runtime
}

func (h *personaHandler) Name() string        { return "persona" }
func (h *personaHandler) Aliases() []string   { return []string{"expert"} }
func (h *personaHandler) Description() string { return "Select the best persona for this context" }

func (h *personaHandler) Execute(ctx context.Context, cmd *command.Command) (*command.Result, error) {
	if h.rt.Selector == nil {
		return command.TextResult("persona selection not configured"), nil
	}

	selection := h.rt.Selector.Select(ctx, cmd.Context)
	if !selection.Success {
		return command.TextResult("no persona qualified: " + selection.Reasoning), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Selected persona: %s (%s)\n", selection.Selected.Name, selection.Selected.Type)
	fmt.Fprintf(&b, "Confidence: %.2f\n", selection.Confidence)
	fmt.Fprintf(&b, "Reasoning: %s\n", selection.Reasoning)
	if selection.FallbackUsed {
		b.WriteString("(fallback persona)\n")
	}
	if len(selection.Alternatives) > 0 {
		b.WriteString("Alternatives:\n")
		for _, alt := range selection.Alternatives {
			fmt.Fprintf(&b, "  %s (%.2f)\n", alt.Persona.Name, alt.Confidence)
		}
	}
	return command.TextResult(b.String()), nil
}
