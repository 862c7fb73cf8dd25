package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/maestrohq/maestro/pkg/command"
)

// historyHandler lists the current session's dispatched commands.
type historyHandler struct {
	base
	rt *Runtime
}

func (h *historyHandler) Name() string        { return "history" }
func (h *historyHandler) Description() string { return "Show this session's command history" }

func (h *historyHandler) Execute(ctx context.Context, cmd *command.Command) (*command.Result, error) {
	if h.rt.History == nil {
		return command.TextResult("command history not available"), nil
	}

	entries, err := h.rt.History.CommandHistory(ctx, cmd.SessionID)
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}
	if len(entries) == 0 {
		return command.TextResult("no commands recorded for this session"), nil
	}

	var b strings.Builder
	for _, e := range entries {
		status := "ok"
		if !e.Success {
			status = "failed"
		}
		fmt.Fprintf(&b, "%s  %-10s %-6s %s\n",
			e.CreatedAt.Format("15:04:05"), e.Name, status, e.Raw)
	}
	return command.TextResult(b.String()), nil
}
