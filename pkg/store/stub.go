package store

import (
	"context"

	"github.com/maestrohq/maestro/pkg/command"
)

// NullHistory is a command-history sink that records nothing and always
// reports an empty history. It stands in when persistence is disabled.
type NullHistory struct{}

// RecordCommand discards the dispatch.
func (NullHistory) RecordCommand(context.Context, *command.Command, *command.Result) error {
	return nil
}

// CommandHistory always returns an empty history.
func (NullHistory) CommandHistory(context.Context, string) ([]HistoryEntry, error) {
	return nil, nil
}
