package router

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maestrohq/maestro/pkg/command"
)

func firstCode(t *testing.T, result *command.Result) string {
	t.Helper()
	require.False(t, result.Success)
	require.NotEmpty(t, result.Errors)
	return result.Errors[0].Code
}

func TestDispatcher_Success(t *testing.T) {
	h := &testHandler{name: "echo", execute: func(_ context.Context, cmd *command.Command) (*command.Result, error) {
		return command.TextResult(cmd.Raw), nil
	}}
	d := NewDispatcher(newTestRegistry(t, h), DefaultOptions())

	result := d.Dispatch(context.Background(), command.ParsedCommand{Name: "echo", Raw: "echo hi"}, command.ExecutionContext{})

	require.True(t, result.Success)
	assert.Equal(t, "echo hi", result.Output)
	assert.NotEmpty(t, result.CommandID)
	assert.False(t, result.Performance.StartTime.IsZero())
	assert.Equal(t, 0, d.InFlight(), "in-flight entry must be released")
}

func TestDispatcher_HandlerNotFound(t *testing.T) {
	d := NewDispatcher(newTestRegistry(t), DefaultOptions())

	result := d.Dispatch(context.Background(), command.ParsedCommand{Name: "ghost"}, command.ExecutionContext{})
	assert.Equal(t, command.CodeHandlerNotFound, firstCode(t, result))
}

func TestDispatcher_CannotHandle(t *testing.T) {
	h := &testHandler{name: "picky", canHandle: func(command.ParsedCommand) bool { return false }}
	d := NewDispatcher(newTestRegistry(t, h), DefaultOptions())

	result := d.Dispatch(context.Background(), command.ParsedCommand{Name: "picky"}, command.ExecutionContext{})
	assert.Equal(t, command.CodeHandlerCannotHandle, firstCode(t, result))
}

func TestDispatcher_HandlerError(t *testing.T) {
	h := &testHandler{name: "broken", execute: func(context.Context, *command.Command) (*command.Result, error) {
		return nil, errors.New("boom")
	}}
	d := NewDispatcher(newTestRegistry(t, h), DefaultOptions())

	result := d.Dispatch(context.Background(), command.ParsedCommand{Name: "broken"}, command.ExecutionContext{})
	assert.Equal(t, command.CodeExecutionError, firstCode(t, result))
}

func TestDispatcher_HandlerPanicIsContained(t *testing.T) {
	h := &testHandler{name: "panicky", execute: func(context.Context, *command.Command) (*command.Result, error) {
		panic("oh no")
	}}
	d := NewDispatcher(newTestRegistry(t, h), DefaultOptions())

	result := d.Dispatch(context.Background(), command.ParsedCommand{Name: "panicky"}, command.ExecutionContext{})
	assert.Equal(t, command.CodeExecutionError, firstCode(t, result))
	assert.Equal(t, 0, d.InFlight())
}

func TestDispatcher_Timeout(t *testing.T) {
	h := &testHandler{name: "slow", execute: func(ctx context.Context, _ *command.Command) (*command.Result, error) {
		select {
		case <-time.After(2 * time.Second):
			return command.TextResult("done"), nil
		case <-ctx.Done():
			// Cancellation reaches the handler.
			return nil, ctx.Err()
		}
	}}
	d := NewDispatcher(newTestRegistry(t, h), DefaultOptions())

	start := time.Now()
	result := d.DispatchWithTimeout(context.Background(), command.ParsedCommand{Name: "slow"}, command.ExecutionContext{}, 50*time.Millisecond)

	assert.Equal(t, command.CodeTimeout, firstCode(t, result))
	assert.Less(t, time.Since(start), time.Second, "dispatch must not wait for the handler")
}

func TestDispatcher_CallerCancellationIsNotTimeout(t *testing.T) {
	h := &testHandler{name: "slow", execute: func(ctx context.Context, _ *command.Command) (*command.Result, error) {
		time.Sleep(2 * time.Second)
		return command.TextResult("done"), nil
	}}
	d := NewDispatcher(newTestRegistry(t, h), DefaultOptions())

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	start := time.Now()
	result := d.DispatchWithTimeout(ctx, command.ParsedCommand{Name: "slow"}, command.ExecutionContext{}, 5*time.Second)

	code := firstCode(t, result)
	assert.Equal(t, command.CodeExecutionError, code)
	assert.NotEqual(t, command.CodeTimeout, code)
	assert.Less(t, time.Since(start), time.Second)
}

func TestDispatcher_ConcurrencyCeiling(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	h := &testHandler{name: "hold", execute: func(ctx context.Context, _ *command.Command) (*command.Result, error) {
		started <- struct{}{}
		select {
		case <-release:
		case <-ctx.Done():
		}
		return command.TextResult("done"), nil
	}}
	d := NewDispatcher(newTestRegistry(t, h), Options{MaxConcurrent: 1, DefaultTimeout: 5 * time.Second})

	var wg sync.WaitGroup
	wg.Add(1)
	var first *command.Result
	go func() {
		defer wg.Done()
		first = d.Dispatch(context.Background(), command.ParsedCommand{Name: "hold"}, command.ExecutionContext{})
	}()

	<-started
	assert.Equal(t, 1, d.InFlight())

	second := d.Dispatch(context.Background(), command.ParsedCommand{Name: "hold"}, command.ExecutionContext{})
	assert.Equal(t, command.CodeMaxConcurrent, firstCode(t, second))

	close(release)
	wg.Wait()
	require.True(t, first.Success)
	assert.Equal(t, 0, d.InFlight())
}

func TestDispatcher_RateLimit(t *testing.T) {
	h := &testHandler{name: "fast"}
	d := NewDispatcher(newTestRegistry(t, h), Options{
		MaxConcurrent:  10,
		DefaultTimeout: time.Second,
		RatePerMinute:  1,
	})

	first := d.Dispatch(context.Background(), command.ParsedCommand{Name: "fast"}, command.ExecutionContext{})
	require.True(t, first.Success)

	second := d.Dispatch(context.Background(), command.ParsedCommand{Name: "fast"}, command.ExecutionContext{})
	assert.Equal(t, command.CodeRateLimited, firstCode(t, second))
}

type recordingHistory struct {
	mu      sync.Mutex
	entries []string
}

func (r *recordingHistory) RecordCommand(_ context.Context, cmd *command.Command, _ *command.Result) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, cmd.Name)
	return nil
}

func TestDispatcher_RecordsHistory(t *testing.T) {
	h := &testHandler{name: "echo"}
	d := NewDispatcher(newTestRegistry(t, h), DefaultOptions())
	rec := &recordingHistory{}
	d.SetHistoryRecorder(rec)

	result := d.Dispatch(context.Background(), command.ParsedCommand{Name: "echo"}, command.ExecutionContext{})
	require.True(t, result.Success)
	assert.Equal(t, []string{"echo"}, rec.entries)
}
