package router

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/time/rate"

	"github.com/maestrohq/maestro/pkg/command"
	"github.com/maestrohq/maestro/pkg/handler"
	"github.com/maestrohq/maestro/pkg/logger"
)

// Options configures the dispatcher's admission and timeout policy.
type Options struct {
	// MaxConcurrent is the in-flight ceiling; dispatches beyond it are
	// rejected immediately, never queued.
	MaxConcurrent int

	// DefaultTimeout bounds handler execution unless a dispatch overrides it.
	DefaultTimeout time.Duration

	// RatePerMinute, when positive, adds a token-bucket rate limit in front
	// of the concurrency check. Zero disables it.
	RatePerMinute int
}

// DefaultOptions returns the dispatcher defaults.
func DefaultOptions() Options {
	return Options{
		MaxConcurrent:  10,
		DefaultTimeout: 30 * time.Second,
	}
}

// HistoryRecorder receives finished dispatches. Implementations must not
// block; recording failures are logged and swallowed.
type HistoryRecorder interface {
	RecordCommand(ctx context.Context, cmd *command.Command, result *command.Result) error
}

// Dispatcher admits, times, and executes validated commands. All failure
// modes come back as a failed Result; Dispatch never returns a bare error
// and never panics across its boundary.
type Dispatcher struct {
	registry *handler.Registry
	opts     Options
	limiter  *rate.Limiter
	history  HistoryRecorder

	admit    chan struct{} // guards the in-flight set as a single critical section
	inflight map[string]time.Time
}

// NewDispatcher creates a dispatcher over the given registry.
func NewDispatcher(registry *handler.Registry, opts Options) *Dispatcher {
	if opts.MaxConcurrent <= 0 {
		opts.MaxConcurrent = DefaultOptions().MaxConcurrent
	}
	if opts.DefaultTimeout <= 0 {
		opts.DefaultTimeout = DefaultOptions().DefaultTimeout
	}
	d := &Dispatcher{
		registry: registry,
		opts:     opts,
		admit:    make(chan struct{}, 1),
		inflight: make(map[string]time.Time),
	}
	d.admit <- struct{}{}
	if opts.RatePerMinute > 0 {
		d.limiter = rate.NewLimiter(rate.Limit(float64(opts.RatePerMinute)/60.0), opts.RatePerMinute)
	}
	return d
}

// SetHistoryRecorder attaches a sink for finished dispatches.
func (d *Dispatcher) SetHistoryRecorder(h HistoryRecorder) {
	d.history = h
}

// InFlight returns the number of commands currently executing.
func (d *Dispatcher) InFlight() int {
	token := <-d.admit
	n := len(d.inflight)
	d.admit <- token
	return n
}

// Dispatch routes a parsed command with the default timeout.
func (d *Dispatcher) Dispatch(ctx context.Context, parsed command.ParsedCommand, execCtx command.ExecutionContext) *command.Result {
	return d.DispatchWithTimeout(ctx, parsed, execCtx, d.opts.DefaultTimeout)
}

// DispatchWithTimeout routes a parsed command under an explicit timeout.
func (d *Dispatcher) DispatchWithTimeout(ctx context.Context, parsed command.ParsedCommand, execCtx command.ExecutionContext, timeout time.Duration) *command.Result {
	start := time.Now()

	h, ok := d.registry.Get(parsed.Name)
	if !ok {
		return fail(command.CodeHandlerNotFound,
			fmt.Sprintf("no handler registered for %q", parsed.Name), nil, "", start)
	}
	if !h.CanHandle(parsed) {
		return fail(command.CodeHandlerCannotHandle,
			fmt.Sprintf("handler %q cannot handle this invocation", parsed.Name), nil, "", start)
	}

	if timeout <= 0 {
		timeout = d.opts.DefaultTimeout
	}
	cmd := command.New(parsed, execCtx, timeout)

	if d.limiter != nil && !d.limiter.Allow() {
		return fail(command.CodeRateLimited,
			"rate limit exceeded, retry later", nil, cmd.ID, start)
	}

	// Admission: check-then-insert must be one critical section so two
	// concurrent dispatches cannot both squeeze under the ceiling.
	token := <-d.admit
	if len(d.inflight) >= d.opts.MaxConcurrent {
		d.admit <- token
		return fail(command.CodeMaxConcurrent,
			fmt.Sprintf("concurrency ceiling of %d reached", d.opts.MaxConcurrent), nil, cmd.ID, start)
	}
	d.inflight[cmd.ID] = start
	d.admit <- token

	defer func() {
		token := <-d.admit
		delete(d.inflight, cmd.ID)
		d.admit <- token
	}()

	result := d.execute(ctx, h, cmd)

	logger.DebugCF("router", "Command dispatched", map[string]any{
		"command":     cmd.Name,
		"id":          cmd.ID,
		"success":     result.Success,
		"duration_ms": result.Performance.Duration.Milliseconds(),
	})

	if d.history != nil {
		if err := d.history.RecordCommand(ctx, cmd, result); err != nil {
			logger.WarnCF("router", "Failed to record command history",
				map[string]any{"id": cmd.ID, "error": err.Error()})
		}
	}
	return result
}

// execute runs the handler under the command's timeout. The timeout context
// is threaded into the handler so a timed-out execution can observe
// cancellation and release resources instead of being abandoned.
func (d *Dispatcher) execute(ctx context.Context, h handler.Handler, cmd *command.Command) *command.Result {
	start := time.Now()

	runCtx, cancel := context.WithTimeout(ctx, cmd.Metadata.Timeout)
	defer cancel()

	type outcome struct {
		result *command.Result
		err    error
	}
	done := make(chan outcome, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- outcome{err: fmt.Errorf("handler panic: %v", r)}
			}
		}()
		result, err := h.Execute(runCtx, cmd)
		done <- outcome{result: result, err: err}
	}()

	select {
	case out := <-done:
		end := time.Now()
		if out.err != nil {
			return fail(command.CodeExecutionError, "handler execution failed", out.err, cmd.ID, start)
		}
		if out.result == nil {
			return fail(command.CodeExecutionError, "handler returned no result", nil, cmd.ID, start)
		}
		return out.result.Stamp(cmd.ID, start, end)
	case <-runCtx.Done():
		// A cancelled caller is not a timeout.
		if errors.Is(runCtx.Err(), context.Canceled) {
			return fail(command.CodeExecutionError, "dispatch cancelled by caller", runCtx.Err(), cmd.ID, start)
		}
		return fail(command.CodeTimeout,
			fmt.Sprintf("command exceeded timeout of %s", cmd.Metadata.Timeout), runCtx.Err(), cmd.ID, start)
	}
}

func fail(code, message string, err error, commandID string, start time.Time) *command.Result {
	execErr := command.NewExecutionError(code, message, err)
	execErr.CommandID = commandID
	result := command.FailedResult(execErr)
	return result.Stamp(commandID, start, time.Now())
}
