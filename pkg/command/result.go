package command

import "time"

// OutputFormat tags how a handler's output should be rendered.
type OutputFormat string

const (
	FormatText     OutputFormat = "text"
	FormatMarkdown OutputFormat = "markdown"
	FormatJSON     OutputFormat = "json"
)

// ResultMetadata carries execution accounting for a single command run.
// PersonaID tags which persona was active when the command ran, when the
// selection engine was consulted.
type ResultMetadata struct {
	ExecutionTime time.Duration
	CacheHit      bool
	ResourcesUsed map[string]int64
	PersonaID     string
}

// Performance records wall-clock timing for a dispatch.
type Performance struct {
	StartTime time.Time
	EndTime   time.Time
	Duration  time.Duration
}

// Result is the uniform envelope every dispatch returns. Failures are
// carried in Errors with Success=false; the dispatcher never surfaces a
// bare error to its caller.
type Result struct {
	CommandID   string
	Success     bool
	Output      string
	Format      OutputFormat
	Metadata    ResultMetadata
	Errors      []*ExecutionError
	Performance Performance
}

// TextResult builds a successful text result.
func TextResult(output string) *Result {
	return &Result{Success: true, Output: output, Format: FormatText}
}

// MarkdownResult builds a successful markdown result.
func MarkdownResult(output string) *Result {
	return &Result{Success: true, Output: output, Format: FormatMarkdown}
}

// FailedResult builds a failed envelope carrying a single typed error.
func FailedResult(execErr *ExecutionError) *Result {
	return &Result{
		Success: false,
		Format:  FormatText,
		Errors:  []*ExecutionError{execErr},
	}
}

// Stamp fills in the command id and timing on a handler-produced result.
func (r *Result) Stamp(commandID string, start, end time.Time) *Result {
	r.CommandID = commandID
	r.Performance = Performance{
		StartTime: start,
		EndTime:   end,
		Duration:  end.Sub(start),
	}
	r.Metadata.ExecutionTime = r.Performance.Duration
	for _, e := range r.Errors {
		if e.CommandID == "" {
			e.CommandID = commandID
		}
	}
	return r
}
