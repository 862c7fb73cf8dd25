package command

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPriorityFor(t *testing.T) {
	assert.Equal(t, PriorityHigh, PriorityFor("help"))
	assert.Equal(t, PriorityHigh, PriorityFor("stop"))
	assert.Equal(t, PriorityHigh, PriorityFor("cancel"))
	assert.Equal(t, PriorityLow, PriorityFor("debug"))
	assert.Equal(t, PriorityLow, PriorityFor("log"))
	assert.Equal(t, PriorityNormal, PriorityFor("analyze"))
}

func TestNew(t *testing.T) {
	parsed := ParsedCommand{
		Name:      "help",
		Arguments: []string{"topics"},
		Options:   map[string]OptionValue{"verbose": BoolOption(true)},
		Raw:       "help topics --verbose",
	}
	cmd := New(parsed, ExecutionContext{SessionID: "s1"}, 5*time.Second)

	assert.NotEmpty(t, cmd.ID)
	assert.Equal(t, "s1", cmd.SessionID)
	assert.Equal(t, "help", cmd.Name)
	assert.Equal(t, PriorityHigh, cmd.Metadata.Priority)
	assert.Equal(t, 5*time.Second, cmd.Metadata.Timeout)

	other := New(parsed, ExecutionContext{}, time.Second)
	assert.NotEqual(t, cmd.ID, other.ID)
}

func TestOptionValue_String(t *testing.T) {
	assert.Equal(t, "hello", StringOption("hello").String())
	assert.Equal(t, "true", BoolOption(true).String())
	assert.Equal(t, "false", BoolOption(false).String())
}

func TestProject_Technologies(t *testing.T) {
	p := &Project{
		Language:   "Go",
		Frameworks: []string{"Gin", "gin", " Postgres ", ""},
	}
	assert.Equal(t, []string{"gin", "postgres", "go"}, p.Technologies())

	var nilProject *Project
	assert.Nil(t, nilProject.Technologies())
}

func TestResult_Stamp(t *testing.T) {
	start := time.Now()
	end := start.Add(40 * time.Millisecond)

	result := FailedResult(NewExecutionError(CodeTimeout, "too slow", nil))
	result.Stamp("cmd-1", start, end)

	assert.Equal(t, "cmd-1", result.CommandID)
	assert.Equal(t, 40*time.Millisecond, result.Performance.Duration)
	assert.Equal(t, 40*time.Millisecond, result.Metadata.ExecutionTime)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "cmd-1", result.Errors[0].CommandID, "stamped onto errors too")
}

func TestExecutionError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := NewExecutionError(CodeExecutionError, "wrapped", cause)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "EXECUTION_ERROR")
}
