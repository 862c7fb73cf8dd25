// Package command defines the data model shared by the routing engine:
// parsed invocations, validated commands, result envelopes, and the
// execution context both engines consume.
package command

import (
	"strconv"
	"time"
)

// OptionValue is the value of a parsed command option. Options carry either
// a string value (--depth=3, --name foo) or a boolean presence flag (-v).
type OptionValue struct {
	Str    string
	Bool   bool
	IsBool bool
}

// StringOption wraps a string option value.
func StringOption(s string) OptionValue {
	return OptionValue{Str: s}
}

// BoolOption wraps a boolean presence flag.
func BoolOption(b bool) OptionValue {
	return OptionValue{Bool: b, IsBool: true}
}

// String renders the value for display and for handlers that accept
// stringly-typed parameters.
func (v OptionValue) String() string {
	if v.IsBool {
		return strconv.FormatBool(v.Bool)
	}
	return v.Str
}

// ParsedCommand is the structured form of a raw command line after
// tokenization, option splitting, and alias resolution. Name is always
// lower-cased and alias-resolved before storage.
type ParsedCommand struct {
	Name       string
	Subcommand string
	Arguments  []string
	Options    map[string]OptionValue
	Raw        string
	Metadata   ParseMetadata
}

// ParseMetadata describes how a ParsedCommand was produced. Confidence is a
// deterministic heuristic in [0,1], not a probability.
type ParseMetadata struct {
	ParserID     string
	Version      string
	Timestamp    time.Time
	Confidence   float64
	Alternatives []ParsedCommand
}
