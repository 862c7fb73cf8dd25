package parser

import (
	"sort"
	"strings"
	"time"

	"github.com/maestrohq/maestro/pkg/command"
)

const (
	parserID      = "maestro-cli"
	parserVersion = "1.0"

	// similarityFloor is the minimum normalized Levenshtein similarity for
	// a registered name to be suggested as an alternative.
	similarityFloor = 0.6
	maxAlternatives = 3
)

// subcommandVerbs is the closed set surfaced as advisory subcommand
// metadata when it appears as the first positional argument.
var subcommandVerbs = map[string]bool{
	"add":    true,
	"remove": true,
	"update": true,
	"list":   true,
	"show":   true,
	"create": true,
	"delete": true,
}

// Resolver is the slice of the handler registry the parser needs: alias
// resolution and name lookup.
type Resolver interface {
	// Resolve maps an alias to its canonical handler name, returning the
	// input unchanged when it is not a registered alias.
	Resolve(name string) string
	// Exists reports whether a handler is registered under name.
	Exists(name string) bool
	// Names lists all canonical registered handler names.
	Names() []string
}

// Parser turns raw command lines into ParsedCommands.
type Parser struct {
	resolver Resolver
}

// New creates a Parser backed by the given resolver.
func New(resolver Resolver) *Parser {
	return &Parser{resolver: resolver}
}

// Parse tokenizes and structures a raw command line. It fails only on
// malformed input (unclosed quote, empty line); an unknown command name
// still parses, with low confidence and near-miss alternatives attached.
func (p *Parser) Parse(raw string) (command.ParsedCommand, error) {
	tokens, err := Tokenize(raw)
	if err != nil {
		return command.ParsedCommand{}, err
	}
	if len(tokens) == 0 {
		return command.ParsedCommand{}, &ParseError{Message: "empty command", Input: raw}
	}

	name := p.resolver.Resolve(strings.ToLower(tokens[0]))
	args, opts := SplitOptions(tokens[1:])

	parsed := command.ParsedCommand{
		Name:       name,
		Subcommand: detectSubcommand(args),
		Arguments:  args,
		Options:    opts,
		Raw:        raw,
	}
	parsed.Metadata = command.ParseMetadata{
		ParserID:   parserID,
		Version:    parserVersion,
		Timestamp:  time.Now(),
		Confidence: p.confidence(parsed),
	}
	if !p.resolver.Exists(name) {
		parsed.Metadata.Alternatives = p.alternatives(parsed)
	}
	return parsed, nil
}

// detectSubcommand surfaces a known verb in the first positional argument.
// Advisory only; it never changes how the command routes.
func detectSubcommand(args []string) string {
	if len(args) == 0 {
		return ""
	}
	first := args[0]
	if strings.ContainsAny(first, "/.") {
		return ""
	}
	verb := strings.ToLower(first)
	if subcommandVerbs[verb] {
		return verb
	}
	return ""
}

// confidence is the fixed parse heuristic: base 0.5, +0.3 when a handler
// exists for the name, +0.1 for non-empty arguments, +0.1 for non-empty
// options, clamped to 1.0.
func (p *Parser) confidence(parsed command.ParsedCommand) float64 {
	score := 0.5
	if p.resolver.Exists(parsed.Name) {
		score += 0.3
	}
	if len(parsed.Arguments) > 0 {
		score += 0.1
	}
	if len(parsed.Options) > 0 {
		score += 0.1
	}
	if score > 1.0 {
		score = 1.0
	}
	return score
}

// alternatives suggests up to three registered commands whose names are
// close to the unresolved one, most similar first.
func (p *Parser) alternatives(parsed command.ParsedCommand) []command.ParsedCommand {
	type scored struct {
		name string
		sim  float64
	}
	var near []scored
	for _, candidate := range p.resolver.Names() {
		sim := Similarity(parsed.Name, candidate)
		if sim > similarityFloor {
			near = append(near, scored{name: candidate, sim: sim})
		}
	}
	sort.SliceStable(near, func(i, j int) bool { return near[i].sim > near[j].sim })
	if len(near) > maxAlternatives {
		near = near[:maxAlternatives]
	}

	alts := make([]command.ParsedCommand, 0, len(near))
	for _, n := range near {
		alt := parsed
		alt.Name = n.name
		alt.Metadata = command.ParseMetadata{
			ParserID:   parserID,
			Version:    parserVersion,
			Timestamp:  parsed.Metadata.Timestamp,
			Confidence: n.sim,
		}
		alts = append(alts, alt)
	}
	return alts
}
