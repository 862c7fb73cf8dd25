// Package persona selects the best-matching expert persona for an execution
// context: candidate gathering, multi-factor confidence scoring, and
// strategy-based selection with deterministic fallback.
package persona

import (
	"context"
	"time"
)

// ExpertiseLevel grades how deep a persona's knowledge of a domain runs.
type ExpertiseLevel string

const (
	LevelBeginner     ExpertiseLevel = "beginner"
	LevelIntermediate ExpertiseLevel = "intermediate"
	LevelAdvanced     ExpertiseLevel = "advanced"
	LevelExpert       ExpertiseLevel = "expert"
	LevelMaster       ExpertiseLevel = "master"
)

// Score maps a level onto the fixed [0,1] scale used by technology
// matching.
func (l ExpertiseLevel) Score() float64 {
	switch l {
	case LevelBeginner:
		return 0.2
	case LevelIntermediate:
		return 0.4
	case LevelAdvanced:
		return 0.7
	case LevelExpert:
		return 0.9
	case LevelMaster:
		return 1.0
	default:
		return 0.0
	}
}

// Ordinal maps a level onto the 0..4 scale used for comparing against
// project complexity.
func (l ExpertiseLevel) Ordinal() int {
	switch l {
	case LevelBeginner:
		return 0
	case LevelIntermediate:
		return 1
	case LevelAdvanced:
		return 2
	case LevelExpert:
		return 3
	case LevelMaster:
		return 4
	default:
		return 0
	}
}

// ExpertiseArea is one domain a persona knows, with the technologies that
// domain covers.
type ExpertiseArea struct {
	Domain       string
	Level        ExpertiseLevel
	Technologies []string
}

// TriggerType classifies what an activation trigger matches against.
type TriggerType string

const (
	TriggerProjectType TriggerType = "project_type"
	TriggerTechnology  TriggerType = "technology"
	TriggerKeyword     TriggerType = "keyword"
)

// Trigger activates a persona when the execution context matches one of its
// values.
type Trigger struct {
	Type   TriggerType
	Values []string
}

// Verbosity describes how talkative a persona's responses are.
type Verbosity string

const (
	VerbosityVerbose Verbosity = "verbose"
	VerbosityNormal  Verbosity = "normal"
	VerbosityMinimal Verbosity = "minimal"
)

// ResponseStyle shapes how a persona phrases its output.
type ResponseStyle struct {
	Verbosity Verbosity
	Language  string
	Tone      string
}

// Settings holds a persona's runtime switches.
type Settings struct {
	Active              bool
	ConfidenceThreshold float64
}

// Persona is a named bundle of expertise and behavior. Read-mostly during
// selection; mutations go through the repository.
type Persona struct {
	ID                 string
	Name               string
	Type               string
	Expertise          []ExpertiseArea
	ActivationTriggers []Trigger
	Style              ResponseStyle
	Settings           Settings
}

// AverageExpertise returns the persona's mean expertise ordinal on the 0..4
// scale, 0 when the persona declares no expertise.
func (p *Persona) AverageExpertise() float64 {
	if len(p.Expertise) == 0 {
		return 0
	}
	total := 0
	for _, area := range p.Expertise {
		total += area.Level.Ordinal()
	}
	return float64(total) / float64(len(p.Expertise))
}

// projectTypeTriggers returns the values of the persona's PROJECT_TYPE
// triggers. An empty result means the persona is universally applicable.
func (p *Persona) projectTypeTriggers() []string {
	var values []string
	for _, t := range p.ActivationTriggers {
		if t.Type == TriggerProjectType {
			values = append(values, t.Values...)
		}
	}
	return values
}

// Candidate is an ephemeral scoring record created per selection call,
// never persisted.
type Candidate struct {
	Persona     *Persona
	Confidence  float64
	Reasoning   string
	TriggeredBy []string
}

// SelectionResult is the envelope every selection call returns.
type SelectionResult struct {
	Success       bool
	Selected      *Persona
	Confidence    float64
	Reasoning     string
	Alternatives  []Candidate
	FallbackUsed  bool
	SelectionTime time.Duration
}

// Interaction is one recorded exchange between a user and a persona; it
// feeds past-performance scoring.
type Interaction struct {
	ID           string
	UserID       string
	PersonaID    string
	Success      bool
	Satisfaction int // 1..5
	CreatedAt    time.Time
}

// Repository is the persistence boundary the engine consumes. All call
// sites treat it as failing I/O and degrade to neutral defaults instead of
// propagating errors.
type Repository interface {
	FindAllActive(ctx context.Context) ([]*Persona, error)
	FindByTechnology(ctx context.Context, tech string) ([]*Persona, error)
	FindByID(ctx context.Context, id string) (*Persona, error)
	UserHistory(ctx context.Context, userID string) ([]Interaction, error)
}

// Weights are the six scoring factor weights. They should sum to 1.0;
// the engine does not enforce it.
type Weights struct {
	TechnologyMatch float64
	ExpertiseLevel  float64
	PastPerformance float64
	UserPreference  float64
	ProjectType     float64
	TimeOfDay       float64
}

// DefaultWeights returns the stock weighting.
func DefaultWeights() Weights {
	return Weights{
		TechnologyMatch: 0.30,
		ExpertiseLevel:  0.25,
		PastPerformance: 0.20,
		UserPreference:  0.15,
		ProjectType:     0.07,
		TimeOfDay:       0.03,
	}
}
