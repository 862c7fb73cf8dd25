package persona

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/maestrohq/maestro/pkg/command"
	"github.com/maestrohq/maestro/pkg/logger"
)

// neutralScore stands in when a factor has no data to judge by.
const neutralScore = 0.5

// projectTypeAffinity is the fixed allow-list mapping a project type to the
// persona types that fit it. Persona types outside the list score 0.3.
var projectTypeAffinity = map[string][]string{
	"api_service":     {"developer", "architect", "devops"},
	"web_application": {"developer", "designer", "architect"},
	"cli_tool":        {"developer", "devops"},
	"library":         {"developer", "architect"},
	"mobile_app":      {"developer", "designer"},
	"data_pipeline":   {"analyst", "developer", "devops"},
}

// verbosityAffinity maps user experience level x persona verbosity to a
// preference score. Beginners want verbose guidance; experts want terse
// answers.
var verbosityAffinity = map[command.ExperienceLevel]map[Verbosity]float64{
	command.ExperienceBeginner:     {VerbosityVerbose: 1.0, VerbosityNormal: 0.7, VerbosityMinimal: 0.3},
	command.ExperienceIntermediate: {VerbosityVerbose: 0.7, VerbosityNormal: 1.0, VerbosityMinimal: 0.6},
	command.ExperienceAdvanced:     {VerbosityVerbose: 0.4, VerbosityNormal: 0.8, VerbosityMinimal: 1.0},
	command.ExperienceExpert:       {VerbosityVerbose: 0.2, VerbosityNormal: 0.6, VerbosityMinimal: 1.0},
}

// Scorer computes a bounded confidence score per persona from six weighted
// factors. The score is the plain weighted sum of the available factors,
// clamped to [0,1]; factors whose preconditions are unmet simply drop out
// with their weight, with no renormalization of the remainder. A sparse
// context therefore yields a low score, not an inflated average.
type Scorer struct {
	repo    Repository
	weights Weights
	now     func() time.Time
}

// NewScorer creates a Scorer. A zero Weights value falls back to the
// defaults.
func NewScorer(repo Repository, weights Weights) *Scorer {
	if weights == (Weights{}) {
		weights = DefaultWeights()
	}
	return &Scorer{repo: repo, weights: weights, now: time.Now}
}

// SetClock overrides the scorer's clock, for tests.
func (s *Scorer) SetClock(now func() time.Time) {
	s.now = now
}

// Score returns the persona's confidence in [0,1] for the given context,
// with a human-readable reason per contributing factor.
func (s *Scorer) Score(ctx context.Context, p *Persona, execCtx command.ExecutionContext) (float64, []string) {
	var sum float64
	applied := false
	var reasons []string

	apply := func(name string, weight, value float64) {
		sum += value * weight
		applied = true
		reasons = append(reasons, fmt.Sprintf("%s %.2f", name, value))
	}

	if execCtx.Project != nil {
		apply("technology", s.weights.TechnologyMatch, s.technologyMatch(p, execCtx.Project))
		apply("expertise", s.weights.ExpertiseLevel, s.expertiseMatch(p, execCtx.Project))
		if execCtx.Project.Type != "" {
			apply("project-type", s.weights.ProjectType, s.projectTypeMatch(p, execCtx.Project.Type))
		}
	}
	if execCtx.User != nil {
		apply("past-performance", s.weights.PastPerformance, s.pastPerformance(ctx, p, execCtx.User.ID))
		apply("preference", s.weights.UserPreference, s.userPreference(p, execCtx.User))
	}
	apply("time-of-day", s.weights.TimeOfDay, s.timeOfDay(p))

	if !applied {
		return neutralScore, []string{"no scoring factors available"}
	}
	return clamp01(sum), reasons
}

// technologyMatch scores overlap between the persona's expertise and the
// project's technology set. Neutral when the project declares nothing.
func (s *Scorer) technologyMatch(p *Persona, project *command.Project) float64 {
	techs := project.Technologies()
	if len(techs) == 0 {
		return neutralScore
	}
	techSet := make(map[string]bool, len(techs))
	for _, t := range techs {
		techSet[t] = true
	}

	matches := 0
	levelTotal := 0.0
	for _, area := range p.Expertise {
		for _, t := range area.Technologies {
			if techSet[strings.ToLower(t)] {
				matches++
				levelTotal += area.Level.Score()
				break
			}
		}
	}
	if matches == 0 {
		return 0
	}

	coverage := float64(matches) / float64(len(techs))
	if coverage > 1 {
		coverage = 1
	}
	return 0.7*(levelTotal/float64(matches)) + 0.3*coverage
}

// expertiseMatch compares estimated project complexity against the
// persona's average expertise, both on a 0..4 scale.
func (s *Scorer) expertiseMatch(p *Persona, project *command.Project) float64 {
	complexity := estimateComplexity(project)
	diff := math.Abs(complexity - p.AverageExpertise())
	v := 1 - diff/4
	if v < 0 {
		return 0
	}
	return v
}

// estimateComplexity grades a project 1..4: baseline 1, plus one for each
// of >3 frameworks, >50 dependencies, >1000 files, capped at 4.
func estimateComplexity(project *command.Project) float64 {
	complexity := 1
	if len(project.Frameworks) > 3 {
		complexity++
	}
	if project.DependencyCount > 50 {
		complexity++
	}
	if project.FileCount > 1000 {
		complexity++
	}
	if complexity > 4 {
		complexity = 4
	}
	return float64(complexity)
}

// pastPerformance scores the user's recorded history with this persona.
// Missing history and lookup failures are both neutral; scoring never
// propagates repository errors.
func (s *Scorer) pastPerformance(ctx context.Context, p *Persona, userID string) float64 {
	history, err := s.repo.UserHistory(ctx, userID)
	if err != nil {
		logger.WarnCF("persona", "History lookup failed, scoring neutral",
			map[string]any{"user": userID, "error": err.Error()})
		return neutralScore
	}

	var total, succeeded, satisfaction int
	for _, rec := range history {
		if rec.PersonaID != p.ID {
			continue
		}
		total++
		if rec.Success {
			succeeded++
		}
		satisfaction += rec.Satisfaction
	}
	if total == 0 {
		return neutralScore
	}

	successRate := float64(succeeded) / float64(total)
	meanSatisfaction := float64(satisfaction) / float64(total)
	return 0.6*successRate + 0.4*(meanSatisfaction/5)
}

// userPreference combines verbosity fit with language fit.
func (s *Scorer) userPreference(p *Persona, user *command.User) float64 {
	verbosity := 0.7 // default for unknown level/verbosity combinations
	if row, ok := verbosityAffinity[user.ExperienceLevel]; ok {
		if v, ok := row[p.Style.Verbosity]; ok {
			verbosity = v
		}
	}

	language := 0.7
	if user.PreferredLanguage == "" || strings.EqualFold(user.PreferredLanguage, p.Style.Language) {
		language = 1.0
	}

	return 0.7*verbosity + 0.3*language
}

func (s *Scorer) projectTypeMatch(p *Persona, projectType string) float64 {
	allowed := projectTypeAffinity[strings.ToLower(projectType)]
	for _, t := range allowed {
		if strings.EqualFold(t, p.Type) {
			return 1.0
		}
	}
	return 0.3
}

// timeOfDay gives focus-heavy persona types a bonus during deep-work
// windows and everyone a bonus during working hours.
func (s *Scorer) timeOfDay(p *Persona) float64 {
	hour := s.now().Hour()
	switch strings.ToLower(p.Type) {
	case "architect", "analyst":
		if (hour >= 9 && hour < 11) || (hour >= 14 && hour < 16) {
			return 1.0
		}
		return 0.8
	default:
		if hour >= 9 && hour < 17 {
			return 1.0
		}
		return 0.7
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
