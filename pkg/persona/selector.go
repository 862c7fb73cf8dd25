package persona

import (
	"context"
	"math/rand"
	"sort"
	"strings"
	"time"

	"github.com/maestrohq/maestro/pkg/command"
	"github.com/maestrohq/maestro/pkg/logger"
)

// Strategy picks among qualified candidates.
type Strategy string

const (
	// StrategyConfidence always takes the highest-scoring candidate.
	StrategyConfidence Strategy = "confidence_based"
	// StrategyHybrid currently behaves like confidence_based.
	StrategyHybrid Strategy = "hybrid"
	// StrategyLearning takes the runner-up 10% of the time to keep
	// gathering signal on alternatives.
	StrategyLearning Strategy = "learning_optimized"
)

// exploreRate is the runner-up pick probability for StrategyLearning.
const exploreRate = 0.1

// SelectorOptions tunes selection behavior.
type SelectorOptions struct {
	MinConfidence   float64
	Strategy        Strategy
	MaxCandidates   int
	FallbackEnabled bool
	FallbackID      string
}

// DefaultSelectorOptions returns the stock selection settings.
func DefaultSelectorOptions() SelectorOptions {
	return SelectorOptions{
		MinConfidence:   0.7,
		Strategy:        StrategyConfidence,
		MaxCandidates:   5,
		FallbackEnabled: true,
	}
}

// Selector runs the full selection pipeline: gather, score, filter, pick,
// fall back.
type Selector struct {
	repo     Repository
	gatherer *Gatherer
	scorer   *Scorer
	opts     SelectorOptions
	randFn   func() float64
}

// NewSelector creates a Selector with the given repository, weights, and
// options.
func NewSelector(repo Repository, weights Weights, opts SelectorOptions) *Selector {
	if opts.MinConfidence <= 0 {
		opts.MinConfidence = DefaultSelectorOptions().MinConfidence
	}
	if opts.Strategy == "" {
		opts.Strategy = StrategyConfidence
	}
	if opts.MaxCandidates <= 0 {
		opts.MaxCandidates = DefaultSelectorOptions().MaxCandidates
	}
	return &Selector{
		repo:     repo,
		gatherer: NewGatherer(repo),
		scorer:   NewScorer(repo, weights),
		opts:     opts,
		randFn:   rand.Float64,
	}
}

// Scorer exposes the selector's scorer so callers can adjust its clock.
func (s *Selector) Scorer() *Scorer {
	return s.scorer
}

// SetRand overrides the exploration randomness source, for tests.
func (s *Selector) SetRand(fn func() float64) {
	s.randFn = fn
}

// Select picks the best persona for the context. It only reports failure
// when no candidate qualifies and fallback is disabled or finds nothing.
func (s *Selector) Select(ctx context.Context, execCtx command.ExecutionContext) SelectionResult {
	start := time.Now()

	pool := s.gatherer.Gather(ctx, execCtx)
	candidates := make([]Candidate, 0, len(pool))
	for _, p := range pool {
		confidence, reasons := s.scorer.Score(ctx, p, execCtx)
		threshold := s.opts.MinConfidence
		if p.Settings.ConfidenceThreshold > 0 {
			threshold = p.Settings.ConfidenceThreshold
		}
		if confidence < threshold {
			continue
		}
		candidates = append(candidates, Candidate{
			Persona:     p,
			Confidence:  confidence,
			Reasoning:   strings.Join(reasons, ", "),
			TriggeredBy: reasons,
		})
	}

	// Descending by confidence, persona id as tie-break so identical inputs
	// always order identically.
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Confidence != candidates[j].Confidence {
			return candidates[i].Confidence > candidates[j].Confidence
		}
		return candidates[i].Persona.ID < candidates[j].Persona.ID
	})

	if len(candidates) == 0 {
		return s.fallback(ctx, start)
	}

	pick := 0
	if s.opts.Strategy == StrategyLearning && len(candidates) > 1 && s.randFn() < exploreRate {
		pick = 1
	}
	selected := candidates[pick]

	alternatives := make([]Candidate, 0, len(candidates)-1)
	for i, c := range candidates {
		if i == pick {
			continue
		}
		alternatives = append(alternatives, c)
	}
	if max := s.opts.MaxCandidates - 1; len(alternatives) > max {
		alternatives = alternatives[:max]
	}

	logger.DebugCF("persona", "Persona selected", map[string]any{
		"persona":    selected.Persona.ID,
		"confidence": selected.Confidence,
		"candidates": len(candidates),
	})

	return SelectionResult{
		Success:       true,
		Selected:      selected.Persona,
		Confidence:    selected.Confidence,
		Reasoning:     selected.Reasoning,
		Alternatives:  alternatives,
		SelectionTime: time.Since(start),
	}
}

// fallback resolves the no-qualified-candidate path: the configured
// fallback id, then the first active developer, then the first active
// persona, then failure.
func (s *Selector) fallback(ctx context.Context, start time.Time) SelectionResult {
	if !s.opts.FallbackEnabled {
		return SelectionResult{
			Success:       false,
			Reasoning:     "no candidate cleared the confidence threshold and fallback is disabled",
			SelectionTime: time.Since(start),
		}
	}

	if s.opts.FallbackID != "" {
		if p, err := s.repo.FindByID(ctx, s.opts.FallbackID); err == nil && p != nil {
			return fallbackResult(p, "configured fallback persona", start)
		}
	}

	active, err := s.repo.FindAllActive(ctx)
	if err != nil {
		logger.WarnCF("persona", "Fallback lookup failed",
			map[string]any{"error": err.Error()})
		active = nil
	}
	for _, p := range active {
		if strings.EqualFold(p.Type, "developer") {
			return fallbackResult(p, "first active developer persona", start)
		}
	}
	if len(active) > 0 {
		return fallbackResult(active[0], "first active persona", start)
	}

	return SelectionResult{
		Success:       false,
		Reasoning:     "no qualified candidates and no fallback persona available",
		SelectionTime: time.Since(start),
	}
}

func fallbackResult(p *Persona, reason string, start time.Time) SelectionResult {
	return SelectionResult{
		Success:       true,
		Selected:      p,
		Confidence:    0,
		Reasoning:     reason,
		FallbackUsed:  true,
		SelectionTime: time.Since(start),
	}
}
