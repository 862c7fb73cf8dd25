package persona

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maestrohq/maestro/pkg/command"
)

func testPersonas() []*Persona {
	return []*Persona{
		{
			ID:   "go-dev",
			Name: "Go Developer",
			Type: "developer",
			Expertise: []ExpertiseArea{
				{Domain: "backend", Level: LevelExpert, Technologies: []string{"go", "postgres"}},
			},
			Style:    ResponseStyle{Verbosity: VerbosityNormal, Language: "en"},
			Settings: Settings{Active: true},
		},
		{
			ID:   "py-dev",
			Name: "Python Developer",
			Type: "developer",
			Expertise: []ExpertiseArea{
				{Domain: "backend", Level: LevelAdvanced, Technologies: []string{"python"}},
			},
			Style:    ResponseStyle{Verbosity: VerbosityNormal, Language: "en"},
			Settings: Settings{Active: true},
		},
		{
			ID:   "designer",
			Name: "UI Designer",
			Type: "designer",
			Expertise: []ExpertiseArea{
				{Domain: "frontend", Level: LevelAdvanced, Technologies: []string{"figma"}},
			},
			ActivationTriggers: []Trigger{
				{Type: TriggerProjectType, Values: []string{"web_application"}},
			},
			Style:    ResponseStyle{Verbosity: VerbosityVerbose, Language: "en"},
			Settings: Settings{Active: true},
		},
	}
}

func goProjectContext() command.ExecutionContext {
	return command.ExecutionContext{
		User: &command.User{ID: "u1", ExperienceLevel: command.ExperienceIntermediate, PreferredLanguage: "en"},
		Project: &command.Project{
			Type:     "api_service",
			Language: "go",
		},
	}
}

func newTestSelector(repo Repository, opts SelectorOptions) *Selector {
	s := NewSelector(repo, DefaultWeights(), opts)
	s.Scorer().SetClock(workHours)
	return s
}

func TestSelector_PicksBestCandidate(t *testing.T) {
	repo := &memRepo{personas: testPersonas()}
	s := newTestSelector(repo, SelectorOptions{MinConfidence: 0.5})

	result := s.Select(context.Background(), goProjectContext())

	require.True(t, result.Success)
	require.NotNil(t, result.Selected)
	assert.Equal(t, "go-dev", result.Selected.ID)
	assert.False(t, result.FallbackUsed)
	assert.Greater(t, result.Confidence, 0.5)
	assert.NotEmpty(t, result.Reasoning)
}

func TestSelector_Deterministic(t *testing.T) {
	repo := &memRepo{personas: testPersonas()}
	s := newTestSelector(repo, SelectorOptions{MinConfidence: 0.5})

	first := s.Select(context.Background(), goProjectContext())
	for i := 0; i < 5; i++ {
		again := s.Select(context.Background(), goProjectContext())
		assert.Equal(t, first.Selected.ID, again.Selected.ID)
		assert.Equal(t, first.Confidence, again.Confidence)
	}
}

func TestSelector_LearningStrategyExplores(t *testing.T) {
	repo := &memRepo{personas: testPersonas()}
	s := newTestSelector(repo, SelectorOptions{MinConfidence: 0.5, Strategy: StrategyLearning})

	// Force the explore branch.
	s.SetRand(func() float64 { return 0.05 })
	result := s.Select(context.Background(), goProjectContext())
	require.True(t, result.Success)
	assert.NotEqual(t, "go-dev", result.Selected.ID, "explore picks the runner-up")

	// And the exploit branch.
	s.SetRand(func() float64 { return 0.95 })
	result = s.Select(context.Background(), goProjectContext())
	assert.Equal(t, "go-dev", result.Selected.ID)
}

func TestSelector_AlternativesExcludePick(t *testing.T) {
	repo := &memRepo{personas: testPersonas()}
	s := newTestSelector(repo, SelectorOptions{MinConfidence: 0.3, MaxCandidates: 2})

	result := s.Select(context.Background(), goProjectContext())
	require.True(t, result.Success)
	assert.LessOrEqual(t, len(result.Alternatives), 1)
	for _, alt := range result.Alternatives {
		assert.NotEqual(t, result.Selected.ID, alt.Persona.ID)
	}
}

func TestSelector_PersonaThresholdOverride(t *testing.T) {
	personas := testPersonas()
	// An unreachable per-persona threshold disqualifies the best match.
	personas[0].Settings.ConfidenceThreshold = 0.99

	repo := &memRepo{personas: personas}
	s := newTestSelector(repo, SelectorOptions{MinConfidence: 0.5})

	result := s.Select(context.Background(), goProjectContext())
	require.True(t, result.Success)
	assert.NotEqual(t, "go-dev", result.Selected.ID)
}

func TestSelector_FallbackChain(t *testing.T) {
	ctx := context.Background()
	// No persona can clear this threshold.
	strict := SelectorOptions{MinConfidence: 1.1, FallbackEnabled: true}

	t.Run("configured fallback id", func(t *testing.T) {
		repo := &memRepo{personas: testPersonas()}
		opts := strict
		opts.FallbackID = "designer"
		s := newTestSelector(repo, opts)

		result := s.Select(ctx, goProjectContext())
		require.True(t, result.Success)
		assert.True(t, result.FallbackUsed)
		assert.Equal(t, "designer", result.Selected.ID)
		assert.Equal(t, 0.0, result.Confidence)
	})

	t.Run("first active developer", func(t *testing.T) {
		repo := &memRepo{personas: testPersonas()}
		s := newTestSelector(repo, strict)

		result := s.Select(ctx, goProjectContext())
		require.True(t, result.Success)
		assert.True(t, result.FallbackUsed)
		assert.Equal(t, "developer", result.Selected.Type)
	})

	t.Run("first active when no developer", func(t *testing.T) {
		repo := &memRepo{personas: []*Persona{
			{ID: "analyst", Type: "analyst", Settings: Settings{Active: true}},
		}}
		s := newTestSelector(repo, strict)

		result := s.Select(ctx, goProjectContext())
		require.True(t, result.Success)
		assert.Equal(t, "analyst", result.Selected.ID)
	})

	t.Run("failure when nothing available", func(t *testing.T) {
		s := newTestSelector(&memRepo{}, strict)

		result := s.Select(ctx, goProjectContext())
		assert.False(t, result.Success)
		assert.Nil(t, result.Selected)
	})

	t.Run("fallback disabled", func(t *testing.T) {
		repo := &memRepo{personas: testPersonas()}
		opts := strict
		opts.FallbackEnabled = false
		s := newTestSelector(repo, opts)

		result := s.Select(ctx, goProjectContext())
		assert.False(t, result.Success)
	})
}

func TestSelector_RepositoryFailureDegrades(t *testing.T) {
	s := newTestSelector(&memRepo{failAll: true}, SelectorOptions{MinConfidence: 0.5, FallbackEnabled: true})

	result := s.Select(context.Background(), goProjectContext())
	assert.False(t, result.Success, "nothing to select and nothing to fall back to")
	assert.NotZero(t, result.SelectionTime)
}

func TestSelector_SelectionTimeRecorded(t *testing.T) {
	repo := &memRepo{personas: testPersonas()}
	s := newTestSelector(repo, SelectorOptions{MinConfidence: 0.5})

	result := s.Select(context.Background(), goProjectContext())
	assert.Greater(t, result.SelectionTime, time.Duration(0))
}
