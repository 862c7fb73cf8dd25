package store

import (
	"context"
	"fmt"

	"github.com/maestrohq/maestro/pkg/persona"
)

// defaultPersonas is the starter pool installed on first run.
var defaultPersonas = []*persona.Persona{
	{
		ID:   "dev-generalist",
		Name: "Generalist Developer",
		Type: "developer",
		Expertise: []persona.ExpertiseArea{
			{Domain: "backend", Level: persona.LevelAdvanced, Technologies: []string{"go", "python", "node", "typescript"}},
			{Domain: "tooling", Level: persona.LevelIntermediate, Technologies: []string{"docker", "git"}},
		},
		Style:    persona.ResponseStyle{Verbosity: persona.VerbosityNormal, Language: "en"},
		Settings: persona.Settings{Active: true},
	},
	{
		ID:   "api-architect",
		Name: "API Architect",
		Type: "architect",
		Expertise: []persona.ExpertiseArea{
			{Domain: "api-design", Level: persona.LevelExpert, Technologies: []string{"rest", "grpc", "graphql"}},
			{Domain: "backend", Level: persona.LevelExpert, Technologies: []string{"go", "java"}},
		},
		ActivationTriggers: []persona.Trigger{
			{Type: persona.TriggerProjectType, Values: []string{"api_service", "library"}},
		},
		Style:    persona.ResponseStyle{Verbosity: persona.VerbosityNormal, Language: "en"},
		Settings: persona.Settings{Active: true},
	},
	{
		ID:   "frontend-specialist",
		Name: "Frontend Specialist",
		Type: "developer",
		Expertise: []persona.ExpertiseArea{
			{Domain: "frontend", Level: persona.LevelExpert, Technologies: []string{"react", "vue", "typescript", "css"}},
		},
		ActivationTriggers: []persona.Trigger{
			{Type: persona.TriggerProjectType, Values: []string{"web_application", "mobile_app"}},
		},
		Style:    persona.ResponseStyle{Verbosity: persona.VerbosityVerbose, Language: "en"},
		Settings: persona.Settings{Active: true},
	},
	{
		ID:   "devops-engineer",
		Name: "DevOps Engineer",
		Type: "devops",
		Expertise: []persona.ExpertiseArea{
			{Domain: "infrastructure", Level: persona.LevelAdvanced, Technologies: []string{"kubernetes", "terraform", "docker", "aws"}},
		},
		ActivationTriggers: []persona.Trigger{
			{Type: persona.TriggerProjectType, Values: []string{"api_service", "cli_tool", "data_pipeline"}},
		},
		Style:    persona.ResponseStyle{Verbosity: persona.VerbosityMinimal, Language: "en"},
		Settings: persona.Settings{Active: true},
	},
	{
		ID:   "data-analyst",
		Name: "Data Analyst",
		Type: "analyst",
		Expertise: []persona.ExpertiseArea{
			{Domain: "data", Level: persona.LevelAdvanced, Technologies: []string{"sql", "python", "pandas"}},
		},
		ActivationTriggers: []persona.Trigger{
			{Type: persona.TriggerProjectType, Values: []string{"data_pipeline"}},
		},
		Style:    persona.ResponseStyle{Verbosity: persona.VerbosityNormal, Language: "en"},
		Settings: persona.Settings{Active: true},
	},
}

// Seed installs the default persona pool when the personas table is empty.
func (s *Store) Seed(ctx context.Context) error {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM personas`).Scan(&count); err != nil {
		return fmt.Errorf("count personas: %w", err)
	}
	if count > 0 {
		return nil
	}
	for _, p := range defaultPersonas {
		if err := s.SavePersona(ctx, p); err != nil {
			return fmt.Errorf("seed persona %s: %w", p.ID, err)
		}
	}
	return nil
}
