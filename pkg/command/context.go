package command

import (
	"strings"
	"time"
)

// ExperienceLevel describes how seasoned a user is; it feeds the persona
// preference scoring.
type ExperienceLevel string

const (
	ExperienceBeginner     ExperienceLevel = "beginner"
	ExperienceIntermediate ExperienceLevel = "intermediate"
	ExperienceAdvanced     ExperienceLevel = "advanced"
	ExperienceExpert       ExperienceLevel = "expert"
)

// User identifies who issued the command.
type User struct {
	ID                string
	ExperienceLevel   ExperienceLevel
	PreferredLanguage string
}

// Project describes the codebase the command operates on. Frameworks and
// Language drive persona technology matching; DependencyCount and FileCount
// feed the project complexity estimate.
type Project struct {
	Name            string
	Type            string
	Language        string
	Frameworks      []string
	DependencyCount int
	FileCount       int
}

// Technologies returns the project's distinct technology set: declared
// frameworks plus the primary language, lower-cased.
func (p *Project) Technologies() []string {
	if p == nil {
		return nil
	}
	seen := make(map[string]bool, len(p.Frameworks)+1)
	techs := make([]string, 0, len(p.Frameworks)+1)
	add := func(t string) {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" || seen[t] {
			return
		}
		seen[t] = true
		techs = append(techs, t)
	}
	for _, fw := range p.Frameworks {
		add(fw)
	}
	add(p.Language)
	return techs
}

// ExecutionContext describes the session, user, and project a command or a
// persona selection runs against. User and Project are optional; scoring
// factors that need them are skipped when absent.
type ExecutionContext struct {
	SessionID  string
	User       *User
	Project    *Project
	WorkingDir string
	Timestamp  time.Time
}
