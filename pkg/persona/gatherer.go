package persona

import (
	"context"
	"strings"

	"github.com/maestrohq/maestro/pkg/command"
	"github.com/maestrohq/maestro/pkg/logger"
)

// Gatherer assembles the candidate pool for one selection call.
type Gatherer struct {
	repo Repository
}

// NewGatherer creates a Gatherer over the given repository.
func NewGatherer(repo Repository) *Gatherer {
	return &Gatherer{repo: repo}
}

// Gather unions three sources: personas matching any project technology,
// active personas matching the project type through their activation
// triggers (no PROJECT_TYPE trigger means universally applicable), and the
// full active pool. Duplicates collapse to their first occurrence.
// Repository failures degrade to an empty contribution.
func (g *Gatherer) Gather(ctx context.Context, execCtx command.ExecutionContext) []*Persona {
	var pool []*Persona
	seen := make(map[string]bool)

	add := func(p *Persona) {
		if p == nil || seen[p.ID] {
			return
		}
		seen[p.ID] = true
		pool = append(pool, p)
	}

	for _, tech := range execCtx.Project.Technologies() {
		matches, err := g.repo.FindByTechnology(ctx, tech)
		if err != nil {
			logger.WarnCF("persona", "Technology lookup failed",
				map[string]any{"technology": tech, "error": err.Error()})
			continue
		}
		for _, p := range matches {
			add(p)
		}
	}

	active, err := g.repo.FindAllActive(ctx)
	if err != nil {
		logger.WarnCF("persona", "Active persona lookup failed",
			map[string]any{"error": err.Error()})
		active = nil
	}

	if execCtx.Project != nil && execCtx.Project.Type != "" {
		projectType := strings.ToLower(execCtx.Project.Type)
		for _, p := range active {
			if matchesProjectType(p, projectType) {
				add(p)
			}
		}
	}

	for _, p := range active {
		add(p)
	}

	return pool
}

func matchesProjectType(p *Persona, projectType string) bool {
	triggers := p.projectTypeTriggers()
	if len(triggers) == 0 {
		return true // no PROJECT_TYPE trigger: universally applicable
	}
	for _, v := range triggers {
		if strings.EqualFold(v, projectType) {
			return true
		}
	}
	return false
}
