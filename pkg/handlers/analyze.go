package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/maestrohq/maestro/pkg/command"
	"github.com/maestrohq/maestro/pkg/handler"
)

// analyzeHandler scans the workspace (or a subpath of it) and reports the
// measurable project facts the persona engine scores against.
type analyzeHandler struct {
	base
	rt *Runtime
}

func (h *analyzeHandler) Name() string        { return "analyze" }
func (h *analyzeHandler) Aliases() []string   { return []string{"scan"} }
func (h *analyzeHandler) Description() string { return "Analyze the project workspace" }

func (h *analyzeHandler) Parameters() []handler.Parameter {
	return []handler.Parameter{
		{Name: "path", Type: handler.TypeString, Description: "Path to analyze, relative to the workspace"},
	}
}

func (h *analyzeHandler) Execute(ctx context.Context, cmd *command.Command) (*command.Result, error) {
	if h.rt.Sandbox == nil {
		return command.TextResult("no workspace configured"), nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	target := h.rt.Sandbox.Root
	if len(cmd.Arguments) > 0 {
		resolved, err := h.rt.Sandbox.Resolve(cmd.Arguments[0])
		if err != nil {
			return nil, err
		}
		target = resolved
	}

	// Measure the requested subtree; only the declared identity of the
	// project carries over from the execution context.
	project := &command.Project{}
	if ctxProject := cmd.Context.Project; ctxProject != nil {
		project.Name = ctxProject.Name
		project.Type = ctxProject.Type
		project.Frameworks = ctxProject.Frameworks
	}
	project = h.rt.Sandbox.InspectDir(target, project)

	var b strings.Builder
	fmt.Fprintf(&b, "## Project analysis\n\n")
	fmt.Fprintf(&b, "- Path: %s\n", target)
	fmt.Fprintf(&b, "- Files: %d\n", project.FileCount)
	fmt.Fprintf(&b, "- Dependencies: %d\n", project.DependencyCount)
	if project.Language != "" {
		fmt.Fprintf(&b, "- Primary language: %s\n", project.Language)
	}
	if len(project.Frameworks) > 0 {
		fmt.Fprintf(&b, "- Frameworks: %s\n", strings.Join(project.Frameworks, ", "))
	}
	if _, deep := cmd.Options["deep"]; deep {
		fmt.Fprintf(&b, "- Technologies: %s\n", strings.Join(project.Technologies(), ", "))
	}
	return command.MarkdownResult(b.String()), nil
}
