package handlers

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maestrohq/maestro/pkg/command"
	"github.com/maestrohq/maestro/pkg/workspace"
)

func analyzeWorkspace(t *testing.T) *workspace.Sandbox {
	t.Helper()
	root := t.TempDir()
	files := map[string]string{
		"go.mod":          "module example.com/demo\n\nrequire github.com/google/uuid v1.6.0\n",
		"main.go":         "package main\n",
		"src/a.go":        "package src\n",
		"src/b.go":        "package src\n",
		"src/sub/c.go":    "package sub\n",
		"docs/readme.txt": "notes\n",
	}
	for name, content := range files {
		path := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	sandbox, err := workspace.NewSandbox(root, true)
	require.NoError(t, err)
	return sandbox
}

func analyzeCommand(raw string, args []string, opts map[string]command.OptionValue) *command.Command {
	parsed := command.ParsedCommand{Name: "analyze", Arguments: args, Options: opts, Raw: raw}
	return command.New(parsed, command.ExecutionContext{SessionID: "s1"}, time.Second)
}

func TestAnalyzeHandler_ScopesToRequestedPath(t *testing.T) {
	sandbox := analyzeWorkspace(t)
	h := &analyzeHandler{rt: &Runtime{Sandbox: sandbox}}

	result, err := h.Execute(context.Background(), analyzeCommand("analyze src", []string{"src"}, nil))
	require.NoError(t, err)
	require.True(t, result.Success)
	assert.Contains(t, result.Output, "- Files: 3", "counts the requested subtree, not the whole workspace")
	assert.Contains(t, result.Output, "- Path: "+filepath.Join(sandbox.Root, "src"))
}

func TestAnalyzeHandler_WholeWorkspaceByDefault(t *testing.T) {
	h := &analyzeHandler{rt: &Runtime{Sandbox: analyzeWorkspace(t)}}

	result, err := h.Execute(context.Background(), analyzeCommand("analyze", nil, nil))
	require.NoError(t, err)
	require.True(t, result.Success)
	assert.Contains(t, result.Output, "- Files: 6")
	assert.Contains(t, result.Output, "- Dependencies: 1")
	assert.Contains(t, result.Output, "- Primary language: go")
}

func TestAnalyzeHandler_RejectsEscapingPath(t *testing.T) {
	h := &analyzeHandler{rt: &Runtime{Sandbox: analyzeWorkspace(t)}}

	_, err := h.Execute(context.Background(), analyzeCommand("analyze ../outside", []string{"../outside"}, nil))
	assert.Error(t, err)
}
