package workspace

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/maestrohq/maestro/pkg/command"
	"github.com/maestrohq/maestro/pkg/logger"
)

// skipDirs are directories the inspector never descends into.
var skipDirs = map[string]bool{
	".git":         true,
	"node_modules": true,
	"vendor":       true,
	"dist":         true,
	"build":        true,
	".idea":        true,
	".vscode":      true,
}

// Inspect walks the sandbox root and fills in the measurable Project facts:
// file count, dependency count, and the primary language when it can be
// guessed from manifests. Caller-provided fields (Name, Type, Frameworks)
// are preserved.
func (s *Sandbox) Inspect(project *command.Project) *command.Project {
	return s.InspectDir(s.Root, project)
}

// InspectDir is Inspect scoped to one directory. Facts are derived from the
// subtree under dir, including its dependency manifests.
func (s *Sandbox) InspectDir(dir string, project *command.Project) *command.Project {
	if project == nil {
		project = &command.Project{}
	}

	files := 0
	extCounts := make(map[string]int)
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil // unreadable entries don't abort the scan
		}
		if d.IsDir() {
			if skipDirs[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		files++
		if ext := filepath.Ext(d.Name()); ext != "" {
			extCounts[ext]++
		}
		return nil
	})
	if err != nil {
		logger.WarnCF("workspace", "Project scan failed",
			map[string]any{"root": dir, "error": err.Error()})
		return project
	}

	project.FileCount = files
	if project.DependencyCount == 0 {
		project.DependencyCount = countDependencies(dir)
	}
	if project.Language == "" {
		project.Language = dominantLanguage(extCounts)
	}
	return project
}

// countDependencies reads whichever dependency manifest dir carries.
func countDependencies(dir string) int {
	if n := countGoModRequires(filepath.Join(dir, "go.mod")); n > 0 {
		return n
	}
	if n := countPackageJSONDeps(filepath.Join(dir, "package.json")); n > 0 {
		return n
	}
	return 0
}

func countGoModRequires(path string) int {
	f, err := os.Open(path)
	if err != nil {
		return 0
	}
	defer f.Close()

	count := 0
	inBlock := false
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		switch {
		case strings.HasPrefix(line, "require ("):
			inBlock = true
		case inBlock && line == ")":
			inBlock = false
		case inBlock && line != "" && !strings.HasPrefix(line, "//"):
			count++
		case strings.HasPrefix(line, "require ") && !strings.Contains(line, "("):
			count++
		}
	}
	return count
}

func countPackageJSONDeps(path string) int {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0
	}
	var manifest struct {
		Dependencies    map[string]string `json:"dependencies"`
		DevDependencies map[string]string `json:"devDependencies"`
	}
	if err := json.Unmarshal(data, &manifest); err != nil {
		return 0
	}
	return len(manifest.Dependencies) + len(manifest.DevDependencies)
}

var languageByExt = map[string]string{
	".go":   "go",
	".ts":   "typescript",
	".tsx":  "typescript",
	".js":   "javascript",
	".jsx":  "javascript",
	".py":   "python",
	".rs":   "rust",
	".java": "java",
	".rb":   "ruby",
}

func dominantLanguage(extCounts map[string]int) string {
	best, bestCount := "", 0
	for ext, count := range extCounts {
		lang, ok := languageByExt[ext]
		if !ok {
			continue
		}
		if count > bestCount {
			best, bestCount = lang, count
		}
	}
	return best
}
