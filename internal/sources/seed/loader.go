// Package seed reads the YAML fixtures used by the admin bulk load.
package seed

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"gopkg.in/yaml.v3"

	"github.com/MrSnakeDoc/shelf/internal/domain"
)

// Loader reads <dir>/<kind>.yaml files.
type Loader struct {
	dir string
}

func NewLoader(dir string) *Loader {
	return &Loader{dir: dir}
}

// Path returns the fixture file of a collection.
func (l *Loader) Path(kind domain.Kind) string {
	return filepath.Join(l.dir, string(kind)+".yaml")
}

func load[T any](l *Loader, kind domain.Kind) ([]T, error) {
	data, err := os.ReadFile(l.Path(kind))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s seed file: %w", kind, err)
	}

	data = expandEnv(data)

	var file File[T]
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse %s seed yaml: %w", kind, err)
	}
	return file.Items, nil
}

var envRef = regexp.MustCompile(`\{\{\s*([A-Z0-9_]+)\s*\}\}`)

// expandEnv replaces {{VAR}} with the value of the environment variable VAR
// so fixtures can point at deployment specific asset hosts.
func expandEnv(data []byte) []byte {
	return envRef.ReplaceAllFunc(data, func(m []byte) []byte {
		name := envRef.FindSubmatch(m)[1]
		return []byte(os.Getenv(string(name)))
	})
}

func (l *Loader) Apps() ([]domain.App, error) {
	seeds, err := load[AppSeed](l, domain.KindApps)
	if err != nil {
		return nil, err
	}
	return mapAll(seeds, mapApp)
}

func (l *Loader) Workflows() ([]domain.Workflow, error) {
	seeds, err := load[WorkflowSeed](l, domain.KindWorkflows)
	if err != nil {
		return nil, err
	}
	return mapAll(seeds, mapWorkflow)
}

func (l *Loader) Repos() ([]domain.Repo, error) {
	seeds, err := load[RepoSeed](l, domain.KindRepos)
	if err != nil {
		return nil, err
	}
	return mapAll(seeds, mapRepo)
}

func (l *Loader) MCPs() ([]domain.MCP, error) {
	seeds, err := load[MCPSeed](l, domain.KindMCPs)
	if err != nil {
		return nil, err
	}
	return mapAll(seeds, mapMCP)
}
