// Package catalogcmd implements the deck catalog commands for scaffolding
// and fetching stage catalogs.
package catalogcmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/donaldgifford/deck/internal/catalog"
	"github.com/donaldgifford/deck/internal/template"
)

// InitOpts configures the catalog init operation.
type InitOpts struct {
	// Path is the target directory for the new catalog.
	Path string
	// Name is the catalog name. Defaults to the directory basename if empty.
	Name string
	// Description is the catalog description.
	Description string
	// GitInit controls whether to run git init in the new catalog.
	GitInit bool
	// Providers are cloud providers to pre-create sub-catalogs for.
	Providers []string
}

// InitResult holds the outcome of a catalog init operation.
type InitResult struct {
	// Dir is the absolute path of the created catalog.
	Dir string
	// GitInitialized indicates whether git init was run successfully.
	GitInitialized bool
}

const catalogTemplate = `apiVersion: v1
name: {{ quote .name }}
description: {{ quote .description }}
# Stage types, e.g.:
#   - key: {{ camelCase .name }}Check
#     label: {{ .name }} Check
#     validators:
#       - type: requiredField
#         fieldName: account
stages: []
triggers: []
notifications: []
`

const providerTemplate = `apiVersion: v1
name: {{ quote .name }}
# Provider implementations of base stages, e.g.:
#   - provides: deploy
#     cloudProvider: {{ lower .provider }}
stages: []
`

const readmeTemplate = `# {{ .name }}

{{ .description }}

## Structure

` + "```" + `
├── catalog.yaml         # Stages, triggers and notifications
└── <provider>/
    └── catalog.yaml     # Provider implementations
` + "```" + `

## Using the Catalog

Add it to ~/.config/deck/config.yaml:

` + "```yaml" + `
catalogs:
  - name: {{ kebabCase .name }}
    url: <repo>
` + "```" + `

Or fetch a single provider directly:

` + "```bash" + `
deck catalog fetch <repo>//<provider>
` + "```" + `
`

// Init scaffolds a new catalog directory.
func Init(opts *InitOpts) (*InitResult, error) {
	if opts.Path == "" {
		return nil, errors.New("catalog path is required")
	}

	absPath, err := filepath.Abs(opts.Path)
	if err != nil {
		return nil, fmt.Errorf("resolving path %s: %w", opts.Path, err)
	}

	index := filepath.Join(absPath, catalog.FileName)
	if _, err := os.Stat(index); err == nil {
		return nil, fmt.Errorf("%s already exists at %s", catalog.FileName, index)
	}

	if err := os.MkdirAll(absPath, 0o750); err != nil {
		return nil, fmt.Errorf("creating directory %s: %w", absPath, err)
	}

	name := opts.Name
	if name == "" {
		name = filepath.Base(absPath)
	}

	description := opts.Description
	if description == "" {
		description = "A deck stage catalog"
	}

	r := template.NewRenderer()
	vars := map[string]any{"name": name, "description": description}

	if err := writeCatalog(r, index, catalogTemplate, vars); err != nil {
		return nil, err
	}

	if err := writeReadme(r, absPath, vars); err != nil {
		return nil, err
	}

	for _, provider := range opts.Providers {
		if err := createProvider(r, absPath, name, provider); err != nil {
			return nil, err
		}
	}

	result := &InitResult{Dir: absPath}

	if opts.GitInit {
		result.GitInitialized = gitInit(absPath)
	}

	return result, nil
}

func writeCatalog(r *template.Renderer, path, tmpl string, vars map[string]any) error {
	content, err := r.Render(catalog.FileName, tmpl, vars)
	if err != nil {
		return err
	}

	if _, err := catalog.Parse([]byte(content)); err != nil {
		return fmt.Errorf("internal error: invalid catalog: %w", err)
	}

	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}

	return nil
}

func writeReadme(r *template.Renderer, rootDir string, vars map[string]any) error {
	content, err := r.Render("README.md", readmeTemplate, vars)
	if err != nil {
		return err
	}

	if err := os.WriteFile(filepath.Join(rootDir, "README.md"), []byte(content), 0o644); err != nil {
		return fmt.Errorf("writing README.md: %w", err)
	}

	return nil
}

func createProvider(r *template.Renderer, rootDir, name, provider string) error {
	dir := filepath.Join(rootDir, provider)

	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("creating provider %s: %w", provider, err)
	}

	vars := map[string]any{"name": name + "-" + provider, "provider": provider}

	return writeCatalog(r, filepath.Join(dir, catalog.FileName), providerTemplate, vars)
}

func gitInit(dir string) bool {
	cmd := exec.CommandContext(context.Background(), "git", "init", dir)
	cmd.Stdout = nil
	cmd.Stderr = nil

	return cmd.Run() == nil
}
