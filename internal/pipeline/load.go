package pipeline

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Load reads a pipeline document from path. JSON is a subset of YAML, so both
// formats are accepted.
func Load(path string) (*Pipeline, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("reading pipeline file %s: %w", path, err)
	}

	p, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing pipeline file %s: %w", path, err)
	}

	return p, nil
}

// Parse decodes a pipeline document.
func Parse(data []byte) (*Pipeline, error) {
	var p Pipeline
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, err
	}

	if len(p.Stages) == 0 && len(p.Triggers) == 0 && p.Name == "" {
		return nil, fmt.Errorf("document does not look like a pipeline: no name, stages or triggers")
	}

	return &p, nil
}
