// Package catalog loads declarative stage, trigger and notification catalogs
// and applies them to a registry.
package catalog

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/donaldgifford/deck/internal/registry"
)

const (
	// APIVersion is the only catalog schema version understood.
	APIVersion = "v1"

	// FileName is the catalog index file expected at the root of a catalog.
	FileName = "catalog.yaml"
)

// Catalog is a set of registrations shipped together.
type Catalog struct {
	APIVersion  string   `yaml:"apiVersion"`
	Name        string   `yaml:"name"`
	Description string   `yaml:"description,omitempty"`
	Maintainers []string `yaml:"maintainers,omitempty"`

	Stages        []registry.StageTypeConfig        `yaml:"stages,omitempty"`
	Triggers      []registry.TriggerTypeConfig      `yaml:"triggers,omitempty"`
	Notifications []registry.NotificationTypeConfig `yaml:"notifications,omitempty"`
}

// Load reads catalog.yaml from root and validates it. root may also name the
// catalog file itself.
func Load(root string) (*Catalog, error) {
	path := root
	if !isYAML(root) {
		path = filepath.Join(root, FileName)
	}

	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("loading catalog from %s: %w", root, err)
	}

	cat, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("loading catalog from %s: %w", root, err)
	}

	return cat, nil
}

// Parse decodes and validates a catalog document.
func Parse(data []byte) (*Catalog, error) {
	var cat Catalog
	if err := yaml.Unmarshal(data, &cat); err != nil {
		return nil, fmt.Errorf("parsing catalog: %w", err)
	}

	if err := Validate(&cat); err != nil {
		return nil, err
	}

	return &cat, nil
}

// Validate checks the catalog header and every registration. All problems
// are reported together.
func Validate(cat *Catalog) error {
	var errs []error

	if cat.APIVersion != APIVersion {
		errs = append(errs, fmt.Errorf("unsupported apiVersion %q (want %q)", cat.APIVersion, APIVersion))
	}
	if strings.TrimSpace(cat.Name) == "" {
		errs = append(errs, errors.New("name is required"))
	}

	type identity struct{ key, provider, provides string }
	seen := map[identity]bool{}

	for i := range cat.Stages {
		st := &cat.Stages[i]
		if st.Key == "" && st.Provides == "" {
			errs = append(errs, fmt.Errorf("stages[%d]: key or provides is required", i))

			continue
		}

		id := identity{st.Key, st.CloudProvider, st.Provides}
		if seen[id] {
			errs = append(errs, fmt.Errorf("stages[%d] (%s): duplicate registration", i, stageName(st)))
		}
		seen[id] = true

		errs = append(errs, validateValidators(fmt.Sprintf("stages[%d]", i), st.Validators)...)
	}

	for i := range cat.Triggers {
		if cat.Triggers[i].Key == "" {
			errs = append(errs, fmt.Errorf("triggers[%d]: key is required", i))
		}
		errs = append(errs, validateValidators(fmt.Sprintf("triggers[%d]", i), cat.Triggers[i].Validators)...)
	}

	for i := range cat.Notifications {
		if cat.Notifications[i].Key == "" {
			errs = append(errs, fmt.Errorf("notifications[%d]: key is required", i))
		}
	}

	return errors.Join(errs...)
}

func validateValidators(prefix string, validators []registry.ValidatorConfig) []error {
	var errs []error

	for i := range validators {
		v := &validators[i]

		switch v.Type {
		case "":
			errs = append(errs, fmt.Errorf("%s.validators[%d]: type is required", prefix, i))
		case registry.KindCustom:
			errs = append(errs, fmt.Errorf("%s.validators[%d]: custom validators cannot be declared in a catalog", prefix, i))
		case registry.KindRequiredField:
			if v.FieldName == "" {
				errs = append(errs, fmt.Errorf("%s.validators[%d]: fieldName is required", prefix, i))
			}
		case registry.KindAnyFieldRequired:
			if len(v.Fields) == 0 {
				errs = append(errs, fmt.Errorf("%s.validators[%d]: fields are required", prefix, i))
			}
		case registry.KindStageBeforeType, registry.KindStageOrTriggerBeforeType:
			if len(v.RequiredStageTypes()) == 0 {
				errs = append(errs, fmt.Errorf("%s.validators[%d]: stageType or stageTypes is required", prefix, i))
			}
		}
	}

	return errs
}

// Apply registers every entry of cat with reg and returns the number of
// registrations made.
func Apply(reg *registry.Registry, cat *Catalog) int {
	for i := range cat.Stages {
		reg.RegisterStage(cat.Stages[i])
	}
	for i := range cat.Triggers {
		reg.RegisterTrigger(cat.Triggers[i])
	}
	for i := range cat.Notifications {
		reg.RegisterNotification(cat.Notifications[i])
	}

	return len(cat.Stages) + len(cat.Triggers) + len(cat.Notifications)
}

func stageName(st *registry.StageTypeConfig) string {
	name := st.Key
	if name == "" {
		name = st.Provides
	}
	if st.CloudProvider != "" {
		name += "/" + st.CloudProvider
	}

	return name
}

func isYAML(path string) bool {
	ext := filepath.Ext(path)

	return ext == ".yaml" || ext == ".yml"
}
