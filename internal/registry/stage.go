package registry

import (
	"slices"
	"sort"

	"github.com/donaldgifford/deck/internal/pipeline"
)

const (
	// UnmatchedStageKey is the fallback registration used for stage types
	// nothing else matches.
	UnmatchedStageKey = "unmatched"

	// defaultCloudProvider breaks ties for stages that do not name a provider
	// when only provider-specific registrations match.
	defaultCloudProvider = "aws"
)

// AccountExtractor returns the accounts a stage deploys to.
type AccountExtractor func(stage pipeline.Stage) []string

// StageTypeConfig describes one pipeline stage type.
type StageTypeConfig struct {
	Key           string `yaml:"key" json:"key"`
	Alias         string `yaml:"alias,omitempty" json:"alias,omitempty"`
	CloudProvider string `yaml:"cloudProvider,omitempty" json:"cloudProvider,omitempty"`

	// Provides is the base stage key this provider-specific stage implements.
	Provides string `yaml:"provides,omitempty" json:"provides,omitempty"`
	// ProvidesFor lists the providers an implementation serves, when more
	// than CloudProvider.
	ProvidesFor []string `yaml:"providesFor,omitempty" json:"providesFor,omitempty"`
	// UseBaseProvider marks a base stage whose implementation is chosen per
	// cloud provider.
	UseBaseProvider bool `yaml:"useBaseProvider,omitempty" json:"useBaseProvider,omitempty"`

	Label       string `yaml:"label,omitempty" json:"label,omitempty"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`

	Component                string   `yaml:"component,omitempty" json:"component,omitempty"`
	TemplateURL              string   `yaml:"templateUrl,omitempty" json:"templateUrl,omitempty"`
	Controller               string   `yaml:"controller,omitempty" json:"controller,omitempty"`
	ExecutionDetailsSections []string `yaml:"executionDetailsSections,omitempty" json:"executionDetailsSections,omitempty"`
	ManualExecutionComponent string   `yaml:"manualExecutionComponent,omitempty" json:"manualExecutionComponent,omitempty"`

	Validators []ValidatorConfig `yaml:"validators,omitempty" json:"validators,omitempty"`

	Strategy    bool `yaml:"strategy,omitempty" json:"strategy,omitempty"`
	Synthetic   bool `yaml:"synthetic,omitempty" json:"synthetic,omitempty"`
	Restartable bool `yaml:"restartable,omitempty" json:"restartable,omitempty"`

	Defaults map[string]any `yaml:"defaults,omitempty" json:"defaults,omitempty"`

	AccountExtractor AccountExtractor `yaml:"-" json:"-"`

	// CloudProviders is filled in by ConfigurableStageTypes with the
	// providers the user can configure this stage for.
	CloudProviders []string `yaml:"-" json:"cloudProviders,omitempty"`
}

var _ TypeConfig = (*StageTypeConfig)(nil)

// TypeKey returns the stage key.
func (c *StageTypeConfig) TypeKey() string { return c.Key }

// TypeLabel returns the display label, falling back to the key.
func (c *StageTypeConfig) TypeLabel() string {
	if c.Label != "" {
		return c.Label
	}

	return c.Key
}

// ValidatorConfigs returns the declared validators.
func (c *StageTypeConfig) ValidatorConfigs() []ValidatorConfig { return c.Validators }

// sameRegistration reports whether two registrations occupy the same slot.
// Provides is part of the identity so a keyless provider stage does not
// replace the base stage it implements.
func sameRegistration(a, b *StageTypeConfig) bool {
	return a.Key == b.Key && a.CloudProvider == b.CloudProvider && a.Provides == b.Provides
}

// RegisterStage adds a stage type. A registration with the same key, cloud
// provider and provides replaces the earlier one; the last write wins.
func (r *Registry) RegisterStage(cfg StageTypeConfig) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.hidden[cfg.Key] {
		r.logger.Debug("skipping hidden stage", "key", cfg.Key)

		return
	}

	for i := range r.stages {
		if sameRegistration(&r.stages[i], &cfg) {
			r.logger.Debug("replacing stage registration", "key", cfg.Key, "cloud_provider", cfg.CloudProvider)
			r.stages[i] = cfg

			return
		}
	}

	r.stages = append(r.stages, cfg)
}

// StageTypes returns every registered stage type in registration order, with
// provider stages filled in from the base stage they provide. Filling in
// happens on read so registration order does not matter.
func (r *Registry) StageTypes() []StageTypeConfig {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.normalizedStages()
}

func (r *Registry) normalizedStages() []StageTypeConfig {
	out := make([]StageTypeConfig, len(r.stages))
	for i := range r.stages {
		out[i] = r.stages[i].clone()
	}

	for i := range out {
		st := &out[i]
		if st.Provides == "" {
			continue
		}

		parent := findBase(r.stages, st.Provides)
		if parent == nil {
			continue
		}

		if st.Label == "" {
			st.Label = parent.Label
		}
		if st.Description == "" {
			st.Description = parent.Description
		}
		if st.Key == "" {
			st.Key = parent.Key
		}
		if st.ManualExecutionComponent == "" {
			st.ManualExecutionComponent = parent.ManualExecutionComponent
		}
	}

	return out
}

func findBase(stages []StageTypeConfig, key string) *StageTypeConfig {
	for i := range stages {
		if stages[i].Key == key && stages[i].Provides == "" {
			return &stages[i]
		}
	}

	return nil
}

// StageConfig resolves the most specific registration for a stage.
//
// Candidates are, in order of preference: registrations whose key or provides
// equals the stage type; registrations whose alias equals the stage type; and
// registrations whose key or provides equals the stage's own alias. Among
// several candidates the stage's cloud provider wins, then the
// provider-agnostic registration. With no candidates the "unmatched"
// registration is returned if present, otherwise nil.
func (r *Registry) StageConfig(stage pipeline.Stage) *StageTypeConfig {
	if stage == nil || stage.Type() == "" {
		return nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	stages := r.normalizedStages()
	matches := matchStageTypes(stages, stage)

	switch len(matches) {
	case 0:
		for i := range stages {
			if stages[i].Key == UnmatchedStageKey {
				return &stages[i]
			}
		}

		return nil
	case 1:
		return matches[0]
	default:
		return mostSpecific(matches, stage.CloudProvider())
	}
}

func matchStageTypes(stages []StageTypeConfig, stage pipeline.Stage) []*StageTypeConfig {
	byKey := func(key string) []*StageTypeConfig {
		var out []*StageTypeConfig
		for i := range stages {
			if stages[i].Key == key || stages[i].Provides == key {
				out = append(out, &stages[i])
			}
		}

		return out
	}

	if matches := byKey(stage.Type()); len(matches) > 0 {
		return matches
	}

	var aliased []*StageTypeConfig
	for i := range stages {
		if stages[i].Alias != "" && stages[i].Alias == stage.Type() {
			aliased = append(aliased, &stages[i])
		}
	}

	if len(aliased) > 0 {
		return aliased
	}

	if alias := stage.Alias(); alias != "" {
		return byKey(alias)
	}

	return nil
}

func mostSpecific(matches []*StageTypeConfig, provider string) *StageTypeConfig {
	first := func(keep func(*StageTypeConfig) bool) *StageTypeConfig {
		for _, m := range matches {
			if keep(m) {
				return m
			}
		}

		return nil
	}

	if provider != "" {
		if m := first(func(c *StageTypeConfig) bool { return c.CloudProvider == provider }); m != nil {
			return m
		}
	}

	if m := first(func(c *StageTypeConfig) bool { return c.CloudProvider == "" }); m != nil {
		return m
	}

	if provider == "" {
		if m := first(func(c *StageTypeConfig) bool { return c.CloudProvider == defaultCloudProvider }); m != nil {
			return m
		}
	}

	return matches[0]
}

// ConfigurableStageTypes returns the stages a user can add to a pipeline:
// neither synthetic nor provider implementations. When accounts are given,
// each stage's CloudProviders is set to the providers it supports among the
// accounts' providers, stages supporting none are dropped, and the result is
// sorted by label.
func (r *Registry) ConfigurableStageTypes(accounts []pipeline.ProviderAccount) []StageTypeConfig {
	all := r.StageTypes()

	var configurable []StageTypeConfig
	for i := range all {
		if !all[i].Synthetic && all[i].Provides == "" {
			configurable = append(configurable, all[i])
		}
	}

	providers := accountProviders(accounts)
	if len(providers) == 0 {
		return configurable
	}

	filtered := configurable[:0]
	for i := range configurable {
		st := configurable[i]
		st.CloudProviders = cloudProvidersFor(&st, all, providers)
		if len(st.CloudProviders) > 0 {
			filtered = append(filtered, st)
		}
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].Label < filtered[j].Label
	})

	return filtered
}

func accountProviders(accounts []pipeline.ProviderAccount) []string {
	var providers []string
	for i := range accounts {
		cp := accounts[i].CloudProvider
		if cp != "" && !slices.Contains(providers, cp) {
			providers = append(providers, cp)
		}
	}

	return providers
}

// cloudProvidersFor intersects the providers a stage supports with available,
// keeping the order of available.
func cloudProvidersFor(st *StageTypeConfig, all []StageTypeConfig, available []string) []string {
	var supported []string

	switch {
	case len(st.ProvidesFor) > 0:
		supported = st.ProvidesFor
	case st.CloudProvider != "":
		supported = []string{st.CloudProvider}
	case st.UseBaseProvider:
		for i := range all {
			impl := &all[i]
			if impl.Provides != st.Key {
				continue
			}

			if len(impl.ProvidesFor) > 0 {
				supported = append(supported, impl.ProvidesFor...)
			} else if impl.CloudProvider != "" {
				supported = append(supported, impl.CloudProvider)
			}
		}
	default:
		supported = available
	}

	var out []string
	for _, p := range available {
		if slices.Contains(supported, p) {
			out = append(out, p)
		}
	}

	return out
}

// ProvidersFor returns the provider implementations of a base stage key. When
// key is itself an implementation, the implementations of its base are
// returned.
func (r *Registry) ProvidersFor(key string) []StageTypeConfig {
	all := r.StageTypes()

	providing := func(base string) []StageTypeConfig {
		var out []StageTypeConfig
		for i := range all {
			if all[i].Provides != "" && all[i].Provides == base {
				out = append(out, all[i])
			}
		}

		return out
	}

	if providers := providing(key); len(providers) > 0 {
		return providers
	}

	for i := range all {
		if all[i].Key == key && all[i].Provides != "" {
			return providing(all[i].Provides)
		}
	}

	return nil
}

func (c StageTypeConfig) clone() StageTypeConfig {
	c.ProvidesFor = slices.Clone(c.ProvidesFor)
	c.ExecutionDetailsSections = slices.Clone(c.ExecutionDetailsSections)
	c.Validators = slices.Clone(c.Validators)
	c.CloudProviders = slices.Clone(c.CloudProviders)

	return c
}
