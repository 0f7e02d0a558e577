package registry

import "slices"

// TriggerTypeConfig describes one trigger type.
type TriggerTypeConfig struct {
	Key         string `yaml:"key" json:"key"`
	Label       string `yaml:"label,omitempty" json:"label,omitempty"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`

	Component                string `yaml:"component,omitempty" json:"component,omitempty"`
	ExecutionStatusComponent string `yaml:"executionStatusComponent,omitempty" json:"executionStatusComponent,omitempty"`
	ManualExecutionComponent string `yaml:"manualExecutionComponent,omitempty" json:"manualExecutionComponent,omitempty"`
	ExecutionTriggerLabel    string `yaml:"executionTriggerLabel,omitempty" json:"executionTriggerLabel,omitempty"`

	Validators []ValidatorConfig `yaml:"validators,omitempty" json:"validators,omitempty"`
}

var _ TypeConfig = (*TriggerTypeConfig)(nil)

// TypeKey returns the trigger key.
func (c *TriggerTypeConfig) TypeKey() string { return c.Key }

// TypeLabel returns the display label, falling back to the key.
func (c *TriggerTypeConfig) TypeLabel() string {
	if c.Label != "" {
		return c.Label
	}

	return c.Key
}

// ValidatorConfigs returns the declared validators.
func (c *TriggerTypeConfig) ValidatorConfigs() []ValidatorConfig { return c.Validators }

// RegisterTrigger adds a trigger type, replacing any registration with the same key.
func (r *Registry) RegisterTrigger(cfg TriggerTypeConfig) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.triggers {
		if r.triggers[i].Key == cfg.Key {
			r.logger.Debug("replacing trigger registration", "key", cfg.Key)
			r.triggers[i] = cfg

			return
		}
	}

	r.triggers = append(r.triggers, cfg)
}

// TriggerTypes returns the registered trigger types in registration order.
func (r *Registry) TriggerTypes() []TriggerTypeConfig {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]TriggerTypeConfig, len(r.triggers))
	for i := range r.triggers {
		out[i] = r.triggers[i]
		out[i].Validators = slices.Clone(r.triggers[i].Validators)
	}

	return out
}

// TriggerConfig returns the registration for a trigger type, or nil.
func (r *Registry) TriggerConfig(key string) *TriggerTypeConfig {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for i := range r.triggers {
		if r.triggers[i].Key == key {
			cfg := r.triggers[i]
			cfg.Validators = slices.Clone(cfg.Validators)

			return &cfg
		}
	}

	return nil
}

// HasManualExecutionComponentForTriggerType reports whether the trigger type
// declares a manual execution component.
func (r *Registry) HasManualExecutionComponentForTriggerType(key string) bool {
	_, ok := r.ManualExecutionComponentForTriggerType(key)

	return ok
}

// ManualExecutionComponentForTriggerType returns the manual execution
// component of a trigger type.
func (r *Registry) ManualExecutionComponentForTriggerType(key string) (string, bool) {
	cfg := r.TriggerConfig(key)
	if cfg == nil || cfg.ManualExecutionComponent == "" {
		return "", false
	}

	return cfg.ManualExecutionComponent, true
}
