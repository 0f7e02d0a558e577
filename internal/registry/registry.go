// Package registry is the directory of pipeline stage, trigger, notification
// and execution transformer registrations.
//
// Provider packages register their descriptors at start-up; the configuration
// and execution views then resolve the most specific registration for a stage
// by its type and cloud provider. Lookups never fail: absence is reported as a
// nil config so callers can fall back to a generic renderer.
package registry

import (
	"log/slog"
	"sync"
)

// Registry holds every registered descriptor. It is safe for concurrent use,
// although in practice it is written during start-up and read afterwards.
type Registry struct {
	mu     sync.RWMutex
	logger *slog.Logger
	hidden map[string]bool

	stages        []StageTypeConfig
	triggers      []TriggerTypeConfig
	notifications []NotificationTypeConfig
	transformers  []Transformer
}

// New creates an empty Registry. Stages whose key appears in hiddenStages are
// dropped at registration time.
func New(logger *slog.Logger, hiddenStages ...string) *Registry {
	if logger == nil {
		logger = slog.Default()
	}

	hidden := make(map[string]bool, len(hiddenStages))
	for _, key := range hiddenStages {
		hidden[key] = true
	}

	return &Registry{
		logger: logger,
		hidden: hidden,
	}
}

// Reset drops every registration. Hidden stage settings are kept.
// It exists so tests can start from a clean registry.
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.stages = nil
	r.triggers = nil
	r.notifications = nil
	r.transformers = nil
}
