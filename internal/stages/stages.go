// Package stages holds the built-in stage, trigger and notification
// registrations.
package stages

import (
	"github.com/donaldgifford/deck/internal/pipeline"
	"github.com/donaldgifford/deck/internal/registry"
	"github.com/donaldgifford/deck/internal/transform"
)

// Provider stage sets, in the order they are registered.
var providers = []func() []registry.StageTypeConfig{
	Amazon,
	Google,
	Kubernetes,
	Titus,
}

// RegisterAll registers every built-in stage, trigger, notification and
// transformer with reg. Base stages are registered before the provider
// implementations that override them.
func RegisterAll(reg *registry.Registry) {
	for _, cfg := range Core() {
		reg.RegisterStage(cfg)
	}

	for _, set := range providers {
		for _, cfg := range set() {
			reg.RegisterStage(cfg)
		}
	}

	for _, cfg := range Triggers() {
		reg.RegisterTrigger(cfg)
	}

	for _, cfg := range Notifications() {
		reg.RegisterNotification(cfg)
	}

	transform.Register(reg)
}

// contextField returns an extractor reading a single account field.
func contextField(field string) registry.AccountExtractor {
	return func(stage pipeline.Stage) []string {
		if account, ok := stage.Field(field).(string); ok && account != "" {
			return []string{account}
		}

		return nil
	}
}

// clusterAccounts reads the accounts of a deploy stage's clusters.
func clusterAccounts(stage pipeline.Stage) []string {
	clusters, _ := stage.Get("clusters")
	list, _ := clusters.([]any)

	var accounts []string
	for _, c := range list {
		cluster, _ := c.(map[string]any)
		if account, ok := cluster["account"].(string); ok && account != "" {
			accounts = append(accounts, account)
		}
	}

	return accounts
}

func required(field, label string) registry.ValidatorConfig {
	return registry.ValidatorConfig{Type: registry.KindRequiredField, FieldName: field, FieldLabel: label}
}
