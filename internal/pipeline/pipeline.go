// Package pipeline models the pipeline configuration and execution documents
// exchanged with the gateway.
package pipeline

// Pipeline is a pipeline configuration as stored by the backend.
//
// Stages and triggers are free-form objects, so they are kept as maps and read
// through the accessors on Stage and Trigger.
type Pipeline struct {
	ID                   string           `json:"id,omitempty" yaml:"id,omitempty"`
	Name                 string           `json:"name" yaml:"name"`
	Application          string           `json:"application" yaml:"application"`
	Index                int              `json:"index,omitempty" yaml:"index,omitempty"`
	Strategy             bool             `json:"strategy,omitempty" yaml:"strategy,omitempty"`
	LimitConcurrent      bool             `json:"limitConcurrent,omitempty" yaml:"limitConcurrent,omitempty"`
	KeepWaitingPipelines bool             `json:"keepWaitingPipelines,omitempty" yaml:"keepWaitingPipelines,omitempty"`
	ParameterConfig      []map[string]any `json:"parameterConfig,omitempty" yaml:"parameterConfig,omitempty"`
	Stages               []Stage          `json:"stages" yaml:"stages"`
	Triggers             []Trigger        `json:"triggers,omitempty" yaml:"triggers,omitempty"`
	Notifications        []Notification   `json:"notifications,omitempty" yaml:"notifications,omitempty"`
}

// Notification is a notification preference attached to a pipeline.
type Notification struct {
	Type    string   `json:"type" yaml:"type"`
	Address string   `json:"address" yaml:"address"`
	When    []string `json:"when,omitempty" yaml:"when,omitempty"`
	Level   string   `json:"level,omitempty" yaml:"level,omitempty"`
}

// StageByRefID returns the stage with the given refId, or nil.
func (p *Pipeline) StageByRefID(refID string) Stage {
	for _, s := range p.Stages {
		if s.RefID() == refID {
			return s
		}
	}

	return nil
}

// Upstream returns every stage the given stage transitively depends on through
// requisiteStageRefIds. Each stage appears once; cycles are tolerated.
func (p *Pipeline) Upstream(stage Stage) []Stage {
	seen := map[string]bool{stage.RefID(): true}
	queue := stage.RequisiteStageRefIDs()

	var upstream []Stage

	for len(queue) > 0 {
		refID := queue[0]
		queue = queue[1:]

		if seen[refID] {
			continue
		}
		seen[refID] = true

		parent := p.StageByRefID(refID)
		if parent == nil {
			continue
		}

		upstream = append(upstream, parent)
		queue = append(queue, parent.RequisiteStageRefIDs()...)
	}

	return upstream
}

// EnabledTriggers returns the triggers that are switched on.
func (p *Pipeline) EnabledTriggers() []Trigger {
	var enabled []Trigger

	for _, t := range p.Triggers {
		if t.Enabled() {
			enabled = append(enabled, t)
		}
	}

	return enabled
}

// ProviderAccount is a cloud account visible to the current user.
type ProviderAccount struct {
	Name          string `json:"name" yaml:"name"`
	AccountID     string `json:"accountId,omitempty" yaml:"accountId,omitempty"`
	AccountType   string `json:"accountType,omitempty" yaml:"accountType,omitempty"`
	CloudProvider string `json:"cloudProvider" yaml:"cloudProvider"`
	Environment   string `json:"environment,omitempty" yaml:"environment,omitempty"`
	Type          string `json:"type,omitempty" yaml:"type,omitempty"`
}

// Application is the application an execution belongs to.
type Application struct {
	Name       string         `json:"name" yaml:"name"`
	Attributes map[string]any `json:"attributes,omitempty" yaml:"attributes,omitempty"`
}
