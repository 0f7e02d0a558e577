package registry

import "github.com/donaldgifford/deck/internal/pipeline"

// ValidatorKind names a validator implementation.
type ValidatorKind string

// Built-in validator kinds. Provider packages may register additional kinds
// with the validation dispatcher.
const (
	KindRequiredField            ValidatorKind = "requiredField"
	KindAnyFieldRequired         ValidatorKind = "anyFieldRequired"
	KindServiceAccountAccess     ValidatorKind = "serviceAccountAccess"
	KindStageBeforeType          ValidatorKind = "stageBeforeType"
	KindStageOrTriggerBeforeType ValidatorKind = "stageOrTriggerBeforeType"
	KindTargetImpedance          ValidatorKind = "targetImpedance"
	KindCustom                   ValidatorKind = "custom"
)

// TypeConfig is implemented by registrations that declare validators.
type TypeConfig interface {
	TypeKey() string
	TypeLabel() string
	ValidatorConfigs() []ValidatorConfig
}

// CustomFunc implements a custom validator. It returns the failure message, or
// an empty string when the node is valid.
type CustomFunc func(p *pipeline.Pipeline, node pipeline.Node, cfg *ValidatorConfig, typeCfg TypeConfig) string

// SkipFunc reports whether a validator should not run for the node.
type SkipFunc func(p *pipeline.Pipeline, node pipeline.Node) bool

// FieldRef names a field checked by anyFieldRequired.
type FieldRef struct {
	FieldName  string `yaml:"fieldName" json:"fieldName"`
	FieldLabel string `yaml:"fieldLabel,omitempty" json:"fieldLabel,omitempty"`
}

// ValidatorConfig is a declarative validator attached to a stage or trigger
// registration. Only the fields relevant to Type are read.
type ValidatorConfig struct {
	Type ValidatorKind `yaml:"type" json:"type"`

	// Message overrides the default failure message.
	Message string `yaml:"message,omitempty" json:"message,omitempty"`

	// PreventSave escalates a failure from a warning to a save-blocking error.
	PreventSave bool `yaml:"preventSave,omitempty" json:"preventSave,omitempty"`

	// requiredField
	FieldName  string `yaml:"fieldName,omitempty" json:"fieldName,omitempty"`
	FieldLabel string `yaml:"fieldLabel,omitempty" json:"fieldLabel,omitempty"`

	// anyFieldRequired
	Fields []FieldRef `yaml:"fields,omitempty" json:"fields,omitempty"`

	// stageBeforeType, stageOrTriggerBeforeType
	StageType           string   `yaml:"stageType,omitempty" json:"stageType,omitempty"`
	StageTypes          []string `yaml:"stageTypes,omitempty" json:"stageTypes,omitempty"`
	CheckParentTriggers bool     `yaml:"checkParentTriggers,omitempty" json:"checkParentTriggers,omitempty"`

	// custom
	Validate CustomFunc `yaml:"-" json:"-"`

	// SkipValidation applies to every kind.
	SkipValidation SkipFunc `yaml:"-" json:"-"`
}

// RequiredStageTypes returns the stage types accepted by the *BeforeType
// validators, merging StageType and StageTypes.
func (v *ValidatorConfig) RequiredStageTypes() []string {
	types := make([]string, 0, len(v.StageTypes)+1)
	if v.StageType != "" {
		types = append(types, v.StageType)
	}

	return append(types, v.StageTypes...)
}
