package stages

import (
	"github.com/donaldgifford/deck/internal/registry"
	"github.com/donaldgifford/deck/internal/transform"
)

// Core returns the provider-agnostic stages.
func Core() []registry.StageTypeConfig {
	return []registry.StageTypeConfig{
		{
			Key:                      registry.UnmatchedStageKey,
			Label:                    "Unknown",
			Description:              "A stage with no registered configuration",
			Synthetic:                true,
			ExecutionDetailsSections: []string{"stageSummary", "taskStatus"},
		},
		{
			Key:                      "wait",
			Label:                    "Wait",
			Description:              "Waits a specified period of time",
			Component:                "WaitStageConfig",
			ExecutionDetailsSections: []string{"waitExecutionDetails", "taskStatus"},
			Restartable:              true,
			Strategy:                 true,
			Validators: []registry.ValidatorConfig{
				{
					Type:        registry.KindRequiredField,
					FieldName:   "waitTime",
					FieldLabel:  "wait time",
					PreventSave: true,
				},
			},
		},
		{
			Key:                      "manualJudgment",
			Label:                    "Manual Judgment",
			Description:              "Waits for user approval before continuing",
			Component:                "ManualJudgmentStageConfig",
			ExecutionDetailsSections: []string{"manualJudgmentExecutionDetails", "taskStatus"},
			Strategy:                 true,
		},
		{
			Key:                      "pipeline",
			Label:                    "Pipeline",
			Description:              "Runs a pipeline",
			Component:                "PipelineStageConfig",
			ExecutionDetailsSections: []string{"pipelineExecutionDetails", "taskStatus"},
			Validators: []registry.ValidatorConfig{
				required("pipeline", "pipeline"),
				required("application", "application"),
			},
		},
		{
			Key:                      "checkPreconditions",
			Label:                    "Check Preconditions",
			Description:              "Checks for preconditions before continuing",
			Component:                "CheckPreconditionsStageConfig",
			ExecutionDetailsSections: []string{"checkPreconditionsExecutionDetails", "taskStatus"},
			Strategy:                 true,
		},
		{
			Key:                      "webhook",
			Label:                    "Webhook",
			Description:              "Runs a Webhook job",
			Component:                "WebhookStageConfig",
			ExecutionDetailsSections: []string{"webhookExecutionDetails", "taskStatus"},
			Restartable:              true,
			Validators: []registry.ValidatorConfig{
				{Type: registry.KindRequiredField, FieldName: "url", FieldLabel: "Webhook URL", PreventSave: true},
				required("method", "Method"),
			},
		},
		{
			Key:                      "evaluateVariables",
			Label:                    "Evaluate Variables",
			Description:              "Evaluates variables for use in SpEL",
			Component:                "EvaluateVariablesStageConfig",
			ExecutionDetailsSections: []string{"evaluateVariablesExecutionDetails", "taskStatus"},
			Validators: []registry.ValidatorConfig{
				required("variables", "variables"),
			},
		},
		{
			Key:              "deploy",
			Label:            "Deploy",
			Description:      "Deploys the previously baked or found image",
			UseBaseProvider:  true,
			Strategy:         true,
			AccountExtractor: clusterAccounts,
			Validators: []registry.ValidatorConfig{
				{
					Type:                registry.KindStageOrTriggerBeforeType,
					StageTypes:          []string{"bake", "findImage", "findImageFromTags", "jenkins", "docker"},
					CheckParentTriggers: true,
					Message:             "You must have a Bake or Find Image stage, or an image-producing trigger, before any deploy stage.",
				},
			},
		},
		{
			Key:             "bake",
			Label:           "Bake",
			Description:     "Bakes an image",
			UseBaseProvider: true,
			Restartable:     true,
		},
		{
			Key:             "findImage",
			Label:           "Find Image from Cluster",
			Description:     "Finds an image to deploy from an existing cluster",
			UseBaseProvider: true,
		},
		{
			Key:             "disableCluster",
			Label:           "Disable Cluster",
			Description:     "Disables a cluster",
			UseBaseProvider: true,
			Strategy:        true,

			AccountExtractor: contextField("credentials"),
			Validators: []registry.ValidatorConfig{
				{Type: registry.KindTargetImpedance, Message: "This pipeline will attempt to disable a server group without deploying a new version into the same cluster."},
				required("cluster", "cluster"),
				required("credentials", "account"),
			},
		},
		{
			Key:                      transform.ExecutionWindowStageType,
			Label:                    "Restrict Execution During",
			Synthetic:                true,
			ExecutionDetailsSections: []string{"executionWindowsDetails", "taskStatus"},
		},
	}
}
