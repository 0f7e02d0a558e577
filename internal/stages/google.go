package stages

import "github.com/donaldgifford/deck/internal/registry"

const google = "gce"

// Google returns the GCE implementations of the base stages.
func Google() []registry.StageTypeConfig {
	return []registry.StageTypeConfig{
		{
			Key:                      "bake",
			Provides:                 "bake",
			CloudProvider:            google,
			Component:                "GceBakeStageConfig",
			ExecutionDetailsSections: []string{"bakeExecutionDetails", "taskStatus"},
			Restartable:              true,
			Validators: []registry.ValidatorConfig{
				required("package", "Package"),
			},
		},
		{
			Key:                      "deploy",
			Provides:                 "deploy",
			CloudProvider:            google,
			Component:                "GceDeployStageConfig",
			ExecutionDetailsSections: []string{"deployExecutionDetails", "taskStatus"},
		},
		{
			Key:                      "findImage",
			Provides:                 "findImage",
			CloudProvider:            google,
			Component:                "GceFindImageStageConfig",
			ExecutionDetailsSections: []string{"findImageExecutionDetails", "taskStatus"},
			Validators: []registry.ValidatorConfig{
				required("cluster", "cluster"),
				required("credentials", "account"),
			},
		},
	}
}
