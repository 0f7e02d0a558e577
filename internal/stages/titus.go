package stages

import "github.com/donaldgifford/deck/internal/registry"

const titus = "titus"

// Titus returns the Titus container stages.
func Titus() []registry.StageTypeConfig {
	return []registry.StageTypeConfig{
		{
			Key:                      "deploy",
			Provides:                 "deploy",
			CloudProvider:            titus,
			Component:                "TitusDeployStageConfig",
			ExecutionDetailsSections: []string{"deployExecutionDetails", "taskStatus"},
		},
		{
			Key:                      "disableCluster",
			Provides:                 "disableCluster",
			CloudProvider:            titus,
			Component:                "TitusDisableClusterStageConfig",
			ExecutionDetailsSections: []string{"disableClusterExecutionDetails", "taskStatus"},
		},
		{
			Key:                      "runJob",
			Label:                    "Run Job",
			Description:              "Runs a container",
			CloudProvider:            titus,
			Component:                "TitusRunJobStageConfig",
			ExecutionDetailsSections: []string{"runJobExecutionDetails", "taskStatus"},
			Restartable:              true,
			AccountExtractor:         contextField("credentials"),
			Validators: []registry.ValidatorConfig{
				required("cluster.imageId", "Image ID"),
				required("credentials", "Account"),
				required("cluster.region", "Region"),
				{Type: registry.KindServiceAccountAccess, PreventSave: true},
			},
		},
	}
}
