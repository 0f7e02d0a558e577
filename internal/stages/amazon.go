package stages

import "github.com/donaldgifford/deck/internal/registry"

const amazon = "aws"

// Amazon returns the AWS implementations of the base stages.
func Amazon() []registry.StageTypeConfig {
	return []registry.StageTypeConfig{
		{
			Key:                      "bake",
			Provides:                 "bake",
			CloudProvider:            amazon,
			Component:                "AwsBakeStageConfig",
			ExecutionDetailsSections: []string{"bakeExecutionDetails", "taskStatus"},
			Restartable:              true,
			Validators: []registry.ValidatorConfig{
				{
					Type: registry.KindAnyFieldRequired,
					Fields: []registry.FieldRef{
						{FieldName: "package", FieldLabel: "package"},
						{FieldName: "packageArtifactIds", FieldLabel: "package artifacts"},
					},
				},
				required("regions", "regions"),
			},
		},
		{
			Key:                      "deploy",
			Provides:                 "deploy",
			CloudProvider:            amazon,
			Component:                "AwsDeployStageConfig",
			ExecutionDetailsSections: []string{"deployExecutionDetails", "taskStatus"},
		},
		{
			Key:                      "findImage",
			Alias:                    "findAmi",
			Provides:                 "findImage",
			CloudProvider:            amazon,
			Component:                "AwsFindAmiStageConfig",
			ExecutionDetailsSections: []string{"findImageExecutionDetails", "taskStatus"},
			Validators: []registry.ValidatorConfig{
				required("cluster", "cluster"),
				required("selectionStrategy", "Server Group Selection"),
				required("regions", "regions"),
				required("credentials", "account"),
			},
		},
		{
			Key:                      "disableCluster",
			Provides:                 "disableCluster",
			CloudProvider:            amazon,
			Component:                "AwsDisableClusterStageConfig",
			ExecutionDetailsSections: []string{"disableClusterExecutionDetails", "taskStatus"},
		},
	}
}
