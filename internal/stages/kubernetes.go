package stages

import "github.com/donaldgifford/deck/internal/registry"

const kubernetes = "kubernetes"

// Kubernetes returns the manifest stages and the Kubernetes bake.
func Kubernetes() []registry.StageTypeConfig {
	return []registry.StageTypeConfig{
		{
			Key:                      "deployManifest",
			Label:                    "Deploy (Manifest)",
			Description:              "Deploy a Kubernetes manifest yaml/json file.",
			CloudProvider:            kubernetes,
			Component:                "DeployManifestStageConfig",
			ExecutionDetailsSections: []string{"deployStatus", "manifestEvents", "taskStatus"},
			AccountExtractor:         contextField("account"),
			Validators: []registry.ValidatorConfig{
				{Type: registry.KindRequiredField, FieldName: "account", FieldLabel: "account", PreventSave: true},
				{
					Type: registry.KindAnyFieldRequired,
					Fields: []registry.FieldRef{
						{FieldName: "manifests", FieldLabel: "manifests"},
						{FieldName: "manifestArtifactId", FieldLabel: "manifest artifact"},
					},
				},
			},
		},
		{
			Key:                      "bakeManifest",
			Label:                    "Bake (Manifest)",
			Description:              "Bake a manifest (or multi-doc manifest set) using a template renderer such as Helm.",
			CloudProvider:            kubernetes,
			Component:                "BakeManifestStageConfig",
			ExecutionDetailsSections: []string{"bakeManifestDetails", "taskStatus"},
			Validators: []registry.ValidatorConfig{
				required("templateRenderer", "Render Engine"),
				required("expectedArtifacts", "Produces Artifacts"),
			},
		},
		{
			Key:                      "deleteManifest",
			Label:                    "Delete (Manifest)",
			Description:              "Destroy a Kubernetes object created from a manifest.",
			CloudProvider:            kubernetes,
			Component:                "DeleteManifestStageConfig",
			ExecutionDetailsSections: []string{"manifestEvents", "taskStatus"},
			AccountExtractor:         contextField("account"),
			Validators: []registry.ValidatorConfig{
				required("location", "Namespace"),
				required("account", "Account"),
			},
		},
	}
}
