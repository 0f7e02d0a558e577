package stages_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/deck/internal/pipeline"
	"github.com/donaldgifford/deck/internal/registry"
	"github.com/donaldgifford/deck/internal/stages"
	"github.com/donaldgifford/deck/internal/validation"
)

func builtins(t *testing.T) *registry.Registry {
	t.Helper()

	reg := registry.New(nil)
	stages.RegisterAll(reg)

	return reg
}

func TestRegisterAll_ResolvesProviderStages(t *testing.T) {
	t.Parallel()

	reg := builtins(t)

	tests := []struct {
		name      string
		stage     pipeline.Stage
		component string
	}{
		{name: "aws deploy", stage: pipeline.Stage{"type": "deploy", "cloudProvider": "aws"}, component: "AwsDeployStageConfig"},
		{name: "gce deploy", stage: pipeline.Stage{"type": "deploy", "cloudProvider": "gce"}, component: "GceDeployStageConfig"},
		{name: "titus deploy", stage: pipeline.Stage{"type": "deploy", "cloudProvider": "titus"}, component: "TitusDeployStageConfig"},
		{name: "deploy without provider", stage: pipeline.Stage{"type": "deploy"}, component: ""},
		{name: "legacy find ami alias", stage: pipeline.Stage{"type": "findAmi"}, component: "AwsFindAmiStageConfig"},
		{name: "core stage", stage: pipeline.Stage{"type": "wait"}, component: "WaitStageConfig"},
		{name: "manifest stage", stage: pipeline.Stage{"type": "deployManifest"}, component: "DeployManifestStageConfig"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := reg.StageConfig(tt.stage)
			require.NotNil(t, cfg)
			assert.Equal(t, tt.component, cfg.Component)
		})
	}
}

func TestRegisterAll_ProviderStagesInheritLabels(t *testing.T) {
	t.Parallel()

	cfg := builtins(t).StageConfig(pipeline.Stage{"type": "bake", "cloudProvider": "gce"})
	require.NotNil(t, cfg)
	assert.Equal(t, "Bake", cfg.Label)
	assert.Equal(t, "Bakes an image", cfg.Description)
}

func TestRegisterAll_UnknownStage(t *testing.T) {
	t.Parallel()

	cfg := builtins(t).StageConfig(pipeline.Stage{"type": "somethingNew"})
	require.NotNil(t, cfg)
	assert.Equal(t, registry.UnmatchedStageKey, cfg.Key)
}

func TestRegisterAll_ConfigurableStages(t *testing.T) {
	t.Parallel()

	reg := builtins(t)
	accounts := []pipeline.ProviderAccount{{Name: "prod", CloudProvider: "aws"}}

	configurable := map[string][]string{}
	for _, st := range reg.ConfigurableStageTypes(accounts) {
		configurable[st.Key] = st.CloudProviders
	}

	assert.Equal(t, []string{"aws"}, configurable["deploy"])
	assert.Equal(t, []string{"aws"}, configurable["wait"])
	assert.Contains(t, configurable, "disableCluster")
	assert.NotContains(t, configurable, "runJob")
	assert.NotContains(t, configurable, "deployManifest")
	assert.NotContains(t, configurable, registry.UnmatchedStageKey)
	assert.NotContains(t, configurable, "restrictExecutionDuringTimeWindow")
}

func TestRegisterAll_TriggersAndNotifications(t *testing.T) {
	t.Parallel()

	reg := builtins(t)

	assert.Len(t, reg.TriggerTypes(), 6)
	assert.True(t, reg.HasManualExecutionComponentForTriggerType("docker"))
	assert.False(t, reg.HasManualExecutionComponentForTriggerType("cron"))

	assert.Len(t, reg.NotificationTypes(), 5)
	assert.NotNil(t, reg.NotificationConfig("slack"))
	assert.Nil(t, reg.NotificationConfig("carrierPigeon"))

	assert.Len(t, reg.Transformers(), 2)
}

func TestRegisterAll_HiddenStages(t *testing.T) {
	t.Parallel()

	reg := registry.New(nil, "webhook", "evaluateVariables")
	stages.RegisterAll(reg)

	cfg := reg.StageConfig(pipeline.Stage{"type": "webhook"})
	require.NotNil(t, cfg)
	assert.Equal(t, registry.UnmatchedStageKey, cfg.Key)
}

func TestRegisterAll_Validation(t *testing.T) {
	t.Parallel()

	v := validation.New(builtins(t), validation.Options{})

	p := &pipeline.Pipeline{
		Name:        "deploy to prod",
		Application: "deck",
		Stages: []pipeline.Stage{
			{"type": "bake", "refId": "1", "cloudProvider": "aws", "package": "deck", "regions": []any{"us-east-1"}},
			{"type": "deploy", "refId": "2", "cloudProvider": "aws", "requisiteStageRefIds": []any{"1"}},
			{"type": "wait", "refId": "3", "requisiteStageRefIds": []any{"2"}},
		},
	}

	results, err := v.ValidatePipeline(context.Background(), p)
	require.NoError(t, err)

	assert.True(t, results.PreventSave)
	require.Len(t, results.Stages, 1)
	assert.Equal(t, "wait", results.Stages[0].Stage.Type())
	assert.Equal(t, []string{"Wait time is required."}, results.Stages[0].Messages)

	p.Stages[2]["waitTime"] = 30

	results, err = v.ValidatePipeline(context.Background(), p)
	require.NoError(t, err)
	assert.False(t, results.HasWarnings)
}
