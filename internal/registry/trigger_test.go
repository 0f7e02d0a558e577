package registry_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/deck/internal/pipeline"
	"github.com/donaldgifford/deck/internal/registry"
)

func TestRegisterTrigger(t *testing.T) {
	t.Parallel()

	reg := registry.New(nil)
	reg.RegisterTrigger(registry.TriggerTypeConfig{Key: "cron", Label: "CRON"})
	reg.RegisterTrigger(registry.TriggerTypeConfig{Key: "pipeline", Label: "Pipeline"})

	triggers := reg.TriggerTypes()
	require.Len(t, triggers, 2)
	assert.Equal(t, "cron", triggers[0].Key)
	assert.Equal(t, "pipeline", triggers[1].Key)

	cfg := reg.TriggerConfig("cron")
	require.NotNil(t, cfg)
	assert.Equal(t, "CRON", cfg.TypeLabel())
}

func TestRegisterTrigger_ReplacesByKey(t *testing.T) {
	t.Parallel()

	reg := registry.New(nil)
	reg.RegisterTrigger(registry.TriggerTypeConfig{Key: "cron", Label: "old"})
	reg.RegisterTrigger(registry.TriggerTypeConfig{Key: "cron", Label: "new"})

	require.Len(t, reg.TriggerTypes(), 1)
	assert.Equal(t, "new", reg.TriggerConfig("cron").Label)
}

func TestTriggerConfig_Unknown(t *testing.T) {
	t.Parallel()

	reg := registry.New(nil)
	reg.RegisterTrigger(registry.TriggerTypeConfig{Key: "cron"})

	assert.Nil(t, reg.TriggerConfig("git"))
}

func TestManualExecutionComponentForTriggerType(t *testing.T) {
	t.Parallel()

	reg := registry.New(nil)
	reg.RegisterTrigger(registry.TriggerTypeConfig{Key: "cron"})
	reg.RegisterTrigger(registry.TriggerTypeConfig{Key: "docker", ManualExecutionComponent: "DockerTriggerOptions"})

	assert.False(t, reg.HasManualExecutionComponentForTriggerType("cron"))
	assert.False(t, reg.HasManualExecutionComponentForTriggerType("missing"))
	assert.True(t, reg.HasManualExecutionComponentForTriggerType("docker"))

	component, ok := reg.ManualExecutionComponentForTriggerType("docker")
	assert.True(t, ok)
	assert.Equal(t, "DockerTriggerOptions", component)

	_, ok = reg.ManualExecutionComponentForTriggerType("cron")
	assert.False(t, ok)
}

func TestTypeLabel_FallsBackToKey(t *testing.T) {
	t.Parallel()

	trigger := registry.TriggerTypeConfig{Key: "webhook"}
	stage := registry.StageTypeConfig{Key: "wait"}

	assert.Equal(t, "webhook", trigger.TypeLabel())
	assert.Equal(t, "wait", stage.TypeLabel())
	assert.Equal(t, "wait", stage.TypeKey())
}

func TestRegisterNotification(t *testing.T) {
	t.Parallel()

	reg := registry.New(nil)
	reg.RegisterNotification(registry.NotificationTypeConfig{Key: "email", Label: "Email"})
	reg.RegisterNotification(registry.NotificationTypeConfig{Key: "slack", Label: "Slack"})
	reg.RegisterNotification(registry.NotificationTypeConfig{Key: "email", Label: "E-mail"})

	notifications := reg.NotificationTypes()
	require.Len(t, notifications, 2)
	assert.Equal(t, "E-mail", notifications[0].Label)

	assert.NotNil(t, reg.NotificationConfig("slack"))
	assert.Nil(t, reg.NotificationConfig("pagerduty"))
}

func TestApplyTransformers(t *testing.T) {
	t.Parallel()

	reg := registry.New(nil)

	var order []string
	reg.RegisterTransformer(registry.TransformerFunc(func(_ *pipeline.Application, exec *pipeline.Execution) {
		order = append(order, "first")
		exec.Name += "-a"
	}))
	reg.RegisterTransformer(registry.TransformerFunc(func(_ *pipeline.Application, exec *pipeline.Execution) {
		order = append(order, "second")
		exec.Name += "-b"
	}))

	exec := &pipeline.Execution{Name: "deploy"}
	reg.ApplyTransformers(&pipeline.Application{Name: "app"}, exec)

	assert.Equal(t, []string{"first", "second"}, order)
	assert.Equal(t, "deploy-a-b", exec.Name)
	assert.Len(t, reg.Transformers(), 2)
}

type fakeJobs struct {
	jobs  []registry.PreconfiguredJob
	err   error
	calls int
}

func (f *fakeJobs) PreconfiguredJobs(context.Context) ([]registry.PreconfiguredJob, error) {
	f.calls++

	return f.jobs, f.err
}

func TestRegisterPreconfiguredJobStage(t *testing.T) {
	t.Parallel()

	reg := registry.New(nil)
	jobs := &fakeJobs{jobs: []registry.PreconfiguredJob{
		{Type: "other", Label: "Other"},
		{
			Type:        "runSmokeTest",
			Label:       "Smoke Test",
			Description: "Runs the smoke test suite",
			Parameters: []registry.JobParameter{
				{Name: "region", DefaultValue: "us-west-2"},
				{Name: "suite"},
			},
		},
	}}

	err := reg.RegisterPreconfiguredJobStage(context.Background(), registry.PreconfiguredJobStage("runSmokeTest"), jobs)
	require.NoError(t, err)

	cfg := reg.StageConfig(pipeline.Stage{"type": "runSmokeTest"})
	require.NotNil(t, cfg)
	assert.Equal(t, "Smoke Test", cfg.Label)
	assert.Equal(t, "Runs the smoke test suite", cfg.Description)
	assert.Equal(t, "PreconfiguredJobStageConfig", cfg.Component)
	assert.True(t, cfg.Restartable)
	assert.Equal(t, map[string]any{"region": "us-west-2", "suite": ""}, cfg.Defaults["parameters"])
}

func TestRegisterPreconfiguredJobStage_UnknownJob(t *testing.T) {
	t.Parallel()

	reg := registry.New(nil)
	err := reg.RegisterPreconfiguredJobStage(context.Background(), registry.PreconfiguredJobStage("missing"), &fakeJobs{})
	require.NoError(t, err)

	cfg := reg.StageConfig(pipeline.Stage{"type": "missing"})
	require.NotNil(t, cfg)
	assert.Equal(t, map[string]any{}, cfg.Defaults["parameters"])
}

func TestRegisterPreconfiguredJobStage_FetchError(t *testing.T) {
	t.Parallel()

	reg := registry.New(nil)
	boom := errors.New("gateway unavailable")

	err := reg.RegisterPreconfiguredJobStage(context.Background(), registry.PreconfiguredJobStage("job"), &fakeJobs{err: boom})
	require.ErrorIs(t, err, boom)
	assert.Empty(t, reg.StageTypes())
}

func TestRegisterPreconfiguredJobStages(t *testing.T) {
	t.Parallel()

	reg := registry.New(nil)
	jobs := &fakeJobs{jobs: []registry.PreconfiguredJob{
		{Type: "runSmokeTest", Label: "Smoke Test", Parameters: []registry.JobParameter{{Name: "suite", DefaultValue: "fast"}}},
		{Type: "rotateKeys", Label: "Rotate Keys"},
		{Label: "no type"},
	}}

	require.NoError(t, reg.RegisterPreconfiguredJobStages(context.Background(), jobs))

	assert.Equal(t, 3, jobs.calls, "one listing plus a fresh fetch per registered job")

	smoke := reg.StageConfig(pipeline.Stage{"type": "runSmokeTest"})
	require.NotNil(t, smoke)
	assert.Equal(t, "Smoke Test", smoke.Label)
	assert.Equal(t, map[string]any{"suite": "fast"}, smoke.Defaults["parameters"])

	rotate := reg.StageConfig(pipeline.Stage{"type": "rotateKeys"})
	require.NotNil(t, rotate)
	assert.Equal(t, "Rotate Keys", rotate.Label)
}

func TestRegisterPreconfiguredJobStages_ListError(t *testing.T) {
	t.Parallel()

	reg := registry.New(nil)
	boom := errors.New("gateway unavailable")

	err := reg.RegisterPreconfiguredJobStages(context.Background(), &fakeJobs{err: boom})
	require.ErrorIs(t, err, boom)
	assert.Empty(t, reg.StageTypes())
}
