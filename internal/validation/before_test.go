package validation_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/deck/internal/pipeline"
	"github.com/donaldgifford/deck/internal/registry"
	"github.com/donaldgifford/deck/internal/validation"
)

func beforeTypeValidators(kind registry.ValidatorKind) map[string][]registry.ValidatorConfig {
	return map[string][]registry.ValidatorConfig{
		"withValidation": {{Type: kind, StageType: "prereq", Message: "need a prereq"}},
		"withValidationIncludingParent": {{
			Type:                kind,
			StageType:           "prereq",
			CheckParentTriggers: true,
			Message:             "need a prereq",
		}},
		"multiple": {{Type: kind, StageTypes: []string{"one", "two"}, Message: "need a prereq"}},
	}
}

func TestStageBeforeType(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		stages []pipeline.Stage
		pass   bool
	}{
		{
			name:   "first stage",
			stages: []pipeline.Stage{{"type": "withValidation", "refId": "1"}},
		},
		{
			name: "not preceded by declared type",
			stages: []pipeline.Stage{
				{"type": "wrongType", "refId": "1"},
				{"type": "withValidation", "refId": "2", "requisiteStageRefIds": []any{"1"}},
			},
		},
		{
			name: "parallel stage of declared type does not count",
			stages: []pipeline.Stage{
				{"type": "prereq", "refId": "1"},
				{"type": "withValidation", "refId": "2"},
			},
		},
		{
			name: "directly preceded",
			stages: []pipeline.Stage{
				{"type": "prereq", "refId": "1"},
				{"type": "withValidation", "refId": "2", "requisiteStageRefIds": []any{"1"}},
			},
			pass: true,
		},
		{
			name: "transitively preceded",
			stages: []pipeline.Stage{
				{"type": "prereq", "refId": 1},
				{"type": "somethingElse", "refId": 2, "requisiteStageRefIds": []any{1}},
				{"type": "withValidation", "refId": 3, "requisiteStageRefIds": []any{2}},
			},
			pass: true,
		},
		{
			name: "any of several types",
			stages: []pipeline.Stage{
				{"type": "two", "refId": "1"},
				{"type": "somethingElse", "refId": "2", "requisiteStageRefIds": []any{"1"}},
				{"type": "multiple", "refId": "3", "requisiteStageRefIds": []any{"2"}},
			},
			pass: true,
		},
		{
			name: "none of several types",
			stages: []pipeline.Stage{
				{"type": "three", "refId": "1"},
				{"type": "multiple", "refId": "2", "requisiteStageRefIds": []any{"1"}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			v := newValidator(t, beforeTypeValidators(registry.KindStageBeforeType), validation.Options{})
			results := validate(t, v, buildPipeline(tt.stages))

			if tt.pass {
				assert.False(t, results.HasWarnings)

				return
			}

			require.Len(t, results.Stages, 1)
			assert.Equal(t, []string{"need a prereq"}, results.Stages[0].Messages)
		})
	}
}

func TestStageBeforeType_TriggerDoesNotCount(t *testing.T) {
	t.Parallel()

	v := newValidator(t, beforeTypeValidators(registry.KindStageBeforeType), validation.Options{})
	p := buildPipeline([]pipeline.Stage{{"type": "withValidation"}}, pipeline.Trigger{"type": "prereq"})

	results := validate(t, v, p)
	assert.True(t, results.HasWarnings)
}

func TestStageBeforeType_DefaultMessage(t *testing.T) {
	t.Parallel()

	reg := registry.New(nil)
	reg.RegisterStage(registry.StageTypeConfig{
		Key:        "canary",
		Label:      "Canary Analysis",
		Validators: []registry.ValidatorConfig{{Type: registry.KindStageBeforeType, StageTypes: []string{"deploy", "deployManifest"}}},
	})

	results := validate(t, validation.New(reg, validation.Options{}), buildPipeline([]pipeline.Stage{{"type": "canary"}}))
	require.Len(t, results.Stages, 1)
	assert.Equal(t,
		[]string{"Canary Analysis requires an upstream deploy or deployManifest stage."},
		results.Stages[0].Messages)
}

func TestStageOrTriggerBeforeType(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		stages   []pipeline.Stage
		triggers []pipeline.Trigger
		pass     bool
	}{
		{
			name:   "first stage without triggers",
			stages: []pipeline.Stage{{"type": "withValidation", "refId": "1"}},
		},
		{
			name: "preceding stage matches",
			stages: []pipeline.Stage{
				{"type": "prereq", "refId": "1"},
				{"type": "somethingElse", "refId": "2", "requisiteStageRefIds": []any{"1"}},
				{"type": "withValidation", "refId": "3", "requisiteStageRefIds": []any{"2"}},
			},
			pass: true,
		},
		{
			name:     "trigger matches",
			stages:   []pipeline.Stage{{"type": "withValidation", "refId": "1"}},
			triggers: []pipeline.Trigger{{"type": "prereq"}},
			pass:     true,
		},
		{
			name: "neither stage nor trigger matches",
			stages: []pipeline.Stage{
				{"type": "noValidation", "refId": "1"},
				{"type": "withValidation", "refId": "2", "requisiteStageRefIds": []any{"1"}},
			},
			triggers: []pipeline.Trigger{{"type": "alsoNotValidation"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			v := newValidator(t, beforeTypeValidators(registry.KindStageOrTriggerBeforeType), validation.Options{})
			results := validate(t, v, buildPipeline(tt.stages, tt.triggers...))

			if tt.pass {
				assert.False(t, results.HasWarnings)

				return
			}

			require.Len(t, results.Stages, 1)
			assert.Equal(t, []string{"need a prereq"}, results.Stages[0].Messages)
		})
	}
}

func TestStageOrTriggerBeforeType_DisabledTriggerDoesNotCount(t *testing.T) {
	t.Parallel()

	v := newValidator(t, beforeTypeValidators(registry.KindStageOrTriggerBeforeType), validation.Options{})
	p := buildPipeline([]pipeline.Stage{{"type": "withValidation"}})
	p.Triggers = []pipeline.Trigger{{"type": "prereq", "enabled": false}}

	results := validate(t, v, p)
	assert.True(t, results.HasWarnings)
}

func parentTrigger(app string) pipeline.Trigger {
	return pipeline.Trigger{"type": "pipeline", "application": app, "pipeline": "abcd"}
}

func TestStageOrTriggerBeforeType_ParentTriggers(t *testing.T) {
	t.Parallel()

	lister := &fakePipelines{configs: []pipeline.Pipeline{
		{ID: "abcd", Triggers: []pipeline.Trigger{{"type": "prereq"}}},
	}}
	v := newValidator(t, beforeTypeValidators(registry.KindStageOrTriggerBeforeType), validation.Options{Pipelines: lister})

	p := buildPipeline([]pipeline.Stage{{"type": "withValidationIncludingParent"}}, parentTrigger("someApp"))

	results := validate(t, v, p)
	assert.False(t, results.HasWarnings)
	assert.Equal(t, []string{"someApp"}, lister.calls)
}

func TestStageOrTriggerBeforeType_CachesParentConfigs(t *testing.T) {
	t.Parallel()

	lister := &fakePipelines{configs: []pipeline.Pipeline{
		{ID: "abcd", Triggers: []pipeline.Trigger{{"type": "prereq"}}},
	}}
	v := newValidator(t, beforeTypeValidators(registry.KindStageOrTriggerBeforeType), validation.Options{Pipelines: lister})

	p := buildPipeline([]pipeline.Stage{{"type": "withValidationIncludingParent"}}, parentTrigger("someApp2"))

	validate(t, v, p)
	assert.Len(t, lister.calls, 1)

	validate(t, v, p)
	assert.Len(t, lister.calls, 1)
}

func TestStageOrTriggerBeforeType_ParentTriggersMismatch(t *testing.T) {
	t.Parallel()

	lister := &fakePipelines{configs: []pipeline.Pipeline{
		{ID: "abcd", Triggers: []pipeline.Trigger{{"type": "not-prereq"}}},
		{ID: "other", Triggers: []pipeline.Trigger{{"type": "prereq"}}},
	}}
	v := newValidator(t, beforeTypeValidators(registry.KindStageOrTriggerBeforeType), validation.Options{Pipelines: lister})

	p := buildPipeline([]pipeline.Stage{{"type": "withValidationIncludingParent"}}, parentTrigger("someApp3"))

	results := validate(t, v, p)
	assert.Equal(t, []string{"someApp3"}, lister.calls)
	assert.Len(t, results.Stages, 1)
}

func TestStageOrTriggerBeforeType_ParentsOnlyWhenRequested(t *testing.T) {
	t.Parallel()

	lister := &fakePipelines{configs: []pipeline.Pipeline{
		{ID: "abcd", Triggers: []pipeline.Trigger{{"type": "prereq"}}},
	}}
	v := newValidator(t, beforeTypeValidators(registry.KindStageOrTriggerBeforeType), validation.Options{Pipelines: lister})

	p := buildPipeline([]pipeline.Stage{{"type": "withValidation"}}, parentTrigger("someApp"))

	results := validate(t, v, p)
	assert.Empty(t, lister.calls)
	assert.Len(t, results.Stages, 1)
}

func TestStageOrTriggerBeforeType_ParentFetchErrorNotCached(t *testing.T) {
	t.Parallel()

	boom := errors.New("front50 unavailable")
	lister := &fakePipelines{err: boom}
	v := newValidator(t, beforeTypeValidators(registry.KindStageOrTriggerBeforeType), validation.Options{Pipelines: lister})

	p := buildPipeline([]pipeline.Stage{{"type": "withValidationIncludingParent"}}, parentTrigger("someApp"))

	results, err := v.ValidatePipeline(context.Background(), p)
	require.ErrorIs(t, err, boom)
	assert.Empty(t, results.Stages)

	_, err = v.ValidatePipeline(context.Background(), p)
	require.Error(t, err)
	assert.Len(t, lister.calls, 2)
}
