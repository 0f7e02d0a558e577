package pipeline_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/deck/internal/pipeline"
)

func TestStage_Accessors(t *testing.T) {
	t.Parallel()

	stage := pipeline.Stage{
		"type":                 "deploy",
		"name":                 "Deploy to prod",
		"refId":                float64(3),
		"requisiteStageRefIds": []any{float64(1), "2"},
		"context":              map[string]any{"cloudProvider": "aws"},
	}

	assert.Equal(t, "deploy", stage.Type())
	assert.Equal(t, "Deploy to prod", stage.Name())
	assert.Equal(t, "3", stage.RefID())
	assert.Equal(t, []string{"1", "2"}, stage.RequisiteStageRefIDs())
	assert.Equal(t, "aws", stage.CloudProvider())
}

func TestStage_CloudProviderPrefersTopLevel(t *testing.T) {
	t.Parallel()

	stage := pipeline.Stage{
		"cloudProvider": "gce",
		"context":       map[string]any{"cloudProvider": "aws"},
	}

	assert.Equal(t, "gce", stage.CloudProvider())
}

func TestStage_Get(t *testing.T) {
	t.Parallel()

	stage := pipeline.Stage{
		"foo": map[string]any{"bar": map[string]any{"baz": 0}},
		"clusters": []map[string]any{
			{"account": "prod"},
		},
		"scalar": 4,
		"empty":  nil,
	}

	v, ok := stage.Get("foo.bar.baz")
	require.True(t, ok)
	assert.InDelta(t, 0, v, 0)

	v, ok = stage.Get("clusters[0].account")
	require.True(t, ok)
	assert.Equal(t, "prod", v)

	_, ok = stage.Get("scalar.child")
	assert.False(t, ok, "indexing into a number is treated as missing")

	_, ok = stage.Get("empty")
	assert.False(t, ok)

	_, ok = stage.Get("missing.deeper")
	assert.False(t, ok)
}

func TestStage_GetWithNonStringKeys(t *testing.T) {
	t.Parallel()

	p, err := pipeline.Parse([]byte(`
name: ports
stages:
  - type: deploy
    credentials: my-account
    ports:
      8080: http
      true: yes-key
    threshold: .nan
    clusters:
      - account: prod
        capacity: {1: min}
`))
	require.NoError(t, err)
	require.Len(t, p.Stages, 1)

	stage := p.Stages[0]

	v, ok := stage.Get("credentials")
	require.True(t, ok)
	assert.Equal(t, "my-account", v)

	v, ok = stage.Get("ports.8080")
	require.True(t, ok)
	assert.Equal(t, "http", v)

	v, ok = stage.Get("clusters[0].capacity.1")
	require.True(t, ok)
	assert.Equal(t, "min", v)

	v, ok = stage.Get("clusters[0].account")
	require.True(t, ok)
	assert.Equal(t, "prod", v)

	_, ok = stage.Get("threshold")
	assert.True(t, ok)
}

func TestStage_GetTypedValues(t *testing.T) {
	t.Parallel()

	type target struct {
		Account string `json:"account"`
	}

	stage := pipeline.Stage{
		"regions": []string{"us-east-1", "us-west-2"},
		"weights": map[int]int64{1: 10},
		"target":  &target{Account: "prod"},
		"count":   uint8(3),
	}

	v, ok := stage.Get("regions[1]")
	require.True(t, ok)
	assert.Equal(t, "us-west-2", v)

	v, ok = stage.Get("weights.1")
	require.True(t, ok)
	assert.Equal(t, 10, v)

	v, ok = stage.Get("target.account")
	require.True(t, ok)
	assert.Equal(t, "prod", v)

	v, ok = stage.Get("count")
	require.True(t, ok)
	assert.Equal(t, 3, v)
}

func TestParsePath(t *testing.T) {
	t.Parallel()

	segments, err := pipeline.ParsePath("a.b[2][0].c")
	require.NoError(t, err)
	assert.Equal(t, []any{"a", "b", 2, 0, "c"}, segments)

	_, err = pipeline.ParsePath("")
	require.Error(t, err)

	_, err = pipeline.ParsePath("a..b")
	require.Error(t, err)

	_, err = pipeline.ParsePath("a[x]")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a number")
}

func TestPipeline_Upstream(t *testing.T) {
	t.Parallel()

	p := &pipeline.Pipeline{
		Stages: []pipeline.Stage{
			{"refId": "1", "type": "bake"},
			{"refId": "2", "type": "wait", "requisiteStageRefIds": []any{"1"}},
			{"refId": "3", "type": "deploy", "requisiteStageRefIds": []any{"2", "1"}},
			{"refId": "4", "type": "other"},
		},
	}

	upstream := p.Upstream(p.Stages[2])
	types := make([]string, 0, len(upstream))
	for _, s := range upstream {
		types = append(types, s.Type())
	}

	assert.ElementsMatch(t, []string{"bake", "wait"}, types)
	assert.Empty(t, p.Upstream(p.Stages[3]))
}

func TestPipeline_EnabledTriggers(t *testing.T) {
	t.Parallel()

	p := &pipeline.Pipeline{
		Triggers: []pipeline.Trigger{
			{"type": "cron", "enabled": true},
			{"type": "git", "enabled": false},
			{"type": "jenkins"},
		},
	}

	enabled := p.EnabledTriggers()
	require.Len(t, enabled, 1)
	assert.Equal(t, "cron", enabled[0].Type())
}

func TestLoad_JSON(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "pipeline.json")
	doc := `{
  "name": "deploy",
  "application": "deck",
  "stages": [
    {"refId": 1, "type": "wait", "waitTime": 30},
    {"refId": 2, "type": "deploy", "requisiteStageRefIds": [1]}
  ],
  "triggers": [{"type": "cron", "enabled": true}]
}`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	p, err := pipeline.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "deploy", p.Name)
	assert.Equal(t, "deck", p.Application)
	require.Len(t, p.Stages, 2)
	assert.Equal(t, "1", p.Stages[0].RefID())
	assert.Equal(t, []string{"1"}, p.Stages[1].RequisiteStageRefIDs())
	require.Len(t, p.Triggers, 1)
	assert.True(t, p.Triggers[0].Enabled())
}

func TestLoad_MissingFile(t *testing.T) {
	t.Parallel()

	_, err := pipeline.Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading pipeline file")
}

func TestParse_NotAPipeline(t *testing.T) {
	t.Parallel()

	_, err := pipeline.Parse([]byte("foo: bar\n"))
	require.Error(t, err)
}

func TestExecutionStage_AsStage(t *testing.T) {
	t.Parallel()

	es := pipeline.ExecutionStage{
		RefID:   "1",
		Type:    "deploy",
		Name:    "Deploy",
		Context: map[string]any{"cloudProvider": "aws", "type": "ignored"},
	}

	stage := es.AsStage()
	assert.Equal(t, "deploy", stage.Type())
	assert.Equal(t, "aws", stage.CloudProvider())
}

func TestIsTerminal(t *testing.T) {
	t.Parallel()

	assert.True(t, pipeline.IsTerminal(pipeline.StatusSucceeded))
	assert.True(t, pipeline.IsTerminal(pipeline.StatusFailed))
	assert.False(t, pipeline.IsTerminal(pipeline.StatusRunning))
	assert.False(t, pipeline.IsTerminal(pipeline.StatusSuspended))
}
