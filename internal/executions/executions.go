// Package executions fetches pipeline executions and resolves the detail
// sections to show for each of their stages.
package executions

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/donaldgifford/deck/internal/pipeline"
	"github.com/donaldgifford/deck/internal/registry"
	"github.com/donaldgifford/deck/internal/retry"
)

// Source fetches executions and the applications they belong to.
type Source interface {
	Execution(ctx context.Context, id string) (*pipeline.Execution, error)
	Application(ctx context.Context, name string) (*pipeline.Application, error)
}

// StageView is the display model of one execution stage.
type StageView struct {
	RefID     string `json:"refId"`
	Name      string `json:"name"`
	Type      string `json:"type"`
	Status    string `json:"status"`
	Suspended bool   `json:"suspended,omitempty"`
	Synthetic bool   `json:"synthetic,omitempty"`

	// Sections are the execution detail sections, in display order.
	Sections []string `json:"sections,omitempty"`
	// Known is false when no registration other than the fallback matched.
	Known bool `json:"known"`
}

// View is a transformed execution with its resolved stage views.
type View struct {
	Execution *pipeline.Execution `json:"execution"`
	Stages    []StageView         `json:"stages"`
}

// Service builds execution views.
type Service struct {
	reg    *registry.Registry
	src    Source
	logger *slog.Logger
}

// New creates a Service.
func New(reg *registry.Registry, src Source, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}

	return &Service{reg: reg, src: src, logger: logger}
}

// Describe fetches an execution, applies the registered transformers once and
// resolves each stage's registration.
func (s *Service) Describe(ctx context.Context, id string) (*View, error) {
	exec, err := s.src.Execution(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("describing execution %s: %w", id, err)
	}

	app, err := s.src.Application(ctx, exec.Application)
	if err != nil {
		s.logger.Warn("application lookup failed, transforming without attributes",
			"application", exec.Application, "error", err)

		app = &pipeline.Application{Name: exec.Application}
	}

	s.reg.ApplyTransformers(app, exec)

	view := &View{Execution: exec, Stages: make([]StageView, 0, len(exec.Stages))}
	for i := range exec.Stages {
		view.Stages = append(view.Stages, s.stageView(&exec.Stages[i]))
	}

	return view, nil
}

func (s *Service) stageView(stage *pipeline.ExecutionStage) StageView {
	sv := StageView{
		RefID:     stage.RefID,
		Name:      stage.Name,
		Type:      stage.Type,
		Status:    stage.Status,
		Suspended: stage.Suspended,
		Synthetic: stage.SyntheticStageOwner != "",
	}

	cfg := s.reg.StageConfig(stage.AsStage())
	if cfg == nil {
		s.logger.Debug("no stage registration", "type", stage.Type)

		return sv
	}

	sv.Sections = slices.Clone(cfg.ExecutionDetailsSections)
	sv.Known = cfg.Key != registry.UnmatchedStageKey

	return sv
}

// WatchOpts controls Watch polling.
type WatchOpts struct {
	Attempts int
	Interval time.Duration

	// OnPoll, when set, receives every view fetched while polling.
	OnPoll func(*View)
}

// Watch polls Describe until the execution reaches a terminal status or the
// attempts run out. The last view fetched is returned in both cases.
func (s *Service) Watch(ctx context.Context, id string, opts WatchOpts) (*View, error) {
	poll := func(ctx context.Context) (*View, error) {
		view, err := s.Describe(ctx, id)
		if err != nil {
			return nil, err
		}

		if opts.OnPoll != nil {
			opts.OnPoll(view)
		}

		return view, nil
	}

	view, err := retry.Sequence(ctx, poll, func(v *View) bool {
		return v.Execution.IsTerminal()
	}, opts.Attempts, opts.Interval)
	if err != nil {
		return view, fmt.Errorf("watching execution %s: %w", id, err)
	}

	return view, nil
}
