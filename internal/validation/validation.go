// Package validation runs the validators declared on stage and trigger
// registrations against a pipeline configuration.
//
// Every validator of every matching registration runs; messages are collected
// per stage, trigger messages are collected at the pipeline level. A failing
// validator marked preventSave blocks saving the pipeline, any other failure is
// a warning.
package validation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/donaldgifford/deck/internal/pipeline"
	"github.com/donaldgifford/deck/internal/registry"
)

// PipelineLister fetches the pipeline configurations of an application.
type PipelineLister interface {
	PipelineConfigs(ctx context.Context, application string) ([]pipeline.Pipeline, error)
}

// ServiceAccountLister fetches the service accounts the current user may run
// pipelines as.
type ServiceAccountLister interface {
	ServiceAccounts(ctx context.Context) ([]string, error)
}

// Options configures a Validator. Every field is optional.
type Options struct {
	Pipelines       PipelineLister
	ServiceAccounts ServiceAccountLister

	// FiatEnabled turns on serviceAccountAccess checks.
	FiatEnabled bool

	Logger  *slog.Logger
	Metrics *Metrics
}

// StageResult holds the messages produced for one stage.
type StageResult struct {
	Stage    pipeline.Stage `json:"stage"`
	Messages []string       `json:"messages"`
}

// Results is the outcome of validating a pipeline.
type Results struct {
	// Pipeline holds messages from trigger validators.
	Pipeline []string      `json:"pipeline"`
	Stages   []StageResult `json:"stages"`

	HasWarnings bool `json:"hasWarnings"`
	PreventSave bool `json:"preventSave"`
}

// Validator validates pipelines against the registrations in a registry.
type Validator struct {
	reg    *registry.Registry
	opts   Options
	logger *slog.Logger

	mu      sync.RWMutex
	custom  map[registry.ValidatorKind]registry.CustomFunc
	subs    map[int]func(*Results)
	nextSub int

	parents parentCache
}

// New creates a Validator reading registrations from reg.
func New(reg *registry.Registry, opts Options) *Validator {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Validator{
		reg:    reg,
		opts:   opts,
		logger: logger,
		custom: map[registry.ValidatorKind]registry.CustomFunc{},
		subs:   map[int]func(*Results){},
		parents: parentCache{
			lister:  opts.Pipelines,
			configs: map[string][]pipeline.Pipeline{},
		},
	}
}

// Register adds an implementation for a validator kind not built in. It
// replaces any implementation registered earlier for the same kind.
func (v *Validator) Register(kind registry.ValidatorKind, fn registry.CustomFunc) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.custom[kind] = fn
}

// Subscribe calls fn with every Results produced by ValidatePipeline. The
// returned function removes the subscription.
func (v *Validator) Subscribe(fn func(*Results)) func() {
	v.mu.Lock()
	defer v.mu.Unlock()

	id := v.nextSub
	v.nextSub++
	v.subs[id] = fn

	return func() {
		v.mu.Lock()
		defer v.mu.Unlock()

		delete(v.subs, id)
	}
}

// ValidatePipeline runs every declared validator against p.
//
// Validators that could not run because a collaborator failed produce no
// message; their errors are joined and returned with the partial results so a
// caller can tell "passed" from "could not check".
func (v *Validator) ValidatePipeline(ctx context.Context, p *pipeline.Pipeline) (*Results, error) {
	if p == nil {
		return nil, errors.New("pipeline is required")
	}

	run := &run{
		Validator: v,
		pipeline:  p,
		accounts: sync.OnceValues(func() ([]string, error) {
			if v.opts.ServiceAccounts == nil {
				return nil, errors.New("no service account source configured")
			}

			accounts, err := v.opts.ServiceAccounts.ServiceAccounts(ctx)
			if err != nil {
				return nil, fmt.Errorf("fetching service accounts: %w", err)
			}

			return accounts, nil
		}),
	}

	results := &Results{}

	var errs []error

	for _, trigger := range p.EnabledTriggers() {
		cfg := v.reg.TriggerConfig(trigger.Type())
		if cfg == nil {
			continue
		}

		msgs, err := run.validate(ctx, trigger, cfg, results)
		results.Pipeline = append(results.Pipeline, msgs...)
		errs = append(errs, err)
	}

	for _, stage := range p.Stages {
		cfg := v.reg.StageConfig(stage)
		if cfg == nil {
			continue
		}

		msgs, err := run.validate(ctx, stage, cfg, results)
		if len(msgs) > 0 {
			results.Stages = append(results.Stages, StageResult{Stage: stage, Messages: msgs})
		}
		errs = append(errs, err)
	}

	results.HasWarnings = len(results.Pipeline) > 0 || len(results.Stages) > 0

	v.publish(results)

	return results, errors.Join(errs...)
}

func (v *Validator) publish(results *Results) {
	v.mu.RLock()
	subs := make([]func(*Results), 0, len(v.subs))
	for _, fn := range v.subs {
		subs = append(subs, fn)
	}
	v.mu.RUnlock()

	for _, fn := range subs {
		fn(results)
	}
}

// run carries state shared by the validators of a single ValidatePipeline call.
type run struct {
	*Validator

	pipeline *pipeline.Pipeline
	accounts func() ([]string, error)
}

func (r *run) validate(
	ctx context.Context,
	node pipeline.Node,
	typeCfg registry.TypeConfig,
	results *Results,
) ([]string, error) {
	var (
		msgs []string
		errs []error
	)

	validators := typeCfg.ValidatorConfigs()
	for i := range validators {
		cfg := &validators[i]

		msg, err := r.check(ctx, node, cfg, typeCfg)

		switch {
		case err != nil:
			r.opts.Metrics.observe(cfg.Type, outcomeError)
			errs = append(errs, fmt.Errorf("%s validator on %s: %w", cfg.Type, typeCfg.TypeKey(), err))
		case msg != "":
			r.opts.Metrics.observe(cfg.Type, outcomeFail)
			msgs = append(msgs, msg)
			if cfg.PreventSave {
				results.PreventSave = true
			}
		default:
			r.opts.Metrics.observe(cfg.Type, outcomePass)
		}
	}

	return msgs, errors.Join(errs...)
}

func (r *run) check(
	ctx context.Context,
	node pipeline.Node,
	cfg *registry.ValidatorConfig,
	typeCfg registry.TypeConfig,
) (string, error) {
	if cfg.SkipValidation != nil && cfg.SkipValidation(r.pipeline, node) {
		return "", nil
	}

	switch cfg.Type {
	case registry.KindRequiredField:
		return requiredField(node, cfg), nil
	case registry.KindAnyFieldRequired:
		return anyFieldRequired(node, cfg), nil
	case registry.KindServiceAccountAccess:
		return r.serviceAccountAccess(node, cfg)
	case registry.KindStageBeforeType:
		return stageBeforeType(r.pipeline, node, cfg, typeCfg), nil
	case registry.KindStageOrTriggerBeforeType:
		return r.stageOrTriggerBeforeType(ctx, node, cfg, typeCfg)
	case registry.KindTargetImpedance:
		return targetImpedance(r.pipeline, node, cfg), nil
	case registry.KindCustom:
		if cfg.Validate == nil {
			return "", nil
		}

		return cfg.Validate(r.pipeline, node, cfg, typeCfg), nil
	}

	r.mu.RLock()
	fn, ok := r.custom[cfg.Type]
	r.mu.RUnlock()

	if !ok {
		r.logger.Warn("no implementation for validator", "type", cfg.Type, "key", typeCfg.TypeKey())

		return "", nil
	}

	return fn(r.pipeline, node, cfg, typeCfg), nil
}

// parentCache memoizes pipeline configs per application. Concurrent misses
// for the same application share one fetch; failed fetches are not cached.
type parentCache struct {
	lister PipelineLister
	group  singleflight.Group

	mu      sync.RWMutex
	configs map[string][]pipeline.Pipeline
}

func (c *parentCache) get(ctx context.Context, application string) ([]pipeline.Pipeline, error) {
	c.mu.RLock()
	configs, ok := c.configs[application]
	c.mu.RUnlock()

	if ok {
		return configs, nil
	}

	if c.lister == nil {
		return nil, errors.New("no pipeline config source configured")
	}

	v, err, _ := c.group.Do(application, func() (any, error) {
		fetched, err := c.lister.PipelineConfigs(ctx, application)
		if err != nil {
			return nil, fmt.Errorf("fetching pipeline configs for %s: %w", application, err)
		}

		c.mu.Lock()
		c.configs[application] = fetched
		c.mu.Unlock()

		return fetched, nil
	})
	if err != nil {
		return nil, err
	}

	configs, _ = v.([]pipeline.Pipeline)

	return configs, nil
}
