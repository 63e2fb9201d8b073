package runtime

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aretw0/mlpipe/internal/logging"
	"github.com/aretw0/mlpipe/internal/validator"
	"github.com/aretw0/mlpipe/pkg/domain"
	"github.com/aretw0/mlpipe/pkg/ports"
	"github.com/jonboulle/clockwork"
)

// Engine is the pipeline controller: a forward-only state machine that runs
// preflight, clean, featurize and train in that order and stops at the first failure.
type Engine struct {
	cfg         domain.PipelineConfig
	executor    ports.StageExecutor
	deps        ports.DependencyChecker
	validator   ports.ArtifactValidator
	provisioner ports.ConfigProvisioner
	prober      ports.ReadinessProber
	hooks       domain.LifecycleHooks
	logger      *slog.Logger
	clock       clockwork.Clock
}

// EngineOption configures the engine.
type EngineOption func(*Engine)

// WithDependencyChecker sets the preflight check. Defaults to none.
func WithDependencyChecker(c ports.DependencyChecker) EngineOption {
	return func(e *Engine) {
		e.deps = c
	}
}

// WithArtifactValidator replaces the existence-only validator.
func WithArtifactValidator(v ports.ArtifactValidator) EngineOption {
	return func(e *Engine) {
		e.validator = v
	}
}

// WithConfigProvisioner sets how the model config is created when missing. Required.
func WithConfigProvisioner(p ports.ConfigProvisioner) EngineOption {
	return func(e *Engine) {
		e.provisioner = p
	}
}

// WithReadinessProber sets the tracking service check. Required.
func WithReadinessProber(p ports.ReadinessProber) EngineOption {
	return func(e *Engine) {
		e.prober = p
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) EngineOption {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithLogger sets the status line logger.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithClock injects the clock used for stage durations and event timestamps.
func WithClock(clock clockwork.Clock) EngineOption {
	return func(e *Engine) {
		e.clock = clock
	}
}

// NewEngine creates a controller for cfg.
func NewEngine(cfg domain.PipelineConfig, executor ports.StageExecutor, opts ...EngineOption) (*Engine, error) {
	e := &Engine{
		cfg:       cfg,
		executor:  executor,
		validator: validator.NewArtifact(),
		logger:    logging.NewNop(),
		clock:     clockwork.NewRealClock(),
	}
	for _, opt := range opts {
		opt(e)
	}

	switch {
	case e.executor == nil:
		return nil, errors.New("stage executor is required")
	case e.provisioner == nil:
		return nil, errors.New("config provisioner is required")
	case e.prober == nil:
		return nil, errors.New("readiness prober is required")
	}
	return e, nil
}

// Run drives the state machine from Init to Done. The first failing step moves
// the run to Failed and nothing after it executes; artifacts already produced
// are left on disk.
func (e *Engine) Run(ctx context.Context) (domain.Report, error) {
	report := domain.Report{Final: domain.StateInit}
	state := domain.StateInit

	for !state.IsTerminal() {
		next, _ := state.Next()

		err := ctx.Err()
		if err == nil {
			err = e.enter(ctx, next)
		}
		if err != nil {
			if terr := e.transition(ctx, &report, state, domain.StateFailed, err); terr != nil {
				return report, terr
			}
			report.Err = err
			return report, err
		}

		if err := e.transition(ctx, &report, state, next, nil); err != nil {
			return report, err
		}
		state = next
	}

	e.logger.InfoContext(ctx, "pipeline complete", "model", e.cfg.TrainedModel)
	return report, nil
}

// transition records from -> to and fires the hook.
func (e *Engine) transition(ctx context.Context, report *domain.Report, from, to domain.State, cause error) error {
	if !domain.CanTransition(from, to) {
		return fmt.Errorf("illegal transition %s -> %s", from, to)
	}

	now := e.clock.Now()
	report.Transitions = append(report.Transitions, domain.Transition{From: from, To: to, At: now, Err: cause})
	report.Final = to

	e.logger.DebugContext(ctx, "transition", "from", from, "to", to)
	if e.hooks.OnTransition != nil {
		e.hooks.OnTransition(ctx, &domain.TransitionEvent{
			EventBase: domain.EventBase{Timestamp: now, Type: domain.EventTransition},
			From:      from,
			To:        to,
			Err:       cause,
		})
	}
	return nil
}
