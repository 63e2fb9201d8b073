package mlpipe

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/aretw0/mlpipe/internal/logging"
	"github.com/aretw0/mlpipe/internal/preflight"
	"github.com/aretw0/mlpipe/internal/provision"
	"github.com/aretw0/mlpipe/internal/runtime"
	"github.com/aretw0/mlpipe/internal/validator"
	httpAdapter "github.com/aretw0/mlpipe/pkg/adapters/http"
	"github.com/aretw0/mlpipe/pkg/adapters/process"
	"github.com/aretw0/mlpipe/pkg/domain"
	"github.com/aretw0/mlpipe/pkg/ports"
	"github.com/jonboulle/clockwork"
)

// Pipeline is the high-level entry point for the mlpipe library.
// It wires the default adapters (local processes, HTTP) around the controller.
type Pipeline struct {
	runtime *runtime.Engine
	cfg     domain.PipelineConfig

	stages       process.Registry
	stagesSet    bool
	executor     ports.StageExecutor
	deps         ports.DependencyChecker
	fetcher      ports.Fetcher
	prober       ports.ReadinessProber
	hooks        domain.LifecycleHooks
	logger       *slog.Logger
	clock        clockwork.Clock
	stageTimeout time.Duration
	httpTimeout  time.Duration
	strict       bool
	stdout       io.Writer
	stderr       io.Writer
}

// Option defines a functional option for configuring the Pipeline.
type Option func(*Pipeline)

// WithStages sets the stage registry used by the default process executor
// and by the preflight check.
func WithStages(reg process.Registry) Option {
	return func(p *Pipeline) {
		p.stages = reg
		p.stagesSet = true
	}
}

// WithExecutor replaces the process executor (e.g. with memory.Executor).
// Unless WithDependencyChecker is also given, no preflight check runs.
func WithExecutor(ex ports.StageExecutor) Option {
	return func(p *Pipeline) {
		p.executor = ex
	}
}

// WithDependencyChecker replaces the PATH based preflight check.
func WithDependencyChecker(c ports.DependencyChecker) Option {
	return func(p *Pipeline) {
		p.deps = c
	}
}

// WithFetcher replaces the HTTP client used to download the default config.
func WithFetcher(f ports.Fetcher) Option {
	return func(p *Pipeline) {
		p.fetcher = f
	}
}

// WithReadinessProber replaces the HTTP client used to probe the tracking service.
func WithReadinessProber(pr ports.ReadinessProber) Option {
	return func(p *Pipeline) {
		p.prober = pr
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(p *Pipeline) {
		p.hooks = p.hooks.Merge(hooks)
	}
}

// WithLogger sets the status line logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// WithClock injects the clock used for stage timing.
func WithClock(clock clockwork.Clock) Option {
	return func(p *Pipeline) {
		p.clock = clock
	}
}

// WithStageTimeout bounds each stage that does not set its own timeout. Zero means no limit.
func WithStageTimeout(d time.Duration) Option {
	return func(p *Pipeline) {
		p.stageTimeout = d
	}
}

// WithHTTPTimeout bounds the config download and the readiness probe. Zero means no limit.
func WithHTTPTimeout(d time.Duration) Option {
	return func(p *Pipeline) {
		p.httpTimeout = d
	}
}

// WithStrictArtifacts makes the postcondition check reject empty files.
func WithStrictArtifacts(strict bool) Option {
	return func(p *Pipeline) {
		p.strict = strict
	}
}

// WithStageOutput mirrors the stage processes' output.
func WithStageOutput(stdout, stderr io.Writer) Option {
	return func(p *Pipeline) {
		p.stdout = stdout
		p.stderr = stderr
	}
}

// New wires a pipeline for cfg.
func New(cfg domain.PipelineConfig, opts ...Option) (*Pipeline, error) {
	p := &Pipeline{cfg: cfg}
	for _, opt := range opts {
		opt(p)
	}

	if p.logger == nil {
		p.logger = logging.NewNop()
	}
	if p.clock == nil {
		p.clock = clockwork.NewRealClock()
	}
	if !p.stagesSet {
		p.stages = process.DefaultRegistry()
	}

	if p.executor == nil {
		p.executor = process.NewRunner(
			process.WithRegistry(p.stages),
			process.WithBaseDir(cfg.ProjectRoot),
			process.WithTimeout(p.stageTimeout),
			process.WithOutput(p.stdout, p.stderr),
		)
		if p.deps == nil {
			p.deps = preflight.New(p.stages.Executables(),
				preflight.WithBaseDir(cfg.ProjectRoot),
				preflight.WithLogger(p.logger),
			)
		}
	}

	client := httpAdapter.NewClient(httpAdapter.WithTimeout(p.httpTimeout))
	if p.fetcher == nil {
		p.fetcher = client
	}
	if p.prober == nil {
		p.prober = client
	}

	runtimeOpts := []runtime.EngineOption{
		runtime.WithConfigProvisioner(provision.New(p.fetcher, p.logger)),
		runtime.WithReadinessProber(p.prober),
		runtime.WithArtifactValidator(validator.NewArtifact(validator.WithRequireNonEmpty(p.strict))),
		runtime.WithLifecycleHooks(p.hooks),
		runtime.WithLogger(p.logger),
		runtime.WithClock(p.clock),
	}
	if p.deps != nil {
		runtimeOpts = append(runtimeOpts, runtime.WithDependencyChecker(p.deps))
	}

	eng, err := runtime.NewEngine(cfg, p.executor, runtimeOpts...)
	if err != nil {
		return nil, err
	}
	p.runtime = eng
	return p, nil
}

// Run executes the whole pipeline once. See runtime.Engine.Run.
func (p *Pipeline) Run(ctx context.Context) (domain.Report, error) {
	return p.runtime.Run(ctx)
}

// Config returns the configuration the pipeline runs with.
func (p *Pipeline) Config() domain.PipelineConfig {
	return p.cfg
}
