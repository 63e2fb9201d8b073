package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/aretw0/mlpipe"
	"github.com/aretw0/mlpipe/internal/logging"
	"github.com/aretw0/mlpipe/internal/metrics"
	"github.com/aretw0/mlpipe/internal/presentation/graph"
	"github.com/aretw0/mlpipe/pkg/adapters/process"
	"github.com/aretw0/mlpipe/pkg/domain"
)

// runPipeline builds the configuration once from opts and runs the pipeline.
// Every failure is logged here as a single status line.
func runPipeline(ctx context.Context, opts Options, build BuildInfo, stdout, stderr io.Writer) error {
	logger := logging.New(stderr, logging.Level(opts.Verbose))

	err := run(ctx, logger, opts, build, stdout, stderr)
	if err != nil {
		logger.Error("pipeline failed", "error", err)
	}
	return err
}

func run(ctx context.Context, logger *slog.Logger, opts Options, build BuildInfo, stdout, stderr io.Writer) error {
	cfg, err := domain.NewPipelineConfig(opts.ProjectRoot, opts.TrackingURI)
	if err != nil {
		return fmt.Errorf("invalid project root: %w", err)
	}

	stagesFile := opts.StagesFile
	if stagesFile == "" {
		stagesFile = filepath.Join(cfg.ProjectRoot, process.DefaultStagesFile)
	}
	stages, err := process.LoadStages(stagesFile)
	if err != nil {
		return err
	}

	rec := metrics.New()
	rec.BuildInfo.WithLabelValues(build.Version, build.Commit).Set(1)

	p, err := mlpipe.New(cfg,
		mlpipe.WithStages(stages),
		mlpipe.WithLogger(logger),
		mlpipe.WithLifecycleHooks(rec.Hooks()),
		mlpipe.WithStageTimeout(opts.StageTimeout),
		mlpipe.WithHTTPTimeout(opts.HTTPTimeout),
		mlpipe.WithStrictArtifacts(opts.StrictArtifacts),
		mlpipe.WithStageOutput(stdout, stderr),
	)
	if err != nil {
		return err
	}

	sc := NewSignalContext(ctx)
	defer sc.Stop()

	runCfg := p.Config()
	logger.Debug("starting pipeline", "root", runCfg.ProjectRoot, "mlflow_uri", runCfg.TrackingURI, "stages", stagesFile)
	report, runErr := p.Run(sc)
	if sig := sc.Signal(); sig != nil {
		logger.Warn("interrupted", "signal", sig.String(), "state", report.Final)
	}

	if opts.MetricsFile != "" {
		if err := rec.WriteTextfile(opts.MetricsFile); err != nil {
			logger.Warn("failed to write metrics", "path", opts.MetricsFile, "error", err)
		}
	}

	if opts.GraphFile != "" {
		chart := graph.GenerateMermaid(graph.OverlayFrom(report))
		if err := os.WriteFile(opts.GraphFile, []byte(chart), 0o644); err != nil {
			logger.Warn("failed to write graph", "path", opts.GraphFile, "error", err)
		}
	}

	if at, failed := report.FailedAt(); failed {
		return fmt.Errorf("stopped after %s: %w", at, runErr)
	}
	return runErr
}
