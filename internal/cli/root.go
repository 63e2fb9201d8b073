package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/aretw0/mlpipe/pkg/domain"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Exit codes.
const (
	ExitOK      = 0
	ExitFailure = 1
	ExitUsage   = 2
)

// Environment variables that provide flag defaults (e.g. from .env).
const (
	EnvTrackingURI = "MLPIPE_MLFLOW_URI"
	EnvProjectRoot = "MLPIPE_PROJECT_ROOT"
)

// BuildInfo is set by LDFLAGS in main.
type BuildInfo struct {
	Version string
	Commit  string
}

// Options holds the parsed command line.
type Options struct {
	TrackingURI     string
	ProjectRoot     string
	StagesFile      string
	StageTimeout    time.Duration
	HTTPTimeout     time.Duration
	StrictArtifacts bool
	MetricsFile     string
	GraphFile       string
	Verbose         bool
}

// NewRootCommand builds the mlpipe command. Output goes to stdout/stderr;
// status lines always go to stderr.
func NewRootCommand(build BuildInfo, stdout, stderr io.Writer) *cobra.Command {
	opts := Options{}

	cmd := &cobra.Command{
		Use:   "mlpipe",
		Short: "Run the house price pipeline: clean, featurize, train",
		Long: `mlpipe runs the data processor, the feature engineer and the trainer in order,
checking each stage's artifacts before moving on. Training only starts once the
model config exists (it is downloaded if missing) and the MLflow tracking
server answers.`,
		Version:       fmt.Sprintf("%s (commit %s)", build.Version, build.Commit),
		Args:          noArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPipeline(cmd.Context(), opts, build, stdout, stderr)
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	flags := cmd.Flags()
	flags.StringVarP(&opts.TrackingURI, "mlflow-uri", "m", envOr(EnvTrackingURI, domain.DefaultTrackingURI), "MLflow tracking URI")
	flags.StringVar(&opts.ProjectRoot, "project-root", envOr(EnvProjectRoot, "."), "Directory containing data/, models/ and configs/")
	flags.StringVar(&opts.StagesFile, "stages", "", "Stage registry file (default <project-root>/stages.yaml)")
	flags.DurationVar(&opts.StageTimeout, "stage-timeout", 0, "Limit for each stage process (0 = none)")
	flags.DurationVar(&opts.HTTPTimeout, "http-timeout", 0, "Limit for the config download and the tracking probe (0 = none)")
	flags.BoolVar(&opts.StrictArtifacts, "strict-artifacts", false, "Reject empty stage outputs")
	flags.StringVar(&opts.MetricsFile, "metrics-file", "", "Write Prometheus metrics to this file when the run ends")
	flags.StringVar(&opts.GraphFile, "graph-file", "", "Write a Mermaid chart of the run's states to this file when the run ends")
	flags.BoolVarP(&opts.Verbose, "verbose", "v", false, "Show debug logs")

	flags.SetNormalizeFunc(underscoreToDash)
	cmd.SetFlagErrorFunc(usageError)
	return cmd
}

// usageError prints the usage and tags err so Execute exits with ExitUsage.
func usageError(cmd *cobra.Command, err error) error {
	cmd.PrintErrln(cmd.UsageString())
	return fmt.Errorf("%w: %v", domain.ErrUnknownOption, err)
}

// Execute runs the command line and returns the process exit code.
func Execute(ctx context.Context, build BuildInfo, args []string, stdout, stderr io.Writer) int {
	cmd := NewRootCommand(build, stdout, stderr)
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(ctx)
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, domain.ErrUnknownOption):
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return ExitUsage
	default:
		// Already reported by runPipeline.
		return ExitFailure
	}
}

// noArgs rejects positional arguments the same way as unknown flags.
func noArgs(cmd *cobra.Command, args []string) error {
	if len(args) > 0 {
		return usageError(cmd, fmt.Errorf("unexpected argument %q", args[0]))
	}
	return nil
}

// underscoreToDash accepts --mlflow_uri as an alias of --mlflow-uri.
func underscoreToDash(_ *pflag.FlagSet, name string) pflag.NormalizedName {
	return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
