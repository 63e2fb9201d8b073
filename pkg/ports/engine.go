package ports

import (
	"context"
	"io"

	"github.com/aretw0/mlpipe/pkg/domain"
)

// StageExecutor runs external processors.
// A non-zero exit is reported through ExecResult, not as an error; the error
// return is reserved for processes that could not be started or waited on.
type StageExecutor interface {
	Execute(ctx context.Context, inv domain.Invocation) (domain.ExecResult, error)
}

// DependencyChecker verifies that the environment can run the pipeline.
type DependencyChecker interface {
	Check(ctx context.Context) error
}

// ArtifactValidator checks a stage postcondition.
type ArtifactValidator interface {
	Validate(path string) error
}

// ConfigProvisioner makes sure a configuration file exists at path.
type ConfigProvisioner interface {
	Ensure(ctx context.Context, path, url string) error
}

// ReadinessProber checks that a service answers at uri.
type ReadinessProber interface {
	Probe(ctx context.Context, uri string) error
}

// Fetcher opens a remote resource. Callers must close the body.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (io.ReadCloser, error)
}
