package preflight

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/aretw0/mlpipe/internal/logging"
	"github.com/aretw0/mlpipe/pkg/domain"
)

// Checker verifies that required executables are on PATH.
type Checker struct {
	required []string
	baseDir  string
	lookPath func(string) (string, error)
	logger   *slog.Logger
}

// Option configures the checker.
type Option func(*Checker)

// WithLookPath replaces exec.LookPath.
func WithLookPath(fn func(string) (string, error)) Option {
	return func(c *Checker) {
		c.lookPath = fn
	}
}

// WithBaseDir resolves commands that contain a path separator against dir,
// the working directory the stages run in. Bare names still go through PATH.
func WithBaseDir(dir string) Option {
	return func(c *Checker) {
		c.baseDir = dir
	}
}

// WithLogger sets the logger used for found tools.
func WithLogger(l *slog.Logger) Option {
	return func(c *Checker) {
		c.logger = l
	}
}

// New creates a checker for the given executables.
func New(required []string, opts ...Option) *Checker {
	c := &Checker{
		required: required,
		lookPath: exec.LookPath,
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Check returns domain.ErrMissingDependency naming every executable that cannot be found.
func (c *Checker) Check(ctx context.Context) error {
	var missing []string
	for _, name := range c.required {
		if err := ctx.Err(); err != nil {
			return err
		}
		path, err := c.lookPath(c.resolve(name))
		if err != nil {
			missing = append(missing, name)
			continue
		}
		c.logger.Debug("found dependency", "name", name, "path", path)
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s not found in PATH", domain.ErrMissingDependency, strings.Join(missing, ", "))
	}
	return nil
}

func (c *Checker) resolve(name string) string {
	if c.baseDir == "" || filepath.IsAbs(name) || !strings.ContainsRune(filepath.ToSlash(name), '/') {
		return name
	}
	return filepath.Join(c.baseDir, name)
}
