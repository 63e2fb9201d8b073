package validator

import (
	"errors"
	"fmt"
	"os"

	"github.com/aretw0/mlpipe/pkg/domain"
)

// Artifact checks stage postconditions on the filesystem.
// By default only existence is checked; content is not inspected.
type Artifact struct {
	requireNonEmpty bool
}

// Option configures the validator.
type Option func(*Artifact)

// WithRequireNonEmpty also rejects zero-byte regular files.
func WithRequireNonEmpty(v bool) Option {
	return func(a *Artifact) {
		a.requireNonEmpty = v
	}
}

// NewArtifact creates a new artifact validator.
func NewArtifact(opts ...Option) *Artifact {
	a := &Artifact{}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Validate returns domain.ErrFileNotFound unless path exists.
func (a *Artifact) Validate(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s", domain.ErrFileNotFound, path)
		}
		return fmt.Errorf("cannot stat %s: %w", path, err)
	}
	if a.requireNonEmpty && info.Mode().IsRegular() && info.Size() == 0 {
		return fmt.Errorf("%w: %s is empty", domain.ErrFileNotFound, path)
	}
	return nil
}

// RequireDir returns domain.ErrProjectRootNotFound unless path is an existing directory.
func RequireDir(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("%w: %s", domain.ErrProjectRootNotFound, path)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s is not a directory", domain.ErrProjectRootNotFound, path)
	}
	return nil
}
