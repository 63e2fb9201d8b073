package provision

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/aretw0/mlpipe/internal/logging"
	"github.com/aretw0/mlpipe/pkg/domain"
	"github.com/aretw0/mlpipe/pkg/ports"
)

// Provisioner creates a configuration file from a remote default when it is missing.
// It is not safe for concurrent runs against the same path.
type Provisioner struct {
	fetcher ports.Fetcher
	logger  *slog.Logger
}

// New creates a provisioner that downloads through fetcher.
func New(fetcher ports.Fetcher, logger *slog.Logger) *Provisioner {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Provisioner{fetcher: fetcher, logger: logger}
}

// Ensure is a no-op when path exists. Otherwise it downloads url and writes the
// body verbatim to path. A failed download leaves nothing behind.
func (p *Provisioner) Ensure(ctx context.Context, path, url string) error {
	_, err := os.Stat(path)
	if err == nil {
		p.logger.Debug("config present", "path", path)
		return nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%w: cannot stat %s: %v", domain.ErrConfigDownload, path, err)
	}

	p.logger.Info("config missing, downloading default", "path", path, "url", url)

	body, err := p.fetcher.Fetch(ctx, url)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrConfigDownload, err)
	}
	defer body.Close()

	if err := writeFile(path, body); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrConfigDownload, err)
	}
	return nil
}

// writeFile streams r into a temp file next to path and renames it into place.
func writeFile(path string, r io.Reader) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name()) // no-op after a successful rename

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
