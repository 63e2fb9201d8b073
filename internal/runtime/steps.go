package runtime

import (
	"context"
	"fmt"
	"net/url"

	"github.com/aretw0/mlpipe/internal/validator"
	"github.com/aretw0/mlpipe/pkg/domain"
)

// enter performs the work that establishes state s.
func (e *Engine) enter(ctx context.Context, s domain.State) error {
	switch s {
	case domain.StateDependenciesChecked:
		if e.deps == nil {
			return nil
		}
		e.logger.InfoContext(ctx, "checking dependencies")
		return e.deps.Check(ctx)

	case domain.StateInProjectRoot:
		if err := validator.RequireDir(e.cfg.ProjectRoot); err != nil {
			return err
		}
		e.logger.InfoContext(ctx, "using project root", "path", e.cfg.ProjectRoot)
		return nil

	case domain.StateCleaned:
		return e.runStage(ctx, domain.CleanInvocation(e.cfg))

	case domain.StateFeaturized:
		return e.runStage(ctx, domain.FeaturizeInvocation(e.cfg))

	case domain.StateConfigReady:
		return e.provisioner.Ensure(ctx, e.cfg.ModelConfig, e.cfg.ConfigURL)

	case domain.StateServiceReady:
		e.logger.InfoContext(ctx, "checking tracking service", "uri", e.cfg.TrackingURI)
		if err := e.prober.Probe(ctx, e.cfg.TrackingURI); err != nil {
			return fmt.Errorf("%w; start it with: %s", err, serviceHint(e.cfg.TrackingURI))
		}
		return nil

	case domain.StateTrained:
		return e.runStage(ctx, domain.TrainInvocation(e.cfg))

	case domain.StateDone:
		return nil
	}
	return fmt.Errorf("no step for state %s", s)
}

// serviceHint tells the operator how to bring the tracking server up on the
// port uri is probed on. Without an explicit port the scheme's default applies.
func serviceHint(uri string) string {
	port := "5555"
	if u, err := url.Parse(uri); err == nil {
		switch {
		case u.Port() != "":
			port = u.Port()
		case u.Scheme == "https":
			port = "443"
		case u.Scheme == "http":
			port = "80"
		}
	}
	return "mlflow server --host 0.0.0.0 --port " + port
}
