package runtime

import (
	"context"
	"errors"

	"github.com/aretw0/mlpipe/pkg/domain"
)

// runStage invokes one external processor and then checks every declared output.
func (e *Engine) runStage(ctx context.Context, inv domain.Invocation) error {
	log := e.logger.With("stage", inv.Stage)
	start := e.clock.Now()

	if e.hooks.OnStageStart != nil {
		e.hooks.OnStageStart(ctx, &domain.StageEvent{
			EventBase: domain.EventBase{Timestamp: start, Type: domain.EventStageStart},
			Stage:     inv.Stage,
			Args:      inv.Args,
		})
	}
	log.InfoContext(ctx, "running stage")

	err := e.execute(ctx, inv)
	duration := e.clock.Since(start)

	if e.hooks.OnStageFinish != nil {
		e.hooks.OnStageFinish(ctx, &domain.StageEvent{
			EventBase: domain.EventBase{Timestamp: e.clock.Now(), Type: domain.EventStageFinish},
			Stage:     inv.Stage,
			Args:      inv.Args,
			Duration:  duration,
			Err:       err,
		})
	}
	if err != nil {
		return err
	}

	log.InfoContext(ctx, "stage complete", "duration", duration)
	return nil
}

func (e *Engine) execute(ctx context.Context, inv domain.Invocation) error {
	if err := e.validateAll(inv.Inputs); err != nil {
		return err
	}

	res, err := e.executor.Execute(ctx, inv)
	if err != nil {
		return &domain.StageError{Stage: inv.Stage, ExitCode: res.ExitCode, Stderr: res.Stderr, Err: err}
	}
	if res.ExitCode != 0 {
		return &domain.StageError{Stage: inv.Stage, ExitCode: res.ExitCode, Stderr: res.Stderr}
	}

	return e.validateAll(inv.Outputs)
}

func (e *Engine) validateAll(paths []string) error {
	var errs []error
	for _, p := range paths {
		if err := e.validator.Validate(p); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
