/*
Package mlpipe is a staged pipeline orchestrator for tabular machine learning projects.

It drives raw data through three external processors (clean, featurize, train) in a
fixed order, checks that every stage left its declared artifacts on disk, downloads a
default model configuration when none is present, and refuses to train unless the
MLflow tracking service answers.

# Concept

The controller is a forward-only state machine:

	init -> dependencies_checked -> in_project_root -> cleaned -> featurized
	     -> config_ready -> service_ready -> trained -> done

Any failing step moves the run to the absorbing "failed" state. Nothing is retried
and nothing is rolled back: artifacts produced before the failure stay on disk.

The stages themselves are opaque. The default executor runs local commands from a
stage registry (stages.yaml); tests and embedders can swap it for any
ports.StageExecutor.

# Usage

	cfg, err := domain.NewPipelineConfig("/srv/house-price", "http://localhost:5555")
	if err != nil {
		log.Fatal(err)
	}

	p, err := mlpipe.New(cfg, mlpipe.WithStageTimeout(30*time.Minute))
	if err != nil {
		log.Fatal(err)
	}

	report, err := p.Run(ctx)
	if err != nil {
		log.Fatalf("pipeline failed in %s: %v", report.Final, err)
	}
*/
package mlpipe
