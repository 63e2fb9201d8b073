package domain

// StageName identifies one of the three work stages.
type StageName string

const (
	StageClean     StageName = "clean"
	StageFeaturize StageName = "featurize"
	StageTrain     StageName = "train"
)

// Stages returns the stage names in execution order.
func Stages() []StageName {
	return []StageName{StageClean, StageFeaturize, StageTrain}
}

// Invocation is a request to run one external processor.
// Args carries only the orchestrator's argument contract; the executor
// prepends whatever command it has registered for Stage.
type Invocation struct {
	Stage   StageName
	Args    []string
	Inputs  []string // Must exist before the processor starts
	Outputs []string // Must exist once the processor exits 0
}

// ExecResult is what an executor observed about a finished process.
type ExecResult struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// CleanInvocation builds the data processor call.
func CleanInvocation(cfg PipelineConfig) Invocation {
	return Invocation{
		Stage:   StageClean,
		Args:    []string{"--input", cfg.RawInput, "--output", cfg.CleanedOutput},
		Inputs:  []string{cfg.RawInput},
		Outputs: []string{cfg.CleanedOutput},
	}
}

// FeaturizeInvocation builds the feature engineer call.
func FeaturizeInvocation(cfg PipelineConfig) Invocation {
	return Invocation{
		Stage: StageFeaturize,
		Args: []string{
			"--input", cfg.CleanedOutput,
			"--output", cfg.FeaturedOutput,
			"--preprocessor", cfg.Preprocessor,
		},
		Inputs:  []string{cfg.CleanedOutput},
		Outputs: []string{cfg.FeaturedOutput, cfg.Preprocessor},
	}
}

// TrainInvocation builds the trainer call.
func TrainInvocation(cfg PipelineConfig) Invocation {
	return Invocation{
		Stage: StageTrain,
		Args: []string{
			"--config", cfg.ModelConfig,
			"--data", cfg.FeaturedOutput,
			"--models-dir", cfg.ModelsDir,
			"--mlflow-tracking-uri", cfg.TrackingURI,
		},
		Inputs:  []string{cfg.ModelConfig, cfg.FeaturedOutput},
		Outputs: []string{cfg.TrainedModel},
	}
}
