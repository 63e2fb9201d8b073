package domain_test

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/aretw0/mlpipe/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPipelineConfig(t *testing.T) {
	root := t.TempDir()

	cfg, err := domain.NewPipelineConfig(root, "")
	require.NoError(t, err)

	assert.Equal(t, domain.DefaultTrackingURI, cfg.TrackingURI)
	assert.Equal(t, domain.DefaultConfigURL, cfg.ConfigURL)
	assert.Equal(t, filepath.Join(root, "data", "raw", "house_data.csv"), cfg.RawInput)
	assert.Equal(t, filepath.Join(root, "models", "trained", "house_price_model.pkl"), cfg.TrainedModel)
	assert.Equal(t, filepath.Join(root, "configs", "model_config.yaml"), cfg.ModelConfig)

	for _, p := range cfg.Artifacts() {
		assert.True(t, filepath.IsAbs(p), p)
	}

	override, err := domain.NewPipelineConfig(root, "http://mlflow:5000")
	require.NoError(t, err)
	assert.Equal(t, "http://mlflow:5000", override.TrackingURI)
}

func TestInvocations(t *testing.T) {
	cfg, err := domain.NewPipelineConfig("/srv/project", "http://localhost:5555")
	require.NoError(t, err)

	clean := domain.CleanInvocation(cfg)
	assert.Equal(t, []string{"--input", cfg.RawInput, "--output", cfg.CleanedOutput}, clean.Args)
	assert.Equal(t, []string{cfg.CleanedOutput}, clean.Outputs)

	feat := domain.FeaturizeInvocation(cfg)
	assert.Equal(t, []string{cfg.FeaturedOutput, cfg.Preprocessor}, feat.Outputs)
	assert.Contains(t, feat.Args, "--preprocessor")

	train := domain.TrainInvocation(cfg)
	assert.Equal(t, []string{
		"--config", cfg.ModelConfig,
		"--data", cfg.FeaturedOutput,
		"--models-dir", cfg.ModelsDir,
		"--mlflow-tracking-uri", "http://localhost:5555",
	}, train.Args)
	assert.Equal(t, []string{cfg.TrainedModel}, train.Outputs)
}

func TestStageError(t *testing.T) {
	cause := errors.New("signal: killed")
	err := error(&domain.StageError{Stage: domain.StageTrain, ExitCode: -1, Err: cause})

	assert.ErrorIs(t, err, domain.ErrStageExecution)
	assert.ErrorIs(t, err, cause)

	var se *domain.StageError
	assert.ErrorAs(t, err, &se)
	assert.Equal(t, domain.StageTrain, se.Stage)

	plain := &domain.StageError{Stage: domain.StageClean, ExitCode: 3, Stderr: "bad csv"}
	assert.Equal(t, "stage clean exited with status 3: bad csv", plain.Error())
}
