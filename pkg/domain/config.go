package domain

import (
	"path/filepath"
)

const (
	// DefaultTrackingURI is where the MLflow tracking server is expected to listen.
	DefaultTrackingURI = "http://localhost:5555"

	// DefaultConfigURL is fetched when the model configuration is missing locally.
	DefaultConfigURL = "https://raw.githubusercontent.com/aretw0/mlpipe/main/configs/model_config.yaml"

	// TrainedModelFile is the file name the trainer must leave under <models>/trained.
	TrainedModelFile = "house_price_model.pkl"
)

// Project layout, relative to the project root. Not reconfigurable.
const (
	RawInputPath       = "data/raw/house_data.csv"
	CleanedOutputPath  = "data/processed/cleaned_house_data.csv"
	FeaturedOutputPath = "data/processed/featured_house_data.csv"
	PreprocessorPath   = "models/trained/preprocessor.pkl"
	ModelConfigPath    = "configs/model_config.yaml"
	ModelsDirPath      = "models"
)

// PipelineConfig is the immutable configuration threaded through every stage.
// Build it with NewPipelineConfig and pass it by value.
type PipelineConfig struct {
	ProjectRoot    string
	RawInput       string
	CleanedOutput  string
	FeaturedOutput string
	Preprocessor   string
	ModelConfig    string
	ModelsDir      string
	TrainedModel   string
	TrackingURI    string
	ConfigURL      string
}

// NewPipelineConfig resolves the fixed layout against root.
// An empty trackingURI falls back to DefaultTrackingURI.
func NewPipelineConfig(root, trackingURI string) (PipelineConfig, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return PipelineConfig{}, err
	}
	if trackingURI == "" {
		trackingURI = DefaultTrackingURI
	}

	at := func(rel string) string {
		return filepath.Join(abs, filepath.FromSlash(rel))
	}

	modelsDir := at(ModelsDirPath)
	return PipelineConfig{
		ProjectRoot:    abs,
		RawInput:       at(RawInputPath),
		CleanedOutput:  at(CleanedOutputPath),
		FeaturedOutput: at(FeaturedOutputPath),
		Preprocessor:   at(PreprocessorPath),
		ModelConfig:    at(ModelConfigPath),
		ModelsDir:      modelsDir,
		TrainedModel:   filepath.Join(modelsDir, "trained", TrainedModelFile),
		TrackingURI:    trackingURI,
		ConfigURL:      DefaultConfigURL,
	}, nil
}

// Artifacts lists every path the pipeline produces, in production order.
func (c PipelineConfig) Artifacts() []string {
	return []string{c.CleanedOutput, c.FeaturedOutput, c.Preprocessor, c.TrainedModel}
}
