package process

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/aretw0/mlpipe/pkg/domain"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// DefaultStagesFile is looked up under the project root when no path is given.
const DefaultStagesFile = "stages.yaml"

// StageConfig represents how one pipeline stage is executed.
type StageConfig struct {
	Name        string            `mapstructure:"name"`
	Command     string            `mapstructure:"command"`
	Args        []string          `mapstructure:"args"`
	Environment map[string]string `mapstructure:"env"`
	Timeout     time.Duration     `mapstructure:"timeout"`
	Description string            `mapstructure:"description"`
}

// ConfigFile represents the structure of stages.yaml.
type ConfigFile struct {
	// Requires lists extra executables the preflight check must find.
	Requires []string      `mapstructure:"requires"`
	Stages   []StageConfig `mapstructure:"stages"`
}

// Registry is the resolved set of stage commands.
type Registry struct {
	Stages   map[domain.StageName]StageConfig
	Requires []string
}

// DefaultRegistry returns the built-in stage commands.
func DefaultRegistry() Registry {
	return Registry{
		Stages: map[domain.StageName]StageConfig{
			domain.StageClean: {
				Name:        string(domain.StageClean),
				Command:     "python",
				Args:        []string{"src/data/run_processing.py"},
				Description: "Clean the raw house data",
			},
			domain.StageFeaturize: {
				Name:        string(domain.StageFeaturize),
				Command:     "python",
				Args:        []string{"src/features/engineer.py"},
				Description: "Engineer features and fit the preprocessor",
			},
			domain.StageTrain: {
				Name:        string(domain.StageTrain),
				Command:     "python",
				Args:        []string{"src/models/train_model.py"},
				Description: "Train the model and log the run to MLflow",
			},
		},
		Requires: []string{"python", "curl"},
	}
}

// Executables returns every distinct command the registry needs, sorted.
func (r Registry) Executables() []string {
	seen := map[string]bool{}
	var out []string
	add := func(name string) {
		if name == "" || seen[name] {
			return
		}
		seen[name] = true
		out = append(out, name)
	}
	for _, name := range r.Requires {
		add(name)
	}
	for _, st := range r.Stages {
		add(st.Command)
	}
	slices.Sort(out)
	return out
}

// LoadStages reads a stage registry (YAML or JSON) and overlays it on the defaults.
// A missing file is not an error: the defaults are returned as-is.
func LoadStages(path string) (Registry, error) {
	reg := DefaultRegistry()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return reg, nil
		}
		return Registry{}, fmt.Errorf("failed to read stages config: %w", err)
	}

	var raw map[string]any
	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".json" {
		if err := json.Unmarshal(data, &raw); err != nil {
			return Registry{}, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
		}
	} else {
		// Default to YAML
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return Registry{}, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
		}
	}

	var cfg ConfigFile
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
		ErrorUnused:      true,
		WeaklyTypedInput: true,
		Result:           &cfg,
	})
	if err != nil {
		return Registry{}, err
	}
	if err := dec.Decode(raw); err != nil {
		return Registry{}, fmt.Errorf("invalid stages config %s: %w", filepath.Base(path), err)
	}

	known := domain.Stages()
	for _, st := range cfg.Stages {
		name := domain.StageName(st.Name)
		if !slices.Contains(known, name) {
			return Registry{}, fmt.Errorf("invalid stages config: unknown stage %q", st.Name)
		}
		if st.Command == "" {
			return Registry{}, fmt.Errorf("invalid stages config: stage %q has no command", st.Name)
		}
		reg.Stages[name] = st
	}
	if cfg.Requires != nil {
		reg.Requires = cfg.Requires
	}

	return reg, nil
}
