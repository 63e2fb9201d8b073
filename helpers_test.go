package mlpipe_test

import (
	"github.com/aretw0/mlpipe/pkg/adapters/process"
	"github.com/aretw0/mlpipe/pkg/domain"
)

// processRegistry registers command for every stage and requires nothing else.
func processRegistry(command string, args ...string) process.Registry {
	reg := process.Registry{Stages: map[domain.StageName]process.StageConfig{}}
	for _, stage := range domain.Stages() {
		reg.Stages[stage] = process.StageConfig{Name: string(stage), Command: command, Args: args}
	}
	return reg
}
