package memory

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"github.com/aretw0/mlpipe/pkg/domain"
)

// Behavior scripts how a stub stage responds.
type Behavior struct {
	// ExitCode other than zero simulates a failing processor; no outputs are written.
	ExitCode int
	Stderr   string
	// Err simulates a processor that could not be started.
	Err error
	// Skip lists declared outputs the stub "forgets" to write.
	Skip []string
}

// Executor implements ports.StageExecutor without spawning processes.
// By default every stage succeeds and writes each declared output.
// Safe for concurrent use.
type Executor struct {
	mu        sync.Mutex
	behaviors map[domain.StageName]Behavior
	calls     []domain.Invocation
}

// NewExecutor creates a stub executor where every stage succeeds.
func NewExecutor() *Executor {
	return &Executor{
		behaviors: make(map[domain.StageName]Behavior),
	}
}

// On sets the behavior of a stage.
func (e *Executor) On(stage domain.StageName, b Behavior) *Executor {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.behaviors[stage] = b
	return e
}

// Execute records the invocation and plays the scripted behavior.
func (e *Executor) Execute(ctx context.Context, inv domain.Invocation) (domain.ExecResult, error) {
	e.mu.Lock()
	e.calls = append(e.calls, inv)
	b := e.behaviors[inv.Stage]
	e.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return domain.ExecResult{ExitCode: -1}, err
	}
	if b.Err != nil {
		return domain.ExecResult{}, b.Err
	}
	if b.ExitCode != 0 {
		return domain.ExecResult{ExitCode: b.ExitCode, Stderr: b.Stderr}, nil
	}

	for _, out := range inv.Outputs {
		if slices.Contains(b.Skip, out) {
			continue
		}
		if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
			return domain.ExecResult{}, err
		}
		content := fmt.Sprintf("%s output\n", inv.Stage)
		if err := os.WriteFile(out, []byte(content), 0o644); err != nil {
			return domain.ExecResult{}, err
		}
	}
	return domain.ExecResult{}, nil
}

// Calls returns a copy of every invocation seen, in order.
func (e *Executor) Calls() []domain.Invocation {
	e.mu.Lock()
	defer e.mu.Unlock()
	return slices.Clone(e.calls)
}

// Stages returns the stage of every invocation seen, in order.
func (e *Executor) Stages() []domain.StageName {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]domain.StageName, 0, len(e.calls))
	for _, c := range e.calls {
		out = append(out, c.Stage)
	}
	return out
}

// CallCount returns how many times stage was invoked.
func (e *Executor) CallCount(stage domain.StageName) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	n := 0
	for _, c := range e.calls {
		if c.Stage == stage {
			n++
		}
	}
	return n
}
