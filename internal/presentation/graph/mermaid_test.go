package graph_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/aretw0/mlpipe/internal/presentation/graph"
	"github.com/aretw0/mlpipe/pkg/domain"
)

func TestGenerateMermaid(t *testing.T) {
	failedRun := domain.Report{
		Final: domain.StateFailed,
		Transitions: []domain.Transition{
			{From: domain.StateInit, To: domain.StateDependenciesChecked},
			{From: domain.StateDependenciesChecked, To: domain.StateInProjectRoot},
			{From: domain.StateInProjectRoot, To: domain.StateFailed, Err: errors.New("boom")},
		},
	}

	tests := []struct {
		name     string
		overlay  *graph.Overlay
		contains []string
		excludes []string
	}{
		{
			name: "Shapes",
			contains: []string{
				`init(("init"))`,
				`cleaned[["cleaned <br/> clean"]]`,
				`trained[["trained <br/> train"]]`,
				`config_ready["config_ready"]`,
				`done(("done"))`,
				`failed(("failed"))`,
			},
			excludes: []string{"classDef"},
		},
		{
			name: "Edges",
			contains: []string{
				"init --> dependencies_checked",
				"service_ready --> trained",
				"trained --> done",
				"featurized -.-> failed",
			},
			excludes: []string{"done -.-> failed", "done -->"},
		},
		{
			name:    "Failed Run Overlay",
			overlay: graph.OverlayFrom(failedRun),
			contains: []string{
				"class init visited;",
				"class in_project_root visited;",
				"class in_project_root failed;",
				"class failed failed;",
			},
			excludes: []string{"class cleaned visited;", "class failed visited;"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := graph.GenerateMermaid(tt.overlay)
			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("GenerateMermaid() = \n%v\nWant substring: %v", got, want)
				}
			}
			for _, bad := range tt.excludes {
				if strings.Contains(got, bad) {
					t.Errorf("GenerateMermaid() = \n%v\nUnexpected substring: %v", got, bad)
				}
			}
		})
	}
}
