package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/mlpipe/pkg/domain"
)

// Overlay marks the states a run went through.
type Overlay struct {
	Visited []domain.State
	// FailedAt is the state the run failed from, if any.
	FailedAt domain.State
}

// OverlayFrom builds an Overlay from a finished run.
func OverlayFrom(r domain.Report) *Overlay {
	o := &Overlay{Visited: r.Visited()}
	if at, ok := r.FailedAt(); ok {
		o.FailedAt = at
	}
	return o
}

// stageOf names the stage that leads into a state.
var stageOf = map[domain.State]domain.StageName{
	domain.StateCleaned:    domain.StageClean,
	domain.StateFeaturized: domain.StageFeaturize,
	domain.StateTrained:    domain.StageTrain,
}

// GenerateMermaid renders the controller as a Mermaid flowchart.
// States entered by running a stage are drawn as subroutines,
// terminal states as circles. Every non-terminal state has a dotted
// edge to failed.
func GenerateMermaid(overlay *Overlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	states := append(domain.States(), domain.StateFailed)
	for _, s := range states {
		opener, closer := "[", "]"
		switch {
		case s.IsTerminal() || s == domain.StateInit:
			opener, closer = "((", "))"
		case stageOf[s] != "":
			opener, closer = "[[", "]]"
		}
		label := string(s)
		if stage, ok := stageOf[s]; ok {
			label = fmt.Sprintf("%s <br/> %s", s, stage)
		}
		fmt.Fprintf(&sb, "    %s%s\"%s\"%s\n", s, opener, label, closer)
	}

	for _, s := range domain.States() {
		if next, ok := s.Next(); ok {
			fmt.Fprintf(&sb, "    %s --> %s\n", s, next)
		}
		if !s.IsTerminal() {
			fmt.Fprintf(&sb, "    %s -.-> %s\n", s, domain.StateFailed)
		}
	}

	if overlay == nil {
		return sb.String()
	}

	sb.WriteString("\n    %% Overlay Styles\n")
	// Black text keeps the overlay readable on light and dark themes.
	sb.WriteString("    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
	sb.WriteString("    classDef failed fill:#ffcdd2,stroke:#b71c1c,stroke-width:4px,color:#000;\n")

	seen := make(map[domain.State]bool)
	for _, s := range overlay.Visited {
		if s == domain.StateFailed || seen[s] {
			continue
		}
		seen[s] = true
		fmt.Fprintf(&sb, "    class %s visited;\n", s)
	}
	if overlay.FailedAt != "" {
		fmt.Fprintf(&sb, "    class %s failed;\n", overlay.FailedAt)
		fmt.Fprintf(&sb, "    class %s failed;\n", domain.StateFailed)
	}
	return sb.String()
}
