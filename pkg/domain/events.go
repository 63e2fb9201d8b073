package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventTransition  EventType = "transition"
	EventStageStart  EventType = "stage_start"
	EventStageFinish EventType = "stage_finish"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
}

// TransitionEvent is emitted every time the controller changes state.
type TransitionEvent struct {
	EventBase
	From State `json:"from"`
	To   State `json:"to"`
	Err  error `json:"-"`
}

// StageEvent represents an external processor run.
type StageEvent struct {
	EventBase
	Stage    StageName     `json:"stage"`
	Args     []string      `json:"args,omitempty"`
	Duration time.Duration `json:"duration,omitempty"` // Set on finish
	Err      error         `json:"-"`
}

// LifecycleHooks defines callbacks for engine observability.
type LifecycleHooks struct {
	OnTransition  func(context.Context, *TransitionEvent)
	OnStageStart  func(context.Context, *StageEvent)
	OnStageFinish func(context.Context, *StageEvent)
}

// Merge returns hooks that call h first and then other.
func (h LifecycleHooks) Merge(other LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnTransition:  chain(h.OnTransition, other.OnTransition),
		OnStageStart:  chain(h.OnStageStart, other.OnStageStart),
		OnStageFinish: chain(h.OnStageFinish, other.OnStageFinish),
	}
}

func chain[E any](a, b func(context.Context, E)) func(context.Context, E) {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	return func(ctx context.Context, e E) {
		a(ctx, e)
		b(ctx, e)
	}
}
