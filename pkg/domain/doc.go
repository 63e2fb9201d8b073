/*
Package domain contains the core domain models of the mlpipe orchestrator.

It defines the pipeline configuration, the controller states and their forward-only
transition table, the stage invocation contract and the error taxonomy. This package
is kept pure and free of I/O, following Hexagonal Architecture principles.

# Key Entities

  - PipelineConfig: Immutable snapshot of every artifact path and the tracking URI.
  - State: A controller state (Init, Cleaned, Trained, ...) with exactly one successor.
  - Invocation: What a stage asks an executor to run, and which artifacts it must leave behind.
  - Report: The ordered transitions of a single run, for observability.
*/
package domain
