package domain

import (
	"errors"
	"fmt"
)

// ErrMissingDependency is returned when a required executable is not on PATH.
var ErrMissingDependency = errors.New("missing dependency")

// ErrProjectRootNotFound is returned when the configured project root does not exist.
var ErrProjectRootNotFound = errors.New("project root not found")

// ErrStageExecution is returned when an external processor exits with a non-zero status.
var ErrStageExecution = errors.New("stage execution failed")

// ErrFileNotFound is returned when a stage did not leave its declared artifact behind.
var ErrFileNotFound = errors.New("file not found")

// ErrConfigDownload is returned when the default model configuration cannot be fetched.
var ErrConfigDownload = errors.New("config download failed")

// ErrServiceUnreachable is returned when the tracking service does not answer with a success status.
var ErrServiceUnreachable = errors.New("service unreachable")

// ErrUnknownOption is returned when the command line carries a flag we do not know.
var ErrUnknownOption = errors.New("unknown option")

// StageError carries the details of a failed external processor run.
// It unwraps to ErrStageExecution.
type StageError struct {
	Stage    StageName
	ExitCode int
	Stderr   string
	Err      error // underlying exec error, if any
}

func (e *StageError) Error() string {
	msg := fmt.Sprintf("stage %s exited with status %d", e.Stage, e.ExitCode)
	if e.Err != nil {
		msg = fmt.Sprintf("stage %s: %v", e.Stage, e.Err)
	}
	if e.Stderr != "" {
		msg += ": " + e.Stderr
	}
	return msg
}

func (e *StageError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrStageExecution, e.Err}
	}
	return []error{ErrStageExecution}
}
