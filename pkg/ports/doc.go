/*
Package ports defines the driven ports (interfaces) of the mlpipe controller.

These interfaces decouple the state machine from the processes, files and
network services it coordinates, so that any of them can be replaced by a stub.

# Key Interfaces

  - StageExecutor: Runs one external processor and reports its exit status.
  - DependencyChecker: Verifies the required executables before any work begins.
  - ArtifactValidator: Confirms a stage left its declared output on disk.
  - ConfigProvisioner: Creates the model configuration if it is missing.
  - ReadinessProber: Gates training on the tracking service being reachable.
  - Fetcher: Downloads a remote resource.
*/
package ports
