package cli_test

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"runtime"
	"sync/atomic"
	"testing"

	"github.com/aretw0/mlpipe/internal/cli"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var build = cli.BuildInfo{Version: "test", Commit: "abc123"}

func execute(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := cli.Execute(context.Background(), build, args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestExecute_Help(t *testing.T) {
	for _, flag := range []string{"-h", "--help"} {
		t.Run(flag, func(t *testing.T) {
			code, stdout, _ := execute(t, flag)
			assert.Equal(t, cli.ExitOK, code)
			assert.Contains(t, stdout, "--mlflow-uri")
			assert.Contains(t, stdout, "http://localhost:5555")
		})
	}
}

func TestExecute_Version(t *testing.T) {
	code, stdout, _ := execute(t, "--version")
	assert.Equal(t, cli.ExitOK, code)
	assert.Contains(t, stdout, "test (commit abc123)")
}

func TestExecute_UsageErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"Unknown Long Flag", []string{"--bogus"}, "unknown flag: --bogus"},
		{"Unknown Short Flag", []string{"-x"}, "unknown shorthand flag: 'x'"},
		{"Unknown Flag With Valid Flags", []string{"-m", "http://mlflow:5000", "--bogus"}, "unknown flag: --bogus"},
		{"Unknown Flag After Help", []string{"--help", "--bogus"}, "unknown flag: --bogus"},
		{"Positional Argument", []string{"train"}, `unexpected argument "train"`},
		{"Missing Flag Value", []string{"--mlflow-uri"}, "flag needs an argument"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _, stderr := execute(t, tt.args...)
			assert.Equal(t, cli.ExitUsage, code)
			assert.Contains(t, stderr, "Usage:")
			assert.Contains(t, stderr, tt.want)
		})
	}
}

const stagesYAML = `
requires: [sh]
stages:
  - name: clean
    command: sh
    args:
      - -c
      - |
        mkdir -p "$(dirname "$4")"
        cp "$2" "$4"
      - clean
  - name: featurize
    command: sh
    args:
      - -c
      - |
        mkdir -p "$(dirname "$4")" "$(dirname "$6")"
        cp "$2" "$4"
        echo preprocessor > "$6"
      - featurize
  - name: train
    command: sh
    args:
      - -c
      - |
        touch trainer.ran
        test -f "$2" || exit 4
        mkdir -p "$6/trained"
        echo "$8" > "$6/trained/house_price_model.pkl"
      - train
`

// project lays out a project root driven by shell stage scripts.
func project(t *testing.T, stages string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("stage scripts need a POSIX shell")
	}
	root := t.TempDir()
	write := func(rel, content string) {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	write("data/raw/house_data.csv", "price,sqft\n350000,1200\n")
	write("configs/model_config.yaml", "model:\n  name: house_price_model\n")
	write("stages.yaml", stages)
	return root
}

func trackingServer(t *testing.T, status int) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var hits atomic.Int32
	r := chi.NewRouter()
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(status)
	})
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv, &hits
}

func TestExecute_EndToEnd(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		root := project(t, stagesYAML)
		srv, hits := trackingServer(t, http.StatusOK)
		metricsFile := filepath.Join(t.TempDir(), "mlpipe.prom")

		code, _, stderr := execute(t, "--project-root", root, "-m", srv.URL, "--metrics-file", metricsFile)
		require.Equal(t, cli.ExitOK, code, stderr)

		assert.FileExists(t, filepath.Join(root, "data/processed/cleaned_house_data.csv"))
		assert.FileExists(t, filepath.Join(root, "data/processed/featured_house_data.csv"))
		assert.FileExists(t, filepath.Join(root, "models/trained/preprocessor.pkl"))

		model, err := os.ReadFile(filepath.Join(root, "models/trained/house_price_model.pkl"))
		require.NoError(t, err)
		assert.Equal(t, srv.URL+"\n", string(model), "trainer receives the tracking URI")

		assert.Equal(t, int32(1), hits.Load())
		assert.Contains(t, stderr, "pipeline complete")

		prom, err := os.ReadFile(metricsFile)
		require.NoError(t, err)
		assert.Contains(t, string(prom), "mlpipe_run_success 1")
		assert.Contains(t, string(prom), `mlpipe_stage_runs_total{result="success",stage="train"} 1`)
	})

	t.Run("Tracking Service Down", func(t *testing.T) {
		root := project(t, stagesYAML)
		srv, _ := trackingServer(t, http.StatusServiceUnavailable)

		code, _, stderr := execute(t, "--project-root", root, "--mlflow-uri", srv.URL)
		assert.Equal(t, cli.ExitFailure, code)
		assert.Contains(t, stderr, "service unreachable")
		assert.Contains(t, stderr, "mlflow server")

		assert.NoFileExists(t, filepath.Join(root, "trainer.ran"))
		assert.NoFileExists(t, filepath.Join(root, "models/trained/house_price_model.pkl"))
		assert.FileExists(t, filepath.Join(root, "data/processed/featured_house_data.csv"), "earlier artifacts are kept")
	})

	t.Run("Data Processor Fails", func(t *testing.T) {
		failing := stagesYAML + `
  - name: clean
    command: sh
    args: ["-c", "echo 'KeyError: price' >&2; exit 1"]
`
		root := project(t, failing)
		srv, hits := trackingServer(t, http.StatusOK)
		graphFile := filepath.Join(t.TempDir(), "run.mmd")

		code, _, stderr := execute(t, "--project-root", root, "-m", srv.URL, "--graph-file", graphFile)
		assert.Equal(t, cli.ExitFailure, code)
		assert.Contains(t, stderr, "stage clean exited with status 1")

		chart, err := os.ReadFile(graphFile)
		require.NoError(t, err)
		assert.Contains(t, string(chart), "class in_project_root failed;")
		assert.Contains(t, stderr, "KeyError: price")

		assert.NoFileExists(t, filepath.Join(root, "data/processed/featured_house_data.csv"))
		assert.NoFileExists(t, filepath.Join(root, "models/trained/house_price_model.pkl"))
		assert.Zero(t, hits.Load())
	})

	t.Run("Relative Stage Command", func(t *testing.T) {
		root := project(t, `
requires: [sh]
stages:
  - name: clean
    command: ./bin/stage.sh
  - name: featurize
    command: ./bin/stage.sh
  - name: train
    command: ./bin/stage.sh
`)
		script := `#!/bin/sh
# Writes every path that follows an output flag.
while [ $# -gt 0 ]; do
  case "$1" in
    --output|--preprocessor) mkdir -p "$(dirname "$2")"; echo ok > "$2" ;;
    --models-dir) mkdir -p "$2/trained"; echo ok > "$2/trained/house_price_model.pkl" ;;
  esac
  shift
done
`
		bin := filepath.Join(root, "bin")
		require.NoError(t, os.MkdirAll(bin, 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(bin, "stage.sh"), []byte(script), 0o755))
		srv, _ := trackingServer(t, http.StatusOK)

		// The test binary runs from the package directory, not from root.
		wd, err := os.Getwd()
		require.NoError(t, err)
		require.NotEqual(t, root, wd)

		code, _, stderr := execute(t, "--project-root", root, "-m", srv.URL)
		require.Equal(t, cli.ExitOK, code, stderr)
		assert.FileExists(t, filepath.Join(root, "models/trained/house_price_model.pkl"))
	})

	t.Run("Missing Project Root", func(t *testing.T) {
		srv, _ := trackingServer(t, http.StatusOK)
		stages := filepath.Join(project(t, stagesYAML), "stages.yaml")
		missing := filepath.Join(t.TempDir(), "nope")

		code, _, stderr := execute(t, "--project-root", missing, "--stages", stages, "-m", srv.URL)
		assert.Equal(t, cli.ExitFailure, code)
		assert.Contains(t, stderr, "project root not found")
	})

	t.Run("Invalid Stages File", func(t *testing.T) {
		root := project(t, "stages:\n  - name: deploy\n    command: sh\n")

		code, _, stderr := execute(t, "--project-root", root)
		assert.Equal(t, cli.ExitFailure, code)
		assert.Contains(t, stderr, "unknown stage")
		assert.Contains(t, stderr, "deploy")
	})
}

func TestExecute_EnvDefaults(t *testing.T) {
	root := project(t, stagesYAML)
	srv, hits := trackingServer(t, http.StatusOK)
	t.Setenv(cli.EnvProjectRoot, root)
	t.Setenv(cli.EnvTrackingURI, srv.URL)

	code, _, stderr := execute(t)
	require.Equal(t, cli.ExitOK, code, stderr)
	assert.Equal(t, int32(1), hits.Load())

	// Flags win over the environment, in either spelling.
	for _, flag := range []string{"--mlflow-uri", "--mlflow_uri"} {
		other, otherHits := trackingServer(t, http.StatusOK)
		code, _, stderr = execute(t, flag, other.URL)
		require.Equal(t, cli.ExitOK, code, stderr)
		assert.Equal(t, int32(1), otherHits.Load(), flag)
	}
	assert.Equal(t, int32(1), hits.Load())
}
