package main

import (
	"context"
	"os"

	"github.com/aretw0/mlpipe/internal/cli"
	"github.com/joho/godotenv"
)

var (
	// Set by LDFLAGS
	version = "dev"
	commit  = "none"
)

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	build := cli.BuildInfo{Version: version, Commit: commit}
	os.Exit(cli.Execute(context.Background(), build, os.Args[1:], os.Stdout, os.Stderr))
}
