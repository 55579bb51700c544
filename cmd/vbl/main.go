// Package main is the entry point for the vbl binary viewer.
package main

import (
	"os"

	"github.com/linuxCowboy/vbl/internal/cli"
	"github.com/linuxCowboy/vbl/internal/logging"
)

// Build-time variables set by GoReleaser via ldflags.
//
//nolint:gochecknoglobals // Version variables must be package-level for ldflags injection
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	info := cli.BuildInfo{
		Version: version,
		Commit:  commit,
		Date:    date,
	}

	rootCmd := cli.NewRootCommand(info)

	if err := rootCmd.Execute(); err != nil {
		code := cli.ExitCodeFromError(err)
		// A bad argument count already printed the usage text.
		if code != cli.ExitSuccess {
			logger := logging.Default()
			logger.Error("command failed", logging.FieldError, err)
		}
		return code
	}

	return cli.ExitSuccess
}
