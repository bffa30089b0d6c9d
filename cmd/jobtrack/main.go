// Package main is the entry point for the jobtrack CLI.
// The CLI tracks job applications, the people involved and every interaction
// with them on a configurable storage backend.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"jobtracker/cmd/jobtrack/cmd"
)

func main() {
	// .env is optional
	_ = godotenv.Load()

	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(cmd.ExitCode(err))
	}
}
