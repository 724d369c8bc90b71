// Package main is the entry point for the InternQuest API.
//
//	@title			InternQuest API
//	@version		1.0
//	@description	Accounts, sessions and internship listings for InternQuest.
//	@BasePath		/
package main

import (
	"fmt"
	"os"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	cmd := NewRootCmd()
	cmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date)

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
