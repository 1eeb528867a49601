/*
Package main is the entry point of the minjust-bot CLI.

minjust-bot loads the federal list of extremist materials from its CSV
export and answers searches over Telegram and a JSON HTTP API.

Usage:

	minjust-bot [command]

Available Commands:

	serve       Load the export and run the Telegram bot and/or HTTP API
	check       Load the export and print ingestion statistics
	search      Load the export and print one page of results

Examples:

	# Run everything configured in .env
	minjust-bot serve

	# Validate a fresh export before deploying it
	minjust-bot check --source exportfsm.csv --failures 20
*/
package main

import (
	"fmt"
	"os"

	"github.com/kote12ab-cloud/minjust-searh-base/internal/cli"
)

// Version information (set via ldflags during build)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	root := cli.NewRootCmd(version, fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date))
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
