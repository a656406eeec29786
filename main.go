// Package main is the entry point for the bandymetrics CLI tool, which parses
// tagged bandy match event logs and computes possession and team statistics.
package main

import "github.com/pable/go-bandy-metrics/cmd"

func main() {
	cmd.Execute()
}
