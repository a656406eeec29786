package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/pable/go-bandy-metrics/internal/aggregator"
	"github.com/pable/go-bandy-metrics/internal/log"
	"github.com/pable/go-bandy-metrics/internal/model"
	"github.com/pable/go-bandy-metrics/internal/report"
	"github.com/pable/go-bandy-metrics/internal/storage"
)

var (
	cPrompt   = color.New(color.FgCyan, color.Bold)
	cMuted    = color.New(color.Faint)
	cError    = color.New(color.FgRed, color.Bold)
	cWarn     = color.New(color.FgYellow)
	cHeader   = color.New(color.FgCyan, color.Bold)
	cCmd      = color.New(color.FgYellow, color.Bold)
	cGreeting = color.New(color.Bold)
)

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Start an interactive REPL session",
	Long:  "Open a persistent session against the database. Type 'help' for available commands.",
	Args:  cobra.NoArgs,
	RunE:  runShell,
}

func runShell(_ *cobra.Command, _ []string) error {
	db, err := openStore()
	if err != nil {
		return err
	}
	defer log.Closer(db)

	cGreeting.Println("bandymetrics shell")
	cMuted.Println("type 'help' or 'exit'")
	fmt.Println()

	scanner := bufio.NewScanner(os.Stdin)
	for {
		cPrompt.Print("bandymetrics")
		cMuted.Print("> ")
		if !scanner.Scan() {
			fmt.Println()
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		tokens := strings.Fields(line)
		cmd, args := tokens[0], tokens[1:]

		switch cmd {
		case "exit", "quit":
			return nil
		case "help":
			shellHelp()
		case "list":
			shellList(db)
		case "show":
			if len(args) != 1 {
				cError.Fprintln(os.Stderr, "usage: show <hash-prefix>")
				continue
			}
			shellShow(db, args[0])
		case "timeline":
			if len(args) != 1 {
				cError.Fprintln(os.Stderr, "usage: timeline <hash-prefix>")
				continue
			}
			shellTimeline(db, args[0])
		case "merge":
			if len(args) < 2 {
				cError.Fprintln(os.Stderr, "usage: merge <hash-prefix> <hash-prefix>...")
				continue
			}
			shellMerge(db, args)
		case "focus":
			if len(args) == 0 {
				cMuted.Printf("focus: %s\n", model.TeamID(cfg.Focus))
				continue
			}
			cfg.Focus = strings.ToLower(args[0])
		default:
			cWarn.Fprintf(os.Stderr, "unknown command %q, type 'help'\n", cmd)
		}
	}
	return nil
}

func shellHelp() {
	fmt.Println()
	type entry struct{ cmd, desc string }
	rows := []entry{
		{"list", "list all stored matches"},
		{"show <hash-prefix>", "show a match's statistics"},
		{"timeline <hash-prefix>", "show a match's possession timeline"},
		{"merge <hash-prefix> <hash-prefix>...", "merge stored logs of the same teams"},
		{"focus [team]", "show or set the highlighted team"},
		{"help", "show this message"},
		{"exit / quit", "close the session"},
	}
	for _, r := range rows {
		fmt.Print("  ")
		cCmd.Printf("%-38s", r.cmd)
		fmt.Println(r.desc)
	}
	fmt.Println()
}

func shellList(db *storage.DB) {
	matches, err := db.ListMatches()
	if err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	if len(matches) == 0 {
		cMuted.Println("No matches stored yet.")
		return
	}
	report.PrintMatchList(os.Stdout, matches)
}

func shellFind(db *storage.DB, prefix string) *model.MatchSummary {
	match, err := db.GetMatchByPrefix(prefix)
	if err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
		return nil
	}
	if match == nil {
		cWarn.Fprintf(os.Stderr, "no match found with prefix %q\n", prefix)
	}
	return match
}

func shellShow(db *storage.DB, prefix string) {
	match := shellFind(db, prefix)
	if match == nil {
		return
	}
	if err := showByHash(db, match.Hash); err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
	}
}

func shellTimeline(db *storage.DB, prefix string) {
	match := shellFind(db, prefix)
	if match == nil {
		return
	}
	tl, err := db.GetTimeline(match.Hash)
	if err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	cHeader.Fprintf(os.Stdout, "--- %s: %s ---\n", match.ShortHash(), match.Teams())
	report.PrintTimeline(os.Stdout, tl, match.Teams())
}

func shellMerge(db *storage.DB, prefixes []string) {
	var (
		bundles []*aggregator.Bundle
		parts   []model.MatchSummary
	)
	for _, prefix := range prefixes {
		match := shellFind(db, prefix)
		if match == nil {
			return
		}
		b, err := db.GetBundle(match.Hash)
		if err != nil {
			cError.Fprintf(os.Stderr, "error: %v\n", err)
			return
		}
		bundles = append(bundles, b)
		parts = append(parts, *match)
	}
	merged, err := aggregator.Compile(bundles...)
	if err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	report.PrintMatchSummary(os.Stdout, mergedSummary(merged, parts))
	report.PrintBundle(os.Stdout, merged, model.TeamID(cfg.Focus))
}
