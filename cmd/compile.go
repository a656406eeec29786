package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"github.com/pable/go-bandy-metrics/internal/aggregator"
	"github.com/pable/go-bandy-metrics/internal/log"
	"github.com/pable/go-bandy-metrics/internal/model"
	"github.com/pable/go-bandy-metrics/internal/parser"
	"github.com/pable/go-bandy-metrics/internal/report"
)

var errNoFocus = errors.New("a focus team is required (--focus or focus in config)")

var compileSave bool

var compileCmd = &cobra.Command{
	Use:   "compile <dir>",
	Short: "Compile a season report from every log in a directory",
	Long: `Parse every *.csv log in a directory, rename each opponent to "opponent"
and merge everything into one report for the focus team. Each log counts as
one game in the possession outcome table.`,
	Args: cobra.ExactArgs(1),
	RunE: runCompile,
}

func init() {
	compileCmd.Flags().String("focus", "", "team the report is about")
	compileCmd.Flags().Float64("barrier", aggregator.DefaultBarrier, "possession share that counts as dominating")
	compileCmd.Flags().BoolVar(&compileSave, "save", false, "store the compiled statistics")
	bindFlag("focus", compileCmd.Flags().Lookup("focus"))
	bindFlag("barrier", compileCmd.Flags().Lookup("barrier"))
}

func runCompile(cmd *cobra.Command, args []string) error {
	focus := model.TeamID(cfg.Focus)
	if focus == model.NoTeam {
		return errNoFocus
	}

	paths, err := filepath.Glob(filepath.Join(args[0], "*.csv"))
	if err != nil {
		return fmt.Errorf("list logs: %w", err)
	}
	if len(paths) == 0 {
		fmt.Fprintf(os.Stderr, "No *.csv logs in %s\n", args[0])
		return nil
	}
	sort.Strings(paths)

	var (
		games []*aggregator.Bundle
		parts []model.MatchSummary
	)
	for _, path := range paths {
		raw, stats, err := analyzeLog(path, parser.Options{})
		if err != nil {
			return err
		}
		if !raw.Teams.Has(focus) {
			slog.Warn("skipping log without focus team",
				slog.String("source", raw.Source),
				slog.String("teams", raw.Teams.String()))
			continue
		}
		b, err := stats.Bundle().Relabel(focus)
		if err != nil {
			return err
		}
		games = append(games, b)
		parts = append(parts, summarize(raw, stats))
	}

	season, err := aggregator.Compile(games...)
	if err != nil {
		return fmt.Errorf("compile %s: %w", args[0], err)
	}
	outcomes, err := aggregator.PossessionOutcomes(games, focus, cfg.Barrier)
	if err != nil {
		return err
	}

	summary := mergedSummary(season, parts)
	if compileSave {
		db, err := openStore()
		if err != nil {
			return err
		}
		defer log.Closer(db)
		if err := saveBundle(db, &summary, season); err != nil {
			return err
		}
	}
	report.PrintMatchSummary(os.Stdout, summary)
	report.PrintBundle(os.Stdout, season, focus)
	report.PrintOutcomes(os.Stdout, outcomes, focus, cfg.Barrier)
	return nil
}
