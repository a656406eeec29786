package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/pable/go-bandy-metrics/internal/aggregator"
	"github.com/pable/go-bandy-metrics/internal/log"
	"github.com/pable/go-bandy-metrics/internal/model"
	"github.com/pable/go-bandy-metrics/internal/parser"
	"github.com/pable/go-bandy-metrics/internal/report"
	"github.com/pable/go-bandy-metrics/internal/storage"
)

var errStrictFaults = errors.New("event log has uninterpreted rows")

var (
	parseTeams string
	parseDate  string
	parseForce bool
)

var parseCmd = &cobra.Command{
	Use:   "parse <log.csv>...",
	Short: "Parse match event logs and store their statistics",
	Long: `Parse one or more CSV event logs (columns team,event,subevent,time),
rebuild the possession timeline, compute every statistic and store the result.
Each file is stored on its own; use 'merge' to combine halves.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runParse,
}

func init() {
	parseCmd.Flags().StringVar(&parseTeams, "teams", "", "home,away team ids (default: first two teams in the log)")
	parseCmd.Flags().StringVar(&parseDate, "date", "", "match date YYYY-MM-DD (default: file modification date)")
	parseCmd.Flags().BoolVarP(&parseForce, "force", "f", false, "re-parse logs that are already stored")
	parseCmd.Flags().Bool("strict", false, "fail when the log has rows that cannot be interpreted")
	bindFlag("strict", parseCmd.Flags().Lookup("strict"))
}

func runParse(cmd *cobra.Command, args []string) error {
	opts, err := parseOptions(parseTeams, parseDate)
	if err != nil {
		return err
	}

	db, err := openStore()
	if err != nil {
		return err
	}
	defer log.Closer(db)

	for _, path := range args {
		if err := parseAndStore(db, path, opts); err != nil {
			return err
		}
	}
	return nil
}

func parseOptions(teams, date string) (parser.Options, error) {
	opts := parser.Options{MatchDate: date}
	if teams == "" {
		return opts, nil
	}
	parts := strings.Split(teams, ",")
	if len(parts) != 2 {
		return opts, fmt.Errorf("--teams wants two comma separated ids, got %q", teams)
	}
	pair, err := model.NewTeams(model.TeamID(strings.TrimSpace(parts[0])), model.TeamID(strings.TrimSpace(parts[1])))
	if err != nil {
		return opts, err
	}
	opts.Teams = pair
	return opts, nil
}

func parseAndStore(db *storage.DB, path string, opts parser.Options) error {
	fmt.Fprintf(os.Stdout, "Parsing %s...\n", path)
	raw, stats, err := analyzeLog(path, opts)
	if err != nil {
		return err
	}

	exists, err := db.MatchExists(raw.Hash)
	if err != nil {
		return fmt.Errorf("check match: %w", err)
	}
	if exists && !parseForce {
		fmt.Fprintf(os.Stdout, "Log %s already stored, showing cached results.\n", raw.Hash[:12])
		return showByHash(db, raw.Hash)
	}

	bundle := stats.Bundle()
	summary := summarize(raw, stats)
	if err := db.InsertMatch(summary); err != nil {
		return fmt.Errorf("insert match: %w", err)
	}
	if err := db.InsertBundle(raw.Hash, bundle); err != nil {
		return fmt.Errorf("insert bundle: %w", err)
	}
	if err := db.InsertTimeline(raw.Hash, stats.Timeline()); err != nil {
		return fmt.Errorf("insert timeline: %w", err)
	}
	slog.Info("stored match",
		slog.String("hash", summary.ShortHash()),
		slog.String("teams", raw.Teams.String()))

	report.PrintMatchSummary(os.Stdout, summary)
	report.PrintBundle(os.Stdout, bundle, model.TeamID(cfg.Focus))
	report.PrintAttacks(os.Stdout, stats.Shots(), raw.Teams)
	report.PrintFaults(os.Stdout, stats.Faults())
	return nil
}

// analyzeLog parses one log file and reports rows the timeline could not
// interpret. With strict set any such row fails the run.
func analyzeLog(path string, opts parser.Options) (*model.RawMatch, *aggregator.Stats, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, nil, fmt.Errorf("stat log: %w", err)
	}
	raw, err := parser.ParseFile(path, opts)
	if err != nil {
		return nil, nil, fmt.Errorf("parse log: %w", err)
	}
	slog.Info("parsed event log",
		slog.String("source", raw.Source),
		slog.String("size", humanize.Bytes(uint64(info.Size()))),
		slog.String("events", humanize.Comma(int64(len(raw.Events)))),
		slog.String("teams", raw.Teams.String()))

	stats, err := aggregator.New(raw)
	if err != nil {
		return nil, nil, fmt.Errorf("aggregate: %w", err)
	}
	tl := stats.Timeline()
	faults := tl.Faults
	slog.Debug("rebuilt possession timeline",
		slog.String("source", raw.Source),
		slog.Int("markers", tl.Len()),
		slog.Int("faults", len(faults)))
	for _, f := range faults {
		slog.Warn("uninterpreted event",
			slog.String("source", raw.Source),
			slog.Int("index", f.Index),
			slog.String("tag", f.Tag),
			slog.String("reason", f.Reason))
	}
	if cfg.Strict && len(faults) > 0 {
		return nil, nil, fmt.Errorf("%s: %w (%d)", raw.Source, errStrictFaults, len(faults))
	}
	return raw, stats, nil
}

func summarize(raw *model.RawMatch, stats *aggregator.Stats) model.MatchSummary {
	score := stats.Score()
	return model.MatchSummary{
		Hash:      raw.Hash,
		Source:    raw.Source,
		Kind:      model.KindGame,
		MatchDate: raw.MatchDate,
		Home:      raw.Teams.Home,
		Away:      raw.Teams.Away,
		Events:    len(raw.Events),
		Faults:    len(stats.Faults()),
		HomeScore: score[raw.Teams.Home],
		AwayScore: score[raw.Teams.Away],
	}
}

func showByHash(db *storage.DB, hash string) error {
	match, err := db.GetMatchByPrefix(hash)
	if err != nil {
		return fmt.Errorf("query match: %w", err)
	}
	if match == nil {
		return fmt.Errorf("match not found: %s", hash)
	}
	bundle, err := db.GetBundle(match.Hash)
	if err != nil {
		return fmt.Errorf("get bundle: %w", err)
	}
	report.PrintMatchSummary(os.Stdout, *match)
	report.PrintBundle(os.Stdout, bundle, model.TeamID(cfg.Focus))
	return nil
}
