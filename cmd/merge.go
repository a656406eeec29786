package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/pable/go-bandy-metrics/internal/aggregator"
	"github.com/pable/go-bandy-metrics/internal/log"
	"github.com/pable/go-bandy-metrics/internal/model"
	"github.com/pable/go-bandy-metrics/internal/report"
	"github.com/pable/go-bandy-metrics/internal/storage"
)

var mergeSave bool

var mergeCmd = &cobra.Command{
	Use:   "merge <hash-prefix> <hash-prefix>...",
	Short: "Merge stored statistics of logs covering the same two teams",
	Long: `Merge the statistics of two or more stored logs, typically the two halves
of one game. All logs must cover the same pair of teams.`,
	Args: cobra.MinimumNArgs(2),
	RunE: runMerge,
}

func init() {
	mergeCmd.Flags().BoolVar(&mergeSave, "save", false, "store the merged statistics as a new entry")
}

func runMerge(cmd *cobra.Command, args []string) error {
	db, err := openStore()
	if err != nil {
		return err
	}
	defer log.Closer(db)

	var (
		bundles []*aggregator.Bundle
		parts   []model.MatchSummary
	)
	for _, prefix := range args {
		match, err := db.GetMatchByPrefix(prefix)
		if err != nil {
			return fmt.Errorf("query match: %w", err)
		}
		if match == nil {
			return fmt.Errorf("no match found with hash prefix %q", prefix)
		}
		b, err := db.GetBundle(match.Hash)
		if err != nil {
			return fmt.Errorf("get bundle %s: %w", match.ShortHash(), err)
		}
		bundles = append(bundles, b)
		parts = append(parts, *match)
	}

	merged, err := aggregator.Compile(bundles...)
	if err != nil {
		return err
	}

	summary := mergedSummary(merged, parts)
	if mergeSave {
		if err := saveBundle(db, &summary, merged); err != nil {
			return err
		}
	}
	report.PrintMatchSummary(os.Stdout, summary)
	report.PrintBundle(os.Stdout, merged, model.TeamID(cfg.Focus))
	return nil
}

// mergedSummary describes a merged bundle. The date is the latest date of
// the parts.
func mergedSummary(b *aggregator.Bundle, parts []model.MatchSummary) model.MatchSummary {
	s := model.MatchSummary{
		Source: b.Source,
		Kind:   model.KindMerged,
		Home:   b.Teams.Home,
		Away:   b.Teams.Away,
	}
	for _, p := range parts {
		s.Events += p.Events
		s.Faults += p.Faults
		if p.MatchDate > s.MatchDate {
			s.MatchDate = p.MatchDate
		}
	}
	if score, ok := b.Counts(aggregator.CategoryScore); ok {
		s.HomeScore, s.AwayScore = score[s.Home], score[s.Away]
	}
	return s
}

// saveBundle stores a merged bundle under a fresh id and sets s.Hash.
func saveBundle(db *storage.DB, s *model.MatchSummary, b *aggregator.Bundle) error {
	s.Hash = uuid.NewString()
	if err := db.InsertMatch(*s); err != nil {
		return fmt.Errorf("insert match: %w", err)
	}
	if err := db.InsertBundle(s.Hash, b); err != nil {
		return fmt.Errorf("insert bundle: %w", err)
	}
	slog.Info("stored merged statistics", slog.String("id", s.Hash), slog.String("source", s.Source))
	return nil
}
