package cmd

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pable/go-bandy-metrics/internal/log"
	"github.com/pable/go-bandy-metrics/internal/model"
	"github.com/pable/go-bandy-metrics/internal/report"
)

var trendCmd = &cobra.Command{
	Use:   "trend <team>",
	Short: "Chronological per-log statistics for a team",
	Args:  cobra.ExactArgs(1),
	RunE:  runTrend,
}

func runTrend(cmd *cobra.Command, args []string) error {
	team := model.TeamID(strings.ToLower(args[0]))

	db, err := openStore()
	if err != nil {
		return err
	}
	defer log.Closer(db)

	matches, err := db.ListMatches()
	if err != nil {
		return fmt.Errorf("list matches: %w", err)
	}

	var rows []report.TrendRow
	for _, m := range matches {
		if m.Kind != model.KindGame || !m.Teams().Has(team) {
			continue
		}
		b, err := db.GetBundle(m.Hash)
		if err != nil {
			return fmt.Errorf("get bundle %s: %w", m.ShortHash(), err)
		}
		rows = append(rows, report.TrendRow{Match: m, Bundle: b})
	}
	if len(rows) == 0 {
		fmt.Println("no matches found")
		return nil
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Match.MatchDate < rows[j].Match.MatchDate })

	report.PrintTrendTable(os.Stdout, team, rows)
	return nil
}
