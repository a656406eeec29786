package cmd

import (
	"fmt"
	"os"
	"sort"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/spf13/cobra"

	"github.com/pable/go-bandy-metrics/internal/log"
	"github.com/pable/go-bandy-metrics/internal/model"
)

// summaryCmd is the cobra command for displaying a high-level database overview.
var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show a high-level overview of the database",
	Long: `Display aggregate figures about everything stored in the database:
log and merged report counts, date range, faults and a per-team record.`,
	Args: cobra.NoArgs,
	RunE: runSummary,
}

type teamRecord struct {
	team         model.TeamID
	logs         int
	goalsFor     int
	goalsAgainst int
}

func runSummary(cmd *cobra.Command, args []string) error {
	db, err := openStore()
	if err != nil {
		return err
	}
	defer log.Closer(db)

	matches, err := db.ListMatches()
	if err != nil {
		return fmt.Errorf("list matches: %w", err)
	}
	if len(matches) == 0 {
		fmt.Fprintln(os.Stdout, "No matches stored yet. Run 'bandymetrics parse <log.csv>' to add one.")
		return nil
	}

	var (
		logs, merged, events, faults int
		earliest, latest             string
		records                      = make(map[model.TeamID]*teamRecord)
	)
	record := func(t model.TeamID) *teamRecord {
		if records[t] == nil {
			records[t] = &teamRecord{team: t}
		}
		return records[t]
	}
	for _, m := range matches {
		if m.Kind == model.KindMerged {
			merged++
			continue
		}
		logs++
		events += m.Events
		faults += m.Faults
		if earliest == "" || m.MatchDate < earliest {
			earliest = m.MatchDate
		}
		if m.MatchDate > latest {
			latest = m.MatchDate
		}
		home, away := record(m.Home), record(m.Away)
		home.logs++
		away.logs++
		home.goalsFor += m.HomeScore
		home.goalsAgainst += m.AwayScore
		away.goalsFor += m.AwayScore
		away.goalsAgainst += m.HomeScore
	}

	fmt.Fprintf(os.Stdout, "\n=== Database Summary ===\n\n")
	fmt.Fprintf(os.Stdout, "  Logs stored     : %d\n", logs)
	fmt.Fprintf(os.Stdout, "  Merged reports  : %d\n", merged)
	fmt.Fprintf(os.Stdout, "  Date range      : %s -> %s\n", earliest, latest)
	fmt.Fprintf(os.Stdout, "  Events          : %d\n", events)
	fmt.Fprintf(os.Stdout, "  Uninterpreted   : %d\n", faults)

	if len(records) == 0 {
		return nil
	}
	teams := make([]*teamRecord, 0, len(records))
	for _, r := range records {
		teams = append(teams, r)
	}
	sort.Slice(teams, func(i, j int) bool {
		if teams[i].logs != teams[j].logs {
			return teams[i].logs > teams[j].logs
		}
		return teams[i].team < teams[j].team
	})

	fmt.Fprintf(os.Stdout, "\n--- Teams ---\n\n")
	tt := tablewriter.NewTable(os.Stdout, tablewriter.WithConfig(tablewriter.Config{
		Row:    tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignRight}},
		Header: tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignCenter}},
	}))
	tt.Header("TEAM", "LOGS", "GF", "GA", "DIFF")
	for _, r := range teams {
		tt.Append(
			r.team.String(),
			fmt.Sprintf("%d", r.logs),
			fmt.Sprintf("%d", r.goalsFor),
			fmt.Sprintf("%d", r.goalsAgainst),
			fmt.Sprintf("%+d", r.goalsFor-r.goalsAgainst),
		)
	}
	tt.Render()
	return nil
}
