package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/pable/go-bandy-metrics/internal/aggregator"
	"github.com/pable/go-bandy-metrics/internal/model"
)

// TrendRow is one stored log in a team's trend.
type TrendRow struct {
	Match  model.MatchSummary
	Bundle *aggregator.Bundle
}

// PrintTrendTable prints one row per log, oldest first, seen from team.
func PrintTrendTable(w io.Writer, team model.TeamID, rows []TrendRow) {
	table := newTable(w)
	table.Header("DATE", "OPPONENT", "SCORE", "POSS%", "SHOTS", "CONV%", "DUELS", "LOST", "SOURCE")
	for _, r := range rows {
		b := r.Bundle
		opp := b.Teams.Other(team)
		score, _ := b.Counts(aggregator.CategoryScore)
		shots, _ := b.Counts(aggregator.CategoryShotsOnGoal)
		duels, _ := b.Counts(aggregator.CategoryDuels)
		lost, _ := b.Counts(aggregator.CategoryLostBalls)
		table.Append(
			r.Match.MatchDate,
			opp.String(),
			fmt.Sprintf("%d-%d", score[team], score[opp]),
			pct(b.PossessionShare(team)),
			strconv.Itoa(shots[team]),
			pct(b.ConversionRate(team)),
			fmt.Sprintf("%d-%d", duels[team], duels[opp]),
			strconv.Itoa(lost[team]),
			r.Match.Source,
		)
	}
	table.Render()
}
