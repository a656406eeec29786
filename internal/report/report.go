package report

import (
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/pable/go-bandy-metrics/internal/aggregator"
	"github.com/pable/go-bandy-metrics/internal/model"
	"github.com/pable/go-bandy-metrics/internal/possession"
)

func newTable(w io.Writer) *tablewriter.Table {
	return tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignRight},
		},
		Header: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignCenter},
		},
	}))
}

// PrintMatchSummary prints a one-line summary header for the match.
func PrintMatchSummary(w io.Writer, s model.MatchSummary) {
	fmt.Fprintf(w, "\n%s  |  Date: %s  |  %s %d - %d %s  |  Events: %d  |  Faults: %d  |  Hash: %s\n\n",
		s.Source, s.MatchDate, s.Home, s.HomeScore, s.AwayScore, s.Away, s.Events, s.Faults, s.ShortHash())
}

// PrintMatchList prints stored matches, newest first.
func PrintMatchList(w io.Writer, matches []model.MatchSummary) {
	table := newTable(w)
	table.Header("HASH", "KIND", "DATE", "HOME", "AWAY", "SCORE", "EVENTS", "FAULTS", "SOURCE")
	for _, m := range matches {
		table.Append(
			m.ShortHash(),
			m.Kind,
			m.MatchDate,
			m.Home.String(),
			m.Away.String(),
			fmt.Sprintf("%d-%d", m.HomeScore, m.AwayScore),
			strconv.Itoa(m.Events),
			strconv.Itoa(m.Faults),
			m.Source,
		)
	}
	table.Render()
}

// teamHeader marks the focus team with ">".
func teamHeader(t, focus model.TeamID) string {
	if focus != model.NoTeam && t == focus {
		return "> " + t.String()
	}
	return t.String()
}

// PrintOverview prints every count and duration category side by side with
// each team's share. Categories missing from the bundle are skipped.
func PrintOverview(w io.Writer, b *aggregator.Bundle, focus model.TeamID) {
	home, away := b.Teams.Home, b.Teams.Away

	table := newTable(w)
	table.Header("STAT", teamHeader(home, focus), teamHeader(away, focus), home.String()+" %", away.String()+" %")

	for _, c := range b.Categories() {
		switch c.Shape() {
		case aggregator.ShapeCount:
			tc, _ := b.Counts(c)
			table.Append(
				c.String(),
				strconv.Itoa(tc[home]),
				strconv.Itoa(tc[away]),
				pct(b.CountShare(c, home)),
				pct(b.CountShare(c, away)),
			)
		case aggregator.ShapeDuration:
			td, _ := b.Durations(c)
			table.Append(
				c.String(),
				td[home].String(),
				td[away].String(),
				pct(b.PossessionShare(home)),
				pct(b.PossessionShare(away)),
			)
		}
	}
	if b.Has(aggregator.CategoryScore) && b.Has(aggregator.CategoryShotsOnGoal) {
		table.Append("conversion", "", "", pct(b.ConversionRate(home)), pct(b.ConversionRate(away)))
	}
	table.Render()
}

// PrintLabelTable prints a label category with counts and each label's share
// of the team's total.
func PrintLabelTable(w io.Writer, b *aggregator.Bundle, c aggregator.Category) {
	tl, ok := b.Labels(c)
	if !ok {
		return
	}
	home, away := b.Teams.Home, b.Teams.Away

	fmt.Fprintf(w, "\n%s\n", c)
	table := newTable(w)
	table.Header("LABEL", home.String(), "%", away.String(), "%")
	for _, label := range labelOrder(c, tl, home, away) {
		table.Append(
			label,
			strconv.Itoa(tl[home][label]),
			pct(b.LabelShare(c, home, label)),
			strconv.Itoa(tl[away][label]),
			pct(b.LabelShare(c, away, label)),
		)
	}
	table.Append("total", strconv.Itoa(tl.Total(home)), "", strconv.Itoa(tl.Total(away)), "")
	table.Render()
}

// labelOrder lists the labels either team used. Shot types follow the fixed
// vocabulary; other categories are ordered by the home team's counts first.
func labelOrder(c aggregator.Category, tl aggregator.TeamLabels, home, away model.TeamID) []string {
	var out []string
	seen := make(map[string]bool)
	add := func(l string) {
		if !seen[l] && (tl[home][l] > 0 || tl[away][l] > 0) {
			seen[l] = true
			out = append(out, l)
		}
	}
	if c == aggregator.CategoryShotTypes {
		for _, l := range model.ShotTypes {
			add(l)
		}
	}
	for _, l := range tl.Sorted(home) {
		add(l)
	}
	for _, l := range tl.Sorted(away) {
		add(l)
	}
	return out
}

// PrintGoals prints the goal log.
func PrintGoals(w io.Writer, goals []aggregator.Goal) {
	if len(goals) == 0 {
		return
	}
	fmt.Fprintln(w, "\ngoals")
	table := newTable(w)
	table.Header("#", "TIME", "TEAM", "ORIGIN", "SHOT TYPE", "ATTACK", "SOURCE")
	for i, g := range goals {
		table.Append(
			strconv.Itoa(i+1),
			g.At.String(),
			g.Team.String(),
			dash(g.Origin),
			dash(g.ShotType),
			g.AttackTime.String(),
			g.Source,
		)
	}
	table.Render()
}

type attackRow struct {
	team   model.TeamID
	origin string
	shots  int
	goals  int
	total  model.Clock
}

// attackRows groups shots by team and origin, home team first.
func attackRows(shots []aggregator.Shot, teams model.Teams) []attackRow {
	idx := make(map[model.TeamID]map[string]*attackRow)
	var rows []*attackRow
	for _, s := range shots {
		if idx[s.Team] == nil {
			idx[s.Team] = make(map[string]*attackRow)
		}
		r, ok := idx[s.Team][s.Origin]
		if !ok {
			r = &attackRow{team: s.Team, origin: s.Origin}
			idx[s.Team][s.Origin] = r
			rows = append(rows, r)
		}
		r.shots++
		r.total += s.AttackTime
		if s.Goal {
			r.goals++
		}
	}
	sort.Slice(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.team != b.team {
			return a.team == teams.Home
		}
		if a.shots != b.shots {
			return a.shots > b.shots
		}
		return a.origin < b.origin
	})
	out := make([]attackRow, len(rows))
	for i, r := range rows {
		out[i] = *r
	}
	return out
}

// PrintAttacks prints shots per team and attack origin with the mean time
// from winning the ball to the shot.
func PrintAttacks(w io.Writer, shots []aggregator.Shot, teams model.Teams) {
	if len(shots) == 0 {
		return
	}
	fmt.Fprintln(w, "\nattacks")
	table := newTable(w)
	table.Header("TEAM", "ORIGIN", "SHOTS", "GOALS", "AVG ATTACK")
	for _, r := range attackRows(shots, teams) {
		table.Append(
			r.team.String(),
			r.origin,
			strconv.Itoa(r.shots),
			strconv.Itoa(r.goals),
			(r.total / model.Clock(r.shots)).String(),
		)
	}
	table.Render()
}

// PrintTimeline prints the possession intervals followed by totals.
func PrintTimeline(w io.Writer, tl possession.Timeline, teams model.Teams) {
	table := newTable(w)
	table.Header("#", "HOLDER", "START", "END", "LENGTH")
	for i, iv := range tl.Intervals() {
		table.Append(
			strconv.Itoa(i+1),
			iv.Holder.String(),
			iv.Start.String(),
			iv.End.String(),
			iv.Length().String(),
		)
	}
	table.Render()

	d := tl.Durations(teams)
	fmt.Fprintf(w, "\n%s %s  |  %s %s  |  dead %s  |  span %s\n",
		teams.Home, d[teams.Home], teams.Away, d[teams.Away], tl.DeadTime(), tl.Span())
	PrintFaults(w, tl.Faults)
}

// PrintFaults lists log rows the timeline could not interpret.
func PrintFaults(w io.Writer, faults []possession.Fault) {
	if len(faults) == 0 {
		return
	}
	fmt.Fprintf(w, "\n%d uninterpreted rows:\n", len(faults))
	for _, f := range faults {
		fmt.Fprintf(w, "  * %s\n", f)
	}
}

// PrintOutcomes prints the focus team's record per possession bucket.
func PrintOutcomes(w io.Writer, out aggregator.Outcomes, focus model.TeamID, barrier float64) {
	fmt.Fprintf(w, "\n%s results by possession (barrier %.0f%%)\n", focus, barrier*100)
	table := newTable(w)
	table.Header("BUCKET", "GAMES", "W", "D", "L", "WIN%")
	for _, bucket := range aggregator.Buckets {
		r := out[bucket]
		winPct := "-"
		if r.Games > 0 {
			winPct = fmt.Sprintf("%.0f%%", float64(r.Wins)/float64(r.Games)*100)
		}
		table.Append(
			bucket.String(),
			strconv.Itoa(r.Games),
			strconv.Itoa(r.Wins),
			strconv.Itoa(r.Draws),
			strconv.Itoa(r.Losses),
			winPct,
		)
	}
	table.Render()
}

// PrintBundle prints the full report for one bundle.
func PrintBundle(w io.Writer, b *aggregator.Bundle, focus model.TeamID) {
	PrintOverview(w, b, focus)
	PrintLabelTable(w, b, aggregator.CategoryShotTypes)
	PrintLabelTable(w, b, aggregator.CategoryShotOrigins)
	PrintGoals(w, b.Goals)
}

func pct(v float64) string {
	return fmt.Sprintf("%.0f%%", v)
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
