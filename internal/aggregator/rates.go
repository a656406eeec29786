package aggregator

import "github.com/pable/go-bandy-metrics/internal/model"

// percent returns num/den*100, or 0 when den is zero.
func percent(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den * 100
}

// PossessionShare returns the percentage of held time that belongs to team.
func (b *Bundle) PossessionShare(team model.TeamID) float64 {
	d, ok := b.durations[CategoryPossession]
	if !ok {
		return 0
	}
	var total int64
	for _, t := range b.Teams.Slice() {
		total += d[t].Seconds()
	}
	return percent(float64(d[team].Seconds()), float64(total))
}

// ShotTypeShare returns the percentage of a team's annotated shots that
// carry label.
func (b *Bundle) ShotTypeShare(team model.TeamID, label string) float64 {
	return b.LabelShare(CategoryShotTypes, team, label)
}

// LabelShare returns the percentage of a team's entries in c that carry label.
func (b *Bundle) LabelShare(c Category, team model.TeamID, label string) float64 {
	tl, ok := b.labels[c]
	if !ok {
		return 0
	}
	return percent(float64(tl[team][label]), float64(tl.Total(team)))
}

// ConversionRate returns goals per shot on goal for team, as a percentage.
func (b *Bundle) ConversionRate(team model.TeamID) float64 {
	goals, ok := b.counts[CategoryScore]
	if !ok {
		return 0
	}
	shots, ok := b.counts[CategoryShotsOnGoal]
	if !ok {
		return 0
	}
	return percent(float64(goals[team]), float64(shots[team]))
}

// CountShare returns team's percentage of the combined count in c.
func (b *Bundle) CountShare(c Category, team model.TeamID) float64 {
	tc, ok := b.counts[c]
	if !ok {
		return 0
	}
	var total int
	for _, t := range b.Teams.Slice() {
		total += tc[t]
	}
	return percent(float64(tc[team]), float64(total))
}
