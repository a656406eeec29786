package aggregator

import (
	"sort"

	"github.com/pable/go-bandy-metrics/internal/model"
)

// Shape is the value type carried by a category.
type Shape int

const (
	ShapeCount Shape = iota + 1
	ShapeDuration
	ShapeLabels
)

// Category names one statistic in a Bundle.
type Category int

const (
	CategoryScore Category = iota + 1
	CategoryDuels
	CategoryPossession
	CategoryShotTypes
	CategoryShotOrigins
	CategoryShotsOnGoal
	CategoryScrimmages
	CategoryInterceptions
	CategoryLostBalls
)

// Categories lists every category in report order.
var Categories = []Category{
	CategoryScore,
	CategoryShotsOnGoal,
	CategoryPossession,
	CategoryDuels,
	CategoryScrimmages,
	CategoryInterceptions,
	CategoryLostBalls,
	CategoryShotTypes,
	CategoryShotOrigins,
}

var categoryKeys = map[Category]string{
	CategoryScore:         "score",
	CategoryDuels:         "duels",
	CategoryPossession:    "possession",
	CategoryShotTypes:     "shot types",
	CategoryShotOrigins:   "shot origins",
	CategoryShotsOnGoal:   "shots on goal",
	CategoryScrimmages:    "scrimmages",
	CategoryInterceptions: "interceptions",
	CategoryLostBalls:     "lost balls",
}

// String returns the stable key used in storage and reports.
func (c Category) String() string {
	if k, ok := categoryKeys[c]; ok {
		return k
	}
	return "unknown"
}

// Shape returns the fixed value shape of c.
func (c Category) Shape() Shape {
	switch c {
	case CategoryPossession:
		return ShapeDuration
	case CategoryShotTypes, CategoryShotOrigins:
		return ShapeLabels
	default:
		return ShapeCount
	}
}

// ParseCategory is the inverse of Category.String.
func ParseCategory(key string) (Category, bool) {
	for c, k := range categoryKeys {
		if k == key {
			return c, true
		}
	}
	return 0, false
}

// TeamCounts is a per-team count.
type TeamCounts map[model.TeamID]int

// TeamDurations is a per-team amount of match time.
type TeamDurations map[model.TeamID]model.Clock

// TeamLabels is a per-team count keyed by a label such as a shot type.
type TeamLabels map[model.TeamID]map[string]int

// Total sums the counts of one team across labels.
func (tl TeamLabels) Total(team model.TeamID) int {
	var n int
	for _, v := range tl[team] {
		n += v
	}
	return n
}

// Sorted returns a team's labels ordered by count desc, then label.
func (tl TeamLabels) Sorted(team model.TeamID) []string {
	labels := make([]string, 0, len(tl[team]))
	for l := range tl[team] {
		labels = append(labels, l)
	}
	sort.Slice(labels, func(i, j int) bool {
		a, b := tl[team][labels[i]], tl[team][labels[j]]
		if a != b {
			return a > b
		}
		return labels[i] < labels[j]
	})
	return labels
}

func (tc TeamCounts) clone() TeamCounts {
	out := make(TeamCounts, len(tc))
	for k, v := range tc {
		out[k] = v
	}
	return out
}

func (td TeamDurations) clone() TeamDurations {
	out := make(TeamDurations, len(td))
	for k, v := range td {
		out[k] = v
	}
	return out
}

func (tl TeamLabels) clone() TeamLabels {
	out := make(TeamLabels, len(tl))
	for team, labels := range tl {
		m := make(map[string]int, len(labels))
		for l, v := range labels {
			m[l] = v
		}
		out[team] = m
	}
	return out
}
