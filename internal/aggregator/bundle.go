package aggregator

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pable/go-bandy-metrics/internal/model"
)

// Bundle is a finished set of statistics for one or more event logs. Only
// the categories that were set are present; a Bundle built by Stats.Bundle
// carries all of them.
type Bundle struct {
	Source string
	Teams  model.Teams
	Goals  []Goal

	counts    map[Category]TeamCounts
	durations map[Category]TeamDurations
	labels    map[Category]TeamLabels
}

// NewBundle returns an empty bundle for the given sides.
func NewBundle(source string, teams model.Teams) *Bundle {
	return &Bundle{
		Source:    source,
		Teams:     teams,
		counts:    make(map[Category]TeamCounts),
		durations: make(map[Category]TeamDurations),
		labels:    make(map[Category]TeamLabels),
	}
}

// Has reports whether c has been set.
func (b *Bundle) Has(c Category) bool {
	switch c.Shape() {
	case ShapeCount:
		_, ok := b.counts[c]
		return ok
	case ShapeDuration:
		_, ok := b.durations[c]
		return ok
	case ShapeLabels:
		_, ok := b.labels[c]
		return ok
	}
	return false
}

// Categories returns the categories present, in report order.
func (b *Bundle) Categories() []Category {
	var out []Category
	for _, c := range Categories {
		if b.Has(c) {
			out = append(out, c)
		}
	}
	return out
}

// SetCounts stores a count category. It panics if c is not count shaped.
func (b *Bundle) SetCounts(c Category, v TeamCounts) {
	mustShape(c, ShapeCount)
	b.counts[c] = v.clone()
}

// SetDurations stores a duration category. It panics if c is not duration shaped.
func (b *Bundle) SetDurations(c Category, v TeamDurations) {
	mustShape(c, ShapeDuration)
	b.durations[c] = v.clone()
}

// SetLabels stores a label category. It panics if c is not label shaped.
func (b *Bundle) SetLabels(c Category, v TeamLabels) {
	mustShape(c, ShapeLabels)
	b.labels[c] = v.clone()
}

func mustShape(c Category, s Shape) {
	if c.Shape() != s {
		panic(fmt.Sprintf("%v: %s", ErrShapeMismatch, c))
	}
}

// Counts returns a count category.
func (b *Bundle) Counts(c Category) (TeamCounts, bool) {
	v, ok := b.counts[c]
	return v, ok
}

// Durations returns a duration category.
func (b *Bundle) Durations(c Category) (TeamDurations, bool) {
	v, ok := b.durations[c]
	return v, ok
}

// Labels returns a label category.
func (b *Bundle) Labels(c Category) (TeamLabels, bool) {
	v, ok := b.labels[c]
	return v, ok
}

// Merge combines two bundles that cover disjoint parts of play. Counts and
// durations are summed; labels are unioned per team with shared labels
// summed. Both bundles must cover the same teams and carry the same
// categories. Neither operand is modified.
func (b *Bundle) Merge(o *Bundle) (*Bundle, error) {
	if b == nil || o == nil {
		return nil, fmt.Errorf("merge: %w", ErrNilBundle)
	}
	if !b.Teams.Equal(o.Teams) {
		return nil, fmt.Errorf("merge %q with %q: %w (%s vs %s)", b.Source, o.Source, ErrTeamsMismatch, b.Teams, o.Teams)
	}
	for _, c := range Categories {
		if b.Has(c) != o.Has(c) {
			return nil, fmt.Errorf("merge %q with %q: %w: %s", b.Source, o.Source, ErrCategoryMissing, c)
		}
	}

	out := NewBundle(mergedSource(b.Source, o.Source), b.Teams)
	for c, bv := range b.counts {
		ov := o.counts[c]
		sum := make(TeamCounts, 2)
		for _, t := range b.Teams.Slice() {
			sum[t] = bv[t] + ov[t]
		}
		out.counts[c] = sum
	}
	for c, bv := range b.durations {
		ov := o.durations[c]
		sum := make(TeamDurations, 2)
		for _, t := range b.Teams.Slice() {
			sum[t] = model.Clock(bv[t].Seconds() + ov[t].Seconds())
		}
		out.durations[c] = sum
	}
	for c, bv := range b.labels {
		ov := o.labels[c]
		sum := make(TeamLabels, 2)
		for _, t := range b.Teams.Slice() {
			m := make(map[string]int, len(bv[t])+len(ov[t]))
			for l, n := range bv[t] {
				m[l] += n
			}
			for l, n := range ov[t] {
				m[l] += n
			}
			sum[t] = m
		}
		out.labels[c] = sum
	}

	out.Goals = make([]Goal, 0, len(b.Goals)+len(o.Goals))
	out.Goals = append(out.Goals, b.Goals...)
	out.Goals = append(out.Goals, o.Goals...)
	return out, nil
}

func mergedSource(a, b string) string {
	switch {
	case a == "":
		return b
	case b == "":
		return a
	default:
		return a + " + " + b
	}
}

// Relabel returns a copy in which the side that is not focus is renamed to
// model.OpponentTeam, so games against different opponents can be merged.
func (b *Bundle) Relabel(focus model.TeamID) (*Bundle, error) {
	if !b.Teams.Has(focus) {
		return nil, fmt.Errorf("relabel %q: %w: %q", b.Source, ErrUnknownTeam, focus)
	}
	opp := b.Teams.Other(focus)
	rename := func(t model.TeamID) model.TeamID {
		if t == opp {
			return model.OpponentTeam
		}
		return t
	}

	out := NewBundle(b.Source, model.Teams{Home: focus, Away: model.OpponentTeam})
	for c, v := range b.counts {
		m := make(TeamCounts, len(v))
		for t, n := range v {
			m[rename(t)] = n
		}
		out.counts[c] = m
	}
	for c, v := range b.durations {
		m := make(TeamDurations, len(v))
		for t, d := range v {
			m[rename(t)] = d
		}
		out.durations[c] = m
	}
	for c, v := range b.labels {
		m := make(TeamLabels, len(v))
		for t, labels := range v.clone() {
			m[rename(t)] = labels
		}
		out.labels[c] = m
	}
	for _, g := range b.Goals {
		g.Team = rename(g.Team)
		out.Goals = append(out.Goals, g)
	}
	return out, nil
}

// Compile merges bundles left to right.
func Compile(bundles ...*Bundle) (*Bundle, error) {
	if len(bundles) == 0 {
		return nil, ErrNoBundles
	}
	for i, b := range bundles {
		if b == nil {
			return nil, fmt.Errorf("compile: bundle %d: %w", i, ErrNilBundle)
		}
	}
	acc := bundles[0]
	for _, b := range bundles[1:] {
		merged, err := acc.Merge(b)
		if err != nil {
			return nil, err
		}
		acc = merged
	}
	if len(bundles) > 2 {
		acc.Source = compiledSource(bundles)
	}
	return acc, nil
}

func compiledSource(bundles []*Bundle) string {
	names := make([]string, 0, len(bundles))
	for _, b := range bundles {
		names = append(names, b.Source)
	}
	sort.Strings(names)
	return fmt.Sprintf("%d logs: %s", len(bundles), strings.Join(names, ", "))
}
