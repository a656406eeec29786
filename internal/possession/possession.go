// Package possession rebuilds who held the ball, and when, from a flat match
// event log.
package possession

import (
	"fmt"

	"github.com/pable/go-bandy-metrics/internal/model"
)

// Marker records that Holder had the ball from At onwards. A sentinel marker
// stands in for an event that could not be interpreted; it has neither holder
// nor time.
type Marker struct {
	Holder   model.TeamID
	At       model.Clock
	Sentinel bool
}

func (m Marker) String() string {
	if m.Sentinel {
		return "(?, ?)"
	}
	return fmt.Sprintf("(%s, %s)", m.Holder, m.At)
}

// Fault is a log row the reconstructor could not place on the timeline.
type Fault struct {
	Index  int
	Tag    string
	Team   model.TeamID
	Reason string
}

func (f Fault) String() string {
	return fmt.Sprintf("event %d (%q, team %s): %s", f.Index, f.Tag, f.Team, f.Reason)
}

// Interval is a span [Start, End) during which Holder had the ball.
// Holder is model.NoTeam for dead-ball time.
type Interval struct {
	Holder model.TeamID
	Start  model.Clock
	End    model.Clock
}

// Length of the interval in seconds.
func (iv Interval) Length() model.Clock {
	return iv.End - iv.Start
}

// Timeline is the ordered list of possession markers for one event log.
type Timeline struct {
	Markers []Marker
	Faults  []Fault
}

// Reconstruct walks the events once and emits a marker every time possession
// changes hands or play is suspended. Repeated gains by the holder collapse
// into one marker; a loss hands the ball to the other team.
func Reconstruct(teams model.Teams, events []model.Event) Timeline {
	var tl Timeline

	for i, e := range events {
		first := i == 0

		switch model.Classify(e.Kind) {
		case model.ClassGain:
			if !teams.Has(e.Team) {
				tl.fault(e, "gain event without a team")
				continue
			}
			if first || e.Team != tl.holder() {
				tl.emit(e.Team, e.At)
			}
		case model.ClassLoss:
			other := teams.Other(e.Team)
			if other == model.NoTeam {
				tl.fault(e, "loss event without a team")
				continue
			}
			// a loss from the side without the ball leaves the holder as is
			if first || other != tl.holder() {
				tl.emit(other, e.At)
			}
		case model.ClassAwait:
			if !first && tl.holder() != model.NoTeam {
				tl.emit(model.NoTeam, e.At)
			}
		default:
			tl.fault(e, "unrecognised event kind")
		}
	}

	return tl
}

func (tl *Timeline) emit(holder model.TeamID, at model.Clock) {
	tl.Markers = append(tl.Markers, Marker{Holder: holder, At: at})
}

func (tl *Timeline) fault(e model.Event, reason string) {
	tl.Markers = append(tl.Markers, Marker{Sentinel: true})
	tl.Faults = append(tl.Faults, Fault{Index: e.Index, Tag: e.Tag, Team: e.Team, Reason: reason})
}

// holder of the last emitted marker; NoTeam when there is none.
func (tl *Timeline) holder() model.TeamID {
	if len(tl.Markers) == 0 {
		return model.NoTeam
	}
	return tl.Markers[len(tl.Markers)-1].Holder
}

// Intervals pairs consecutive markers. The last marker is open ended and is
// not returned; pairs that touch a sentinel have no defined span and are
// skipped.
func (tl Timeline) Intervals() []Interval {
	var out []Interval
	for i := 0; i+1 < len(tl.Markers); i++ {
		cur, next := tl.Markers[i], tl.Markers[i+1]
		if cur.Sentinel || next.Sentinel {
			continue
		}
		out = append(out, Interval{Holder: cur.Holder, Start: cur.At, End: next.At})
	}
	return out
}

// Durations sums interval lengths per team. Both teams are always present.
func (tl Timeline) Durations(teams model.Teams) map[model.TeamID]model.Clock {
	out := map[model.TeamID]model.Clock{teams.Home: 0, teams.Away: 0}
	for _, iv := range tl.Intervals() {
		if teams.Has(iv.Holder) {
			out[iv.Holder] += iv.Length()
		}
	}
	return out
}

// DeadTime is the total length of intervals nobody held.
func (tl Timeline) DeadTime() model.Clock {
	var dead model.Clock
	for _, iv := range tl.Intervals() {
		if iv.Holder == model.NoTeam {
			dead += iv.Length()
		}
	}
	return dead
}

// Span is the time covered by the intervals.
func (tl Timeline) Span() model.Clock {
	var span model.Clock
	for _, iv := range tl.Intervals() {
		span += iv.Length()
	}
	return span
}

// HolderAt returns who had the ball at t according to the last non-sentinel
// marker at or before t.
func (tl Timeline) HolderAt(t model.Clock) model.TeamID {
	holder := model.NoTeam
	for _, m := range tl.Markers {
		if m.Sentinel {
			continue
		}
		if m.At > t {
			break
		}
		holder = m.Holder
	}
	return holder
}

// Len is the number of markers, sentinels included.
func (tl Timeline) Len() int {
	return len(tl.Markers)
}
