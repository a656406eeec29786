package aggregator

import (
	"fmt"
	"slices"

	"github.com/pable/go-bandy-metrics/internal/model"
	"github.com/pable/go-bandy-metrics/internal/possession"
)

// Stats derives per-team statistics from one event log. Every accessor
// computes its value on first use and caches it. Callers get a copy, so the
// cache and the event log are never modified.
type Stats struct {
	raw *model.RawMatch

	timeline   *possession.Timeline
	counts     map[Category]TeamCounts
	possession TeamDurations
	shotTypes  TeamLabels
	attacks    *attackLog
}

// New wraps a parsed match. The match must not be modified afterwards.
func New(raw *model.RawMatch) (*Stats, error) {
	if raw == nil {
		return nil, fmt.Errorf("nil RawMatch")
	}
	return &Stats{raw: raw, counts: make(map[Category]TeamCounts)}, nil
}

// Teams returns the sides of the match.
func (s *Stats) Teams() model.Teams {
	return s.raw.Teams
}

// Timeline returns the reconstructed possession timeline.
func (s *Stats) Timeline() possession.Timeline {
	if s.timeline == nil {
		tl := possession.Reconstruct(s.raw.Teams, s.raw.Events)
		s.timeline = &tl
	}
	return possession.Timeline{
		Markers: slices.Clone(s.timeline.Markers),
		Faults:  slices.Clone(s.timeline.Faults),
	}
}

// Faults lists the log rows the possession timeline could not interpret.
func (s *Stats) Faults() []possession.Fault {
	return s.Timeline().Faults
}

// Score counts goals per team.
func (s *Stats) Score() TeamCounts {
	return s.count(CategoryScore, func(e model.Event) bool { return e.Kind == model.KindGoal })
}

// Duels counts scrimmages and interceptions per team.
func (s *Stats) Duels() TeamCounts {
	return s.count(CategoryDuels, func(e model.Event) bool { return model.IsDuel(e.Kind) })
}

// ShotsOnGoal counts shots and goals per team.
func (s *Stats) ShotsOnGoal() TeamCounts {
	return s.count(CategoryShotsOnGoal, func(e model.Event) bool { return model.IsShotAttempt(e.Kind) })
}

// Scrimmages counts won scrimmages per team.
func (s *Stats) Scrimmages() TeamCounts {
	return s.count(CategoryScrimmages, func(e model.Event) bool { return e.Kind == model.KindScrimmage })
}

// Interceptions counts interceptions per team.
func (s *Stats) Interceptions() TeamCounts {
	return s.count(CategoryInterceptions, func(e model.Event) bool { return e.Kind == model.KindInterception })
}

// LostBalls counts lost balls per team.
func (s *Stats) LostBalls() TeamCounts {
	return s.count(CategoryLostBalls, func(e model.Event) bool { return e.Kind == model.KindLostBall })
}

func (s *Stats) count(c Category, match func(model.Event) bool) TeamCounts {
	if tc, ok := s.counts[c]; ok {
		return tc.clone()
	}
	tc := TeamCounts{s.raw.Teams.Home: 0, s.raw.Teams.Away: 0}
	for _, e := range s.raw.Events {
		if s.raw.Teams.Has(e.Team) && match(e) {
			tc[e.Team]++
		}
	}
	s.counts[c] = tc
	return tc.clone()
}

// Possession sums the time each team held the ball.
func (s *Stats) Possession() TeamDurations {
	if s.possession == nil {
		s.possession = TeamDurations(s.Timeline().Durations(s.raw.Teams))
	}
	return s.possession.clone()
}

// ShotTypes counts shot-type annotations per team. Only recognised labels
// are counted and labels a team never used are left out.
func (s *Stats) ShotTypes() TeamLabels {
	if s.shotTypes != nil {
		return s.shotTypes.clone()
	}
	tl := TeamLabels{s.raw.Teams.Home: {}, s.raw.Teams.Away: {}}
	for _, e := range s.raw.Events {
		if e.Kind != model.KindShotType || !s.raw.Teams.Has(e.Team) || !model.IsShotType(e.Subevent) {
			continue
		}
		tl[e.Team][e.Subevent]++
	}
	s.shotTypes = tl
	return tl.clone()
}

// ShotOrigins counts shots per team by the event that started the attack.
func (s *Stats) ShotOrigins() TeamLabels {
	return s.attackLog().origins.clone()
}

// Shots lists every shot and goal with the attack that led to it.
func (s *Stats) Shots() []Shot {
	return slices.Clone(s.attackLog().shots)
}

// Goals lists the goals in match order.
func (s *Stats) Goals() []Goal {
	return slices.Clone(s.attackLog().goals)
}

func (s *Stats) attackLog() *attackLog {
	if s.attacks == nil {
		s.attacks = traceAttacks(s.raw)
	}
	return s.attacks
}

// Bundle computes every category and returns them as a standalone Bundle.
func (s *Stats) Bundle() *Bundle {
	b := NewBundle(s.raw.Source, s.raw.Teams)
	b.SetCounts(CategoryScore, s.Score())
	b.SetCounts(CategoryDuels, s.Duels())
	b.SetCounts(CategoryShotsOnGoal, s.ShotsOnGoal())
	b.SetCounts(CategoryScrimmages, s.Scrimmages())
	b.SetCounts(CategoryInterceptions, s.Interceptions())
	b.SetCounts(CategoryLostBalls, s.LostBalls())
	b.SetDurations(CategoryPossession, s.Possession())
	b.SetLabels(CategoryShotTypes, s.ShotTypes())
	b.SetLabels(CategoryShotOrigins, s.ShotOrigins())
	for _, g := range s.Goals() {
		g.Source = s.raw.Source
		b.Goals = append(b.Goals, g)
	}
	return b
}
