package aggregator

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pable/go-bandy-metrics/internal/model"
)

var sampleTeams = model.Teams{Home: "iks", Away: "mot"}

type row struct {
	team model.TeamID
	tag  string
	sub  string
	at   model.Clock
}

func buildMatch(source string, teams model.Teams, rows ...row) *model.RawMatch {
	raw := &model.RawMatch{Hash: source + "-hash", Source: source, Teams: teams}
	for i, r := range rows {
		kind, _ := model.ParseEventKind(r.tag)
		raw.Events = append(raw.Events, model.Event{
			Index: i, Team: r.team, Kind: kind, Tag: r.tag, Subevent: r.sub, At: r.at,
		})
	}
	return raw
}

// sampleMatch has one goal by iks after a won scrimmage, a mot shot after
// an iks lost ball and an iks shot after an interception.
func sampleMatch() *model.RawMatch {
	return buildMatch("half1", sampleTeams,
		row{"iks", "avslag", "", 0},
		row{"iks", "passning", "", 5},
		row{"iks", "bolltapp", "", 10},
		row{"mot", "skott", "", 20},
		row{"iks", "närkamp", "", 25},
		row{"iks", "mål", "", 40},
		row{"iks", "skottyp", "retur", 40},
		row{"mot", "avslag", "", 50},
		row{"iks", "brytning", "", 60},
		row{"iks", "skott", "", 70},
		row{"mot", "rensning", "", 80},
		row{"iks", "skottyp", "okänt", 80},
	)
}

func newStats(t *testing.T, raw *model.RawMatch) *Stats {
	t.Helper()
	s, err := New(raw)
	require.NoError(t, err)
	return s
}

func TestNewRejectsNil(t *testing.T) {
	_, err := New(nil)
	require.Error(t, err)
}

func TestStatsCounts(t *testing.T) {
	s := newStats(t, sampleMatch())

	require.Equal(t, TeamCounts{"iks": 1, "mot": 0}, s.Score())
	require.Equal(t, TeamCounts{"iks": 2, "mot": 1}, s.ShotsOnGoal())
	require.Equal(t, TeamCounts{"iks": 2, "mot": 0}, s.Duels())
	require.Equal(t, TeamCounts{"iks": 1, "mot": 0}, s.Scrimmages())
	require.Equal(t, TeamCounts{"iks": 1, "mot": 0}, s.Interceptions())
	require.Equal(t, TeamCounts{"iks": 1, "mot": 0}, s.LostBalls())
}

func TestStatsPossession(t *testing.T) {
	s := newStats(t, sampleMatch())

	require.Equal(t, TeamDurations{"iks": 45, "mot": 25}, s.Possession())

	tl := s.Timeline()
	require.Equal(t, model.Clock(80), tl.Span())
	require.Equal(t, model.Clock(10), tl.DeadTime())
	require.Empty(t, s.Faults())
}

func TestStatsShotTypesOnlyRecognised(t *testing.T) {
	s := newStats(t, sampleMatch())

	require.Equal(t, TeamLabels{
		"iks": {"retur": 1},
		"mot": {},
	}, s.ShotTypes())
}

func TestStatsShotOriginsAndGoals(t *testing.T) {
	s := newStats(t, sampleMatch())

	require.Equal(t, TeamLabels{
		"iks": {"närkamp": 1, "brytning": 1},
		"mot": {"bolltapp": 1},
	}, s.ShotOrigins())

	shots := s.Shots()
	require.Len(t, shots, 3)
	require.Equal(t, Shot{Index: 3, Team: "mot", At: 20, Origin: "bolltapp", AttackTime: 10}, shots[0])
	require.Equal(t, Shot{Index: 5, Team: "iks", At: 40, Origin: "närkamp", AttackTime: 15, Goal: true}, shots[1])
	require.Equal(t, Shot{Index: 9, Team: "iks", At: 70, Origin: "brytning", AttackTime: 10}, shots[2])

	require.Equal(t, []Goal{{Team: "iks", At: 40, Origin: "närkamp", ShotType: "retur", AttackTime: 15}}, s.Goals())
}

func TestShotBeforePossessionIsUnknownOrigin(t *testing.T) {
	s := newStats(t, buildMatch("early", sampleTeams,
		row{"mot", "skott", "", 3},
		row{"iks", "avslag", "", 10},
	))

	require.Equal(t, TeamLabels{"iks": {}, "mot": {OriginUnknown: 1}}, s.ShotOrigins())
	require.Equal(t, model.Clock(0), s.Shots()[0].AttackTime)
}

func TestGoalShotTypeStopsAtNextShot(t *testing.T) {
	s := newStats(t, buildMatch("nolabel", sampleTeams,
		row{"iks", "avslag", "", 0},
		row{"iks", "mål", "", 10},
		row{"mot", "skottyp", "distans", 10},
		row{"mot", "avslag", "", 20},
		row{"mot", "skott", "", 30},
		row{"iks", "skottyp", "vinkel", 30},
	))

	goals := s.Goals()
	require.Len(t, goals, 1)
	require.Empty(t, goals[0].ShotType)
}

func TestStatsMemoised(t *testing.T) {
	s := newStats(t, sampleMatch())

	require.Equal(t, s.Score(), s.Score())
	require.Contains(t, s.counts, CategoryScore)
	require.Equal(t, s.Possession(), s.Possession())
	require.NotNil(t, s.possession)
	require.NotNil(t, s.attacks)
}

func TestStatsCallerWritesDoNotReachCache(t *testing.T) {
	s := newStats(t, sampleMatch())

	s.Score()["iks"] = 99
	s.Possession()["mot"] = 1000
	s.ShotTypes()["iks"]["retur"] = 7
	s.ShotOrigins()["mot"]["bolltapp"] = 5
	s.Shots()[0].Origin = "changed"
	s.Goals()[0].ShotType = "changed"
	s.Timeline().Markers[0].Holder = "changed"

	require.Equal(t, TeamCounts{"iks": 1, "mot": 0}, s.Score())
	require.Equal(t, TeamDurations{"iks": 45, "mot": 25}, s.Possession())
	require.Equal(t, TeamLabels{"iks": {"retur": 1}, "mot": {}}, s.ShotTypes())
	require.Equal(t, "bolltapp", s.Shots()[0].Origin)
	require.Equal(t, "retur", s.Goals()[0].ShotType)
	require.NotEqual(t, model.TeamID("changed"), s.Timeline().Markers[0].Holder)

	b := s.Bundle()
	score, _ := b.Counts(CategoryScore)
	require.Equal(t, TeamCounts{"iks": 1, "mot": 0}, score)
	origins, _ := b.Labels(CategoryShotOrigins)
	require.Equal(t, TeamLabels{"iks": {"närkamp": 1, "brytning": 1}, "mot": {"bolltapp": 1}}, origins)
}

func TestStatsUnknownKindBecomesFault(t *testing.T) {
	s := newStats(t, buildMatch("odd", sampleTeams,
		row{"iks", "avslag", "", 0},
		row{"iks", "dribbling", "", 5},
		row{"mot", "brytning", "", 10},
		row{"iks", "brytning", "", 20},
	))

	faults := s.Faults()
	require.Len(t, faults, 1)
	require.Equal(t, 1, faults[0].Index)
	require.Equal(t, "dribbling", faults[0].Tag)
	// only mot 10..20 survives; both pairs around the sentinel are dropped
	require.Equal(t, TeamDurations{"iks": 0, "mot": 10}, s.Possession())
}

func TestBundleCarriesEveryCategory(t *testing.T) {
	s := newStats(t, sampleMatch())
	b := s.Bundle()

	require.Equal(t, "half1", b.Source)
	require.Equal(t, Categories, b.Categories())

	score, ok := b.Counts(CategoryScore)
	require.True(t, ok)
	require.Equal(t, TeamCounts{"iks": 1, "mot": 0}, score)

	poss, ok := b.Durations(CategoryPossession)
	require.True(t, ok)
	require.Equal(t, TeamDurations{"iks": 45, "mot": 25}, poss)

	require.Len(t, b.Goals, 1)
	require.Equal(t, "half1", b.Goals[0].Source)

	// the bundle holds copies; the cached stats are untouched
	score["iks"] = 9
	require.Equal(t, 1, s.Score()["iks"])
}

func TestSetPanicsOnShapeMismatch(t *testing.T) {
	b := NewBundle("x", sampleTeams)
	require.Panics(t, func() { b.SetCounts(CategoryPossession, TeamCounts{}) })
	require.Panics(t, func() { b.SetLabels(CategoryScore, TeamLabels{}) })
}

func TestParseCategory(t *testing.T) {
	for _, c := range Categories {
		got, ok := ParseCategory(c.String())
		require.True(t, ok)
		require.Equal(t, c, got)
	}
	_, ok := ParseCategory("corners")
	require.False(t, ok)
}

func TestTeamLabelsSorted(t *testing.T) {
	tl := TeamLabels{"iks": {"retur": 2, "centralt": 2, "distans": 5}}
	require.Equal(t, []string{"distans", "centralt", "retur"}, tl.Sorted("iks"))
	require.Equal(t, 9, tl.Total("iks"))
	require.Empty(t, tl.Sorted("mot"))
}
