package possession

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pable/go-bandy-metrics/internal/model"
)

var teams = model.Teams{Home: "iks", Away: "mot"}

func ev(team model.TeamID, tag string, at model.Clock) model.Event {
	kind, _ := model.ParseEventKind(tag)
	return model.Event{Team: team, Kind: kind, Tag: tag, At: at}
}

func events(evs ...model.Event) []model.Event {
	for i := range evs {
		evs[i].Index = i
	}
	return evs
}

func TestReconstructEmpty(t *testing.T) {
	tl := Reconstruct(teams, nil)
	require.Empty(t, tl.Markers)
	require.Empty(t, tl.Faults)
	require.Empty(t, tl.Intervals())
	require.Equal(t, model.Clock(0), tl.Span())
}

func TestReconstructLossTransfersToOpponent(t *testing.T) {
	tl := Reconstruct(teams, events(
		ev("iks", "frislag", 0),
		ev("iks", "skott", 5),
		ev("iks", "bolltapp", 8),
		ev("mot", "passning", 12),
	))

	require.Equal(t, []Marker{
		{Holder: "iks", At: 0},
		{Holder: "mot", At: 8},
	}, tl.Markers)
	require.Equal(t, model.TeamID("iks"), tl.HolderAt(0))
	require.Equal(t, model.TeamID("iks"), tl.HolderAt(7))
	require.Equal(t, model.TeamID("mot"), tl.HolderAt(8))
	require.Equal(t, model.TeamID("mot"), tl.HolderAt(100))
}

func TestReconstructLossFromNonHolderIsIgnored(t *testing.T) {
	tl := Reconstruct(teams, events(
		ev("iks", "frislag", 0),
		ev("iks", "skott", 5),
		ev("mot", "bolltapp", 5),
	))
	require.Equal(t, []Marker{{Holder: "iks", At: 0}}, tl.Markers)
}

func TestReconstructFirstEventLoss(t *testing.T) {
	tl := Reconstruct(teams, events(
		ev("mot", "rensning", 3),
		ev("iks", "boll", 6),
	))
	require.Equal(t, []Marker{{Holder: "iks", At: 3}}, tl.Markers)
}

func TestReconstructAwaitSuspendsPossession(t *testing.T) {
	tl := Reconstruct(teams, events(
		ev("", "stop", 0), // first event, nothing to suspend
		ev("iks", "avslag", 2),
		ev("iks", "mål", 30),
		ev("iks", "skottyp", 30),
		ev("", "timeout", 31),
		ev("mot", "avslag", 60),
	))
	require.Equal(t, []Marker{
		{Holder: "iks", At: 2},
		{Holder: model.NoTeam, At: 30},
		{Holder: "mot", At: 60},
	}, tl.Markers)

	require.Equal(t, []Interval{
		{Holder: "iks", Start: 2, End: 30},
		{Holder: model.NoTeam, Start: 30, End: 60},
	}, tl.Intervals())
	require.Equal(t, model.Clock(30), tl.DeadTime())
	require.Equal(t, map[model.TeamID]model.Clock{"iks": 28, "mot": 0}, tl.Durations(teams))
}

func TestReconstructFlagsUnknownKinds(t *testing.T) {
	tl := Reconstruct(teams, events(
		ev("iks", "avslag", 0),
		model.Event{Team: "mot", Kind: model.KindUnknown, Tag: "hattrick", At: 10},
		ev("iks", "passning", 15),
		ev("mot", "brytning", 20),
	))

	require.Len(t, tl.Faults, 1)
	require.Equal(t, 1, tl.Faults[0].Index)
	require.Equal(t, "hattrick", tl.Faults[0].Tag)

	require.Equal(t, []Marker{
		{Holder: "iks", At: 0},
		{Sentinel: true},
		{Holder: "iks", At: 15},
		{Holder: "mot", At: 20},
	}, tl.Markers)

	// spans touching the sentinel are undefined
	require.Equal(t, []Interval{{Holder: "iks", Start: 15, End: 20}}, tl.Intervals())
	require.Equal(t, model.TeamID("iks"), tl.HolderAt(12))
}

func TestReconstructGainWithoutTeamIsAFault(t *testing.T) {
	tl := Reconstruct(teams, events(
		ev("iks", "avslag", 0),
		ev("", "boll", 4),
		ev("", "offside", 6),
	))
	require.Len(t, tl.Faults, 2)
	require.Equal(t, 3, tl.Len())
}

// randomLog produces a valid event log with random kinds, teams and gaps.
func randomLog(rng *rand.Rand, n int) []model.Event {
	kinds := []string{
		"skott", "frislag", "närkamp", "inslag", "utkast", "avslag", "friläge", "boll",
		"brytning", "passning", "bolltapp", "rensning", "offside", "timeout", "mål",
		"stop", "utvisning", "hörna", "straff", "skottyp",
	}
	var (
		out []model.Event
		at  model.Clock
	)
	for i := 0; i < n; i++ {
		at += model.Clock(rng.Intn(20))
		team := teams.Home
		if rng.Intn(2) == 1 {
			team = teams.Away
		}
		out = append(out, ev(team, kinds[rng.Intn(len(kinds))], at))
	}
	return events(out...)
}

func TestTimelineInvariants(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for round := 0; round < 200; round++ {
		log := randomLog(rng, rng.Intn(120))
		tl := Reconstruct(teams, log)
		require.Empty(t, tl.Faults)

		ivs := tl.Intervals()
		for i := range ivs {
			require.GreaterOrEqual(t, ivs[i].End, ivs[i].Start)
			if i > 0 {
				require.Equal(t, ivs[i-1].End, ivs[i].Start, "intervals must be contiguous")
				require.NotEqual(t, ivs[i-1].Holder, ivs[i].Holder, "adjacent intervals share a holder")
			}
		}
		for i := 1; i < len(tl.Markers); i++ {
			require.NotEqual(t, tl.Markers[i-1].Holder, tl.Markers[i].Holder)
		}

		durations := tl.Durations(teams)
		require.Equal(t, tl.Span()-tl.DeadTime(), durations[teams.Home]+durations[teams.Away])
		if len(tl.Markers) > 0 {
			last := tl.Markers[len(tl.Markers)-1].At
			require.Equal(t, last-tl.Markers[0].At, tl.Span())
		}
	}
}
