package storage

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pable/go-bandy-metrics/internal/aggregator"
	"github.com/pable/go-bandy-metrics/internal/model"
	"github.com/pable/go-bandy-metrics/internal/possession"
)

func openMemDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(":memory:")
	if err != nil {
		t.Fatalf("open in-memory db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

var pair = model.Teams{Home: "iks", Away: "vsk"}

func summary(hash, date string) model.MatchSummary {
	return model.MatchSummary{
		Hash: hash, Source: "log " + hash, Kind: model.KindGame, MatchDate: date,
		Home: pair.Home, Away: pair.Away, Events: 120, Faults: 1, HomeScore: 3, AwayScore: 2,
	}
}

func sampleBundle() *aggregator.Bundle {
	b := aggregator.NewBundle("half1", pair)
	b.SetCounts(aggregator.CategoryScore, aggregator.TeamCounts{"iks": 3, "vsk": 2})
	b.SetCounts(aggregator.CategoryDuels, aggregator.TeamCounts{"iks": 14, "vsk": 0})
	b.SetDurations(aggregator.CategoryPossession, aggregator.TeamDurations{"iks": 1530, "vsk": 1210})
	b.SetLabels(aggregator.CategoryShotTypes, aggregator.TeamLabels{"iks": {"retur": 2, "centralt": 1}, "vsk": {}})
	b.SetLabels(aggregator.CategoryShotOrigins, aggregator.TeamLabels{"iks": {}, "vsk": {}})
	b.Goals = []aggregator.Goal{
		{Source: "half1", Team: "iks", At: 300, Origin: "närkamp", ShotType: "retur", AttackTime: 12},
		{Source: "half1", Team: "vsk", At: 900, Origin: "okänd"},
	}
	return b
}

func TestMatchInsertAndExists(t *testing.T) {
	db := openMemDB(t)

	require.NoError(t, db.InsertMatch(summary("abc123", "2023-01-07")))

	exists, err := db.MatchExists("abc123")
	require.NoError(t, err)
	require.True(t, exists)

	exists, err = db.MatchExists("nonexistent")
	require.NoError(t, err)
	require.False(t, exists)
}

func TestListMatches(t *testing.T) {
	db := openMemDB(t)

	require.NoError(t, db.InsertMatch(summary("h1", "2023-01-01")))
	require.NoError(t, db.InsertMatch(summary("h2", "2023-02-01")))

	list, err := db.ListMatches()
	require.NoError(t, err)
	require.Len(t, list, 2)
	// newest first
	require.Equal(t, "h2", list[0].Hash)
	require.Equal(t, pair, list[0].Teams())
	require.Equal(t, 3, list[0].HomeScore)
}

func TestGetMatchByPrefix(t *testing.T) {
	db := openMemDB(t)

	require.NoError(t, db.InsertMatch(summary("deadbeef1234", "2023-01-01")))
	require.NoError(t, db.InsertMatch(summary("deadc0de9999", "2023-01-02")))

	s, err := db.GetMatchByPrefix("deadb")
	require.NoError(t, err)
	require.NotNil(t, s)
	require.Equal(t, "deadbeef1234", s.Hash)

	s, err = db.GetMatchByPrefix("ffffffff")
	require.NoError(t, err)
	require.Nil(t, s)

	_, err = db.GetMatchByPrefix("dead")
	require.ErrorIs(t, err, ErrAmbiguousPrefix)
}

func TestBundleRoundTrip(t *testing.T) {
	db := openMemDB(t)
	require.NoError(t, db.InsertMatch(summary("h1", "2023-01-07")))

	want := sampleBundle()
	require.NoError(t, db.InsertBundle("h1", want))

	got, err := db.GetBundle("h1")
	require.NoError(t, err)
	require.Equal(t, "log h1", got.Source)
	require.Equal(t, pair, got.Teams)
	require.Equal(t, want.Categories(), got.Categories())

	score, ok := got.Counts(aggregator.CategoryScore)
	require.True(t, ok)
	require.Equal(t, aggregator.TeamCounts{"iks": 3, "vsk": 2}, score)

	poss, ok := got.Durations(aggregator.CategoryPossession)
	require.True(t, ok)
	require.Equal(t, aggregator.TeamDurations{"iks": 1530, "vsk": 1210}, poss)

	types, ok := got.Labels(aggregator.CategoryShotTypes)
	require.True(t, ok)
	require.Equal(t, aggregator.TeamLabels{"iks": {"retur": 2, "centralt": 1}, "vsk": {}}, types)

	origins, ok := got.Labels(aggregator.CategoryShotOrigins)
	require.True(t, ok)
	require.Equal(t, aggregator.TeamLabels{"iks": {}, "vsk": {}}, origins)

	require.False(t, got.Has(aggregator.CategoryLostBalls))
	require.Equal(t, want.Goals, got.Goals)
}

func TestInsertBundleReplaces(t *testing.T) {
	db := openMemDB(t)
	require.NoError(t, db.InsertMatch(summary("h1", "2023-01-07")))
	require.NoError(t, db.InsertBundle("h1", sampleBundle()))

	smaller := aggregator.NewBundle("half1", pair)
	smaller.SetCounts(aggregator.CategoryScore, aggregator.TeamCounts{"iks": 0, "vsk": 1})
	require.NoError(t, db.InsertBundle("h1", smaller))

	got, err := db.GetBundle("h1")
	require.NoError(t, err)
	require.Equal(t, []aggregator.Category{aggregator.CategoryScore}, got.Categories())
	require.Empty(t, got.Goals)
}

func TestGetBundleMissingMatch(t *testing.T) {
	db := openMemDB(t)

	_, err := db.GetBundle("nope")
	require.ErrorIs(t, err, ErrMatchNotFound)
}

func TestTimelineRoundTrip(t *testing.T) {
	db := openMemDB(t)
	require.NoError(t, db.InsertMatch(summary("h1", "2023-01-07")))

	want := possession.Timeline{
		Markers: []possession.Marker{
			{Holder: "iks", At: 0},
			{Sentinel: true},
			{Holder: "vsk", At: 42},
			{Holder: model.NoTeam, At: 61},
		},
		Faults: []possession.Fault{{Index: 3, Tag: "dribbling", Team: "iks", Reason: "unrecognised event kind"}},
	}
	require.NoError(t, db.InsertTimeline("h1", want))

	got, err := db.GetTimeline("h1")
	require.NoError(t, err)
	require.Equal(t, want, got)
}

func TestInsertMatchKeepsStatistics(t *testing.T) {
	db := openMemDB(t)

	s := summary("idem1", "2023-01-07")
	require.NoError(t, db.InsertMatch(s))
	require.NoError(t, db.InsertBundle("idem1", sampleBundle()))

	// a second insert updates the row without dropping the bundle
	s.Faults = 0
	require.NoError(t, db.InsertMatch(s))

	got, err := db.GetBundle("idem1")
	require.NoError(t, err)
	require.True(t, got.Has(aggregator.CategoryScore))

	list, err := db.ListMatches()
	require.NoError(t, err)
	require.Equal(t, 0, list[0].Faults)
}

func TestQueryRaw(t *testing.T) {
	db := openMemDB(t)
	require.NoError(t, db.InsertMatch(summary("h1", "2023-01-07")))

	cols, rows, err := db.QueryRaw("SELECT hash, home_score, NULL AS nothing FROM matches")
	require.NoError(t, err)
	require.Equal(t, []string{"hash", "home_score", "nothing"}, cols)
	require.Equal(t, [][]string{{"h1", "3", "NULL"}}, rows)

	_, _, err = db.QueryRaw("SELECT * FROM no_such_table")
	require.Error(t, err)
}
