package parser

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pable/go-bandy-metrics/internal/model"
)

const sampleLog = `team,event,subevent,time
iks,avslag,,0:00:00
iks,passning,,0:00:04
mot,brytning,,0:00:09
mot,skott,,0:00:15
mot,skottyp,distans,0:00:15
,stop,,0:00:20
IKS,Frislag,,0:00:41
iks,mål,,0:01:02
iks,skottyp,retur,0:01:02
`

func TestParse(t *testing.T) {
	raw, err := Parse(strings.NewReader(sampleLog), "iks-mot", Options{MatchDate: "2023-02-15"})
	require.NoError(t, err)

	require.Equal(t, "iks-mot", raw.Source)
	require.Equal(t, "2023-02-15", raw.MatchDate)
	require.Len(t, raw.Hash, 64)
	require.Equal(t, model.Teams{Home: "iks", Away: "mot"}, raw.Teams)
	require.Len(t, raw.Events, 9)

	require.Equal(t, model.KindFaceOff, raw.Events[0].Kind)
	require.Equal(t, model.KindInterception, raw.Events[2].Kind)
	require.Equal(t, "distans", raw.Events[4].Subevent)
	require.Equal(t, model.NoTeam, raw.Events[5].Team)
	require.Equal(t, model.TeamID("iks"), raw.Events[6].Team)
	require.Equal(t, model.KindFreeStroke, raw.Events[6].Kind)
	require.Equal(t, model.Clock(62), raw.Events[7].At)
	require.Equal(t, 8, raw.Events[8].Index)
}

func TestParseHashIsStable(t *testing.T) {
	a, err := Parse(strings.NewReader(sampleLog), "a", Options{})
	require.NoError(t, err)
	b, err := Parse(strings.NewReader(sampleLog), "b", Options{})
	require.NoError(t, err)
	require.Equal(t, a.Hash, b.Hash)

	c, err := Parse(strings.NewReader(sampleLog+"mot,boll,,0:01:10\n"), "c", Options{})
	require.NoError(t, err)
	require.NotEqual(t, a.Hash, c.Hash)
}

func TestParseKeepsUnknownTags(t *testing.T) {
	log := "time,event,team,subevent,comment\n0:00:01,avslag,iks,,\n0:00:03,hattrick,mot,,odd\n"
	raw, err := Parse(strings.NewReader(log), "x", Options{})
	require.NoError(t, err)
	require.Len(t, raw.Events, 2)
	require.Equal(t, model.KindUnknown, raw.Events[1].Kind)
	require.Equal(t, "hattrick", raw.Events[1].Tag)
}

func TestParseErrors(t *testing.T) {
	_, err := Parse(strings.NewReader("team,event,time\niks,boll,0:00:01\n"), "x", Options{})
	require.ErrorIs(t, err, ErrMissingColumn)

	_, err = Parse(strings.NewReader("team,event,subevent,time\niks,boll,,0:00:05\nmot,boll,,0:00:04\n"), "x", Options{})
	require.ErrorIs(t, err, ErrTimeOrder)

	_, err = Parse(strings.NewReader("team,event,subevent,time\niks,boll,,0:00:05\n"), "x", Options{})
	require.ErrorIs(t, err, ErrTeamCount)

	_, err = Parse(strings.NewReader("team,event,subevent,time\niks,boll,,0:0x:05\n"), "x", Options{})
	require.ErrorIs(t, err, model.ErrInvalidClock)

	_, err = Parse(strings.NewReader(sampleLog), "x", Options{Teams: model.Teams{Home: "iks", Away: "vsk"}})
	require.ErrorIs(t, err, ErrUnknownTeam)
}

func TestParseExplicitTeams(t *testing.T) {
	log := "team,event,subevent,time\nmot,avslag,,0:00:00\n"
	raw, err := Parse(strings.NewReader(log), "x", Options{Teams: model.Teams{Home: "IKS", Away: "MOT"}})
	require.NoError(t, err)
	require.Equal(t, model.Teams{Home: "iks", Away: "mot"}, raw.Teams)
}

func TestParseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "20230215 iks - mot halvlek 2.csv")
	require.NoError(t, os.WriteFile(path, []byte(sampleLog), 0o644))

	raw, err := ParseFile(path, Options{})
	require.NoError(t, err)
	require.Equal(t, "20230215 iks - mot halvlek 2", raw.Source)
	require.NotEmpty(t, raw.MatchDate)

	_, err = ParseFile(filepath.Join(t.TempDir(), "missing.csv"), Options{})
	require.Error(t, err)
}
