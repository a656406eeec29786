package parser

import (
	"bytes"
	"crypto/sha256"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pable/go-bandy-metrics/internal/model"
)

var (
	ErrMissingColumn = errors.New("missing column")
	ErrTeamCount     = errors.New("event log must name exactly two teams")
	ErrUnknownTeam   = errors.New("team not in match")
	ErrTimeOrder     = errors.New("event time goes backwards")
)

// Required header columns. Extra columns are ignored.
var columns = []string{"team", "event", "subevent", "time"}

// Options tune how a log is read.
type Options struct {
	// Teams fixes the pair up front; when zero, teams are taken from the log
	// in order of first appearance.
	Teams     model.Teams
	MatchDate string
}

// ParseFile parses the event log at path and returns a RawMatch.
func ParseFile(path string, opts Options) (*model.RawMatch, error) {
	body, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}
	if opts.MatchDate == "" {
		if fi, err := os.Stat(path); err == nil {
			opts.MatchDate = fi.ModTime().Format(time.DateOnly)
		}
	}
	source := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return Parse(bytes.NewReader(body), source, opts)
}

// Parse reads a CSV event log from r. The content hash is the idempotency
// key used by storage.
func Parse(r io.Reader, source string, opts Options) (*model.RawMatch, error) {
	h := sha256.New()
	cr := csv.NewReader(io.TeeReader(r, h))
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	idx, err := columnIndex(header)
	if err != nil {
		return nil, err
	}

	var (
		events []model.Event
		seen   []model.TeamID
		last   model.Clock
	)
	for row := 1; ; row++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", row, err)
		}
		if blank(rec) {
			continue
		}

		at, err := model.ParseClock(field(rec, idx["time"]))
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", row, err)
		}
		if at < last {
			return nil, fmt.Errorf("row %d: %w (%s after %s)", row, ErrTimeOrder, at, last)
		}
		last = at

		team := model.TeamID(strings.ToLower(field(rec, idx["team"])))
		if team != model.NoTeam && !containsTeam(seen, team) {
			seen = append(seen, team)
		}

		tag := field(rec, idx["event"])
		kind, _ := model.ParseEventKind(tag)
		events = append(events, model.Event{
			Index:    len(events),
			Team:     team,
			Kind:     kind,
			Tag:      strings.ToLower(tag),
			Subevent: strings.ToLower(field(rec, idx["subevent"])),
			At:       at,
		})
	}

	teams, err := resolveTeams(opts.Teams, seen)
	if err != nil {
		return nil, err
	}
	for _, e := range events {
		if e.Team != model.NoTeam && !teams.Has(e.Team) {
			return nil, fmt.Errorf("event %d: %w: %q", e.Index, ErrUnknownTeam, e.Team)
		}
	}

	return &model.RawMatch{
		Hash:      fmt.Sprintf("%x", h.Sum(nil)),
		Source:    source,
		MatchDate: opts.MatchDate,
		Teams:     teams,
		Events:    events,
	}, nil
}

func columnIndex(header []string) (map[string]int, error) {
	idx := make(map[string]int, len(columns))
	for i, h := range header {
		idx[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))] = i
	}
	out := make(map[string]int, len(columns))
	for _, c := range columns {
		i, ok := idx[c]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrMissingColumn, c)
		}
		out[c] = i
	}
	return out, nil
}

func resolveTeams(given model.Teams, seen []model.TeamID) (model.Teams, error) {
	if given != (model.Teams{}) {
		return model.NewTeams(
			model.TeamID(strings.ToLower(string(given.Home))),
			model.TeamID(strings.ToLower(string(given.Away))),
		)
	}
	if len(seen) != 2 {
		return model.Teams{}, fmt.Errorf("%w: found %d", ErrTeamCount, len(seen))
	}
	return model.NewTeams(seen[0], seen[1])
}

func field(rec []string, i int) string {
	if i >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[i])
}

func blank(rec []string) bool {
	for _, f := range rec {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

func containsTeam(ts []model.TeamID, t model.TeamID) bool {
	for _, x := range ts {
		if x == t {
			return true
		}
	}
	return false
}
