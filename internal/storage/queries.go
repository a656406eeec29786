package storage

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/pable/go-bandy-metrics/internal/aggregator"
	"github.com/pable/go-bandy-metrics/internal/model"
	"github.com/pable/go-bandy-metrics/internal/possession"
)

const matchColumns = `hash, source, kind, match_date, home, away, events, faults, home_score, away_score`

// MatchExists returns true if a match with the given hash is already stored.
func (db *DB) MatchExists(hash string) (bool, error) {
	var count int
	err := db.conn.QueryRow("SELECT COUNT(1) FROM matches WHERE hash = ?", hash).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// InsertMatch inserts or updates a match record. An upsert is used instead of
// INSERT OR REPLACE so the cascade does not drop the stored statistics.
func (db *DB) InsertMatch(s model.MatchSummary) error {
	kind := s.Kind
	if kind == "" {
		kind = model.KindGame
	}
	_, err := db.conn.Exec(`
		INSERT INTO matches(`+matchColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(hash) DO UPDATE SET
			source = excluded.source, kind = excluded.kind, match_date = excluded.match_date,
			home = excluded.home, away = excluded.away, events = excluded.events,
			faults = excluded.faults, home_score = excluded.home_score, away_score = excluded.away_score`,
		s.Hash, s.Source, kind, s.MatchDate, string(s.Home), string(s.Away),
		s.Events, s.Faults, s.HomeScore, s.AwayScore,
	)
	return err
}

// InsertBundle replaces the stored statistics of a match with b. The match
// row must exist.
func (db *DB) InsertBundle(hash string, b *aggregator.Bundle) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, table := range []string{"bundle_categories", "team_counts", "team_labels", "goals"} {
		if _, err := tx.Exec("DELETE FROM "+table+" WHERE match_hash = ?", hash); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	catStmt, err := tx.Prepare(`INSERT OR REPLACE INTO bundle_categories(match_hash, category) VALUES (?, ?)`)
	if err != nil {
		return err
	}
	defer catStmt.Close()
	countStmt, err := tx.Prepare(`
		INSERT OR REPLACE INTO team_counts(match_hash, category, team, value) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer countStmt.Close()
	labelStmt, err := tx.Prepare(`
		INSERT OR REPLACE INTO team_labels(match_hash, category, team, label, value) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer labelStmt.Close()

	for _, c := range b.Categories() {
		key := c.String()
		if _, err := catStmt.Exec(hash, key); err != nil {
			return fmt.Errorf("insert category %s: %w", key, err)
		}
		switch c.Shape() {
		case aggregator.ShapeCount:
			tc, _ := b.Counts(c)
			for team, n := range tc {
				if _, err := countStmt.Exec(hash, key, string(team), n); err != nil {
					return fmt.Errorf("insert team_counts %s: %w", key, err)
				}
			}
		case aggregator.ShapeDuration:
			td, _ := b.Durations(c)
			for team, d := range td {
				if _, err := countStmt.Exec(hash, key, string(team), d.Seconds()); err != nil {
					return fmt.Errorf("insert team_counts %s: %w", key, err)
				}
			}
		case aggregator.ShapeLabels:
			tl, _ := b.Labels(c)
			for team, labels := range tl {
				for label, n := range labels {
					if _, err := labelStmt.Exec(hash, key, string(team), label, n); err != nil {
						return fmt.Errorf("insert team_labels %s: %w", key, err)
					}
				}
			}
		}
	}

	goalStmt, err := tx.Prepare(`
		INSERT OR REPLACE INTO goals(match_hash, seq, source, team, at_seconds, origin, shot_type, attack_seconds)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer goalStmt.Close()
	for i, g := range b.Goals {
		_, err := goalStmt.Exec(hash, i, g.Source, string(g.Team), g.At.Seconds(), g.Origin, g.ShotType, g.AttackTime.Seconds())
		if err != nil {
			return fmt.Errorf("insert goal %d: %w", i, err)
		}
	}
	return tx.Commit()
}

// InsertTimeline replaces the stored possession markers and faults of a match.
func (db *DB) InsertTimeline(hash string, tl possession.Timeline) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, table := range []string{"possession_markers", "possession_faults"} {
		if _, err := tx.Exec("DELETE FROM "+table+" WHERE match_hash = ?", hash); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	markerStmt, err := tx.Prepare(`
		INSERT OR REPLACE INTO possession_markers(match_hash, seq, holder, at_seconds, sentinel)
		VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer markerStmt.Close()
	for i, m := range tl.Markers {
		if _, err := markerStmt.Exec(hash, i, string(m.Holder), m.At.Seconds(), boolInt(m.Sentinel)); err != nil {
			return fmt.Errorf("insert marker %d: %w", i, err)
		}
	}

	faultStmt, err := tx.Prepare(`
		INSERT OR REPLACE INTO possession_faults(match_hash, event_index, tag, team, reason)
		VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer faultStmt.Close()
	for _, f := range tl.Faults {
		if _, err := faultStmt.Exec(hash, f.Index, f.Tag, string(f.Team), f.Reason); err != nil {
			return fmt.Errorf("insert fault %d: %w", f.Index, err)
		}
	}
	return tx.Commit()
}

// GetBundle loads the statistics stored for a match. The bundle carries
// exactly the categories that were stored.
func (db *DB) GetBundle(hash string) (*aggregator.Bundle, error) {
	s, err := db.getMatch(hash)
	if err != nil {
		return nil, err
	}
	b := aggregator.NewBundle(s.Source, s.Teams())

	cats, err := db.bundleCategories(hash)
	if err != nil {
		return nil, err
	}
	counts, err := db.teamCounts(hash)
	if err != nil {
		return nil, err
	}
	labels, err := db.teamLabels(hash)
	if err != nil {
		return nil, err
	}

	for _, c := range cats {
		switch c.Shape() {
		case aggregator.ShapeCount:
			tc := aggregator.TeamCounts{}
			for team, n := range counts[c] {
				tc[team] = int(n)
			}
			b.SetCounts(c, tc)
		case aggregator.ShapeDuration:
			td := aggregator.TeamDurations{}
			for team, n := range counts[c] {
				td[team] = model.Clock(n)
			}
			b.SetDurations(c, td)
		case aggregator.ShapeLabels:
			tl := aggregator.TeamLabels{}
			for _, team := range b.Teams.Slice() {
				tl[team] = map[string]int{}
			}
			for team, m := range labels[c] {
				tl[team] = m
			}
			b.SetLabels(c, tl)
		}
	}

	b.Goals, err = db.goals(hash)
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (db *DB) bundleCategories(hash string) ([]aggregator.Category, error) {
	rows, err := db.conn.Query(`SELECT category FROM bundle_categories WHERE match_hash = ?`, hash)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []aggregator.Category
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, err
		}
		c, ok := aggregator.ParseCategory(key)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownCategory, key)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (db *DB) teamCounts(hash string) (map[aggregator.Category]map[model.TeamID]int64, error) {
	rows, err := db.conn.Query(`SELECT category, team, value FROM team_counts WHERE match_hash = ?`, hash)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[aggregator.Category]map[model.TeamID]int64)
	for rows.Next() {
		var key, team string
		var value int64
		if err := rows.Scan(&key, &team, &value); err != nil {
			return nil, err
		}
		c, ok := aggregator.ParseCategory(key)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownCategory, key)
		}
		if out[c] == nil {
			out[c] = make(map[model.TeamID]int64)
		}
		out[c][model.TeamID(team)] = value
	}
	return out, rows.Err()
}

func (db *DB) teamLabels(hash string) (map[aggregator.Category]aggregator.TeamLabels, error) {
	rows, err := db.conn.Query(`SELECT category, team, label, value FROM team_labels WHERE match_hash = ?`, hash)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[aggregator.Category]aggregator.TeamLabels)
	for rows.Next() {
		var key, team, label string
		var value int
		if err := rows.Scan(&key, &team, &label, &value); err != nil {
			return nil, err
		}
		c, ok := aggregator.ParseCategory(key)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownCategory, key)
		}
		if out[c] == nil {
			out[c] = aggregator.TeamLabels{}
		}
		if out[c][model.TeamID(team)] == nil {
			out[c][model.TeamID(team)] = map[string]int{}
		}
		out[c][model.TeamID(team)][label] = value
	}
	return out, rows.Err()
}

func (db *DB) goals(hash string) ([]aggregator.Goal, error) {
	rows, err := db.conn.Query(`
		SELECT source, team, at_seconds, origin, shot_type, attack_seconds
		FROM goals WHERE match_hash = ? ORDER BY seq`, hash)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []aggregator.Goal
	for rows.Next() {
		var g aggregator.Goal
		var team string
		var at, attack int64
		if err := rows.Scan(&g.Source, &team, &at, &g.Origin, &g.ShotType, &attack); err != nil {
			return nil, err
		}
		g.Team, g.At, g.AttackTime = model.TeamID(team), model.Clock(at), model.Clock(attack)
		out = append(out, g)
	}
	return out, rows.Err()
}

// GetTimeline loads the possession markers and faults stored for a match.
func (db *DB) GetTimeline(hash string) (possession.Timeline, error) {
	var tl possession.Timeline

	rows, err := db.conn.Query(`
		SELECT holder, at_seconds, sentinel FROM possession_markers
		WHERE match_hash = ? ORDER BY seq`, hash)
	if err != nil {
		return tl, err
	}
	for rows.Next() {
		var holder string
		var at int64
		var sentinel int
		if err := rows.Scan(&holder, &at, &sentinel); err != nil {
			rows.Close()
			return tl, err
		}
		tl.Markers = append(tl.Markers, possession.Marker{Holder: model.TeamID(holder), At: model.Clock(at), Sentinel: sentinel != 0})
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return tl, err
	}

	rows, err = db.conn.Query(`
		SELECT event_index, tag, team, reason FROM possession_faults
		WHERE match_hash = ? ORDER BY event_index`, hash)
	if err != nil {
		return tl, err
	}
	defer rows.Close()
	for rows.Next() {
		var f possession.Fault
		var team string
		if err := rows.Scan(&f.Index, &f.Tag, &team, &f.Reason); err != nil {
			return tl, err
		}
		f.Team = model.TeamID(team)
		tl.Faults = append(tl.Faults, f)
	}
	return tl, rows.Err()
}

// ListMatches returns all stored match summaries ordered by match_date desc.
func (db *DB) ListMatches() ([]model.MatchSummary, error) {
	rows, err := db.conn.Query(`SELECT ` + matchColumns + ` FROM matches ORDER BY match_date DESC, source`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.MatchSummary
	for rows.Next() {
		s, err := scanMatch(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// GetMatchByPrefix finds the match whose hash starts with the given prefix.
// It returns nil when nothing matches and ErrAmbiguousPrefix when more than
// one match does.
func (db *DB) GetMatchByPrefix(prefix string) (*model.MatchSummary, error) {
	rows, err := db.conn.Query(`SELECT `+matchColumns+` FROM matches WHERE hash LIKE ? LIMIT 2`, prefix+"%")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var found []model.MatchSummary
	for rows.Next() {
		s, err := scanMatch(rows)
		if err != nil {
			return nil, err
		}
		found = append(found, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	switch len(found) {
	case 0:
		return nil, nil
	case 1:
		return &found[0], nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrAmbiguousPrefix, prefix)
	}
}

func (db *DB) getMatch(hash string) (*model.MatchSummary, error) {
	row := db.conn.QueryRow(`SELECT `+matchColumns+` FROM matches WHERE hash = ?`, hash)
	s, err := scanMatch(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s", ErrMatchNotFound, hash)
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanMatch(r scanner) (model.MatchSummary, error) {
	var s model.MatchSummary
	var home, away string
	err := r.Scan(&s.Hash, &s.Source, &s.Kind, &s.MatchDate, &home, &away,
		&s.Events, &s.Faults, &s.HomeScore, &s.AwayScore)
	s.Home, s.Away = model.TeamID(home), model.TeamID(away)
	return s, err
}

// QueryRaw runs an arbitrary query and returns column names and rows
// rendered as strings.
func (db *DB) QueryRaw(query string) ([]string, [][]string, error) {
	rows, err := db.conn.Query(query)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, nil, err
	}

	var out [][]string
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, nil, err
		}
		row := make([]string, len(cols))
		for i, v := range vals {
			row[i] = formatValue(v)
		}
		out = append(out, row)
	}
	return cols, out, rows.Err()
}

func formatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return "NULL"
	case []byte:
		return string(x)
	case float64:
		return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.4f", x), "0"), ".")
	default:
		return fmt.Sprint(x)
	}
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
