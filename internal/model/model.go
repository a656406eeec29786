package model

import "fmt"

// TeamID names one side of a match as it appears in the event log.
type TeamID string

// NoTeam marks a dead ball: nobody holds possession.
const NoTeam TeamID = ""

// OpponentTeam replaces the non-focus side when games against different
// opponents are compiled into one report.
const OpponentTeam TeamID = "opponent"

func (t TeamID) String() string {
	if t == NoTeam {
		return "-"
	}
	return string(t)
}

// Teams is the fixed pair of sides in a match.
type Teams struct {
	Home TeamID
	Away TeamID
}

// NewTeams validates and builds a team pair.
func NewTeams(home, away TeamID) (Teams, error) {
	if home == NoTeam || away == NoTeam {
		return Teams{}, fmt.Errorf("%w: empty team id", ErrInvalidTeams)
	}
	if home == away {
		return Teams{}, fmt.Errorf("%w: %q given twice", ErrInvalidTeams, home)
	}
	return Teams{Home: home, Away: away}, nil
}

// Has reports whether t is one of the two sides.
func (p Teams) Has(t TeamID) bool {
	return t != NoTeam && (t == p.Home || t == p.Away)
}

// Other returns the opposite side of t, or NoTeam if t is not in the pair.
func (p Teams) Other(t TeamID) TeamID {
	switch t {
	case p.Home:
		return p.Away
	case p.Away:
		return p.Home
	default:
		return NoTeam
	}
}

// Slice returns the sides in home, away order.
func (p Teams) Slice() []TeamID {
	return []TeamID{p.Home, p.Away}
}

// Equal compares the pairs as sets; home/away order does not matter.
func (p Teams) Equal(o Teams) bool {
	return (p.Home == o.Home && p.Away == o.Away) || (p.Home == o.Away && p.Away == o.Home)
}

func (p Teams) String() string {
	return fmt.Sprintf("%s - %s", p.Home, p.Away)
}

// Event is one row of the match log.
type Event struct {
	Index    int // zero-based row in the source log
	Team     TeamID
	Kind     EventKind
	Tag      string // raw event tag, kept for diagnostics when Kind is KindUnknown
	Subevent string
	At       Clock
}

// RawMatch is the parsed, read-only event log of one match (or one half).
type RawMatch struct {
	Hash      string // sha256 of the source file
	Source    string
	MatchDate string
	Teams     Teams
	Events    []Event
}

// Match kinds stored alongside summaries.
const (
	KindGame   = "game"
	KindMerged = "merged"
)

// MatchSummary is a lightweight record for list/show commands.
type MatchSummary struct {
	Hash      string
	Source    string
	Kind      string // KindGame or KindMerged
	MatchDate string
	Home      TeamID
	Away      TeamID
	Events    int
	Faults    int
	HomeScore int
	AwayScore int
}

// Teams returns the summary's team pair.
func (s MatchSummary) Teams() Teams {
	return Teams{Home: s.Home, Away: s.Away}
}

// ShortHash is the 12 character prefix used in tables.
func (s MatchSummary) ShortHash() string {
	if len(s.Hash) <= 12 {
		return s.Hash
	}
	return s.Hash[:12]
}
