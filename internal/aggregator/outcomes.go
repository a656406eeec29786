package aggregator

import (
	"fmt"

	"github.com/pable/go-bandy-metrics/internal/model"
)

// DefaultBarrier is the possession share at which a side is said to have
// dominated the ball.
const DefaultBarrier = 0.55

// Bucket groups games by which side dominated possession.
type Bucket int

const (
	BucketFocus Bucket = iota
	BucketOpponent
	BucketBalanced
)

// Buckets lists every bucket in report order.
var Buckets = []Bucket{BucketFocus, BucketOpponent, BucketBalanced}

func (b Bucket) String() string {
	switch b {
	case BucketFocus:
		return "focus dominant"
	case BucketOpponent:
		return "opponent dominant"
	default:
		return "balanced"
	}
}

// Record is the focus team's results within one bucket.
type Record struct {
	Games  int
	Wins   int
	Losses int
	Draws  int
}

// Outcomes maps each bucket to the focus team's record.
type Outcomes map[Bucket]Record

// PossessionOutcomes buckets each game by possession share against barrier
// (a fraction, e.g. 0.55) and tallies the focus team's results per bucket.
// Games without possession time land in the balanced bucket.
func PossessionOutcomes(bundles []*Bundle, focus model.TeamID, barrier float64) (Outcomes, error) {
	if len(bundles) == 0 {
		return nil, ErrNoBundles
	}
	if barrier <= 0.5 || barrier > 1 {
		return nil, fmt.Errorf("possession outcomes: barrier %.2f outside (0.5, 1]", barrier)
	}

	out := Outcomes{BucketFocus: {}, BucketOpponent: {}, BucketBalanced: {}}
	for _, b := range bundles {
		if !b.Teams.Has(focus) {
			return nil, fmt.Errorf("possession outcomes %q: %w: %q", b.Source, ErrUnknownTeam, focus)
		}
		if !b.Has(CategoryPossession) || !b.Has(CategoryScore) {
			return nil, fmt.Errorf("possession outcomes %q: %w", b.Source, ErrCategoryMissing)
		}
		opp := b.Teams.Other(focus)

		bucket := BucketBalanced
		switch share := b.PossessionShare(focus) / 100; {
		case share == 0 && b.PossessionShare(opp) == 0:
		case share >= barrier:
			bucket = BucketFocus
		case 1-share >= barrier:
			bucket = BucketOpponent
		}

		score := b.counts[CategoryScore]
		r := out[bucket]
		r.Games++
		switch {
		case score[focus] > score[opp]:
			r.Wins++
		case score[focus] < score[opp]:
			r.Losses++
		default:
			r.Draws++
		}
		out[bucket] = r
	}
	return out, nil
}
