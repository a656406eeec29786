package aggregator

import "github.com/pable/go-bandy-metrics/internal/model"

// OriginUnknown labels shots taken before any possession was established.
const OriginUnknown = "okänd"

// Shot is a shot or goal with the attack that produced it.
type Shot struct {
	Index      int
	Team       model.TeamID
	At         model.Clock
	Origin     string      // tag of the event that started the attack
	AttackTime model.Clock // time from gaining the ball to the shot
	Goal       bool
}

// Goal is one entry in a match's goal log.
type Goal struct {
	Source     string
	Team       model.TeamID
	At         model.Clock
	Origin     string
	ShotType   string
	AttackTime model.Clock
}

type attackLog struct {
	shots   []Shot
	goals   []Goal
	origins TeamLabels
}

// traceAttacks follows possession separately from the timeline: restarts
// always hand the ball over, and the gain time is kept so the length of each
// attack can be measured.
func traceAttacks(raw *model.RawMatch) *attackLog {
	var (
		teams    = raw.Teams
		holder   = model.NoTeam
		origin   string
		gainedAt model.Clock
		log      = &attackLog{origins: TeamLabels{teams.Home: {}, teams.Away: {}}}
	)

	for i, e := range raw.Events {
		switch {
		case model.IsShotAttempt(e.Kind):
			shot := Shot{Index: e.Index, Team: holder, At: e.At, Origin: origin, AttackTime: e.At - gainedAt, Goal: e.Kind == model.KindGoal}
			if holder == model.NoTeam {
				shot.Team, shot.Origin, shot.AttackTime = e.Team, OriginUnknown, 0
			}
			if !teams.Has(shot.Team) {
				continue
			}
			log.shots = append(log.shots, shot)
			log.origins[shot.Team][shot.Origin]++
			if shot.Goal {
				log.goals = append(log.goals, Goal{
					Team:       shot.Team,
					At:         shot.At,
					Origin:     shot.Origin,
					ShotType:   goalShotType(raw.Events, i),
					AttackTime: shot.AttackTime,
				})
			}
		case !teams.Has(e.Team):
			// restarts and gains without a team carry no possession information
		case model.Classify(e.Kind) == model.ClassGain && e.Team != holder,
			model.IsStartOfPlay(e.Kind):
			holder, origin, gainedAt = e.Team, e.Kind.String(), e.At
		case model.Classify(e.Kind) == model.ClassLoss && e.Team == holder:
			holder, origin, gainedAt = teams.Other(e.Team), e.Kind.String(), e.At
		}
	}

	return log
}

// goalShotType finds the skottyp annotation that follows the goal at
// position i, stopping at the next shot.
func goalShotType(events []model.Event, i int) string {
	team := events[i].Team
	for _, e := range events[i+1:] {
		if model.IsShotAttempt(e.Kind) {
			break
		}
		if e.Kind == model.KindShotType && e.Team == team {
			return e.Subevent
		}
	}
	return ""
}
