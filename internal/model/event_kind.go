package model

import "strings"

// EventKind is the closed vocabulary of log tags.
type EventKind int

const (
	KindUnknown EventKind = iota

	// possession gained
	KindShot
	KindFreeStroke
	KindScrimmage
	KindHitIn
	KindThrowOut
	KindFaceOff
	KindBreakaway
	KindBall
	KindInterception
	KindPass

	// possession lost
	KindLostBall
	KindClearance
	KindOffside

	// play suspended until the next gain
	KindTimeout
	KindGoal
	KindStop
	KindPenalty
	KindCorner
	KindPenaltyShot
	KindShotType
)

var kindTags = map[EventKind]string{
	KindShot:         "skott",
	KindFreeStroke:   "frislag",
	KindScrimmage:    "närkamp",
	KindHitIn:        "inslag",
	KindThrowOut:     "utkast",
	KindFaceOff:      "avslag",
	KindBreakaway:    "friläge",
	KindBall:         "boll",
	KindInterception: "brytning",
	KindPass:         "passning",
	KindLostBall:     "bolltapp",
	KindClearance:    "rensning",
	KindOffside:      "offside",
	KindTimeout:      "timeout",
	KindGoal:         "mål",
	KindStop:         "stop",
	KindPenalty:      "utvisning",
	KindCorner:       "hörna",
	KindPenaltyShot:  "straff",
	KindShotType:     "skottyp",
}

var tagKinds = func() map[string]EventKind {
	m := make(map[string]EventKind, len(kindTags))
	for k, tag := range kindTags {
		m[tag] = k
	}
	return m
}()

// String returns the log tag for the kind.
func (k EventKind) String() string {
	if tag, ok := kindTags[k]; ok {
		return tag
	}
	return "unknown"
}

// ParseEventKind maps a log tag to its kind. Unrecognised tags return
// KindUnknown and false.
func ParseEventKind(tag string) (EventKind, bool) {
	k, ok := tagKinds[strings.ToLower(strings.TrimSpace(tag))]
	if !ok {
		return KindUnknown, false
	}
	return k, true
}

// Class is what an event does to possession.
type Class int

const (
	ClassUnknown Class = iota
	ClassGain
	ClassLoss
	ClassAwait
)

func (c Class) String() string {
	switch c {
	case ClassGain:
		return "gain"
	case ClassLoss:
		return "loss"
	case ClassAwait:
		return "await"
	default:
		return "unknown"
	}
}

// Classify is total over EventKind; every kind except KindUnknown has a class.
func Classify(k EventKind) Class {
	switch k {
	case KindShot, KindFreeStroke, KindScrimmage, KindHitIn, KindThrowOut,
		KindFaceOff, KindBreakaway, KindBall, KindInterception, KindPass:
		return ClassGain
	case KindLostBall, KindClearance, KindOffside:
		return ClassLoss
	case KindTimeout, KindGoal, KindStop, KindPenalty, KindCorner,
		KindPenaltyShot, KindShotType:
		return ClassAwait
	default:
		return ClassUnknown
	}
}

// IsStartOfPlay reports restarts that hand the ball to a team regardless of
// who held it before.
func IsStartOfPlay(k EventKind) bool {
	switch k {
	case KindFaceOff, KindFreeStroke, KindHitIn, KindThrowOut, KindCorner, KindPenaltyShot:
		return true
	}
	return false
}

// IsDuel reports contested ball recoveries.
func IsDuel(k EventKind) bool {
	return k == KindScrimmage || k == KindInterception
}

// IsShotAttempt reports shots on goal, scored or not.
func IsShotAttempt(k EventKind) bool {
	return k == KindShot || k == KindGoal
}

// ShotTypes is the recognised vocabulary of skottyp subevents, in report order.
var ShotTypes = []string{
	"centralt",
	"retur",
	"distans",
	"vinkel",
	"friläge",
	"hörna",
	"frislag",
	"straff",
}

// IsShotType reports whether label belongs to ShotTypes.
func IsShotType(label string) bool {
	for _, st := range ShotTypes {
		if st == label {
			return true
		}
	}
	return false
}
