package model

import "errors"

var (
	ErrInvalidClock = errors.New("invalid clock")
	ErrInvalidTeams = errors.New("invalid teams")
)
