package model

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Clock is match time in whole seconds. All duration arithmetic is done on
// Clock values; the readable H:MM:SS form only appears at the edges.
type Clock int64

// ParseClock reads "H:MM:SS", "HH:MM:SS" or "MM:SS".
func ParseClock(s string) (Clock, error) {
	s = strings.TrimSpace(s)
	parts := strings.Split(s, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}
	var total int64
	for i, p := range parts {
		n, err := strconv.ParseInt(p, 10, 64)
		if err != nil || n < 0 {
			return 0, fmt.Errorf("%w: %q", ErrInvalidClock, s)
		}
		// minutes and seconds must stay below 60; the leading field is free
		if i > 0 && n >= 60 {
			return 0, fmt.Errorf("%w: %q", ErrInvalidClock, s)
		}
		if total > (math.MaxInt64-n)/60 {
			return 0, fmt.Errorf("%w: %q out of range", ErrInvalidClock, s)
		}
		total = total*60 + n
	}
	return Clock(total), nil
}

// String renders the clock as H:MM:SS.
func (c Clock) String() string {
	sign := ""
	if c < 0 {
		sign = "-"
		c = -c
	}
	return fmt.Sprintf("%s%d:%02d:%02d", sign, c/3600, c/60%60, c%60)
}

// Seconds returns the clock as a plain second count.
func (c Clock) Seconds() int64 {
	return int64(c)
}
