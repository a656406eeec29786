package storage

import "errors"

var (
	ErrMatchNotFound   = errors.New("match not found")
	ErrAmbiguousPrefix = errors.New("hash prefix matches more than one match")
	ErrUnknownCategory = errors.New("unknown category in store")
)
