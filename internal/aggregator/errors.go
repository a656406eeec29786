package aggregator

import "errors"

var (
	ErrTeamsMismatch   = errors.New("bundles cover different teams")
	ErrCategoryMissing = errors.New("category not computed on both bundles")
	ErrShapeMismatch   = errors.New("category has a different shape")
	ErrNoBundles       = errors.New("nothing to compile")
	ErrUnknownTeam     = errors.New("team not in bundle")
	ErrNilBundle       = errors.New("nil bundle")
)
