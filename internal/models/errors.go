package models

import "errors"

// Custom errors
var (
	// ErrDataUnavailable indicates an upstream stats source failed after retries
	ErrDataUnavailable = errors.New("upstream data unavailable")

	// ErrUnknownEntity indicates a player or team identifier could not be resolved
	ErrUnknownEntity = errors.New("unknown player or team")

	// ErrModelNotFound indicates the requested model artifact is missing from the store
	ErrModelNotFound = errors.New("model not found")

	// ErrFeatureSchemaMismatch indicates live predictors diverge from the trained schema
	ErrFeatureSchemaMismatch = errors.New("feature schema mismatch")

	// ErrMalformedMatchup indicates a matchup string could not be parsed
	ErrMalformedMatchup = errors.New("malformed matchup string")

	// ErrUnknownStat indicates a stat name with no corresponding game-log column
	ErrUnknownStat = errors.New("unknown stat")
)
