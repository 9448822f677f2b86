package model

import "errors"

var (
	// ErrMissingField is returned when a required field is absent from the input JSON
	ErrMissingField = errors.New("missing required field")

	// ErrInvalidLevel is returned when an unknown hierarchy level is requested
	ErrInvalidLevel = errors.New("invalid hierarchy level")

	// ErrSegmentNotFound is returned when no segment matches the requested id
	ErrSegmentNotFound = errors.New("segment not found")

	// ErrInvalidLevelIndex is returned when a click references a level that is not displayed
	ErrInvalidLevelIndex = errors.New("invalid level index")

	// ErrRangeRead is returned when a byte-range read cannot be satisfied
	ErrRangeRead = errors.New("byte range read failed")
)
