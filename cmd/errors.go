package cmd

import "errors"

var (
	// ErrNoSelection is returned when an action needs a highlighted segment
	// and there is none
	ErrNoSelection = errors.New("no segment selected")
)
