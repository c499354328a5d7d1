package ledger

import "errors"

var (
	// ErrInvalidRange is returned when range end precedes range start.
	ErrInvalidRange = errors.New("ledger: range end before range start")
	// ErrEmptyProjectID is returned when project id is empty.
	ErrEmptyProjectID = errors.New("ledger: empty project id")
)
