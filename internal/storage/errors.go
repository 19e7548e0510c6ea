package storage

import "errors"

// ErrRunNotFound is returned by UpdateRun when no row has the run's ID.
var ErrRunNotFound = errors.New("generation run not found")
