package apperr

import "errors"

var (
	ErrNotFound         = errors.New("not found")
	ErrInvalidTag       = errors.New("invalid tag")
	ErrInvalidDate      = errors.New("invalid date")
	ErrNotATask         = errors.New("not a task")
	ErrNoProjectJournal = errors.New("no project journal configured")
	ErrNothingToUndo    = errors.New("nothing to undo")
)
