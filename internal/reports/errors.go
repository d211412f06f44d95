package reports

import "errors"

var (
	ErrNotFound        = errors.New("report not found")
	ErrInvalidInput    = errors.New("invalid report input")
	ErrProjectNotFound = errors.New("project not found")
)
