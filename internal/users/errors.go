package users

import "errors"

// ErrNotFound is returned when no user has the requested ID.
var ErrNotFound = errors.New("user not found")
