// Package apperrors holds the sentinel errors shared across divvyplan.
package apperrors

import "errors"

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrNotFound indicates that a requested record or director could not be found.
var ErrNotFound = errors.New("not found")

// ErrRosterFull indicates an attempt to add a director beyond the supported maximum.
var ErrRosterFull = errors.New("director limit reached")

// ErrLastDirector indicates an attempt to remove the only remaining director.
var ErrLastDirector = errors.New("at least one director is required")
