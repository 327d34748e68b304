package core

import (
	"errors"
	"fmt"
)

// ErrPrecondition marks failures detected before any request is issued.
var ErrPrecondition = errors.New("precondition failed")

var (
	ErrMissingID          = fmt.Errorf("%w: missing identifier", ErrPrecondition)
	ErrMissingName        = fmt.Errorf("%w: missing name", ErrPrecondition)
	ErrMissingCredentials = fmt.Errorf("%w: missing credentials", ErrPrecondition)
	ErrInvalidCondition   = fmt.Errorf("%w: invalid rule condition", ErrPrecondition)
)

// ErrNothingToUpdate is returned for partial updates that change no field.
var ErrNothingToUpdate = fmt.Errorf("%w: nothing to update", ErrPrecondition)
