package models

import (
	"errors"
	"fmt"
)

var (
	ErrValidation       = errors.New("validation failed")
	ErrInvalidReference = errors.New("invalid reference")
	ErrConflict         = errors.New("conflict")
	ErrForbidden        = errors.New("forbidden")
	ErrNotFound         = errors.New("not found")
	ErrUnauthorized     = errors.New("unauthorized")
)

var (
	ErrTerminalStatus    = fmt.Errorf("%w: order is canceled or fulfilled and cannot change", ErrConflict)
	ErrAlreadyInStatus   = fmt.Errorf("%w: order already has the requested status", ErrValidation)
	ErrInvalidTransition = fmt.Errorf("%w: status transition is not allowed", ErrConflict)
	ErrDuplicateOpinion  = fmt.Errorf("%w: order already has an opinion", ErrConflict)
	ErrUsernameTaken     = fmt.Errorf("%w: username already exists", ErrConflict)
)
