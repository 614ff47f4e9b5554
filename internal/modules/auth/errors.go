package auth

import "errors"

var (
	ErrInvalidEmail = errors.New("invalid email")
	ErrDirectory    = errors.New("rvp directory unavailable")
)
