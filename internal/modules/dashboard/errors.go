package dashboard

import "errors"

var (
	ErrBranchNotFound = errors.New("branch not found")
	ErrUnitNotFound   = errors.New("unit not found")
	ErrValidation     = errors.New("validation error")
	ErrPersistence    = errors.New("persistence failure")
)
