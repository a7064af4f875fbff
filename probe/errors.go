package probe

import "errors"

var (
	ErrType      = errors.New("invalid probe type")
	ErrDuplicate = errors.New("duplicate probe name")
	ErrNotFound  = errors.New("probe not found")
)
