package match

import "errors"

var (
	ErrInvalidRelate = errors.New("invalid relate pair")
	ErrIO            = errors.New("match: i/o error")
)
