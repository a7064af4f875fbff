package side

import "errors"

var ErrValue = errors.New("invalid side value")
