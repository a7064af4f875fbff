package classify

import "errors"

var (
	ErrFlowtypeName = errors.New("unknown flowtype name")
	ErrStartup      = errors.New("classifier failed startup assertions")
)
