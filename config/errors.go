package config

import "errors"

var (
	ErrParse      = errors.New("config: malformed document")
	ErrProbeType  = errors.New("config: invalid probe type")
	ErrProbeRef   = errors.New("config: sensor references unknown probe")
	ErrNetworkRef = errors.New("config: unknown network name")
	ErrDeciderRef = errors.New("config: decider references unknown named set")
	ErrBlock      = errors.New("config: invalid CIDR block")
	ErrFilter     = errors.New("config: invalid filter expression")
)
