package xredis

import "errors"

var (
	ErrEmptyHost   = errors.New("xredis: empty host")
	ErrInvalidPort = errors.New("xredis: invalid port")
	ErrClosed      = errors.New("xredis: client closed")
)
