package xconf

import "errors"

var (
	ErrEmptyPath         = errors.New("xconf: empty config path")
	ErrUnsupportedFormat = errors.New("xconf: unsupported config format")
	ErrRead              = errors.New("xconf: read config")
	ErrParse             = errors.New("xconf: parse config")
	ErrDecode            = errors.New("xconf: decode config")
	ErrNilTarget         = errors.New("xconf: nil decode target")
	ErrNoSource          = errors.New("xconf: document has no source file")
)
