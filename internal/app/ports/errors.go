package ports

import "errors"

var (
	ErrNotFound = errors.New("bookmark not found")
	ErrStorage  = errors.New("bookmark storage failure")
	ErrBusy     = errors.New("bookmark operation in progress")
	ErrSealed   = errors.New("exclusion set sealed after first capture")
)
