package service

import "errors"

// Error taxonomy. Handlers map ErrInvalidArgument to 400 and ErrNotFound to
// 404; anything else is a 500. Degraded collaborators never surface as
// errors, only as warnings and empty results.
var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrNotFound        = errors.New("not found")
)
