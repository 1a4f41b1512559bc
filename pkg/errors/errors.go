package errors

import "errors"

var (
	ErrNotFound   = errors.New("resource not found")
	ErrBadRequest = errors.New("bad request")
	ErrDuplicate  = errors.New("resource already exists")
)
