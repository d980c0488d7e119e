package domain

import "errors"

var (
	ErrNotFound        = errors.New("not found")
	ErrDuplicateEmail  = errors.New("email already exists")
	ErrUnauthorized    = errors.New("unauthorized")
	ErrMalformedRecord = errors.New("malformed record")
)
