package services

import "errors"

var (
	ErrTriggerExists    = errors.New("a response with this trigger already exists")
	ErrResponseNotFound = errors.New("response not found")
	ErrInvalidKind      = errors.New("invalid response kind")
)
