package domain

import "errors"

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrPartyNotFound   = errors.New("party not found")
	ErrMethodNotFound  = errors.New("funding method not found")
	ErrUnknownAction   = errors.New("unknown action")
	ErrInvalidCatalog  = errors.New("invalid catalog")
	ErrInvalidHost     = errors.New("invalid host config")
)
