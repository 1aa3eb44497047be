package domain

import "errors"

var (
	ErrCredentialNotFound = errors.New("credential not found")
	ErrUnknownPlatform    = errors.New("unknown platform")
)
