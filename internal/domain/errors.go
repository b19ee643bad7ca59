package domain

import "errors"

var (
	ErrClientNotFound     = errors.New("client definition not found")
	ErrRunSessionNotFound = errors.New("run session not found")
	ErrUnauthorized       = errors.New("client secret does not match")
)
