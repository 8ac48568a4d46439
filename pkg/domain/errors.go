package domain

import "errors"

// ErrSessionNotFound is returned when a session ID is unknown or its session has expired.
var ErrSessionNotFound = errors.New("session not found")

// ErrRecordNotFound is returned by record stores when no record matches the lookup.
var ErrRecordNotFound = errors.New("record not found")

// ErrUnknownStep is returned when a step identifier is not part of the registry.
var ErrUnknownStep = errors.New("unknown step")
