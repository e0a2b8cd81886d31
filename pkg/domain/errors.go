package domain

import "errors"

// ErrSessionNotFound is returned when a session ID cannot be found in the store.
var ErrSessionNotFound = errors.New("session not found")

// ErrNoOpeningNode is returned when a graph contains no opening-type node to
// seed a call from.
var ErrNoOpeningNode = errors.New("graph has no opening node")
