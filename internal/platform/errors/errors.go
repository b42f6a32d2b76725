// Package apperrors holds the sentinel errors shared across modules and
// the stable codes clients see for them.
package apperrors

import "errors"

var (
	ErrInvalidInput        = errors.New("invalid input")
	ErrNotFound            = errors.New("not found")
	ErrNoActiveSession     = errors.New("no active session")
	ErrActiveSessionExists = errors.New("active session already exists")
	ErrSessionCompleted    = errors.New("session already completed")
	ErrUpgradeRequired     = errors.New("free sessions used up: upgrade or accept the maintenance protocol")
)

const CodeInternal = "internal"

var codes = []struct {
	err  error
	code string
}{
	{ErrInvalidInput, "invalid_input"},
	{ErrNotFound, "not_found"},
	{ErrNoActiveSession, "no_active_session"},
	{ErrActiveSessionExists, "active_session_exists"},
	{ErrSessionCompleted, "session_completed"},
	{ErrUpgradeRequired, "upgrade_required"},
}

// Code returns the stable code of the first sentinel err wraps, or
// CodeInternal.
func Code(err error) string {
	for _, c := range codes {
		if errors.Is(err, c.err) {
			return c.code
		}
	}
	return CodeInternal
}
