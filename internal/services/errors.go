package services

import "errors"

// --- Errors shared by the session-driven flows ---
var (
	ErrRequestInFlight = errors.New("a request for this action is already in progress")
	ErrNotSignedIn     = errors.New("user is not signed in")
	ErrNotOwner        = errors.New("record belongs to another user")
)
