package booking

import (
	"errors"
	"strings"
)

var (
	// ErrIncompleteBooking is returned by Commit when movie, theater, date,
	// show time or seats are missing.  The user must finish the selection.
	ErrIncompleteBooking = errors.New("booking is incomplete")

	// ErrUnauthenticated is returned by Commit when no user is signed in.
	ErrUnauthenticated = errors.New("sign in to complete the booking")

	// ErrPersistence is returned by Commit when the booking store rejected
	// the write.  The selection is untouched and the caller may retry.
	ErrPersistence = errors.New("booking could not be saved")

	// ErrIdentityUnavailable is returned by Commit when the identity
	// collaborator failed.  The user may be signed in; the commit can be
	// retried once the backend recovers.
	ErrIdentityUnavailable = errors.New("identity unavailable")

	// ErrCommitInProgress is returned when Commit is called while an
	// earlier call on the same selection has not returned yet.
	ErrCommitInProgress = errors.New("a commit is already in progress")
)

// IncompleteBookingError lists the fields that still need a value.
type IncompleteBookingError struct {
	Missing []string
}

func (e *IncompleteBookingError) Error() string {
	return ErrIncompleteBooking.Error() + ": missing " + strings.Join(e.Missing, ", ")
}

func (e *IncompleteBookingError) Is(target error) bool { return target == ErrIncompleteBooking }

// PersistenceError wraps the error reported by the booking store.
type PersistenceError struct {
	Err error
}

func (e *PersistenceError) Error() string {
	return ErrPersistence.Error() + ": " + e.Err.Error()
}

func (e *PersistenceError) Is(target error) bool { return target == ErrPersistence }

func (e *PersistenceError) Unwrap() error { return e.Err }
