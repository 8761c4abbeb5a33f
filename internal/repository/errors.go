// Package repository holds the persistence adapters: MySQL and Postgres
// booking stores, users and refresh tokens, and the Redis ticket history.
// The sentinel values below let handlers distinguish lookup failures
// from infrastructure errors.
package repository

import "errors"

// ErrNotFound is returned when a lookup matches no row.  Handlers
// translate it into a 404 (or a 401 for credentials).
var ErrNotFound = errors.New("not found")

// ErrEmailExists is returned by UserRepo.Create when the email is taken.
var ErrEmailExists = errors.New("email already exists")

// ErrDuplicateBooking is returned when a booking ID is already stored.
var ErrDuplicateBooking = errors.New("booking already exists")
