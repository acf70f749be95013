// Package entity defines the entities and errors used in the application.
// It includes the URL struct, which maps a long URL to the short code derived
// from its identifier.
package entity

import (
	"errors"
	"time"
)

var (
	// ErrURLNotFound is returned when no finalized URL matches the given short code.
	// It is a negative result, not a failure.
	ErrURLNotFound = errors.New("url not found")
	// ErrAllocationConflict is returned when a concurrent writer won the race to
	// create the record for a long URL. The operation is safe to retry.
	ErrAllocationConflict = errors.New("url allocation conflict")
	// ErrStorageUnavailable wraps infrastructure failures of the underlying storage.
	ErrStorageUnavailable = errors.New("storage unavailable")
)

// URL represents a shortened URL.
type URL struct {
	ID        int64     // ID is the unique identifier assigned by the storage.
	LongURL   string    // LongURL is the original URL the short code resolves to.
	ShortCode string    // ShortCode is the base 62 encoding of ID.
	CreatedAt time.Time // CreatedAt is the timestamp when the URL was created.
}
