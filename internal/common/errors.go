// Package common defines shared constants and sentinel errors used across the
// Inventra core. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Checkout errors.
	ErrorInsufficientPayment = errors.New("insufficient payment")
	ErrorEmptyBasket         = errors.New("empty basket")

	// Snapshot / archive errors.
	ErrorBadArchive     = errors.New("bad archive")
	ErrorBadSnapshot    = errors.New("bad snapshot")
	ErrorSchemaMismatch = errors.New("snapshot schema mismatch")

	// Sync errors.
	ErrorSyncInProgress = errors.New("sync already in progress")
	ErrorRemoteMissing  = errors.New("remote object missing")
)
