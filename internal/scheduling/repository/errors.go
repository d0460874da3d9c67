package repository

import "errors"

var (
	ErrFailedToInsert = errors.New("failed to insert record")
	ErrFailedToGet    = errors.New("failed to get record")
	ErrFailedToList   = errors.New("failed to list records")
	ErrFailedToUpdate = errors.New("failed to update record")
	ErrFailedToDelete = errors.New("failed to delete record")

	// ErrVersionConflict means a compare-and-swap write found a version
	// other than the one the caller read. The caller must re-read and retry.
	ErrVersionConflict = errors.New("version conflict")

	// ErrNotFound means the targeted row does not exist (update/delete paths).
	ErrNotFound = errors.New("record not found")
)
