// Package objectstore writes signed tokens to a named container under a key.
//
// Writes are unconditional overwrites: the last write for a key wins.
package objectstore

import (
	"context"

	"statuslist/internal/statuslist/domain"
	dErrors "statuslist/pkg/domain-errors"
)

// ContentTypeJSON is the content type stored alongside every token body.
const ContentTypeJSON = "application/json"

// ObjectStore persists one object per (container, key).
type ObjectStore interface {
	Put(ctx context.Context, container, key string, body []byte, contentType string) error
}

func storageError(err error, msg string) error {
	return dErrors.WrapAs(err, dErrors.CodeStorageFailed, domain.ErrStorage.Error()+": "+msg)
}
