// Package mediaobjects keeps uploaded image bytes in the server database,
// for deployments without object storage.
package mediaobjects

import "context"

type Repository interface {
	Put(ctx context.Context, key, contentType string, data []byte) error
	// Get returns common.ErrorNotFound for unknown keys.
	Get(ctx context.Context, key string) (contentType string, data []byte, err error)
	Delete(ctx context.Context, key string) error
}
