// Package metadata stores small client settings, such as the last opened
// document, next to the local replica.
package metadata

import (
	"context"
)

// Repository is a tiny key/value store. Get returns nil, nil for a missing
// key. SetMany and DeleteMany apply all keys or none.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	SetMany(ctx context.Context, values map[string][]byte) error
	Delete(ctx context.Context, key string) error
	DeleteMany(ctx context.Context, keys ...string) error
}

// Keys used by the client.
const (
	KeyLastDocumentID = "last_document_id"
	KeyLastSecret     = "last_secret"
)
