// Package documents stores server-side document ciphertext.
package documents

import (
	"context"

	"github.com/dmitrijs2005/gophdocs/internal/server/models"
)

// Repository is the document store behind the HTTP and gRPC APIs.
//
// Get returns common.ErrorNotFound for an unknown id. Save inserts or
// replaces a document, but only with a strictly greater LastModified than the
// stored one; otherwise it returns common.ErrorVersionConflict and leaves the
// stored document untouched.
type Repository interface {
	Get(ctx context.Context, id string) (*models.Document, error)
	Save(ctx context.Context, doc *models.Document) error
}
