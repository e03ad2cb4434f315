package documents

import (
	"context"

	"github.com/dmitrijs2005/gophdocs/internal/client/models"
)

// Repository is the local replica. Get returns common.ErrorNotFound for an
// unknown id.
type Repository interface {
	Get(ctx context.Context, id string) (*models.EncryptedDocument, error)
	Set(ctx context.Context, doc *models.EncryptedDocument) error
	List(ctx context.Context) ([]models.EncryptedDocument, error)
}
