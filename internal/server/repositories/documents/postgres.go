package documents

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gophdocs/internal/common"
	"github.com/dmitrijs2005/gophdocs/internal/dbx"
	"github.com/dmitrijs2005/gophdocs/internal/server/models"
)

// PostgresRepository implements document storage over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Get(ctx context.Context, id string) (*models.Document, error) {
	query := `SELECT id, content, blob_key, last_modified FROM documents WHERE id = $1`

	var doc models.Document
	err := r.db.QueryRowContext(ctx, query, id).Scan(&doc.ID, &doc.Content, &doc.BlobKey, &doc.LastModified)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return &doc, nil
}

// Save upserts doc. The update only applies when it moves last_modified
// forward, so two concurrent writers cannot both win.
func (r *PostgresRepository) Save(ctx context.Context, doc *models.Document) error {
	query := `
		INSERT INTO documents (id, content, blob_key, last_modified)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id)
		DO UPDATE SET
			content = EXCLUDED.content,
			blob_key = EXCLUDED.blob_key,
			last_modified = EXCLUDED.last_modified
			WHERE documents.last_modified < EXCLUDED.last_modified;
	`
	res, err := r.db.ExecContext(ctx, query, doc.ID, doc.Content, doc.BlobKey, doc.LastModified)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	switch n {
	case 1:
		return nil
	case 0:
		return common.ErrorVersionConflict
	default:
		return fmt.Errorf("unexpected rows affected: %d", n)
	}
}
