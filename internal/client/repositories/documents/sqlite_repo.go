package documents

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gophdocs/internal/client/models"
	"github.com/dmitrijs2005/gophdocs/internal/common"
	"github.com/dmitrijs2005/gophdocs/internal/dbx"
)

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Get(ctx context.Context, id string) (*models.EncryptedDocument, error) {
	var d models.EncryptedDocument
	err := r.db.QueryRowContext(ctx, `
		SELECT id, ciphertext, last_modified, last_local_persist
		FROM documents WHERE id = ?`, id).
		Scan(&d.ID, &d.Ciphertext, &d.LastModified, &d.LastLocalPersist)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get document[%s]: %w", id, err)
	}
	return &d, nil
}

func (r *SQLiteRepository) Set(ctx context.Context, doc *models.EncryptedDocument) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO documents (id, ciphertext, last_modified, last_local_persist)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			ciphertext = excluded.ciphertext,
			last_modified = excluded.last_modified,
			last_local_persist = excluded.last_local_persist
	`, doc.ID, doc.Ciphertext, doc.LastModified, doc.LastLocalPersist)
	if err != nil {
		return fmt.Errorf("failed to set document[%s]: %w", doc.ID, err)
	}
	return nil
}

func (r *SQLiteRepository) List(ctx context.Context) ([]models.EncryptedDocument, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, ciphertext, last_modified, last_local_persist
		FROM documents ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	defer rows.Close()

	var result []models.EncryptedDocument
	for rows.Next() {
		var d models.EncryptedDocument
		if err := rows.Scan(&d.ID, &d.Ciphertext, &d.LastModified, &d.LastLocalPersist); err != nil {
			return nil, fmt.Errorf("failed to scan document row: %w", err)
		}
		result = append(result, d)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate document rows: %w", err)
	}

	return result, nil
}
