package documents

import (
	"context"
	"fmt"

	"github.com/hashicorp/go-memdb"

	"github.com/dmitrijs2005/gophdocs/internal/common"
	"github.com/dmitrijs2005/gophdocs/internal/server/models"
)

const tblDocuments = "documents"

var schema = &memdb.DBSchema{
	Tables: map[string]*memdb.TableSchema{
		tblDocuments: {
			Name: tblDocuments,
			Indexes: map[string]*memdb.IndexSchema{
				"id": {
					Name:    "id",
					Unique:  true,
					Indexer: &memdb.StringFieldIndex{Field: "ID"},
				},
			},
		},
	},
}

// MemoryRepository keeps documents in process memory. It backs the server
// when no database is configured.
type MemoryRepository struct {
	db *memdb.MemDB
}

func NewMemoryRepository() (*MemoryRepository, error) {
	db, err := memdb.NewMemDB(schema)
	if err != nil {
		return nil, fmt.Errorf("new memdb: %w", err)
	}
	return &MemoryRepository{db: db}, nil
}

func (r *MemoryRepository) Get(_ context.Context, id string) (*models.Document, error) {
	txn := r.db.Txn(false)
	defer txn.Abort()

	raw, err := txn.First(tblDocuments, "id", id)
	if err != nil {
		return nil, fmt.Errorf("find document %s: %w", id, err)
	}
	if raw == nil {
		return nil, common.ErrorNotFound
	}
	doc := *raw.(*models.Document)
	return &doc, nil
}

func (r *MemoryRepository) Save(_ context.Context, doc *models.Document) error {
	txn := r.db.Txn(true)
	defer txn.Abort()

	raw, err := txn.First(tblDocuments, "id", doc.ID)
	if err != nil {
		return fmt.Errorf("find document %s: %w", doc.ID, err)
	}
	if raw != nil && raw.(*models.Document).LastModified >= doc.LastModified {
		return common.ErrorVersionConflict
	}

	record := *doc
	if err := txn.Insert(tblDocuments, &record); err != nil {
		return fmt.Errorf("insert document %s: %w", doc.ID, err)
	}
	txn.Commit()
	return nil
}
