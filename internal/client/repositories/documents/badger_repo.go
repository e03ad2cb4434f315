package documents

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/dmitrijs2005/gophdocs/internal/client/models"
	"github.com/dmitrijs2005/gophdocs/internal/common"
	"github.com/vmihailenco/msgpack/v5"
)

const keyPrefix = "doc:"

type BadgerRepository struct {
	db *badger.DB
}

func NewBadgerRepository(db *badger.DB) *BadgerRepository {
	return &BadgerRepository{db: db}
}

func key(id string) []byte {
	return []byte(keyPrefix + id)
}

func (r *BadgerRepository) Get(_ context.Context, id string) (*models.EncryptedDocument, error) {
	var raw []byte
	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key(id))
		if err != nil {
			return err
		}
		raw, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, common.ErrorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get document[%s]: %w", id, err)
	}

	var d models.EncryptedDocument
	if err := msgpack.Unmarshal(raw, &d); err != nil {
		return nil, fmt.Errorf("failed to decode document[%s]: %w", id, err)
	}
	return &d, nil
}

func (r *BadgerRepository) Set(_ context.Context, doc *models.EncryptedDocument) error {
	raw, err := msgpack.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode document[%s]: %w", doc.ID, err)
	}
	err = r.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key(doc.ID), raw)
	})
	if err != nil {
		return fmt.Errorf("failed to set document[%s]: %w", doc.ID, err)
	}
	return nil
}

func (r *BadgerRepository) List(_ context.Context) ([]models.EncryptedDocument, error) {
	var result []models.EncryptedDocument
	prefix := []byte(keyPrefix)

	err := r.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			raw, err := it.Item().ValueCopy(nil)
			if err != nil {
				return err
			}
			var d models.EncryptedDocument
			if err := msgpack.Unmarshal(raw, &d); err != nil {
				return fmt.Errorf("decode %s: %w", it.Item().Key(), err)
			}
			result = append(result, d)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	return result, nil
}
