// Package services implements the server's document operations on top of the
// repository and the optional blob store.
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/dmitrijs2005/gophdocs/internal/common"
	"github.com/dmitrijs2005/gophdocs/internal/logging"
	"github.com/dmitrijs2005/gophdocs/internal/rpcx"
	"github.com/dmitrijs2005/gophdocs/internal/server/metrics"
	"github.com/dmitrijs2005/gophdocs/internal/server/models"
	"github.com/dmitrijs2005/gophdocs/internal/server/repositories/documents"
	"github.com/dmitrijs2005/gophdocs/internal/server/storage"
)

// MaxContentSize bounds the ciphertext accepted by Put.
const MaxContentSize = rpcx.MaxContentSize

const maxSaveAttempts = 5

type getRequest struct {
	ID string `validate:"required,uuid"`
}

type putRequest struct {
	ID      string `validate:"required,uuid"`
	Content string `validate:"required,max=8388608"`
}

type DocumentService struct {
	repo     documents.Repository
	blobs    storage.BlobStore
	metrics  *metrics.Metrics
	log      logging.Logger
	validate *validator.Validate
	now      func() time.Time
}

// NewDocumentService builds the service. blobs may be nil, in which case
// ciphertext is stored inline in the repository. m may be nil.
func NewDocumentService(repo documents.Repository, blobs storage.BlobStore, m *metrics.Metrics, log logging.Logger) *DocumentService {
	return &DocumentService{
		repo:     repo,
		blobs:    blobs,
		metrics:  m,
		log:      log.With("module", "documents"),
		validate: validator.New(),
		now:      time.Now,
	}
}

func (s *DocumentService) check(req any) error {
	if err := s.validate.Struct(req); err != nil {
		return fmt.Errorf("%w: %v", common.ErrorValidation, err)
	}
	return nil
}

// Get returns the latest version of a document with its ciphertext loaded.
func (s *DocumentService) Get(ctx context.Context, id string) (*models.Document, error) {
	if err := s.check(getRequest{ID: id}); err != nil {
		return nil, err
	}

	doc, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("document %s: %w", id, err)
	}

	if doc.BlobKey != "" {
		if s.blobs == nil {
			return nil, fmt.Errorf("%w: document %s is in the blob store, which is not configured", common.ErrorInternal, id)
		}
		content, err := s.blobs.Get(ctx, doc.BlobKey)
		if err != nil {
			return nil, fmt.Errorf("document %s: %w", id, err)
		}
		doc.Content = content
	}
	return doc, nil
}

// Put stores a new version and returns its last_modified: the current Unix
// time in milliseconds, or one more than the previous version when the clock
// has not moved past it. Versions of a document therefore strictly increase.
func (s *DocumentService) Put(ctx context.Context, id, content string) (int64, error) {
	if err := s.check(putRequest{ID: id, Content: content}); err != nil {
		return 0, err
	}

	for attempt := 0; attempt < maxSaveAttempts; attempt++ {
		var prev *models.Document
		cur, err := s.repo.Get(ctx, id)
		switch {
		case err == nil:
			prev = cur
		case !errors.Is(err, common.ErrorNotFound):
			return 0, fmt.Errorf("document %s: %w", id, err)
		}

		lastModified := s.now().UnixMilli()
		if prev != nil && lastModified <= prev.LastModified {
			lastModified = prev.LastModified + 1
		}

		doc := &models.Document{ID: id, LastModified: lastModified}
		if s.blobs != nil {
			doc.BlobKey = storage.Key(id, lastModified)
			if err := s.blobs.Put(ctx, doc.BlobKey, content); err != nil {
				return 0, err
			}
		} else {
			doc.Content = content
		}

		err = s.repo.Save(ctx, doc)
		if err == nil {
			s.metrics.ObserveDocumentSize(len(content))
			if prev != nil && prev.BlobKey != "" && s.blobs != nil {
				s.dropBlob(ctx, prev.BlobKey)
			}
			s.log.Debug(ctx, "document stored", "id", id, "last_modified", lastModified)
			return lastModified, nil
		}

		if doc.BlobKey != "" {
			s.dropBlob(ctx, doc.BlobKey)
		}
		if !errors.Is(err, common.ErrorVersionConflict) {
			return 0, fmt.Errorf("document %s: %w", id, err)
		}
		s.metrics.AddSaveRetry()
		s.log.Info(ctx, "concurrent write, retrying", "id", id, "attempt", attempt+1)
	}

	return 0, fmt.Errorf("document %s: %w", id, common.ErrorVersionConflict)
}

func (s *DocumentService) dropBlob(ctx context.Context, key string) {
	if err := s.blobs.Delete(ctx, key); err != nil {
		s.log.Warn(ctx, "blob cleanup failed", "key", key, "error", err)
	}
}
