package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/gophdocs/internal/common"
	"github.com/dmitrijs2005/gophdocs/internal/logging"
	"github.com/dmitrijs2005/gophdocs/internal/server/models"
	"github.com/dmitrijs2005/gophdocs/internal/server/repositories/documents"
)

const docID = "4f9b2c1e-8d3a-4e6b-9c2d-1a2b3c4d5e6f"

type fakeBlobs struct {
	mu      sync.Mutex
	objects map[string]string
	putErr  error
}

func newFakeBlobs() *fakeBlobs { return &fakeBlobs{objects: map[string]string{}} }

func (f *fakeBlobs) Put(_ context.Context, key, data string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.putErr != nil {
		return f.putErr
	}
	f.objects[key] = data
	return nil
}

func (f *fakeBlobs) Get(_ context.Context, key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.objects[key]
	if !ok {
		return "", common.ErrorNotFound
	}
	return v, nil
}

func (f *fakeBlobs) Delete(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.objects, key)
	return nil
}

// conflictRepo reports a version conflict for the first n saves.
type conflictRepo struct {
	documents.Repository
	conflicts int
	saves     int
}

func (r *conflictRepo) Save(ctx context.Context, doc *models.Document) error {
	r.saves++
	if r.saves <= r.conflicts {
		return common.ErrorVersionConflict
	}
	return r.Repository.Save(ctx, doc)
}

func newService(t *testing.T, blobs *fakeBlobs) (*DocumentService, *documents.MemoryRepository) {
	t.Helper()
	repo, err := documents.NewMemoryRepository()
	require.NoError(t, err)

	var s *DocumentService
	if blobs != nil {
		s = NewDocumentService(repo, blobs, nil, logging.Nop{})
	} else {
		s = NewDocumentService(repo, nil, nil, logging.Nop{})
	}
	return s, repo
}

func fixedClock(ms int64) func() time.Time {
	return func() time.Time { return time.UnixMilli(ms) }
}

func TestPutGet_Inline(t *testing.T) {
	ctx := context.Background()
	s, _ := newService(t, nil)
	s.now = fixedClock(1_700_000_000_000)

	lm, err := s.Put(ctx, docID, `{"v":1}`)
	require.NoError(t, err)
	assert.Equal(t, int64(1_700_000_000_000), lm)

	doc, err := s.Get(ctx, docID)
	require.NoError(t, err)
	assert.Equal(t, `{"v":1}`, doc.Content)
	assert.Equal(t, lm, doc.LastModified)
}

func TestPut_LastModifiedStrictlyIncreases(t *testing.T) {
	ctx := context.Background()
	s, _ := newService(t, nil)
	s.now = fixedClock(1000)

	var prev int64
	for i := 0; i < 5; i++ {
		lm, err := s.Put(ctx, docID, "ct")
		require.NoError(t, err)
		assert.Greater(t, lm, prev)
		prev = lm
	}
	assert.Equal(t, int64(1004), prev)

	s.now = fixedClock(500)
	lm, err := s.Put(ctx, docID, "ct")
	require.NoError(t, err)
	assert.Equal(t, int64(1005), lm)
}

func TestGet_NotFound(t *testing.T) {
	s, _ := newService(t, nil)
	_, err := s.Get(context.Background(), docID)
	require.ErrorIs(t, err, common.ErrorNotFound)
}

func TestValidation(t *testing.T) {
	ctx := context.Background()
	s, _ := newService(t, nil)

	_, err := s.Get(ctx, "not-a-uuid")
	require.ErrorIs(t, err, common.ErrorValidation)

	_, err = s.Put(ctx, "", "ct")
	require.ErrorIs(t, err, common.ErrorValidation)

	_, err = s.Put(ctx, docID, "")
	require.ErrorIs(t, err, common.ErrorValidation)

	_, err = s.Put(ctx, docID, strings.Repeat("x", MaxContentSize+1))
	require.ErrorIs(t, err, common.ErrorValidation)
}

func TestPut_BlobOffload(t *testing.T) {
	ctx := context.Background()
	blobs := newFakeBlobs()
	s, repo := newService(t, blobs)
	s.now = fixedClock(2000)

	lm, err := s.Put(ctx, docID, "first")
	require.NoError(t, err)

	stored, err := repo.Get(ctx, docID)
	require.NoError(t, err)
	assert.Empty(t, stored.Content)
	assert.Equal(t, "documents/"+docID+"/2000", stored.BlobKey)

	doc, err := s.Get(ctx, docID)
	require.NoError(t, err)
	assert.Equal(t, "first", doc.Content)
	assert.Equal(t, lm, doc.LastModified)

	_, err = s.Put(ctx, docID, "second")
	require.NoError(t, err)
	assert.Len(t, blobs.objects, 1, "previous version is removed")
	assert.Equal(t, "second", blobs.objects["documents/"+docID+"/2001"])
}

func TestPut_BlobFailureLeavesDocument(t *testing.T) {
	ctx := context.Background()
	blobs := newFakeBlobs()
	s, _ := newService(t, blobs)

	_, err := s.Put(ctx, docID, "first")
	require.NoError(t, err)

	blobs.putErr = errors.New("s3 down")
	_, err = s.Put(ctx, docID, "second")
	require.Error(t, err)

	doc, err := s.Get(ctx, docID)
	require.NoError(t, err)
	assert.Equal(t, "first", doc.Content)
}

func TestGet_BlobWithoutStore(t *testing.T) {
	ctx := context.Background()
	s, repo := newService(t, nil)
	require.NoError(t, repo.Save(ctx, &models.Document{ID: docID, BlobKey: "documents/x/1", LastModified: 1}))

	_, err := s.Get(ctx, docID)
	require.ErrorIs(t, err, common.ErrorInternal)
}

func TestPut_RetriesOnConflict(t *testing.T) {
	ctx := context.Background()
	mem, err := documents.NewMemoryRepository()
	require.NoError(t, err)
	repo := &conflictRepo{Repository: mem, conflicts: 2}
	blobs := newFakeBlobs()

	s := NewDocumentService(repo, blobs, nil, logging.Nop{})
	lm, err := s.Put(ctx, docID, "ct")
	require.NoError(t, err)
	assert.Equal(t, 3, repo.saves)
	assert.Len(t, blobs.objects, 1, "orphans from lost attempts are removed")

	doc, err := s.Get(ctx, docID)
	require.NoError(t, err)
	assert.Equal(t, lm, doc.LastModified)
}

func TestPut_GivesUpAfterRepeatedConflicts(t *testing.T) {
	mem, err := documents.NewMemoryRepository()
	require.NoError(t, err)
	repo := &conflictRepo{Repository: mem, conflicts: maxSaveAttempts}

	s := NewDocumentService(repo, nil, nil, logging.Nop{})
	_, err = s.Put(context.Background(), docID, "ct")
	require.ErrorIs(t, err, common.ErrorVersionConflict)
	assert.Equal(t, maxSaveAttempts, repo.saves)
}
