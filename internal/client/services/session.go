// Package services contains application services for the GophDocs client.
// This file defines the session service: the single open document, its
// replica engine, and the remembered last session.
package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/gophdocs/internal/client/client"
	"github.com/dmitrijs2005/gophdocs/internal/client/events"
	"github.com/dmitrijs2005/gophdocs/internal/client/models"
	"github.com/dmitrijs2005/gophdocs/internal/client/replica"
	"github.com/dmitrijs2005/gophdocs/internal/client/repositories/documents"
	"github.com/dmitrijs2005/gophdocs/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/gophdocs/internal/cryptox"
	"github.com/dmitrijs2005/gophdocs/internal/logging"
)

// SessionService is what the CLI needs from the client core.
//
// Contract:
//   - New: start a fresh document (new id, new secret, placeholder content).
//   - Open: load a document by id and secret from either replica.
//   - Restore: reopen the session remembered from the last run.
//   - Edit: replace the content of the open document.
//   - Sync: reconcile the open document with the server.
//   - List: documents present in the local replica (still encrypted).
//
// Calls are serialized; the service is safe for concurrent use.
type SessionService interface {
	New(ctx context.Context) error
	Open(ctx context.Context, id string, secret cryptox.Secret) error
	Restore(ctx context.Context) (bool, error)
	Edit(ctx context.Context, content string)
	Sync(ctx context.Context) error
	Snapshot() events.State
	List(ctx context.Context) ([]models.EncryptedDocument, error)
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

type sessionService struct {
	local  documents.Repository
	meta   metadata.Repository
	remote client.Client
	bus    *events.Bus
	log    logging.Logger

	// newEngine is a test seam.
	newEngine func() (*replica.Engine, error)

	mu     sync.Mutex
	engine *replica.Engine

	keepSecret       bool
	remMu            sync.Mutex
	rememberedID     string
	rememberedSecret cryptox.Secret
}

type SessionOption func(*sessionService)

// WithoutStoredSecret remembers only the id of the open document. The
// secret never touches the local store, so Restore has nothing to reopen
// and any secret kept by an earlier run is erased.
func WithoutStoredSecret() SessionOption {
	return func(s *sessionService) { s.keepSecret = false }
}

// NewSessionService starts with a fresh document.
func NewSessionService(local documents.Repository, meta metadata.Repository, remote client.Client, bus *events.Bus, log logging.Logger, opts ...SessionOption) (SessionService, error) {
	s := &sessionService{
		local:      local,
		meta:       meta,
		remote:     remote,
		bus:        bus,
		log:        log.With("module", "session"),
		keepSecret: true,
	}
	for _, opt := range opts {
		opt(s)
	}
	if !s.keepSecret {
		if err := meta.DeleteMany(context.Background(), metadata.KeyLastSecret); err != nil {
			return nil, fmt.Errorf("erase stored secret: %w", err)
		}
	}
	s.newEngine = func() (*replica.Engine, error) {
		return replica.New(s.local, s.remote, s.bus, replica.WithLogger(log))
	}

	e, err := s.newEngine()
	if err != nil {
		return nil, err
	}
	s.engine = e

	bus.Subscribe(s.onEvent)
	return s, nil
}

// onEvent remembers the open document once it holds real content.
func (s *sessionService) onEvent(e events.Event) {
	var st events.State
	switch ev := e.(type) {
	case events.Change:
		st = ev.State
	case events.Conflict:
		st = ev.Current
	default:
		return
	}
	s.remMu.Lock()
	defer s.remMu.Unlock()
	if st.Document.ID == s.rememberedID && st.Secret == s.rememberedSecret {
		return
	}

	ctx := context.Background()
	values := map[string][]byte{metadata.KeyLastDocumentID: []byte(st.Document.ID)}
	if s.keepSecret {
		values[metadata.KeyLastSecret] = []byte(st.Secret)
	}
	if err := s.meta.SetMany(ctx, values); err != nil {
		s.log.Warn(ctx, "cannot remember session", "error", err)
		return
	}
	s.rememberedID, s.rememberedSecret = st.Document.ID, st.Secret
}

func (s *sessionService) New(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, err := s.newEngine()
	if err != nil {
		return err
	}
	old := s.engine
	s.engine = e
	old.Close()
	return nil
}

func (s *sessionService) Open(ctx context.Context, id string, secret cryptox.Secret) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.FindByID(ctx, id, secret)
}

// Restore returns false when nothing was remembered. A remembered session
// that no longer opens is forgotten.
func (s *sessionService) Restore(ctx context.Context) (bool, error) {
	id, err := s.meta.Get(ctx, metadata.KeyLastDocumentID)
	if err != nil {
		return false, err
	}
	secret, err := s.meta.Get(ctx, metadata.KeyLastSecret)
	if err != nil {
		return false, err
	}
	if len(id) == 0 || len(secret) == 0 {
		return false, nil
	}

	if err := s.Open(ctx, string(id), cryptox.Secret(secret)); err != nil {
		if errors.Is(err, cryptox.ErrDecryption) {
			if derr := s.meta.DeleteMany(ctx, metadata.KeyLastDocumentID, metadata.KeyLastSecret); derr != nil {
				s.log.Warn(ctx, "cannot forget session", "id", string(id), "error", derr)
			}
		}
		return false, fmt.Errorf("restore %s: %w", id, err)
	}
	return true, nil
}

func (s *sessionService) Edit(ctx context.Context, content string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.engine.Edit(ctx, content)
}

func (s *sessionService) Sync(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.Sync(ctx)
}

func (s *sessionService) Snapshot() events.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.Snapshot()
}

func (s *sessionService) List(ctx context.Context) ([]models.EncryptedDocument, error) {
	s.mu.Lock()
	err := s.engine.Flush(ctx)
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return s.local.List(ctx)
}

func (s *sessionService) Ping(ctx context.Context) error {
	return s.remote.Ping(ctx)
}

// Close flushes pending local writes and closes the server connection.
func (s *sessionService) Close(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.engine.Close()
	return s.remote.Close()
}
