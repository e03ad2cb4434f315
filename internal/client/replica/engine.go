// Package replica keeps the local and the remote replica of one document in
// step.
//
// The Engine owns the session state: the current document and the secret
// it is encrypted with. It is changed only by FindByID, Update and Sync.
// Every outcome is published on an events.Bus as well as returned, and
// observers only ever get value copies of the state.
//
// Sync compares the server's last_modified (R) with the local last_modified
// (L) and last_local_persist (P), see Decide. When both sides changed, the
// local edits are forked into a backup document under a fresh secret and the
// server version is adopted, so nothing is lost.
package replica

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/gophdocs/internal/client/client"
	"github.com/dmitrijs2005/gophdocs/internal/client/events"
	"github.com/dmitrijs2005/gophdocs/internal/client/models"
	"github.com/dmitrijs2005/gophdocs/internal/client/repositories/documents"
	"github.com/dmitrijs2005/gophdocs/internal/common"
	"github.com/dmitrijs2005/gophdocs/internal/cryptox"
	"github.com/dmitrijs2005/gophdocs/internal/logging"
	"github.com/google/uuid"
)

type Engine struct {
	local  documents.Repository
	remote client.Client
	bus    *events.Bus
	log    logging.Logger

	now       func() time.Time
	newID     func() string
	newSecret func() (cryptox.Secret, error)

	mu     sync.Mutex
	doc    models.Document
	secret cryptox.Secret

	persister *persister
}

type Option func(*Engine)

func WithLogger(l logging.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// WithClock replaces the source of last_local_persist stamps.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// New starts a session with a fresh document id, a fresh secret and the
// placeholder content.
func New(local documents.Repository, remote client.Client, bus *events.Bus, opts ...Option) (*Engine, error) {
	e := &Engine{
		local:     local,
		remote:    remote,
		bus:       bus,
		log:       logging.Nop{},
		now:       time.Now,
		newID:     uuid.NewString,
		newSecret: cryptox.GenerateSecret,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.log = e.log.With("module", "replica")

	secret, err := e.newSecret()
	if err != nil {
		return nil, err
	}
	e.doc = models.Document{ID: e.newID(), Content: models.PlaceholderContent}
	e.secret = secret

	e.persister = newPersister(local, bus, e.log)
	return e, nil
}

// Snapshot returns a copy of the current state.
func (e *Engine) Snapshot() events.State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked()
}

func (e *Engine) snapshotLocked() events.State {
	return events.State{Document: e.doc, Secret: e.secret}
}

// Flush waits until all queued local writes have finished.
func (e *Engine) Flush(ctx context.Context) error {
	return e.persister.flush(ctx)
}

// Close drains queued local writes and stops the engine's writer. The
// collaborators are not closed.
func (e *Engine) Close() {
	e.persister.close()
}

// FindByID loads a document, preferring the local replica and falling back
// to the server. On success the document and secret become the session
// state.
func (e *Engine) FindByID(ctx context.Context, id string, secret cryptox.Secret) error {
	if id == "" {
		e.bus.Publish(events.NoDocumentID{State: e.Snapshot()})
		return ErrNoDocumentID
	}

	enc, err := e.local.Get(ctx, id)
	switch {
	case err == nil:
		content, err := cryptox.Decrypt(enc.Ciphertext, secret)
		if err != nil {
			e.bus.Publish(events.DecryptionFailed{ID: id, State: e.Snapshot()})
			return fmt.Errorf("open local document %s: %w", id, err)
		}
		doc := enc.Open(content)
		if doc.IsPlaceholder() {
			e.bus.Publish(events.DocumentNotFound{ID: id, State: e.Snapshot()})
			return fmt.Errorf("%w: %s: %w", ErrDocumentNotFound, id, ErrPlaceholder)
		}
		e.adopt(ctx, doc, secret)
		return nil
	case !errors.Is(err, common.ErrorNotFound):
		e.log.Warn(ctx, "local read failed, asking server", "id", id, "error", err)
	}

	remote, err := e.remote.GetDocument(ctx, id)
	if err != nil {
		if errors.Is(err, client.ErrUnavailable) {
			e.bus.Publish(events.AppIsOffline{})
		}
		e.bus.Publish(events.DocumentNotFound{ID: id, State: e.Snapshot()})
		return fmt.Errorf("%w: %s: %w", ErrDocumentNotFound, id, err)
	}

	content, err := cryptox.Decrypt(remote.Ciphertext, secret)
	if err != nil {
		e.bus.Publish(events.DecryptionFailed{ID: id, State: e.Snapshot()})
		e.bus.Publish(events.AppIsOnline{})
		return fmt.Errorf("open remote document %s: %w", id, err)
	}

	doc := models.Document{ID: id, Content: content, LastModified: remote.LastModified}
	if doc.IsPlaceholder() {
		e.bus.Publish(events.DocumentNotFound{ID: id, State: e.Snapshot()})
		e.bus.Publish(events.AppIsOnline{})
		return fmt.Errorf("%w: %s: %w", ErrDocumentNotFound, id, ErrPlaceholder)
	}

	e.adopt(ctx, doc, secret)
	e.bus.Publish(events.AppIsOnline{})
	return nil
}

// adopt makes doc and secret the session state in one step. doc must not
// hold placeholder content.
func (e *Engine) adopt(ctx context.Context, doc models.Document, secret cryptox.Secret) {
	e.mu.Lock()
	e.doc = doc
	e.secret = secret
	st := e.snapshotLocked()
	e.mu.Unlock()

	e.commit(ctx, st)
}

// Update replaces the current document with doc. With stamp set,
// last_local_persist becomes now. The encrypted copy is queued for the local
// replica and Change is published without waiting for the write. Placeholder
// content is ignored.
func (e *Engine) Update(ctx context.Context, doc models.Document, stamp bool) {
	if doc.IsPlaceholder() {
		return
	}

	e.mu.Lock()
	if stamp {
		doc.LastLocalPersist = e.now().UnixMilli()
	}
	e.doc = doc
	st := e.snapshotLocked()
	e.mu.Unlock()

	e.commit(ctx, st)
}

// commit queues the local write for st and publishes Change.
func (e *Engine) commit(ctx context.Context, st events.State) {
	e.persist(ctx, st)
	e.bus.Publish(events.Change{State: st})
}

// Edit is a stamped Update of the current document with new content.
func (e *Engine) Edit(ctx context.Context, content string) {
	e.mu.Lock()
	doc := e.doc
	e.mu.Unlock()

	doc.Content = content
	e.Update(ctx, doc, true)
}

func (e *Engine) persist(ctx context.Context, st events.State) <-chan error {
	ct, err := cryptox.Encrypt(st.Document.Content, st.Secret)
	if err != nil {
		e.log.Error(ctx, "local persist failed", "id", st.Document.ID, "error", err)
		e.bus.Publish(events.PersistFailed{ID: st.Document.ID, Err: err})
		done := make(chan error, 1)
		done <- err
		return done
	}
	enc := st.Document.Seal(ct)
	return e.persister.enqueue(ctx, &enc)
}

// Sync reconciles the current document with the server. It does nothing
// for placeholder content.
func (e *Engine) Sync(ctx context.Context) error {
	st := e.Snapshot()
	if st.Document.IsPlaceholder() {
		return nil
	}

	if st.Document.LastModified == 0 {
		return e.push(ctx, st)
	}

	remote, err := e.remote.GetDocument(ctx, st.Document.ID)
	if err != nil {
		return e.remoteFailed(ctx, "fetch", err)
	}

	decision := Decide(st.Document, remote.LastModified)
	e.log.Debug(ctx, "sync decision", "id", st.Document.ID, "decision", decision.String(),
		"remote_last_modified", remote.LastModified,
		"last_modified", st.Document.LastModified,
		"last_local_persist", st.Document.LastLocalPersist)

	switch decision {
	case DecisionPush:
		return e.push(ctx, st)
	case DecisionAdopt:
		return e.adoptRemote(ctx, st, remote)
	case DecisionFork:
		return e.fork(ctx, st, remote)
	case DecisionStale:
		e.log.Warn(ctx, "server copy is older than the last synced version",
			"id", st.Document.ID,
			"remote_last_modified", remote.LastModified,
			"last_modified", st.Document.LastModified)
	}
	return nil
}

func (e *Engine) remoteFailed(ctx context.Context, op string, err error) error {
	if errors.Is(err, client.ErrUnavailable) {
		e.bus.Publish(events.AppIsOffline{})
	} else {
		e.log.Warn(ctx, "server rejected sync", "op", op, "error", err)
		e.bus.Publish(events.SyncFailed{Err: err})
	}
	return fmt.Errorf("sync %s: %w", op, err)
}

func (e *Engine) push(ctx context.Context, st events.State) error {
	ct, err := cryptox.Encrypt(st.Document.Content, st.Secret)
	if err != nil {
		e.bus.Publish(events.SyncFailed{Err: err})
		return fmt.Errorf("sync push: %w", err)
	}

	lastModified, err := e.remote.PutDocument(ctx, st.Document.ID, ct)
	if err != nil {
		return e.remoteFailed(ctx, "push", err)
	}

	e.mu.Lock()
	if e.doc.ID == st.Document.ID {
		e.doc.LastModified = lastModified
	}
	next := e.snapshotLocked()
	e.mu.Unlock()

	e.persist(ctx, next)

	e.bus.Publish(events.Synchronize{Date: e.now(), LastModified: lastModified})
	e.bus.Publish(events.AppIsOnline{})
	return nil
}

func (e *Engine) adoptRemote(ctx context.Context, st events.State, remote *client.RemoteDocument) error {
	content, err := cryptox.Decrypt(remote.Ciphertext, st.Secret)
	if err != nil {
		e.bus.Publish(events.DecryptionFailed{ID: st.Document.ID, State: st})
		return fmt.Errorf("sync adopt: %w", err)
	}
	if content == models.PlaceholderContent {
		return e.placeholderOnServer(ctx, st, "adopt")
	}

	doc := st.Document
	doc.Content = content
	doc.LastModified = remote.LastModified

	e.Update(ctx, doc, false)
	e.bus.Publish(events.UpdateWithoutConflict{Document: doc})
	return nil
}

// fork saves the local edits as a backup document under a new secret, then
// adopts the server version. The server content is decrypted first so a
// bad ciphertext leaves both replicas untouched.
func (e *Engine) fork(ctx context.Context, st events.State, remote *client.RemoteDocument) error {
	remoteContent, err := cryptox.Decrypt(remote.Ciphertext, st.Secret)
	if err != nil {
		e.bus.Publish(events.DecryptionFailed{ID: st.Document.ID, State: st})
		return fmt.Errorf("sync fork: %w", err)
	}
	if remoteContent == models.PlaceholderContent {
		return e.placeholderOnServer(ctx, st, "fork")
	}

	backupSecret, err := e.newSecret()
	if err != nil {
		e.bus.Publish(events.SyncFailed{Err: err})
		return fmt.Errorf("sync fork: %w", err)
	}
	backupCT, err := cryptox.Encrypt(st.Document.Content, backupSecret)
	if err != nil {
		e.bus.Publish(events.SyncFailed{Err: err})
		return fmt.Errorf("sync fork: %w", err)
	}

	backup := models.Document{
		ID:               e.newID(),
		Content:          st.Document.Content,
		LastLocalPersist: st.Document.LastLocalPersist,
	}
	sealed := backup.Seal(backupCT)
	if err := <-e.persister.enqueue(ctx, &sealed); err != nil {
		return fmt.Errorf("sync fork: persist backup: %w", err)
	}
	e.log.Info(ctx, "local edits forked", "id", st.Document.ID, "backup_id", backup.ID)

	doc := st.Document
	doc.Content = remoteContent
	doc.LastModified = remote.LastModified
	doc.LastLocalPersist = 0

	e.mu.Lock()
	e.doc = doc
	current := e.snapshotLocked()
	e.mu.Unlock()

	persistErr := <-e.persist(ctx, current)

	e.bus.Publish(events.Conflict{
		Backup:  events.State{Document: backup, Secret: backupSecret},
		Current: current,
	})

	if persistErr != nil {
		return fmt.Errorf("sync fork: persist current: %w", persistErr)
	}
	return nil
}

// placeholderOnServer refuses a server copy holding placeholder content;
// adopting it would replace real local content with nothing.
func (e *Engine) placeholderOnServer(ctx context.Context, st events.State, op string) error {
	e.log.Warn(ctx, "server copy holds placeholder content", "id", st.Document.ID)
	e.bus.Publish(events.SyncFailed{Err: ErrPlaceholder})
	return fmt.Errorf("sync %s: %w", op, ErrPlaceholder)
}
