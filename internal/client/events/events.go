// Package events is the notification surface of the replica engine.
//
// Every notification is one of the structs below. Observers subscribe to a
// Bus and type-switch on the Event they receive. Payloads are value copies;
// nothing an observer holds can change engine state.
package events

import (
	"time"

	"github.com/dmitrijs2005/gophdocs/internal/client/models"
	"github.com/dmitrijs2005/gophdocs/internal/cryptox"
)

// Event is implemented only by the types in this package.
type Event interface {
	Name() string
	isEvent()
}

// State is a snapshot of the engine's document and secret.
type State struct {
	Document models.Document
	Secret   cryptox.Secret
}

// NoDocumentID is emitted when a load is requested without an id.
type NoDocumentID struct{ State State }

// DocumentNotFound is emitted when a document is missing from both replicas.
type DocumentNotFound struct {
	ID    string
	State State
}

// AppIsOffline is emitted when the server gave no response.
type AppIsOffline struct{}

// AppIsOnline is emitted after a successful exchange with the server.
type AppIsOnline struct{}

// Change carries the new state after a local update.
type Change struct{ State State }

// Synchronize is emitted after a successful push.
type Synchronize struct {
	Date         time.Time
	LastModified int64
}

// DecryptionFailed is emitted when ciphertext could not be opened with the
// secret at hand. The engine state is left unchanged.
type DecryptionFailed struct {
	ID    string
	State State
}

// Conflict is emitted when a sync forked the local edits into Backup and
// adopted the server version as Current.
type Conflict struct {
	Backup  State
	Current State
}

// UpdateWithoutConflict carries the document adopted from the server.
type UpdateWithoutConflict struct{ Document models.Document }

// SyncFailed is emitted when the server answered a sync request with an
// error status.
type SyncFailed struct{ Err error }

// PersistFailed is emitted when a write to the local replica failed.
type PersistFailed struct {
	ID  string
	Err error
}

func (NoDocumentID) Name() string          { return "no-document-id" }
func (DocumentNotFound) Name() string      { return "document-not-found" }
func (AppIsOffline) Name() string          { return "app-is-offline" }
func (AppIsOnline) Name() string           { return "app-is-online" }
func (Change) Name() string                { return "change" }
func (Synchronize) Name() string           { return "synchronize" }
func (DecryptionFailed) Name() string      { return "decryption-failed" }
func (Conflict) Name() string              { return "conflict" }
func (UpdateWithoutConflict) Name() string { return "update-without-conflict" }
func (SyncFailed) Name() string            { return "sync-failed" }
func (PersistFailed) Name() string         { return "persist-failed" }

func (NoDocumentID) isEvent()          {}
func (DocumentNotFound) isEvent()      {}
func (AppIsOffline) isEvent()          {}
func (AppIsOnline) isEvent()           {}
func (Change) isEvent()                {}
func (Synchronize) isEvent()           {}
func (DecryptionFailed) isEvent()      {}
func (Conflict) isEvent()              {}
func (UpdateWithoutConflict) isEvent() {}
func (SyncFailed) isEvent()            {}
func (PersistFailed) isEvent()         {}
