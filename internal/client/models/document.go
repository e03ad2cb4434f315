// Package models defines the client-side document types shared by the
// replica engine, the local stores and the transports.
package models

import (
	"strings"

	"github.com/google/uuid"
)

// Document is the plaintext form of a document. It only lives in memory.
type Document struct {
	// ID is a client-generated UUIDv4 and never changes.
	ID string

	// Content is the Markdown body.
	Content string

	// LastModified is the server-assigned Unix millisecond timestamp of the
	// last successful push. Zero means the document was never pushed.
	LastModified int64

	// LastLocalPersist is the client Unix millisecond timestamp of the last
	// user edit. Zero means absent.
	LastLocalPersist int64
}

// EncryptedDocument is the only form written to either replica.
type EncryptedDocument struct {
	ID               string `msgpack:"id"`
	Ciphertext       string `msgpack:"ciphertext"`
	LastModified     int64  `msgpack:"last_modified"`
	LastLocalPersist int64  `msgpack:"last_local_persist"`
}

// NewDocument returns a fresh document holding the placeholder body.
func NewDocument() Document {
	return Document{ID: uuid.NewString(), Content: PlaceholderContent}
}

// IsPlaceholder reports whether the document has not been started yet.
func (d Document) IsPlaceholder() bool {
	return d.Content == PlaceholderContent
}

// Seal pairs the document metadata with ciphertext.
func (d Document) Seal(ciphertext string) EncryptedDocument {
	return EncryptedDocument{
		ID:               d.ID,
		Ciphertext:       ciphertext,
		LastModified:     d.LastModified,
		LastLocalPersist: d.LastLocalPersist,
	}
}

// Open pairs the encrypted document metadata with plaintext.
func (e EncryptedDocument) Open(content string) Document {
	return Document{
		ID:               e.ID,
		Content:          content,
		LastModified:     e.LastModified,
		LastLocalPersist: e.LastLocalPersist,
	}
}

// PlaceholderContent is the body every new session starts with. A document
// whose content equals it is never persisted.
var PlaceholderContent = strings.Join([]string{
	"Welcome to GophDocs",
	"===================",
	"",
	"> **TL;DR** GophDocs is a local-first Markdown notebook. It works offline, keeps",
	"> every document encrypted on your machine and syncs it when the server is reachable.",
	"",
	"### Quick start",
	"",
	"* As soon as you change this text you get a new document of your own;",
	"* share a document by handing out its **id** and **secret** together;",
	"* run `sync` whenever you are online, the server never sees your plaintext;",
	"* there is no document index on the server: keep your ids and secrets somewhere safe.",
	"",
	"```go",
	"fmt.Println(\"have fun\")",
	"```",
}, "\n")
