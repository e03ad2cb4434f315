// Package models holds the server-side persistence types.
package models

// Document is the stored form of a client document. The server never sees
// plaintext: Content is the client's ciphertext envelope. When ciphertext is
// kept in the blob store, Content is empty and BlobKey names the object.
type Document struct {
	ID           string
	Content      string
	BlobKey      string
	LastModified int64
}
