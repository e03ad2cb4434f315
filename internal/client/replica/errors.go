package replica

import "errors"

var (
	// ErrNoDocumentID is returned by FindByID when called without an id.
	ErrNoDocumentID = errors.New("no document id")

	// ErrDocumentNotFound means neither replica could produce the document.
	ErrDocumentNotFound = errors.New("document not found")

	// ErrPlaceholder means a stored copy decrypted to the placeholder
	// content, which is never a real document.
	ErrPlaceholder = errors.New("document holds placeholder content")

	// ErrClosed is returned for writes queued after Close.
	ErrClosed = errors.New("replica engine closed")
)
