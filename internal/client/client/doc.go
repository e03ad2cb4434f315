// Package client talks to the GophDocs document server.
//
// # Overview
//
// Client is the transport-agnostic contract of the remote replica: fetch a
// document, push ciphertext and get back the server-assigned last_modified,
// and ping. Two implementations exist:
//  1. HTTPClient speaks the JSON API (GET/PUT /documents/{id}).
//  2. GRPCClient calls gophdocs.DocumentService with the JSON codec.
//
// # Error Handling
//
// Failures fall into two classes callers tell apart with errors.Is:
// ErrUnavailable when no response arrived at all, and ErrRejected when the
// server answered with an error status. Rejections are *RejectedError values
// that carry the status; ErrNotFound matches a 404.
package client
