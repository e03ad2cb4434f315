package client

import (
	"context"
	"fmt"
)

// RemoteDocument is a document as the server returns it. Ciphertext is
// opaque to the server.
type RemoteDocument struct {
	ID           string
	Ciphertext   string
	LastModified int64
}

// Client is the remote replica. Implementations return ErrUnavailable when
// the server gave no response and a *RejectedError when it answered with an
// error status.
type Client interface {
	GetDocument(ctx context.Context, id string) (*RemoteDocument, error)
	PutDocument(ctx context.Context, id string, ciphertext string) (int64, error)
	Ping(ctx context.Context) error
	Close() error
}

// Transport names accepted by New.
const (
	TransportHTTP = "http"
	TransportGRPC = "grpc"
)

// New builds the client for the given transport.
func New(transport, endpoint string, opts ...Option) (Client, error) {
	switch transport {
	case TransportHTTP, "":
		return NewHTTPClient(endpoint, opts...), nil
	case TransportGRPC:
		return NewGRPCClient(endpoint, opts...)
	default:
		return nil, fmt.Errorf("unknown transport %q", transport)
	}
}
