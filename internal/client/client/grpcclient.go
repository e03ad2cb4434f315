package client

import (
	"context"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/gophdocs/internal/rpcx"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
)

// GRPCClient implements Client over gophdocs.DocumentService.
type GRPCClient struct {
	endpointURL string
	conn        *grpc.ClientConn
	client      rpcx.DocumentServiceClient
	opts        options
}

func NewGRPCClient(endpointURL string, opts ...Option) (*GRPCClient, error) {
	c := &GRPCClient{endpointURL: endpointURL, opts: buildOptions(opts)}
	if err := c.initGRPCClient(); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *GRPCClient) initGRPCClient() error {
	conn, err := grpc.NewClient(s.endpointURL,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithDefaultCallOptions(
			grpc.MaxCallRecvMsgSize(rpcx.MaxMessageSize),
			grpc.MaxCallSendMsgSize(rpcx.MaxMessageSize),
		),
	)
	if err != nil {
		return err
	}
	s.conn = conn
	s.client = rpcx.NewDocumentServiceClient(conn)
	return nil
}

func (s *GRPCClient) GetDocument(ctx context.Context, id string) (*RemoteDocument, error) {
	ctx, cancel := context.WithTimeout(ctx, s.opts.timeout)
	defer cancel()

	resp, err := s.client.GetDocument(ctx, &rpcx.GetDocumentRequest{ID: id})
	if err != nil {
		return nil, s.mapError(err)
	}
	return &RemoteDocument{ID: resp.ID, Ciphertext: resp.Content, LastModified: resp.LastModified}, nil
}

func (s *GRPCClient) PutDocument(ctx context.Context, id string, ciphertext string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, s.opts.timeout)
	defer cancel()

	resp, err := s.client.PutDocument(ctx, &rpcx.PutDocumentRequest{ID: id, Content: ciphertext})
	if err != nil {
		return 0, s.mapError(err)
	}
	return resp.LastModified, nil
}

func (s *GRPCClient) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.opts.timeout)
	defer cancel()

	resp, err := s.client.Ping(ctx, &rpcx.PingRequest{})
	if err != nil {
		return s.mapError(err)
	}

	if resp.Status != rpcx.StatusOK {
		return ErrUnavailable
	}

	return nil
}

func (s *GRPCClient) Close() error {
	return s.conn.Close()
}

var codeToStatus = map[codes.Code]int{
	codes.NotFound:           http.StatusNotFound,
	codes.InvalidArgument:    http.StatusBadRequest,
	codes.AlreadyExists:      http.StatusConflict,
	codes.Aborted:            http.StatusConflict,
	codes.FailedPrecondition: http.StatusPreconditionFailed,
	codes.PermissionDenied:   http.StatusForbidden,
	codes.Unauthenticated:    http.StatusUnauthorized,
	codes.ResourceExhausted:  http.StatusTooManyRequests,
	codes.Unimplemented:      http.StatusNotImplemented,
}

func (s *GRPCClient) mapError(err error) error {
	if err == nil {
		return nil
	}
	st, ok := status.FromError(err)
	if !ok {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	switch st.Code() {
	case codes.Unavailable, codes.DeadlineExceeded, codes.Canceled:
		return fmt.Errorf("%w: %s", ErrUnavailable, st.Message())
	}
	code, ok := codeToStatus[st.Code()]
	if !ok {
		code = http.StatusInternalServerError
	}
	return &RejectedError{Status: code, Message: st.Message()}
}
