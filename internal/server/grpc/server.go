// Package grpc serves the document API over gRPC with the JSON codec from
// rpcx, mirroring the HTTP API.
package grpc

import (
	"context"
	"net"

	"github.com/dmitrijs2005/gophdocs/internal/logging"
	"github.com/dmitrijs2005/gophdocs/internal/rpcx"
	"github.com/dmitrijs2005/gophdocs/internal/server/metrics"
	"github.com/dmitrijs2005/gophdocs/internal/server/models"
	"google.golang.org/grpc"
)

// DocumentStore is what the handlers need from the document service.
type DocumentStore interface {
	Get(ctx context.Context, id string) (*models.Document, error)
	Put(ctx context.Context, id, content string) (int64, error)
}

type GRPCServer struct {
	address string
	docs    DocumentStore
	metrics *metrics.Metrics
	logger  logging.Logger
}

func NewGRPCServer(a string, l logging.Logger, docs DocumentStore, m *metrics.Metrics) *GRPCServer {
	return &GRPCServer{
		address: a,
		logger:  l.With("module", "grpc_server"),
		docs:    docs,
		metrics: m,
	}
}

func (s *GRPCServer) newServer() *grpc.Server {
	srv := grpc.NewServer(
		grpc.ChainUnaryInterceptor(s.observabilityInterceptor),
		grpc.MaxRecvMsgSize(rpcx.MaxMessageSize),
		grpc.MaxSendMsgSize(rpcx.MaxMessageSize),
	)
	rpcx.RegisterDocumentServiceServer(srv, s)
	return srv
}

func (s *GRPCServer) Run(ctx context.Context) error {

	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	srv := s.newServer()

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", s.address)

	// starts accepting incoming connections
	if err := srv.Serve(listen); err != nil {
		return err
	}

	return nil
}
