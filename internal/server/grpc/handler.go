package grpc

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/gophdocs/internal/common"
	"github.com/dmitrijs2005/gophdocs/internal/rpcx"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func (s *GRPCServer) GetDocument(ctx context.Context, req *rpcx.GetDocumentRequest) (*rpcx.Document, error) {

	doc, err := s.docs.Get(ctx, req.ID)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	return &rpcx.Document{ID: doc.ID, Content: doc.Content, LastModified: doc.LastModified}, nil

}

func (s *GRPCServer) PutDocument(ctx context.Context, req *rpcx.PutDocumentRequest) (*rpcx.PutDocumentResponse, error) {

	lastModified, err := s.docs.Put(ctx, req.ID, req.Content)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	return &rpcx.PutDocumentResponse{LastModified: lastModified}, nil

}

func (s *GRPCServer) Ping(ctx context.Context, req *rpcx.PingRequest) (*rpcx.PingResponse, error) {

	return &rpcx.PingResponse{Status: rpcx.StatusOK}, nil

}

func (s *GRPCServer) toStatus(ctx context.Context, err error) error {
	switch {
	case errors.Is(err, common.ErrorValidation):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, common.ErrorNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, common.ErrorVersionConflict):
		return status.Error(codes.Aborted, err.Error())
	}
	s.logger.Error(ctx, err.Error())
	return status.Error(codes.Internal, "internal error")
}
