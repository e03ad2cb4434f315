package grpc

import (
	"context"
	"path"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/status"
)

// observabilityInterceptor logs and counts every unary call.
func (s *GRPCServer) observabilityInterceptor(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {

	start := time.Now()
	resp, err := handler(ctx, req)
	elapsed := time.Since(start)

	code := status.Code(err)
	s.metrics.ObserveRequest("grpc", path.Base(info.FullMethod), code.String(), elapsed)
	s.logger.Debug(ctx, "rpc", "method", info.FullMethod, "code", code.String(), "duration", elapsed)

	return resp, err
}
