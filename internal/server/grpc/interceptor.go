package grpc

import (
	"context"
	"time"

	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// requestIDKey is the metadata key shared with the HTTP X-Request-ID header.
const requestIDKey = "x-request-id"

// requestID returns the caller's x-request-id, or a fresh one when it is
// missing or not a UUID.
func requestID(ctx context.Context) string {
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if values := md.Get(requestIDKey); len(values) > 0 {
			if _, err := uuid.Parse(values[0]); err == nil {
				return values[0]
			}
		}
	}
	return uuid.NewString()
}

func (s *Server) loggingInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {

	id := requestID(ctx)
	_ = grpc.SetHeader(ctx, metadata.Pairs(requestIDKey, id))

	start := time.Now()
	resp, err := handler(ctx, req)

	s.logger.With("request_id", id).Debug(ctx, "rpc",
		"method", info.FullMethod,
		"code", status.Code(err).String(),
		"duration", time.Since(start),
	)

	return resp, err
}
