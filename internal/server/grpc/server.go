// Package grpc exposes the standard gRPC health service so orchestrators can
// check the process and see whether photo storage is available.
package grpc

import (
	"context"
	"net"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/dmitrijs2005/todophotos/internal/logging"
)

// PhotosService is the health service name that reports photo storage.
const PhotosService = "todos.photos"

type Server struct {
	address string
	logger  logging.Logger
	health  *health.Server
}

// NewServer builds a health server. The overall status is always SERVING;
// PhotosService is SERVING only when storageConfigured is true.
func NewServer(a string, l logging.Logger, storageConfigured bool) *Server {
	hs := health.NewServer()
	hs.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)

	photos := healthpb.HealthCheckResponse_NOT_SERVING
	if storageConfigured {
		photos = healthpb.HealthCheckResponse_SERVING
	}
	hs.SetServingStatus(PhotosService, photos)

	return &Server{
		address: a,
		logger:  l.With("module", "grpc_server"),
		health:  hs,
	}
}

// Register attaches the health service to srv.
func (s *Server) Register(srv *grpc.Server) {
	healthpb.RegisterHealthServer(srv, s.health)
}

func (s *Server) newGRPCServer() *grpc.Server {
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(s.loggingInterceptor))
	s.Register(srv)
	return srv
}

func (s *Server) Run(ctx context.Context) error {

	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	return s.serve(ctx, listen)
}

func (s *Server) serve(ctx context.Context, listen net.Listener) error {

	srv := s.newGRPCServer()

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		s.health.Shutdown()
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", listen.Addr().String())

	// starts accepting incoming connections
	if err := srv.Serve(listen); err != nil {
		return err
	}

	return nil
}
