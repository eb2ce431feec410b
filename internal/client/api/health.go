package api

import (
	"context"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// PhotosService matches the server's photo storage health service.
const PhotosService = "todos.photos"

// HealthClient queries the server's gRPC health endpoint.
type HealthClient struct {
	conn    *grpc.ClientConn
	client  healthpb.HealthClient
	timeout time.Duration
}

func NewHealthClient(addr string, timeout time.Duration, opts ...grpc.DialOption) (*HealthClient, error) {
	opts = append([]grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())}, opts...)

	conn, err := grpc.NewClient(addr, opts...)
	if err != nil {
		return nil, err
	}

	return &HealthClient{
		conn:    conn,
		client:  healthpb.NewHealthClient(conn),
		timeout: timeout,
	}, nil
}

// Check returns the serving status of service ("" for the whole server).
func (h *HealthClient) Check(ctx context.Context, service string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	resp, err := h.client.Check(ctx, &healthpb.HealthCheckRequest{Service: service})
	if err != nil {
		return "", err
	}
	return resp.GetStatus().String(), nil
}

func (h *HealthClient) Close() error {
	return h.conn.Close()
}
