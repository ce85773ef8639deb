// Package grpc exposes the storefront's gRPC health service.
package grpc

import (
	"fmt"
	"net"

	"github.com/example/buttg/pkg/config"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

// HealthServer serves grpc.health.v1.Health for the storefront and reports
// the status of its backends under their own service names.
type HealthServer struct {
	config *config.ServerConfig
	logger *zap.Logger
	health *health.Server
	srv    *grpc.Server
}

func NewHealthServer(cfg *config.ServerConfig, logger *zap.Logger) *HealthServer {
	hs := health.NewServer()
	srv := grpc.NewServer()
	healthpb.RegisterHealthServer(srv, hs)
	reflection.Register(srv)

	return &HealthServer{
		config: cfg,
		logger: logger,
		health: hs,
		srv:    srv,
	}
}

// SetServing marks service (the empty string is the whole server) as up or
// down.
func (s *HealthServer) SetServing(service string, serving bool) {
	status := healthpb.HealthCheckResponse_NOT_SERVING
	if serving {
		status = healthpb.HealthCheckResponse_SERVING
	}
	s.health.SetServingStatus(service, status)
}

func (s *HealthServer) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}
	return s.Serve(lis)
}

func (s *HealthServer) Serve(lis net.Listener) error {
	s.logger.Info("gRPC health server starting", zap.String("address", lis.Addr().String()))
	return s.srv.Serve(lis)
}

// Stop flips every service to NOT_SERVING and drains in-flight calls.
func (s *HealthServer) Stop() {
	s.health.Shutdown()
	s.srv.GracefulStop()
}
