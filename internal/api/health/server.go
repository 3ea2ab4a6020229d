package health

import (
	"context"
	"net"
	"time"

	"google.golang.org/grpc"
	grpchealth "google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"leasehub-backend/internal/logger"
)

// ServiceName is reported alongside the overall ("") status.
const ServiceName = "leasehub.api"

// Pinger is satisfied by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Server exposes grpc.health.v1 for orchestrator probes. Status follows the
// result of the last database ping.
type Server struct {
	grpc     *grpc.Server
	status   *grpchealth.Server
	db       Pinger
	interval time.Duration
	timeout  time.Duration
}

func NewServer(db Pinger, interval time.Duration) *Server {
	if interval <= 0 {
		interval = 10 * time.Second
	}
	s := &Server{
		grpc:     grpc.NewServer(),
		status:   grpchealth.NewServer(),
		db:       db,
		interval: interval,
		timeout:  2 * time.Second,
	}
	healthpb.RegisterHealthServer(s.grpc, s.status)

	// Register reflection service for grpcurl
	reflection.Register(s.grpc)
	return s
}

// Check pings the database once and publishes the outcome.
func (s *Server) Check(ctx context.Context) healthpb.HealthCheckResponse_ServingStatus {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	status := healthpb.HealthCheckResponse_SERVING
	if err := s.db.PingContext(ctx); err != nil {
		logger.Warn("Database health check failed", "error", err)
		status = healthpb.HealthCheckResponse_NOT_SERVING
	}
	s.status.SetServingStatus("", status)
	s.status.SetServingStatus(ServiceName, status)
	return status
}

// Run checks immediately and then on every interval until ctx is done.
func (s *Server) Run(ctx context.Context) {
	s.Check(ctx)
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Check(ctx)
		}
	}
}

func (s *Server) Serve(lis net.Listener) error {
	logger.Info("Health server listening", "address", lis.Addr().String())
	return s.grpc.Serve(lis)
}

// Stop marks the service as not serving and drains open RPCs.
func (s *Server) Stop() {
	s.status.Shutdown()
	s.grpc.GracefulStop()
}
