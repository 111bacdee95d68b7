package health

import (
	"context"
	"log/slog"
	"time"

	"google.golang.org/grpc"
	grpchealth "google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// ServiceName is the gRPC health service name the agent reports under.
const ServiceName = "voiceorder.Agent"

// GRPCServer exposes the check results over the standard gRPC health protocol.
type GRPCServer struct {
	Server *grpc.Server
	health *grpchealth.Server
}

func NewGRPCServer() *GRPCServer {
	s := grpc.NewServer()
	h := grpchealth.NewServer()
	healthpb.RegisterHealthServer(s, h)
	h.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_NOT_SERVING)
	return &GRPCServer{Server: s, health: h}
}

// Apply publishes a status to both the named service and the overall server.
func (g *GRPCServer) Apply(st HealthStatus) {
	status := healthpb.HealthCheckResponse_SERVING
	if !st.OK {
		status = healthpb.HealthCheckResponse_NOT_SERVING
	}
	g.health.SetServingStatus(ServiceName, status)
	g.health.SetServingStatus("", status)
}

// Watch re-runs the checkers every interval until ctx ends.
func (g *GRPCServer) Watch(ctx context.Context, interval, timeout time.Duration, log *slog.Logger, checkers ...Checker) {
	last := true
	tick := func() {
		st := CheckAll(ctx, timeout, checkers...)
		g.Apply(st)
		if st.OK != last {
			log.Info("health changed", "ok", st.OK, "checks", st.Checks)
			last = st.OK
		}
	}
	tick()
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			tick()
		}
	}
}

func (g *GRPCServer) Stop() {
	g.health.Shutdown()
	g.Server.GracefulStop()
}
