package health

import (
	"context"
	"errors"
	"net"
	"strings"
	"testing"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/test/bufconn"
)

func ok(context.Context) error { return nil }

func TestCheckAll(t *testing.T) {
	st := CheckAll(context.Background(), time.Second,
		Checker{Name: "llm", Probe: ok},
		Checker{Name: "tickets", Probe: func(context.Context) error { return errors.New("down") }},
	)
	if st.OK {
		t.Fatalf("expected failure")
	}
	if len(st.Checks) != 2 || st.Checks[0].Name != "llm" || !st.Checks[0].OK || st.Checks[1].Error != "down" {
		t.Fatalf("unexpected checks: %+v", st.Checks)
	}
	if !strings.Contains(st.String(), "✗ tickets") {
		t.Fatalf("render: %s", st)
	}
}

func TestCheckTimeout(t *testing.T) {
	slow := Checker{Name: "slow", Probe: func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	}}
	st := CheckAll(context.Background(), 20*time.Millisecond, slow)
	if st.OK || st.Checks[0].Error == "" {
		t.Fatalf("expected timeout: %+v", st)
	}
}

func TestGRPCHealth(t *testing.T) {
	lis := bufconn.Listen(1 << 20)
	g := NewGRPCServer()
	go func() { _ = g.Server.Serve(lis) }()
	defer g.Stop()

	conn, err := grpc.DialContext(context.Background(), "bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }),
		grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	client := healthpb.NewHealthClient(conn)

	check := func() healthpb.HealthCheckResponse_ServingStatus {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		resp, err := client.Check(ctx, &healthpb.HealthCheckRequest{Service: ServiceName})
		if err != nil {
			t.Fatalf("check: %v", err)
		}
		return resp.GetStatus()
	}

	if s := check(); s != healthpb.HealthCheckResponse_NOT_SERVING {
		t.Fatalf("initial status %v", s)
	}
	g.Apply(HealthStatus{OK: true})
	if s := check(); s != healthpb.HealthCheckResponse_SERVING {
		t.Fatalf("status after ok %v", s)
	}
	g.Apply(HealthStatus{OK: false})
	if s := check(); s != healthpb.HealthCheckResponse_NOT_SERVING {
		t.Fatalf("status after fail %v", s)
	}
}
