package middleware

import (
	"context"
	"errors"
	"testing"
	"time"

	"connectrpc.com/connect"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/mmynk/splitledger/internal/auth"
)

type ping struct{}

// echoMember is a terminal handler that reports the member it saw.
func echoMember(seen *string) connect.UnaryFunc {
	return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
		*seen = GetMember(ctx)
		return connect.NewResponse(&ping{}), nil
	}
}

func TestRequireAuth(t *testing.T) {
	jwtManager, err := auth.NewJWTManager("test-secret", time.Hour)
	if err != nil {
		t.Fatalf("NewJWTManager failed: %v", err)
	}
	token, err := jwtManager.Generate("Alice")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	tests := []struct {
		name       string
		header     string
		wantMember string
		wantErr    error
	}{
		{"valid token", "Bearer " + token, "Alice", nil},
		{"missing header", "", "", auth.ErrMissingToken},
		{"wrong scheme", "Basic " + token, "", auth.ErrInvalidToken},
		{"garbage token", "Bearer nope", "", auth.ErrInvalidToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := connect.NewRequest(&ping{})
			if tt.header != "" {
				req.Header().Set("Authorization", tt.header)
			}

			var seen string
			_, err := RequireAuth(jwtManager)(echoMember(&seen))(context.Background(), req)

			if tt.wantErr != nil {
				if connect.CodeOf(err) != connect.CodeUnauthenticated {
					t.Errorf("expected unauthenticated, got %v", err)
				}
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if seen != tt.wantMember {
				t.Errorf("expected member %q, got %q", tt.wantMember, seen)
			}
		})
	}
}

func TestGetMemberEmpty(t *testing.T) {
	if got := GetMember(context.Background()); got != "" {
		t.Errorf("expected empty member, got %q", got)
	}
}

func TestMetricsInterceptor(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())
	failing := func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
		return nil, connect.NewError(connect.CodeNotFound, errors.New("gone"))
	}

	var seen string
	call := m.Interceptor()(echoMember(&seen))
	fail := m.Interceptor()(failing)
	for range 2 {
		if _, err := call(context.Background(), connect.NewRequest(&ping{})); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if _, err := fail(context.Background(), connect.NewRequest(&ping{})); err == nil {
		t.Fatal("expected error")
	}

	// Requests built outside a handler carry an empty procedure.
	if got := testutil.ToFloat64(m.requests.WithLabelValues("", "ok")); got != 2 {
		t.Errorf("expected 2 ok calls, got %v", got)
	}
	if got := testutil.ToFloat64(m.requests.WithLabelValues("", "not_found")); got != 1 {
		t.Errorf("expected 1 not_found call, got %v", got)
	}
}

func TestObserveSummary(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())
	m.ObserveSummary(3, false)
	m.ObserveSummary(0, true)

	if got := testutil.ToFloat64(m.residuals); got != 1 {
		t.Errorf("expected 1 residual clearing, got %v", got)
	}
	if got := testutil.CollectAndCount(m.transfers); got != 1 {
		t.Errorf("expected one transfers histogram, got %d", got)
	}

	var nilMetrics *Metrics
	nilMetrics.ObserveSummary(1, true)
}
