package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/health/grpc_health_v1"
)

type MockPinger struct {
	mock.Mock
}

func (m *MockPinger) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func grpcStatus(t *testing.T, c *Checker, service string) grpc_health_v1.HealthCheckResponse_ServingStatus {
	t.Helper()
	resp, err := c.server.Check(context.Background(), &grpc_health_v1.HealthCheckRequest{Service: service})
	require.NoError(t, err)
	return resp.Status
}

func TestServeHealth(t *testing.T) {
	tests := []struct {
		name       string
		pingErr    error
		wantCode   int
		wantStatus string
		wantGRPC   grpc_health_v1.HealthCheckResponse_ServingStatus
	}{
		{"store up", nil, http.StatusOK, "ok", grpc_health_v1.HealthCheckResponse_SERVING},
		{"store down", errors.New("no reachable servers"), http.StatusServiceUnavailable, "unavailable", grpc_health_v1.HealthCheckResponse_NOT_SERVING},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			pinger := &MockPinger{}
			pinger.On("Ping", mock.Anything).Return(tc.pingErr).Once()

			c := NewChecker(pinger)
			r := mux.NewRouter()
			c.RegisterRoutes(r)

			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

			assert.Equal(t, tc.wantCode, rec.Code)
			var resp Response
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tc.wantStatus, resp.Status)

			assert.Equal(t, tc.wantGRPC, grpcStatus(t, c, ""))
			assert.Equal(t, tc.wantGRPC, grpcStatus(t, c, ServiceName))
			pinger.AssertExpectations(t)
		})
	}
}

func TestCheck_RecoversAfterOutage(t *testing.T) {
	pinger := &MockPinger{}
	pinger.On("Ping", mock.Anything).Return(errors.New("timeout")).Once()
	pinger.On("Ping", mock.Anything).Return(nil).Once()

	c := NewChecker(pinger)

	assert.Error(t, c.Check(context.Background()))
	assert.Equal(t, grpc_health_v1.HealthCheckResponse_NOT_SERVING, grpcStatus(t, c, ServiceName))

	assert.NoError(t, c.Check(context.Background()))
	assert.Equal(t, grpc_health_v1.HealthCheckResponse_SERVING, grpcStatus(t, c, ServiceName))
}

func TestCheck_PingHasDeadline(t *testing.T) {
	pinger := &MockPinger{}
	pinger.On("Ping", mock.MatchedBy(func(ctx context.Context) bool {
		_, ok := ctx.Deadline()
		return ok
	})).Return(nil).Once()

	require.NoError(t, NewChecker(pinger).Check(context.Background()))
	pinger.AssertExpectations(t)
}

func TestShutdown(t *testing.T) {
	pinger := &MockPinger{}
	pinger.On("Ping", mock.Anything).Return(nil)

	c := NewChecker(pinger)
	require.NoError(t, c.Check(context.Background()))
	c.Shutdown()

	assert.Equal(t, grpc_health_v1.HealthCheckResponse_NOT_SERVING, grpcStatus(t, c, ServiceName))
}
