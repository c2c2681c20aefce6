// Package health reports whether the document store is reachable, over HTTP
// for load balancers and over the standard gRPC health protocol.
package health

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"contactdesk/internal/common"
)

// ServiceName is the gRPC health service name for the contact API.
const ServiceName = "contactdesk.v1.ContactService"

const pingTimeout = 2 * time.Second

type Pinger interface {
	Ping(ctx context.Context) error
}

type Response struct {
	Status string `json:"status"`
	Store  string `json:"store"`
}

type Checker struct {
	store  Pinger
	server *health.Server
}

func NewChecker(store Pinger) *Checker {
	return &Checker{store: store, server: health.NewServer()}
}

// Check pings the store and records the result on the gRPC health server.
func (c *Checker) Check(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	err := c.store.Ping(ctx)
	status := grpc_health_v1.HealthCheckResponse_SERVING
	if err != nil {
		status = grpc_health_v1.HealthCheckResponse_NOT_SERVING
	}
	c.server.SetServingStatus("", status)
	c.server.SetServingStatus(ServiceName, status)
	return err
}

// Watch re-checks the store every interval until ctx is done.
func (c *Checker) Watch(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	healthy := c.Check(ctx) == nil
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			err := c.Check(ctx)
			if (err == nil) != healthy {
				healthy = err == nil
				if healthy {
					log.Info().Msg("document store reachable again")
				} else {
					log.Warn().Err(err).Msg("document store unreachable")
				}
			}
		}
	}
}

// Register exposes the health service and reflection on s.
func (c *Checker) Register(s *grpc.Server) {
	grpc_health_v1.RegisterHealthServer(s, c.server)
	reflection.Register(s)
}

// Shutdown flips every service to NOT_SERVING so clients drain first.
func (c *Checker) Shutdown() {
	c.server.Shutdown()
}

func (c *Checker) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/health", c.ServeHealth).Methods(http.MethodGet)
}

func (c *Checker) ServeHealth(w http.ResponseWriter, r *http.Request) {
	if err := c.Check(r.Context()); err != nil {
		log.Warn().Err(err).Msg("health check failed")
		common.RespondWithJSON(w, http.StatusServiceUnavailable, Response{Status: "unavailable", Store: "down"})
		return
	}
	common.RespondWithJSON(w, http.StatusOK, Response{Status: "ok", Store: "up"})
}
