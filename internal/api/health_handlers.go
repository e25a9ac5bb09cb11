package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
)

// Health levels, ordered from best to worst.
const (
	healthOK       = "healthy"
	healthDegraded = "degraded"
	healthDown     = "unhealthy"
)

var healthRank = map[string]int{healthOK: 0, healthDegraded: 1, healthDown: 2}

// storePingTimeout bounds the store check so /health answers even when the
// database hangs.
const storePingTimeout = 2 * time.Second

func (s *Server) registerHealthRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getHealth",
		Method:      http.MethodGet,
		Path:        "/health",
		Summary:     "Report health",
		Description: "Checks the option store and the event stream",
		Tags:        []string{"Health"},
	}, s.handleHealth)
}

// ComponentHealth is the result of one check.
type ComponentHealth struct {
	Status  string `json:"status" enum:"healthy,degraded,unhealthy" doc:"Check result"`
	Latency string `json:"latency,omitempty" doc:"How long the check took"`
	Message string `json:"message,omitempty" doc:"Detail for operators"`
}

// HealthResponse is the worst component status plus each check.
type HealthResponse struct {
	Status     string                     `json:"status" enum:"healthy,degraded,unhealthy" doc:"Worst component status"`
	Version    string                     `json:"version" doc:"Server version"`
	Components map[string]ComponentHealth `json:"components" doc:"Per-component results"`
}

// HealthOutput wraps the health response for Huma.
type HealthOutput struct {
	CacheControl string `header:"Cache-Control"`
	Body         HealthResponse
}

func (s *Server) handleHealth(ctx context.Context, _ *struct{}) (*HealthOutput, error) {
	resp := HealthResponse{
		Status:  healthOK,
		Version: s.version,
		Components: map[string]ComponentHealth{
			"store": s.storeHealth(ctx),
			"sse":   s.eventsHealth(),
		},
	}
	for _, c := range resp.Components {
		if healthRank[c.Status] > healthRank[resp.Status] {
			resp.Status = c.Status
		}
	}
	return &HealthOutput{CacheControl: CacheShort, Body: resp}, nil
}

func (s *Server) storeHealth(ctx context.Context) ComponentHealth {
	if s.store == nil {
		return ComponentHealth{Status: healthDegraded, Message: "store not configured"}
	}

	ctx, cancel := context.WithTimeout(ctx, storePingTimeout)
	defer cancel()

	began := time.Now()
	err := s.store.Ping(ctx)
	took := time.Since(began).Round(time.Microsecond).String()
	if err != nil {
		s.logger.Warn("store health check failed", "error", err)
		return ComponentHealth{Status: healthDown, Latency: took, Message: "store unreachable"}
	}
	return ComponentHealth{Status: healthOK, Latency: took}
}

func (s *Server) eventsHealth() ComponentHealth {
	switch {
	case s.sseManager == nil:
		return ComponentHealth{Status: healthDegraded, Message: "event stream not configured"}
	case !s.sseManager.Healthy():
		return ComponentHealth{Status: healthDown, Message: "event stream shut down"}
	}

	n := s.sseManager.ClientCount()
	msg := fmt.Sprintf("%d connected clients", n)
	switch n {
	case 0:
		msg = "no connected clients"
	case 1:
		msg = "1 connected client"
	}
	return ComponentHealth{Status: healthOK, Message: msg}
}
