package server

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog/hlog"

	"github.com/andrasnagy-data/todo/internal/shared/respond"
)

type (
	// Pinger is implemented by every store backend.
	Pinger interface {
		Ping(ctx context.Context) error
	}

	// HealthSrvc handles business logic for health check functionality
	HealthSrvc struct {
		store Pinger
	}

	// HealthResponse represents the response structure for health check endpoint
	HealthResponse struct {
		Status    string    `json:"status"`
		Timestamp time.Time `json:"timestamp"`
		Database  bool      `json:"database"`
	}
)

func NewHealthHandler(srvc *HealthSrvc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := hlog.FromRequest(r)

		response := srvc.check(r.Context())

		status := http.StatusOK
		if response.Database {
			logger.Debug().Msg("Database healthcheck ok")
		} else {
			logger.Error().Msg("Database healthcheck failed")
			status = http.StatusServiceUnavailable
		}

		respond.JSON(w, r, status, response)
	}
}

func NewHealthSrvc(store Pinger) *HealthSrvc {
	return &HealthSrvc{store: store}
}

func (s *HealthSrvc) check(ctx context.Context) HealthResponse {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	dbOk := s.store.Ping(ctx) == nil

	status := "serving"
	if !dbOk {
		status = "not serving"
	}

	return HealthResponse{
		Status:    status,
		Timestamp: time.Now().UTC(),
		Database:  dbOk,
	}
}
