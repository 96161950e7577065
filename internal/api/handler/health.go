// Package handler contains the HTTP handlers for the TenderScope API.
package handler

import (
	"context"
	"net/http"

	"github.com/tenderscope/tenderscope/internal/api/response"
)

// Pinger is anything with a connectivity check.
type Pinger interface {
	Ping(ctx context.Context) error
}

// NewHealthHandler returns an http.HandlerFunc for GET /api/v1/health.
// Reports degraded rather than failing outright when a dependency is down.
func NewHealthHandler(db Pinger, cache Pinger, version string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := "ok"
		dbStatus := "up"
		cacheStatus := "up"

		if err := db.Ping(r.Context()); err != nil {
			status = "degraded"
			dbStatus = "down"
		}
		if err := cache.Ping(r.Context()); err != nil {
			status = "degraded"
			cacheStatus = "down"
		}

		response.JSON(w, map[string]string{
			"status":   status,
			"database": dbStatus,
			"redis":    cacheStatus,
			"version":  version,
		})
	}
}
