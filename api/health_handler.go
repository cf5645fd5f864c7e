package api

import (
	"context"
	"net/http"
	"time"

	"github.com/styleit-app/styleit-backend/utils"
)

// HealthHandler reports process and database health.
func HealthHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	dbStatus := "ok"
	if utils.Client == nil {
		dbStatus = "not connected"
	} else if err := utils.Client.Ping(ctx, nil); err != nil {
		dbStatus = "unreachable"
	}

	status := http.StatusOK
	if dbStatus != "ok" {
		status = http.StatusServiceUnavailable
	}
	utils.RespondJSON(w, status, map[string]interface{}{
		"status":   "ok",
		"database": dbStatus,
		"time":     time.Now().UTC(),
	})
}

// TestHandler is the connectivity check the mobile client pings on launch.
func TestHandler(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, map[string]string{"message": "StyleIt API is reachable"})
}
