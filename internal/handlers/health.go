package handlers

import (
	"context"
	"net/http"
	"time"

	applog "stircraft/internal/log"
)

const pingTimeout = 2 * time.Second

type healthResponse struct {
	Status   string    `json:"status"`
	Database string    `json:"database"`
	Time     time.Time `json:"time"`
}

// Health reports process liveness and, when a database is configured,
// whether it answers a ping. An unreachable database yields 503.
func Health(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{Status: "ok", Database: databaseStatus(r.Context()), Time: time.Now().UTC()}
	status := http.StatusOK
	if resp.Database == "unavailable" {
		resp.Status = "degraded"
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, resp)
}

func databaseStatus(ctx context.Context) string {
	if database == nil {
		return "not_configured"
	}
	sqlDB, err := database.DB()
	if err != nil {
		applog.Warn(ctx, "health check could not access database", "error", err)
		return "unavailable"
	}
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		applog.Warn(ctx, "health check database ping failed", "error", err)
		return "unavailable"
	}
	return "ok"
}
