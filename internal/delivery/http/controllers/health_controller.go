package controllers

import (
	"database/sql"
	"net/http"
	"time"

	"innoevent/internal/delivery/http/helpers"
)

// HealthController reports process and database health.
type HealthController struct {
	DB *sql.DB
}

func NewHealthController(db *sql.DB) *HealthController {
	return &HealthController{DB: db}
}

// HealthStatus is the response body for GET /health.
type HealthStatus struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Service   string    `json:"service"`
	Database  string    `json:"database"`
}

// Check godoc
// @Summary Health check
// @Tags operational
// @Produce json
// @Success 200 {object} controllers.HealthStatus
// @Failure 503 {object} controllers.HealthStatus "database unreachable"
// @Router /health [get]
func (c *HealthController) Check(w http.ResponseWriter, r *http.Request) {
	status := HealthStatus{
		Status:    "ok",
		Timestamp: time.Now().UTC(),
		Service:   "innoevent",
		Database:  "ok",
	}
	code := http.StatusOK
	if err := c.DB.PingContext(r.Context()); err != nil {
		status.Status = "degraded"
		status.Database = "unreachable"
		code = http.StatusServiceUnavailable
	}
	helpers.WriteJSONSuccess(w, code, status)
}
