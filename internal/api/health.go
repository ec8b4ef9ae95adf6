package api

import (
	"net/http"
	"time"
)

type healthResponse struct {
	Status    string         `json:"status"`
	Timestamp string         `json:"timestamp"`
	Services  healthServices `json:"services"`
}

type healthServices struct {
	Database string `json:"database"`
	CieloAPI string `json:"cieloApi"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	dbStatus := "connected"
	if s.pool == nil {
		dbStatus = "disconnected"
	} else if err := s.pool.Ping(r.Context()); err != nil {
		dbStatus = "disconnected"
	}

	cieloStatus := "not configured"
	if s.cielo != nil && s.cielo.Enabled() {
		cieloStatus = "configured"
	}

	writeJSON(w, http.StatusOK, healthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Services:  healthServices{Database: dbStatus, CieloAPI: cieloStatus},
	})
}
