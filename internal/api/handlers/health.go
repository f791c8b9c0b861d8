package handlers

import (
	"math"
	"net/http"
	"time"
)

type HealthHandler struct {
	Started time.Time
	now     func() time.Time
}

func NewHealthHandler(started time.Time) *HealthHandler {
	return &HealthHandler{Started: started, now: time.Now}
}

// Check reports liveness and uptime. It never touches the graph source.
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	if !allowOnly(w, r, http.MethodGet) {
		return
	}

	uptime := h.now().Sub(h.Started).Seconds()
	writeJSON(w, r, http.StatusOK, map[string]any{
		"status":   "ok",
		"uptime_s": math.Floor(uptime),
	})
}
