package handler

import "net/http"

// Pinger is anything whose liveness the health check should include,
// typically the database.
type Pinger interface {
	Ping() error
}

// HealthHandler answers GET /healthz.
type HealthHandler struct {
	deps []Pinger
}

func NewHealthHandler(deps ...Pinger) *HealthHandler {
	return &HealthHandler{deps: deps}
}

// HandleHealth returns 200 {"status":"ok"} or 503 {"status":"unavailable"}
// if any dependency fails its ping.
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	for _, d := range h.deps {
		if err := d.Ping(); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
