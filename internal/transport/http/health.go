package http

import "net/http"

// HealthHandler reports process liveness. Dependency readiness (postgres,
// redis, kafka) is left to the orchestrator's own probes.
func HealthHandler(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
