package main

import (
	"context"
	"encoding/json"
	"net/http"
	"sort"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type probe struct {
	name  string
	check func(ctx context.Context) error
}

const probeTimeout = 3 * time.Second

// newMux serves /health (liveness), /ready (every probe passes) and /metrics.
func newMux(probes []probe, running func() []string) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	mux.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), probeTimeout)
		defer cancel()

		checks := make(map[string]string, len(probes))
		status, code := "ready", http.StatusOK
		for _, p := range probes {
			if err := p.check(ctx); err != nil {
				checks[p.name] = err.Error()
				status, code = "not ready", http.StatusServiceUnavailable
				continue
			}
			checks[p.name] = "ok"
		}

		workers := running()
		sort.Strings(workers)
		writeJSON(w, code, map[string]interface{}{
			"status":  status,
			"checks":  checks,
			"workers": workers,
			"time":    time.Now().Format(time.RFC3339),
		})
	})

	mux.Handle("/metrics", promhttp.Handler())
	return mux
}

func writeJSON(w http.ResponseWriter, code int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(body)
}
