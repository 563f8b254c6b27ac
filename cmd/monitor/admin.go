package main

import (
	"encoding/json"
	"net/http"
	"os"
	"strconv"

	"github.com/social-monitor/internal/config"
	"github.com/social-monitor/internal/monitor"
)

// newAdminMux builds the daemon's HTTP surface: health checks plus the
// operator endpoints the management CLI talks to.
func newAdminMux(cfg *config.Manager, sched *monitor.Scheduler) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("Social Media Monitor"))
	})

	mux.HandleFunc("/status", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(sched.Status(r.Context()))
	})

	mux.HandleFunc("/seen/reset", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		cleared := sched.SeenCount()
		sched.ResetSeen()
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]int{"cleared": cleared})
	})

	mux.HandleFunc("/monitor/interval", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		seconds, err := strconv.Atoi(r.URL.Query().Get("seconds"))
		if err != nil || seconds <= 0 {
			http.Error(w, "seconds must be a positive integer", http.StatusBadRequest)
			return
		}
		if err := cfg.SetInterval(seconds); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		if err := sched.Reschedule(seconds); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})

	return mux
}

// startAdminServer serves health checks and operator endpoints. PORT
// keeps parity with container platforms.
func startAdminServer(cfg *config.Manager, sched *monitor.Scheduler) {
	port := os.Getenv("PORT")
	if port == "" {
		port = "10000"
	}

	log.Info().Str("port", port).Msg("Admin server starting")
	if err := http.ListenAndServe(":"+port, newAdminMux(cfg, sched)); err != nil {
		log.Error().Err(err).Msg("Admin server failed")
	}
}
