package rest

import (
	"encoding/json"
	"net/http"

	"github.com/rocketscienceinc/tictactoe-tcp/internal/entity"
)

func pingHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("pong")); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
}

// sessionsHandler - lists a snapshot of every session, in configuration order.
func (that *Server) sessionsHandler(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "sessionsHandler")

	statuses := make([]*entity.SessionStatus, 0, len(that.sessions))
	for _, s := range that.sessions {
		status, err := s.Status(r.Context())
		if err != nil {
			log.Error("failed to get session status", "error", err)
			http.Error(w, "Service Unavailable", http.StatusServiceUnavailable)
			return
		}

		statuses = append(statuses, status)
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(statuses); err != nil {
		log.Error("failed to encode sessions", "error", err)
	}
}
