package api

import (
	"crypto/subtle"
	"net/http"
	"strings"
	"time"
)

// handleCron is the reminder trigger hit by an external cron on the hour.
// It requires the shared bearer secret; the scheduler decides what is due.
func (s *Server) handleCron(w http.ResponseWriter, r *http.Request) {
	auth := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(auth, "Bearer ")
	if !ok || subtle.ConstantTimeCompare([]byte(token), []byte(s.cfg.CronSecret)) != 1 {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	sent, err := s.scheduler.Run(r.Context(), time.Now())
	if err != nil {
		s.internalError(w, r, "run reminders", err)
		return
	}
	if sent == nil {
		sent = []string{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "sent": sent})
}
