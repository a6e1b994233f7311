package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"paisa/internal/telegram"
)

// handleWebhook receives Telegram updates. It always answers 200 with a
// well-formed body: any other status makes Telegram retry the same update
// over and over, so even garbage is acknowledged.
func (s *Server) handleWebhook(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var update telegram.Update
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		slog.ErrorContext(ctx, "Undecodable webhook payload", "error", err)
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
		return
	}

	s.bot.HandleUpdate(ctx, update)
	s.overview.invalidate()
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}
