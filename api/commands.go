package api

import (
	"net/http"
	"strings"

	"cheersbot/celebrate"
)

// HandleSlashCommand dispatches the form-encoded slash-command payload.
// Every path responds with a well-formed slash response; expected
// resolution outcomes (ambiguous, not found) are rendered, not errored.
func (a *App) HandleSlashCommand(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid command payload", http.StatusBadRequest)
		return
	}

	command := r.FormValue("command")
	text := strings.TrimSpace(r.FormValue("text"))
	caller := r.FormValue("user_id")

	if command == "" {
		http.Error(w, "Missing command", http.StatusBadRequest)
		return
	}

	switch command {
	case "/birthday":
		writeJSON(w, http.StatusOK, a.handleCelebration(r.Context(), celebrate.Birthday, text))
	case "/anniversary":
		writeJSON(w, http.StatusOK, a.handleCelebration(r.Context(), celebrate.Anniversary, text))
	case "/profile":
		writeJSON(w, http.StatusOK, a.handleProfile(r.Context(), text, caller))
	default:
		writeJSON(w, http.StatusOK, ephemeral("❌ Unknown command."))
	}
}

// cleanToken strips wrapping backticks and quotes users paste around
// names. Mention brackets stay intact for the resolver.
func cleanToken(raw string) string {
	return strings.Trim(raw, "`'\"")
}
