package api

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"cheersbot/slack"
)

type slashResponse struct {
	ResponseType string        `json:"response_type"`
	Text         string        `json:"text"`
	Blocks       []slack.Block `json:"blocks,omitempty"`
}

func ephemeral(text string) slashResponse {
	return slashResponse{ResponseType: "ephemeral", Text: text}
}

func inChannel(text string, blocks []slack.Block) slashResponse {
	return slashResponse{ResponseType: "in_channel", Text: text, Blocks: blocks}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[ERROR] failed to encode response: %v", err)
	}
}

func (a *App) HandleHealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
