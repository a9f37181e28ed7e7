package main

import (
	"net/http"

	"cheersbot/api"

	"github.com/go-chi/chi/v5"
)

func SetupRouter(app *api.App) http.Handler {
	r := chi.NewRouter()

	r.Get("/health", app.HandleHealthCheck)

	r.Post("/slack/commands", app.HandleSlashCommand)

	r.Mount("/api", app.AdminRouter())

	// Celebration images referenced from Block Kit posts.
	r.Handle("/assets/*", http.StripPrefix("/assets/", http.FileServer(http.Dir("assets"))))

	return r
}
