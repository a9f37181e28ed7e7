package api

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"cheersbot/celebrate"
	"cheersbot/db"
)

// AdminRouter returns the REST surface for managing profiles and
// celebration configs. It is meant to sit behind /api.
func (a *App) AdminRouter() chi.Router {
	r := chi.NewRouter()

	r.Get("/profiles", a.handleListProfiles)
	r.Post("/profiles", a.handleCreateProfile)
	r.Get("/profiles/{id}", a.handleGetProfile)
	r.Put("/profiles/{id}", a.handleUpdateProfile)
	r.Delete("/profiles/{id}", a.handleDeleteProfile)
	r.Post("/profiles/{id}/birthday", a.handleCelebrationConfig(celebrate.Birthday))
	r.Post("/profiles/{id}/anniversary", a.handleCelebrationConfig(celebrate.Anniversary))
	r.Get("/birthdays", a.handleListEntries(celebrate.Birthday))
	r.Get("/anniversaries", a.handleListEntries(celebrate.Anniversary))

	return r
}

func ok(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, map[string]any{"success": true, "data": data})
}

func fail(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{"error": msg})
}

func profileID(r *http.Request) (uint, bool) {
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 32)
	if err != nil {
		return 0, false
	}
	return uint(id), true
}

func (a *App) handleListProfiles(w http.ResponseWriter, r *http.Request) {
	profiles, err := a.profiles.ListProfiles()
	if err != nil {
		log.Printf("[ERROR] list profiles failed: %v", err)
		fail(w, http.StatusInternalServerError, "Failed to list profiles")
		return
	}
	ok(w, http.StatusOK, profiles)
}

func (a *App) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	id, valid := profileID(r)
	if !valid {
		fail(w, http.StatusBadRequest, "Invalid profile id")
		return
	}

	profile, err := a.profiles.GetProfileByID(id)
	if err != nil {
		log.Printf("[ERROR] get profile %d failed: %v", id, err)
		fail(w, http.StatusInternalServerError, "Failed to fetch profile")
		return
	}
	if profile == nil {
		fail(w, http.StatusNotFound, "Profile not found")
		return
	}
	ok(w, http.StatusOK, profile)
}

func (a *App) handleCreateProfile(w http.ResponseWriter, r *http.Request) {
	var p db.Profile
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		fail(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	p.Email = strings.TrimSpace(strings.ToLower(p.Email))
	if p.Name == "" || p.Email == "" {
		fail(w, http.StatusBadRequest, "name and email are required")
		return
	}

	existing, err := a.profiles.GetByEmail(p.Email)
	if err != nil {
		log.Printf("[ERROR] create profile: email lookup failed: %v", err)
		fail(w, http.StatusInternalServerError, "Failed to create profile")
		return
	}
	if existing != nil {
		fail(w, http.StatusConflict, "A profile with this email already exists")
		return
	}

	p.ID = 0
	if err := a.profiles.CreateProfile(&p); err != nil {
		log.Printf("[ERROR] create profile failed: %v", err)
		fail(w, http.StatusInternalServerError, "Failed to create profile")
		return
	}
	ok(w, http.StatusCreated, p)
}

func (a *App) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	id, valid := profileID(r)
	if !valid {
		fail(w, http.StatusBadRequest, "Invalid profile id")
		return
	}

	current, err := a.profiles.GetProfileByID(id)
	if err != nil {
		log.Printf("[ERROR] update profile %d: lookup failed: %v", id, err)
		fail(w, http.StatusInternalServerError, "Failed to update profile")
		return
	}
	if current == nil {
		fail(w, http.StatusNotFound, "Profile not found")
		return
	}

	var p db.Profile
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		fail(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	p.Email = strings.TrimSpace(strings.ToLower(p.Email))
	if p.Email != "" && !strings.EqualFold(p.Email, current.Email) {
		other, err := a.profiles.GetByEmail(p.Email)
		if err != nil {
			log.Printf("[ERROR] update profile %d: email lookup failed: %v", id, err)
			fail(w, http.StatusInternalServerError, "Failed to update profile")
			return
		}
		if other != nil && other.ID != id {
			fail(w, http.StatusConflict, "A profile with this email already exists")
			return
		}
	}

	p.ID = id
	p.CreatedAt = current.CreatedAt
	if p.Email == "" {
		p.Email = current.Email
	}
	if err := a.profiles.UpdateProfile(&p); err != nil {
		log.Printf("[ERROR] update profile %d failed: %v", id, err)
		fail(w, http.StatusInternalServerError, "Failed to update profile")
		return
	}
	ok(w, http.StatusOK, p)
}

func (a *App) handleDeleteProfile(w http.ResponseWriter, r *http.Request) {
	id, valid := profileID(r)
	if !valid {
		fail(w, http.StatusBadRequest, "Invalid profile id")
		return
	}

	deleted, err := a.profiles.DeleteProfile(id)
	if err != nil {
		log.Printf("[ERROR] delete profile %d failed: %v", id, err)
		fail(w, http.StatusInternalServerError, "Failed to delete profile")
		return
	}
	if !deleted {
		fail(w, http.StatusNotFound, "Profile not found")
		return
	}
	ok(w, http.StatusOK, map[string]any{"deleted": id})
}

type celebrationConfigRequest struct {
	Message string `json:"message"`
	Image   string `json:"image"`
}

// handleCelebrationConfig sets a custom message and image for one
// profile's birthday or anniversary post.
func (a *App) handleCelebrationConfig(kind celebrate.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, valid := profileID(r)
		if !valid {
			fail(w, http.StatusBadRequest, "Invalid profile id")
			return
		}

		profile, err := a.profiles.GetProfileByID(id)
		if err != nil {
			log.Printf("[ERROR] %s config %d: lookup failed: %v", kind, id, err)
			fail(w, http.StatusInternalServerError, "Failed to update celebration config")
			return
		}
		if profile == nil {
			fail(w, http.StatusNotFound, "Profile not found")
			return
		}

		var req celebrationConfigRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			fail(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		if err := a.profiles.UpdateCelebrationConfig(id, kind, req.Message, req.Image); err != nil {
			log.Printf("[ERROR] %s config %d failed: %v", kind, id, err)
			fail(w, http.StatusInternalServerError, "Failed to update celebration config")
			return
		}
		ok(w, http.StatusOK, map[string]any{"profile_id": id, "kind": kind})
	}
}

func (a *App) handleListEntries(kind celebrate.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		entries, err := a.profiles.ListCelebrations(kind)
		if err != nil {
			log.Printf("[ERROR] list %s failed: %v", plural(kind), err)
			fail(w, http.StatusInternalServerError, "Failed to list celebrations")
			return
		}
		ok(w, http.StatusOK, entries)
	}
}
