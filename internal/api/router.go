package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// sseHandler, if non-nil, is mounted at GET /events inside the auth group.
// mediaDir is where uploaded media files land.
func NewRouter(h *Handler, authEnabled bool, token string, sseHandler http.Handler, mediaDir string) chi.Router {
	mh := NewMediaHandler(mediaDir)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	// Games and their notes.
	r.Get("/games", h.ListGames)
	r.Post("/games", h.CreateGame)
	r.Get("/games/current", h.GetCurrentGame)
	r.Put("/games/current", h.SetCurrentGame)
	r.Get("/games/{id}", h.GetGame)
	r.Delete("/games/{id}", h.DeleteGame)
	r.Put("/games/{id}/profile", h.UpdateGameProfile)
	r.Get("/games/{id}/notes", h.ListNotes)
	r.Post("/games/{id}/notes", h.AddNote)
	r.Delete("/games/{id}/notes/{noteID}", h.DeleteNote)
	r.Get("/games/{id}/report", h.ExportGameReport)

	// Athletes and their notes.
	r.Get("/athletes", h.ListAthletes)
	r.Post("/athletes", h.AddAthlete)
	r.Delete("/athletes/{id}", h.DeleteAthlete)
	r.Post("/athletes/{id}/notes", h.AddAthleteNote)
	r.Delete("/athletes/{id}/notes/{noteID}", h.DeleteAthleteNote)
	r.Get("/athletes/{id}/report", h.ExportAthleteReport)

	// Coach profile and theme.
	r.Get("/profile", h.GetProfile)
	r.Put("/profile", h.UpdateProfile)
	r.Put("/theme", h.SetTheme)

	// Backup export/import.
	r.Get("/backup", h.ExportBackup)
	r.Post("/backup", h.ImportBackup)

	// Match clock.
	r.Get("/clock", h.GetClock)
	r.Post("/clock/start", h.StartClock)
	r.Post("/clock/pause", h.PauseClock)
	r.Post("/clock/reset", h.ResetClock)

	// Media upload (auth-protected).
	r.Post("/media", mh.Upload)

	// SSE endpoint (protected by same auth middleware).
	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
