package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/coachtools/tacticalhub/internal/annotation"
	"github.com/coachtools/tacticalhub/internal/backup"
	"github.com/coachtools/tacticalhub/internal/matchclock"
	"github.com/coachtools/tacticalhub/internal/models"
	"github.com/coachtools/tacticalhub/internal/report"
	"github.com/coachtools/tacticalhub/internal/store"
)

const maxBodyBytes = 50 << 20 // 50 MB; note images travel as data URLs

// Handler holds API route handlers.
type Handler struct {
	store    *store.Store
	exporter *report.Exporter
	clock    *matchclock.Clock
}

// NewHandler creates a new Handler.
func NewHandler(st *store.Store, exporter *report.Exporter, clock *matchclock.Clock) *Handler {
	return &Handler{store: st, exporter: exporter, clock: clock}
}

// --- Games ---

// ListGames handles GET /api/games.
func (h *Handler) ListGames(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"games": h.store.Games()})
}

type createGameRequest struct {
	Name string `json:"name"`
	Date string `json:"date"`
}

// CreateGame handles POST /api/games.
func (h *Handler) CreateGame(w http.ResponseWriter, r *http.Request) {
	var req createGameRequest
	if !decodeBody(w, r, &req) {
		return
	}
	g, err := h.store.CreateGame(req.Name, req.Date)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, g)
}

// GetGame handles GET /api/games/{id}.
func (h *Handler) GetGame(w http.ResponseWriter, r *http.Request) {
	g, err := h.store.Game(chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, g)
}

// DeleteGame handles DELETE /api/games/{id}. Deleting the current game
// clears the current-game reference.
func (h *Handler) DeleteGame(w http.ResponseWriter, r *http.Request) {
	if err := h.store.DeleteGame(chi.URLParam(r, "id")); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetCurrentGame handles GET /api/games/current.
func (h *Handler) GetCurrentGame(w http.ResponseWriter, _ *http.Request) {
	g, err := h.store.CurrentGame()
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, g)
}

type selectGameRequest struct {
	ID string `json:"id"`
}

// SetCurrentGame handles PUT /api/games/current.
func (h *Handler) SetCurrentGame(w http.ResponseWriter, r *http.Request) {
	var req selectGameRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := h.store.SetCurrentGame(req.ID); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// UpdateGameProfile handles PUT /api/games/{id}/profile.
func (h *Handler) UpdateGameProfile(w http.ResponseWriter, r *http.Request) {
	var p models.GameProfile
	if !decodeBody(w, r, &p) {
		return
	}
	if err := h.store.UpdateGameProfile(chi.URLParam(r, "id"), p); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- Notes ---

type addNoteRequest struct {
	Category    string     `json:"category"`
	Subcategory string     `json:"subcategory"`
	Minute      *int       `json:"minute"`
	Text        string     `json:"text"`
	Image       string     `json:"image"`
	VideoLink   string     `json:"videoLink"`
	Tag         models.Tag `json:"tag"`
}

// AddNote handles POST /api/games/{id}/notes. When the minute is
// omitted, the advisory match clock supplies the current one.
func (h *Handler) AddNote(w http.ResponseWriter, r *http.Request) {
	var req addNoteRequest
	if !decodeBody(w, r, &req) {
		return
	}
	minute := 0
	if req.Minute != nil {
		minute = *req.Minute
	} else if h.clock != nil {
		minute = h.clock.Minute()
	}
	n, err := h.store.AddNote(chi.URLParam(r, "id"), store.NoteFields{
		Category:    req.Category,
		Subcategory: req.Subcategory,
		Minute:      minute,
		Text:        req.Text,
		Image:       req.Image,
		VideoLink:   req.VideoLink,
		Tag:         req.Tag,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, n)
}

// ListNotes handles GET /api/games/{id}/notes. With category and
// subcategory query parameters it filters to the exact pair; with
// grouped=1 it returns the report grouping instead.
func (h *Handler) ListNotes(w http.ResponseWriter, r *http.Request) {
	g, err := h.store.Game(chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	q := r.URL.Query()
	if q.Get("grouped") == "1" {
		groups := annotation.GroupedByCategory(g)
		if groups == nil {
			groups = []annotation.Group{}
		}
		writeJSON(w, http.StatusOK, map[string]any{"groups": groups})
		return
	}
	notes := g.Notes
	if cat, sub := q.Get("category"), q.Get("subcategory"); cat != "" || sub != "" {
		notes = annotation.NotesFor(g, cat, sub)
	}
	if notes == nil {
		notes = []models.Note{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"notes": notes})
}

// DeleteNote handles DELETE /api/games/{id}/notes/{noteID}.
func (h *Handler) DeleteNote(w http.ResponseWriter, r *http.Request) {
	if err := h.store.DeleteNote(chi.URLParam(r, "id"), chi.URLParam(r, "noteID")); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- Athletes ---

// ListAthletes handles GET /api/athletes with optional ?q= search.
func (h *Handler) ListAthletes(w http.ResponseWriter, r *http.Request) {
	athletes := annotation.SearchAthletes(h.store.Athletes(), r.URL.Query().Get("q"))
	if athletes == nil {
		athletes = []models.Athlete{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"athletes": athletes})
}

type addAthleteRequest struct {
	Name     string `json:"name"`
	Number   string `json:"number"`
	Position string `json:"position"`
	Photo    string `json:"photo"`
}

// AddAthlete handles POST /api/athletes.
func (h *Handler) AddAthlete(w http.ResponseWriter, r *http.Request) {
	var req addAthleteRequest
	if !decodeBody(w, r, &req) {
		return
	}
	a, err := h.store.AddAthlete(store.AthleteFields{
		Name:     req.Name,
		Number:   req.Number,
		Position: req.Position,
		Photo:    req.Photo,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, a)
}

// DeleteAthlete handles DELETE /api/athletes/{id}.
func (h *Handler) DeleteAthlete(w http.ResponseWriter, r *http.Request) {
	if err := h.store.DeleteAthlete(chi.URLParam(r, "id")); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type addAthleteNoteRequest struct {
	Minute *int   `json:"minute"`
	Text   string `json:"text"`
}

// AddAthleteNote handles POST /api/athletes/{id}/notes.
func (h *Handler) AddAthleteNote(w http.ResponseWriter, r *http.Request) {
	var req addAthleteNoteRequest
	if !decodeBody(w, r, &req) {
		return
	}
	minute := 0
	if req.Minute != nil {
		minute = *req.Minute
	} else if h.clock != nil {
		minute = h.clock.Minute()
	}
	n, err := h.store.AddAthleteNote(chi.URLParam(r, "id"), minute, req.Text)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, n)
}

// DeleteAthleteNote handles DELETE /api/athletes/{id}/notes/{noteID}.
func (h *Handler) DeleteAthleteNote(w http.ResponseWriter, r *http.Request) {
	if err := h.store.DeleteAthleteNote(chi.URLParam(r, "id"), chi.URLParam(r, "noteID")); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- Profile & theme ---

// GetProfile handles GET /api/profile.
func (h *Handler) GetProfile(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.store.Snapshot().Profile)
}

// UpdateProfile handles PUT /api/profile.
func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var p models.Profile
	if !decodeBody(w, r, &p) {
		return
	}
	if err := h.store.UpdateProfile(p); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type setThemeRequest struct {
	Theme models.Theme `json:"theme"`
}

// SetTheme handles PUT /api/theme.
func (h *Handler) SetTheme(w http.ResponseWriter, r *http.Request) {
	var req setThemeRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := h.store.SetTheme(req.Theme); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- Backup ---

// ExportBackup handles GET /api/backup: the whole document as a
// downloadable pretty-printed JSON snapshot.
func (h *Handler) ExportBackup(w http.ResponseWriter, _ *http.Request) {
	blob, err := backup.Marshal(h.store.Snapshot())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", backup.FileName(time.Now())))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(blob)
}

// ImportBackup handles POST /api/backup: replaces the document
// wholesale after the backup passes the shape check. A malformed backup
// is rejected and the current document stays untouched.
func (h *Handler) ImportBackup(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	blob, err := io.ReadAll(r.Body)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("failed to read body"))
		return
	}
	doc, err := backup.Unmarshal(blob)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if err := h.store.Replace(doc); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- Reports ---

// ExportGameReport handles GET /api/games/{id}/report.
func (h *Handler) ExportGameReport(w http.ResponseWriter, r *http.Request) {
	g, err := h.store.Game(chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	artifact, err := h.exporter.ExportGame(g)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeArtifact(w, artifact)
}

// ExportAthleteReport handles GET /api/athletes/{id}/report.
func (h *Handler) ExportAthleteReport(w http.ResponseWriter, r *http.Request) {
	a, err := h.store.Athlete(chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	artifact, err := h.exporter.ExportAthlete(a)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeArtifact(w, artifact)
}

func writeArtifact(w http.ResponseWriter, a *report.Artifact) {
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", a.FileName))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(a.Data)
}

// --- Match clock ---

type clockState struct {
	Running bool  `json:"running"`
	Seconds int64 `json:"seconds"`
	Minute  int   `json:"minute"`
}

// GetClock handles GET /api/clock.
func (h *Handler) GetClock(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, clockState{
		Running: h.clock.Running(),
		Seconds: h.clock.Elapsed(),
		Minute:  h.clock.Minute(),
	})
}

// StartClock handles POST /api/clock/start.
func (h *Handler) StartClock(w http.ResponseWriter, _ *http.Request) {
	h.clock.Start()
	w.WriteHeader(http.StatusNoContent)
}

// PauseClock handles POST /api/clock/pause.
func (h *Handler) PauseClock(w http.ResponseWriter, _ *http.Request) {
	h.clock.Pause()
	w.WriteHeader(http.StatusNoContent)
}

// ResetClock handles POST /api/clock/reset.
func (h *Handler) ResetClock(w http.ResponseWriter, _ *http.Request) {
	h.clock.Reset()
	w.WriteHeader(http.StatusNoContent)
}

// decodeBody decodes a JSON request body, writing a 400 on failure.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return false
	}
	return true
}
