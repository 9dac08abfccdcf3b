package store

import (
	"fmt"
	"strings"
	"sync"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"github.com/coachtools/tacticalhub/internal/apperr"
	"github.com/coachtools/tacticalhub/internal/backup"
	"github.com/coachtools/tacticalhub/internal/checksum"
	"github.com/coachtools/tacticalhub/internal/models"
)

// Option is a functional option for configuring the store.
type Option func(*Store)

// WithIDGenerator overrides the id generator (default: random UUIDs).
// Two rapid creations must never collide, so ids are never clock-based.
func WithIDGenerator(fn func() string) Option {
	return func(s *Store) { s.newID = fn }
}

// WithClock overrides the time source used for note timestamps and
// default game dates.
func WithClock(fn func() time.Time) Option {
	return func(s *Store) { s.now = fn }
}

// WithOnChange registers a callback invoked after every successful
// mutation, outside the store lock. kind is a dotted event name such as
// "game.created"; id identifies the mutated entity.
func WithOnChange(fn func(kind, id string)) Option {
	return func(s *Store) { s.onChange = fn }
}

// NoteFields carries the caller-supplied fields of a new game note.
type NoteFields struct {
	Category    string
	Subcategory string
	Minute      int
	Text        string
	Image       string
	VideoLink   string
	Tag         models.Tag
}

// AthleteFields carries the caller-supplied fields of a new athlete.
type AthleteFields struct {
	Name     string
	Number   string
	Position string
	Photo    string
}

// Store owns the Root Document. All mutation goes through its methods;
// each mutation is followed by a full-document persist. The in-memory
// document keeps a mutation even when the persist fails; the next
// successful save catches up.
type Store struct {
	mu       sync.Mutex
	doc      *models.Document
	provider Provider
	newID    func() string
	now      func() time.Time
	onChange func(kind, id string)
	lastSum  string
}

// New builds a store around provider, loading the persisted document if
// one exists and starting from an empty default otherwise.
func New(provider Provider, opts ...Option) (*Store, error) {
	s := &Store{
		provider: provider,
		newID:    uuid.NewString,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	blob, err := provider.Load()
	switch {
	case err == nil:
		doc, derr := backup.Unmarshal(blob)
		if derr != nil {
			return nil, fmt.Errorf("store: load document: %w", derr)
		}
		s.doc = doc
		s.lastSum = checksum.Sum(blob)
	case err == ErrNoDocument:
		s.doc = models.NewDocument()
	default:
		return nil, err
	}
	return s, nil
}

// persistLocked serializes the document and writes it through the
// provider. Must be called with the lock held.
func (s *Store) persistLocked() error {
	blob, err := backup.Marshal(s.doc)
	if err != nil {
		return fmt.Errorf("store: encode document: %w", err)
	}
	if err := s.provider.Save(blob); err != nil {
		return err
	}
	s.lastSum = checksum.Sum(blob)
	return nil
}

func (s *Store) notify(kind, id string) {
	if s.onChange != nil {
		s.onChange(kind, id)
	}
}

// OwnWrite reports whether blob is the store's own last persisted
// content. The file watcher uses this to ignore self-inflicted events.
func (s *Store) OwnWrite(blob []byte) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return checksum.Matches(blob, s.lastSum)
}

// Snapshot returns a deep copy of the document for export or reporting.
func (s *Store) Snapshot() *models.Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc.Clone()
}

// --- Games ---

// CreateGame appends a new game with an empty note list, pre-seeds its
// profile from name/date, and marks it current. An empty date defaults
// to today.
func (s *Store) CreateGame(name, date string) (models.Game, error) {
	name = strings.TrimSpace(name)
	if err := validation.Validate(name, validation.Required.Error("game name is required")); err != nil {
		return models.Game{}, fmt.Errorf("%w: %v", apperr.ErrValidation, err)
	}

	s.mu.Lock()
	if date == "" {
		date = s.now().Format("2006-01-02")
	}
	g := models.Game{
		ID:    s.newID(),
		Name:  name,
		Date:  date,
		Notes: []models.Note{},
		Profile: models.GameProfile{
			GameName: name,
			GameDate: date,
		},
	}
	s.doc.Games = append(s.doc.Games, g)
	s.doc.CurrentGame = g.ID
	err := s.persistLocked()
	s.mu.Unlock()
	if err != nil {
		return models.Game{}, err
	}

	s.notify("game.created", g.ID)
	return g, nil
}

// DeleteGame removes a game and every note it holds. If the game was
// current, the current-game reference is cleared.
func (s *Store) DeleteGame(id string) error {
	s.mu.Lock()
	idx := s.gameIndexLocked(id)
	if idx < 0 {
		s.mu.Unlock()
		return apperr.ErrNotFound
	}
	s.doc.Games = append(s.doc.Games[:idx], s.doc.Games[idx+1:]...)
	if s.doc.CurrentGame == id {
		s.doc.CurrentGame = ""
	}
	err := s.persistLocked()
	s.mu.Unlock()
	if err != nil {
		return err
	}

	s.notify("game.deleted", id)
	return nil
}

// SetCurrentGame marks the game with id as current.
func (s *Store) SetCurrentGame(id string) error {
	s.mu.Lock()
	if s.gameIndexLocked(id) < 0 {
		s.mu.Unlock()
		return apperr.ErrNotFound
	}
	s.doc.CurrentGame = id
	err := s.persistLocked()
	s.mu.Unlock()
	if err != nil {
		return err
	}

	s.notify("game.selected", id)
	return nil
}

// Game returns a copy of the game with id.
func (s *Store) Game(id string) (models.Game, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.gameIndexLocked(id)
	if idx < 0 {
		return models.Game{}, apperr.ErrNotFound
	}
	return copyGame(s.doc.Games[idx]), nil
}

// CurrentGame returns a copy of the current game, if one is selected.
func (s *Store) CurrentGame() (models.Game, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.doc.CurrentGame == "" {
		return models.Game{}, apperr.ErrNotFound
	}
	idx := s.gameIndexLocked(s.doc.CurrentGame)
	if idx < 0 {
		return models.Game{}, apperr.ErrNotFound
	}
	return copyGame(s.doc.Games[idx]), nil
}

// Games returns copies of every game, in creation order.
func (s *Store) Games() []models.Game {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Game, len(s.doc.Games))
	for i, g := range s.doc.Games {
		out[i] = copyGame(g)
	}
	return out
}

// UpdateGameProfile replaces the free-form profile of a game.
func (s *Store) UpdateGameProfile(gameID string, p models.GameProfile) error {
	s.mu.Lock()
	idx := s.gameIndexLocked(gameID)
	if idx < 0 {
		s.mu.Unlock()
		return apperr.ErrNotFound
	}
	s.doc.Games[idx].Profile = p
	err := s.persistLocked()
	s.mu.Unlock()
	if err != nil {
		return err
	}

	s.notify("game.profile", gameID)
	return nil
}

// --- Notes ---

// AddNote appends a note to a game. At least one of text, image or
// video link must be non-empty; the minute must be non-negative; the
// tag, when present, must be a known value.
func (s *Store) AddNote(gameID string, f NoteFields) (models.Note, error) {
	f.Text = strings.TrimSpace(f.Text)
	f.VideoLink = strings.TrimSpace(f.VideoLink)
	if f.Text == "" && f.Image == "" && f.VideoLink == "" {
		return models.Note{}, fmt.Errorf("%w: a note needs text, an image or a video link", apperr.ErrValidation)
	}
	if err := validation.Validate(f.Minute, validation.Min(0).Error("minute must not be negative")); err != nil {
		return models.Note{}, fmt.Errorf("%w: %v", apperr.ErrValidation, err)
	}
	if f.Tag != "" {
		if err := validation.Validate(f.Tag,
			validation.In(models.TagPositive, models.TagNegative, models.TagNeutral).Error("unknown tag")); err != nil {
			return models.Note{}, fmt.Errorf("%w: %v", apperr.ErrValidation, err)
		}
	}

	s.mu.Lock()
	idx := s.gameIndexLocked(gameID)
	if idx < 0 {
		s.mu.Unlock()
		return models.Note{}, apperr.ErrNotFound
	}
	n := models.Note{
		ID:          s.newID(),
		Category:    f.Category,
		Subcategory: f.Subcategory,
		Minute:      f.Minute,
		Text:        f.Text,
		Image:       f.Image,
		VideoLink:   f.VideoLink,
		Tag:         f.Tag,
		Timestamp:   s.now(),
	}
	s.doc.Games[idx].Notes = append(s.doc.Games[idx].Notes, n)
	err := s.persistLocked()
	s.mu.Unlock()
	if err != nil {
		return models.Note{}, err
	}

	s.notify("note.created", n.ID)
	return n, nil
}

// DeleteNote removes a single note from a game.
func (s *Store) DeleteNote(gameID, noteID string) error {
	s.mu.Lock()
	idx := s.gameIndexLocked(gameID)
	if idx < 0 {
		s.mu.Unlock()
		return apperr.ErrNotFound
	}
	notes := s.doc.Games[idx].Notes
	pos := -1
	for i, n := range notes {
		if n.ID == noteID {
			pos = i
			break
		}
	}
	if pos < 0 {
		s.mu.Unlock()
		return apperr.ErrNotFound
	}
	s.doc.Games[idx].Notes = append(notes[:pos], notes[pos+1:]...)
	err := s.persistLocked()
	s.mu.Unlock()
	if err != nil {
		return err
	}

	s.notify("note.deleted", noteID)
	return nil
}

// --- Athletes ---

// AddAthlete registers a new athlete with an empty note list.
func (s *Store) AddAthlete(f AthleteFields) (models.Athlete, error) {
	f.Name = strings.TrimSpace(f.Name)
	if err := validation.Validate(f.Name, validation.Required.Error("athlete name is required")); err != nil {
		return models.Athlete{}, fmt.Errorf("%w: %v", apperr.ErrValidation, err)
	}

	s.mu.Lock()
	a := models.Athlete{
		ID:       s.newID(),
		Name:     f.Name,
		Number:   strings.TrimSpace(f.Number),
		Position: strings.TrimSpace(f.Position),
		Photo:    f.Photo,
		Notes:    []models.AthleteNote{},
	}
	s.doc.Athletes = append(s.doc.Athletes, a)
	err := s.persistLocked()
	s.mu.Unlock()
	if err != nil {
		return models.Athlete{}, err
	}

	s.notify("athlete.created", a.ID)
	return a, nil
}

// DeleteAthlete removes an athlete and her notes.
func (s *Store) DeleteAthlete(id string) error {
	s.mu.Lock()
	idx := s.athleteIndexLocked(id)
	if idx < 0 {
		s.mu.Unlock()
		return apperr.ErrNotFound
	}
	s.doc.Athletes = append(s.doc.Athletes[:idx], s.doc.Athletes[idx+1:]...)
	err := s.persistLocked()
	s.mu.Unlock()
	if err != nil {
		return err
	}

	s.notify("athlete.deleted", id)
	return nil
}

// Athlete returns a copy of the athlete with id.
func (s *Store) Athlete(id string) (models.Athlete, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.athleteIndexLocked(id)
	if idx < 0 {
		return models.Athlete{}, apperr.ErrNotFound
	}
	return copyAthlete(s.doc.Athletes[idx]), nil
}

// Athletes returns copies of every athlete, in registration order.
func (s *Store) Athletes() []models.Athlete {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Athlete, len(s.doc.Athletes))
	for i, a := range s.doc.Athletes {
		out[i] = copyAthlete(a)
	}
	return out
}

// AddAthleteNote appends a flat note to an athlete. Text is required.
func (s *Store) AddAthleteNote(athleteID string, minute int, text string) (models.AthleteNote, error) {
	text = strings.TrimSpace(text)
	if err := validation.Validate(text, validation.Required.Error("athlete note text is required")); err != nil {
		return models.AthleteNote{}, fmt.Errorf("%w: %v", apperr.ErrValidation, err)
	}
	if err := validation.Validate(minute, validation.Min(0).Error("minute must not be negative")); err != nil {
		return models.AthleteNote{}, fmt.Errorf("%w: %v", apperr.ErrValidation, err)
	}

	s.mu.Lock()
	idx := s.athleteIndexLocked(athleteID)
	if idx < 0 {
		s.mu.Unlock()
		return models.AthleteNote{}, apperr.ErrNotFound
	}
	n := models.AthleteNote{
		ID:        s.newID(),
		Minute:    minute,
		Text:      text,
		Timestamp: s.now(),
	}
	s.doc.Athletes[idx].Notes = append(s.doc.Athletes[idx].Notes, n)
	err := s.persistLocked()
	s.mu.Unlock()
	if err != nil {
		return models.AthleteNote{}, err
	}

	s.notify("athlete.note.created", n.ID)
	return n, nil
}

// DeleteAthleteNote removes a single note from an athlete.
func (s *Store) DeleteAthleteNote(athleteID, noteID string) error {
	s.mu.Lock()
	idx := s.athleteIndexLocked(athleteID)
	if idx < 0 {
		s.mu.Unlock()
		return apperr.ErrNotFound
	}
	notes := s.doc.Athletes[idx].Notes
	pos := -1
	for i, n := range notes {
		if n.ID == noteID {
			pos = i
			break
		}
	}
	if pos < 0 {
		s.mu.Unlock()
		return apperr.ErrNotFound
	}
	s.doc.Athletes[idx].Notes = append(notes[:pos], notes[pos+1:]...)
	err := s.persistLocked()
	s.mu.Unlock()
	if err != nil {
		return err
	}

	s.notify("athlete.note.deleted", noteID)
	return nil
}

// --- Profile & theme ---

// UpdateProfile replaces the coach-level global profile.
func (s *Store) UpdateProfile(p models.Profile) error {
	s.mu.Lock()
	s.doc.Profile = p
	err := s.persistLocked()
	s.mu.Unlock()
	if err != nil {
		return err
	}

	s.notify("profile.updated", "")
	return nil
}

// SetTheme switches the persisted UI theme.
func (s *Store) SetTheme(theme models.Theme) error {
	if err := validation.Validate(theme,
		validation.In(models.ThemeDark, models.ThemeLight).Error("unknown theme")); err != nil {
		return fmt.Errorf("%w: %v", apperr.ErrValidation, err)
	}

	s.mu.Lock()
	s.doc.Theme = theme
	err := s.persistLocked()
	s.mu.Unlock()
	if err != nil {
		return err
	}

	s.notify("theme.updated", string(theme))
	return nil
}

// --- Whole-document replacement ---

// Replace swaps in a new document wholesale (backup import) and
// persists it. The candidate must already be validated by the caller.
func (s *Store) Replace(doc *models.Document) error {
	s.mu.Lock()
	s.doc = doc.Clone()
	err := s.persistLocked()
	s.mu.Unlock()
	if err != nil {
		return err
	}

	s.notify("document.replaced", "")
	return nil
}

// Reload re-reads the document from the provider, discarding in-memory
// state. Used by the file watcher after an external replacement.
func (s *Store) Reload() error {
	blob, err := s.provider.Load()
	if err != nil {
		return err
	}
	doc, err := backup.Unmarshal(blob)
	if err != nil {
		return fmt.Errorf("store: reload: %w", err)
	}

	s.mu.Lock()
	s.doc = doc
	s.lastSum = checksum.Sum(blob)
	s.mu.Unlock()

	s.notify("document.reloaded", "")
	return nil
}

// --- helpers ---

func (s *Store) gameIndexLocked(id string) int {
	for i, g := range s.doc.Games {
		if g.ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) athleteIndexLocked(id string) int {
	for i, a := range s.doc.Athletes {
		if a.ID == id {
			return i
		}
	}
	return -1
}

func copyGame(g models.Game) models.Game {
	g.Notes = append([]models.Note(nil), g.Notes...)
	return g
}

func copyAthlete(a models.Athlete) models.Athlete {
	a.Notes = append([]models.AthleteNote(nil), a.Notes...)
	return a
}
