// Package models defines the domain types for Tactical Hub.
package models

import "time"

// Theme selects the UI color scheme persisted with the document.
type Theme string

// Supported themes.
const (
	ThemeDark  Theme = "dark"
	ThemeLight Theme = "light"
)

// Tag is an optional sentiment attached to a note.
type Tag string

// Supported note tags.
const (
	TagPositive Tag = "positive"
	TagNegative Tag = "negative"
	TagNeutral  Tag = "neutral"
)

// Note is a single timestamped tactical observation inside a game,
// classified under a taxonomy category/subcategory. At least one of
// Text, Image or VideoLink is non-empty.
type Note struct {
	ID          string    `json:"id"`
	Category    string    `json:"category"`
	Subcategory string    `json:"subcategory"`
	Minute      int       `json:"minute"`
	Text        string    `json:"text"`
	Image       string    `json:"image,omitempty"`
	VideoLink   string    `json:"videoLink,omitempty"`
	Tag         Tag       `json:"tag,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

// HasMedia reports whether the note carries an image or a video link.
func (n Note) HasMedia() bool {
	return n.Image != "" || n.VideoLink != ""
}

// GameProfile holds the free-form descriptive fields of one game.
type GameProfile struct {
	TeamName        string `json:"teamName"`
	CoachName       string `json:"coachName"`
	OpponentName    string `json:"opponentName"`
	CompetitionName string `json:"competitionName"`
	GameLocation    string `json:"gameLocation"`
	Formation       string `json:"formation"`
	GameName        string `json:"gameName"`
	GameDate        string `json:"gameDate"`
	GameNotes       string `json:"gameNotes"`
}

// Game is one match under analysis: the top-level container for notes.
type Game struct {
	ID      string      `json:"id"`
	Name    string      `json:"name"`
	Date    string      `json:"date"` // ISO calendar date (YYYY-MM-DD)
	Notes   []Note      `json:"notes"`
	Profile GameProfile `json:"profile"`
}

// AthleteNote is a flat observation about a single athlete.
type AthleteNote struct {
	ID        string    `json:"id"`
	Minute    int       `json:"minute"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// Athlete is a tracked player with her own note sequence.
type Athlete struct {
	ID       string        `json:"id"`
	Name     string        `json:"name"`
	Number   string        `json:"number,omitempty"`
	Position string        `json:"position,omitempty"`
	Photo    string        `json:"photo,omitempty"`
	Notes    []AthleteNote `json:"notes"`
}

// Profile holds coach-level defaults, separate from per-game profiles.
type Profile struct {
	Photo     string `json:"photo,omitempty"`
	TeamName  string `json:"teamName"`
	CoachName string `json:"coachName"`
}

// Document is the root of all persisted state. It is loaded wholesale at
// startup and saved wholesale after every mutation.
type Document struct {
	Games       []Game    `json:"games"`
	CurrentGame string    `json:"currentGame,omitempty"`
	Profile     Profile   `json:"profile"`
	Athletes    []Athlete `json:"athletes"`
	Theme       Theme     `json:"theme"`
}

// NewDocument returns an empty default document.
func NewDocument() *Document {
	return &Document{
		Games:    []Game{},
		Athletes: []Athlete{},
		Theme:    ThemeDark,
	}
}

// Clone returns a deep copy of the document. Mutating the copy never
// affects the original.
func (d *Document) Clone() *Document {
	out := &Document{
		CurrentGame: d.CurrentGame,
		Profile:     d.Profile,
		Theme:       d.Theme,
		Games:       make([]Game, len(d.Games)),
		Athletes:    make([]Athlete, len(d.Athletes)),
	}
	for i, g := range d.Games {
		cp := g
		cp.Notes = append([]Note(nil), g.Notes...)
		out.Games[i] = cp
	}
	for i, a := range d.Athletes {
		cp := a
		cp.Notes = append([]AthleteNote(nil), a.Notes...)
		out.Athletes[i] = cp
	}
	return out
}
