// Package annotation is the query layer over the entity store: note
// filtering, grouping for reports, minute ordering, and athlete search.
// Everything here is a pure function over document values. Insertion
// order is preserved, and minute ordering is applied only where a
// presentation step asks for it.
package annotation

import (
	"sort"
	"strings"

	"github.com/coachtools/tacticalhub/internal/models"
)

// Group is one occupied (category, subcategory) pair and its notes. The
// tokens are carried separately rather than re-split from Key: category
// keys themselves contain the "-" delimiter.
type Group struct {
	Key         string        `json:"key"` // literal "<category>-<subcategory>"
	Category    string        `json:"category"`
	Subcategory string        `json:"subcategory"`
	Notes       []models.Note `json:"notes"`
}

// NotesFor returns the game's notes matching exactly (category,
// subcategory), in insertion order.
func NotesFor(g models.Game, category, subcategory string) []models.Note {
	var out []models.Note
	for _, n := range g.Notes {
		if n.Category == category && n.Subcategory == subcategory {
			out = append(out, n)
		}
	}
	return out
}

// GroupedByCategory partitions the game's notes into groups, ordered by
// first encounter while scanning the note sequence. The partition is
// exhaustive and disjoint: every note lands in exactly one group.
func GroupedByCategory(g models.Game) []Group {
	index := make(map[string]int)
	var groups []Group
	for _, n := range g.Notes {
		key := n.Category + "-" + n.Subcategory
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, Group{
				Key:         key,
				Category:    n.Category,
				Subcategory: n.Subcategory,
			})
		}
		groups[i].Notes = append(groups[i].Notes, n)
	}
	return groups
}

// SortedByMinute returns a new slice sorted ascending by minute. The
// sort is stable: notes with equal minutes keep their relative order.
func SortedByMinute(notes []models.Note) []models.Note {
	out := append([]models.Note(nil), notes...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Minute < out[j].Minute
	})
	return out
}

// SortedAthleteNotes is SortedByMinute for flat athlete notes.
func SortedAthleteNotes(notes []models.AthleteNote) []models.AthleteNote {
	out := append([]models.AthleteNote(nil), notes...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Minute < out[j].Minute
	})
	return out
}

// SearchAthletes filters athletes by a case-insensitive substring match
// over name, number and position. An empty term returns everyone.
func SearchAthletes(athletes []models.Athlete, term string) []models.Athlete {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return athletes
	}
	var out []models.Athlete
	for _, a := range athletes {
		if strings.Contains(strings.ToLower(a.Name), term) ||
			strings.Contains(strings.ToLower(a.Number), term) ||
			strings.Contains(strings.ToLower(a.Position), term) {
			out = append(out, a)
		}
	}
	return out
}
