package annotation

import (
	"testing"

	"github.com/coachtools/tacticalhub/internal/models"
	"github.com/coachtools/tacticalhub/internal/taxonomy"
)

func note(id, cat, sub string, minute int) models.Note {
	return models.Note{ID: id, Category: cat, Subcategory: sub, Minute: minute, Text: "t-" + id}
}

func TestNotesForExactPair(t *testing.T) {
	g := models.Game{Notes: []models.Note{
		note("a", taxonomy.OrgDef, "bloco-alto", 5),
		note("b", taxonomy.OrgDef, "bloco-medio", 10),
		note("c", taxonomy.OrgDef, "bloco-alto", 15),
		note("d", taxonomy.TransOf, "transicao", 20),
	}}

	got := NotesFor(g, taxonomy.OrgDef, "bloco-alto")
	if len(got) != 2 || got[0].ID != "a" || got[1].ID != "c" {
		t.Errorf("NotesFor = %+v", got)
	}

	if got := NotesFor(g, taxonomy.Bolas, "ofensivas"); len(got) != 0 {
		t.Errorf("unoccupied pair returned %d notes", len(got))
	}
}

func TestGroupedByCategoryFirstEncounterOrder(t *testing.T) {
	g := models.Game{Notes: []models.Note{
		note("a", taxonomy.TransOf, "transicao", 30),
		note("b", taxonomy.OrgDef, "bloco-alto", 5),
		note("c", taxonomy.TransOf, "transicao", 10),
		note("d", taxonomy.Bolas, "ofensivas", 44),
	}}

	groups := GroupedByCategory(g)
	if len(groups) != 3 {
		t.Fatalf("groups = %d, want 3", len(groups))
	}
	wantKeys := []string{"trans-of-transicao", "org-def-bloco-alto", "bolas-ofensivas"}
	for i, want := range wantKeys {
		if groups[i].Key != want {
			t.Errorf("groups[%d].Key = %q, want %q", i, groups[i].Key, want)
		}
	}
	if groups[0].Category != taxonomy.TransOf || groups[0].Subcategory != "transicao" {
		t.Errorf("group tokens = %q/%q", groups[0].Category, groups[0].Subcategory)
	}
	if len(groups[0].Notes) != 2 {
		t.Errorf("first group notes = %d, want 2", len(groups[0].Notes))
	}
}

func TestGroupedByCategoryExhaustiveAndDisjoint(t *testing.T) {
	g := models.Game{Notes: []models.Note{
		note("a", taxonomy.OrgDef, "bloco-alto", 1),
		note("b", taxonomy.OrgDef, "bloco-alto", 2),
		note("c", taxonomy.OrgOf, "construcao", 3),
		note("d", "custom-cat", "custom-sub", 4),
	}}

	groups := GroupedByCategory(g)
	seen := make(map[string]int)
	total := 0
	for _, grp := range groups {
		for _, n := range grp.Notes {
			seen[n.ID]++
			total++
		}
	}
	if total != len(g.Notes) {
		t.Errorf("grouped %d notes, want %d", total, len(g.Notes))
	}
	for id, count := range seen {
		if count != 1 {
			t.Errorf("note %q appears %d times", id, count)
		}
	}
}

func TestSortedByMinuteStable(t *testing.T) {
	// B and A share minute 10 with B inserted first; the tie must keep
	// insertion order.
	notes := []models.Note{
		{ID: "B", Minute: 10},
		{ID: "A", Minute: 10},
		{ID: "C", Minute: 3},
	}
	got := SortedByMinute(notes)

	wantOrder := []string{"C", "B", "A"}
	for i, want := range wantOrder {
		if got[i].ID != want {
			t.Errorf("got[%d] = %q, want %q", i, got[i].ID, want)
		}
	}
	// Input untouched.
	if notes[0].ID != "B" {
		t.Error("SortedByMinute mutated its input")
	}
}

func TestSortedAthleteNotes(t *testing.T) {
	notes := []models.AthleteNote{
		{ID: "x", Minute: 88},
		{ID: "y", Minute: 2},
		{ID: "z", Minute: 45},
	}
	got := SortedAthleteNotes(notes)
	if got[0].ID != "y" || got[1].ID != "z" || got[2].ID != "x" {
		t.Errorf("order = %q %q %q", got[0].ID, got[1].ID, got[2].ID)
	}
}

func TestSearchAthletes(t *testing.T) {
	athletes := []models.Athlete{
		{ID: "1", Name: "Marta Silva", Number: "10", Position: "Avançada"},
		{ID: "2", Name: "Ana Costa", Number: "7", Position: "Média"},
		{ID: "3", Name: "Rita Mendes", Number: "1", Position: "Guarda-redes"},
	}

	if got := SearchAthletes(athletes, ""); len(got) != 3 {
		t.Errorf("empty term returned %d, want all", len(got))
	}
	if got := SearchAthletes(athletes, "  marta "); len(got) != 1 || got[0].ID != "1" {
		t.Errorf("name search = %+v", got)
	}
	if got := SearchAthletes(athletes, "7"); len(got) != 1 || got[0].ID != "2" {
		t.Errorf("number search = %+v", got)
	}
	if got := SearchAthletes(athletes, "guarda"); len(got) != 1 || got[0].ID != "3" {
		t.Errorf("position search = %+v", got)
	}
	if got := SearchAthletes(athletes, "nobody"); len(got) != 0 {
		t.Errorf("miss returned %d", len(got))
	}
}
