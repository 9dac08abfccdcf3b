package mcpserver

import (
	"context"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/coachtools/tacticalhub/internal/store"
	"github.com/coachtools/tacticalhub/internal/testutil"
)

func testMCPServer(t *testing.T) (*Server, *store.Store) {
	t.Helper()
	st := testutil.TestStore(t)
	return New(st), st
}

func callTool(t *testing.T, srv *Server, name string, args map[string]interface{}) *mcp.CallToolResult {
	t.Helper()
	ctx := context.Background()
	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args

	// mcp-go has no direct "call tool" test helper; the handler
	// functions are exercised directly.
	var result *mcp.CallToolResult
	var err error

	switch name {
	case "list_games":
		result, err = srv.listGames(ctx, req)
	case "get_game_notes":
		result, err = srv.getGameNotes(ctx, req)
	case "add_note":
		result, err = srv.addNote(ctx, req)
	case "add_athlete_note":
		result, err = srv.addAthleteNote(ctx, req)
	case "search_athletes":
		result, err = srv.searchAthletes(ctx, req)
	case "get_taxonomy":
		result, err = srv.getTaxonomy(ctx, req)
	default:
		t.Fatalf("unknown tool: %s", name)
	}

	if err != nil {
		t.Fatalf("tool %s error: %v", name, err)
	}
	return result
}

func resultText(r *mcp.CallToolResult) string {
	if len(r.Content) > 0 {
		if tc, ok := r.Content[0].(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

func TestListGamesAndAddNote(t *testing.T) {
	srv, st := testMCPServer(t)
	g, err := st.CreateGame("vs Rivals", "2024-03-09")
	if err != nil {
		t.Fatal(err)
	}

	r := callTool(t, srv, "add_note", map[string]interface{}{
		"game_id":     g.ID,
		"category":    "org-def",
		"subcategory": "bloco-alto",
		"minute":      12,
		"text":        "pressão alta funciona",
	})
	if r.IsError {
		t.Fatalf("add_note failed: %s", resultText(r))
	}

	r = callTool(t, srv, "list_games", map[string]interface{}{})
	text := resultText(r)
	if !strings.Contains(text, "vs Rivals") {
		t.Errorf("list_games missing game: %s", text)
	}
	if !strings.Contains(text, `"notes": 1`) {
		t.Errorf("list_games missing note count: %s", text)
	}

	r = callTool(t, srv, "get_game_notes", map[string]interface{}{"game_id": g.ID})
	text = resultText(r)
	if !strings.Contains(text, "pressão alta funciona") {
		t.Errorf("get_game_notes missing note: %s", text)
	}
	if !strings.Contains(text, "org-def-bloco-alto") {
		t.Errorf("get_game_notes missing group key: %s", text)
	}
}

func TestGetGameNotesMissing(t *testing.T) {
	srv, _ := testMCPServer(t)
	r := callTool(t, srv, "get_game_notes", map[string]interface{}{"game_id": "nope"})
	if !r.IsError {
		t.Error("expected error for missing game")
	}
}

func TestAddNoteValidationSurfacesAsToolError(t *testing.T) {
	srv, st := testMCPServer(t)
	g, _ := st.CreateGame("vs Rivals", "")

	r := callTool(t, srv, "add_note", map[string]interface{}{
		"game_id":     g.ID,
		"category":    "org-def",
		"subcategory": "bloco-alto",
		"text":        "   ",
	})
	if !r.IsError {
		t.Error("expected empty-text note to be rejected")
	}
}

func TestSearchAthletesTool(t *testing.T) {
	srv, st := testMCPServer(t)
	a, err := st.AddAthlete(store.AthleteFields{Name: "Marta Silva", Number: "10", Position: "Avançada"})
	if err != nil {
		t.Fatal(err)
	}

	r := callTool(t, srv, "search_athletes", map[string]interface{}{"query": "marta"})
	text := resultText(r)
	if !strings.Contains(text, "Marta Silva") || !strings.Contains(text, "#10") {
		t.Errorf("search result = %q", text)
	}

	r = callTool(t, srv, "add_athlete_note", map[string]interface{}{
		"athlete_id": a.ID,
		"minute":     40,
		"text":       "dominou o jogo",
	})
	if r.IsError {
		t.Fatalf("add_athlete_note failed: %s", resultText(r))
	}

	r = callTool(t, srv, "search_athletes", map[string]interface{}{"query": "nobody"})
	if got := resultText(r); got != "no athletes found" {
		t.Errorf("miss result = %q", got)
	}
}

func TestTaxonomyContract(t *testing.T) {
	srv, _ := testMCPServer(t)
	r := callTool(t, srv, "get_taxonomy", map[string]interface{}{})
	text := resultText(r)
	for _, want := range []string{"org-def", "trans-of", "bolas", "bloco-alto", "ORGANIZAÇÃO DEFENSIVA"} {
		if !strings.Contains(text, want) {
			t.Errorf("taxonomy contract missing %q", want)
		}
	}
}
