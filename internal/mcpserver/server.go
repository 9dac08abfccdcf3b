// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes tactical annotation tools for LLM integration via
// stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/coachtools/tacticalhub/internal/annotation"
	"github.com/coachtools/tacticalhub/internal/models"
	"github.com/coachtools/tacticalhub/internal/store"
	"github.com/coachtools/tacticalhub/internal/taxonomy"
)

// Server wraps the MCP server with annotation tools.
type Server struct {
	mcp   *server.MCPServer
	store *store.Store
}

// New creates a new MCP server with all annotation tools registered.
func New(st *store.Store) *Server {
	s := &Server{store: st}

	s.mcp = server.NewMCPServer(
		"TacticalHub",
		"2.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("list_games",
		mcp.WithDescription("List every recorded game with its id, name, date and note count."),
	), s.listGames)

	s.mcp.AddTool(mcp.NewTool("get_game_notes",
		mcp.WithDescription("Read the notes of a game, grouped by tactical category and subcategory. "+
			"Category and subcategory keys are explained by the taxonomy resource."),
		mcp.WithString("game_id", mcp.Required(), mcp.Description("Id of the game")),
	), s.getGameNotes)

	s.mcp.AddTool(mcp.NewTool("add_note",
		mcp.WithDescription("Add a tactical note to a game. Category and subcategory MUST be "+
			"taxonomy keys (e.g. org-def / bloco-alto). Read the get_taxonomy tool or the "+
			"tacticalhub://taxonomy resource first."),
		mcp.WithString("game_id", mcp.Required(), mcp.Description("Id of the game")),
		mcp.WithString("category", mcp.Required(), mcp.Description("Taxonomy category key")),
		mcp.WithString("subcategory", mcp.Required(), mcp.Description("Taxonomy subcategory key")),
		mcp.WithNumber("minute", mcp.Description("Game minute the observation refers to")),
		mcp.WithString("text", mcp.Required(), mcp.Description("The observation text")),
		mcp.WithString("tag", mcp.Description("Optional sentiment tag: positive, negative or neutral")),
	), s.addNote)

	s.mcp.AddTool(mcp.NewTool("add_athlete_note",
		mcp.WithDescription("Add a flat observation note to an athlete."),
		mcp.WithString("athlete_id", mcp.Required(), mcp.Description("Id of the athlete")),
		mcp.WithNumber("minute", mcp.Description("Game minute the observation refers to")),
		mcp.WithString("text", mcp.Required(), mcp.Description("The observation text")),
	), s.addAthleteNote)

	s.mcp.AddTool(mcp.NewTool("search_athletes",
		mcp.WithDescription("Search the athlete roster by name, shirt number or position. "+
			"An empty query returns every athlete."),
		mcp.WithString("query", mcp.Description("Case-insensitive substring to match")),
	), s.searchAthletes)

	s.mcp.AddTool(mcp.NewTool("get_taxonomy",
		mcp.WithDescription("Returns the fixed tactical taxonomy: every category and subcategory "+
			"key with its display label. Call this before adding notes."),
	), s.getTaxonomy)

	// Resource: the tactical taxonomy.
	s.mcp.AddResource(
		mcp.NewResource("tacticalhub://taxonomy", "Tactical Taxonomy",
			mcp.WithResourceDescription("Category and subcategory keys notes are classified under."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readTaxonomyResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func (s *Server) listGames(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	type row struct {
		ID    string `json:"id"`
		Name  string `json:"name"`
		Date  string `json:"date"`
		Notes int    `json:"notes"`
	}
	games := s.store.Games()
	rows := make([]row, 0, len(games))
	for _, g := range games {
		rows = append(rows, row{ID: g.ID, Name: g.Name, Date: g.Date, Notes: len(g.Notes)})
	}
	out, _ := json.MarshalIndent(rows, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) getGameNotes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	gameID, err := req.RequireString("game_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	g, err := s.store.Game(gameID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("game not found: %s", gameID)), nil
	}
	groups := annotation.GroupedByCategory(g)
	out, _ := json.MarshalIndent(groups, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) addNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	gameID, err := req.RequireString("game_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	category, err := req.RequireString("category")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	subcategory, err := req.RequireString("subcategory")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	text, err := req.RequireString("text")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	f := store.NoteFields{
		Category:    category,
		Subcategory: subcategory,
		Minute:      req.GetInt("minute", 0),
		Text:        text,
	}
	if tag := req.GetString("tag", ""); tag != "" {
		f.Tag = models.Tag(tag)
	}

	n, err := s.store.AddNote(gameID, f)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("created note %s in game %s", n.ID, gameID)), nil
}

func (s *Server) addAthleteNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	athleteID, err := req.RequireString("athlete_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	text, err := req.RequireString("text")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	n, err := s.store.AddAthleteNote(athleteID, req.GetInt("minute", 0), text)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("created note %s for athlete %s", n.ID, athleteID)), nil
}

func (s *Server) searchAthletes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query := req.GetString("query", "")
	matches := annotation.SearchAthletes(s.store.Athletes(), query)
	if len(matches) == 0 {
		return mcp.NewToolResultText("no athletes found"), nil
	}

	var b strings.Builder
	for _, a := range matches {
		fmt.Fprintf(&b, "%s\t%s", a.ID, a.Name)
		if a.Number != "" {
			fmt.Fprintf(&b, "\t#%s", a.Number)
		}
		if a.Position != "" {
			fmt.Fprintf(&b, "\t%s", a.Position)
		}
		b.WriteByte('\n')
	}
	return mcp.NewToolResultText(strings.TrimRight(b.String(), "\n")), nil
}

func (s *Server) getTaxonomy(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(TaxonomyContract), nil
}

func (s *Server) readTaxonomyResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      "tacticalhub://taxonomy",
			MIMEType: "text/markdown",
			Text:     TaxonomyContract,
		},
	}, nil
}

// TaxonomyContract is built once from the taxonomy package so the
// resource never drifts from the catalog the store accepts.
var TaxonomyContract = buildTaxonomyContract()

func buildTaxonomyContract() string {
	var b strings.Builder
	b.WriteString("# Tactical taxonomy\n\n")
	b.WriteString("Notes are classified by a category key and a subcategory key.\n\n")
	b.WriteString("## Categories\n\n")
	for _, key := range taxonomy.Categories() {
		fmt.Fprintf(&b, "- `%s`: %s\n", key, taxonomy.CategoryLabel(key))
	}
	b.WriteString("\n## Subcategories\n\n")
	for _, key := range taxonomy.Subcategories() {
		fmt.Fprintf(&b, "- `%s`: %s\n", key, taxonomy.SubcategoryLabel(key))
	}
	return b.String()
}
