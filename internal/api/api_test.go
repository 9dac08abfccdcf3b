package api

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/coachtools/tacticalhub/internal/matchclock"
	"github.com/coachtools/tacticalhub/internal/models"
	"github.com/coachtools/tacticalhub/internal/report"
	"github.com/coachtools/tacticalhub/internal/testutil"
)

type fakeRenderer struct{ pages int }

func (f *fakeRenderer) SetFont(float64, bool)               {}
func (f *fakeRenderer) SetTextColor(int, int, int)          {}
func (f *fakeRenderer) SetDrawColor(int, int, int)          {}
func (f *fakeRenderer) SetLineWidth(float64)                {}
func (f *fakeRenderer) Text(float64, float64, string, bool) {}
func (f *fakeRenderer) SplitText(s string, _ float64) []string {
	return []string{s}
}
func (f *fakeRenderer) Line(float64, float64, float64, float64) {}
func (f *fakeRenderer) AddPage()                                { f.pages++ }
func (f *fakeRenderer) PageCount() int                          { return f.pages }
func (f *fakeRenderer) SetPage(int)                             {}
func (f *fakeRenderer) Output() ([]byte, error)                 { return []byte("%PDF-fake"), nil }

func testServer(t *testing.T) *httptest.Server {
	t.Helper()
	return testServerAuth(t, false, "")
}

func testServerAuth(t *testing.T, authEnabled bool, token string) *httptest.Server {
	t.Helper()

	st := testutil.TestStore(t)
	exporter := report.NewExporter(func() report.Renderer { return &fakeRenderer{} })
	clock := matchclock.New(nil)
	h := NewHandler(st, exporter, clock)

	srv := httptest.NewServer(NewRouter(h, authEnabled, token, nil, t.TempDir()))
	t.Cleanup(srv.Close)
	return srv
}

func doJSON(t *testing.T, method, url string, body any) *http.Response {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		blob, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		reader = bytes.NewReader(blob)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	return resp
}

func decode(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func createGame(t *testing.T, base, name string) models.Game {
	t.Helper()
	resp := doJSON(t, http.MethodPost, base+"/games", map[string]string{"name": name})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create game status = %d", resp.StatusCode)
	}
	var g models.Game
	decode(t, resp, &g)
	return g
}

func TestGameLifecycle(t *testing.T) {
	srv := testServer(t)

	g := createGame(t, srv.URL, "vs Rivals")
	if g.ID == "" || g.Name != "vs Rivals" {
		t.Fatalf("created game = %+v", g)
	}

	// Creating marks current.
	var cur models.Game
	resp := doJSON(t, http.MethodGet, srv.URL+"/games/current", nil)
	decode(t, resp, &cur)
	if cur.ID != g.ID {
		t.Errorf("current = %q, want %q", cur.ID, g.ID)
	}

	// List contains it.
	var list struct {
		Games []models.Game `json:"games"`
	}
	resp = doJSON(t, http.MethodGet, srv.URL+"/games", nil)
	decode(t, resp, &list)
	if len(list.Games) != 1 {
		t.Errorf("games = %d, want 1", len(list.Games))
	}

	// Delete clears current.
	resp = doJSON(t, http.MethodDelete, srv.URL+"/games/"+g.ID, nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("delete status = %d", resp.StatusCode)
	}
	resp = doJSON(t, http.MethodGet, srv.URL+"/games/current", nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("current after delete status = %d, want 404", resp.StatusCode)
	}
}

func TestCreateGameValidation(t *testing.T) {
	srv := testServer(t)

	resp := doJSON(t, http.MethodPost, srv.URL+"/games", map[string]string{"name": "  "})
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}

	req, _ := http.NewRequest(http.MethodPost, srv.URL+"/games", strings.NewReader("{not json"))
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("malformed body status = %d, want 400", resp.StatusCode)
	}
}

func TestNoteEndpoints(t *testing.T) {
	srv := testServer(t)
	g := createGame(t, srv.URL, "vs Rivals")

	// Empty note rejected.
	resp := doJSON(t, http.MethodPost, srv.URL+"/games/"+g.ID+"/notes", map[string]any{"minute": 5})
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("empty note status = %d, want 400", resp.StatusCode)
	}

	// Valid notes in two different groups.
	for i, body := range []map[string]any{
		{"category": "org-def", "subcategory": "bloco-alto", "minute": 12, "text": "pressão alta", "tag": "positive"},
		{"category": "trans-of", "subcategory": "transicao", "minute": 33, "text": "saída rápida"},
	} {
		resp := doJSON(t, http.MethodPost, srv.URL+"/games/"+g.ID+"/notes", body)
		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("note %d status = %d", i, resp.StatusCode)
		}
		resp.Body.Close()
	}

	// Filtered listing.
	var notes struct {
		Notes []models.Note `json:"notes"`
	}
	resp = doJSON(t, http.MethodGet, srv.URL+"/games/"+g.ID+"/notes?category=org-def&subcategory=bloco-alto", nil)
	decode(t, resp, &notes)
	if len(notes.Notes) != 1 || notes.Notes[0].Text != "pressão alta" {
		t.Errorf("filtered notes = %+v", notes.Notes)
	}

	// Grouped listing.
	var grouped struct {
		Groups []struct {
			Key   string        `json:"key"`
			Notes []models.Note `json:"notes"`
		} `json:"groups"`
	}
	resp = doJSON(t, http.MethodGet, srv.URL+"/games/"+g.ID+"/notes?grouped=1", nil)
	decode(t, resp, &grouped)
	if len(grouped.Groups) != 2 {
		t.Errorf("groups = %d, want 2", len(grouped.Groups))
	}

	// Delete.
	noteID := notes.Notes[0].ID
	resp = doJSON(t, http.MethodDelete, srv.URL+"/games/"+g.ID+"/notes/"+noteID, nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("delete note status = %d", resp.StatusCode)
	}
}

func TestAthleteEndpoints(t *testing.T) {
	srv := testServer(t)

	resp := doJSON(t, http.MethodPost, srv.URL+"/athletes", map[string]string{
		"name": "Marta Silva", "number": "10", "position": "Avançada",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("add athlete status = %d", resp.StatusCode)
	}
	var a models.Athlete
	decode(t, resp, &a)

	resp = doJSON(t, http.MethodPost, srv.URL+"/athletes/"+a.ID+"/notes", map[string]any{
		"minute": 40, "text": "dominou o meio-campo",
	})
	resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Errorf("add athlete note status = %d", resp.StatusCode)
	}

	// Search hits and misses.
	var found struct {
		Athletes []models.Athlete `json:"athletes"`
	}
	resp = doJSON(t, http.MethodGet, srv.URL+"/athletes?q=marta", nil)
	decode(t, resp, &found)
	if len(found.Athletes) != 1 {
		t.Errorf("search hit = %d, want 1", len(found.Athletes))
	}
	resp = doJSON(t, http.MethodGet, srv.URL+"/athletes?q=nobody", nil)
	decode(t, resp, &found)
	if len(found.Athletes) != 0 {
		t.Errorf("search miss = %d, want 0", len(found.Athletes))
	}
}

func TestProfileAndTheme(t *testing.T) {
	srv := testServer(t)

	resp := doJSON(t, http.MethodPut, srv.URL+"/profile", map[string]string{
		"teamName": "FC Exemplo", "coachName": "Treinadora",
	})
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("update profile status = %d", resp.StatusCode)
	}

	var p models.Profile
	resp = doJSON(t, http.MethodGet, srv.URL+"/profile", nil)
	decode(t, resp, &p)
	if p.TeamName != "FC Exemplo" {
		t.Errorf("profile = %+v", p)
	}

	resp = doJSON(t, http.MethodPut, srv.URL+"/theme", map[string]string{"theme": "light"})
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("set theme status = %d", resp.StatusCode)
	}
	resp = doJSON(t, http.MethodPut, srv.URL+"/theme", map[string]string{"theme": "sepia"})
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("bad theme status = %d, want 400", resp.StatusCode)
	}
}

func TestBackupRoundTrip(t *testing.T) {
	srv := testServer(t)
	g := createGame(t, srv.URL, "vs Rivals")
	resp := doJSON(t, http.MethodPost, srv.URL+"/games/"+g.ID+"/notes", map[string]any{
		"category": "org-def", "subcategory": "bloco-alto", "minute": 12, "text": "pressão",
	})
	resp.Body.Close()

	// Export.
	resp = doJSON(t, http.MethodGet, srv.URL+"/backup", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("export status = %d", resp.StatusCode)
	}
	if cd := resp.Header.Get("Content-Disposition"); !strings.Contains(cd, "backup_tactical_hub_") {
		t.Errorf("Content-Disposition = %q", cd)
	}
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(resp.Body); err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()

	// Import into a second, fresh server.
	srv2 := testServer(t)
	req, _ := http.NewRequest(http.MethodPost, srv2.URL+"/backup", bytes.NewReader(buf.Bytes()))
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("import status = %d", resp.StatusCode)
	}

	var list struct {
		Games []models.Game `json:"games"`
	}
	resp = doJSON(t, http.MethodGet, srv2.URL+"/games", nil)
	decode(t, resp, &list)
	if len(list.Games) != 1 || len(list.Games[0].Notes) != 1 {
		t.Errorf("imported games = %+v", list.Games)
	}
}

func TestImportRejectsInvalidBackup(t *testing.T) {
	srv := testServer(t)
	createGame(t, srv.URL, "keep me")

	for _, blob := range []string{
		`{not json`,
		`{"games": [{"id": "", "name": "no id"}]}`,
		`{"games": [], "currentGame": "ghost"}`,
	} {
		req, _ := http.NewRequest(http.MethodPost, srv.URL+"/backup", strings.NewReader(blob))
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			t.Fatal(err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("import %q status = %d, want 400", blob, resp.StatusCode)
		}
	}

	// The document survived every rejected import.
	var list struct {
		Games []models.Game `json:"games"`
	}
	resp := doJSON(t, http.MethodGet, srv.URL+"/games", nil)
	decode(t, resp, &list)
	if len(list.Games) != 1 {
		t.Errorf("games after rejected imports = %d, want 1", len(list.Games))
	}
}

func TestReportEndpoints(t *testing.T) {
	srv := testServer(t)
	g := createGame(t, srv.URL, "vs Rivals")

	// Exporting a game without notes is a user-visible refusal.
	resp := doJSON(t, http.MethodGet, srv.URL+"/games/"+g.ID+"/report", nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Errorf("empty report status = %d, want 422", resp.StatusCode)
	}

	resp = doJSON(t, http.MethodPost, srv.URL+"/games/"+g.ID+"/notes", map[string]any{
		"category": "org-def", "subcategory": "bloco-alto", "minute": 12, "text": "pressão",
	})
	resp.Body.Close()

	resp = doJSON(t, http.MethodGet, srv.URL+"/games/"+g.ID+"/report", nil)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("report status = %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/pdf" {
		t.Errorf("Content-Type = %q", ct)
	}
	if cd := resp.Header.Get("Content-Disposition"); !strings.Contains(cd, "Analise_vs_Rivals_") {
		t.Errorf("Content-Disposition = %q", cd)
	}
}

func TestReportRendererUnavailable(t *testing.T) {
	st := testutil.TestStore(t)
	h := NewHandler(st, report.NewExporter(nil), matchclock.New(nil))
	srv := httptest.NewServer(NewRouter(h, false, "", nil, t.TempDir()))
	defer srv.Close()

	g := createGame(t, srv.URL, "vs Rivals")
	resp := doJSON(t, http.MethodPost, srv.URL+"/games/"+g.ID+"/notes", map[string]any{"text": "x"})
	resp.Body.Close()

	resp = doJSON(t, http.MethodGet, srv.URL+"/games/"+g.ID+"/report", nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", resp.StatusCode)
	}
}

func TestClockEndpoints(t *testing.T) {
	srv := testServer(t)

	var state struct {
		Running bool  `json:"running"`
		Seconds int64 `json:"seconds"`
		Minute  int   `json:"minute"`
	}
	resp := doJSON(t, http.MethodGet, srv.URL+"/clock", nil)
	decode(t, resp, &state)
	if state.Running || state.Seconds != 0 {
		t.Errorf("initial clock = %+v", state)
	}

	resp = doJSON(t, http.MethodPost, srv.URL+"/clock/start", nil)
	resp.Body.Close()
	resp = doJSON(t, http.MethodGet, srv.URL+"/clock", nil)
	decode(t, resp, &state)
	if !state.Running {
		t.Error("clock not running after start")
	}

	resp = doJSON(t, http.MethodPost, srv.URL+"/clock/reset", nil)
	resp.Body.Close()
	resp = doJSON(t, http.MethodGet, srv.URL+"/clock", nil)
	decode(t, resp, &state)
	if state.Running || state.Seconds != 0 {
		t.Errorf("clock after reset = %+v", state)
	}
}

func TestAuthMiddleware(t *testing.T) {
	srv := testServerAuth(t, true, "secret")

	resp := doJSON(t, http.MethodGet, srv.URL+"/games", nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("no token status = %d, want 401", resp.StatusCode)
	}

	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/games", nil)
	req.Header.Set("Authorization", "Bearer wrong")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("wrong token status = %d, want 401", resp.StatusCode)
	}

	req, _ = http.NewRequest(http.MethodGet, srv.URL+"/games", nil)
	req.Header.Set("Authorization", "Bearer secret")
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("valid token status = %d, want 200", resp.StatusCode)
	}
}

func TestMediaUploadAndServe(t *testing.T) {
	mediaDir := t.TempDir()

	st := testutil.TestStore(t)
	h := NewHandler(st, report.NewExporter(func() report.Renderer { return &fakeRenderer{} }), matchclock.New(nil))
	srv := httptest.NewServer(NewRouter(h, false, "", nil, mediaDir))
	defer srv.Close()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", "foto.png")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := fw.Write([]byte("fake-png-bytes")); err != nil {
		t.Fatal(err)
	}
	mw.Close()

	req, _ := http.NewRequest(http.MethodPost, srv.URL+"/media", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("upload status = %d", resp.StatusCode)
	}
	var uploaded struct {
		Filename string `json:"filename"`
		URL      string `json:"url"`
	}
	decode(t, resp, &uploaded)
	if uploaded.URL != "/media/foto.png" {
		t.Errorf("url = %q", uploaded.URL)
	}
}

func TestMediaTraversalRejected(t *testing.T) {
	mh := NewMediaHandler(t.TempDir())
	if _, err := mh.safeName("../secrets.txt"); err == nil {
		t.Error("traversal name accepted")
	}
	if _, err := mh.safeName("sub/dir.png"); err == nil {
		t.Error("path separator accepted")
	}
	if _, err := mh.safeName(""); err == nil {
		t.Error("empty name accepted")
	}
}

func TestDefaultMinuteFromClock(t *testing.T) {
	st := testutil.TestStore(t)
	clock := matchclock.New(nil)
	h := NewHandler(st, report.NewExporter(func() report.Renderer { return &fakeRenderer{} }), clock)
	srv := httptest.NewServer(NewRouter(h, false, "", nil, t.TempDir()))
	defer srv.Close()

	g := createGame(t, srv.URL, "vs Rivals")

	// Explicit minute wins.
	resp := doJSON(t, http.MethodPost, srv.URL+"/games/"+g.ID+"/notes", map[string]any{
		"text": "explícito", "minute": 55,
	})
	var n models.Note
	decode(t, resp, &n)
	if n.Minute != 55 {
		t.Errorf("explicit minute = %d, want 55", n.Minute)
	}

	// Omitted minute falls back to the clock (stopped clock reads 0).
	resp = doJSON(t, http.MethodPost, srv.URL+"/games/"+g.ID+"/notes", map[string]any{
		"text": "implícito",
	})
	decode(t, resp, &n)
	if n.Minute != 0 {
		t.Errorf("defaulted minute = %d, want 0", n.Minute)
	}
}
