package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/louisbranch/duality-table/internal/game"
	"github.com/louisbranch/duality-table/internal/storage/sqlite"
)

func newTestServer(t *testing.T) (*Handler, *httptest.Server) {
	t.Helper()
	store, err := sqlite.Open(filepath.Join(t.TempDir(), "table.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	h := NewHandler(game.NewState(game.WithRandomSeed(7)), NewHub(), store)
	srv := httptest.NewServer(h.Routes())
	t.Cleanup(srv.Close)
	return h, srv
}

func getJSON(t *testing.T, url string, v any) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET %s: status %d", url, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatalf("decode %s: %v", url, err)
	}
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	resp, err := http.Post(url, "application/json", bytes.NewReader(data))
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	return resp
}

func TestGetState(t *testing.T) {
	h, srv := newTestServer(t)

	if _, err := h.state.CreateCharacter("Maeve", "Wizard", "Human", [6]int{-1, 0, 0, 1, 1, 2}); err != nil {
		t.Fatalf("create character: %v", err)
	}
	if _, err := h.state.SpawnAdversary("goblin", game.Position{X: 50, Y: 50}); err != nil {
		t.Fatalf("spawn adversary: %v", err)
	}

	var state struct {
		CharacterCount int              `json:"character_count"`
		Characters     []map[string]any `json:"characters"`
		Adversaries    []map[string]any `json:"adversaries"`
		Fear           int              `json:"fear"`
	}
	getJSON(t, srv.URL+"/api/state", &state)

	if state.CharacterCount != 1 || len(state.Characters) != 1 {
		t.Errorf("character_count = %d, characters = %d", state.CharacterCount, len(state.Characters))
	}
	if len(state.Adversaries) != 1 {
		t.Errorf("adversaries = %d, want 1", len(state.Adversaries))
	}
	if state.Fear != game.FearStart {
		t.Errorf("fear = %d, want %d", state.Fear, game.FearStart)
	}
}

func TestGetStateIncludesCombat(t *testing.T) {
	h, srv := newTestServer(t)
	h.state.StartCombat()

	var state struct {
		Combat *struct {
			Round int      `json:"round"`
			Queue []string `json:"queue"`
		} `json:"combat"`
	}
	getJSON(t, srv.URL+"/api/state", &state)
	if state.Combat == nil {
		t.Fatal("combat missing from state while active")
	}
	if state.Combat.Round != 1 || len(state.Combat.Queue) != 6 {
		t.Errorf("combat = %+v", state.Combat)
	}
}

func TestGetTemplates(t *testing.T) {
	_, srv := newTestServer(t)

	var resp struct {
		Templates []struct {
			ID   string `json:"id"`
			Name string `json:"name"`
			HP   int    `json:"hp"`
		} `json:"templates"`
	}
	getJSON(t, srv.URL+"/api/templates", &resp)

	if len(resp.Templates) == 0 {
		t.Fatal("no templates returned")
	}
	found := false
	for _, tmpl := range resp.Templates {
		if tmpl.ID == "goblin" {
			found = true
			if tmpl.Name != "Goblin" || tmpl.HP <= 0 {
				t.Errorf("goblin template = %+v", tmpl)
			}
		}
	}
	if !found {
		t.Error("goblin template missing")
	}
}

func TestSessionSaveListLoad(t *testing.T) {
	h, srv := newTestServer(t)

	char, err := h.state.CreateCharacter("Maeve", "Wizard", "Human", [6]int{-1, 0, 0, 1, 1, 2})
	if err != nil {
		t.Fatalf("create character: %v", err)
	}

	resp := postJSON(t, srv.URL+"/api/session/save", map[string]string{"name": "Before the fight"})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("save status = %d", resp.StatusCode)
	}
	var saveResp struct {
		Success bool `json:"success"`
		Save    struct {
			ID             string `json:"id"`
			Name           string `json:"name"`
			CharacterCount int    `json:"character_count"`
		} `json:"save"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&saveResp); err != nil {
		t.Fatalf("decode save response: %v", err)
	}
	if !saveResp.Success || saveResp.Save.Name != "Before the fight" || saveResp.Save.CharacterCount != 1 {
		t.Errorf("save response = %+v", saveResp)
	}

	var listResp struct {
		Saves []struct {
			ID   string `json:"id"`
			Name string `json:"name"`
		} `json:"saves"`
	}
	getJSON(t, srv.URL+"/api/session/saves", &listResp)
	if len(listResp.Saves) != 1 || listResp.Saves[0].ID != saveResp.Save.ID {
		t.Errorf("saves = %+v", listResp.Saves)
	}

	// Mutate the roster, then load the snapshot back.
	if err := h.state.RemoveCharacter(char.ID); err != nil {
		t.Fatalf("remove character: %v", err)
	}
	loadResp := postJSON(t, srv.URL+"/api/session/load", map[string]string{"id": saveResp.Save.ID})
	defer loadResp.Body.Close()
	if loadResp.StatusCode != http.StatusOK {
		t.Fatalf("load status = %d", loadResp.StatusCode)
	}
	chars := h.state.Characters()
	if len(chars) != 1 || chars[0].Name != "Maeve" {
		t.Errorf("restored roster = %+v", chars)
	}
}

func TestSessionLoadNotFound(t *testing.T) {
	_, srv := newTestServer(t)

	resp := postJSON(t, srv.URL+"/api/session/load", map[string]string{"id": "missing"})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("load status = %d, want 404", resp.StatusCode)
	}
}

func TestSessionEndpointsWithoutStore(t *testing.T) {
	h := NewHandler(game.NewState(game.WithRandomSeed(7)), NewHub(), nil)
	srv := httptest.NewServer(h.Routes())
	defer srv.Close()

	resp := postJSON(t, srv.URL+"/api/session/save", map[string]string{})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("save without store = %d, want 503", resp.StatusCode)
	}
}
