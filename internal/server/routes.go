package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/louisbranch/duality-table/internal/game"
	"github.com/louisbranch/duality-table/internal/protocol"
	"github.com/louisbranch/duality-table/internal/storage"
)

// Routes builds the HTTP surface: the websocket endpoint plus a JSON API for
// state inspection and session persistence.
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/ws", h.ServeWS)

	r.Route("/api", func(r chi.Router) {
		r.Get("/state", h.getState)
		r.Get("/templates", h.getTemplates)
		r.Route("/session", func(r chi.Router) {
			r.Post("/save", h.saveSession)
			r.Get("/saves", h.listSaves)
			r.Post("/load", h.loadSession)
		})
	})

	return r
}

func (h *Handler) getState(w http.ResponseWriter, r *http.Request) {
	chars := h.charactersList().Characters
	advs := h.state.Adversaries()
	advData := make([]protocol.AdversaryData, 0, len(advs))
	for _, adv := range advs {
		advData = append(advData, protocol.FromAdversary(adv))
	}

	resp := map[string]any{
		"character_count": len(chars),
		"characters":      chars,
		"adversaries":     advData,
		"fear":            h.state.Fear(),
		"events":          h.state.Events(),
	}
	if encounter, ok := h.state.Combat(); ok {
		resp["combat"] = protocol.FromEncounter(encounter)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) getTemplates(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"templates": h.templates()})
}

type saveRequest struct {
	Name string `json:"name"`
}

func (h *Handler) saveSession(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		writeError(w, http.StatusServiceUnavailable, "persistence is not configured")
		return
	}

	var req saveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		req.Name = ""
	}
	if req.Name == "" {
		req.Name = "Manual Save"
	}

	info, err := h.store.SaveSession(r.Context(), req.Name, h.state.Snapshot())
	if err != nil {
		slog.Error("save session failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to save session")
		return
	}
	slog.Info("session saved", "save_id", info.ID, "name", info.Name, "characters", info.CharacterCount)
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "save": info})
}

func (h *Handler) listSaves(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		writeError(w, http.StatusServiceUnavailable, "persistence is not configured")
		return
	}
	saves, err := h.store.ListSessions(r.Context())
	if err != nil {
		slog.Error("list saves failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list saves")
		return
	}
	if saves == nil {
		saves = []storage.SaveInfo{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "saves": saves})
}

type loadRequest struct {
	ID string `json:"id"`
}

func (h *Handler) loadSession(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		writeError(w, http.StatusServiceUnavailable, "persistence is not configured")
		return
	}

	var req loadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ID == "" {
		writeError(w, http.StatusBadRequest, "missing 'id' field")
		return
	}

	records, err := h.store.LoadSession(r.Context(), req.ID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, http.StatusNotFound, "save not found")
			return
		}
		slog.Error("load session failed", "save_id", req.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load session")
		return
	}

	h.state.Restore(records)
	h.broadcastCharacters()
	h.broadcast(protocol.TypeGameEvent, protocol.GameEvent{
		Type:    string(game.EventSession),
		Message: "session restored",
	})
	slog.Info("session loaded", "save_id", req.ID, "characters", len(records))
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "characters": len(records)})
}

func (h *Handler) templates() []templateInfo {
	// Rebuilt per call; the roster is small and static.
	out := make([]templateInfo, 0, 8)
	for _, tpl := range game.Templates() {
		out = append(out, templateInfo{
			ID:             tpl.ID,
			Name:           tpl.Name,
			Tier:           tpl.Tier,
			HP:             tpl.HP,
			Evasion:        tpl.Evasion,
			Armor:          tpl.Armor,
			AttackModifier: tpl.AttackModifier,
			Damage:         tpl.Damage,
			Description:    tpl.Description,
		})
	}
	return out
}

type templateInfo struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Tier           string `json:"tier"`
	HP             int    `json:"hp"`
	Evasion        int    `json:"evasion"`
	Armor          int    `json:"armor"`
	AttackModifier int    `json:"attack_modifier"`
	Damage         string `json:"damage"`
	Description    string `json:"description"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("write response failed", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"success": false, "error": message})
}
