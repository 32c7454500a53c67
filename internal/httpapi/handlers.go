package httpapi

import (
	"crypto/rand"
	"encoding/json"
	"errors"
	"math/big"
	"net/http"

	"github.com/DoyleJ11/sniper-keeper/internal/engine"
	"github.com/DoyleJ11/sniper-keeper/internal/hub"
	"github.com/DoyleJ11/sniper-keeper/internal/lobby"
	"github.com/DoyleJ11/sniper-keeper/internal/store"
	"github.com/DoyleJ11/sniper-keeper/internal/types"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func GenerateCode() (string, error) {
	const charset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	code := make([]byte, 6)
	for i := 0; i < 6; i++ {
		num, err := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
		if err != nil {
			return "", err
		}
		code[i] = charset[num.Int64()]
	}
	return string(code), nil
}

// GameFactory builds the engine for each new lobby.
type GameFactory func() *engine.Game

type api struct {
	hub     *hub.Hub
	newGame GameFactory
	history store.HistoryReader
	log     *zap.Logger
}

type lobbyResponse struct {
	Code    string           `json:"code"`
	GameID  string           `json:"game_id"`
	Version int              `json:"version"`
	Clients int              `json:"clients"`
	State   *types.StateView `json:"state"`
}

type commandResponse struct {
	Version  int              `json:"version"`
	Applied  bool             `json:"applied"`
	Events   []string         `json:"events,omitempty"`
	State    *types.StateView `json:"state"`
	ErrorMsg string           `json:"error,omitempty"`
}

func (a *api) createLobby(w http.ResponseWriter, r *http.Request) {
	var code string
	for {
		c, err := GenerateCode()
		if err != nil {
			http.Error(w, "failed to generate code", http.StatusInternalServerError)
			return
		}
		lb, err := a.hub.Get(r.Context(), c)
		if err != nil {
			http.Error(w, "hub unavailable", http.StatusServiceUnavailable)
			return
		}
		if lb == nil {
			code = c
			break
		}
		a.log.Debug("collision on code, regenerating", zap.String("code", c))
	}

	lb, err := a.hub.Ensure(r.Context(), code, a.newGame())
	if err != nil || lb == nil {
		http.Error(w, "failed to create lobby", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, struct {
		Code   string `json:"code"`
		GameID string `json:"game_id"`
	}{Code: code, GameID: lb.GameID().String()})
}

func (a *api) getLobby(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	lb, ok := a.lookup(w, r, code)
	if !ok {
		return
	}
	view, err := lb.View(r.Context())
	if err != nil {
		lobbyError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, lobbyResponse{
		Code:    code,
		GameID:  view.GameID.String(),
		Version: view.Version,
		Clients: view.NumClients,
		State:   types.NewStateView(view.State),
	})
}

func (a *api) postCommand(w http.ResponseWriter, r *http.Request) {
	lb, ok := a.lookup(w, r, chi.URLParam(r, "code"))
	if !ok {
		return
	}

	var cm types.ClientMessage
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 4<<10)).Decode(&cm); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}
	cmd, ok := types.ToCommand(cm)
	if !ok {
		http.Error(w, "unknown type", http.StatusBadRequest)
		return
	}

	res, err := lb.Do(r.Context(), cmd)
	if err != nil {
		lobbyError(w, err)
		return
	}

	resp := commandResponse{
		Version: res.Snapshot.Version,
		Applied: len(res.Events) > 0,
		State:   types.NewStateView(res.Snapshot.State),
	}
	for _, ev := range res.Events {
		resp.Events = append(resp.Events, string(ev.Type))
	}
	status := http.StatusOK
	if res.Err != nil {
		resp.ErrorMsg = res.Err.Error()
		status = http.StatusBadRequest
	}
	writeJSON(w, status, resp)
}

func (a *api) getHistory(w http.ResponseWriter, r *http.Request) {
	if a.history == nil {
		http.Error(w, "history not configured", http.StatusNotImplemented)
		return
	}
	code := chi.URLParam(r, "code")
	lb, ok := a.lookup(w, r, code)
	if !ok {
		return
	}
	records, err := a.history.History(r.Context(), lb.GameID())
	if err != nil {
		a.log.Error("load history", zap.String("code", code), zap.Error(err))
		http.Error(w, "failed to load history", http.StatusInternalServerError)
		return
	}
	if records == nil {
		records = []store.ActionRecord{}
	}
	writeJSON(w, http.StatusOK, struct {
		Code    string               `json:"code"`
		GameID  string               `json:"game_id"`
		Records []store.ActionRecord `json:"records"`
	}{Code: code, GameID: lb.GameID().String(), Records: records})
}

func (a *api) deleteLobby(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	if _, ok := a.lookup(w, r, code); !ok {
		return
	}
	if err := a.hub.Remove(r.Context(), code); err != nil {
		http.Error(w, "hub unavailable", http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *api) listLobbies(w http.ResponseWriter, r *http.Request) {
	codes, err := a.hub.List(r.Context())
	if err != nil {
		http.Error(w, "hub unavailable", http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Codes []string `json:"codes"`
	}{Codes: codes})
}

func (a *api) catalogs(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, types.NewCatalogsView(a.newGame().Catalogs()))
}

func (a *api) lookup(w http.ResponseWriter, r *http.Request, code string) (*lobby.Lobby, bool) {
	lb, err := a.hub.Get(r.Context(), code)
	if err != nil {
		http.Error(w, "hub unavailable", http.StatusServiceUnavailable)
		return nil, false
	}
	if lb == nil {
		http.Error(w, "lobby not found", http.StatusNotFound)
		return nil, false
	}
	return lb, true
}

func lobbyError(w http.ResponseWriter, err error) {
	if errors.Is(err, lobby.ErrClosed) {
		http.Error(w, "lobby not found", http.StatusNotFound)
		return
	}
	http.Error(w, "request cancelled", http.StatusServiceUnavailable)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func Healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}
