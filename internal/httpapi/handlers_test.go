package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DoyleJ11/sniper-keeper/internal/engine"
	"github.com/DoyleJ11/sniper-keeper/internal/hub"
	"github.com/DoyleJ11/sniper-keeper/internal/lobby"
	"github.com/DoyleJ11/sniper-keeper/internal/store"
	"github.com/DoyleJ11/sniper-keeper/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	h, _ := newRecordingRouter(t)
	return h
}

func newRecordingRouter(t *testing.T) (http.Handler, *store.MemoryRecorder) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	var seed uint64
	factory := func() *engine.Game {
		seed++
		return engine.NewDefaultGame(engine.WithRand(engine.NewSeededRand(seed)))
	}
	rec := &store.MemoryRecorder{}
	hb := hub.NewHub(ctx, hub.WithLobbyOptions(lobby.WithRecorder(rec)))
	return SetupRoutes(hb, factory, rec, zap.NewNop()), rec
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func createLobby(t *testing.T, h http.Handler) string {
	t.Helper()
	rec := do(t, h, http.MethodPost, "/lobbies", "")
	require.Equal(t, http.StatusCreated, rec.Code)

	var body struct {
		Code   string `json:"code"`
		GameID string `json:"game_id"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	require.Len(t, body.Code, 6)
	require.NotEmpty(t, body.GameID)
	return body.Code
}

func command(t *testing.T, h http.Handler, code, payload string) (int, commandResponse) {
	t.Helper()
	rec := do(t, h, http.MethodPost, "/lobbies/"+code+"/commands", payload)
	var resp commandResponse
	if rec.Header().Get("Content-Type") == "application/json" {
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	}
	return rec.Code, resp
}

func TestGenerateCode(t *testing.T) {
	code, err := GenerateCode()
	require.NoError(t, err)
	assert.Regexp(t, `^[A-Z0-9]{6}$`, code)
}

func TestHealthz(t *testing.T) {
	rec := do(t, newTestRouter(t), http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCatalogs(t *testing.T) {
	rec := do(t, newTestRouter(t), http.MethodGet, "/catalogs", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var v types.CatalogsView
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v))
	assert.Len(t, v.Sniper, 9)
	assert.Len(t, v.Goalkeeper, 9)
}

func TestLobby_FullGameOverHTTP(t *testing.T) {
	h := newTestRouter(t)
	code := createLobby(t, h)

	status, resp := command(t, h, code, `{"type":"StartGame"}`)
	require.Equal(t, http.StatusOK, status)
	assert.True(t, resp.Applied)
	assert.Equal(t, []string{"GameStarted"}, resp.Events)

	for round := 1; round <= 9; round++ {
		status, resp = command(t, h, code, `{"type":"DrawCard","role":"sniper"}`)
		require.Equal(t, http.StatusOK, status)
		require.True(t, resp.Applied, "round %d sniper", round)

		// Second draw in the same round is accepted but changes nothing.
		_, again := command(t, h, code, `{"type":"DrawCard","role":"sniper"}`)
		assert.False(t, again.Applied)
		assert.Equal(t, resp.Version, again.Version)

		_, resp = command(t, h, code, `{"type":"DrawCard","role":"goalkeeper"}`)
		require.True(t, resp.Applied)
		assert.True(t, resp.State.BothPicked)
		assert.Equal(t, 9-round, resp.State.Remaining.Goalkeeper)

		_, resp = command(t, h, code, `{"type":"NextRound"}`)
		require.True(t, resp.Applied)
	}

	assert.Equal(t, []string{"GameCompleted"}, resp.Events)
	assert.Equal(t, engine.PhaseCompleted, resp.State.Phase)
	assert.NotNil(t, resp.State.SniperPick)

	rec := do(t, h, http.MethodGet, "/lobbies/"+code, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var lr lobbyResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&lr))
	assert.Equal(t, code, lr.Code)
	assert.Equal(t, 9, lr.State.Round)
	assert.Equal(t, 0, lr.State.Remaining.Sniper)
}

func TestPostCommand_BadRequests(t *testing.T) {
	h := newTestRouter(t)
	code := createLobby(t, h)

	cases := []struct {
		name    string
		payload string
	}{
		{"bad json", `{`},
		{"unknown type", `{"type":"Dance"}`},
		{"draw without role", `{"type":"DrawCard"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, _ := command(t, h, code, tc.payload)
			assert.Equal(t, http.StatusBadRequest, status)
		})
	}
}

func TestLobbyNotFound(t *testing.T) {
	h := newTestRouter(t)

	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodGet, "/lobbies/NOPE00", "").Code)
	status, _ := command(t, h, "NOPE00", `{"type":"StartGame"}`)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestListAndDeleteLobby(t *testing.T) {
	h := newTestRouter(t)
	code := createLobby(t, h)

	rec := do(t, h, http.MethodGet, "/lobbies", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var list struct {
		Codes []string `json:"codes"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&list))
	assert.Equal(t, []string{code}, list.Codes)

	assert.Equal(t, http.StatusNoContent, do(t, h, http.MethodDelete, "/lobbies/"+code, "").Code)
	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodGet, "/lobbies/"+code, "").Code)
}

type historyResponse struct {
	Code    string               `json:"code"`
	GameID  string               `json:"game_id"`
	Records []store.ActionRecord `json:"records"`
}

func getHistory(t *testing.T, h http.Handler, code string) historyResponse {
	t.Helper()
	rec := do(t, h, http.MethodGet, "/lobbies/"+code+"/history", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var hr historyResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&hr))
	return hr
}

func TestLobbyHistory_ListsAcceptedEventsInOrder(t *testing.T) {
	h, _ := newRecordingRouter(t)
	code := createLobby(t, h)

	assert.Empty(t, getHistory(t, h, code).Records)

	for _, payload := range []string{
		`{"type":"StartGame"}`,
		`{"type":"DrawCard","role":"goalkeeper"}`,
		`{"type":"DrawCard","role":"goalkeeper"}`,
		`{"type":"DrawCard","role":"sniper"}`,
		`{"type":"NextRound"}`,
	} {
		status, _ := command(t, h, code, payload)
		require.Equal(t, http.StatusOK, status)
	}

	require.Eventually(t, func() bool {
		rec := do(t, h, http.MethodGet, "/lobbies/"+code+"/history", "")
		var polled historyResponse
		return json.NewDecoder(rec.Body).Decode(&polled) == nil && len(polled.Records) == 4
	}, time.Second, 10*time.Millisecond)
	hr := getHistory(t, h, code)

	assert.Equal(t, code, hr.Code)
	var got []string
	for i, r := range hr.Records {
		assert.Equal(t, hr.GameID, r.GameID.String())
		assert.Equal(t, i+1, r.Seq)
		got = append(got, r.EventType)
	}
	assert.Equal(t, []string{"GameStarted", "CardDrawn", "CardDrawn", "RoundAdvanced"}, got)
	assert.Equal(t, "goalkeeper", hr.Records[1].Role)
	assert.NotEmpty(t, hr.Records[1].CardText)
}

func TestLobbyHistory_Unconfigured(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	h := SetupRoutes(hub.NewHub(ctx), nil, nil, zap.NewNop())
	code := createLobby(t, h)

	assert.Equal(t, http.StatusNotImplemented, do(t, h, http.MethodGet, "/lobbies/"+code+"/history", "").Code)
}

func TestLobbyHistory_NotFound(t *testing.T) {
	h := newTestRouter(t)
	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodGet, "/lobbies/NOPE00/history", "").Code)
}
