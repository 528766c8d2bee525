package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/AdamBeresnev/super8/internal/config"
	"github.com/AdamBeresnev/super8/internal/service"
	"github.com/AdamBeresnev/super8/internal/snapshot"
	"github.com/AdamBeresnev/super8/internal/store"
	"github.com/AdamBeresnev/super8/internal/tournament"
	"github.com/PuerkitoBio/goquery"
	"github.com/alexedwards/scs/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryStore struct {
	saved *snapshot.Snapshot
}

func (m *memoryStore) Load(ctx context.Context) (snapshot.Snapshot, error) {
	if m.saved == nil {
		return snapshot.Snapshot{}, store.ErrNotFound
	}
	return *m.saved, nil
}

func (m *memoryStore) Save(ctx context.Context, snap snapshot.Snapshot) error {
	m.saved = &snap
	return nil
}

func (m *memoryStore) Clear(ctx context.Context) error {
	m.saved = nil
	return nil
}

type testServer struct {
	t       *testing.T
	handler http.Handler
	store   *memoryStore
	svc     *service.TournamentService
	cookies []*http.Cookie
}

func newTestServer(t *testing.T, saved *snapshot.Snapshot) *testServer {
	t.Helper()
	cfg, err := config.Parse()
	require.NoError(t, err)

	mem := &memoryStore{saved: saved}
	svc, err := service.NewTournamentService(context.Background(), mem)
	require.NoError(t, err)

	return &testServer{
		t:       t,
		handler: newRouter(cfg, scs.New(), svc),
		store:   mem,
		svc:     svc,
	}
}

func (s *testServer) do(req *http.Request) *httptest.ResponseRecorder {
	s.t.Helper()
	for _, c := range s.cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	if fresh := rec.Result().Cookies(); len(fresh) > 0 {
		s.cookies = fresh
	}
	return rec
}

func (s *testServer) request(method, target string, body any) *httptest.ResponseRecorder {
	s.t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(s.t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	return s.do(req)
}

func (s *testServer) enableEditing() {
	s.t.Helper()
	rec := s.request(http.MethodGet, "/?editable=true", nil)
	require.Equal(s.t, http.StatusOK, rec.Code)
	require.NotEmpty(s.t, s.cookies)
}

func emptySnapshot() *snapshot.Snapshot {
	return &snapshot.Snapshot{Version: snapshot.Version}
}

func TestIndexPage(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := srv.request(http.MethodGet, "/", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")

	doc, err := goquery.NewDocumentFromReader(rec.Body)
	require.NoError(t, err)
	assert.Equal(t, 1, doc.Find(".mode.read-only").Length())
	assert.Equal(t, 2, doc.Find("section.standings").Length())
	assert.Equal(t, 7, doc.Find("#knockout .match").Length())
}

func TestFragments(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := srv.request(http.MethodGet, "/fragments/standings/b", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	doc, err := goquery.NewDocumentFromReader(rec.Body)
	require.NoError(t, err)
	assert.Equal(t, "Group B", doc.Find("h2").Text())
	assert.Equal(t, len(srv.svc.Tournament().Group(tournament.GroupB)), doc.Find("tbody tr").Length())

	rec = srv.request(http.MethodGet, "/fragments/standings/x", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = srv.request(http.MethodGet, "/fragments/knockout", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `data-stage="final"`)
}

func TestMutationsNeedEditableSession(t *testing.T) {
	srv := newTestServer(t, emptySnapshot())

	rec := srv.request(http.MethodPost, "/api/players", addPlayerRequest{Name: "Ann", Group: tournament.GroupA})
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Nil(t, srv.store.saved.Players)

	srv.enableEditing()
	rec = srv.request(http.MethodPost, "/api/players", addPlayerRequest{Name: "Ann", Group: tournament.GroupA})
	assert.Equal(t, http.StatusCreated, rec.Code)

	srv.request(http.MethodGet, "/?editable=false", nil)
	rec = srv.request(http.MethodDelete, "/api/players/whoever", nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestPlayersAndMatchesAPI(t *testing.T) {
	srv := newTestServer(t, emptySnapshot())
	srv.enableEditing()

	tests := []struct {
		name       string
		body       any
		wantStatus int
	}{
		{"valid", addPlayerRequest{Name: "Ann", Group: tournament.GroupA}, http.StatusCreated},
		{"second", addPlayerRequest{Name: "Bo", Group: tournament.GroupA}, http.StatusCreated},
		{"blank name", addPlayerRequest{Name: " ", Group: tournament.GroupA}, http.StatusBadRequest},
		{"unknown group", addPlayerRequest{Name: "Cy", Group: "Q"}, http.StatusBadRequest},
		{"not json", "{", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := srv.request(http.MethodPost, "/api/players", tt.body)
			assert.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
		})
	}

	var players []tournament.Player
	rec := srv.request(http.MethodGet, "/api/players", nil)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &players))
	require.Len(t, players, 2)

	var matches []tournament.Match
	rec = srv.request(http.MethodGet, "/api/groups/a/matches", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &matches))
	require.Len(t, matches, 1)
	matchURL := fmt.Sprintf("/api/matches/%s/result", matches[0].ID)

	rec = srv.request(http.MethodPost, matchURL, scoreRequest{Player1Score: 7, Player2Score: 7})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "tie break")

	rec = srv.request(http.MethodPost, "/api/matches/nope/result", scoreRequest{Player1Score: 8, Player2Score: 0})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = srv.request(http.MethodPost, matchURL, scoreRequest{Player1Score: 8, Player2Score: 7})
	require.Equal(t, http.StatusOK, rec.Code)
	var played tournament.Match
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &played))
	assert.True(t, played.Completed)
	assert.Equal(t, players[0].ID, played.WinnerID)

	var standings []tournament.Standing
	rec = srv.request(http.MethodGet, "/api/groups/A/standings", nil)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &standings))
	assert.Equal(t, "Ann", standings[0].Player.Name)
	assert.Equal(t, 1, standings[0].Wins)

	rec = srv.request(http.MethodGet, "/api/groups/A/top4", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = srv.request(http.MethodGet, "/api/groups/A/qualification", nil)
	assert.Contains(t, rec.Body.String(), `"chance":100`)
	rec = srv.request(http.MethodGet, "/api/rankings", nil)
	assert.Contains(t, rec.Body.String(), `"overallRank":1`)

	rec = srv.request(http.MethodDelete, "/api/players/"+players[1].ID, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = srv.request(http.MethodGet, "/api/groups/A/matches", nil)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestKnockoutAPI(t *testing.T) {
	srv := newTestServer(t, nil)
	srv.enableEditing()

	var bracket knockoutResponse
	rec := srv.request(http.MethodGet, "/api/knockout", nil)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &bracket))
	require.True(t, bracket.Ready)
	require.Len(t, bracket.Matches, 7)
	qf1 := bracket.Matches[0]
	assert.Equal(t, "A1", qf1.Label1)

	rec = srv.request(http.MethodPost, "/api/knockout/qf9", knockoutRequest{Player1ID: qf1.Player1ID, Player2ID: qf1.Player2ID})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = srv.request(http.MethodPost, "/api/knockout/sf1", knockoutRequest{Player1ID: qf1.Player1ID, Player2ID: qf1.Player2ID,
		scoreRequest: scoreRequest{Player1Score: 8, Player2Score: 2}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = srv.request(http.MethodPost, "/api/knockout/QF1", knockoutRequest{Player1ID: qf1.Player1ID, Player2ID: qf1.Player2ID,
		scoreRequest: scoreRequest{Player1Score: 8, Player2Score: 2}})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var m knockoutMatchResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &m))
	assert.Equal(t, qf1.Player1ID, m.WinnerID)
	require.NotNil(t, m.Result)
	assert.Equal(t, 8, m.Result.Player1Score)
}

func importRequest(t *testing.T, filename string, content []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/import", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestExportImport(t *testing.T) {
	src := newTestServer(t, nil)

	rec := src.request(http.MethodGet, "/api/export", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Regexp(t, `^attachment; filename="tournament-\d{4}-\d{2}-\d{2}\.json"$`, rec.Header().Get("Content-Disposition"))
	exported := rec.Body.Bytes()
	assert.Contains(t, string(exported), `"version": "1.0"`)

	dst := newTestServer(t, emptySnapshot())
	rec = dst.do(importRequest(t, "backup.json", exported))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	dst.enableEditing()
	rec = dst.do(importRequest(t, "backup.txt", exported))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "JSON file")

	rec = dst.do(importRequest(t, "broken.json", []byte(`{"players": 3}`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = dst.do(importRequest(t, "backup.json", exported))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, src.svc.Players(), dst.svc.Players())
	assert.Len(t, dst.store.saved.Players, len(src.svc.Players()))
}

func TestClearStorage(t *testing.T) {
	srv := newTestServer(t, emptySnapshot())

	rec := srv.request(http.MethodDelete, "/api/storage", nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.NotNil(t, srv.store.saved)

	srv.enableEditing()
	rec = srv.request(http.MethodDelete, "/api/storage", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Nil(t, srv.store.saved)
}

func TestCORSPreflight(t *testing.T) {
	srv := newTestServer(t, nil)

	req := httptest.NewRequest(http.MethodOptions, "/api/players", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := srv.do(req)

	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.True(t, strings.Contains(rec.Header().Get("Access-Control-Allow-Methods"), "POST"))
}
