package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bohemia111/RUNSTR-sub012/internal/cache"
	"github.com/bohemia111/RUNSTR-sub012/internal/models"
	"github.com/bohemia111/RUNSTR-sub012/internal/repository"
	"github.com/bohemia111/RUNSTR-sub012/internal/service"
)

type mockService struct {
	snapshot    *models.Snapshot
	snapshotErr error
	refreshErr  error
	flagged     []models.FlaggedWorkout
	flaggedErr  error
	registerErr error

	registered []models.Participant
}

func (m *mockService) Leaderboard(_ context.Context, activity models.ActivityType) (*models.Snapshot, error) {
	if !models.IsScoringActivity(activity) {
		return nil, service.ErrUnknownActivity
	}
	return m.snapshot, m.snapshotErr
}

func (m *mockService) Refresh(_ context.Context, activity models.ActivityType) (*models.Snapshot, error) {
	if !models.IsScoringActivity(activity) {
		return nil, service.ErrUnknownActivity
	}
	return m.snapshot, m.refreshErr
}

func (m *mockService) Flagged(_ context.Context) ([]models.FlaggedWorkout, error) {
	return m.flagged, m.flaggedErr
}

func (m *mockService) RegisterParticipant(_ context.Context, p models.Participant) error {
	if m.registerErr != nil {
		return m.registerErr
	}
	m.registered = append(m.registered, p)
	return nil
}

func TestLeaderboard_ReturnsSnapshot(t *testing.T) {
	snap := &models.Snapshot{
		Activity:    models.ActivityRunning,
		Entries:     []models.LeaderboardEntry{{Rank: 1, Pubkey: "alice", TotalDistanceKm: 42}},
		LastUpdated: time.Now().UTC(),
	}
	h := New(&mockService{snapshot: snap}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/leaderboard/running", nil)
	rec := httptest.NewRecorder()
	h.Leaderboard(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp models.LeaderboardResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.True(t, resp.Ready)
	assert.Equal(t, models.ActivityRunning, resp.Activity)
	require.NotNil(t, resp.Snapshot)
	assert.Equal(t, "alice", resp.Snapshot.Entries[0].Pubkey)
}

func TestLeaderboard_NotReadyBeforeFirstRefresh(t *testing.T) {
	h := New(&mockService{snapshotErr: cache.ErrNoSnapshot}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/leaderboard/cycling", nil)
	rec := httptest.NewRecorder()
	h.Leaderboard(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp models.LeaderboardResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.False(t, resp.Ready)
	assert.Nil(t, resp.Snapshot)
}

func TestLeaderboard_UnknownActivity(t *testing.T) {
	h := New(&mockService{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/leaderboard/swimming", nil)
	rec := httptest.NewRecorder()
	h.Leaderboard(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestLeaderboard_MissingActivity(t *testing.T) {
	h := New(&mockService{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/leaderboard/", nil)
	rec := httptest.NewRecorder()
	h.Leaderboard(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLeaderboard_MethodNotAllowed(t *testing.T) {
	h := New(&mockService{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/leaderboard/running", nil)
	rec := httptest.NewRecorder()
	h.Leaderboard(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, http.MethodGet, rec.Header().Get("Allow"))
}

func TestRefresh_ReturnsSnapshot(t *testing.T) {
	snap := &models.Snapshot{Activity: models.ActivityWalking}
	h := New(&mockService{snapshot: snap}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/refresh/walking", nil)
	rec := httptest.NewRecorder()
	h.Refresh(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp models.LeaderboardResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.True(t, resp.Ready)
	assert.Equal(t, models.ActivityWalking, resp.Activity)
}

func TestRefresh_Failure(t *testing.T) {
	h := New(&mockService{refreshErr: errors.New("relay pool unreachable")}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/refresh/running", nil)
	rec := httptest.NewRecorder()
	h.Refresh(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestFlagged_ReturnsList(t *testing.T) {
	h := New(&mockService{flagged: []models.FlaggedWorkout{
		{SourceEventID: "ev1", Pubkey: "bob", Activity: models.ActivityRunning, Reason: "pace too fast"},
	}}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/flagged", nil)
	rec := httptest.NewRecorder()
	h.Flagged(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var flagged []models.FlaggedWorkout
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&flagged))
	require.Len(t, flagged, 1)
	assert.Equal(t, "ev1", flagged[0].SourceEventID)
}

func TestFlagged_EmptyListNotNull(t *testing.T) {
	h := New(&mockService{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/flagged", nil)
	rec := httptest.NewRecorder()
	h.Flagged(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]\n", rec.Body.String())
}

func TestParticipants_Register(t *testing.T) {
	svc := &mockService{}
	h := New(svc, nil)

	body, _ := json.Marshal(models.RegisterParticipantRequest{
		Pubkey:      "npub1alice",
		DisplayName: "Alice",
		CharityID:   "als-foundation",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/participants", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	h.Participants(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	require.Len(t, svc.registered, 1)
	assert.Equal(t, "npub1alice", svc.registered[0].Pubkey)
}

func TestParticipants_MissingPubkey(t *testing.T) {
	h := New(&mockService{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/participants", bytes.NewReader([]byte(`{"display_name":"Alice"}`)))
	rec := httptest.NewRecorder()
	h.Participants(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestParticipants_Duplicate(t *testing.T) {
	h := New(&mockService{registerErr: repository.ErrParticipantExists}, nil)

	body, _ := json.Marshal(models.RegisterParticipantRequest{Pubkey: "npub1alice"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/participants", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	h.Participants(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestParticipants_RejectsUnknownFields(t *testing.T) {
	h := New(&mockService{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/participants", bytes.NewReader([]byte(`{"pubkey":"x","bogus":1}`)))
	rec := httptest.NewRecorder()
	h.Participants(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHealth(t *testing.T) {
	h := New(&mockService{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	h.Health(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "ok", resp["status"])
}

type stubPinger struct {
	err error
}

func (p stubPinger) Ping(context.Context) error { return p.err }

func TestReady(t *testing.T) {
	h := New(&mockService{}, stubPinger{})

	req := httptest.NewRequest(http.MethodGet, "/readyz", nil)
	rec := httptest.NewRecorder()
	h.Ready(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "ready", resp["status"])
}

func TestReady_DatabaseDown(t *testing.T) {
	h := New(&mockService{}, stubPinger{err: errors.New("connection refused")})

	req := httptest.NewRequest(http.MethodGet, "/readyz", nil)
	rec := httptest.NewRecorder()
	h.Ready(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestReady_NoDatabase(t *testing.T) {
	h := New(&mockService{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/readyz", nil)
	rec := httptest.NewRecorder()
	h.Ready(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}
