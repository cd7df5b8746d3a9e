// Package handlers wires HTTP routes to the leaderboard service.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/bohemia111/RUNSTR-sub012/internal/cache"
	"github.com/bohemia111/RUNSTR-sub012/internal/models"
	"github.com/bohemia111/RUNSTR-sub012/internal/repository"
	"github.com/bohemia111/RUNSTR-sub012/internal/service"
)

// LeaderboardService is the service surface the HTTP layer depends on.
type LeaderboardService interface {
	Leaderboard(ctx context.Context, activity models.ActivityType) (*models.Snapshot, error)
	Refresh(ctx context.Context, activity models.ActivityType) (*models.Snapshot, error)
	Flagged(ctx context.Context) ([]models.FlaggedWorkout, error)
	RegisterParticipant(ctx context.Context, p models.Participant) error
}

// Pinger reports whether a backing dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler wires HTTP routes to the leaderboard service.
type Handler struct {
	svc LeaderboardService
	db  Pinger
}

// New creates a Handler instance. db may be nil, in which case readiness
// only reflects that the process is up.
func New(svc LeaderboardService, db Pinger) *Handler {
	return &Handler{svc: svc, db: db}
}

// Leaderboard handles GET /api/v1/leaderboard/{activity}.
func (h *Handler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.methodNotAllowed(w, http.MethodGet)
		return
	}
	activity, ok := h.activityFromPath(w, r.URL.Path, "/api/v1/leaderboard/")
	if !ok {
		return
	}
	snap, err := h.svc.Leaderboard(r.Context(), activity)
	if err != nil {
		if errors.Is(err, service.ErrUnknownActivity) {
			h.writeError(w, http.StatusNotFound, "unknown_activity", "activity type is not scored")
			return
		}
		if errors.Is(err, cache.ErrNoSnapshot) {
			h.writeJSON(w, http.StatusOK, models.LeaderboardResponse{
				Activity: activity,
				Ready:    false,
			})
			return
		}
		h.writeError(w, http.StatusInternalServerError, "leaderboard_unavailable", err.Error())
		return
	}
	h.writeJSON(w, http.StatusOK, models.LeaderboardResponse{
		Activity: activity,
		Ready:    true,
		Snapshot: snap,
	})
}

// Refresh handles POST /api/v1/refresh/{activity}. It runs a full
// collection and aggregation pass synchronously and returns the
// resulting snapshot.
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.methodNotAllowed(w, http.MethodPost)
		return
	}
	activity, ok := h.activityFromPath(w, r.URL.Path, "/api/v1/refresh/")
	if !ok {
		return
	}
	snap, err := h.svc.Refresh(r.Context(), activity)
	if err != nil {
		if errors.Is(err, service.ErrUnknownActivity) {
			h.writeError(w, http.StatusNotFound, "unknown_activity", "activity type is not scored")
			return
		}
		h.writeError(w, http.StatusInternalServerError, "refresh_failed", err.Error())
		return
	}
	h.writeJSON(w, http.StatusOK, models.LeaderboardResponse{
		Activity: activity,
		Ready:    true,
		Snapshot: snap,
	})
}

// Flagged handles GET /api/v1/flagged.
func (h *Handler) Flagged(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.methodNotAllowed(w, http.MethodGet)
		return
	}
	flagged, err := h.svc.Flagged(r.Context())
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, "flagged_unavailable", err.Error())
		return
	}
	if flagged == nil {
		flagged = []models.FlaggedWorkout{}
	}
	h.writeJSON(w, http.StatusOK, flagged)
}

// Participants handles POST /api/v1/participants.
func (h *Handler) Participants(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.methodNotAllowed(w, http.MethodPost)
		return
	}
	var req models.RegisterParticipantRequest
	if err := decodeJSON(r.Body, &req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	if req.Pubkey == "" {
		h.writeError(w, http.StatusBadRequest, "invalid_request", "pubkey must be provided")
		return
	}
	p := models.Participant{
		Pubkey:      req.Pubkey,
		DisplayName: req.DisplayName,
		PictureURL:  req.PictureURL,
		CharityID:   req.CharityID,
	}
	if err := h.svc.RegisterParticipant(r.Context(), p); err != nil {
		if errors.Is(err, repository.ErrParticipantExists) {
			h.writeError(w, http.StatusConflict, "participant_exists", "participant already registered")
			return
		}
		h.writeError(w, http.StatusInternalServerError, "registration_failed", err.Error())
		return
	}
	h.writeJSON(w, http.StatusCreated, p)
}

// Health handles GET /healthz for liveness probes.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.methodNotAllowed(w, http.MethodGet)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Ready handles GET /readyz for readiness probes. It fails while the
// database is unreachable.
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.methodNotAllowed(w, http.MethodGet)
		return
	}
	if h.db != nil {
		if err := h.db.Ping(r.Context()); err != nil {
			h.writeError(w, http.StatusServiceUnavailable, "not_ready", err.Error())
			return
		}
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func (h *Handler) activityFromPath(w http.ResponseWriter, path, prefix string) (models.ActivityType, bool) {
	raw := strings.TrimPrefix(path, prefix)
	if raw == "" || strings.ContainsRune(raw, '/') {
		h.writeError(w, http.StatusBadRequest, "invalid_activity", "activity must be provided")
		return "", false
	}
	return models.ActivityType(raw), true
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func (h *Handler) writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(models.ErrorResponse{
		Code:    code,
		Message: message,
	})
}

func (h *Handler) methodNotAllowed(w http.ResponseWriter, allowed ...string) {
	w.Header().Set("Allow", strings.Join(allowed, ", "))
	h.writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method is not allowed")
}

func decodeJSON(body io.ReadCloser, dst interface{}) error {
	defer body.Close()
	decoder := json.NewDecoder(body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(dst)
}
