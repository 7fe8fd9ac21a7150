package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/spinhall/ladder-league/internal/domain/activitylog"
	"github.com/spinhall/ladder-league/internal/domain/league"
	"github.com/spinhall/ladder-league/internal/domain/membership"
	"github.com/spinhall/ladder-league/internal/usecase"
)

func (h *Handler) CreateLeague(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateLeague")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	var req createLeagueRequest
	decoder := jsoniter.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	seasonStartsAt, err := parseOptionalTimestamp(req.SeasonStartsAt)
	if err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid seasonStartsAt: %v", usecase.ErrInvalidInput, err))
		return
	}
	seasonEndsAt, err := parseOptionalTimestamp(req.SeasonEndsAt)
	if err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid seasonEndsAt: %v", usecase.ErrInvalidInput, err))
		return
	}

	lg, err := h.leagueService.CreateLeague(ctx, usecase.CreateLeagueInput{
		UserID:         principal.UserID,
		Name:           req.Name,
		SeasonStartsAt: seasonStartsAt,
		SeasonEndsAt:   seasonEndsAt,
		SkillTier:      membership.SkillTier(req.SkillTier),
		Availability:   req.Availability,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "create league failed", "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, leagueToDTO(ctx, lg))
}

func (h *Handler) GetLeague(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetLeague")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	leagueID := strings.TrimSpace(r.PathValue("leagueID"))
	lg, err := h.leagueService.GetLeague(ctx, principal.UserID, leagueID)
	if err != nil {
		h.logger.WarnContext(ctx, "get league failed", "league_id", leagueID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, leagueToDTO(ctx, lg))
}

func (h *Handler) JoinLeague(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.JoinLeague")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	var req joinLeagueRequest
	decoder := jsoniter.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	member, err := h.membershipService.JoinByCode(ctx, usecase.JoinLeagueInput{
		UserID:       principal.UserID,
		JoinCode:     req.JoinCode,
		SkillTier:    membership.SkillTier(req.SkillTier),
		Availability: req.Availability,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "join league failed", "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, memberToDTO(ctx, member))
}

func (h *Handler) ListLeagueActivity(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListLeagueActivity")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	leagueID := strings.TrimSpace(r.PathValue("leagueID"))
	limit, err := parseOptionalLimit(r.URL.Query().Get("limit"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	entries, err := h.leagueService.ListActivity(ctx, principal.UserID, leagueID, limit)
	if err != nil {
		h.logger.WarnContext(ctx, "list league activity failed", "league_id", leagueID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]activityEntryDTO, 0, len(entries))
	for _, entry := range entries {
		items = append(items, activityEntryToDTO(ctx, entry))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

type createLeagueRequest struct {
	Name           string                  `json:"name" validate:"required,max=120"`
	SeasonStartsAt string                  `json:"seasonStartsAt"`
	SeasonEndsAt   string                  `json:"seasonEndsAt"`
	SkillTier      string                  `json:"skillTier" validate:"required"`
	Availability   membership.Availability `json:"availability"`
}

type joinLeagueRequest struct {
	JoinCode     string                  `json:"joinCode" validate:"required,min=6,max=12"`
	SkillTier    string                  `json:"skillTier" validate:"required"`
	Availability membership.Availability `json:"availability"`
}

type leagueDTO struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	JoinCode       string `json:"joinCode"`
	SeasonStartsAt string `json:"seasonStartsAt,omitempty"`
	SeasonEndsAt   string `json:"seasonEndsAt,omitempty"`
	CreatedBy      string `json:"createdBy"`
	CreatedAt      string `json:"createdAt"`
	UpdatedAt      string `json:"updatedAt"`
}

type memberDTO struct {
	LeagueID          string                  `json:"leagueId"`
	UserID            string                  `json:"userId"`
	Rank              int                     `json:"rank"`
	PreviousRank      *int                    `json:"previousRank,omitempty"`
	SkillTier         string                  `json:"skillTier"`
	Status            string                  `json:"status"`
	Availability      membership.Availability `json:"availability"`
	OutOfTownDaysUsed int                     `json:"outOfTownDaysUsed"`
	CreatedAt         string                  `json:"createdAt"`
	UpdatedAt         string                  `json:"updatedAt"`
}

type activityEntryDTO struct {
	ID            string         `json:"id"`
	LeagueID      string         `json:"leagueId"`
	ActorID       string         `json:"actorId"`
	Action        string         `json:"action"`
	RelatedUserID string         `json:"relatedUserId,omitempty"`
	ChallengeID   string         `json:"challengeId,omitempty"`
	Metadata      map[string]any `json:"metadata,omitempty"`
	CreatedAt     string         `json:"createdAt"`
}

func leagueToDTO(ctx context.Context, v league.League) leagueDTO {
	ctx, span := startSpan(ctx, "httpapi.leagueToDTO")
	defer span.End()

	return leagueDTO{
		ID:             v.ID,
		Name:           v.Name,
		JoinCode:       v.JoinCode,
		SeasonStartsAt: formatOptionalTimestamp(v.SeasonStartsAt),
		SeasonEndsAt:   formatOptionalTimestamp(v.SeasonEndsAt),
		CreatedBy:      v.CreatedBy,
		CreatedAt:      v.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:      v.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func memberToDTO(ctx context.Context, v membership.Membership) memberDTO {
	ctx, span := startSpan(ctx, "httpapi.memberToDTO")
	defer span.End()

	return memberDTO{
		LeagueID:          v.LeagueID,
		UserID:            v.UserID,
		Rank:              v.Rank,
		PreviousRank:      v.PreviousRank,
		SkillTier:         string(v.SkillTier),
		Status:            string(v.Status),
		Availability:      v.Availability,
		OutOfTownDaysUsed: v.OutOfTownDaysUsed,
		CreatedAt:         v.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:         v.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func activityEntryToDTO(ctx context.Context, v activitylog.Entry) activityEntryDTO {
	ctx, span := startSpan(ctx, "httpapi.activityEntryToDTO")
	defer span.End()

	return activityEntryDTO{
		ID:            v.ID,
		LeagueID:      v.LeagueID,
		ActorID:       v.ActorID,
		Action:        string(v.Action),
		RelatedUserID: v.RelatedUserID,
		ChallengeID:   v.ChallengeID,
		Metadata:      v.Metadata,
		CreatedAt:     v.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func parseOptionalTimestamp(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.RFC3339, raw)
}

func formatOptionalTimestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func parseOptionalLimit(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 0 {
		return 0, fmt.Errorf("%w: limit must be a non-negative integer", usecase.ErrInvalidInput)
	}
	return limit, nil
}
