package usecase

import (
	"context"
	"crypto/rand"
	"fmt"
	"strings"
	"time"

	"github.com/spinhall/ladder-league/internal/domain/activitylog"
	"github.com/spinhall/ladder-league/internal/domain/league"
	"github.com/spinhall/ladder-league/internal/domain/membership"
	idgen "github.com/spinhall/ladder-league/internal/platform/id"
)

const joinCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

const (
	defaultActivityLimit = 50
	maxActivityLimit     = 200
)

type CreateLeagueInput struct {
	UserID         string
	Name           string
	SeasonStartsAt time.Time
	SeasonEndsAt   time.Time
	SkillTier      membership.SkillTier
	Availability   membership.Availability
}

// LeagueService owns league lifecycle. The creator is enrolled as the
// first member at rank 1.
type LeagueService struct {
	leagueRepo league.Repository
	memberRepo membership.Repository
	logRepo    activitylog.Repository
	idGen      idgen.Generator
	now        func() time.Time
}

func NewLeagueService(
	leagueRepo league.Repository,
	memberRepo membership.Repository,
	logRepo activitylog.Repository,
	idGen idgen.Generator,
) *LeagueService {
	return &LeagueService{
		leagueRepo: leagueRepo,
		memberRepo: memberRepo,
		logRepo:    logRepo,
		idGen:      idGen,
		now:        time.Now,
	}
}

func (s *LeagueService) CreateLeague(ctx context.Context, input CreateLeagueInput) (league.League, error) {
	ctx, span := startUsecaseSpan(ctx, "LeagueService.CreateLeague")
	defer span.End()

	input.UserID = strings.TrimSpace(input.UserID)
	input.Name = strings.TrimSpace(input.Name)
	if input.UserID == "" {
		return league.League{}, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	if input.Name == "" {
		return league.League{}, fmt.Errorf("%w: league name is required", ErrInvalidInput)
	}
	if _, ok := membership.AllSkillTiers[input.SkillTier]; !ok {
		return league.League{}, fmt.Errorf("%w: unknown skill tier %q", ErrInvalidInput, input.SkillTier)
	}
	if err := input.Availability.Validate(); err != nil {
		return league.League{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	leagueID, err := s.idGen.NewID()
	if err != nil {
		return league.League{}, fmt.Errorf("generate league id: %w", err)
	}
	joinCode, err := generateJoinCode(8)
	if err != nil {
		return league.League{}, fmt.Errorf("generate join code: %w", err)
	}

	now := s.now().UTC()
	lg := league.League{
		ID:             leagueID,
		Name:           input.Name,
		JoinCode:       joinCode,
		SeasonStartsAt: input.SeasonStartsAt.UTC(),
		SeasonEndsAt:   input.SeasonEndsAt.UTC(),
		CreatedBy:      input.UserID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := lg.Validate(); err != nil {
		return league.League{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if err := s.leagueRepo.Create(ctx, lg); err != nil {
		if isDuplicateConstraintError(err) {
			return league.League{}, fmt.Errorf("%w: duplicate league name or join code", ErrInvalidInput)
		}
		return league.League{}, fmt.Errorf("create league: %w", err)
	}

	founder := membership.Membership{
		LeagueID:     lg.ID,
		UserID:       input.UserID,
		SkillTier:    input.SkillTier,
		Status:       membership.StatusActive,
		Availability: input.Availability,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	rank, err := s.memberRepo.Create(ctx, founder)
	if err != nil {
		return league.League{}, fmt.Errorf("enroll league creator: %w", err)
	}

	s.appendLog(ctx, activitylog.Entry{
		LeagueID: lg.ID,
		ActorID:  input.UserID,
		Action:   activitylog.ActionMemberJoined,
		Metadata: map[string]any{"rank": rank, "skillTier": input.SkillTier},
	})

	return lg, nil
}

func (s *LeagueService) GetLeague(ctx context.Context, userID, leagueID string) (league.League, error) {
	ctx, span := startUsecaseSpan(ctx, "LeagueService.GetLeague")
	defer span.End()

	userID = strings.TrimSpace(userID)
	leagueID = strings.TrimSpace(leagueID)
	if userID == "" {
		return league.League{}, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	if leagueID == "" {
		return league.League{}, fmt.Errorf("%w: league id is required", ErrInvalidInput)
	}

	lg, exists, err := s.leagueRepo.GetByID(ctx, leagueID)
	if err != nil {
		return league.League{}, fmt.Errorf("get league by id: %w", err)
	}
	if !exists {
		return league.League{}, fmt.Errorf("%w: league not found", ErrNotFound)
	}

	if lg.CreatedBy != userID {
		_, isMember, err := s.memberRepo.GetByUserAndLeague(ctx, userID, leagueID)
		if err != nil {
			return league.League{}, fmt.Errorf("check league member: %w", err)
		}
		if !isMember {
			return league.League{}, fmt.Errorf("%w: you are not a member of this league", ErrUnauthorized)
		}
	}

	return lg, nil
}

// ListActivity returns the league feed, newest first. Only members and
// the league creator can read it.
func (s *LeagueService) ListActivity(ctx context.Context, userID, leagueID string, limit int) ([]activitylog.Entry, error) {
	ctx, span := startUsecaseSpan(ctx, "LeagueService.ListActivity")
	defer span.End()

	if _, err := s.GetLeague(ctx, userID, leagueID); err != nil {
		return nil, err
	}

	if limit <= 0 {
		limit = defaultActivityLimit
	}
	if limit > maxActivityLimit {
		limit = maxActivityLimit
	}

	entries, err := s.logRepo.ListByLeague(ctx, strings.TrimSpace(leagueID), limit)
	if err != nil {
		return nil, fmt.Errorf("list league activity: %w", err)
	}
	return entries, nil
}

func (s *LeagueService) appendLog(ctx context.Context, entry activitylog.Entry) {
	entry.CreatedAt = s.now().UTC()
	if entry.ID == "" {
		if id, err := s.idGen.NewID(); err == nil {
			entry.ID = id
		}
	}
	// Audit trail only; a failed append never fails the caller.
	_ = s.logRepo.Append(ctx, entry)
}

func generateJoinCode(length int) (string, error) {
	if length < 6 {
		length = 6
	}

	buf := make([]byte, length)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random bytes for join code: %w", err)
	}

	out := make([]byte, length)
	for i, b := range buf {
		out[i] = joinCodeAlphabet[int(b)%len(joinCodeAlphabet)]
	}
	return string(out), nil
}

func isDuplicateConstraintError(err error) bool {
	if err == nil {
		return false
	}
	text := strings.ToLower(err.Error())
	return strings.Contains(text, "duplicate key value violates unique constraint")
}
