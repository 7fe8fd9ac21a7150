package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sourcegraph/conc/pool"

	"github.com/spinhall/ladder-league/internal/domain/activitylog"
	"github.com/spinhall/ladder-league/internal/domain/challenge"
	"github.com/spinhall/ladder-league/internal/domain/league"
	"github.com/spinhall/ladder-league/internal/domain/membership"
	idgen "github.com/spinhall/ladder-league/internal/platform/id"
	"github.com/spinhall/ladder-league/internal/platform/logging"
)

const autoDeclineWorkers = 4

type JoinLeagueInput struct {
	UserID       string
	JoinCode     string
	SkillTier    membership.SkillTier
	Availability membership.Availability
}

type SetStatusInput struct {
	UserID   string
	LeagueID string
	Status   membership.Status
}

// LadderEntry is one row of the ladder as seen by a specific viewer.
type LadderEntry struct {
	UserID          string                  `json:"userId"`
	Rank            int                     `json:"rank"`
	RankMovement    membership.RankMovement `json:"rankMovement"`
	Status          membership.Status       `json:"status"`
	SharedSlotCount int                     `json:"sharedSlotCount"`
	SharedSlots     membership.Availability `json:"sharedSlots,omitempty"`
	IsViewer        bool                    `json:"isViewer"`
}

type MembershipService struct {
	leagueRepo    league.Repository
	memberRepo    membership.Repository
	challengeRepo challenge.Repository
	logRepo       activitylog.Repository
	idGen         idgen.Generator
	now           func() time.Time
}

func NewMembershipService(
	leagueRepo league.Repository,
	memberRepo membership.Repository,
	challengeRepo challenge.Repository,
	logRepo activitylog.Repository,
	idGen idgen.Generator,
) *MembershipService {
	return &MembershipService{
		leagueRepo:    leagueRepo,
		memberRepo:    memberRepo,
		challengeRepo: challengeRepo,
		logRepo:       logRepo,
		idGen:         idGen,
		now:           time.Now,
	}
}

// JoinByCode enrolls a user at the bottom of the ladder. The repository
// assigns rank max+1 regardless of declared skill tier; the tier is
// informational.
func (s *MembershipService) JoinByCode(ctx context.Context, input JoinLeagueInput) (membership.Membership, error) {
	ctx, span := startUsecaseSpan(ctx, "MembershipService.JoinByCode")
	defer span.End()

	input.UserID = strings.TrimSpace(input.UserID)
	input.JoinCode = strings.ToUpper(strings.TrimSpace(input.JoinCode))
	if input.UserID == "" {
		return membership.Membership{}, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	if input.JoinCode == "" {
		return membership.Membership{}, fmt.Errorf("%w: join code is required", ErrInvalidInput)
	}
	if _, ok := membership.AllSkillTiers[input.SkillTier]; !ok {
		return membership.Membership{}, fmt.Errorf("%w: unknown skill tier %q", ErrInvalidInput, input.SkillTier)
	}
	if err := input.Availability.Validate(); err != nil {
		return membership.Membership{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	lg, exists, err := s.leagueRepo.GetByJoinCode(ctx, input.JoinCode)
	if err != nil {
		return membership.Membership{}, fmt.Errorf("get league by join code: %w", err)
	}
	if !exists {
		return membership.Membership{}, fmt.Errorf("%w: join code not found", ErrNotFound)
	}

	if _, already, err := s.memberRepo.GetByUserAndLeague(ctx, input.UserID, lg.ID); err != nil {
		return membership.Membership{}, fmt.Errorf("check existing membership: %w", err)
	} else if already {
		return membership.Membership{}, fmt.Errorf("%w: already a member of this league", ErrConflict)
	}

	now := s.now().UTC()
	m := membership.Membership{
		LeagueID:     lg.ID,
		UserID:       input.UserID,
		SkillTier:    input.SkillTier,
		Status:       membership.StatusActive,
		Availability: input.Availability,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	rank, err := s.memberRepo.Create(ctx, m)
	if err != nil {
		if isDuplicateConstraintError(err) {
			return membership.Membership{}, fmt.Errorf("%w: already a member of this league", ErrConflict)
		}
		return membership.Membership{}, fmt.Errorf("create membership: %w", err)
	}
	m.Rank = rank

	s.appendLog(ctx, activitylog.Entry{
		LeagueID: lg.ID,
		ActorID:  input.UserID,
		Action:   activitylog.ActionMemberJoined,
		Metadata: map[string]any{"rank": m.Rank, "skillTier": m.SkillTier},
	})

	return m, nil
}

// GetLadder returns the league ladder ordered by rank, badged with the
// viewer's shared availability per member.
func (s *MembershipService) GetLadder(ctx context.Context, userID, leagueID string) ([]LadderEntry, error) {
	ctx, span := startUsecaseSpan(ctx, "MembershipService.GetLadder")
	defer span.End()

	userID = strings.TrimSpace(userID)
	leagueID = strings.TrimSpace(leagueID)
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	if leagueID == "" {
		return nil, fmt.Errorf("%w: league id is required", ErrInvalidInput)
	}

	viewer, isMember, err := s.memberRepo.GetByUserAndLeague(ctx, userID, leagueID)
	if err != nil {
		return nil, fmt.Errorf("get viewer membership: %w", err)
	}
	if !isMember {
		return nil, fmt.Errorf("%w: you are not a member of this league", ErrUnauthorized)
	}

	members, err := s.memberRepo.ListByLeague(ctx, leagueID)
	if err != nil {
		return nil, fmt.Errorf("list league members: %w", err)
	}

	entries := make([]LadderEntry, 0, len(members))
	for _, m := range members {
		entry := LadderEntry{
			UserID:       m.UserID,
			Rank:         m.Rank,
			RankMovement: membership.ResolveRankMovement(m.Rank, m.PreviousRank),
			Status:       m.Status,
			IsViewer:     m.UserID == viewer.UserID,
		}
		if !entry.IsViewer {
			entry.SharedSlots, entry.SharedSlotCount = membership.SharedSlots(viewer.Availability, m.Availability)
		}
		entries = append(entries, entry)
	}

	return entries, nil
}

// SharedAvailability computes the mutual free grid between the caller
// and another member.
func (s *MembershipService) SharedAvailability(ctx context.Context, userID, leagueID, otherUserID string) (membership.Availability, int, error) {
	ctx, span := startUsecaseSpan(ctx, "MembershipService.SharedAvailability")
	defer span.End()

	userID = strings.TrimSpace(userID)
	leagueID = strings.TrimSpace(leagueID)
	otherUserID = strings.TrimSpace(otherUserID)
	if userID == "" || leagueID == "" || otherUserID == "" {
		return nil, 0, fmt.Errorf("%w: user id, league id, and member id are required", ErrInvalidInput)
	}

	viewer, isMember, err := s.memberRepo.GetByUserAndLeague(ctx, userID, leagueID)
	if err != nil {
		return nil, 0, fmt.Errorf("get viewer membership: %w", err)
	}
	if !isMember {
		return nil, 0, fmt.Errorf("%w: you are not a member of this league", ErrUnauthorized)
	}

	other, exists, err := s.memberRepo.GetByUserAndLeague(ctx, otherUserID, leagueID)
	if err != nil {
		return nil, 0, fmt.Errorf("get member: %w", err)
	}
	if !exists {
		return nil, 0, fmt.Errorf("%w: member not found", ErrNotFound)
	}

	grid, count := membership.SharedSlots(viewer.Availability, other.Availability)
	return grid, count, nil
}

func (s *MembershipService) UpdateAvailability(ctx context.Context, userID, leagueID string, av membership.Availability) error {
	ctx, span := startUsecaseSpan(ctx, "MembershipService.UpdateAvailability")
	defer span.End()

	userID = strings.TrimSpace(userID)
	leagueID = strings.TrimSpace(leagueID)
	if userID == "" || leagueID == "" {
		return fmt.Errorf("%w: user id and league id are required", ErrInvalidInput)
	}
	if err := av.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if _, isMember, err := s.memberRepo.GetByUserAndLeague(ctx, userID, leagueID); err != nil {
		return fmt.Errorf("get membership: %w", err)
	} else if !isMember {
		return fmt.Errorf("%w: you are not a member of this league", ErrNotFound)
	}

	if err := s.memberRepo.UpdateAvailability(ctx, leagueID, userID, av); err != nil {
		return fmt.Errorf("update availability: %w", err)
	}
	return nil
}

// SetStatus moves a membership between active, oot, and inactive. The
// transition is a conditional write keyed on the status the caller was
// shown; a lost race surfaces as a conflict.
func (s *MembershipService) SetStatus(ctx context.Context, input SetStatusInput) (membership.Membership, error) {
	ctx, span := startUsecaseSpan(ctx, "MembershipService.SetStatus")
	defer span.End()

	input.UserID = strings.TrimSpace(input.UserID)
	input.LeagueID = strings.TrimSpace(input.LeagueID)
	if input.UserID == "" || input.LeagueID == "" {
		return membership.Membership{}, fmt.Errorf("%w: user id and league id are required", ErrInvalidInput)
	}
	if _, ok := membership.AllStatuses[input.Status]; !ok {
		return membership.Membership{}, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, input.Status)
	}

	m, exists, err := s.memberRepo.GetByUserAndLeague(ctx, input.UserID, input.LeagueID)
	if err != nil {
		return membership.Membership{}, fmt.Errorf("get membership: %w", err)
	}
	if !exists {
		return membership.Membership{}, fmt.Errorf("%w: you are not a member of this league", ErrNotFound)
	}
	if m.Status == input.Status {
		return m, nil
	}

	now := s.now().UTC()

	var outSince *time.Time
	if input.Status == membership.StatusOutOfTown {
		if m.OutOfTownDaysUsed >= membership.OutOfTownAllowanceDays {
			return membership.Membership{}, fmt.Errorf("%w: out-of-town allowance of %d days is used up", ErrInvalidInput, membership.OutOfTownAllowanceDays)
		}
		outSince = &now
	}

	changed, err := s.memberRepo.UpdateStatus(ctx, input.LeagueID, input.UserID, m.Status, input.Status, outSince, now)
	if err != nil {
		return membership.Membership{}, fmt.Errorf("update status: %w", err)
	}
	if !changed {
		return membership.Membership{}, fmt.Errorf("%w: membership status changed concurrently", ErrConflict)
	}

	// Returning from out-of-town burns the days that were away.
	if m.Status == membership.StatusOutOfTown && m.OutOfTownSince != nil {
		away := int(now.Sub(*m.OutOfTownSince).Hours() / 24)
		if away < 1 {
			away = 1
		}
		if err := s.memberRepo.AddOutOfTownDays(ctx, input.LeagueID, input.UserID, away, now); err != nil {
			logging.Default().ErrorContext(ctx, "record out-of-town days", "error", err, "league_id", input.LeagueID, "user_id", input.UserID)
		}
	}

	s.appendLog(ctx, activitylog.Entry{
		LeagueID: input.LeagueID,
		ActorID:  input.UserID,
		Action:   activitylog.ActionStatusChanged,
		Metadata: map[string]any{"from": m.Status, "to": input.Status},
	})

	if input.Status == membership.StatusOutOfTown {
		s.autoDeclineIncoming(ctx, input.LeagueID, input.UserID, now)
	}

	m.Status = input.Status
	m.OutOfTownSince = outSince
	m.UpdatedAt = now
	return m, nil
}

// autoDeclineIncoming rejects every pending incoming challenge for a
// member who just went out of town. These rejections never count toward
// the fairness penalty. Best effort; failures are logged and skipped.
func (s *MembershipService) autoDeclineIncoming(ctx context.Context, leagueID, userID string, now time.Time) {
	pending, err := s.challengeRepo.ListPendingIncoming(ctx, leagueID, userID)
	if err != nil {
		logging.Default().ErrorContext(ctx, "list pending incoming for auto-decline", "error", err, "league_id", leagueID, "user_id", userID)
		return
	}
	if len(pending) == 0 {
		return
	}

	p := pool.New().WithMaxGoroutines(autoDeclineWorkers)
	for _, c := range pending {
		c := c
		p.Go(func() {
			changed, err := s.challengeRepo.MarkRejected(ctx, c.ID, "out of town", now)
			if err != nil {
				logging.Default().ErrorContext(ctx, "auto-decline challenge", "error", err, "challenge_id", c.ID)
				return
			}
			if !changed {
				return
			}
			s.appendLog(ctx, activitylog.Entry{
				LeagueID:      leagueID,
				ActorID:       userID,
				Action:        activitylog.ActionChallengeRejected,
				RelatedUserID: c.Opponent(userID),
				ChallengeID:   c.ID,
				Metadata:      map[string]any{"auto": true, "reason": "out of town"},
			})
		})
	}
	p.Wait()
}

func (s *MembershipService) appendLog(ctx context.Context, entry activitylog.Entry) {
	entry.CreatedAt = s.now().UTC()
	if entry.ID == "" {
		if id, err := s.idGen.NewID(); err == nil {
			entry.ID = id
		}
	}
	if err := s.logRepo.Append(ctx, entry); err != nil {
		logging.Default().WarnContext(ctx, "append activity log", "error", err, "action", entry.Action)
	}
}
