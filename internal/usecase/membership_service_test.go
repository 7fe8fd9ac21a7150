package usecase

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/spinhall/ladder-league/internal/domain/challenge"
	"github.com/spinhall/ladder-league/internal/domain/membership"
	"github.com/spinhall/ladder-league/internal/infrastructure/repository/memory"
	"github.com/spinhall/ladder-league/internal/platform/id"
)

func newMembershipFixture(t *testing.T) (*MembershipService, *memory.MembershipRepository, *memory.ChallengeRepository) {
	t.Helper()

	leagueRepo := memory.NewLeagueRepository(memory.SeedLeagues())
	memberRepo := memory.NewMembershipRepository(memory.SeedMembers())
	challengeRepo := memory.NewChallengeRepository()
	logRepo := memory.NewActivityLogRepository()

	svc := NewMembershipService(leagueRepo, memberRepo, challengeRepo, logRepo, id.NewRandomGenerator())
	svc.now = func() time.Time { return testClock }
	return svc, memberRepo, challengeRepo
}

func TestMembershipService_JoinByCode(t *testing.T) {
	svc, _, _ := newMembershipFixture(t)

	m, err := svc.JoinByCode(t.Context(), JoinLeagueInput{
		UserID:    "user-6",
		JoinCode:  memory.LeagueJoinCodePingPong,
		SkillTier: membership.TierTop,
		Availability: membership.Availability{
			membership.Monday: {membership.SlotLunch: true},
		},
	})
	if err != nil {
		t.Fatalf("join failed: %v", err)
	}
	if m.Rank != 6 {
		t.Fatalf("new member rank = %d, want bottom rank 6 regardless of tier", m.Rank)
	}
	if m.Status != membership.StatusActive {
		t.Fatalf("unexpected status: %s", m.Status)
	}
}

func TestMembershipService_JoinByCode_ConcurrentJoinsGetDistinctRanks(t *testing.T) {
	svc, _, _ := newMembershipFixture(t)

	// four users race onto a five-member ladder; each must land on its
	// own bottom rank with no duplicates
	const joiners = 4
	ranks := make([]int, joiners)
	errs := make([]error, joiners)

	var wg sync.WaitGroup
	for i := 0; i < joiners; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			m, err := svc.JoinByCode(t.Context(), JoinLeagueInput{
				UserID:    fmt.Sprintf("user-%d", 6+i),
				JoinCode:  memory.LeagueJoinCodePingPong,
				SkillTier: membership.TierMiddle,
				Availability: membership.Availability{
					membership.Monday: {membership.SlotLunch: true},
				},
			})
			ranks[i], errs[i] = m.Rank, err
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Fatalf("join %d failed: %v", i, err)
		}
	}
	sort.Ints(ranks)
	for i, rank := range ranks {
		if rank != 6+i {
			t.Fatalf("ranks 6..9 expected exactly once, got %v", ranks)
		}
	}
}

func TestMembershipService_JoinByCode_AlreadyMember(t *testing.T) {
	svc, _, _ := newMembershipFixture(t)

	_, err := svc.JoinByCode(t.Context(), JoinLeagueInput{
		UserID:    "user-3",
		JoinCode:  memory.LeagueJoinCodePingPong,
		SkillTier: membership.TierMiddle,
	})
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestMembershipService_JoinByCode_UnknownCode(t *testing.T) {
	svc, _, _ := newMembershipFixture(t)

	_, err := svc.JoinByCode(t.Context(), JoinLeagueInput{
		UserID:    "user-6",
		JoinCode:  "NOPE1234",
		SkillTier: membership.TierTop,
	})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMembershipService_GetLadder(t *testing.T) {
	svc, _, _ := newMembershipFixture(t)

	entries, err := svc.GetLadder(t.Context(), "user-1", memory.LeagueIDOfficePingPong)
	if err != nil {
		t.Fatalf("get ladder failed: %v", err)
	}
	if len(entries) != 5 {
		t.Fatalf("unexpected ladder size: %d", len(entries))
	}
	for i, entry := range entries {
		if entry.Rank != i+1 {
			t.Fatalf("ladder not ordered by rank: %+v", entries)
		}
	}
	if !entries[0].IsViewer {
		t.Fatal("viewer flag missing on own row")
	}

	// user-1 is free monday and wednesday, user-2 monday and tuesday:
	// two shared slots on monday
	if entries[1].SharedSlotCount != 2 {
		t.Fatalf("shared slots with user-2 = %d, want 2", entries[1].SharedSlotCount)
	}
	// user-3 is tuesday and thursday: nothing shared
	if entries[2].SharedSlotCount != 0 {
		t.Fatalf("shared slots with user-3 = %d, want 0", entries[2].SharedSlotCount)
	}
}

func TestMembershipService_GetLadder_NotAMember(t *testing.T) {
	svc, _, _ := newMembershipFixture(t)

	_, err := svc.GetLadder(t.Context(), "stranger", memory.LeagueIDOfficePingPong)
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestMembershipService_UpdateAvailability(t *testing.T) {
	svc, memberRepo, _ := newMembershipFixture(t)

	next := membership.Availability{
		membership.Friday: {membership.SlotAfterWork: true},
	}
	if err := svc.UpdateAvailability(t.Context(), "user-3", memory.LeagueIDOfficePingPong, next); err != nil {
		t.Fatalf("update availability failed: %v", err)
	}

	m, _, err := memberRepo.GetByUserAndLeague(t.Context(), "user-3", memory.LeagueIDOfficePingPong)
	if err != nil {
		t.Fatalf("load member: %v", err)
	}
	if !m.Availability.Free(membership.Friday, membership.SlotAfterWork) {
		t.Fatal("availability not updated")
	}
	if m.Availability.Free(membership.Tuesday, membership.SlotLunch) {
		t.Fatal("old availability still present")
	}
}

func TestMembershipService_UpdateAvailability_RejectsUnknownDay(t *testing.T) {
	svc, _, _ := newMembershipFixture(t)

	err := svc.UpdateAvailability(t.Context(), "user-3", memory.LeagueIDOfficePingPong, membership.Availability{
		"sunday": {membership.SlotLunch: true},
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestMembershipService_SetStatus_OutOfTownAutoDeclines(t *testing.T) {
	svc, memberRepo, challengeRepo := newMembershipFixture(t)

	// two pending challenges against user-2
	seedPending := func(id, challengerID string) {
		t.Helper()
		err := challengeRepo.Create(t.Context(), challenge.Challenge{
			ID:           id,
			LeagueID:     memory.LeagueIDOfficePingPong,
			ChallengerID: challengerID,
			TargetID:     "user-2",
			Status:       challenge.StatusPending,
			CreatedAt:    testClock,
			UpdatedAt:    testClock,
			ExpiresAt:    testClock.Add(challenge.PendingTTL),
		})
		if err != nil {
			t.Fatalf("seed challenge: %v", err)
		}
	}
	seedPending("ch-1", "user-3")
	seedPending("ch-2", "user-4")

	m, err := svc.SetStatus(t.Context(), SetStatusInput{
		UserID:   "user-2",
		LeagueID: memory.LeagueIDOfficePingPong,
		Status:   membership.StatusOutOfTown,
	})
	if err != nil {
		t.Fatalf("set status failed: %v", err)
	}
	if m.Status != membership.StatusOutOfTown {
		t.Fatalf("unexpected status: %s", m.Status)
	}

	for _, id := range []string{"ch-1", "ch-2"} {
		c, _, err := challengeRepo.GetByID(t.Context(), id)
		if err != nil {
			t.Fatalf("load challenge: %v", err)
		}
		if c.Status != challenge.StatusRejected {
			t.Fatalf("challenge %s not auto-declined: %s", id, c.Status)
		}
	}

	// auto-declines never count toward the fairness penalty
	stored, _, err := memberRepo.GetByUserAndLeague(t.Context(), "user-2", memory.LeagueIDOfficePingPong)
	if err != nil {
		t.Fatalf("load member: %v", err)
	}
	if stored.RecentRejections != 0 {
		t.Fatalf("auto-decline counted as rejection: %d", stored.RecentRejections)
	}
}

func TestMembershipService_SetStatus_ReturningBurnsAllowance(t *testing.T) {
	svc, memberRepo, _ := newMembershipFixture(t)

	if _, err := svc.SetStatus(t.Context(), SetStatusInput{
		UserID:   "user-2",
		LeagueID: memory.LeagueIDOfficePingPong,
		Status:   membership.StatusOutOfTown,
	}); err != nil {
		t.Fatalf("go out of town: %v", err)
	}

	svc.now = func() time.Time { return testClock.Add(5 * 24 * time.Hour) }
	if _, err := svc.SetStatus(t.Context(), SetStatusInput{
		UserID:   "user-2",
		LeagueID: memory.LeagueIDOfficePingPong,
		Status:   membership.StatusActive,
	}); err != nil {
		t.Fatalf("come back: %v", err)
	}

	m, _, err := memberRepo.GetByUserAndLeague(t.Context(), "user-2", memory.LeagueIDOfficePingPong)
	if err != nil {
		t.Fatalf("load member: %v", err)
	}
	if m.OutOfTownDaysUsed != 5 {
		t.Fatalf("out-of-town days used = %d, want 5", m.OutOfTownDaysUsed)
	}
}

func TestMembershipService_SetStatus_AllowanceExhausted(t *testing.T) {
	svc, memberRepo, _ := newMembershipFixture(t)

	if err := memberRepo.AddOutOfTownDays(t.Context(), memory.LeagueIDOfficePingPong, "user-2", membership.OutOfTownAllowanceDays, testClock); err != nil {
		t.Fatalf("seed allowance: %v", err)
	}

	_, err := svc.SetStatus(t.Context(), SetStatusInput{
		UserID:   "user-2",
		LeagueID: memory.LeagueIDOfficePingPong,
		Status:   membership.StatusOutOfTown,
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestMembershipService_SharedAvailability(t *testing.T) {
	svc, _, _ := newMembershipFixture(t)

	grid, count, err := svc.SharedAvailability(t.Context(), "user-1", memory.LeagueIDOfficePingPong, "user-4")
	if err != nil {
		t.Fatalf("shared availability failed: %v", err)
	}
	// both free wednesday lunch and after work
	if count != 2 {
		t.Fatalf("shared count = %d, want 2", count)
	}
	if !grid.Free(membership.Wednesday, membership.SlotLunch) {
		t.Fatal("wednesday lunch missing from shared grid")
	}
}
