package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/spinhall/ladder-league/internal/domain/challenge"
	challengemock "github.com/spinhall/ladder-league/internal/mocks/domain/challenge"
	"github.com/spinhall/ladder-league/internal/infrastructure/repository/memory"
	"github.com/spinhall/ladder-league/internal/platform/id"
)

func TestChallengeService_Withdraw_LosesRaceUsingMockery(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	challengeRepo := challengemock.NewRepository(t)
	memberRepo := memory.NewMembershipRepository(memory.SeedMembers())
	logRepo := memory.NewActivityLogRepository()

	svc := NewChallengeService(memberRepo, challengeRepo, logRepo, challenge.DefaultRules(), nil, id.NewRandomGenerator())
	svc.now = func() time.Time { return testClock }

	pending := challenge.Challenge{
		ID:           "ch-1",
		LeagueID:     memory.LeagueIDOfficePingPong,
		ChallengerID: "user-4",
		TargetID:     "user-2",
		Status:       challenge.StatusPending,
	}

	// the read sees pending but another transition wins the write
	challengeRepo.
		On("GetByID", mock.MatchedBy(func(v context.Context) bool { return v != nil }), "ch-1").
		Return(pending, true, nil).
		Once()
	challengeRepo.
		On("MarkWithdrawn", mock.MatchedBy(func(v context.Context) bool { return v != nil }), "ch-1", testClock).
		Return(false, nil).
		Once()

	err := svc.Withdraw(ctx, "user-4", "ch-1")
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestChallengeService_Get_NotFoundUsingMockery(t *testing.T) {
	t.Parallel()

	challengeRepo := challengemock.NewRepository(t)
	memberRepo := memory.NewMembershipRepository(nil)
	logRepo := memory.NewActivityLogRepository()

	svc := NewChallengeService(memberRepo, challengeRepo, logRepo, challenge.DefaultRules(), nil, id.NewRandomGenerator())

	challengeRepo.
		On("GetByID", mock.MatchedBy(func(v context.Context) bool { return v != nil }), "missing").
		Return(challenge.Challenge{}, false, nil).
		Once()

	_, err := svc.Get(context.Background(), "user-1", "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
