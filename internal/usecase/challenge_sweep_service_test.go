package usecase

import (
	"errors"
	"testing"
	"time"

	"github.com/spinhall/ladder-league/internal/domain/challenge"
	"github.com/spinhall/ladder-league/internal/infrastructure/repository/memory"
	"github.com/spinhall/ladder-league/internal/platform/id"
)

func newSweepFixture(t *testing.T) (*ChallengeSweepService, *memory.ChallengeRepository) {
	t.Helper()

	leagueRepo := memory.NewLeagueRepository(memory.SeedLeagues())
	challengeRepo := memory.NewChallengeRepository()
	logRepo := memory.NewActivityLogRepository()

	svc := NewChallengeSweepService(leagueRepo, challengeRepo, logRepo, id.NewRandomGenerator())
	svc.now = func() time.Time { return testClock }
	return svc, challengeRepo
}

func seedChallengeAt(t *testing.T, repo *memory.ChallengeRepository, id string, status challenge.Status, expiresAt time.Time) {
	t.Helper()

	err := repo.Create(t.Context(), challenge.Challenge{
		ID:           id,
		LeagueID:     memory.LeagueIDOfficePingPong,
		ChallengerID: "user-4",
		TargetID:     "user-2",
		Status:       status,
		CreatedAt:    expiresAt.Add(-challenge.PendingTTL),
		UpdatedAt:    expiresAt.Add(-challenge.PendingTTL),
		ExpiresAt:    expiresAt,
	})
	if err != nil {
		t.Fatalf("seed challenge: %v", err)
	}
}

func TestChallengeSweepService_ExpireStale(t *testing.T) {
	svc, challengeRepo := newSweepFixture(t)

	seedChallengeAt(t, challengeRepo, "ch-old", challenge.StatusPending, testClock.Add(-time.Hour))
	seedChallengeAt(t, challengeRepo, "ch-fresh", challenge.StatusPending, testClock.Add(time.Hour))
	seedChallengeAt(t, challengeRepo, "ch-accepted", challenge.StatusAccepted, testClock.Add(-time.Hour))

	result, err := svc.ExpireStale(t.Context(), SweepInput{})
	if err != nil {
		t.Fatalf("sweep failed: %v", err)
	}
	if result.ExpiredCount != 1 {
		t.Fatalf("expired count = %d, want 1", result.ExpiredCount)
	}
	if result.LeagueCount != 1 || result.FailedCount != 0 {
		t.Fatalf("unexpected result: %+v", result)
	}

	old, _, _ := challengeRepo.GetByID(t.Context(), "ch-old")
	if old.Status != challenge.StatusExpired {
		t.Fatalf("stale pending challenge not expired: %s", old.Status)
	}
	fresh, _, _ := challengeRepo.GetByID(t.Context(), "ch-fresh")
	if fresh.Status != challenge.StatusPending {
		t.Fatalf("fresh challenge must stay pending: %s", fresh.Status)
	}
	accepted, _, _ := challengeRepo.GetByID(t.Context(), "ch-accepted")
	if accepted.Status != challenge.StatusAccepted {
		t.Fatalf("accepted challenge must not expire: %s", accepted.Status)
	}
}

func TestChallengeSweepService_ExpireStale_Idempotent(t *testing.T) {
	svc, challengeRepo := newSweepFixture(t)
	seedChallengeAt(t, challengeRepo, "ch-old", challenge.StatusPending, testClock.Add(-time.Hour))

	first, err := svc.ExpireStale(t.Context(), SweepInput{})
	if err != nil {
		t.Fatalf("first sweep failed: %v", err)
	}
	second, err := svc.ExpireStale(t.Context(), SweepInput{})
	if err != nil {
		t.Fatalf("second sweep failed: %v", err)
	}
	if first.ExpiredCount != 1 || second.ExpiredCount != 0 {
		t.Fatalf("sweep not idempotent: first=%d second=%d", first.ExpiredCount, second.ExpiredCount)
	}
}

func TestChallengeSweepService_ExpireStale_UnknownLeague(t *testing.T) {
	svc, _ := newSweepFixture(t)

	_, err := svc.ExpireStale(t.Context(), SweepInput{LeagueID: "missing"})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestNormalizeSweepWorkerCount(t *testing.T) {
	t.Parallel()

	tests := []struct {
		requested int
		tasks     int
		want      int
	}{
		{0, 10, defaultSweepWorkers},
		{8, 10, 8},
		{100, 10, 10},
		{100, 200, maxSweepWorkers},
		{3, 1, 1},
	}
	for _, tt := range tests {
		if got := normalizeSweepWorkerCount(tt.requested, tt.tasks); got != tt.want {
			t.Errorf("normalizeSweepWorkerCount(%d, %d) = %d, want %d", tt.requested, tt.tasks, got, tt.want)
		}
	}
}
