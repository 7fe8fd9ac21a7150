package usecase

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/spinhall/ladder-league/internal/domain/activitylog"
	"github.com/spinhall/ladder-league/internal/domain/challenge"
	"github.com/spinhall/ladder-league/internal/domain/league"
	idgen "github.com/spinhall/ladder-league/internal/platform/id"
	"github.com/spinhall/ladder-league/internal/platform/logging"
)

const (
	sweepStatusSuccess = "success"
	sweepStatusFailed  = "failed"

	defaultSweepWorkers = 4
	maxSweepWorkers     = 16
)

type SweepInput struct {
	// LeagueID narrows the sweep to one league; empty sweeps all.
	LeagueID   string
	MaxWorkers int
}

type SweepResult struct {
	LeagueCount  int               `json:"league_count"`
	ExpiredCount int64             `json:"expired_count"`
	FailedCount  int               `json:"failed_count"`
	WorkerCount  int               `json:"worker_count"`
	Leagues      []SweepLeagueItem `json:"leagues"`
}

type SweepLeagueItem struct {
	LeagueID   string `json:"league_id"`
	Status     string `json:"status"`
	Expired    int64  `json:"expired"`
	DurationMs int64  `json:"duration_ms"`
	Message    string `json:"message,omitempty"`
}

// ChallengeSweepService closes pending challenges that have outlived
// their TTL. It is driven by an external scheduler hitting the internal
// job endpoint; repeated runs over the same window are harmless.
type ChallengeSweepService struct {
	leagueRepo    league.Repository
	challengeRepo challenge.Repository
	logRepo       activitylog.Repository
	idGen         idgen.Generator
	now           func() time.Time
}

func NewChallengeSweepService(
	leagueRepo league.Repository,
	challengeRepo challenge.Repository,
	logRepo activitylog.Repository,
	idGen idgen.Generator,
) *ChallengeSweepService {
	return &ChallengeSweepService{
		leagueRepo:    leagueRepo,
		challengeRepo: challengeRepo,
		logRepo:       logRepo,
		idGen:         idGen,
		now:           time.Now,
	}
}

func (s *ChallengeSweepService) ExpireStale(ctx context.Context, input SweepInput) (SweepResult, error) {
	ctx, span := startUsecaseSpan(ctx, "ChallengeSweepService.ExpireStale")
	defer span.End()

	targets, err := s.resolveTargets(ctx, input.LeagueID)
	if err != nil {
		return SweepResult{}, err
	}

	workerCount := normalizeSweepWorkerCount(input.MaxWorkers, len(targets))
	result := SweepResult{
		LeagueCount: len(targets),
		WorkerCount: workerCount,
		Leagues:     make([]SweepLeagueItem, 0, len(targets)),
	}
	if len(targets) == 0 {
		return result, nil
	}

	now := s.now().UTC()
	items := make(chan SweepLeagueItem, len(targets))

	var expiredCount atomic.Int64
	var failedCount atomic.Int32

	pool, err := ants.NewPool(workerCount)
	if err != nil {
		return SweepResult{}, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	var workers sync.WaitGroup
	for _, leagueID := range targets {
		leagueID := leagueID
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()

			start := time.Now()
			item := SweepLeagueItem{LeagueID: leagueID}

			expired, err := s.challengeRepo.ExpirePendingBefore(ctx, leagueID, now, now)
			if err != nil {
				item.Status = sweepStatusFailed
				item.Message = err.Error()
				failedCount.Add(1)
			} else {
				item.Status = sweepStatusSuccess
				item.Expired = expired
				expiredCount.Add(expired)
				if expired > 0 {
					s.logExpiry(ctx, leagueID, expired)
				}
			}
			item.DurationMs = time.Since(start).Milliseconds()

			items <- item
		}); err != nil {
			workers.Done()
			return SweepResult{}, fmt.Errorf("submit league to worker pool: %w", err)
		}
	}

	workers.Wait()
	close(items)

	for item := range items {
		result.Leagues = append(result.Leagues, item)
	}
	sort.SliceStable(result.Leagues, func(i, j int) bool {
		return result.Leagues[i].LeagueID < result.Leagues[j].LeagueID
	})

	result.ExpiredCount = expiredCount.Load()
	result.FailedCount = int(failedCount.Load())
	return result, nil
}

func (s *ChallengeSweepService) resolveTargets(ctx context.Context, leagueID string) ([]string, error) {
	if leagueID != "" {
		_, exists, err := s.leagueRepo.GetByID(ctx, leagueID)
		if err != nil {
			return nil, fmt.Errorf("get league by id: %w", err)
		}
		if !exists {
			return nil, fmt.Errorf("%w: league not found", ErrNotFound)
		}
		return []string{leagueID}, nil
	}

	leagues, err := s.leagueRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list leagues: %w", err)
	}
	ids := make([]string, 0, len(leagues))
	for _, lg := range leagues {
		ids = append(ids, lg.ID)
	}
	return ids, nil
}

func (s *ChallengeSweepService) logExpiry(ctx context.Context, leagueID string, expired int64) {
	entry := activitylog.Entry{
		LeagueID:  leagueID,
		ActorID:   "system",
		Action:    activitylog.ActionChallengeExpired,
		Metadata:  map[string]any{"expired": expired},
		CreatedAt: s.now().UTC(),
	}
	if id, err := s.idGen.NewID(); err == nil {
		entry.ID = id
	}
	if err := s.logRepo.Append(ctx, entry); err != nil {
		logging.Default().WarnContext(ctx, "append expiry log", "error", err, "league_id", leagueID)
	}
}

func normalizeSweepWorkerCount(requested, taskCount int) int {
	count := requested
	if count <= 0 {
		count = defaultSweepWorkers
	}
	if count > maxSweepWorkers {
		count = maxSweepWorkers
	}
	if taskCount > 0 && count > taskCount {
		count = taskCount
	}
	if count < 1 {
		count = 1
	}
	return count
}
