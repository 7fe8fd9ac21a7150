package cache

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/spinhall/ladder-league/internal/domain/league"
	basecache "github.com/spinhall/ladder-league/internal/platform/cache"
)

type countingLeagueRepo struct {
	getByID       atomic.Int64
	getByJoinCode atomic.Int64
	list          atomic.Int64
	leagues       map[string]league.League
}

func (r *countingLeagueRepo) Create(ctx context.Context, l league.League) error {
	r.leagues[l.ID] = l
	return nil
}

func (r *countingLeagueRepo) GetByID(ctx context.Context, leagueID string) (league.League, bool, error) {
	r.getByID.Add(1)
	l, ok := r.leagues[leagueID]
	return l, ok, nil
}

func (r *countingLeagueRepo) GetByJoinCode(ctx context.Context, joinCode string) (league.League, bool, error) {
	r.getByJoinCode.Add(1)
	for _, l := range r.leagues {
		if l.JoinCode == joinCode {
			return l, true, nil
		}
	}
	return league.League{}, false, nil
}

func (r *countingLeagueRepo) List(ctx context.Context) ([]league.League, error) {
	r.list.Add(1)
	out := make([]league.League, 0, len(r.leagues))
	for _, l := range r.leagues {
		out = append(out, l)
	}
	return out, nil
}

func newCountingLeagueRepo() *countingLeagueRepo {
	return &countingLeagueRepo{leagues: map[string]league.League{
		"league-1": {ID: "league-1", Name: "Office Ping-Pong", JoinCode: "PINGPONG"},
	}}
}

func TestLeagueRepository_GetByIDHitsBackendOnce(t *testing.T) {
	t.Parallel()

	backend := newCountingLeagueRepo()
	repo := NewLeagueRepository(backend, basecache.NewStore(time.Minute))
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		got, exists, err := repo.GetByID(ctx, "league-1")
		if err != nil {
			t.Fatalf("get by id: %v", err)
		}
		if !exists || got.ID != "league-1" {
			t.Fatalf("unexpected league: %+v exists=%t", got, exists)
		}
	}

	if calls := backend.getByID.Load(); calls != 1 {
		t.Fatalf("expected 1 backend call, got %d", calls)
	}
}

func TestLeagueRepository_CachesMisses(t *testing.T) {
	t.Parallel()

	backend := newCountingLeagueRepo()
	repo := NewLeagueRepository(backend, basecache.NewStore(time.Minute))
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, exists, err := repo.GetByID(ctx, "missing")
		if err != nil {
			t.Fatalf("get by id: %v", err)
		}
		if exists {
			t.Fatalf("expected miss")
		}
	}

	if calls := backend.getByID.Load(); calls != 1 {
		t.Fatalf("expected miss to be cached, got %d backend calls", calls)
	}
}

func TestLeagueRepository_CreatePrimesAndInvalidates(t *testing.T) {
	t.Parallel()

	backend := newCountingLeagueRepo()
	repo := NewLeagueRepository(backend, basecache.NewStore(time.Minute))
	ctx := context.Background()

	if _, err := repo.List(ctx); err != nil {
		t.Fatalf("list: %v", err)
	}

	created := league.League{ID: "league-2", Name: "Basement Ladder", JoinCode: "BASEMENT"}
	if err := repo.Create(ctx, created); err != nil {
		t.Fatalf("create: %v", err)
	}

	// Create primes the id and join-code entries.
	got, exists, err := repo.GetByID(ctx, "league-2")
	if err != nil || !exists || got.Name != "Basement Ladder" {
		t.Fatalf("unexpected primed read: %+v exists=%t err=%v", got, exists, err)
	}
	if calls := backend.getByID.Load(); calls != 0 {
		t.Fatalf("expected primed cache to skip backend, got %d calls", calls)
	}

	byCode, exists, err := repo.GetByJoinCode(ctx, "BASEMENT")
	if err != nil || !exists || byCode.ID != "league-2" {
		t.Fatalf("unexpected join code read: %+v exists=%t err=%v", byCode, exists, err)
	}
	if calls := backend.getByJoinCode.Load(); calls != 0 {
		t.Fatalf("expected primed cache to skip backend, got %d calls", calls)
	}

	// Create invalidates the list entry.
	items, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("list after create: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 leagues after create, got %d", len(items))
	}
	if calls := backend.list.Load(); calls != 2 {
		t.Fatalf("expected list to reload after create, got %d backend calls", calls)
	}
}
