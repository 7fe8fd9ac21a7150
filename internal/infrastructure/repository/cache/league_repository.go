package cache

import (
	"context"

	"github.com/spinhall/ladder-league/internal/domain/league"
	basecache "github.com/spinhall/ladder-league/internal/platform/cache"
)

// LeagueRepository caches league reads in front of another repository.
// League rows barely change after creation, and GetByID sits on the
// auth path of every request, so a short TTL pays for itself.
type LeagueRepository struct {
	next  league.Repository
	cache *basecache.Store
}

func NewLeagueRepository(next league.Repository, cache *basecache.Store) *LeagueRepository {
	return &LeagueRepository{next: next, cache: cache}
}

func (r *LeagueRepository) Create(ctx context.Context, lg league.League) error {
	if err := r.next.Create(ctx, lg); err != nil {
		return err
	}

	r.cache.Delete(ctx, "league:list")
	r.cache.Set(ctx, "league:id:"+lg.ID, cachedLeague{value: lg, exists: true})
	r.cache.Set(ctx, "league:code:"+lg.JoinCode, cachedLeague{value: lg, exists: true})
	return nil
}

func (r *LeagueRepository) GetByID(ctx context.Context, leagueID string) (league.League, bool, error) {
	key := "league:id:" + leagueID
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		item, exists, err := r.next.GetByID(ctx, leagueID)
		if err != nil {
			return nil, err
		}
		return cachedLeague{value: item, exists: exists}, nil
	})
	if err != nil {
		return league.League{}, false, err
	}

	cached, _ := v.(cachedLeague)
	return cached.value, cached.exists, nil
}

func (r *LeagueRepository) GetByJoinCode(ctx context.Context, joinCode string) (league.League, bool, error) {
	key := "league:code:" + joinCode
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		item, exists, err := r.next.GetByJoinCode(ctx, joinCode)
		if err != nil {
			return nil, err
		}
		return cachedLeague{value: item, exists: exists}, nil
	})
	if err != nil {
		return league.League{}, false, err
	}

	cached, _ := v.(cachedLeague)
	return cached.value, cached.exists, nil
}

func (r *LeagueRepository) List(ctx context.Context) ([]league.League, error) {
	v, err := r.cache.GetOrLoad(ctx, "league:list", func(ctx context.Context) (any, error) {
		items, err := r.next.List(ctx)
		if err != nil {
			return nil, err
		}
		return append([]league.League(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]league.League)
	return append([]league.League(nil), items...), nil
}

type cachedLeague struct {
	value  league.League
	exists bool
}
