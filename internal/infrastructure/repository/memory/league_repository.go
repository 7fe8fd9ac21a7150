package memory

import (
	"context"
	"errors"
	"sync"

	"github.com/spinhall/ladder-league/internal/domain/league"
)

type LeagueRepository struct {
	mu     sync.RWMutex
	items  map[string]league.League
	orders []string
}

func NewLeagueRepository(leagues []league.League) *LeagueRepository {
	items := make(map[string]league.League, len(leagues))
	orders := make([]string, 0, len(leagues))

	for _, l := range leagues {
		items[l.ID] = l
		orders = append(orders, l.ID)
	}

	return &LeagueRepository{
		items:  items,
		orders: orders,
	}
}

func (r *LeagueRepository) Create(_ context.Context, lg league.League) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[lg.ID]; exists {
		return errors.New("duplicate key value violates unique constraint \"leagues_pkey\"")
	}
	for _, existing := range r.items {
		if existing.JoinCode == lg.JoinCode {
			return errors.New("duplicate key value violates unique constraint \"leagues_join_code_key\"")
		}
	}

	r.items[lg.ID] = lg
	r.orders = append(r.orders, lg.ID)
	return nil
}

func (r *LeagueRepository) GetByID(_ context.Context, leagueID string) (league.League, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	l, ok := r.items[leagueID]
	if !ok {
		return league.League{}, false, nil
	}
	return l, true, nil
}

func (r *LeagueRepository) GetByJoinCode(_ context.Context, joinCode string) (league.League, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, id := range r.orders {
		if r.items[id].JoinCode == joinCode {
			return r.items[id], true, nil
		}
	}
	return league.League{}, false, nil
}

func (r *LeagueRepository) List(_ context.Context) ([]league.League, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]league.League, 0, len(r.orders))
	for _, id := range r.orders {
		out = append(out, r.items[id])
	}
	return out, nil
}
