package memory

import (
	"context"
	"sync"

	"github.com/spinhall/ladder-league/internal/domain/activitylog"
)

type ActivityLogRepository struct {
	mu      sync.Mutex
	entries []activitylog.Entry
}

func NewActivityLogRepository() *ActivityLogRepository {
	return &ActivityLogRepository{}
}

func (r *ActivityLogRepository) Append(_ context.Context, e activitylog.Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries = append(r.entries, e)
	return nil
}

func (r *ActivityLogRepository) ListByLeague(_ context.Context, leagueID string, limit int) ([]activitylog.Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]activitylog.Entry, 0)
	// newest first
	for i := len(r.entries) - 1; i >= 0; i-- {
		if r.entries[i].LeagueID != leagueID {
			continue
		}
		out = append(out, r.entries[i])
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}
