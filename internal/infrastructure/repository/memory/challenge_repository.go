package memory

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/spinhall/ladder-league/internal/domain/challenge"
)

type ChallengeRepository struct {
	mu    sync.Mutex
	items map[string]challenge.Challenge
}

func NewChallengeRepository() *ChallengeRepository {
	return &ChallengeRepository{items: make(map[string]challenge.Challenge)}
}

func (r *ChallengeRepository) Create(_ context.Context, c challenge.Challenge) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[c.ID]; exists {
		return errors.New("duplicate key value violates unique constraint \"challenges_pkey\"")
	}
	r.items[c.ID] = cloneChallenge(c)
	return nil
}

func (r *ChallengeRepository) GetByID(_ context.Context, id string) (challenge.Challenge, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.items[id]
	if !ok {
		return challenge.Challenge{}, false, nil
	}
	return cloneChallenge(c), true, nil
}

func (r *ChallengeRepository) ListByParticipant(_ context.Context, leagueID, userID string) ([]challenge.Challenge, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]challenge.Challenge, 0)
	for _, c := range r.items {
		if c.LeagueID == leagueID && c.Involves(userID) {
			out = append(out, cloneChallenge(c))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *ChallengeRepository) ListPendingIncoming(_ context.Context, leagueID, userID string) ([]challenge.Challenge, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]challenge.Challenge, 0)
	for _, c := range r.items {
		if c.LeagueID == leagueID && c.TargetID == userID && c.Status == challenge.StatusPending {
			out = append(out, cloneChallenge(c))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *ChallengeRepository) CountOpenBetween(_ context.Context, leagueID, userA, userB string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	count := 0
	for _, c := range r.items {
		if c.LeagueID != leagueID {
			continue
		}
		if c.Status != challenge.StatusPending && c.Status != challenge.StatusAccepted {
			continue
		}
		if (c.ChallengerID == userA && c.TargetID == userB) || (c.ChallengerID == userB && c.TargetID == userA) {
			count++
		}
	}
	return count, nil
}

func (r *ChallengeRepository) CountPendingOutgoing(_ context.Context, leagueID, userID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	count := 0
	for _, c := range r.items {
		if c.LeagueID == leagueID && c.ChallengerID == userID && c.Status == challenge.StatusPending {
			count++
		}
	}
	return count, nil
}

func (r *ChallengeRepository) CountPendingIncoming(_ context.Context, leagueID, userID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	count := 0
	for _, c := range r.items {
		if c.LeagueID == leagueID && c.TargetID == userID && c.Status == challenge.StatusPending {
			count++
		}
	}
	return count, nil
}

func (r *ChallengeRepository) MarkAccepted(_ context.Context, id, slotID string, now time.Time) (bool, error) {
	return r.transition(id, challenge.StatusPending, func(c *challenge.Challenge) {
		c.Status = challenge.StatusAccepted
		c.AcceptedSlotID = &slotID
		c.RespondedAt = &now
	}, now)
}

func (r *ChallengeRepository) MarkRejected(_ context.Context, id, reason string, now time.Time) (bool, error) {
	return r.transition(id, challenge.StatusPending, func(c *challenge.Challenge) {
		c.Status = challenge.StatusRejected
		if reason != "" {
			c.RejectionReason = &reason
		}
		c.RespondedAt = &now
		c.ResolvedAt = &now
	}, now)
}

func (r *ChallengeRepository) MarkWithdrawn(_ context.Context, id string, now time.Time) (bool, error) {
	return r.transition(id, challenge.StatusPending, func(c *challenge.Challenge) {
		c.Status = challenge.StatusWithdrawn
		c.ResolvedAt = &now
	}, now)
}

func (r *ChallengeRepository) MarkCancelled(_ context.Context, id string, now time.Time) (bool, error) {
	return r.transition(id, challenge.StatusAccepted, func(c *challenge.Challenge) {
		c.Status = challenge.StatusCancelled
		c.ResolvedAt = &now
	}, now)
}

func (r *ChallengeRepository) MarkCompleted(_ context.Context, id string, result challenge.Result, submittedBy string, now time.Time) (bool, error) {
	return r.transition(id, challenge.StatusAccepted, func(c *challenge.Challenge) {
		c.Status = challenge.StatusCompleted
		c.Result = &result
		c.ScoreSubmittedBy = &submittedBy
		c.ResolvedAt = &now
	}, now)
}

func (r *ChallengeRepository) ExpirePendingBefore(_ context.Context, leagueID string, cutoff, now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var expired int64
	for id, c := range r.items {
		if c.LeagueID != leagueID || c.Status != challenge.StatusPending {
			continue
		}
		if c.ExpiresAt.After(cutoff) {
			continue
		}
		c.Status = challenge.StatusExpired
		c.ResolvedAt = &now
		c.UpdatedAt = now
		r.items[id] = c
		expired++
	}
	return expired, nil
}

func (r *ChallengeRepository) transition(id string, from challenge.Status, mutate func(*challenge.Challenge), now time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.items[id]
	if !ok || c.Status != from {
		return false, nil
	}
	mutate(&c)
	c.UpdatedAt = now
	r.items[id] = c
	return true, nil
}

func cloneChallenge(c challenge.Challenge) challenge.Challenge {
	copied := c
	copied.ProposedSlots = append([]challenge.TimeSlot(nil), c.ProposedSlots...)
	if c.Result != nil {
		result := *c.Result
		result.Sets = append([]challenge.SetScore(nil), c.Result.Sets...)
		copied.Result = &result
	}
	return copied
}
