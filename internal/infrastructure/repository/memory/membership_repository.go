package memory

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/spinhall/ladder-league/internal/domain/membership"
)

type MembershipRepository struct {
	mu    sync.Mutex
	items map[string]membership.Membership
}

func NewMembershipRepository(members []membership.Membership) *MembershipRepository {
	items := make(map[string]membership.Membership, len(members))
	for _, m := range members {
		items[memberKey(m.LeagueID, m.UserID)] = cloneMembership(m)
	}
	return &MembershipRepository{items: items}
}

func (r *MembershipRepository) Create(_ context.Context, m membership.Membership) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := memberKey(m.LeagueID, m.UserID)
	if _, exists := r.items[key]; exists {
		return 0, errors.New("duplicate key value violates unique constraint \"league_members_pkey\"")
	}
	rank := 0
	for _, existing := range r.items {
		if existing.LeagueID == m.LeagueID && existing.Rank > rank {
			rank = existing.Rank
		}
	}
	rank++
	m.Rank = rank
	r.items[key] = cloneMembership(m)
	return rank, nil
}

func (r *MembershipRepository) GetByUserAndLeague(_ context.Context, userID, leagueID string) (membership.Membership, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	m, ok := r.items[memberKey(leagueID, userID)]
	if !ok {
		return membership.Membership{}, false, nil
	}
	return cloneMembership(m), true, nil
}

func (r *MembershipRepository) GetByRank(_ context.Context, leagueID string, rank int) (membership.Membership, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, m := range r.items {
		if m.LeagueID == leagueID && m.Rank == rank {
			return cloneMembership(m), true, nil
		}
	}
	return membership.Membership{}, false, nil
}

func (r *MembershipRepository) ListByLeague(_ context.Context, leagueID string) ([]membership.Membership, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]membership.Membership, 0)
	for _, m := range r.items {
		if m.LeagueID == leagueID {
			out = append(out, cloneMembership(m))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Rank < out[j].Rank })
	return out, nil
}

func (r *MembershipRepository) UpdateAvailability(_ context.Context, leagueID, userID string, av membership.Availability) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := memberKey(leagueID, userID)
	m, ok := r.items[key]
	if !ok {
		return errors.New("membership not found")
	}
	m.Availability = cloneAvailability(av)
	r.items[key] = m
	return nil
}

func (r *MembershipRepository) UpdateStatus(_ context.Context, leagueID, userID string, from, to membership.Status, outSince *time.Time, now time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := memberKey(leagueID, userID)
	m, ok := r.items[key]
	if !ok || m.Status != from {
		return false, nil
	}
	m.Status = to
	m.OutOfTownSince = outSince
	m.UpdatedAt = now
	r.items[key] = m
	return true, nil
}

func (r *MembershipRepository) AddOutOfTownDays(_ context.Context, leagueID, userID string, days int, now time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := memberKey(leagueID, userID)
	m, ok := r.items[key]
	if !ok {
		return errors.New("membership not found")
	}
	m.OutOfTownDaysUsed += days
	m.UpdatedAt = now
	r.items[key] = m
	return nil
}

func (r *MembershipRepository) ApplyActivityEvent(_ context.Context, leagueID, userID string, event membership.ActivityEvent, now time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := memberKey(leagueID, userID)
	m, ok := r.items[key]
	if !ok {
		return errors.New("membership not found")
	}

	next := m.Window().Apply(event, now)
	m.ActivityWindowStart = next.Start
	m.RecentAcceptances = next.Acceptances
	m.RecentRejections = next.Rejections
	m.RecentCancellations = next.Cancellations
	m.UpdatedAt = now
	r.items[key] = m
	return nil
}

func (r *MembershipRepository) ClearRejectionCount(_ context.Context, leagueID, userID string, now time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := memberKey(leagueID, userID)
	m, ok := r.items[key]
	if !ok {
		return errors.New("membership not found")
	}
	m.RecentRejections = 0
	m.UpdatedAt = now
	r.items[key] = m
	return nil
}

func (r *MembershipRepository) SwapRanks(_ context.Context, leagueID, userA, userB string, now time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	keyA := memberKey(leagueID, userA)
	keyB := memberKey(leagueID, userB)
	a, okA := r.items[keyA]
	b, okB := r.items[keyB]
	if !okA || !okB {
		return errors.New("membership not found")
	}

	rankA, rankB := a.Rank, b.Rank
	a.PreviousRank = &rankA
	b.PreviousRank = &rankB
	a.Rank, b.Rank = rankB, rankA
	a.UpdatedAt = now
	b.UpdatedAt = now
	r.items[keyA] = a
	r.items[keyB] = b
	return nil
}

func memberKey(leagueID, userID string) string {
	return leagueID + "::" + userID
}

func cloneMembership(m membership.Membership) membership.Membership {
	copied := m
	copied.Availability = cloneAvailability(m.Availability)
	return copied
}

func cloneAvailability(av membership.Availability) membership.Availability {
	if av == nil {
		return nil
	}
	out := make(membership.Availability, len(av))
	for day, slots := range av {
		copied := make(map[membership.Slot]bool, len(slots))
		for slot, free := range slots {
			copied[slot] = free
		}
		out[day] = copied
	}
	return out
}
