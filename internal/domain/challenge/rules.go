package challenge

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spinhall/ladder-league/internal/domain/membership"
)

// Rule violations for challenge creation. Each check fails with its own
// sentinel so handlers can surface a distinct user-facing message.
var (
	ErrSelfChallenge      = errors.New("you cannot challenge yourself")
	ErrNotAMember         = errors.New("not a member of this league")
	ErrChallengerInactive = errors.New("your membership is not active")
	ErrTargetUnavailable  = errors.New("this member is not currently accepting challenges")
	ErrRankOutOfReach     = errors.New("target rank is out of reach")
	ErrDuplicateChallenge = errors.New("an open challenge between you two already exists")
	ErrTooManyOutgoing    = errors.New("you already have 3 pending challenges out")
	ErrTooManyIncoming    = errors.New("this member already has 3 pending challenges waiting")
	ErrNoProposedSlots    = errors.New("propose at least one time slot")
	ErrTooManySlots       = errors.New("too many proposed time slots")
	ErrInvalidSlot        = errors.New("invalid time slot")
	ErrSlotOutOfWindow    = errors.New("time slot must fall within the next 7 days")
)

// Rules are the tunable numbers behind challenge validation.
type Rules struct {
	// MaxRankClimb is how many ranks above their own a challenger may
	// reach. Challenging downward is never bounded.
	MaxRankClimb int

	MaxPendingOutgoing int
	MaxPendingIncoming int
	MaxProposedSlots   int
}

// DefaultRules matches the ladder rules page.
func DefaultRules() Rules {
	return Rules{
		MaxRankClimb:       3,
		MaxPendingOutgoing: 3,
		MaxPendingIncoming: 3,
		MaxProposedSlots:   10,
	}
}

// Context is a snapshot of everything ValidateNew needs, read fresh by
// the caller before validation. Validation itself touches no storage.
type Context struct {
	Challenger      membership.Membership
	Target          membership.Membership
	ChallengerFound bool
	TargetFound     bool

	// OpenBetween is the count of pending or accepted challenges
	// between the two users in either direction.
	OpenBetween int

	PendingOutgoing int
	PendingIncoming int
}

// ValidateSlots checks the shape of a proposed slot list. Dates must
// land on a weekday between now's civil date and six days later,
// inclusive, and the day label must agree with the date.
func (r Rules) ValidateSlots(now time.Time, slots []TimeSlot) error {
	if len(slots) == 0 {
		return ErrNoProposedSlots
	}
	if len(slots) > r.MaxProposedSlots {
		return fmt.Errorf("%w: at most %d allowed", ErrTooManySlots, r.MaxProposedSlots)
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	last := today.AddDate(0, 0, 6)
	for _, s := range slots {
		if s.ID == "" {
			return fmt.Errorf("%w: missing id", ErrInvalidSlot)
		}
		date, err := time.Parse("2006-01-02", s.Date)
		if err != nil {
			return fmt.Errorf("%w: bad date %q", ErrInvalidSlot, s.Date)
		}
		if _, ok := membership.AllWeekdays[s.Day]; !ok {
			return fmt.Errorf("%w: unknown day %q", ErrInvalidSlot, s.Day)
		}
		if _, ok := membership.AllSlots[s.Slot]; !ok {
			return fmt.Errorf("%w: unknown slot %q", ErrInvalidSlot, s.Slot)
		}
		if !strings.EqualFold(date.Weekday().String(), string(s.Day)) {
			return fmt.Errorf("%w: %s is a %s, not a %s", ErrInvalidSlot, s.Date, strings.ToLower(date.Weekday().String()), s.Day)
		}
		if date.Before(today) || date.After(last) {
			return fmt.Errorf("%w: %s", ErrSlotOutOfWindow, s.Date)
		}
	}
	return nil
}

// ValidateNew runs the creation checks in order and returns the first
// failure. It is a pure function of now and the snapshot.
func (r Rules) ValidateNew(now time.Time, challengerID, targetID string, ctx Context, slots []TimeSlot) error {
	if challengerID == targetID {
		return ErrSelfChallenge
	}
	if !ctx.ChallengerFound || !ctx.TargetFound {
		return ErrNotAMember
	}
	if ctx.Challenger.Status != membership.StatusActive {
		return ErrChallengerInactive
	}
	if ctx.Target.Status == membership.StatusOutOfTown || ctx.Target.Status == membership.StatusInactive {
		return ErrTargetUnavailable
	}
	if !r.rankReachable(ctx.Challenger.Rank, ctx.Target.Rank) {
		return fmt.Errorf("%w: rank %d", ErrRankOutOfReach, ctx.Target.Rank)
	}
	if ctx.OpenBetween > 0 {
		return ErrDuplicateChallenge
	}
	if ctx.PendingOutgoing >= r.MaxPendingOutgoing {
		return ErrTooManyOutgoing
	}
	if ctx.PendingIncoming >= r.MaxPendingIncoming {
		return ErrTooManyIncoming
	}
	return r.ValidateSlots(now, slots)
}

// rankReachable allows climbing up to MaxRankClimb positions and
// challenging anyone below.
func (r Rules) rankReachable(challengerRank, targetRank int) bool {
	if targetRank > challengerRank {
		return true
	}
	return targetRank >= challengerRank-r.MaxRankClimb
}
