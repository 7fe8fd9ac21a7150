package challenge

import (
	"errors"
	"testing"
	"time"

	"github.com/spinhall/ladder-league/internal/domain/membership"
)

func TestValidateNew(t *testing.T) {
	rules := DefaultRules()
	// Friday; the slot window runs through Thursday 2026-09-10.
	refNow := time.Date(2026, time.September, 4, 9, 30, 0, 0, time.UTC)
	validCtx := Context{
		Challenger: membership.Membership{
			LeagueID: "l1", UserID: "u1", Rank: 5, Status: membership.StatusActive,
		},
		Target: membership.Membership{
			LeagueID: "l1", UserID: "u2", Rank: 3, Status: membership.StatusActive,
		},
		ChallengerFound: true,
		TargetFound:     true,
	}
	validSlots := []TimeSlot{
		{ID: "s1", Date: "2026-09-07", Day: membership.Monday, Slot: membership.SlotLunch},
	}

	tests := []struct {
		name      string
		targetID  string
		mutate    func(*Context, *[]TimeSlot, *Rules)
		targetErr error
	}{
		{
			name:   "valid challenge upward",
			mutate: func(_ *Context, _ *[]TimeSlot, _ *Rules) {},
		},
		{
			name:      "self challenge",
			targetID:  "u1",
			mutate:    func(_ *Context, _ *[]TimeSlot, _ *Rules) {},
			targetErr: ErrSelfChallenge,
		},
		{
			name: "target not a member",
			mutate: func(ctx *Context, _ *[]TimeSlot, _ *Rules) {
				ctx.TargetFound = false
			},
			targetErr: ErrNotAMember,
		},
		{
			name: "challenger not a member",
			mutate: func(ctx *Context, _ *[]TimeSlot, _ *Rules) {
				ctx.ChallengerFound = false
			},
			targetErr: ErrNotAMember,
		},
		{
			name: "challenger out of town",
			mutate: func(ctx *Context, _ *[]TimeSlot, _ *Rules) {
				ctx.Challenger.Status = membership.StatusOutOfTown
			},
			targetErr: ErrChallengerInactive,
		},
		{
			name: "target out of town",
			mutate: func(ctx *Context, _ *[]TimeSlot, _ *Rules) {
				ctx.Target.Status = membership.StatusOutOfTown
			},
			targetErr: ErrTargetUnavailable,
		},
		{
			name: "target inactive",
			mutate: func(ctx *Context, _ *[]TimeSlot, _ *Rules) {
				ctx.Target.Status = membership.StatusInactive
			},
			targetErr: ErrTargetUnavailable,
		},
		{
			name: "target four ranks above",
			mutate: func(ctx *Context, _ *[]TimeSlot, _ *Rules) {
				ctx.Target.Rank = 1
			},
			targetErr: ErrRankOutOfReach,
		},
		{
			name: "target exactly three ranks above",
			mutate: func(ctx *Context, _ *[]TimeSlot, _ *Rules) {
				ctx.Target.Rank = 2
			},
		},
		{
			name: "target far below is fine",
			mutate: func(ctx *Context, _ *[]TimeSlot, _ *Rules) {
				ctx.Target.Rank = 12
			},
		},
		{
			name: "open challenge already exists",
			mutate: func(ctx *Context, _ *[]TimeSlot, _ *Rules) {
				ctx.OpenBetween = 1
			},
			targetErr: ErrDuplicateChallenge,
		},
		{
			name: "outgoing cap reached",
			mutate: func(ctx *Context, _ *[]TimeSlot, _ *Rules) {
				ctx.PendingOutgoing = 3
			},
			targetErr: ErrTooManyOutgoing,
		},
		{
			name: "incoming cap reached",
			mutate: func(ctx *Context, _ *[]TimeSlot, _ *Rules) {
				ctx.PendingIncoming = 3
			},
			targetErr: ErrTooManyIncoming,
		},
		{
			name: "empty slot list",
			mutate: func(_ *Context, slots *[]TimeSlot, _ *Rules) {
				*slots = nil
			},
			targetErr: ErrNoProposedSlots,
		},
		{
			name: "slot cap exceeded",
			mutate: func(_ *Context, slots *[]TimeSlot, cfg *Rules) {
				cfg.MaxProposedSlots = 1
				*slots = append(*slots, TimeSlot{ID: "s2", Date: "2026-09-08", Day: membership.Tuesday, Slot: membership.SlotAfterWork})
			},
			targetErr: ErrTooManySlots,
		},
		{
			name: "slot with bad date",
			mutate: func(_ *Context, slots *[]TimeSlot, _ *Rules) {
				(*slots)[0].Date = "next monday"
			},
			targetErr: ErrInvalidSlot,
		},
		{
			name: "slot with unknown day",
			mutate: func(_ *Context, slots *[]TimeSlot, _ *Rules) {
				(*slots)[0].Day = "saturday"
			},
			targetErr: ErrInvalidSlot,
		},
		{
			name: "slot day contradicts date",
			mutate: func(_ *Context, slots *[]TimeSlot, _ *Rules) {
				// 2026-09-05 is a Saturday.
				(*slots)[0].Date = "2026-09-05"
				(*slots)[0].Day = membership.Friday
			},
			targetErr: ErrInvalidSlot,
		},
		{
			name: "slot in the past",
			mutate: func(_ *Context, slots *[]TimeSlot, _ *Rules) {
				(*slots)[0].Date = "2026-08-31"
			},
			targetErr: ErrSlotOutOfWindow,
		},
		{
			name: "slot beyond next week",
			mutate: func(_ *Context, slots *[]TimeSlot, _ *Rules) {
				(*slots)[0].Date = "2026-09-14"
			},
			targetErr: ErrSlotOutOfWindow,
		},
		{
			name: "slot a year out",
			mutate: func(_ *Context, slots *[]TimeSlot, _ *Rules) {
				(*slots)[0].Date = "2027-09-06"
			},
			targetErr: ErrSlotOutOfWindow,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ctx := validCtx
			slots := append([]TimeSlot(nil), validSlots...)
			cfg := rules
			tt.mutate(&ctx, &slots, &cfg)

			targetID := tt.targetID
			if targetID == "" {
				targetID = "u2"
			}

			err := cfg.ValidateNew(refNow, "u1", targetID, ctx, slots)
			if tt.targetErr == nil {
				if err != nil {
					t.Fatalf("expected no error, got %v", err)
				}
				return
			}
			if !errors.Is(err, tt.targetErr) {
				t.Fatalf("expected %v, got %v", tt.targetErr, err)
			}
		})
	}
}

func TestStatusTerminal(t *testing.T) {
	t.Parallel()

	terminal := []Status{StatusRejected, StatusExpired, StatusWithdrawn, StatusCancelled, StatusCompleted}
	for _, s := range terminal {
		if !s.Terminal() {
			t.Errorf("%s should be terminal", s)
		}
	}
	for _, s := range []Status{StatusPending, StatusAccepted} {
		if s.Terminal() {
			t.Errorf("%s should not be terminal", s)
		}
	}
}

func TestSlotByID(t *testing.T) {
	t.Parallel()

	c := Challenge{
		ProposedSlots: []TimeSlot{
			{ID: "s1", Date: "2026-09-07", Day: membership.Monday, Slot: membership.SlotLunch},
			{ID: "s2", Date: "2026-09-09", Day: membership.Wednesday, Slot: membership.SlotAfterWork},
		},
	}
	if got, ok := c.SlotByID("s2"); !ok || got.Day != membership.Wednesday {
		t.Fatalf("wanted s2, got %+v ok=%v", got, ok)
	}
	if _, ok := c.SlotByID("s9"); ok {
		t.Fatal("s9 should not resolve")
	}
}
