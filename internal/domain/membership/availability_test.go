package membership

import "testing"

func TestSharedSlots(t *testing.T) {
	t.Parallel()

	a := Availability{
		Monday:    {SlotLunch: true, SlotAfterWork: true},
		Tuesday:   {SlotLunch: true},
		Wednesday: {SlotAfterWork: false},
	}
	b := Availability{
		Monday:   {SlotLunch: true, SlotAfterWork: false},
		Thursday: {SlotLunch: true},
	}

	shared, count := SharedSlots(a, b)
	if count != 1 {
		t.Fatalf("count = %d, want 1", count)
	}
	if !shared.Free(Monday, SlotLunch) {
		t.Fatal("monday lunch should be shared")
	}
	if shared.Free(Monday, SlotAfterWork) {
		t.Fatal("monday after_work is not mutual")
	}
	if got := SharedCount(a, b); got != count {
		t.Fatalf("SharedCount = %d, SharedSlots count = %d", got, count)
	}
}

func TestSharedSlotsEmpty(t *testing.T) {
	t.Parallel()

	a := Availability{Monday: {SlotLunch: true}}

	if _, count := SharedSlots(a, nil); count != 0 {
		t.Fatalf("count against nil grid = %d, want 0", count)
	}
	if _, count := SharedSlots(nil, a); count != 0 {
		t.Fatalf("count from nil grid = %d, want 0", count)
	}
}

func TestMutuallyFree(t *testing.T) {
	t.Parallel()

	a := Availability{Friday: {SlotAfterWork: true}}
	b := Availability{Friday: {SlotAfterWork: true, SlotLunch: true}}

	if !MutuallyFree(a, b, Friday, SlotAfterWork) {
		t.Fatal("friday after_work should be mutually free")
	}
	if MutuallyFree(a, b, Friday, SlotLunch) {
		t.Fatal("friday lunch is only free for one side")
	}
	if MutuallyFree(a, b, Monday, SlotLunch) {
		t.Fatal("absent days are never free")
	}
}

func TestAvailabilityValidate(t *testing.T) {
	t.Parallel()

	good := Availability{
		Monday: {SlotLunch: true},
		Friday: {SlotAfterWork: false},
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("valid grid rejected: %v", err)
	}

	if err := (Availability{"saturday": {SlotLunch: true}}).Validate(); err == nil {
		t.Fatal("unknown weekday should fail validation")
	}
	if err := (Availability{Monday: {"brunch": true}}).Validate(); err == nil {
		t.Fatal("unknown slot should fail validation")
	}
}

func TestResolveRankMovement(t *testing.T) {
	t.Parallel()

	three, five := 3, 5
	tests := []struct {
		name     string
		rank     int
		previous *int
		want     RankMovement
	}{
		{"no previous rank", 4, nil, RankMovementNew},
		{"climbed", 3, &five, RankMovementUp},
		{"dropped", 5, &three, RankMovementDown},
		{"held", 3, &three, RankMovementSame},
		{"unranked", 0, &three, RankMovementNew},
	}
	for _, tt := range tests {
		if got := ResolveRankMovement(tt.rank, tt.previous); got != tt.want {
			t.Errorf("%s: ResolveRankMovement = %s, want %s", tt.name, got, tt.want)
		}
	}
}
