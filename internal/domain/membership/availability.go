package membership

import "fmt"

type Weekday string

const (
	Monday    Weekday = "monday"
	Tuesday   Weekday = "tuesday"
	Wednesday Weekday = "wednesday"
	Thursday  Weekday = "thursday"
	Friday    Weekday = "friday"
)

var AllWeekdays = map[Weekday]struct{}{
	Monday:    {},
	Tuesday:   {},
	Wednesday: {},
	Thursday:  {},
	Friday:    {},
}

type Slot string

const (
	SlotLunch     Slot = "lunch"
	SlotAfterWork Slot = "after_work"
)

var AllSlots = map[Slot]struct{}{
	SlotLunch:     {},
	SlotAfterWork: {},
}

// Availability is a sparse weekday-to-slot grid meaning "generally free then".
// Slots are label-based; there is no timezone arithmetic here.
type Availability map[Weekday]map[Slot]bool

func (a Availability) Free(day Weekday, slot Slot) bool {
	slots, ok := a[day]
	if !ok {
		return false
	}
	return slots[slot]
}

func (a Availability) Validate() error {
	for day, slots := range a {
		if _, ok := AllWeekdays[day]; !ok {
			return fmt.Errorf("unknown weekday %q", day)
		}
		for slot := range slots {
			if _, ok := AllSlots[slot]; !ok {
				return fmt.Errorf("unknown time slot %q", slot)
			}
		}
	}
	return nil
}

// MutuallyFree reports whether both members are free on the given day and slot.
func MutuallyFree(a, b Availability, day Weekday, slot Slot) bool {
	return a.Free(day, slot) && b.Free(day, slot)
}

// SharedSlots intersects two availability grids structurally: a day/slot pair
// is shared iff both sides mark it true. Returns the shared grid and the
// number of shared pairs.
func SharedSlots(a, b Availability) (Availability, int) {
	shared := make(Availability)
	count := 0
	for day, slots := range a {
		for slot, free := range slots {
			if !free || !b.Free(day, slot) {
				continue
			}
			if shared[day] == nil {
				shared[day] = make(map[Slot]bool)
			}
			shared[day][slot] = true
			count++
		}
	}
	return shared, count
}

// SharedCount is SharedSlots without materializing the grid.
func SharedCount(a, b Availability) int {
	count := 0
	for day, slots := range a {
		for slot, free := range slots {
			if free && b.Free(day, slot) {
				count++
			}
		}
	}
	return count
}
