package doctor

import (
	"fmt"

	"github.com/clinicq/clinicq/internal/platform/clock"
)

// ResolveSlots expands a doctor's weekly pattern into the ordered list of
// bookable times for one date, excluding already-occupied times. A date
// outside the doctor's working days yields an empty list regardless of the
// occupied input.
//
// Slot generation is purely additive from the daily start time; the last slot
// must end at or before the daily end time.
func ResolveSlots(av *Availability, date string, occupied []string) ([]string, error) {
	day, err := clock.ParseDate(date)
	if err != nil {
		return nil, err
	}
	if av.SlotMinutes <= 0 {
		return nil, fmt.Errorf("slot duration must be positive, got %d", av.SlotMinutes)
	}

	start, err := clock.ParseHHMM(av.StartTime)
	if err != nil {
		return nil, fmt.Errorf("availability start: %w", err)
	}
	end, err := clock.ParseHHMM(av.EndTime)
	if err != nil {
		return nil, fmt.Errorf("availability end: %w", err)
	}
	if start >= end {
		return nil, fmt.Errorf("availability window %s-%s is empty", av.StartTime, av.EndTime)
	}

	if !av.WorksOn(day.Weekday()) {
		return []string{}, nil
	}

	taken := make(map[string]struct{}, len(occupied))
	for _, t := range occupied {
		taken[t] = struct{}{}
	}

	var slots []string
	for m := start; m+av.SlotMinutes <= end; m += av.SlotMinutes {
		s := clock.FormatHHMM(m)
		if _, ok := taken[s]; ok {
			continue
		}
		slots = append(slots, s)
	}
	return slots, nil
}

// IsGridTime reports whether hhmm falls exactly on the doctor's slot grid and
// inside the working window. Used by the allocator to distinguish "outside
// working hours" from "slot already taken".
func IsGridTime(av *Availability, hhmm string) (bool, error) {
	t, err := clock.ParseHHMM(hhmm)
	if err != nil {
		return false, err
	}
	start, err := clock.ParseHHMM(av.StartTime)
	if err != nil {
		return false, err
	}
	end, err := clock.ParseHHMM(av.EndTime)
	if err != nil {
		return false, err
	}
	if av.SlotMinutes <= 0 {
		return false, fmt.Errorf("slot duration must be positive, got %d", av.SlotMinutes)
	}
	if t < start || t+av.SlotMinutes > end {
		return false, nil
	}
	return (t-start)%av.SlotMinutes == 0, nil
}
