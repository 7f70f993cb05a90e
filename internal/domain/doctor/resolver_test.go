package doctor

import (
	"reflect"
	"testing"

	"github.com/google/uuid"
)

func weekdayDoctor() *Availability {
	return &Availability{
		DoctorID:    uuid.New(),
		Name:        "Dr. Osei",
		Weekdays:    []int{1, 2, 3, 4, 5}, // Mon-Fri
		StartTime:   "09:00",
		EndTime:     "17:00",
		SlotMinutes: 30,
		Accepting:   true,
	}
}

func TestResolveSlotsFullDay(t *testing.T) {
	av := weekdayDoctor()
	// 2024-03-04 is a Monday.
	slots, err := ResolveSlots(av, "2024-03-04", nil)
	if err != nil {
		t.Fatalf("ResolveSlots: %v", err)
	}
	if len(slots) != 16 {
		t.Fatalf("expected 16 half-hour slots 09:00-17:00, got %d: %v", len(slots), slots)
	}
	if slots[0] != "09:00" {
		t.Errorf("first slot = %q, want 09:00", slots[0])
	}
	if slots[len(slots)-1] != "16:30" {
		t.Errorf("last slot = %q, want 16:30", slots[len(slots)-1])
	}
}

func TestResolveSlotsExcludesOccupied(t *testing.T) {
	av := weekdayDoctor()
	slots, err := ResolveSlots(av, "2024-03-04", []string{"09:00", "10:30"})
	if err != nil {
		t.Fatalf("ResolveSlots: %v", err)
	}
	for _, s := range slots {
		if s == "09:00" || s == "10:30" {
			t.Errorf("occupied slot %s still offered", s)
		}
	}
	if len(slots) != 14 {
		t.Errorf("expected 14 slots after exclusions, got %d", len(slots))
	}
}

func TestResolveSlotsOffDayIsEmpty(t *testing.T) {
	av := weekdayDoctor()
	// 2024-03-09 is a Saturday.
	slots, err := ResolveSlots(av, "2024-03-09", []string{"09:00"})
	if err != nil {
		t.Fatalf("ResolveSlots: %v", err)
	}
	if len(slots) != 0 {
		t.Errorf("expected no slots on an off day, got %v", slots)
	}
}

func TestResolveSlotsUnevenWindow(t *testing.T) {
	av := weekdayDoctor()
	av.EndTime = "10:45"
	slots, err := ResolveSlots(av, "2024-03-04", nil)
	if err != nil {
		t.Fatalf("ResolveSlots: %v", err)
	}
	// 09:00, 09:30, 10:00 fit; a 10:30 slot would end past 10:45.
	want := []string{"09:00", "09:30", "10:00"}
	if !reflect.DeepEqual(slots, want) {
		t.Errorf("slots = %v, want %v", slots, want)
	}
}

func TestResolveSlotsValidation(t *testing.T) {
	av := weekdayDoctor()
	if _, err := ResolveSlots(av, "not-a-date", nil); err == nil {
		t.Error("expected error for invalid date")
	}

	av.SlotMinutes = 0
	if _, err := ResolveSlots(av, "2024-03-04", nil); err == nil {
		t.Error("expected error for zero slot duration")
	}

	av = weekdayDoctor()
	av.StartTime = "17:00"
	av.EndTime = "09:00"
	if _, err := ResolveSlots(av, "2024-03-04", nil); err == nil {
		t.Error("expected error for inverted window")
	}
}

func TestIsGridTime(t *testing.T) {
	av := weekdayDoctor()
	cases := []struct {
		hhmm string
		want bool
	}{
		{"09:00", true},
		{"16:30", true},
		{"08:30", false}, // before opening
		{"17:00", false}, // would end past closing
		{"09:15", false}, // off grid
	}
	for _, tc := range cases {
		got, err := IsGridTime(av, tc.hhmm)
		if err != nil {
			t.Fatalf("IsGridTime(%s): %v", tc.hhmm, err)
		}
		if got != tc.want {
			t.Errorf("IsGridTime(%s) = %v, want %v", tc.hhmm, got, tc.want)
		}
	}

	if _, err := IsGridTime(av, "bogus"); err == nil {
		t.Error("expected error for malformed time")
	}
}
