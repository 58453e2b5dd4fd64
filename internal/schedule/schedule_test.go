package schedule

import "testing"

func TestParseClock(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"00:00", 0, false},
		{"09:30", 570, false},
		{"23:59", 1439, false},
		{"24:00", 0, true},
		{"29:59", 0, true},
		{"12:60", 0, true},
		{"9:30", 0, true},
		{"12-30", 0, true},
		{"ab:cd", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		got, err := ParseClock(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseClock(%q): expected error, got %d", tt.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseClock(%q): unexpected error: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseClock(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestFormatClock(t *testing.T) {
	if got := FormatClock(570); got != "09:30" {
		t.Errorf("FormatClock(570) = %q, want 09:30", got)
	}
	if got := FormatClock(0); got != "00:00" {
		t.Errorf("FormatClock(0) = %q, want 00:00", got)
	}
}

func TestWeekdayName(t *testing.T) {
	// 2026-01-05 is a Monday, 2026-01-04 a Sunday
	got, err := WeekdayName("2026-01-05")
	if err != nil {
		t.Fatalf("WeekdayName: %v", err)
	}
	if got != "monday" {
		t.Errorf("WeekdayName(2026-01-05) = %q, want monday", got)
	}

	got, err = WeekdayName("2026-01-04")
	if err != nil {
		t.Fatalf("WeekdayName: %v", err)
	}
	if got != "sunday" {
		t.Errorf("WeekdayName(2026-01-04) = %q, want sunday", got)
	}

	if _, err := WeekdayName("05.01.2026"); err == nil {
		t.Error("WeekdayName accepted a malformed date")
	}
	if _, err := WeekdayName("2026-13-01"); err == nil {
		t.Error("WeekdayName accepted an impossible date")
	}
}

func TestCanonicalIndexOrdersMondayFirstSundayLast(t *testing.T) {
	days := CanonicalDays()
	if days[0] != "monday" || days[len(days)-1] != "sunday" {
		t.Fatalf("unexpected canonical order: %v", days)
	}
	for i, day := range days {
		if CanonicalIndex(day) != i {
			t.Errorf("CanonicalIndex(%q) = %d, want %d", day, CanonicalIndex(day), i)
		}
	}
	if CanonicalIndex("noday") <= CanonicalIndex("sunday") {
		t.Error("unknown day should sort after every known day")
	}
}

func TestParseInterval(t *testing.T) {
	iv, err := ParseInterval("09:00", "10:00")
	if err != nil {
		t.Fatalf("ParseInterval: %v", err)
	}
	if iv.Start != 540 || iv.End != 600 {
		t.Errorf("ParseInterval = %+v, want {540 600}", iv)
	}

	if _, err := ParseInterval("10:00", "09:00"); err == nil {
		t.Error("ParseInterval accepted start after end")
	}
	if _, err := ParseInterval("10:00", "10:00"); err == nil {
		t.Error("ParseInterval accepted an empty interval")
	}
}

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name string
		a, b Interval
		want bool
	}{
		{"identical", Interval{540, 570}, Interval{540, 570}, true},
		{"contained", Interval{540, 600}, Interval{550, 560}, true},
		{"partial head", Interval{540, 570}, Interval{555, 585}, true},
		{"partial tail", Interval{555, 585}, Interval{540, 570}, true},
		{"touching ends", Interval{540, 570}, Interval{570, 600}, false},
		{"disjoint", Interval{540, 570}, Interval{600, 630}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Overlaps(tt.a, tt.b); got != tt.want {
				t.Errorf("Overlaps(%+v, %+v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
			// the predicate is symmetric
			if got := Overlaps(tt.b, tt.a); got != tt.want {
				t.Errorf("Overlaps(%+v, %+v) = %v, want %v", tt.b, tt.a, got, tt.want)
			}
		})
	}
}

func TestCutSlots(t *testing.T) {
	// 09:00-10:00 cuts into two half-hour slots
	slots := CutSlots(Interval{540, 600})
	if len(slots) != 2 {
		t.Fatalf("expected 2 slots, got %d", len(slots))
	}
	if slots[0] != (Interval{540, 570}) || slots[1] != (Interval{570, 600}) {
		t.Errorf("unexpected slots: %+v", slots)
	}

	// a trailing partial slot is excluded
	slots = CutSlots(Interval{540, 585})
	if len(slots) != 1 {
		t.Fatalf("expected 1 slot for 45-minute window, got %d", len(slots))
	}

	// too narrow for any slot
	if slots := CutSlots(Interval{540, 555}); len(slots) != 0 {
		t.Errorf("expected no slots for 15-minute window, got %+v", slots)
	}
}
