package calendar

import (
	"errors"
	"testing"
	"time"
)

func mustTime(t *testing.T, year int, month time.Month, day, hour, min int) time.Time {
	t.Helper()
	return time.Date(year, month, day, hour, min, 0, 0, time.UTC)
}

func mustWindow(t *testing.T, start, end time.Time) Window {
	t.Helper()
	w, err := NewWindow(start, end)
	if err != nil {
		t.Fatalf("NewWindow(%v, %v): %v", start, end, err)
	}
	return w
}

//
// Тесты для NewWindow
//

func TestNewWindow_OK(t *testing.T) {
	start := mustTime(t, 2026, 9, 10, 14, 0)
	end := mustTime(t, 2026, 9, 10, 15, 0)

	w, err := NewWindow(start, end)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !w.Start.Equal(start) || !w.End.Equal(end) {
		t.Fatalf("expected [%v, %v), got %v", start, end, w)
	}
	if w.Minutes() != 60 {
		t.Fatalf("expected 60 minutes, got %d", w.Minutes())
	}
}

func TestNewWindow_EndAtMidnight(t *testing.T) {
	start := mustTime(t, 2026, 9, 10, 23, 0)
	end := mustTime(t, 2026, 9, 11, 0, 0)

	if _, err := NewWindow(start, end); err != nil {
		t.Fatalf("window ending at midnight must be valid, got %v", err)
	}
}

func TestNewWindow_Invalid(t *testing.T) {
	cases := []struct {
		name    string
		start   time.Time
		end     time.Time
		wantErr error
	}{
		{"zero times", time.Time{}, time.Time{}, ErrInvalidWindow},
		{"start equals end", mustTime(t, 2026, 9, 10, 14, 0), mustTime(t, 2026, 9, 10, 14, 0), ErrInvalidWindow},
		{"end before start", mustTime(t, 2026, 9, 10, 15, 0), mustTime(t, 2026, 9, 10, 14, 0), ErrInvalidWindow},
		{"crosses midnight", mustTime(t, 2026, 9, 10, 23, 0), mustTime(t, 2026, 9, 11, 1, 0), ErrWindowCrossesDay},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := NewWindow(tc.start, tc.end); !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected %v, got %v", tc.wantErr, err)
			}
		})
	}
}

//
// Тесты для Overlaps
//

func TestWindow_Overlaps(t *testing.T) {
	base := mustWindow(t, mustTime(t, 2026, 9, 10, 14, 0), mustTime(t, 2026, 9, 10, 15, 0))

	cases := []struct {
		name  string
		other Window
		want  bool
	}{
		{"identical", base, true},
		{"partial right", mustWindow(t, mustTime(t, 2026, 9, 10, 14, 30), mustTime(t, 2026, 9, 10, 15, 30)), true},
		{"partial left", mustWindow(t, mustTime(t, 2026, 9, 10, 13, 30), mustTime(t, 2026, 9, 10, 14, 30)), true},
		{"contained", mustWindow(t, mustTime(t, 2026, 9, 10, 14, 15), mustTime(t, 2026, 9, 10, 14, 45)), true},
		{"containing", mustWindow(t, mustTime(t, 2026, 9, 10, 13, 0), mustTime(t, 2026, 9, 10, 16, 0)), true},
		{"touching end", mustWindow(t, mustTime(t, 2026, 9, 10, 15, 0), mustTime(t, 2026, 9, 10, 16, 0)), false},
		{"touching start", mustWindow(t, mustTime(t, 2026, 9, 10, 13, 0), mustTime(t, 2026, 9, 10, 14, 0)), false},
		{"disjoint", mustWindow(t, mustTime(t, 2026, 9, 10, 16, 0), mustTime(t, 2026, 9, 10, 17, 0)), false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := base.Overlaps(tc.other); got != tc.want {
				t.Fatalf("Overlaps(%v) = %v, want %v", tc.other, got, tc.want)
			}
			// Пересечение симметрично.
			if got := tc.other.Overlaps(base); got != tc.want {
				t.Fatalf("Overlaps is not symmetric for %v", tc.other)
			}
		})
	}
}

// Двухсравнительный тест пересечения должен совпадать с перебором минут:
// окна пересекаются тогда и только тогда, когда делят хотя бы одну минуту.
func TestWindow_Overlaps_MatchesEnumeration(t *testing.T) {
	day := mustTime(t, 2026, 9, 10, 0, 0)

	sharesMinute := func(a, b Window) bool {
		for m := 0; m < 24*60; m++ {
			tick := day.Add(time.Duration(m) * time.Minute)
			inA := !tick.Before(a.Start) && tick.Before(a.End)
			inB := !tick.Before(b.Start) && tick.Before(b.End)
			if inA && inB {
				return true
			}
		}
		return false
	}

	// Все пары получасовых окон в рабочем интервале.
	var windows []Window
	for startMin := 600; startMin < 1380; startMin += 30 {
		for endMin := startMin + 30; endMin <= 1380; endMin += 30 {
			windows = append(windows, Window{
				Start: day.Add(time.Duration(startMin) * time.Minute),
				End:   day.Add(time.Duration(endMin) * time.Minute),
			})
		}
	}

	for _, a := range windows {
		for _, b := range windows {
			if got, want := a.Overlaps(b), sharesMinute(a, b); got != want {
				t.Fatalf("Overlaps(%v, %v) = %v, enumeration says %v", a, b, got, want)
			}
		}
	}
}

//
// Тесты для SplitToWindows и DailyGrid
//

func TestSplitToWindows_Basic(t *testing.T) {
	w := mustWindow(t, mustTime(t, 2026, 9, 10, 10, 0), mustTime(t, 2026, 9, 10, 12, 0))

	slots, err := SplitToWindows(w, 30*time.Minute)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(slots) != 4 {
		t.Fatalf("expected 4 slots, got %d", len(slots))
	}
	if !slots[0].Start.Equal(w.Start) || !slots[3].End.Equal(w.End) {
		t.Fatalf("slots do not cover the window: %v", slots)
	}
}

func TestSplitToWindows_DropsTail(t *testing.T) {
	w := mustWindow(t, mustTime(t, 2026, 9, 10, 10, 0), mustTime(t, 2026, 9, 10, 11, 45))

	slots, err := SplitToWindows(w, time.Hour)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(slots) != 1 {
		t.Fatalf("expected tail to be dropped, got %d slots", len(slots))
	}
}

func TestSplitToWindows_InvalidDuration(t *testing.T) {
	w := mustWindow(t, mustTime(t, 2026, 9, 10, 10, 0), mustTime(t, 2026, 9, 10, 12, 0))
	if _, err := SplitToWindows(w, 0); !errors.Is(err, ErrSlotDuration) {
		t.Fatalf("expected ErrSlotDuration, got %v", err)
	}
}

func TestDailyGrid_DefaultBusinessHours(t *testing.T) {
	// 10:00–23:00 с часовым шагом — 13 слотов.
	grid, err := DailyGrid(mustTime(t, 2026, 9, 10, 12, 34), 600, 1380, time.Hour)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(grid) != 13 {
		t.Fatalf("expected 13 slots, got %d", len(grid))
	}
	if !grid[0].Start.Equal(mustTime(t, 2026, 9, 10, 10, 0)) {
		t.Fatalf("expected first slot at 10:00, got %v", grid[0].Start)
	}
	if !grid[12].End.Equal(mustTime(t, 2026, 9, 10, 23, 0)) {
		t.Fatalf("expected last slot to end at 23:00, got %v", grid[12].End)
	}
}

func TestDailyGrid_InvalidHours(t *testing.T) {
	if _, err := DailyGrid(mustTime(t, 2026, 9, 10, 0, 0), 1380, 600, time.Hour); err == nil {
		t.Fatalf("expected error for inverted business hours")
	}
}

func TestHasConflict(t *testing.T) {
	busy := []Window{
		mustWindow(t, mustTime(t, 2026, 9, 10, 14, 0), mustTime(t, 2026, 9, 10, 15, 0)),
		mustWindow(t, mustTime(t, 2026, 9, 10, 18, 0), mustTime(t, 2026, 9, 10, 19, 0)),
	}

	ok, conflicts := HasConflict(mustWindow(t, mustTime(t, 2026, 9, 10, 14, 30), mustTime(t, 2026, 9, 10, 15, 30)), busy)
	if !ok || len(conflicts) != 1 {
		t.Fatalf("expected one conflict, got ok=%v conflicts=%v", ok, conflicts)
	}

	ok, conflicts = HasConflict(mustWindow(t, mustTime(t, 2026, 9, 10, 15, 0), mustTime(t, 2026, 9, 10, 16, 0)), busy)
	if ok || conflicts != nil {
		t.Fatalf("expected no conflicts, got %v", conflicts)
	}
}
