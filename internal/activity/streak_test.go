package activity

import (
	"testing"
	"time"
)

// day returns noon UTC, n days before the fixed reference date.
func day(n int) time.Time {
	base := time.Date(2025, 9, 5, 12, 0, 0, 0, time.UTC)
	return base.AddDate(0, 0, -n)
}

func ok(at time.Time) Entry   { return Entry{ID: at.String(), Timestamp: at, Success: true} }
func fail(at time.Time) Entry { return Entry{ID: at.String(), Timestamp: at, Success: false} }

func TestComputeStreaks(t *testing.T) {
	tests := []struct {
		name    string
		entries []Entry
		want    Streaks
	}{
		{"empty", nil, Streaks{0, 0}},
		{"single success", []Entry{ok(day(0))}, Streaks{1, 1}},
		{"single failure", []Entry{fail(day(0))}, Streaks{0, 0}},
		{
			"three consecutive days",
			[]Entry{ok(day(0)), ok(day(1)), ok(day(2))},
			Streaks{3, 3},
		},
		{
			"failure between successes two days apart",
			[]Entry{ok(day(0)), fail(day(1)), ok(day(2))},
			Streaks{1, 1},
		},
		{
			"failure between successes on consecutive days",
			[]Entry{ok(day(0)), fail(day(0).Add(-time.Hour)), ok(day(1))},
			Streaks{2, 2},
		},
		{
			"same day counts each success",
			[]Entry{
				ok(day(0)),
				ok(day(0).Add(-time.Hour)),
				ok(day(0).Add(-2 * time.Hour)),
				fail(day(0).Add(-3 * time.Hour)),
			},
			Streaks{3, 3},
		},
		{
			"current follows the run inside the window",
			[]Entry{ok(day(0)), ok(day(3)), ok(day(4)), ok(day(5))},
			Streaks{3, 3},
		},
		{
			"older run sets both values",
			[]Entry{ok(day(0)), ok(day(1)), ok(day(5)), ok(day(6)), ok(day(7)), ok(day(8))},
			Streaks{4, 4},
		},
		{
			"failures only",
			[]Entry{fail(day(0)), fail(day(1))},
			Streaks{0, 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeStreaksIn(tt.entries, time.UTC)
			if got != tt.want {
				t.Fatalf("ComputeStreaksIn = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestComputeStreaksUnsortedInput(t *testing.T) {
	entries := []Entry{ok(day(2)), ok(day(0)), ok(day(1))}
	got := ComputeStreaksIn(entries, time.UTC)
	if got != (Streaks{3, 3}) {
		t.Fatalf("got %+v, want {3 3}", got)
	}
	// Input must not be reordered.
	if !entries[0].Timestamp.Equal(day(2)) {
		t.Fatal("ComputeStreaksIn mutated its input")
	}
}

func TestComputeStreaksCurrentFrozenAfterWindow(t *testing.T) {
	// Ten successes on ten consecutive days: the running streak keeps
	// growing but the current streak stops at the seventh position.
	var entries []Entry
	for i := 0; i < 10; i++ {
		entries = append(entries, ok(day(i)))
	}
	got := ComputeStreaksIn(entries, time.UTC)
	if got.Current != 7 {
		t.Fatalf("Current = %d, want 7", got.Current)
	}
	if got.Longest != 10 {
		t.Fatalf("Longest = %d, want 10", got.Longest)
	}
}

func TestComputeStreaksWindowCountsFailures(t *testing.T) {
	// Failures occupy window slots even though they are skipped.
	entries := []Entry{
		ok(day(0)),
		fail(day(0).Add(-1 * time.Hour)),
		fail(day(0).Add(-2 * time.Hour)),
		fail(day(0).Add(-3 * time.Hour)),
		fail(day(0).Add(-4 * time.Hour)),
		fail(day(0).Add(-5 * time.Hour)),
		fail(day(0).Add(-6 * time.Hour)),
		ok(day(1)),
		ok(day(2)),
	}
	got := ComputeStreaksIn(entries, time.UTC)
	if got.Current != 1 {
		t.Fatalf("Current = %d, want 1", got.Current)
	}
	if got.Longest != 3 {
		t.Fatalf("Longest = %d, want 3", got.Longest)
	}
}

func TestComputeStreaksGapInsideWindowRestarts(t *testing.T) {
	// The oldest success in the window starts a new run after a gap, so the
	// current streak ends up describing that run.
	entries := []Entry{ok(day(0)), ok(day(1)), ok(day(4))}
	got := ComputeStreaksIn(entries, time.UTC)
	if got.Current != 1 {
		t.Fatalf("Current = %d, want 1", got.Current)
	}
	if got.Longest != 2 {
		t.Fatalf("Longest = %d, want 2", got.Longest)
	}
}

func TestComputeStreaksCalendarDays(t *testing.T) {
	// 23:30 and 00:30 the next day are one calendar day apart. 23:30 and
	// 00:10 three days later are a gap although only ~48h separate them.
	late := time.Date(2025, 9, 1, 23, 30, 0, 0, time.UTC)
	early := time.Date(2025, 9, 2, 0, 30, 0, 0, time.UTC)
	got := ComputeStreaksIn([]Entry{ok(early), ok(late)}, time.UTC)
	if got != (Streaks{2, 2}) {
		t.Fatalf("adjacent days: got %+v, want {2 2}", got)
	}

	later := time.Date(2025, 9, 4, 0, 10, 0, 0, time.UTC)
	got = ComputeStreaksIn([]Entry{ok(later), ok(late)}, time.UTC)
	if got != (Streaks{1, 1}) {
		t.Fatalf("three-day gap: got %+v, want {1 1}", got)
	}
}

func TestComputeStreaksLocation(t *testing.T) {
	// 22:00 UTC and 02:00 UTC two days later are consecutive days at UTC+5.
	loc := time.FixedZone("UTC+5", 5*60*60)
	a := time.Date(2025, 9, 1, 22, 0, 0, 0, time.UTC)
	b := time.Date(2025, 9, 3, 2, 0, 0, 0, time.UTC)

	if got := ComputeStreaksIn([]Entry{ok(b), ok(a)}, time.UTC); got.Longest != 1 {
		t.Fatalf("UTC: Longest = %d, want 1", got.Longest)
	}
	if got := ComputeStreaksIn([]Entry{ok(b), ok(a)}, loc); got.Longest != 2 {
		t.Fatalf("UTC+5: Longest = %d, want 2", got.Longest)
	}
}
