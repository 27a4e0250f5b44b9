package app

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/goaltracker/internal/logger"
	"github.com/goaltracker/internal/service"
)

var testLocation = time.FixedZone("CST", 8*3600)

type settableClock struct {
	now time.Time
}

func (c *settableClock) Now() time.Time {
	return c.now
}

func newTestApp(t *testing.T, clock *settableClock) *App {
	t.Helper()
	a, err := New(Options{
		DatabasePath: filepath.Join(t.TempDir(), "nested", "goals.db"),
		Location:     testLocation,
		Clock:        clock,
		Logger:       logger.Discard(),
	})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	t.Cleanup(func() { a.Close() })
	return a
}

func TestStartupFirstLaunchRecordsWeekWithoutRollover(t *testing.T) {
	clock := &settableClock{now: time.Date(2026, 1, 7, 9, 0, 0, 0, testLocation)}
	a := newTestApp(t, clock)

	report := a.Startup()
	if report.Rollover.Performed {
		t.Fatal("first launch must not roll over")
	}

	last, err := a.Settings.GetLastLaunchWeek()
	if err != nil {
		t.Fatalf("GetLastLaunchWeek returned error: %v", err)
	}
	if last == nil || !last.Equal(time.Date(2026, 1, 5, 0, 0, 0, 0, testLocation)) {
		t.Fatalf("expected current week recorded, got %v", last)
	}
}

func TestStartupRollsOverAndArchivesOncePerWeek(t *testing.T) {
	clock := &settableClock{now: time.Date(2026, 1, 7, 9, 0, 0, 0, testLocation)}
	a := newTestApp(t, clock)
	a.Startup()

	open, err := a.Goals.Create(service.GoalInput{Title: "Finish report", Category: "Work"})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	done, err := a.Goals.Create(service.GoalInput{Title: "Ship v1", Category: "Work"})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if _, err := a.Goals.ToggleCompletion(done.ID); err != nil {
		t.Fatalf("ToggleCompletion returned error: %v", err)
	}

	// 下周第一次启动
	clock.now = time.Date(2026, 1, 12, 8, 0, 0, 0, testLocation)
	report := a.Startup()
	if !report.Rollover.Performed || len(report.Rollover.Copied) != 1 {
		t.Fatalf("expected one goal rolled over, got %+v", report.Rollover)
	}
	if report.Archived != 1 {
		t.Fatalf("expected one goal archived, got %d", report.Archived)
	}
	if copied := report.Rollover.Copied[0]; copied.RolledOverFrom == nil || *copied.RolledOverFrom != open.ID {
		t.Fatalf("unexpected rolled over goal: %+v", copied)
	}

	// 同一周再次启动不会重复结转
	clock.now = clock.now.Add(4 * time.Hour)
	report = a.Startup()
	if report.Rollover.Performed {
		t.Fatal("second launch in the same week must not roll over")
	}

	goals, err := a.Goals.List(a.Weeks.CurrentWeekStart())
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(goals) != 1 {
		t.Fatalf("expected one goal in the new week, got %d", len(goals))
	}

	lastRun, err := a.Settings.GetLastArchiveRun()
	if err != nil {
		t.Fatalf("GetLastArchiveRun returned error: %v", err)
	}
	if lastRun == nil || !lastRun.Equal(clock.now) {
		t.Fatalf("expected archive run recorded, got %v", lastRun)
	}
}
