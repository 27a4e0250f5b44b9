package service

import (
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/goaltracker/internal/db"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testLocation = time.FixedZone("CST", 8*3600)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Set(t time.Time) {
	c.mu.Lock()
	c.now = t
	c.mu.Unlock()
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

type testEnv struct {
	db       *gorm.DB
	clock    *fakeClock
	weeks    *WeekService
	feed     *ChangeFeed
	goals    *GoalService
	archive  *ArchiveService
	recaps   *RecapService
	rollover *RolloverService
	settings *SystemSettingService
	events   *EventService
}

func date(year int, month time.Month, day, hour, minute int) time.Time {
	return time.Date(year, month, day, hour, minute, 0, 0, testLocation)
}

// newTestEnv 在临时目录中创建独立的 SQLite 数据库，时钟固定在 now。
func newTestEnv(t *testing.T, now time.Time) *testEnv {
	t.Helper()

	gdb, err := db.Init(filepath.Join(t.TempDir(), "test.db"), logger.Default.LogMode(logger.Silent))
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() {
		db.Close(gdb)
	})

	clock := &fakeClock{now: now}
	weeks := NewWeekService(clock, testLocation)
	feed := NewChangeFeed()

	return &testEnv{
		db:       gdb,
		clock:    clock,
		weeks:    weeks,
		feed:     feed,
		goals:    NewGoalService(gdb, weeks, feed),
		archive:  NewArchiveService(gdb, weeks, feed),
		recaps:   NewRecapService(gdb, weeks, feed),
		rollover: NewRolloverService(gdb, weeks, feed),
		settings: NewSystemSettingService(gdb, weeks),
		events:   NewEventService(gdb, weeks, feed),
	}
}

func (e *testEnv) mustCreateGoal(t *testing.T, input GoalInput) *db.Goal {
	t.Helper()
	goal, err := e.goals.Create(input)
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	return goal
}

func strPtr(s string) *string {
	return &s
}
