package service

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/goaltracker/internal/db"
)

func TestGoalServiceCreateAssignsDefaults(t *testing.T) {
	env := newTestEnv(t, date(2026, 1, 7, 10, 0))

	goal := env.mustCreateGoal(t, GoalInput{Title: "  Ship v1  ", Category: "work"})

	if goal.ID == "" {
		t.Fatal("expected goal to have ID")
	}
	if goal.Title != "Ship v1" {
		t.Fatalf("expected trimmed title, got %q", goal.Title)
	}
	if goal.Category != db.CategoryWork {
		t.Fatalf("unexpected category: %s", goal.Category)
	}
	if !goal.WeekStart.Equal(date(2026, 1, 5, 0, 0)) {
		t.Fatalf("expected current week, got %s", goal.WeekStart)
	}
	if goal.IsCompleted || goal.CompletedAt != nil {
		t.Fatal("new goal must be incomplete")
	}
	if !goal.CreatedAt.Equal(date(2026, 1, 7, 10, 0)) {
		t.Fatalf("unexpected createdAt: %s", goal.CreatedAt)
	}
	if goal.SortOrder != 0 {
		t.Fatalf("expected first sort order 0, got %d", goal.SortOrder)
	}

	second := env.mustCreateGoal(t, GoalInput{Title: "Write docs", Category: "Work"})
	if second.SortOrder != 1 {
		t.Fatalf("expected sort order 1, got %d", second.SortOrder)
	}

	// 不同分类独立计数
	health := env.mustCreateGoal(t, GoalInput{Title: "Run", Category: "Health"})
	if health.SortOrder != 0 {
		t.Fatalf("expected independent bucket, got %d", health.SortOrder)
	}

	// 不同周独立计数
	nextWeek := date(2026, 1, 14, 0, 0)
	later := env.mustCreateGoal(t, GoalInput{Title: "Plan", Category: "Work", WeekStart: &nextWeek})
	if later.SortOrder != 0 {
		t.Fatalf("expected independent week bucket, got %d", later.SortOrder)
	}
	if !later.WeekStart.Equal(date(2026, 1, 12, 0, 0)) {
		t.Fatalf("expected normalized week start, got %s", later.WeekStart)
	}
}

func TestGoalServiceCreateRejectsEmptyTitle(t *testing.T) {
	env := newTestEnv(t, date(2026, 1, 7, 10, 0))

	if _, err := env.goals.Create(GoalInput{Title: "   ", Category: "Work"}); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}

	goals, err := env.goals.List(env.weeks.CurrentWeekStart())
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(goals) != 0 {
		t.Fatalf("expected no goals stored, got %d", len(goals))
	}
}

func TestGoalServiceUnknownCategoryDefaultsToPersonal(t *testing.T) {
	env := newTestEnv(t, date(2026, 1, 7, 10, 0))

	goal := env.mustCreateGoal(t, GoalInput{Title: "Call mom", Category: "family"})
	if goal.Category != db.CategoryPersonal {
		t.Fatalf("expected Personal, got %s", goal.Category)
	}
}

func TestGoalServiceListOrdering(t *testing.T) {
	env := newTestEnv(t, date(2026, 1, 7, 10, 0))

	p := env.mustCreateGoal(t, GoalInput{Title: "Read", Category: "Personal"})
	w1 := env.mustCreateGoal(t, GoalInput{Title: "Ship", Category: "Work"})
	env.clock.Advance(time.Minute)
	w2 := env.mustCreateGoal(t, GoalInput{Title: "Review", Category: "Work"})
	h := env.mustCreateGoal(t, GoalInput{Title: "Run", Category: "Health"})

	// 人为制造 sortOrder 冲突，按 createdAt 决定先后
	if err := env.db.Model(&db.Goal{}).Where("id = ?", w2.ID).Update("sort_order", 0).Error; err != nil {
		t.Fatalf("failed to update sort order: %v", err)
	}

	goals, err := env.goals.List(date(2026, 1, 9, 0, 0))
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}

	want := []string{h.ID, p.ID, w1.ID, w2.ID}
	if len(goals) != len(want) {
		t.Fatalf("expected %d goals, got %d", len(want), len(goals))
	}
	for i, id := range want {
		if goals[i].ID != id {
			t.Fatalf("position %d: expected %s (%s), got %s", i, id, titleOf(goals, id), goals[i].Title)
		}
	}
}

func TestGoalServiceListByCategoryAlwaysHasAllBuckets(t *testing.T) {
	env := newTestEnv(t, date(2026, 1, 7, 10, 0))

	grouped, err := env.goals.ListByCategory(env.weeks.CurrentWeekStart())
	if err != nil {
		t.Fatalf("ListByCategory returned error: %v", err)
	}
	if len(grouped) != 3 {
		t.Fatalf("expected 3 buckets, got %d", len(grouped))
	}
	for _, category := range db.Categories {
		bucket, ok := grouped[category]
		if !ok {
			t.Fatalf("missing bucket %s", category)
		}
		if len(bucket) != 0 {
			t.Fatalf("expected empty bucket %s", category)
		}
	}

	env.mustCreateGoal(t, GoalInput{Title: "Ship", Category: "Work"})
	env.mustCreateGoal(t, GoalInput{Title: "Review", Category: "Work"})

	grouped, err = env.goals.ListByCategory(env.weeks.CurrentWeekStart())
	if err != nil {
		t.Fatalf("ListByCategory returned error: %v", err)
	}
	if len(grouped) != 3 || len(grouped[db.CategoryWork]) != 2 || len(grouped[db.CategoryHealth]) != 0 {
		t.Fatalf("unexpected buckets: %+v", grouped)
	}
	if grouped[db.CategoryWork][0].Title != "Ship" {
		t.Fatalf("expected bucket ordered by sort order, got %s", grouped[db.CategoryWork][0].Title)
	}
}

func TestGoalServiceToggleCompletionClearsFocus(t *testing.T) {
	env := newTestEnv(t, date(2026, 1, 7, 10, 0))
	goal := env.mustCreateGoal(t, GoalInput{Title: "Ship", Category: "Work"})

	focused, err := env.goals.ToggleFocusToday(goal.ID)
	if err != nil {
		t.Fatalf("ToggleFocusToday returned error: %v", err)
	}
	if !env.goals.IsFocusedToday(*focused) {
		t.Fatal("expected goal to be focused today")
	}

	env.clock.Advance(time.Hour)
	completed, err := env.goals.ToggleCompletion(goal.ID)
	if err != nil {
		t.Fatalf("ToggleCompletion returned error: %v", err)
	}
	if !completed.IsCompleted || completed.CompletedAt == nil {
		t.Fatal("expected goal to be completed with completedAt")
	}
	if completed.FocusDate != nil {
		t.Fatal("completing a goal must clear focus")
	}

	stored, err := env.goals.Get(goal.ID)
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if stored.FocusDate != nil || !stored.IsCompleted {
		t.Fatal("expected persisted completion without focus")
	}
	if !stored.CompletedAt.Equal(date(2026, 1, 7, 11, 0)) {
		t.Fatalf("unexpected completedAt: %s", stored.CompletedAt)
	}

	reopened, err := env.goals.ToggleCompletion(goal.ID)
	if err != nil {
		t.Fatalf("ToggleCompletion returned error: %v", err)
	}
	if reopened.IsCompleted || reopened.CompletedAt != nil {
		t.Fatal("reopening must clear completedAt")
	}
}

func TestGoalServiceFocusIsDayScoped(t *testing.T) {
	env := newTestEnv(t, date(2026, 1, 7, 10, 0))
	goal := env.mustCreateGoal(t, GoalInput{Title: "Ship", Category: "Work"})

	if _, err := env.goals.ToggleFocusToday(goal.ID); err != nil {
		t.Fatalf("ToggleFocusToday returned error: %v", err)
	}

	focused, err := env.goals.TodaysFocused(nil)
	if err != nil {
		t.Fatalf("TodaysFocused returned error: %v", err)
	}
	if len(focused) != 1 {
		t.Fatalf("expected 1 focused goal, got %d", len(focused))
	}

	env.clock.Set(date(2026, 1, 8, 9, 0))

	stored, err := env.goals.Get(goal.ID)
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if stored.FocusDate == nil {
		t.Fatal("stale focus flag should stay in storage")
	}
	if env.goals.IsFocusedToday(*stored) {
		t.Fatal("focus from yesterday must not count as today")
	}

	focused, err = env.goals.TodaysFocused(nil)
	if err != nil {
		t.Fatalf("TodaysFocused returned error: %v", err)
	}
	if len(focused) != 0 {
		t.Fatalf("expected no focused goals, got %d", len(focused))
	}

	// 昨天的标记不算聚焦，再次切换会重新聚焦到今天
	refocused, err := env.goals.ToggleFocusToday(goal.ID)
	if err != nil {
		t.Fatalf("ToggleFocusToday returned error: %v", err)
	}
	if !env.goals.IsFocusedToday(*refocused) {
		t.Fatal("expected goal focused again today")
	}

	cleared, err := env.goals.ToggleFocusToday(goal.ID)
	if err != nil {
		t.Fatalf("ToggleFocusToday returned error: %v", err)
	}
	if cleared.FocusDate != nil {
		t.Fatal("expected focus cleared")
	}
}

func TestGoalServiceUpdates(t *testing.T) {
	env := newTestEnv(t, date(2026, 1, 7, 10, 0))
	goal := env.mustCreateGoal(t, GoalInput{Title: "Ship", Category: "Work", Notes: strPtr("draft")})

	updated, err := env.goals.UpdateTitle(goal.ID, "Ship v2")
	if err != nil {
		t.Fatalf("UpdateTitle returned error: %v", err)
	}
	if updated.Title != "Ship v2" {
		t.Fatalf("unexpected title: %s", updated.Title)
	}

	if _, err := env.goals.UpdateTitle(goal.ID, " "); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}

	updated, err = env.goals.UpdateNotes(goal.ID, strPtr(""))
	if err != nil {
		t.Fatalf("UpdateNotes returned error: %v", err)
	}
	if updated.Notes != nil {
		t.Fatal("empty notes must be stored as nil")
	}

	due := date(2026, 1, 9, 17, 30)
	updated, err = env.goals.UpdateDueDate(goal.ID, &due)
	if err != nil {
		t.Fatalf("UpdateDueDate returned error: %v", err)
	}
	if updated.DueDate == nil || !updated.DueDate.Equal(date(2026, 1, 9, 0, 0)) {
		t.Fatalf("expected due date normalized to the day, got %v", updated.DueDate)
	}

	updated, err = env.goals.UpdateDueDate(goal.ID, nil)
	if err != nil {
		t.Fatalf("UpdateDueDate returned error: %v", err)
	}
	if updated.DueDate != nil {
		t.Fatal("expected due date cleared")
	}

	if _, err := env.goals.UpdateTitle("missing", "x"); !errors.Is(err, ErrGoalNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestGoalServiceUpdateAppliesPatchAtomically(t *testing.T) {
	env := newTestEnv(t, date(2026, 1, 7, 10, 0))
	goal := env.mustCreateGoal(t, GoalInput{Title: "Ship", Category: "Work", Notes: strPtr("draft")})

	// 标题非法时其余字段也不能落库
	due := date(2026, 1, 9, 15, 0)
	if _, err := env.goals.Update(goal.ID, GoalPatch{Title: strPtr("  "), Notes: strPtr("changed"), DueDate: &due, DueDateSet: true}); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	stored, err := env.goals.Get(goal.ID)
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if stored.Title != "Ship" || stored.Notes == nil || *stored.Notes != "draft" || stored.DueDate != nil {
		t.Fatalf("rejected update must leave goal untouched, got %+v", stored)
	}

	updated, err := env.goals.Update(goal.ID, GoalPatch{Title: strPtr(" Ship v2 "), DueDate: &due, DueDateSet: true})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if updated.Title != "Ship v2" || updated.Notes == nil || *updated.Notes != "draft" {
		t.Fatalf("unexpected goal after update: %+v", updated)
	}
	if updated.DueDate == nil || !updated.DueDate.Equal(date(2026, 1, 9, 0, 0)) {
		t.Fatalf("expected due date normalized to day start, got %v", updated.DueDate)
	}

	if _, err := env.goals.Update("missing", GoalPatch{Title: strPtr("x")}); !errors.Is(err, ErrGoalNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestGoalServiceConcurrentMutationsKeepEveryChange(t *testing.T) {
	env := newTestEnv(t, date(2026, 1, 7, 10, 0))
	goal := env.mustCreateGoal(t, GoalInput{Title: "Ship", Category: "Work"})

	const toggles = 40
	var wg sync.WaitGroup
	errs := make(chan error, toggles+1)
	for i := 0; i < toggles; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := env.goals.ToggleCompletion(goal.ID); err != nil {
				errs <- err
			}
		}()
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		if _, err := env.goals.UpdateNotes(goal.ID, strPtr("kept")); err != nil {
			errs <- err
		}
	}()
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatalf("concurrent mutation returned error: %v", err)
	}

	stored, err := env.goals.Get(goal.ID)
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if stored.IsCompleted {
		t.Fatal("an even number of toggles must leave the goal incomplete")
	}
	if stored.Notes == nil || *stored.Notes != "kept" {
		t.Fatalf("notes update was lost: %v", stored.Notes)
	}
}

func TestMoveIndex(t *testing.T) {
	ids := []string{"a", "b", "c", "d"}

	cases := []struct {
		from, to int
		want     []string
	}{
		{0, 3, []string{"b", "c", "d", "a"}},
		{3, 0, []string{"d", "a", "b", "c"}},
		{1, 2, []string{"a", "c", "b", "d"}},
		{2, 2, []string{"a", "b", "c", "d"}},
	}

	for _, tc := range cases {
		got, err := MoveIndex(ids, tc.from, tc.to)
		if err != nil {
			t.Fatalf("MoveIndex(%d, %d) returned error: %v", tc.from, tc.to, err)
		}
		if len(got) != len(tc.want) {
			t.Fatalf("unexpected length: %v", got)
		}
		for i := range got {
			if got[i] != tc.want[i] {
				t.Fatalf("MoveIndex(%d, %d) = %v, want %v", tc.from, tc.to, got, tc.want)
			}
		}
	}

	if ids[0] != "a" || ids[3] != "d" {
		t.Fatal("MoveIndex must not modify input")
	}

	if _, err := MoveIndex(ids, 4, 0); !errors.Is(err, ErrInvalidMove) {
		t.Fatalf("expected invalid move, got %v", err)
	}
	if _, err := MoveIndex(ids, 0, -1); !errors.Is(err, ErrInvalidMove) {
		t.Fatalf("expected invalid move, got %v", err)
	}
}

func TestGoalServiceMoveRenumbersBucket(t *testing.T) {
	env := newTestEnv(t, date(2026, 1, 7, 10, 0))

	var ids []string
	for _, title := range []string{"one", "two", "three", "four"} {
		ids = append(ids, env.mustCreateGoal(t, GoalInput{Title: title, Category: "Work"}).ID)
	}

	ordered, err := env.goals.Move(db.CategoryWork, ids, 0, 2)
	if err != nil {
		t.Fatalf("Move returned error: %v", err)
	}

	want := []string{ids[1], ids[2], ids[0], ids[3]}
	goals, err := env.goals.List(env.weeks.CurrentWeekStart())
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	for i, goal := range goals {
		if goal.ID != want[i] || ordered[i] != want[i] {
			t.Fatalf("position %d: expected %s, got %s", i, want[i], goal.ID)
		}
		if goal.SortOrder != i {
			t.Fatalf("expected contiguous sort order, got %d at %d", goal.SortOrder, i)
		}
	}
}

func TestGoalServiceReorderRejectsOtherCategory(t *testing.T) {
	env := newTestEnv(t, date(2026, 1, 7, 10, 0))

	work := env.mustCreateGoal(t, GoalInput{Title: "Ship", Category: "Work"})
	health := env.mustCreateGoal(t, GoalInput{Title: "Run", Category: "Health"})

	if err := env.goals.Reorder(db.CategoryWork, []string{health.ID, work.ID}); !errors.Is(err, ErrCategoryMismatch) {
		t.Fatalf("expected category mismatch, got %v", err)
	}
	if err := env.goals.Reorder(db.CategoryWork, []string{work.ID, "missing"}); !errors.Is(err, ErrGoalNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	stored, err := env.goals.Get(health.ID)
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if stored.SortOrder != 0 {
		t.Fatalf("failed reorder must not change sort order, got %d", stored.SortOrder)
	}
}

func TestGoalServiceReorderRejectsOtherWeek(t *testing.T) {
	env := newTestEnv(t, date(2026, 1, 7, 10, 0))

	lastWeek := date(2025, 12, 29, 0, 0)
	current := env.mustCreateGoal(t, GoalInput{Title: "Ship", Category: "Work"})
	old := env.mustCreateGoal(t, GoalInput{Title: "Draft", Category: "Work", WeekStart: &lastWeek})

	if err := env.goals.Reorder(db.CategoryWork, []string{old.ID, current.ID}); !errors.Is(err, ErrWeekMismatch) {
		t.Fatalf("expected week mismatch, got %v", err)
	}

	stored, err := env.goals.Get(current.ID)
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if stored.SortOrder != 0 {
		t.Fatalf("failed reorder must not change sort order, got %d", stored.SortOrder)
	}
}

func TestGoalServiceDelete(t *testing.T) {
	env := newTestEnv(t, date(2026, 1, 7, 10, 0))
	goal := env.mustCreateGoal(t, GoalInput{Title: "Ship", Category: "Work"})

	if err := env.goals.Delete(goal.ID); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if _, err := env.goals.Get(goal.ID); !errors.Is(err, ErrGoalNotFound) {
		t.Fatalf("expected not found after delete, got %v", err)
	}
	if err := env.goals.Delete(goal.ID); !errors.Is(err, ErrGoalNotFound) {
		t.Fatalf("expected not found on second delete, got %v", err)
	}
}

func TestGoalServiceDueDateClassification(t *testing.T) {
	env := newTestEnv(t, date(2026, 1, 7, 10, 0))

	today := date(2026, 1, 7, 0, 0)
	tomorrow := date(2026, 1, 8, 0, 0)
	yesterday := date(2026, 1, 6, 0, 0)
	lastWeekDay := date(2025, 12, 31, 0, 0)
	lastWeek := date(2025, 12, 29, 0, 0)

	dueToday := env.mustCreateGoal(t, GoalInput{Title: "today", Category: "Work", DueDate: &today})
	dueTomorrow := env.mustCreateGoal(t, GoalInput{Title: "tomorrow", Category: "Work", DueDate: &tomorrow})
	overdue := env.mustCreateGoal(t, GoalInput{Title: "yesterday", Category: "Work", DueDate: &yesterday})
	oldOverdue := env.mustCreateGoal(t, GoalInput{Title: "old", Category: "Work", DueDate: &lastWeekDay, WeekStart: &lastWeek})
	env.mustCreateGoal(t, GoalInput{Title: "no due", Category: "Work"})

	if !env.goals.IsDueToday(*dueToday) || env.goals.IsOverdue(*dueToday) {
		t.Fatal("expected due today, not overdue")
	}
	if !env.goals.IsDueTomorrow(*dueTomorrow) {
		t.Fatal("expected due tomorrow")
	}
	if !env.goals.IsOverdue(*overdue) {
		t.Fatal("expected overdue")
	}

	assertIDs(t, "due today", mustGoals(t)(env.goals.DueToday(nil)), dueToday.ID)
	assertIDs(t, "due tomorrow", mustGoals(t)(env.goals.DueTomorrow(nil)), dueTomorrow.ID)
	assertIDs(t, "overdue", mustGoals(t)(env.goals.Overdue(nil)), oldOverdue.ID, overdue.ID)

	week := env.weeks.CurrentWeekStart()
	assertIDs(t, "overdue this week", mustGoals(t)(env.goals.Overdue(&week)), overdue.ID)

	completed, err := env.goals.ToggleCompletion(overdue.ID)
	if err != nil {
		t.Fatalf("ToggleCompletion returned error: %v", err)
	}
	if env.goals.IsOverdue(*completed) {
		t.Fatal("completed goals are never overdue")
	}
	if _, err := env.goals.ToggleCompletion(dueToday.ID); err != nil {
		t.Fatalf("ToggleCompletion returned error: %v", err)
	}

	assertIDs(t, "overdue after completion", mustGoals(t)(env.goals.Overdue(&week)))
	assertIDs(t, "due today after completion", mustGoals(t)(env.goals.DueToday(nil)))
}

func TestGoalServiceWeekStats(t *testing.T) {
	env := newTestEnv(t, date(2026, 1, 7, 10, 0))

	ship := env.mustCreateGoal(t, GoalInput{Title: "Ship", Category: "Work"})
	env.mustCreateGoal(t, GoalInput{Title: "Review", Category: "Work"})
	run := env.mustCreateGoal(t, GoalInput{Title: "Run", Category: "Health"})

	for _, id := range []string{ship.ID, run.ID} {
		if _, err := env.goals.ToggleCompletion(id); err != nil {
			t.Fatalf("ToggleCompletion returned error: %v", err)
		}
	}

	stats, err := env.goals.WeekStats(env.weeks.CurrentWeekStart())
	if err != nil {
		t.Fatalf("WeekStats returned error: %v", err)
	}
	if stats.Total != 3 || stats.Completed != 2 || stats.Remaining() != 1 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
	if stats.ProgressPercent() != 66 {
		t.Fatalf("unexpected progress: %d", stats.ProgressPercent())
	}
	if got := stats.ByCategory[db.CategoryWork]; got.Total != 2 || got.Completed != 1 {
		t.Fatalf("unexpected work stats: %+v", got)
	}
	if got := stats.ByCategory[db.CategoryPersonal]; got.Total != 0 || got.Completed != 0 {
		t.Fatalf("unexpected personal stats: %+v", got)
	}
	if len(stats.ByCategory) != 3 {
		t.Fatalf("expected 3 categories, got %d", len(stats.ByCategory))
	}
}

func TestGoalServicePublishesChanges(t *testing.T) {
	env := newTestEnv(t, date(2026, 1, 7, 10, 0))
	changes, cancel := env.feed.Subscribe(8)
	defer cancel()

	goal := env.mustCreateGoal(t, GoalInput{Title: "Ship", Category: "Work"})
	if _, err := env.goals.ToggleCompletion(goal.ID); err != nil {
		t.Fatalf("ToggleCompletion returned error: %v", err)
	}
	if err := env.goals.Delete(goal.ID); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}

	want := []ChangeKind{ChangeGoalCreated, ChangeGoalUpdated, ChangeGoalDeleted}
	for _, kind := range want {
		select {
		case change := <-changes:
			if change.Kind != kind || change.ID != goal.ID {
				t.Fatalf("expected %s for %s, got %+v", kind, goal.ID, change)
			}
		default:
			t.Fatalf("expected %s change to be published", kind)
		}
	}
}

func mustGoals(t *testing.T) func([]db.Goal, error) []db.Goal {
	t.Helper()
	return func(goals []db.Goal, err error) []db.Goal {
		t.Helper()
		if err != nil {
			t.Fatalf("query returned error: %v", err)
		}
		return goals
	}
}

func assertIDs(t *testing.T, label string, goals []db.Goal, ids ...string) {
	t.Helper()
	if len(goals) != len(ids) {
		t.Fatalf("%s: expected %d goals, got %d", label, len(ids), len(goals))
	}
	for i, id := range ids {
		if goals[i].ID != id {
			t.Fatalf("%s: position %d expected %s, got %s (%s)", label, i, id, goals[i].ID, goals[i].Title)
		}
	}
}

func titleOf(goals []db.Goal, id string) string {
	for _, goal := range goals {
		if goal.ID == id {
			return goal.Title
		}
	}
	return ""
}
