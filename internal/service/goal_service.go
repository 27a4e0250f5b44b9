package service

import (
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/goaltracker/internal/db"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GoalService 负责每周目标的增删改查、排序、今日聚焦与到期查询
// 每个写操作在返回前完成持久化，成功后向 ChangeFeed 广播
type GoalService struct {
	db    *gorm.DB
	weeks *WeekService
	feed  *ChangeFeed
}

// GoalInput 定义创建目标时可配置的字段
// Category 接受任意字符串，无法识别时归入 Personal；WeekStart 为空时使用本周
type GoalInput struct {
	Title     string
	Category  string
	WeekStart *time.Time
	Notes     *string
	DueDate   *time.Time
}

// CategoryStats 为单个分类的目标统计。
type CategoryStats struct {
	Total     int
	Completed int
}

// WeekStats 汇总某周目标的完成情况。
type WeekStats struct {
	WeekStart  time.Time
	Total      int
	Completed  int
	ByCategory map[db.Category]CategoryStats
}

// Remaining 返回未完成数量。
func (s WeekStats) Remaining() int {
	return s.Total - s.Completed
}

// ProgressPercent 返回取整后的完成百分比，无目标时为 0。
func (s WeekStats) ProgressPercent() int {
	if s.Total == 0 {
		return 0
	}
	return int(float64(s.Completed) / float64(s.Total) * 100)
}

// NewGoalService 构造 GoalService
func NewGoalService(gdb *gorm.DB, weeks *WeekService, feed *ChangeFeed) *GoalService {
	return &GoalService{db: gdb, weeks: weeks, feed: feed}
}

// Weeks 暴露周计算服务，供上层共享同一时钟。
func (s *GoalService) Weeks() *WeekService {
	return s.weeks
}

// Create 新建目标，sortOrder 取同周同分类中的最大值加一
func (s *GoalService) Create(input GoalInput) (*db.Goal, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, ErrGoalTitleRequired
	}

	category := db.ParseCategory(input.Category)
	weekStart := s.weeks.CurrentWeekStart()
	if input.WeekStart != nil {
		weekStart = s.weeks.WeekStart(*input.WeekStart)
	}

	goal := db.Goal{
		ID:          uuid.New().String(),
		Title:       title,
		Category:    category,
		IsCompleted: false,
		WeekStart:   weekStart,
		CreatedAt:   s.weeks.Now(),
		Notes:       normalizeNotes(input.Notes),
		DueDate:     s.normalizeDueDate(input.DueDate),
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		next, err := nextSortOrder(tx, weekStart, category)
		if err != nil {
			return err
		}
		goal.SortOrder = next
		return tx.Create(&goal).Error
	})
	if err != nil {
		return nil, persistenceError("create goal", err)
	}

	s.publish(ChangeGoalCreated, goal.ID)
	return &goal, nil
}

// Get 根据 ID 获取目标
func (s *GoalService) Get(id string) (*db.Goal, error) {
	return findGoal(s.db, id)
}

// List 返回某周全部目标，按 (category, sort_order, created_at) 升序
func (s *GoalService) List(weekStart time.Time) ([]db.Goal, error) {
	var goals []db.Goal
	if err := s.db.Where("week_start = ?", s.weeks.WeekStart(weekStart).UTC()).
		Order("category ASC, sort_order ASC, created_at ASC").
		Find(&goals).Error; err != nil {
		return nil, persistenceError("list goals", err)
	}
	return goals, nil
}

// ListByCategory 按分类拆分 List 的结果，三个分类始终存在
func (s *GoalService) ListByCategory(weekStart time.Time) (map[db.Category][]db.Goal, error) {
	goals, err := s.List(weekStart)
	if err != nil {
		return nil, err
	}

	grouped := make(map[db.Category][]db.Goal, len(db.Categories))
	for _, category := range db.Categories {
		grouped[category] = []db.Goal{}
	}
	for _, goal := range goals {
		category := db.ParseCategory(string(goal.Category))
		grouped[category] = append(grouped[category], goal)
	}
	return grouped, nil
}

// ToggleCompletion 切换完成状态；完成时记录完成时间并清除今日聚焦，取消完成时清除完成时间
func (s *GoalService) ToggleCompletion(id string) (*db.Goal, error) {
	return s.mutate(id, "toggle goal completion", func(goal *db.Goal) {
		goal.IsCompleted = !goal.IsCompleted
		if goal.IsCompleted {
			now := s.weeks.Now()
			goal.CompletedAt = &now
			goal.FocusDate = nil
		} else {
			goal.CompletedAt = nil
		}
	})
}

// GoalPatch 描述一次目标编辑，nil 字段保持不变
// Notes 为空字符串表示清除；DueDateSet 为 true 时用 DueDate 覆盖（nil 表示清除）
type GoalPatch struct {
	Title      *string
	Notes      *string
	DueDate    *time.Time
	DueDateSet bool
}

// Update 先校验全部字段，再在同一事务中应用修改
func (s *GoalService) Update(id string, patch GoalPatch) (*db.Goal, error) {
	var title string
	if patch.Title != nil {
		title = strings.TrimSpace(*patch.Title)
		if title == "" {
			return nil, ErrGoalTitleRequired
		}
	}
	return s.mutate(id, "update goal", func(goal *db.Goal) {
		if patch.Title != nil {
			goal.Title = title
		}
		if patch.Notes != nil {
			goal.Notes = normalizeNotes(patch.Notes)
		}
		if patch.DueDateSet {
			goal.DueDate = s.normalizeDueDate(patch.DueDate)
		}
	})
}

// UpdateTitle 更新标题
func (s *GoalService) UpdateTitle(id, title string) (*db.Goal, error) {
	return s.Update(id, GoalPatch{Title: &title})
}

// UpdateNotes 更新备注，空字符串归一化为无备注
func (s *GoalService) UpdateNotes(id string, notes *string) (*db.Goal, error) {
	if notes == nil {
		notes = new(string)
	}
	return s.Update(id, GoalPatch{Notes: notes})
}

// UpdateDueDate 更新或清除截止日期
func (s *GoalService) UpdateDueDate(id string, dueDate *time.Time) (*db.Goal, error) {
	return s.Update(id, GoalPatch{DueDate: dueDate, DueDateSet: true})
}

// ToggleFocusToday 今日未聚焦则标记为今日聚焦，否则清除
func (s *GoalService) ToggleFocusToday(id string) (*db.Goal, error) {
	return s.mutate(id, "toggle goal focus", func(goal *db.Goal) {
		if s.IsFocusedToday(*goal) {
			goal.FocusDate = nil
			return
		}
		now := s.weeks.Now()
		goal.FocusDate = &now
	})
}

// Reorder 按 ids 顺序把 sortOrder 重排为 0..n-1，ids 必须属于同一周的同一分类
func (s *GoalService) Reorder(category db.Category, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var goals []db.Goal
		if err := tx.Where("id IN ?", ids).Find(&goals).Error; err != nil {
			return persistenceError("load goals for reorder", err)
		}
		if len(goals) != len(uniqueStrings(ids)) {
			return ErrGoalNotFound
		}
		for _, goal := range goals {
			if goal.Category != category {
				return ErrCategoryMismatch
			}
			if !goal.WeekStart.Equal(goals[0].WeekStart) {
				return ErrWeekMismatch
			}
		}

		for index, id := range ids {
			if err := tx.Model(&db.Goal{}).Where("id = ?", id).Update("sort_order", index).Error; err != nil {
				return persistenceError("reorder goals", err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.publish(ChangeGoalReordered, string(category))
	return nil
}

// Move 将 from 位置的目标移动到 to 位置（移除后插入），然后对整个列表重新编号
func (s *GoalService) Move(category db.Category, ids []string, from, to int) ([]string, error) {
	ordered, err := MoveIndex(ids, from, to)
	if err != nil {
		return nil, err
	}
	if err := s.Reorder(category, ordered); err != nil {
		return nil, err
	}
	return ordered, nil
}

// MoveIndex 返回把 from 位置元素移动到 to 位置后的新序列，不修改入参。
func MoveIndex(ids []string, from, to int) ([]string, error) {
	if from < 0 || from >= len(ids) || to < 0 || to >= len(ids) {
		return nil, ErrInvalidMove
	}

	moved := ids[from]
	rest := make([]string, 0, len(ids))
	rest = append(rest, ids[:from]...)
	rest = append(rest, ids[from+1:]...)

	result := make([]string, 0, len(ids))
	result = append(result, rest[:to]...)
	result = append(result, moved)
	result = append(result, rest[to:]...)
	return result, nil
}

// Delete 硬删除目标
func (s *GoalService) Delete(id string) error {
	result := s.db.Where("id = ?", id).Delete(&db.Goal{})
	if result.Error != nil {
		return persistenceError("delete goal", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrGoalNotFound
	}

	s.publish(ChangeGoalDeleted, id)
	return nil
}

// DueToday 返回今天到期且未完成的目标，weekStart 为空时不限周
func (s *GoalService) DueToday(weekStart *time.Time) ([]db.Goal, error) {
	today := s.weeks.StartOfDay(s.weeks.Now())
	return s.incompleteBetween("due_date", weekStart, &today, ptrTime(today.AddDate(0, 0, 1)))
}

// DueTomorrow 返回明天到期且未完成的目标
func (s *GoalService) DueTomorrow(weekStart *time.Time) ([]db.Goal, error) {
	tomorrow := s.weeks.StartOfDay(s.weeks.Now()).AddDate(0, 0, 1)
	return s.incompleteBetween("due_date", weekStart, &tomorrow, ptrTime(tomorrow.AddDate(0, 0, 1)))
}

// Overdue 返回截止日期早于今天且未完成的目标
func (s *GoalService) Overdue(weekStart *time.Time) ([]db.Goal, error) {
	today := s.weeks.StartOfDay(s.weeks.Now())
	return s.incompleteBetween("due_date", weekStart, nil, &today)
}

// TodaysFocused 返回今日聚焦且未完成的目标
func (s *GoalService) TodaysFocused(weekStart *time.Time) ([]db.Goal, error) {
	today := s.weeks.StartOfDay(s.weeks.Now())
	return s.incompleteBetween("focus_date", weekStart, &today, ptrTime(today.AddDate(0, 0, 1)))
}

// WeekStats 汇总某周的总数、完成数与分类统计
func (s *GoalService) WeekStats(weekStart time.Time) (WeekStats, error) {
	goals, err := s.List(weekStart)
	if err != nil {
		return WeekStats{}, err
	}

	stats := WeekStats{
		WeekStart:  s.weeks.WeekStart(weekStart),
		ByCategory: make(map[db.Category]CategoryStats, len(db.Categories)),
	}
	for _, category := range db.Categories {
		stats.ByCategory[category] = CategoryStats{}
	}

	for _, goal := range goals {
		category := db.ParseCategory(string(goal.Category))
		entry := stats.ByCategory[category]
		entry.Total++
		stats.Total++
		if goal.IsCompleted {
			entry.Completed++
			stats.Completed++
		}
		stats.ByCategory[category] = entry
	}

	return stats, nil
}

// IsFocusedToday 聚焦日期存在且与今天同一天才算今日聚焦，过期标记不会被主动清除。
func (s *GoalService) IsFocusedToday(goal db.Goal) bool {
	return goal.FocusDate != nil && s.weeks.IsToday(*goal.FocusDate)
}

// IsDueToday 截止日期是否为今天。
func (s *GoalService) IsDueToday(goal db.Goal) bool {
	return goal.DueDate != nil && s.weeks.IsToday(*goal.DueDate)
}

// IsDueTomorrow 截止日期是否为明天。
func (s *GoalService) IsDueTomorrow(goal db.Goal) bool {
	if goal.DueDate == nil {
		return false
	}
	tomorrow := s.weeks.StartOfDay(s.weeks.Now()).AddDate(0, 0, 1)
	return s.weeks.IsSameDay(*goal.DueDate, tomorrow)
}

// IsOverdue 已完成的目标永远不算逾期。
func (s *GoalService) IsOverdue(goal db.Goal) bool {
	if goal.IsCompleted || goal.DueDate == nil {
		return false
	}
	return s.weeks.StartOfDay(*goal.DueDate).Before(s.weeks.StartOfDay(s.weeks.Now()))
}

func (s *GoalService) mutate(id, op string, apply func(goal *db.Goal)) (*db.Goal, error) {
	var goal *db.Goal
	err := s.db.Transaction(func(tx *gorm.DB) error {
		found, err := findGoal(tx, id)
		if err != nil {
			return err
		}
		apply(found)
		if err := tx.Save(found).Error; err != nil {
			return persistenceError(op, err)
		}
		goal = found
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ChangeGoalUpdated, goal.ID)
	return goal, nil
}

func (s *GoalService) incompleteBetween(column string, weekStart, from, to *time.Time) ([]db.Goal, error) {
	query := s.db.Model(&db.Goal{}).
		Where("is_completed = ?", false).
		Where(column + " IS NOT NULL")

	if weekStart != nil {
		query = query.Where("week_start = ?", s.weeks.WeekStart(*weekStart).UTC())
	}
	if from != nil {
		query = query.Where(column+" >= ?", from.UTC())
	}
	if to != nil {
		query = query.Where(column+" < ?", to.UTC())
	}

	var goals []db.Goal
	if err := query.Order(column + " ASC, created_at ASC").Find(&goals).Error; err != nil {
		return nil, persistenceError("query goals by "+column, err)
	}
	return goals, nil
}

func (s *GoalService) normalizeDueDate(dueDate *time.Time) *time.Time {
	if dueDate == nil || dueDate.IsZero() {
		return nil
	}
	day := s.weeks.StartOfDay(*dueDate)
	return &day
}

func (s *GoalService) publish(kind ChangeKind, id string) {
	s.feed.Publish(Change{Kind: kind, ID: id, At: s.weeks.Now()})
}

func findGoal(tx *gorm.DB, id string) (*db.Goal, error) {
	var goal db.Goal
	if err := tx.Where("id = ?", id).First(&goal).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGoalNotFound
		}
		return nil, persistenceError("get goal", err)
	}
	return &goal, nil
}

func nextSortOrder(tx *gorm.DB, weekStart time.Time, category db.Category) (int, error) {
	var maxOrder sql.NullInt64
	if err := tx.Model(&db.Goal{}).
		Select("MAX(sort_order)").
		Where("week_start = ? AND category = ?", weekStart.UTC(), category).
		Row().Scan(&maxOrder); err != nil {
		return 0, err
	}
	if !maxOrder.Valid {
		return 0, nil
	}
	return int(maxOrder.Int64) + 1, nil
}

func normalizeNotes(notes *string) *string {
	if notes == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*notes)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func uniqueStrings(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	result := make([]string, 0, len(values))
	for _, value := range values {
		if _, ok := seen[value]; ok {
			continue
		}
		seen[value] = struct{}{}
		result = append(result, value)
	}
	return result
}

func ptrTime(t time.Time) *time.Time {
	return &t
}
