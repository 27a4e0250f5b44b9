package service

import (
	"errors"
	"sort"
	"time"

	"github.com/goaltracker/internal/db"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ArchiveWeekGroup 为按周分组的归档结果，WeekStart 为空表示未知周。
type ArchiveWeekGroup struct {
	WeekStart *time.Time
	Goals     []db.ArchivedGoal
}

// ArchiveService 负责把已完成的目标转为不可变快照并删除原目标
type ArchiveService struct {
	db    *gorm.DB
	weeks *WeekService
	feed  *ChangeFeed
}

// NewArchiveService 构造 ArchiveService
func NewArchiveService(gdb *gorm.DB, weeks *WeekService, feed *ChangeFeed) *ArchiveService {
	return &ArchiveService{db: gdb, weeks: weeks, feed: feed}
}

// ArchiveCompletedBefore 归档 completedAt 早于 cutoff 的全部已完成目标，返回归档数量
// 整批在同一事务中执行，失败时整体回滚
func (s *ArchiveService) ArchiveCompletedBefore(cutoff time.Time) (int, error) {
	archivedAt := s.weeks.Now()
	count := 0

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var goals []db.Goal
		if err := tx.Where("is_completed = ? AND completed_at IS NOT NULL AND completed_at < ?", true, cutoff.UTC()).
			Order("completed_at ASC").
			Find(&goals).Error; err != nil {
			return err
		}
		if len(goals) == 0 {
			return nil
		}

		ids := make([]string, 0, len(goals))
		snapshots := make([]db.ArchivedGoal, 0, len(goals))
		for _, goal := range goals {
			snapshots = append(snapshots, snapshotGoal(goal, archivedAt))
			ids = append(ids, goal.ID)
		}

		if err := tx.Create(&snapshots).Error; err != nil {
			return err
		}
		if err := tx.Where("id IN ?", ids).Delete(&db.Goal{}).Error; err != nil {
			return err
		}
		count = len(snapshots)
		return nil
	})
	if err != nil {
		return 0, persistenceError("archive completed goals", err)
	}

	if count > 0 {
		s.publish("")
	}
	return count, nil
}

// ArchiveCompletedBeforeToday 以今天零点为界归档，今天完成的目标保留在当前视图中
func (s *ArchiveService) ArchiveCompletedBeforeToday() (int, error) {
	return s.ArchiveCompletedBefore(s.weeks.StartOfDay(s.weeks.Now()))
}

// List 返回全部归档记录，按完成时间倒序
func (s *ArchiveService) List() ([]db.ArchivedGoal, error) {
	var archived []db.ArchivedGoal
	if err := s.db.Order("completed_at DESC").Order("archived_at DESC").Find(&archived).Error; err != nil {
		return nil, persistenceError("list archived goals", err)
	}
	return archived, nil
}

// ListByWeek 按 weekStart 分组，周新的在前，未知周的分组排在最后
func (s *ArchiveService) ListByWeek() ([]ArchiveWeekGroup, error) {
	archived, err := s.List()
	if err != nil {
		return nil, err
	}

	index := make(map[string]int)
	groups := make([]ArchiveWeekGroup, 0)
	var unknown *ArchiveWeekGroup

	for _, goal := range archived {
		if goal.WeekStart == nil {
			if unknown == nil {
				unknown = &ArchiveWeekGroup{}
			}
			unknown.Goals = append(unknown.Goals, goal)
			continue
		}

		week := s.weeks.WeekStart(*goal.WeekStart)
		key := week.Format(WeekDateFormat)
		pos, ok := index[key]
		if !ok {
			pos = len(groups)
			index[key] = pos
			groups = append(groups, ArchiveWeekGroup{WeekStart: &week})
		}
		groups[pos].Goals = append(groups[pos].Goals, goal)
	}

	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].WeekStart.After(*groups[j].WeekStart)
	})
	if unknown != nil {
		groups = append(groups, *unknown)
	}
	return groups, nil
}

// Get 根据 ID 获取归档记录
func (s *ArchiveService) Get(id string) (*db.ArchivedGoal, error) {
	var archived db.ArchivedGoal
	if err := s.db.Where("id = ?", id).First(&archived).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrArchivedGoalNotFound
		}
		return nil, persistenceError("get archived goal", err)
	}
	return &archived, nil
}

// Delete 删除单条归档记录
func (s *ArchiveService) Delete(id string) error {
	result := s.db.Where("id = ?", id).Delete(&db.ArchivedGoal{})
	if result.Error != nil {
		return persistenceError("delete archived goal", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrArchivedGoalNotFound
	}

	s.publish(id)
	return nil
}

// ClearAll 清空全部归档记录，返回删除数量
func (s *ArchiveService) ClearAll() (int64, error) {
	result := s.db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&db.ArchivedGoal{})
	if result.Error != nil {
		return 0, persistenceError("clear archived goals", result.Error)
	}

	if result.RowsAffected > 0 {
		s.publish("")
	}
	return result.RowsAffected, nil
}

func (s *ArchiveService) publish(id string) {
	s.feed.Publish(Change{Kind: ChangeArchiveUpdated, ID: id, At: s.weeks.Now()})
}

func snapshotGoal(goal db.Goal, archivedAt time.Time) db.ArchivedGoal {
	weekStart := goal.WeekStart
	return db.ArchivedGoal{
		ID:             uuid.New().String(),
		OriginalGoalID: goal.ID,
		Title:          goal.Title,
		Category:       goal.Category,
		Notes:          goal.Notes,
		WeekStart:      &weekStart,
		CreatedAt:      goal.CreatedAt,
		CompletedAt:    goal.CompletedAt,
		DueDate:        goal.DueDate,
		ArchivedAt:     archivedAt,
	}
}
