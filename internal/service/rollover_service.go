package service

import (
	"time"

	"github.com/goaltracker/internal/db"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RolloverResult 描述一次结转的结果。
type RolloverResult struct {
	Performed bool
	FromWeek  time.Time
	ToWeek    time.Time
	Copied    []db.Goal
}

// RolloverService 在跨周后把上一周未完成的目标复制到本周
// 复制是追加，不会修改或删除来源目标
type RolloverService struct {
	db    *gorm.DB
	weeks *WeekService
	feed  *ChangeFeed
}

// NewRolloverService 构造 RolloverService
func NewRolloverService(gdb *gorm.DB, weeks *WeekService, feed *ChangeFeed) *RolloverService {
	return &RolloverService{db: gdb, weeks: weeks, feed: feed}
}

// Run 根据上次启动所在周决定是否结转
// 调用方需在之后写入新的启动周，以保证同一周内重复启动不会再次结转
func (s *RolloverService) Run(lastLaunchWeek *time.Time) (RolloverResult, error) {
	now := s.weeks.Now()
	result := RolloverResult{
		FromWeek: s.weeks.PreviousWeekStart(now),
		ToWeek:   s.weeks.CurrentWeekStart(),
	}

	if !s.weeks.ShouldPerformRollover(lastLaunchWeek) {
		return result, nil
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var sources []db.Goal
		if err := tx.Where("week_start = ? AND is_completed = ?", result.FromWeek.UTC(), false).
			Order("category ASC, sort_order ASC, created_at ASC").
			Find(&sources).Error; err != nil {
			return err
		}

		copies := make([]db.Goal, 0, len(sources))
		for _, source := range sources {
			sourceID := source.ID
			copies = append(copies, db.Goal{
				ID:             uuid.New().String(),
				Title:          source.Title,
				Category:       source.Category,
				IsCompleted:    false,
				WeekStart:      result.ToWeek,
				CreatedAt:      now,
				RolledOverFrom: &sourceID,
				Notes:          source.Notes,
				SortOrder:      source.SortOrder,
				DueDate:        source.DueDate,
			})
		}

		if len(copies) > 0 {
			if err := tx.Create(&copies).Error; err != nil {
				return err
			}
		}
		result.Copied = copies
		return nil
	})
	if err != nil {
		return RolloverResult{}, persistenceError("rollover goals", err)
	}

	result.Performed = true
	s.feed.Publish(Change{Kind: ChangeRolloverCompleted, At: now})
	return result, nil
}
