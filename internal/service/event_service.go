package service

import (
	"errors"
	"strings"
	"time"

	"github.com/goaltracker/internal/db"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// EventInput 定义日历事件的可编辑字段
type EventInput struct {
	Title    string
	StartAt  time.Time
	EndAt    time.Time
	AllDay   bool
	Location *string
	Notes    *string
}

// EventService 管理本地日历事件，提醒模块只读取它
type EventService struct {
	db    *gorm.DB
	weeks *WeekService
	feed  *ChangeFeed
}

// NewEventService 构造 EventService
func NewEventService(gdb *gorm.DB, weeks *WeekService, feed *ChangeFeed) *EventService {
	return &EventService{db: gdb, weeks: weeks, feed: feed}
}

// FetchEvents 返回与 [from, to) 有交集的事件，按开始时间升序
func (s *EventService) FetchEvents(from, to time.Time) ([]db.CalendarEvent, error) {
	var events []db.CalendarEvent
	if err := s.db.Where("start_at < ? AND end_at > ?", to.UTC(), from.UTC()).
		Order("start_at ASC, title ASC").
		Find(&events).Error; err != nil {
		return nil, persistenceError("fetch events", err)
	}
	return events, nil
}

// FetchEventsForWeek 返回某周内的事件
func (s *EventService) FetchEventsForWeek(weekStart time.Time) ([]db.CalendarEvent, error) {
	start := s.weeks.WeekStart(weekStart)
	end := s.weeks.WeekEnd(weekStart).Add(time.Second)
	return s.FetchEvents(start, end)
}

// Get 根据 ID 获取事件
func (s *EventService) Get(id string) (*db.CalendarEvent, error) {
	var event db.CalendarEvent
	if err := s.db.Where("id = ?", id).First(&event).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, persistenceError("get event", err)
	}
	return &event, nil
}

// Create 新建事件
func (s *EventService) Create(input EventInput) (*db.CalendarEvent, error) {
	normalized, err := s.normalize(input)
	if err != nil {
		return nil, err
	}

	now := s.weeks.Now()
	event := db.CalendarEvent{
		ID:        uuid.New().String(),
		Title:     normalized.Title,
		StartAt:   normalized.StartAt,
		EndAt:     normalized.EndAt,
		AllDay:    normalized.AllDay,
		Location:  normalized.Location,
		Notes:     normalized.Notes,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.db.Create(&event).Error; err != nil {
		return nil, persistenceError("create event", err)
	}

	s.publish(event.ID)
	return &event, nil
}

// Update 整体替换事件的可编辑字段
func (s *EventService) Update(id string, input EventInput) (*db.CalendarEvent, error) {
	normalized, err := s.normalize(input)
	if err != nil {
		return nil, err
	}

	event, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	event.Title = normalized.Title
	event.StartAt = normalized.StartAt
	event.EndAt = normalized.EndAt
	event.AllDay = normalized.AllDay
	event.Location = normalized.Location
	event.Notes = normalized.Notes
	event.UpdatedAt = s.weeks.Now()

	if err := s.db.Save(event).Error; err != nil {
		return nil, persistenceError("update event", err)
	}

	s.publish(event.ID)
	return event, nil
}

// Delete 删除事件
func (s *EventService) Delete(id string) error {
	result := s.db.Where("id = ?", id).Delete(&db.CalendarEvent{})
	if result.Error != nil {
		return persistenceError("delete event", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrEventNotFound
	}

	s.publish(id)
	return nil
}

func (s *EventService) normalize(input EventInput) (EventInput, error) {
	input.Title = strings.TrimSpace(input.Title)
	if input.Title == "" {
		return input, ErrEventTitleRequired
	}

	if input.StartAt.IsZero() || (!input.EndAt.IsZero() && input.EndAt.Before(input.StartAt)) {
		return input, ErrEventInvalidRange
	}

	// 全天事件覆盖起止日期的完整日历日，EndAt 为次日零点
	if input.AllDay {
		end := input.EndAt
		if end.IsZero() {
			end = input.StartAt
		}
		input.StartAt = s.weeks.StartOfDay(input.StartAt)
		input.EndAt = s.weeks.StartOfDay(end).AddDate(0, 0, 1)
	} else if input.EndAt.IsZero() {
		input.EndAt = input.StartAt
	}

	input.Location = normalizeNotes(input.Location)
	input.Notes = normalizeNotes(input.Notes)
	return input, nil
}

func (s *EventService) publish(id string) {
	s.feed.Publish(Change{Kind: ChangeEventUpdated, ID: id, At: s.weeks.Now()})
}
