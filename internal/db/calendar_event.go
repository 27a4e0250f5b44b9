package db

import (
	"time"

	"gorm.io/gorm"
)

// CalendarEvent 为本地日历事件，提醒模块据此生成日程摘要与事件前提醒。
type CalendarEvent struct {
	ID        string    `gorm:"primaryKey;size:36"`
	Title     string    `gorm:"not null"`
	StartAt   time.Time `gorm:"not null;index"`
	EndAt     time.Time `gorm:"not null;index"`
	AllDay    bool      `gorm:"not null;default:false"`
	Location  *string   `gorm:"size:255"`
	Notes     *string   `gorm:"type:text"`
	CreatedAt time.Time `gorm:"autoCreateTime:false"`
	UpdatedAt time.Time `gorm:"autoUpdateTime:false"`
}

// TableName 固定表名。
func (CalendarEvent) TableName() string {
	return "calendar_events"
}

// BeforeSave 统一以 UTC 存储时间。
func (e *CalendarEvent) BeforeSave(tx *gorm.DB) error {
	e.StartAt = e.StartAt.UTC()
	e.EndAt = e.EndAt.UTC()
	e.CreatedAt = e.CreatedAt.UTC()
	e.UpdatedAt = e.UpdatedAt.UTC()
	return nil
}
