package db

import (
	"time"

	"gorm.io/gorm"
)

// ArchivedGoal 是已完成目标在归档时刻的只读快照，原目标随之删除。
type ArchivedGoal struct {
	ID             string     `gorm:"primaryKey;size:36"`
	OriginalGoalID string     `gorm:"size:36;index"`
	Title          string     `gorm:"not null"`
	Category       Category   `gorm:"size:20;not null"`
	Notes          *string    `gorm:"type:text"`
	WeekStart      *time.Time `gorm:"index"`
	CreatedAt      time.Time  `gorm:"autoCreateTime:false"`
	CompletedAt    *time.Time `gorm:"index"`
	DueDate        *time.Time `gorm:"column:due_date"`
	ArchivedAt     time.Time  `gorm:"not null"`
}

// TableName 固定表名。
func (ArchivedGoal) TableName() string {
	return "archived_goals"
}

// BeforeSave 统一以 UTC 存储时间。
func (a *ArchivedGoal) BeforeSave(tx *gorm.DB) error {
	a.WeekStart = utcPtr(a.WeekStart)
	a.CreatedAt = a.CreatedAt.UTC()
	a.CompletedAt = utcPtr(a.CompletedAt)
	a.DueDate = utcPtr(a.DueDate)
	a.ArchivedAt = a.ArchivedAt.UTC()
	return nil
}

// HasNotes 判断快照是否带有备注。
func (a ArchivedGoal) HasNotes() bool {
	return a.Notes != nil && *a.Notes != ""
}
