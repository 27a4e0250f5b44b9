package db

import (
	"time"

	"gorm.io/gorm"
)

// WeeklyRecap 记录每周复盘，每个 WeekStart 至多一条（由查找或创建逻辑保证）。
type WeeklyRecap struct {
	ID            string    `gorm:"primaryKey;size:36"`
	WeekStart     time.Time `gorm:"not null;index"`
	Overview      string    `gorm:"type:text"`
	Wins          string    `gorm:"type:text"`
	Challenges    string    `gorm:"type:text"`
	GratefulFor   string    `gorm:"type:text"`
	SongOfWeek    string    `gorm:"type:text"`
	Lessons       string    `gorm:"type:text"`
	NextWeekFocus string    `gorm:"type:text"`
	CreatedAt     time.Time `gorm:"autoCreateTime:false"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime:false"`
}

// TableName 固定表名。
func (WeeklyRecap) TableName() string {
	return "weekly_recaps"
}

// BeforeSave 统一以 UTC 存储时间。
func (r *WeeklyRecap) BeforeSave(tx *gorm.DB) error {
	r.WeekStart = r.WeekStart.UTC()
	r.CreatedAt = r.CreatedAt.UTC()
	r.UpdatedAt = r.UpdatedAt.UTC()
	return nil
}

// HasContent 判断复盘是否至少填写了一项。
func (r WeeklyRecap) HasContent() bool {
	for _, field := range []string{r.Overview, r.Wins, r.Challenges, r.GratefulFor, r.SongOfWeek, r.Lessons, r.NextWeekFocus} {
		if field != "" {
			return true
		}
	}
	return false
}
