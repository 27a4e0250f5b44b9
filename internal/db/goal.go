package db

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// Category 表示目标所属的分类，取值固定为 Work/Health/Personal。
type Category string

const (
	CategoryWork     Category = "Work"
	CategoryHealth   Category = "Health"
	CategoryPersonal Category = "Personal"
)

// Categories 按展示顺序列出全部分类。
var Categories = []Category{CategoryWork, CategoryHealth, CategoryPersonal}

// ParseCategory 解析外部传入的分类字符串，无法识别时回退为 Personal。
func ParseCategory(raw string) Category {
	trimmed := strings.TrimSpace(raw)
	for _, category := range Categories {
		if strings.EqualFold(trimmed, string(category)) {
			return category
		}
	}
	return CategoryPersonal
}

// Goal 定义了每周目标模型
// WeekStart 始终是所在周的周一零点，(week_start, category) 组成一个排序桶
// CompletedAt 仅在 IsCompleted 为真时有值；FocusDate 只在当天有效
// RolledOverFrom 指向结转来源目标的 ID，仅用于查询，不建立外键
type Goal struct {
	ID             string     `gorm:"primaryKey;size:36"`
	Title          string     `gorm:"not null"`
	Category       Category   `gorm:"size:20;not null;index:idx_goals_week_category,priority:2"`
	IsCompleted    bool       `gorm:"not null;default:false;index"`
	WeekStart      time.Time  `gorm:"not null;index:idx_goals_week_category,priority:1"`
	CreatedAt      time.Time  `gorm:"autoCreateTime:false"`
	CompletedAt    *time.Time `gorm:"index"`
	RolledOverFrom *string    `gorm:"size:36;index"`
	FocusDate      *time.Time `gorm:"column:focus_date"`
	Notes          *string    `gorm:"type:text"`
	SortOrder      int        `gorm:"not null;default:0"`
	DueDate        *time.Time `gorm:"index"`
}

// TableName 固定表名。
func (Goal) TableName() string {
	return "goals"
}

// BeforeSave 统一以 UTC 存储时间，保证 SQLite 中的字符串比较与时间先后一致。
func (g *Goal) BeforeSave(tx *gorm.DB) error {
	g.WeekStart = g.WeekStart.UTC()
	g.CreatedAt = g.CreatedAt.UTC()
	g.CompletedAt = utcPtr(g.CompletedAt)
	g.FocusDate = utcPtr(g.FocusDate)
	g.DueDate = utcPtr(g.DueDate)
	return nil
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := t.UTC()
	return &v
}
