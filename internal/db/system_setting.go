package db

import "gorm.io/gorm"

// SystemSetting 存储应用偏好设置的键值对。
type SystemSetting struct {
	gorm.Model
	Key   string `gorm:"size:100;uniqueIndex;not null"`
	Value string `gorm:"type:text"`
}

// TableName 自定义表名以保持命名一致。
func (SystemSetting) TableName() string {
	return "system_settings"
}

const (
	// SettingKeyLastLaunchWeekStart 记录上一次启动时所在周的周一。
	SettingKeyLastLaunchWeekStart = "last_launch_week_start"
	// SettingKeyLastArchiveRunAt 记录最近一次归档任务的执行时间。
	SettingKeyLastArchiveRunAt = "last_archive_run_at"
)
