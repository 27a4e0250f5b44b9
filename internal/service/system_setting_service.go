package service

import (
	"errors"
	"strings"
	"time"

	"github.com/goaltracker/internal/db"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SystemSettingService 读写应用偏好，目前用于记录上次启动周与归档时间。
type SystemSettingService struct {
	db    *gorm.DB
	weeks *WeekService
}

// NewSystemSettingService 构造 SystemSettingService。
func NewSystemSettingService(gdb *gorm.DB, weeks *WeekService) *SystemSettingService {
	return &SystemSettingService{db: gdb, weeks: weeks}
}

// GetLastLaunchWeek 读取上次启动所在周，首次启动时返回 nil。
func (s *SystemSettingService) GetLastLaunchWeek() (*time.Time, error) {
	value, ok, err := s.get(db.SettingKeyLastLaunchWeekStart)
	if err != nil || !ok {
		return nil, err
	}

	week, err := s.weeks.ParseWeek(value)
	if err != nil {
		// 无法解析的旧值视为首次启动
		return nil, nil
	}
	return &week, nil
}

// SetLastLaunchWeek 记录启动周（归一化到周一）。
func (s *SystemSettingService) SetLastLaunchWeek(week time.Time) error {
	value := s.weeks.WeekStart(week).Format(WeekDateFormat)
	return s.upsert(db.SettingKeyLastLaunchWeekStart, value)
}

// GetLastArchiveRun 读取最近一次归档执行时间。
func (s *SystemSettingService) GetLastArchiveRun() (*time.Time, error) {
	value, ok, err := s.get(db.SettingKeyLastArchiveRunAt)
	if err != nil || !ok {
		return nil, err
	}

	at, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return nil, nil
	}
	at = at.In(s.weeks.Location())
	return &at, nil
}

// SetLastArchiveRun 记录归档执行时间。
func (s *SystemSettingService) SetLastArchiveRun(at time.Time) error {
	return s.upsert(db.SettingKeyLastArchiveRunAt, at.UTC().Format(time.RFC3339))
}

func (s *SystemSettingService) get(key string) (string, bool, error) {
	var setting db.SystemSetting
	if err := s.db.Where("key = ?", key).First(&setting).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", false, nil
		}
		return "", false, persistenceError("load setting "+key, err)
	}

	value := strings.TrimSpace(setting.Value)
	if value == "" {
		return "", false, nil
	}
	return value, true, nil
}

func (s *SystemSettingService) upsert(key, value string) error {
	setting := db.SystemSetting{Key: key, Value: value}
	if err := s.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "key"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"value":      value,
			"updated_at": gorm.Expr("CURRENT_TIMESTAMP"),
		}),
	}).Create(&setting).Error; err != nil {
		return persistenceError("upsert setting "+key, err)
	}
	return nil
}
