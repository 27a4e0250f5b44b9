package service

import (
	"fmt"
	"strings"
	"time"
)

// WeekDateFormat 为周、日期参数的统一格式。
const WeekDateFormat = "2006-01-02"

// WeekService 负责以周一为一周起点的日期计算
// 所有“当前”判断都基于注入的 Clock，不保存其他状态
type WeekService struct {
	clock    Clock
	location *time.Location
}

// NewWeekService 构造 WeekService，location 为空时使用本地时区。
func NewWeekService(clock Clock, location *time.Location) *WeekService {
	if clock == nil {
		clock = SystemClock{Location: location}
	}
	if location == nil {
		location = time.Local
	}
	return &WeekService{clock: clock, location: location}
}

// Now 返回当前时间（已转换到周计算所用时区）。
func (s *WeekService) Now() time.Time {
	return s.clock.Now().In(s.location)
}

// Location 返回周计算所用时区。
func (s *WeekService) Location() *time.Location {
	return s.location
}

// WeekStart 返回 date 所在周的周一 00:00。
func (s *WeekService) WeekStart(date time.Time) time.Time {
	t := date.In(s.location)
	offset := (int(t.Weekday()) + 6) % 7
	year, month, day := t.Date()
	return time.Date(year, month, day-offset, 0, 0, 0, 0, s.location)
}

// CurrentWeekStart 返回本周周一。
func (s *WeekService) CurrentWeekStart() time.Time {
	return s.WeekStart(s.Now())
}

// WeekEnd 返回 date 所在周第 7 天的 23:59:59。
func (s *WeekService) WeekEnd(date time.Time) time.Time {
	year, month, day := s.WeekStart(date).Date()
	return time.Date(year, month, day+6, 23, 59, 59, 0, s.location)
}

// PreviousWeekStart 返回上一周的周一。
func (s *WeekService) PreviousWeekStart(date time.Time) time.Time {
	return s.WeekStart(date).AddDate(0, 0, -7)
}

// NextWeekStart 返回下一周的周一。
func (s *WeekService) NextWeekStart(date time.Time) time.Time {
	return s.WeekStart(date).AddDate(0, 0, 7)
}

// DaysOfWeek 返回该周连续 7 天的零点，周一在前。
func (s *WeekService) DaysOfWeek(date time.Time) []time.Time {
	start := s.WeekStart(date)
	days := make([]time.Time, 0, 7)
	for i := 0; i < 7; i++ {
		days = append(days, start.AddDate(0, 0, i))
	}
	return days
}

// IsCurrentWeek 判断 date 是否落在本周。
func (s *WeekService) IsCurrentWeek(date time.Time) bool {
	return s.WeekStart(date).Equal(s.CurrentWeekStart())
}

// IsPastWeek 判断 date 所在周是否早于本周。
func (s *WeekService) IsPastWeek(date time.Time) bool {
	return s.WeekStart(date).Before(s.CurrentWeekStart())
}

// ShouldPerformRollover 仅在上次启动周存在且早于本周时返回 true。
// 首次启动（nil）不会凭空触发结转。
func (s *WeekService) ShouldPerformRollover(lastLaunchWeek *time.Time) bool {
	if lastLaunchWeek == nil {
		return false
	}
	return s.WeekStart(*lastLaunchWeek).Before(s.CurrentWeekStart())
}

// StartOfDay 返回 date 当天零点。
func (s *WeekService) StartOfDay(date time.Time) time.Time {
	t := date.In(s.location)
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, s.location)
}

// IsSameDay 按日历日比较两个时间。
func (s *WeekService) IsSameDay(a, b time.Time) bool {
	return s.StartOfDay(a).Equal(s.StartOfDay(b))
}

// IsToday 判断 date 是否是今天。
func (s *WeekService) IsToday(date time.Time) bool {
	return s.IsSameDay(date, s.Now())
}

// FormatWeekRange 输出形如 "Jan 5 - 11, 2026" 的周区间，跨月、跨年时补全月份与年份。
func (s *WeekService) FormatWeekRange(date time.Time) string {
	start := s.WeekStart(date)
	end := s.WeekEnd(date)

	switch {
	case start.Year() != end.Year():
		return fmt.Sprintf("%s - %s", start.Format("Jan 2, 2006"), end.Format("Jan 2, 2006"))
	case start.Month() != end.Month():
		return fmt.Sprintf("%s - %s", start.Format("Jan 2"), end.Format("Jan 2, 2006"))
	default:
		return fmt.Sprintf("%s - %s", start.Format("Jan 2"), end.Format("2, 2006"))
	}
}

// ParseWeek 解析 YYYY-MM-DD，并归一化到所在周的周一；空字符串表示本周。
func (s *WeekService) ParseWeek(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return s.CurrentWeekStart(), nil
	}

	date, err := time.ParseInLocation(WeekDateFormat, raw, s.location)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s", ErrInvalidWeek, raw)
	}
	return s.WeekStart(date), nil
}

// ParseDay 解析 YYYY-MM-DD 为当天零点。
func (s *WeekService) ParseDay(raw string) (time.Time, error) {
	date, err := time.ParseInLocation(WeekDateFormat, strings.TrimSpace(raw), s.location)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: invalid date %q", ErrValidation, raw)
	}
	return date, nil
}
