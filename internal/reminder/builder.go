package reminder

import (
	"fmt"
	"strings"
	"time"

	"github.com/goaltracker/internal/db"
	"github.com/goaltracker/internal/service"
)

// Kind 标识提醒的类型。
type Kind string

const (
	KindMorning           Kind = "morning-briefing"
	KindDueToday          Kind = "due-today-morning"
	KindMidday            Kind = "midday-checkin"
	KindDueTodayAfternoon Kind = "due-today-afternoon"
	KindEndOfDay          Kind = "end-of-day"
	KindEvent             Kind = "event"
)

// Briefing 为一条待投递的提醒。
type Briefing struct {
	ID    string
	Kind  Kind
	Title string
	Body  string
	At    time.Time
}

// GoalQueries 是提醒模块依赖的只读目标查询。
type GoalQueries interface {
	WeekStats(weekStart time.Time) (service.WeekStats, error)
	DueToday(weekStart *time.Time) ([]db.Goal, error)
	DueTomorrow(weekStart *time.Time) ([]db.Goal, error)
	Overdue(weekStart *time.Time) ([]db.Goal, error)
	TodaysFocused(weekStart *time.Time) ([]db.Goal, error)
}

// EventSource 提供日历事件。
type EventSource interface {
	FetchEvents(from, to time.Time) ([]db.CalendarEvent, error)
}

// Builder 根据当前目标与日程组装提醒文案
type Builder struct {
	goals  GoalQueries
	events EventSource
	weeks  *service.WeekService
}

// NewBuilder 构造 Builder，events 可以为空
func NewBuilder(goals GoalQueries, events EventSource, weeks *service.WeekService) *Builder {
	return &Builder{goals: goals, events: events, weeks: weeks}
}

// Build 按类型生成提醒内容。
func (b *Builder) Build(kind Kind) (Briefing, error) {
	switch kind {
	case KindMorning:
		return b.Morning()
	case KindMidday:
		return b.Midday()
	case KindEndOfDay:
		return b.EndOfDay()
	case KindDueToday:
		return b.DueToday()
	case KindDueTodayAfternoon:
		briefing, err := b.DueToday()
		briefing.Kind = KindDueTodayAfternoon
		briefing.Title = "⏰ Due Today Check-in"
		return briefing, err
	default:
		return Briefing{}, fmt.Errorf("unknown briefing kind %q", kind)
	}
}

// Morning 早间简报：本周进度、今日到期、逾期、今日聚焦与今日日程
func (b *Builder) Morning() (Briefing, error) {
	now := b.weeks.Now()
	week := b.weeks.CurrentWeekStart()

	stats, err := b.goals.WeekStats(week)
	if err != nil {
		return Briefing{}, err
	}
	dueToday, err := b.goals.DueToday(nil)
	if err != nil {
		return Briefing{}, err
	}
	overdue, err := b.goals.Overdue(nil)
	if err != nil {
		return Briefing{}, err
	}
	focused, err := b.goals.TodaysFocused(&week)
	if err != nil {
		return Briefing{}, err
	}

	lines := []string{fmt.Sprintf("📋 Goals: %d/%d complete", stats.Completed, stats.Total)}
	if len(dueToday) > 0 {
		lines = append(lines, fmt.Sprintf("⏰ %d goal(s) due today", len(dueToday)))
	}
	if len(overdue) > 0 {
		lines = append(lines, fmt.Sprintf("⚠️ %d overdue goal(s)", len(overdue)))
	}
	if len(focused) > 0 {
		lines = append(lines, "🎯 Focus: "+joinTitles(focused, 2))
	}

	today := b.weeks.StartOfDay(now)
	events, err := b.fetch(today, today.AddDate(0, 0, 1))
	if err != nil {
		return Briefing{}, err
	}
	if len(events) > 0 {
		next := events[0]
		lines = append(lines, fmt.Sprintf("📅 %d event(s) • Next: %s %s", len(events), b.eventTime(next), next.Title))
	} else {
		lines = append(lines, "📅 No events today")
	}

	return Briefing{Kind: KindMorning, Title: "☀️ Morning Briefing", Body: strings.Join(lines, "\n"), At: now}, nil
}

// Midday 午间检查：进度百分比、今日仍需完成的目标与下午日程
func (b *Builder) Midday() (Briefing, error) {
	now := b.weeks.Now()
	week := b.weeks.CurrentWeekStart()

	stats, err := b.goals.WeekStats(week)
	if err != nil {
		return Briefing{}, err
	}
	dueToday, err := b.goals.DueToday(nil)
	if err != nil {
		return Briefing{}, err
	}
	focused, err := b.goals.TodaysFocused(&week)
	if err != nil {
		return Briefing{}, err
	}

	lines := []string{fmt.Sprintf("📋 Progress: %d%% (%d/%d)", stats.ProgressPercent(), stats.Completed, stats.Total)}
	if len(dueToday) > 0 {
		lines = append(lines, fmt.Sprintf("⏰ %d goal(s) still due today", len(dueToday)))
	}
	if len(focused) > 0 {
		lines = append(lines, fmt.Sprintf("🎯 %d focus item(s) remaining", len(focused)))
	}

	events, err := b.fetch(now, b.weeks.StartOfDay(now).AddDate(0, 0, 1))
	if err != nil {
		return Briefing{}, err
	}
	upcoming := make([]string, 0, 2)
	for _, event := range events {
		if event.AllDay {
			continue
		}
		upcoming = append(upcoming, fmt.Sprintf("%s: %s", b.eventTime(event), event.Title))
		if len(upcoming) == 2 {
			break
		}
	}
	if len(upcoming) > 0 {
		lines = append(lines, "📅 Coming up: "+strings.Join(upcoming, ", "))
	} else {
		lines = append(lines, "📅 No more events today")
	}

	return Briefing{Kind: KindMidday, Title: "🔄 Mid-day Check-in", Body: strings.Join(lines, "\n"), At: now}, nil
}

// EndOfDay 晚间回顾：本周进度、今日未完成、明日到期与明日日程
func (b *Builder) EndOfDay() (Briefing, error) {
	now := b.weeks.Now()
	week := b.weeks.CurrentWeekStart()

	stats, err := b.goals.WeekStats(week)
	if err != nil {
		return Briefing{}, err
	}
	dueToday, err := b.goals.DueToday(nil)
	if err != nil {
		return Briefing{}, err
	}
	dueTomorrow, err := b.goals.DueTomorrow(&week)
	if err != nil {
		return Briefing{}, err
	}

	lines := []string{fmt.Sprintf("📋 Week progress: %d%% (%d/%d)", stats.ProgressPercent(), stats.Completed, stats.Total)}
	if len(dueToday) > 0 {
		lines = append(lines, fmt.Sprintf("⚠️ %d goal(s) still due today!", len(dueToday)))
	}
	if len(dueTomorrow) > 0 {
		lines = append(lines, fmt.Sprintf("⏰ %d goal(s) due tomorrow", len(dueTomorrow)))
	}
	if remaining := stats.Remaining(); remaining > 0 {
		lines = append(lines, fmt.Sprintf("⏳ %d goal(s) remaining this week", remaining))
	} else {
		lines = append(lines, "✅ All goals complete!")
	}

	tomorrow := b.weeks.StartOfDay(now).AddDate(0, 0, 1)
	events, err := b.fetch(tomorrow, tomorrow.AddDate(0, 0, 1))
	if err != nil {
		return Briefing{}, err
	}
	if len(events) > 0 {
		lines = append(lines, fmt.Sprintf("📅 Tomorrow: %d event(s)", len(events)))
	} else {
		lines = append(lines, "📅 Tomorrow: No events scheduled")
	}

	return Briefing{Kind: KindEndOfDay, Title: "🌙 End of Day Review", Body: strings.Join(lines, "\n"), At: now}, nil
}

// DueToday 到期提醒：逾期数量与今日到期的目标
func (b *Builder) DueToday() (Briefing, error) {
	now := b.weeks.Now()

	dueToday, err := b.goals.DueToday(nil)
	if err != nil {
		return Briefing{}, err
	}
	overdue, err := b.goals.Overdue(nil)
	if err != nil {
		return Briefing{}, err
	}

	var lines []string
	if len(overdue) > 0 {
		lines = append(lines, fmt.Sprintf("⚠️ %d overdue goal(s)", len(overdue)))
	}
	if len(dueToday) > 0 {
		lines = append(lines, "📋 Due today: "+joinTitles(dueToday, 3))
	} else if len(overdue) == 0 {
		lines = append(lines, "✅ No goals due today")
	}

	return Briefing{Kind: KindDueToday, Title: "⏰ Goals Due Today", Body: strings.Join(lines, "\n"), At: now}, nil
}

// EventReminder 生成事件开始前 15 分钟的提醒。
func EventReminder(event db.CalendarEvent, at time.Time) Briefing {
	return Briefing{
		ID:    "event-" + event.ID,
		Kind:  KindEvent,
		Title: "⏰ Starting in 15 minutes",
		Body:  event.Title,
		At:    at,
	}
}

func (b *Builder) fetch(from, to time.Time) ([]db.CalendarEvent, error) {
	if b.events == nil {
		return nil, nil
	}
	return b.events.FetchEvents(from, to)
}

func (b *Builder) eventTime(event db.CalendarEvent) string {
	if event.AllDay {
		return "All day"
	}
	return event.StartAt.In(b.weeks.Location()).Format("3:04 PM")
}

func joinTitles(goals []db.Goal, limit int) string {
	titles := make([]string, 0, limit)
	for i, goal := range goals {
		if i == limit {
			break
		}
		titles = append(titles, goal.Title)
	}

	joined := strings.Join(titles, ", ")
	if extra := len(goals) - limit; extra > 0 {
		joined += fmt.Sprintf(" +%d more", extra)
	}
	return joined
}
