package reminder

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"github.com/goaltracker/internal/service"
)

const (
	eventLead    = 15 * time.Minute
	eventHorizon = 7 * 24 * time.Hour
)

// Slot 为每天固定时间触发的提醒。
type Slot struct {
	Kind   Kind
	Hour   int
	Minute int
}

// DefaultSlots 为默认的每日提醒时间表。
var DefaultSlots = []Slot{
	{Kind: KindMorning, Hour: 8},
	{Kind: KindDueToday, Hour: 9},
	{Kind: KindMidday, Hour: 12},
	{Kind: KindDueTodayAfternoon, Hour: 14},
	{Kind: KindEndOfDay, Hour: 18},
}

// Occurrence 是一次计划中的提醒触发。
type Occurrence struct {
	Kind  Kind
	At    time.Time
	Event *Briefing
}

// Notifier 负责把提醒投递给用户。
type Notifier interface {
	Notify(ctx context.Context, briefing Briefing) error
}

// LogNotifier 把提醒写入日志，用于没有系统通知能力的环境。
type LogNotifier struct {
	Logger *slog.Logger
}

// Notify 记录一条提醒。
func (n LogNotifier) Notify(ctx context.Context, briefing Briefing) error {
	log := n.Logger
	if log == nil {
		log = slog.Default()
	}
	log.InfoContext(ctx, "reminder", "kind", briefing.Kind, "title", briefing.Title, "body", briefing.Body)
	return nil
}

// Scheduler 按每日时间表和日历事件投递提醒，数据变更时重新规划
type Scheduler struct {
	builder  *Builder
	events   EventSource
	notifier Notifier
	weeks    *service.WeekService
	feed     *service.ChangeFeed
	logger   *slog.Logger
	slots    []Slot
}

// NewScheduler 构造 Scheduler。feed 为空时不监听数据变更。
func NewScheduler(builder *Builder, events EventSource, notifier Notifier, weeks *service.WeekService, feed *service.ChangeFeed, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	if notifier == nil {
		notifier = LogNotifier{Logger: logger}
	}
	return &Scheduler{
		builder:  builder,
		events:   events,
		notifier: notifier,
		weeks:    weeks,
		feed:     feed,
		logger:   logger,
		slots:    DefaultSlots,
	}
}

// Plan 返回 (after, until] 内的全部提醒，按时间升序
func (s *Scheduler) Plan(after, until time.Time) ([]Occurrence, error) {
	var plan []Occurrence

	for day := s.weeks.StartOfDay(after); !day.After(until); day = day.AddDate(0, 0, 1) {
		for _, slot := range s.slots {
			at := time.Date(day.Year(), day.Month(), day.Day(), slot.Hour, slot.Minute, 0, 0, s.weeks.Location())
			if at.After(after) && !at.After(until) {
				plan = append(plan, Occurrence{Kind: slot.Kind, At: at})
			}
		}
	}

	if s.events != nil {
		events, err := s.events.FetchEvents(after, after.Add(eventHorizon+eventLead))
		if err != nil {
			return nil, err
		}
		for _, event := range events {
			if event.AllDay {
				continue
			}
			at := event.StartAt.Add(-eventLead)
			if !at.After(after) || at.After(until) {
				continue
			}
			reminder := EventReminder(event, at)
			plan = append(plan, Occurrence{Kind: KindEvent, At: at, Event: &reminder})
		}
	}

	sort.SliceStable(plan, func(i, j int) bool {
		return plan[i].At.Before(plan[j].At)
	})
	return plan, nil
}

// Dispatch 生成并投递一次提醒，构建失败只记录日志
func (s *Scheduler) Dispatch(ctx context.Context, occurrence Occurrence) {
	var briefing Briefing
	if occurrence.Event != nil {
		briefing = *occurrence.Event
	} else {
		built, err := s.builder.Build(occurrence.Kind)
		if err != nil {
			s.logger.Error("build reminder failed", "kind", occurrence.Kind, "error", err)
			return
		}
		briefing = built
		briefing.ID = string(occurrence.Kind)
		briefing.At = occurrence.At
	}

	if err := s.notifier.Notify(ctx, briefing); err != nil {
		s.logger.Error("deliver reminder failed", "kind", briefing.Kind, "error", err)
	}
}

// Run 持续调度直到 ctx 取消
func (s *Scheduler) Run(ctx context.Context) error {
	var changes <-chan service.Change
	if s.feed != nil {
		ch, cancel := s.feed.Subscribe(32)
		defer cancel()
		changes = ch
	}

	watermark := s.weeks.Now()
	for {
		plan, err := s.Plan(watermark, watermark.Add(eventHorizon))
		if err != nil {
			s.logger.Error("plan reminders failed", "error", err)
			plan = nil
		}

		wait := time.Hour
		var target time.Time
		if len(plan) > 0 {
			target = plan[0].At
			wait = target.Sub(s.weeks.Now())
			if wait < 0 {
				wait = 0
			}
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case change, ok := <-changes:
			timer.Stop()
			if !ok {
				changes = nil
				continue
			}
			s.logger.Debug("replanning reminders", "change", change.Kind)
		case <-timer.C:
			now := s.weeks.Now()
			if target.IsZero() {
				watermark = now
				continue
			}
			// 休眠唤醒后错过的提醒不再补发
			if now.Sub(target) > time.Minute {
				s.logger.Debug("skipping stale reminders", "target", target)
				watermark = now
				continue
			}
			for _, occurrence := range plan {
				if occurrence.At.After(target) {
					break
				}
				s.Dispatch(ctx, occurrence)
			}
			watermark = target
		}
	}
}
