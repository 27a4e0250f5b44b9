package main

import (
	"fmt"
	"log"
	"time"

	"github.com/goaltracker/internal/app"
	"github.com/goaltracker/internal/config"
	"github.com/goaltracker/internal/db"
	"github.com/goaltracker/internal/service"
)

type seedSummary struct {
	LastWeekGoals int
	ThisWeekGoals int
	Events        int
	Recaps        int
}

// 测试数据生成器：上周与本周的目标、上周复盘、本周日程
func main() {
	config.LoadDotEnv()
	cfg := config.Load()

	location := cfg.Location()
	a, err := app.New(app.Options{
		DatabasePath: cfg.DatabasePath,
		Location:     location,
		Clock:        service.SystemClock{Location: location},
	})
	if err != nil {
		log.Fatal("数据库初始化失败:", err)
	}
	defer a.Close()

	fmt.Println("开始生成测试数据...")

	summary, err := seedDemoData(a)
	if err != nil {
		log.Fatal("生成测试数据失败:", err)
	}

	fmt.Println("测试数据生成完成！")
	fmt.Printf("目标: 上周 %d 个，本周 %d 个\n", summary.LastWeekGoals, summary.ThisWeekGoals)
	fmt.Printf("复盘: %d 篇，日程: %d 个\n", summary.Recaps, summary.Events)
}

func seedDemoData(a *app.App) (seedSummary, error) {
	var summary seedSummary

	var count int64
	if err := a.DB.Model(&db.Goal{}).Count(&count).Error; err != nil {
		return summary, err
	}
	if count > 0 {
		fmt.Println("目标已存在，跳过创建")
		return summary, nil
	}

	thisWeek := a.Weeks.CurrentWeekStart()
	lastWeek := a.Weeks.PreviousWeekStart(thisWeek)

	var err error
	if summary.LastWeekGoals, err = createDemoGoals(a, lastWeek, lastWeekGoals); err != nil {
		return summary, err
	}
	if summary.ThisWeekGoals, err = createDemoGoals(a, thisWeek, thisWeekGoals); err != nil {
		return summary, err
	}
	fmt.Println("✅ 测试目标创建完成")

	if err := createDemoRecap(a, lastWeek); err != nil {
		return summary, err
	}
	summary.Recaps = 1
	fmt.Println("✅ 上周复盘创建完成")

	if summary.Events, err = createDemoEvents(a, thisWeek); err != nil {
		return summary, err
	}
	fmt.Println("✅ 本周日程创建完成")

	return summary, nil
}

type demoGoal struct {
	title     string
	category  db.Category
	notes     string
	dueOffset int // 相对周一的天数，-1 表示无截止日期
	completed bool
	focused   bool
}

var lastWeekGoals = []demoGoal{
	{title: "整理季度 OKR", category: db.CategoryWork, dueOffset: 2, completed: true},
	{title: "完成接口评审", category: db.CategoryWork, notes: "重点看错误码设计", dueOffset: 4},
	{title: "跑步三次", category: db.CategoryHealth, dueOffset: -1, completed: true},
	{title: "读完《代码整洁之道》", category: db.CategoryPersonal, dueOffset: -1},
}

var thisWeekGoals = []demoGoal{
	{title: "发布 v1.2", category: db.CategoryWork, notes: "包含归档导出", dueOffset: 3, focused: true},
	{title: "写周报", category: db.CategoryWork, dueOffset: 4},
	{title: "游泳 2 次", category: db.CategoryHealth, dueOffset: -1},
	{title: "早睡早起", category: db.CategoryHealth, dueOffset: -1, completed: true},
	{title: "给家里打电话", category: db.CategoryPersonal, dueOffset: 5},
}

func createDemoGoals(a *app.App, weekStart time.Time, goals []demoGoal) (int, error) {
	for _, item := range goals {
		input := service.GoalInput{
			Title:     item.title,
			Category:  string(item.category),
			WeekStart: &weekStart,
		}
		if item.notes != "" {
			notes := item.notes
			input.Notes = &notes
		}
		if item.dueOffset >= 0 {
			due := weekStart.AddDate(0, 0, item.dueOffset)
			input.DueDate = &due
		}

		goal, err := a.Goals.Create(input)
		if err != nil {
			return 0, fmt.Errorf("create goal %q: %w", item.title, err)
		}
		if item.completed {
			if _, err := a.Goals.ToggleCompletion(goal.ID); err != nil {
				return 0, err
			}
		}
		if item.focused {
			if _, err := a.Goals.ToggleFocusToday(goal.ID); err != nil {
				return 0, err
			}
		}
	}
	return len(goals), nil
}

func createDemoRecap(a *app.App, weekStart time.Time) error {
	recap, err := a.Recaps.GetOrCreate(weekStart)
	if err != nil {
		return err
	}

	overview := "节奏稳定，工作目标基本按时完成。"
	wins := "- OKR 定稿\n- 坚持跑步"
	lessons := "评审要**提前**约时间。"
	nextWeek := "把 v1.2 发布出去。"
	_, err = a.Recaps.Update(recap.ID, service.RecapInput{
		Overview:      &overview,
		Wins:          &wins,
		Lessons:       &lessons,
		NextWeekFocus: &nextWeek,
	})
	return err
}

func createDemoEvents(a *app.App, weekStart time.Time) (int, error) {
	location := a.Weeks.Location()
	standup := weekStart.In(location).Add(10 * time.Hour)
	offsite := weekStart.AddDate(0, 0, 4)
	place := "会议室 A"

	events := []service.EventInput{
		{Title: "周会", StartAt: standup, EndAt: standup.Add(30 * time.Minute), Location: &place},
		{Title: "团队活动", StartAt: offsite, EndAt: offsite, AllDay: true},
	}
	for _, input := range events {
		if _, err := a.Events.Create(input); err != nil {
			return 0, fmt.Errorf("create event %q: %w", input.Title, err)
		}
	}
	return len(events), nil
}
