package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/goaltracker/internal/db"
	"github.com/goaltracker/internal/service"
)

var (
	colorPurple = lipgloss.Color("#7D56F4")
	colorGreen  = lipgloss.Color("#25A065")
	colorRed    = lipgloss.Color("#E05252")
	colorYellow = lipgloss.Color("#E5C07B")
	colorGray   = lipgloss.Color("#626262")
	colorCyan   = lipgloss.Color("#56B6C2")
)

// printer 负责命令的人类可读输出与 JSON 输出
// 样式绑定到输出目标，写入非终端时自动退化为纯文本
type printer struct {
	w     io.Writer
	weeks *service.WeekService
	goals *service.GoalService

	header   lipgloss.Style
	category lipgloss.Style
	done     lipgloss.Style
	overdue  lipgloss.Style
	focus    lipgloss.Style
	muted    lipgloss.Style
	success  lipgloss.Style
}

func newPrinter(w io.Writer, weeks *service.WeekService, goals *service.GoalService) *printer {
	r := lipgloss.NewRenderer(w)
	return &printer{
		w:        w,
		weeks:    weeks,
		goals:    goals,
		header:   r.NewStyle().Bold(true).Foreground(colorPurple),
		category: r.NewStyle().Bold(true).Foreground(colorCyan),
		done:     r.NewStyle().Foreground(colorGreen),
		overdue:  r.NewStyle().Foreground(colorRed),
		focus:    r.NewStyle().Foreground(colorYellow),
		muted:    r.NewStyle().Foreground(colorGray),
		success:  r.NewStyle().Foreground(colorGreen),
	}
}

// JSON 以缩进格式输出 v。
func (p *printer) JSON(v any) error {
	enc := json.NewEncoder(p.w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (p *printer) Success(msg string) {
	fmt.Fprintln(p.w, p.success.Render("✓ "+msg))
}

func (p *printer) Muted(msg string) {
	fmt.Fprintln(p.w, p.muted.Render(msg))
}

// Goal 输出单个目标，asJSON 为真时输出 {"goal": ...}
func (p *printer) Goal(goal *db.Goal, asJSON bool, verb string) error {
	if asJSON {
		return p.JSON(map[string]any{"goal": p.goalView(*goal)})
	}
	fmt.Fprintln(p.w, p.success.Render(verb+":")+" "+p.goalLine(*goal))
	return nil
}

// WeekGoals 按分类输出一周的目标与进度
func (p *printer) WeekGoals(weekStart time.Time, buckets map[db.Category][]db.Goal, stats service.WeekStats) {
	fmt.Fprintln(p.w, p.header.Render("Week of "+p.weeks.FormatWeekRange(weekStart)))
	fmt.Fprintln(p.w, p.muted.Render(fmt.Sprintf("%d/%d completed (%d%%)", stats.Completed, stats.Total, stats.ProgressPercent())))

	for _, category := range db.Categories {
		goals := buckets[category]
		fmt.Fprintln(p.w)
		fmt.Fprintln(p.w, p.category.Render(fmt.Sprintf("%s (%d)", category, len(goals))))
		if len(goals) == 0 {
			fmt.Fprintln(p.w, p.muted.Render("  no goals"))
			continue
		}
		for _, goal := range goals {
			fmt.Fprintln(p.w, "  "+p.goalLine(goal))
		}
	}
}

// Archive 按周输出归档记录，未知周排在最后
func (p *printer) Archive(groups []service.ArchiveWeekGroup) {
	if len(groups) == 0 {
		p.Muted("archive is empty")
		return
	}
	for i, group := range groups {
		if i > 0 {
			fmt.Fprintln(p.w)
		}
		label := "Unknown week"
		if group.WeekStart != nil {
			label = p.weeks.FormatWeekRange(*group.WeekStart)
		}
		fmt.Fprintln(p.w, p.header.Render(label))
		for _, goal := range group.Goals {
			line := fmt.Sprintf("  %s %s %s", p.done.Render("[x]"), goal.Title, p.muted.Render(string(goal.Category)))
			if goal.CompletedAt != nil {
				line += p.muted.Render(" completed " + p.day(*goal.CompletedAt))
			}
			fmt.Fprintln(p.w, line)
		}
	}
}

// Recap 输出复盘的非空章节
func (p *printer) Recap(recap db.WeeklyRecap) {
	fmt.Fprintln(p.w, p.header.Render("Weekly Recap - "+p.weeks.FormatWeekRange(recap.WeekStart)))
	if !recap.HasContent() {
		p.Muted("nothing written yet")
		return
	}
	for _, section := range service.Sections(recap) {
		body := strings.TrimSpace(section.Body)
		if body == "" {
			continue
		}
		fmt.Fprintln(p.w)
		fmt.Fprintln(p.w, p.category.Render(section.Heading))
		fmt.Fprintln(p.w, body)
	}
}

func (p *printer) goalLine(goal db.Goal) string {
	box := "[ ]"
	title := goal.Title
	if goal.IsCompleted {
		box = p.done.Render("[x]")
		title = p.done.Render(title)
	}

	var tags []string
	if p.goals.IsFocusedToday(goal) {
		tags = append(tags, p.focus.Render("★ focus"))
	}
	switch {
	case p.goals.IsOverdue(goal):
		tags = append(tags, p.overdue.Render("overdue "+p.day(*goal.DueDate)))
	case p.goals.IsDueToday(goal):
		tags = append(tags, p.focus.Render("due today"))
	case p.goals.IsDueTomorrow(goal):
		tags = append(tags, p.muted.Render("due tomorrow"))
	case goal.DueDate != nil:
		tags = append(tags, p.muted.Render("due "+p.day(*goal.DueDate)))
	}
	if goal.RolledOverFrom != nil {
		tags = append(tags, p.muted.Render("rolled over"))
	}

	line := fmt.Sprintf("%s %s %s", box, title, p.muted.Render(goal.ID))
	if len(tags) > 0 {
		line += "  " + strings.Join(tags, " ")
	}
	return line
}

func (p *printer) day(t time.Time) string {
	return t.In(p.weeks.Location()).Format(service.WeekDateFormat)
}

func (p *printer) dayPtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	v := p.day(*t)
	return &v
}

func (p *printer) goalView(goal db.Goal) map[string]any {
	return map[string]any{
		"id":               goal.ID,
		"title":            goal.Title,
		"category":         goal.Category,
		"is_completed":     goal.IsCompleted,
		"week_start":       p.day(goal.WeekStart),
		"notes":            goal.Notes,
		"sort_order":       goal.SortOrder,
		"due_date":         p.dayPtr(goal.DueDate),
		"rolled_over_from": goal.RolledOverFrom,
		"is_focused_today": p.goals.IsFocusedToday(goal),
		"is_overdue":       p.goals.IsOverdue(goal),
	}
}

func (p *printer) goalsView(goals []db.Goal) []map[string]any {
	views := make([]map[string]any, 0, len(goals))
	for _, goal := range goals {
		views = append(views, p.goalView(goal))
	}
	return views
}

func (p *printer) bucketsView(buckets map[db.Category][]db.Goal) map[string]any {
	views := make(map[string]any, len(db.Categories))
	for _, category := range db.Categories {
		views[string(category)] = p.goalsView(buckets[category])
	}
	return views
}

func (p *printer) statsView(stats service.WeekStats) map[string]any {
	return map[string]any{
		"total":            stats.Total,
		"completed":        stats.Completed,
		"remaining":        stats.Remaining(),
		"progress_percent": stats.ProgressPercent(),
	}
}

func (p *printer) archiveView(groups []service.ArchiveWeekGroup) []map[string]any {
	views := make([]map[string]any, 0, len(groups))
	for _, group := range groups {
		goals := make([]map[string]any, 0, len(group.Goals))
		for _, goal := range group.Goals {
			goals = append(goals, map[string]any{
				"id":               goal.ID,
				"original_goal_id": goal.OriginalGoalID,
				"title":            goal.Title,
				"category":         goal.Category,
				"notes":            goal.Notes,
				"completed_at":     p.dayPtr(goal.CompletedAt),
				"due_date":         p.dayPtr(goal.DueDate),
			})
		}
		views = append(views, map[string]any{
			"week_start": p.dayPtr(group.WeekStart),
			"goals":      goals,
		})
	}
	return views
}

func (p *printer) recapView(recap db.WeeklyRecap) map[string]any {
	view := map[string]any{
		"id":          recap.ID,
		"week_start":  p.day(recap.WeekStart),
		"week_range":  p.weeks.FormatWeekRange(recap.WeekStart),
		"has_content": recap.HasContent(),
	}
	for _, section := range service.Sections(recap) {
		view[section.Key] = section.Body
	}
	return view
}
