package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/goaltracker/internal/db"
	"github.com/goaltracker/internal/service"
)

const timestampFormat = time.RFC3339

type goalPayload struct {
	ID             string  `json:"id"`
	Title          string  `json:"title"`
	Category       string  `json:"category"`
	IsCompleted    bool    `json:"is_completed"`
	WeekStart      string  `json:"week_start"`
	CreatedAt      string  `json:"created_at"`
	CompletedAt    *string `json:"completed_at"`
	RolledOverFrom *string `json:"rolled_over_from"`
	FocusDate      *string `json:"focus_date"`
	Notes          *string `json:"notes"`
	SortOrder      int     `json:"sort_order"`
	DueDate        *string `json:"due_date"`
	IsFocusedToday bool    `json:"is_focused_today"`
	IsDueToday     bool    `json:"is_due_today"`
	IsDueTomorrow  bool    `json:"is_due_tomorrow"`
	IsOverdue      bool    `json:"is_overdue"`
}

type archivedGoalPayload struct {
	ID             string  `json:"id"`
	OriginalGoalID string  `json:"original_goal_id"`
	Title          string  `json:"title"`
	Category       string  `json:"category"`
	Notes          *string `json:"notes"`
	WeekStart      *string `json:"week_start"`
	CreatedAt      string  `json:"created_at"`
	CompletedAt    *string `json:"completed_at"`
	DueDate        *string `json:"due_date"`
	ArchivedAt     string  `json:"archived_at"`
}

type recapPayload struct {
	ID            string `json:"id"`
	WeekStart     string `json:"week_start"`
	WeekRange     string `json:"week_range"`
	Overview      string `json:"overview"`
	Wins          string `json:"wins"`
	Challenges    string `json:"challenges"`
	GratefulFor   string `json:"grateful_for"`
	SongOfWeek    string `json:"song_of_week"`
	Lessons       string `json:"lessons"`
	NextWeekFocus string `json:"next_week_focus"`
	HasContent    bool   `json:"has_content"`
	CreatedAt     string `json:"created_at"`
	UpdatedAt     string `json:"updated_at"`
}

type eventPayload struct {
	ID        string  `json:"id"`
	Title     string  `json:"title"`
	StartAt   string  `json:"start_at"`
	EndAt     string  `json:"end_at"`
	AllDay    bool    `json:"all_day"`
	Location  *string `json:"location"`
	Notes     *string `json:"notes"`
	CreatedAt string  `json:"created_at"`
	UpdatedAt string  `json:"updated_at"`
}

func (a *API) goalToPayload(goal db.Goal) goalPayload {
	return goalPayload{
		ID:             goal.ID,
		Title:          goal.Title,
		Category:       string(goal.Category),
		IsCompleted:    goal.IsCompleted,
		WeekStart:      a.formatDay(goal.WeekStart),
		CreatedAt:      a.formatTime(goal.CreatedAt),
		CompletedAt:    a.formatTimePtr(goal.CompletedAt),
		RolledOverFrom: goal.RolledOverFrom,
		FocusDate:      a.formatTimePtr(goal.FocusDate),
		Notes:          goal.Notes,
		SortOrder:      goal.SortOrder,
		DueDate:        a.formatDayPtr(goal.DueDate),
		IsFocusedToday: a.goals.IsFocusedToday(goal),
		IsDueToday:     a.goals.IsDueToday(goal),
		IsDueTomorrow:  a.goals.IsDueTomorrow(goal),
		IsOverdue:      a.goals.IsOverdue(goal),
	}
}

func (a *API) goalsToPayload(goals []db.Goal) []goalPayload {
	result := make([]goalPayload, 0, len(goals))
	for _, goal := range goals {
		result = append(result, a.goalToPayload(goal))
	}
	return result
}

func (a *API) archivedToPayload(goals []db.ArchivedGoal) []archivedGoalPayload {
	result := make([]archivedGoalPayload, 0, len(goals))
	for _, goal := range goals {
		var weekStart *string
		if goal.WeekStart != nil {
			formatted := a.formatDay(a.weeks.WeekStart(*goal.WeekStart))
			weekStart = &formatted
		}
		result = append(result, archivedGoalPayload{
			ID:             goal.ID,
			OriginalGoalID: goal.OriginalGoalID,
			Title:          goal.Title,
			Category:       string(goal.Category),
			Notes:          goal.Notes,
			WeekStart:      weekStart,
			CreatedAt:      a.formatTime(goal.CreatedAt),
			CompletedAt:    a.formatTimePtr(goal.CompletedAt),
			DueDate:        a.formatDayPtr(goal.DueDate),
			ArchivedAt:     a.formatTime(goal.ArchivedAt),
		})
	}
	return result
}

func (a *API) recapToPayload(recap db.WeeklyRecap) recapPayload {
	return recapPayload{
		ID:            recap.ID,
		WeekStart:     a.formatDay(recap.WeekStart),
		WeekRange:     a.weeks.FormatWeekRange(recap.WeekStart),
		Overview:      recap.Overview,
		Wins:          recap.Wins,
		Challenges:    recap.Challenges,
		GratefulFor:   recap.GratefulFor,
		SongOfWeek:    recap.SongOfWeek,
		Lessons:       recap.Lessons,
		NextWeekFocus: recap.NextWeekFocus,
		HasContent:    recap.HasContent(),
		CreatedAt:     a.formatTime(recap.CreatedAt),
		UpdatedAt:     a.formatTime(recap.UpdatedAt),
	}
}

func (a *API) eventToPayload(event db.CalendarEvent) eventPayload {
	return eventPayload{
		ID:        event.ID,
		Title:     event.Title,
		StartAt:   a.formatTime(event.StartAt),
		EndAt:     a.formatTime(event.EndAt),
		AllDay:    event.AllDay,
		Location:  event.Location,
		Notes:     event.Notes,
		CreatedAt: a.formatTime(event.CreatedAt),
		UpdatedAt: a.formatTime(event.UpdatedAt),
	}
}

func (a *API) eventsToPayload(events []db.CalendarEvent) []eventPayload {
	result := make([]eventPayload, 0, len(events))
	for _, event := range events {
		result = append(result, a.eventToPayload(event))
	}
	return result
}

func (a *API) statsToPayload(stats service.WeekStats) gin.H {
	categories := gin.H{}
	for _, category := range db.Categories {
		entry := stats.ByCategory[category]
		categories[string(category)] = gin.H{"total": entry.Total, "completed": entry.Completed}
	}
	return gin.H{
		"week_start":       a.formatDay(stats.WeekStart),
		"total":            stats.Total,
		"completed":        stats.Completed,
		"remaining":        stats.Remaining(),
		"progress_percent": stats.ProgressPercent(),
		"categories":       categories,
	}
}

func (a *API) formatDay(t time.Time) string {
	return t.In(a.weeks.Location()).Format(service.WeekDateFormat)
}

func (a *API) formatDayPtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	formatted := a.formatDay(*t)
	return &formatted
}

func (a *API) formatTime(t time.Time) string {
	return t.In(a.weeks.Location()).Format(timestampFormat)
}

func (a *API) formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	formatted := a.formatTime(*t)
	return &formatted
}
