package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/goaltracker/internal/db"
	"github.com/goaltracker/internal/service"
)

type createGoalRequest struct {
	Title     string  `json:"title"`
	Category  string  `json:"category"`
	WeekStart string  `json:"week_start"`
	Notes     *string `json:"notes"`
	DueDate   *string `json:"due_date"`
}

// patchGoalRequest 中缺省的字段保持不变；notes/due_date 传空字符串表示清除。
type patchGoalRequest struct {
	Title   *string `json:"title"`
	Notes   *string `json:"notes"`
	DueDate *string `json:"due_date"`
}

type reorderGoalsRequest struct {
	Category string   `json:"category"`
	IDs      []string `json:"ids"`
}

type moveGoalsRequest struct {
	Category string   `json:"category"`
	IDs      []string `json:"ids"`
	From     int      `json:"from"`
	To       int      `json:"to"`
}

// CreateGoal 创建目标，未指定周时落在本周
func (a *API) CreateGoal(c *gin.Context) {
	var req createGoalRequest
	if !bindJSON(c, &req, "请求格式错误") {
		return
	}

	input := service.GoalInput{
		Title:    req.Title,
		Category: req.Category,
		Notes:    req.Notes,
	}
	if strings.TrimSpace(req.WeekStart) != "" {
		week, err := a.weeks.ParseWeek(req.WeekStart)
		if err != nil {
			a.handleServiceError(c, err)
			return
		}
		input.WeekStart = &week
	}
	dueDate, err := a.parseOptionalDay(req.DueDate)
	if err != nil {
		a.handleServiceError(c, err)
		return
	}
	input.DueDate = dueDate

	goal, err := a.goals.Create(input)
	if err != nil {
		a.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"goal": a.goalToPayload(*goal)})
}

// GetGoal 返回单个目标
func (a *API) GetGoal(c *gin.Context) {
	goal, err := a.goals.Get(c.Param("id"))
	if err != nil {
		a.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"goal": a.goalToPayload(*goal)})
}

// UpdateGoal 校验全部字段后一次性应用标题、备注与截止日期的修改
func (a *API) UpdateGoal(c *gin.Context) {
	var req patchGoalRequest
	if !bindJSON(c, &req, "请求格式错误") {
		return
	}

	patch := service.GoalPatch{Title: req.Title, Notes: req.Notes}
	if req.DueDate != nil {
		dueDate, err := a.parseOptionalDay(req.DueDate)
		if err != nil {
			a.handleServiceError(c, err)
			return
		}
		patch.DueDate = dueDate
		patch.DueDateSet = true
	}

	goal, err := a.goals.Update(c.Param("id"), patch)
	if err != nil {
		a.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"goal": a.goalToPayload(*goal)})
}

// DeleteGoal 删除目标
func (a *API) DeleteGoal(c *gin.Context) {
	if err := a.goals.Delete(c.Param("id")); err != nil {
		a.handleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ToggleGoal 切换完成状态
func (a *API) ToggleGoal(c *gin.Context) {
	goal, err := a.goals.ToggleCompletion(c.Param("id"))
	if err != nil {
		a.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"goal": a.goalToPayload(*goal)})
}

// ToggleGoalFocus 切换今日聚焦
func (a *API) ToggleGoalFocus(c *gin.Context) {
	goal, err := a.goals.ToggleFocusToday(c.Param("id"))
	if err != nil {
		a.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"goal": a.goalToPayload(*goal)})
}

// ReorderGoals 按给定顺序重写分类内的排序
func (a *API) ReorderGoals(c *gin.Context) {
	var req reorderGoalsRequest
	if !bindJSON(c, &req, "请求格式错误") {
		return
	}
	if err := a.goals.Reorder(db.ParseCategory(req.Category), req.IDs); err != nil {
		a.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ids": req.IDs})
}

// MoveGoals 把 from 位置的目标移动到 to 并持久化新顺序
func (a *API) MoveGoals(c *gin.Context) {
	var req moveGoalsRequest
	if !bindJSON(c, &req, "请求格式错误") {
		return
	}
	ids, err := a.goals.Move(db.ParseCategory(req.Category), req.IDs, req.From, req.To)
	if err != nil {
		a.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ids": ids})
}

// ListDueGoals 按 when 返回今天到期、明天到期或已逾期的未完成目标
func (a *API) ListDueGoals(c *gin.Context) {
	week, ok := a.optionalWeekQuery(c)
	if !ok {
		return
	}

	var (
		goals []db.Goal
		err   error
	)
	switch strings.ToLower(c.DefaultQuery("when", "today")) {
	case "today":
		goals, err = a.goals.DueToday(week)
	case "tomorrow":
		goals, err = a.goals.DueTomorrow(week)
	case "overdue":
		goals, err = a.goals.Overdue(week)
	default:
		respondError(c, http.StatusBadRequest, "when 只能是 today、tomorrow 或 overdue")
		return
	}
	if err != nil {
		a.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"goals": a.goalsToPayload(goals)})
}

// ListFocusedGoals 返回今日聚焦且未完成的目标
func (a *API) ListFocusedGoals(c *gin.Context) {
	week, ok := a.optionalWeekQuery(c)
	if !ok {
		return
	}
	goals, err := a.goals.TodaysFocused(week)
	if err != nil {
		a.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"goals": a.goalsToPayload(goals)})
}
