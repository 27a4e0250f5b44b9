package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/goaltracker/internal/db"
	"github.com/goaltracker/internal/service"
)

type updateRecapRequest struct {
	Overview      *string `json:"overview"`
	Wins          *string `json:"wins"`
	Challenges    *string `json:"challenges"`
	GratefulFor   *string `json:"grateful_for"`
	SongOfWeek    *string `json:"song_of_week"`
	Lessons       *string `json:"lessons"`
	NextWeekFocus *string `json:"next_week_focus"`
}

// CurrentWeek 返回本周起止、展示文案与每天日期
func (a *API) CurrentWeek(c *gin.Context) {
	start := a.weeks.CurrentWeekStart()
	days := make([]string, 0, 7)
	for _, day := range a.weeks.DaysOfWeek(start) {
		days = append(days, a.formatDay(day))
	}
	c.JSON(http.StatusOK, gin.H{
		"week": gin.H{
			"start": a.formatDay(start),
			"end":   a.formatTime(a.weeks.WeekEnd(start)),
			"range": a.weeks.FormatWeekRange(start),
			"days":  days,
			"today": a.formatDay(a.weeks.Now()),
		},
	})
}

// ListWeekGoals 列出某周目标，grouped=1 时按分类分组
func (a *API) ListWeekGoals(c *gin.Context) {
	week, ok := a.weekParam(c)
	if !ok {
		return
	}

	if isTruthy(c.Query("grouped")) {
		buckets, err := a.goals.ListByCategory(week)
		if err != nil {
			a.handleServiceError(c, err)
			return
		}
		grouped := gin.H{}
		for _, category := range db.Categories {
			grouped[string(category)] = a.goalsToPayload(buckets[category])
		}
		c.JSON(http.StatusOK, gin.H{"week_start": a.formatDay(week), "categories": grouped})
		return
	}

	goals, err := a.goals.List(week)
	if err != nil {
		a.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"week_start": a.formatDay(week), "goals": a.goalsToPayload(goals)})
}

// WeekStats 返回某周完成统计
func (a *API) WeekStats(c *gin.Context) {
	week, ok := a.weekParam(c)
	if !ok {
		return
	}
	stats, err := a.goals.WeekStats(week)
	if err != nil {
		a.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"stats": a.statsToPayload(stats)})
}

// GetRecap 返回某周复盘，不存在时创建空白复盘
func (a *API) GetRecap(c *gin.Context) {
	recap, ok := a.loadRecap(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"recap": a.recapToPayload(*recap)})
}

// UpdateRecap 更新复盘，缺省字段保持原值
func (a *API) UpdateRecap(c *gin.Context) {
	var req updateRecapRequest
	if !bindJSON(c, &req, "请求格式错误") {
		return
	}
	recap, ok := a.loadRecap(c)
	if !ok {
		return
	}

	updated, err := a.recaps.Update(recap.ID, service.RecapInput{
		Overview:      req.Overview,
		Wins:          req.Wins,
		Challenges:    req.Challenges,
		GratefulFor:   req.GratefulFor,
		SongOfWeek:    req.SongOfWeek,
		Lessons:       req.Lessons,
		NextWeekFocus: req.NextWeekFocus,
	})
	if err != nil {
		a.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"recap": a.recapToPayload(*updated)})
}

// ExportRecap 以纯文本导出复盘
func (a *API) ExportRecap(c *gin.Context) {
	recap, ok := a.loadRecap(c)
	if !ok {
		return
	}
	c.Header("Content-Disposition", `attachment; filename="recap-`+a.formatDay(recap.WeekStart)+`.txt"`)
	c.String(http.StatusOK, a.recaps.ExportText(*recap))
}

// RecapHTML 返回每个非空字段渲染并清洗后的 HTML
func (a *API) RecapHTML(c *gin.Context) {
	recap, ok := a.loadRecap(c)
	if !ok {
		return
	}
	rendered, err := a.recaps.RenderHTML(*recap)
	if err != nil {
		a.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"week_start": a.formatDay(recap.WeekStart), "html": rendered})
}

func (a *API) loadRecap(c *gin.Context) (*db.WeeklyRecap, bool) {
	week, ok := a.weekParam(c)
	if !ok {
		return nil, false
	}
	recap, err := a.recaps.GetOrCreate(week)
	if err != nil {
		a.handleServiceError(c, err)
		return nil, false
	}
	return recap, true
}
