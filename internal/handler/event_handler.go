package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/goaltracker/internal/service"
)

// eventRequest 中的时间为 RFC3339；all_day 事件只取日期部分
type eventRequest struct {
	Title    string  `json:"title"`
	StartAt  string  `json:"start_at"`
	EndAt    string  `json:"end_at"`
	AllDay   bool    `json:"all_day"`
	Location *string `json:"location"`
	Notes    *string `json:"notes"`
}

// ListEvents 返回与 [from, to) 重叠的事件，缺省为本周
func (a *API) ListEvents(c *gin.Context) {
	rawFrom := strings.TrimSpace(c.Query("from"))
	rawTo := strings.TrimSpace(c.Query("to"))
	if rawFrom == "" && rawTo == "" {
		events, err := a.events.FetchEventsForWeek(a.weeks.CurrentWeekStart())
		if err != nil {
			a.handleServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"events": a.eventsToPayload(events)})
		return
	}

	from, err := parseTimestamp(rawFrom)
	if err != nil {
		respondError(c, http.StatusBadRequest, "from 必须是 RFC3339 时间")
		return
	}
	to, err := parseTimestamp(rawTo)
	if err != nil {
		respondError(c, http.StatusBadRequest, "to 必须是 RFC3339 时间")
		return
	}

	events, err := a.events.FetchEvents(from, to)
	if err != nil {
		a.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"events": a.eventsToPayload(events)})
}

// CreateEvent 创建日历事件
func (a *API) CreateEvent(c *gin.Context) {
	input, ok := a.bindEvent(c)
	if !ok {
		return
	}
	event, err := a.events.Create(input)
	if err != nil {
		a.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"event": a.eventToPayload(*event)})
}

// UpdateEvent 整体替换日历事件的可编辑字段
func (a *API) UpdateEvent(c *gin.Context) {
	input, ok := a.bindEvent(c)
	if !ok {
		return
	}
	event, err := a.events.Update(c.Param("id"), input)
	if err != nil {
		a.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"event": a.eventToPayload(*event)})
}

// DeleteEvent 删除日历事件
func (a *API) DeleteEvent(c *gin.Context) {
	if err := a.events.Delete(c.Param("id")); err != nil {
		a.handleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (a *API) bindEvent(c *gin.Context) (service.EventInput, bool) {
	var req eventRequest
	if !bindJSON(c, &req, "请求格式错误") {
		return service.EventInput{}, false
	}

	start, err := parseTimestamp(req.StartAt)
	if err != nil {
		respondError(c, http.StatusBadRequest, "start_at 必须是 RFC3339 时间")
		return service.EventInput{}, false
	}
	input := service.EventInput{
		Title:    req.Title,
		StartAt:  start,
		AllDay:   req.AllDay,
		Location: req.Location,
		Notes:    req.Notes,
	}
	if strings.TrimSpace(req.EndAt) != "" {
		end, err := parseTimestamp(req.EndAt)
		if err != nil {
			respondError(c, http.StatusBadRequest, "end_at 必须是 RFC3339 时间")
			return service.EventInput{}, false
		}
		input.EndAt = end
	}
	return input, true
}
