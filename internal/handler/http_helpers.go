package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/goaltracker/internal/service"
)

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

func bindJSON(c *gin.Context, dst interface{}, message string) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		respondError(c, http.StatusBadRequest, message)
		return false
	}
	return true
}

// handleServiceError 按错误类别映射状态码：校验 400，不存在 404，其余 500
func (a *API) handleServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrValidation):
		respondError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrGoalNotFound),
		errors.Is(err, service.ErrArchivedGoalNotFound),
		errors.Is(err, service.ErrRecapNotFound),
		errors.Is(err, service.ErrEventNotFound):
		respondError(c, http.StatusNotFound, err.Error())
	default:
		a.logger.Error("request failed", "method", c.Request.Method, "path", c.FullPath(), "error", err)
		c.Error(err)
		respondError(c, http.StatusInternalServerError, "服务器内部错误")
	}
}

func (a *API) weekParam(c *gin.Context) (time.Time, bool) {
	week, err := a.weeks.ParseWeek(c.Param("week"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的周参数，格式应为 YYYY-MM-DD")
		return time.Time{}, false
	}
	return week, true
}

func (a *API) optionalWeekQuery(c *gin.Context) (*time.Time, bool) {
	raw := strings.TrimSpace(c.Query("week"))
	if raw == "" {
		return nil, true
	}
	week, err := a.weeks.ParseWeek(raw)
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的周参数，格式应为 YYYY-MM-DD")
		return nil, false
	}
	return &week, true
}

// parseOptionalDay 解析可选日期，nil 或空字符串表示清除。
func (a *API) parseOptionalDay(raw *string) (*time.Time, error) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil, nil
	}
	day, err := a.weeks.ParseDay(*raw)
	if err != nil {
		return nil, err
	}
	return &day, nil
}

func parseTimestamp(raw string) (time.Time, error) {
	return time.Parse(time.RFC3339, strings.TrimSpace(raw))
}

func isTruthy(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "1", "true", "yes":
		return true
	default:
		return false
	}
}
