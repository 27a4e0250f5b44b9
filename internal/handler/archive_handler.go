package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ListArchive 列出归档记录，grouped=1 时按周分组
func (a *API) ListArchive(c *gin.Context) {
	if isTruthy(c.Query("grouped")) {
		groups, err := a.archive.ListByWeek()
		if err != nil {
			a.handleServiceError(c, err)
			return
		}
		payload := make([]gin.H, 0, len(groups))
		for _, group := range groups {
			var weekStart, weekRange interface{}
			if group.WeekStart != nil {
				weekStart = a.formatDay(*group.WeekStart)
				weekRange = a.weeks.FormatWeekRange(*group.WeekStart)
			}
			payload = append(payload, gin.H{
				"week_start": weekStart,
				"week_range": weekRange,
				"goals":      a.archivedToPayload(group.Goals),
			})
		}
		c.JSON(http.StatusOK, gin.H{"weeks": payload})
		return
	}

	goals, err := a.archive.List()
	if err != nil {
		a.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"goals": a.archivedToPayload(goals)})
}

// RunArchive 立即归档今天之前完成的目标
func (a *API) RunArchive(c *gin.Context) {
	count, err := a.archive.ArchiveCompletedBeforeToday()
	if err != nil {
		a.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"archived": count})
}

// DeleteArchivedGoal 删除单条归档
func (a *API) DeleteArchivedGoal(c *gin.Context) {
	if err := a.archive.Delete(c.Param("id")); err != nil {
		a.handleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ClearArchive 清空全部归档
func (a *API) ClearArchive(c *gin.Context) {
	count, err := a.archive.ClearAll()
	if err != nil {
		a.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": count})
}
