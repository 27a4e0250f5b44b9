package router

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/goaltracker/internal/handler"
)

// SetupRouter 配置 Gin 引擎和路由
func SetupRouter(api *handler.API, logger *slog.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), handler.RequestLogger(logger))

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})

	apiGroup := r.Group("/api")
	{
		// 周视图与复盘
		weeks := apiGroup.Group("/weeks")
		{
			weeks.GET("/current", api.CurrentWeek)
			weeks.GET("/:week/goals", api.ListWeekGoals)
			weeks.GET("/:week/stats", api.WeekStats)
			weeks.GET("/:week/recap", api.GetRecap)
			weeks.PUT("/:week/recap", api.UpdateRecap)
			weeks.GET("/:week/recap/export", api.ExportRecap)
			weeks.GET("/:week/recap/html", api.RecapHTML)
		}

		goals := apiGroup.Group("/goals")
		{
			goals.POST("", api.CreateGoal)
			goals.GET("/due", api.ListDueGoals)
			goals.GET("/focus", api.ListFocusedGoals)
			goals.POST("/reorder", api.ReorderGoals)
			goals.POST("/move", api.MoveGoals)
			goals.GET("/:id", api.GetGoal)
			goals.PATCH("/:id", api.UpdateGoal)
			goals.DELETE("/:id", api.DeleteGoal)
			goals.POST("/:id/toggle", api.ToggleGoal)
			goals.POST("/:id/focus", api.ToggleGoalFocus)
		}

		archive := apiGroup.Group("/archive")
		{
			archive.GET("", api.ListArchive)
			archive.POST("/run", api.RunArchive)
			archive.DELETE("", api.ClearArchive)
			archive.DELETE("/:id", api.DeleteArchivedGoal)
		}

		events := apiGroup.Group("/events")
		{
			events.GET("", api.ListEvents)
			events.POST("", api.CreateEvent)
			events.PUT("/:id", api.UpdateEvent)
			events.DELETE("/:id", api.DeleteEvent)
		}

		apiGroup.GET("/changes", api.StreamChanges)
	}

	return r
}
