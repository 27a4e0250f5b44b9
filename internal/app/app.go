package app

import (
	"log/slog"
	"time"

	"github.com/goaltracker/internal/db"
	"github.com/goaltracker/internal/reminder"
	"github.com/goaltracker/internal/service"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Options 描述构造 App 所需的外部依赖。
type Options struct {
	DatabasePath string
	Location     *time.Location
	Clock        service.Clock
	Logger       *slog.Logger
	GormLogger   logger.Interface
}

// App 持有数据库连接与全部服务，是应用的组合根
type App struct {
	DB       *gorm.DB
	Logger   *slog.Logger
	Feed     *service.ChangeFeed
	Weeks    *service.WeekService
	Goals    *service.GoalService
	Archive  *service.ArchiveService
	Recaps   *service.RecapService
	Rollover *service.RolloverService
	Settings *service.SystemSettingService
	Events   *service.EventService
	Briefing *reminder.Builder
}

// StartupReport 汇总启动阶段批处理的结果。
type StartupReport struct {
	Rollover service.RolloverResult
	Archived int
}

// New 打开数据库并构造全部服务
func New(opts Options) (*App, error) {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}

	gormLogger := opts.GormLogger
	if gormLogger == nil {
		gormLogger = logger.Default.LogMode(logger.Silent)
	}

	gdb, err := db.Init(opts.DatabasePath, gormLogger)
	if err != nil {
		return nil, err
	}

	return NewWithDB(gdb, opts.Clock, opts.Location, log), nil
}

// NewWithDB 使用已打开的数据库构造 App，主要供测试使用。
func NewWithDB(gdb *gorm.DB, clock service.Clock, location *time.Location, log *slog.Logger) *App {
	if log == nil {
		log = slog.Default()
	}

	feed := service.NewChangeFeed()
	weeks := service.NewWeekService(clock, location)
	goals := service.NewGoalService(gdb, weeks, feed)
	events := service.NewEventService(gdb, weeks, feed)

	return &App{
		DB:       gdb,
		Logger:   log,
		Feed:     feed,
		Weeks:    weeks,
		Goals:    goals,
		Archive:  service.NewArchiveService(gdb, weeks, feed),
		Recaps:   service.NewRecapService(gdb, weeks, feed),
		Rollover: service.NewRolloverService(gdb, weeks, feed),
		Settings: service.NewSystemSettingService(gdb, weeks),
		Events:   events,
		Briefing: reminder.NewBuilder(goals, events, weeks),
	}
}

// Startup 在界面可交互之前执行一次结转与归档
// 任何一步失败都只记录日志，启动流程继续
func (a *App) Startup() StartupReport {
	var report StartupReport

	// 读取失败时不写入新的启动周，下次启动仍有机会结转
	lastLaunch, err := a.Settings.GetLastLaunchWeek()
	if err != nil {
		a.Logger.Error("read last launch week failed", "error", err)
	} else {
		result, err := a.Rollover.Run(lastLaunch)
		if err != nil {
			a.Logger.Error("rollover failed", "error", err)
		} else {
			report.Rollover = result
			if result.Performed {
				a.Logger.Info("rollover completed",
					"from_week", result.FromWeek.Format(service.WeekDateFormat),
					"to_week", result.ToWeek.Format(service.WeekDateFormat),
					"copied", len(result.Copied))
			}
		}

		if err := a.Settings.SetLastLaunchWeek(a.Weeks.CurrentWeekStart()); err != nil {
			a.Logger.Error("write last launch week failed", "error", err)
		}
	}

	archived, err := a.Archive.ArchiveCompletedBeforeToday()
	if err != nil {
		a.Logger.Error("archive completed goals failed", "error", err)
	} else {
		report.Archived = archived
		if archived > 0 {
			a.Logger.Info("archived completed goals", "count", archived)
		}
		if err := a.Settings.SetLastArchiveRun(a.Weeks.Now()); err != nil {
			a.Logger.Warn("write last archive run failed", "error", err)
		}
	}

	return report
}

// Close 关闭数据库连接。
func (a *App) Close() error {
	return db.Close(a.DB)
}
