package db

import (
	"errors"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DefaultFileName 为数据库文件的默认名称。
const DefaultFileName = "goaltracker.db"

// Models 返回需要自动迁移的全部模型。
func Models() []any {
	return []any{
		&Goal{},
		&ArchivedGoal{},
		&WeeklyRecap{},
		&CalendarEvent{},
		&SystemSetting{},
	}
}

// Init 打开 SQLite 数据库并执行自动迁移。
// databasePath 为空时将回退到默认值 goaltracker.db。
func Init(databasePath string, gormLogger logger.Interface) (*gorm.DB, error) {
	path := strings.TrimSpace(databasePath)
	if path == "" {
		path = DefaultFileName
	}

	if err := ensureParentDir(path); err != nil {
		return nil, err
	}

	cfg := &gorm.Config{}
	if gormLogger != nil {
		cfg.Logger = gormLogger
	}

	gdb, err := gorm.Open(sqlite.Open(buildDSN(path)), cfg)
	if err != nil {
		return nil, err
	}

	// 单进程单写入者：所有读写排队到同一个连接上
	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)

	if err := Migrate(gdb); err != nil {
		sqlDB.Close()
		return nil, err
	}

	return gdb, nil
}

// Migrate 为核心模型创建或更新表结构。
func Migrate(gdb *gorm.DB) error {
	return gdb.AutoMigrate(Models()...)
}

// Close 关闭底层连接。
func Close(gdb *gorm.DB) error {
	if gdb == nil {
		return nil
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func buildDSN(path string) string {
	if path == ":memory:" || strings.HasPrefix(path, "file:") {
		return path
	}

	params := url.Values{}
	params.Add("_journal_mode", "WAL")
	params.Add("_busy_timeout", "5000")
	params.Add("_foreign_keys", "on")

	if strings.Contains(path, "?") {
		return path + "&" + params.Encode()
	}
	return path + "?" + params.Encode()
}

func ensureParentDir(path string) error {
	if path == ":memory:" || strings.HasPrefix(path, "file:") {
		return nil
	}

	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}

	info, err := os.Stat(dir)
	if err == nil {
		if !info.IsDir() {
			return errors.New("database path parent is not a directory")
		}
		return nil
	}

	if os.IsNotExist(err) {
		return os.MkdirAll(dir, 0o755)
	}

	return err
}
