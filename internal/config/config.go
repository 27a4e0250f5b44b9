package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// AppName 用于数据目录与日志中的应用标识。
const AppName = "GoalTracker"

// AppConfig 汇总运行服务所需的基础配置。
type AppConfig struct {
	AppEnv            string
	ListenAddr        string
	DatabasePath      string
	GinMode           string
	DataDir           string
	InboxEnabled      bool
	InboxDir          string
	InboxPollInterval time.Duration
	RemindersEnabled  bool
	Timezone          string
	SentryDSN         string
}

// IsDevelopment 判断是否为开发环境。
func (c AppConfig) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// Location 解析配置的时区，未配置或无法识别时使用本地时区。
func (c AppConfig) Location() *time.Location {
	if c.Timezone == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		slog.Warn("unknown timezone, falling back to local", "timezone", c.Timezone, "error", err)
		return time.Local
	}
	return loc
}

// LoadDotEnv 在存在 .env 文件时加载它，已有的环境变量不会被覆盖。
func LoadDotEnv(paths ...string) {
	if err := godotenv.Load(paths...); err != nil {
		slog.Debug("no .env file found, using environment variables")
	}
}

// Load 从环境变量读取应用配置，并为缺失项提供默认值。
func Load() AppConfig {
	dataDir := envString("DATA_DIR", DefaultDataDir())

	return AppConfig{
		AppEnv:            envString("APP_ENV", "production"),
		ListenAddr:        envString("LISTEN_ADDR", "127.0.0.1:8087"),
		DatabasePath:      envString("DATABASE_PATH", filepath.Join(dataDir, "goaltracker.db")),
		GinMode:           envString("GIN_MODE", "release"),
		DataDir:           dataDir,
		InboxEnabled:      envBool("INBOX_ENABLED", true),
		InboxDir:          envString("INBOX_DIR", filepath.Join(dataDir, "inbox")),
		InboxPollInterval: envDuration("INBOX_POLL_INTERVAL", 5*time.Second),
		RemindersEnabled:  envBool("REMINDERS_ENABLED", true),
		Timezone:          envString("TIMEZONE", ""),
		SentryDSN:         envString("SENTRY_DSN", ""),
	}
}

// DefaultDataDir 返回各平台约定的用户数据目录。
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}

	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", AppName)
	case "windows":
		if local := strings.TrimSpace(os.Getenv("LOCALAPPDATA")); local != "" {
			return filepath.Join(local, AppName)
		}
		return filepath.Join(home, "AppData", "Local", AppName)
	default:
		if xdg := strings.TrimSpace(os.Getenv("XDG_DATA_HOME")); xdg != "" {
			return filepath.Join(xdg, strings.ToLower(AppName))
		}
		return filepath.Join(home, ".local", "share", strings.ToLower(AppName))
	}
}

func envString(key, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}

func envBool(key string, fallback bool) bool {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		slog.Warn("invalid boolean env, using default", "key", key, "value", value)
		return fallback
	}
	return parsed
}

func envDuration(key string, fallback time.Duration) time.Duration {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil || parsed <= 0 {
		slog.Warn("invalid duration env, using default", "key", key, "value", value)
		return fallback
	}
	return parsed
}
