package logger

import (
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/getsentry/sentry-go"
	slogmulti "github.com/samber/slog-multi"
	slogsentry "github.com/samber/slog-sentry/v2"
)

// Options 控制日志输出格式与 Sentry 上报。
type Options struct {
	Development bool
	SentryDSN   string
	Output      io.Writer
}

// New 根据环境构造 slog.Logger
// 开发环境：文本格式、Debug 级别；其他环境：JSON 格式、Info 级别
// 配置了 SentryDSN 时额外把 Error 级别日志上报到 Sentry
func New(opts Options) *slog.Logger {
	out := opts.Output
	if out == nil {
		out = os.Stderr
	}

	var handlers []slog.Handler
	if opts.Development {
		handlers = append(handlers, slog.NewTextHandler(out, &slog.HandlerOptions{Level: slog.LevelDebug}))
	} else {
		handlers = append(handlers, slog.NewJSONHandler(out, &slog.HandlerOptions{Level: slog.LevelInfo}))
	}

	if opts.SentryDSN != "" {
		err := sentry.Init(sentry.ClientOptions{
			Dsn:              opts.SentryDSN,
			TracesSampleRate: 1.0,
		})
		if err == nil {
			handlers = append(handlers, slogsentry.Option{Level: slog.LevelError}.NewSentryHandler())
		} else {
			slog.New(handlers[0]).Warn("sentry init failed", "error", err)
		}
	}

	if len(handlers) == 1 {
		return slog.New(handlers[0])
	}
	return slog.New(slogmulti.Fanout(handlers...))
}

// Init 构造 logger 并设置为 slog 默认 logger。
func Init(opts Options) *slog.Logger {
	log := New(opts)
	slog.SetDefault(log)
	return log
}

// Discard 返回丢弃全部输出的 logger，供测试使用。
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// Flush 在进程退出前等待 Sentry 发送缓冲中的事件，未初始化 Sentry 时立即返回。
func Flush(timeout time.Duration) {
	sentry.Flush(timeout)
}
