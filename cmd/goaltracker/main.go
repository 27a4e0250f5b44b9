package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/goaltracker/internal/app"
	"github.com/goaltracker/internal/config"
	"github.com/goaltracker/internal/logger"
	"github.com/goaltracker/internal/service"
	"github.com/spf13/cobra"
)

var Version = "dev"

// cliState 在子命令之间共享根命令解析出的配置
type cliState struct {
	cfg     config.AppConfig
	log     *slog.Logger
	dbPath  string
	envFile string
	jsonOut bool
	clock   service.Clock
}

func main() {
	state := &cliState{}
	err := newRootCmd(state).Execute()
	logger.Flush(2 * time.Second)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd(state *cliState) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "goaltracker",
		Short:         "GoalTracker - weekly goals, recaps and reminders",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if state.envFile != "" {
				config.LoadDotEnv(state.envFile)
			} else {
				config.LoadDotEnv()
			}
			state.cfg = config.Load()
			if state.dbPath != "" {
				state.cfg.DatabasePath = state.dbPath
			}
			state.log = logger.Init(logger.Options{
				Development: state.cfg.IsDevelopment(),
				SentryDSN:   state.cfg.SentryDSN,
				Output:      cmd.ErrOrStderr(),
			})
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&state.dbPath, "db", "", "SQLite database path (overrides DATABASE_PATH)")
	rootCmd.PersistentFlags().StringVar(&state.envFile, "env-file", "", "load environment from this file instead of .env")
	rootCmd.PersistentFlags().BoolVarP(&state.jsonOut, "json", "j", false, "Output as JSON")

	rootCmd.AddCommand(serveCmd(state))
	rootCmd.AddCommand(goalsCmd(state))
	rootCmd.AddCommand(archiveCmd(state))
	rootCmd.AddCommand(recapCmd(state))
	rootCmd.AddCommand(rolloverCmd(state))

	return rootCmd
}

// openApp 按当前配置打开数据库并构造服务
func (s *cliState) openApp() (*app.App, error) {
	location := s.cfg.Location()
	clock := s.clock
	if clock == nil {
		clock = service.SystemClock{Location: location}
	}
	a, err := app.New(app.Options{
		DatabasePath: s.cfg.DatabasePath,
		Location:     location,
		Clock:        clock,
		Logger:       s.log,
	})
	if err != nil {
		return nil, fmt.Errorf("open database %s: %w", s.cfg.DatabasePath, err)
	}
	return a, nil
}

// parseWeekFlag 解析 --week，空值表示本周
func parseWeekFlag(a *app.App, raw string) (time.Time, error) {
	return a.Weeks.ParseWeek(raw)
}
