package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fastygo/tasktracker/internal/config"
	"github.com/fastygo/tasktracker/pkg/logger"
)

var rootCmd = &cobra.Command{
	Use:   "tasktracker",
	Short: "Task tracker HTTP API",
	Long: `Serves the task tracker REST API: signup and login with bearer tokens,
owner-scoped task CRUD and a read-through cache for task lists.`,
	SilenceUsage: true,
	RunE:         runServe,
}

var envFile string

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded before reading the environment")
}

// bootstrap loads configuration and builds the process logger.
func bootstrap() (*config.Config, *zap.Logger, error) {
	cfg, err := config.LoadFile(envFile)
	if err != nil {
		return nil, nil, err
	}
	log, err := logger.New(logger.Config{
		Level:    cfg.Logger.Level,
		Encoding: cfg.Logger.Encoding,
	})
	if err != nil {
		return nil, nil, err
	}
	return cfg, log.With(zap.String("service", cfg.AppName)), nil
}
