package commands

import (
	"errors"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"fruit-quality-bot/config"
	"fruit-quality-bot/internal/container"
	"fruit-quality-bot/internal/logging"
)

var (
	envFile  string
	logLevel string

	cfg    *config.Config
	logger *zap.Logger
	appCtr *container.Container
)

func Execute() error {
	return execute(newRootCmd())
}

// execute запускает команду и освобождает ресурсы и при ошибке RunE:
// cobra в этом случае не вызывает PersistentPostRunE.
func execute(root *cobra.Command) error {
	err := root.Execute()
	return errors.Join(err, shutdown())
}

func shutdown() error {
	var err error
	if appCtr != nil {
		err = appCtr.Close()
		appCtr = nil
	}
	if logger != nil {
		_ = logger.Sync()
		logger = nil
	}
	return err
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "fruitbot",
		Short:         "Fruit quality classifier: Telegram bot, HTTP API and CLI",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if envFile != "" {
				cfg, err = config.LoadFile(envFile)
			} else {
				cfg, err = config.Load()
			}
			if err != nil {
				return err
			}
			if logLevel != "" {
				cfg.LogLevel = logLevel
			}

			logger, err = logging.NewLogger(cfg.LogLevel)
			if err != nil {
				return err
			}

			appCtr, err = container.New(cfg, logger)
			return err
		},
	}

	root.PersistentFlags().StringVar(&envFile, "env-file", "", "env file to load (default .env if present)")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level override (debug, info, warn, error)")

	root.AddCommand(serveCmd(), scoreCmd())
	return root
}
