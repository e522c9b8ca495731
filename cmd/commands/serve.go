package commands

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"fruit-quality-bot/internal/api/rest"
	"fruit-quality-bot/internal/api/telegram"
)

func serveCmd() *cobra.Command {
	var noBot bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the Telegram bot",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if cfg.LogLevel != "debug" {
				gin.SetMode(gin.ReleaseMode)
			}
			router := rest.NewEngine(logger, cfg.MaxUploadBytes)
			rest.RegisterRoutes(router, appCtr.AssessmentService, rest.Options{
				MaxUploadSize: cfg.MaxUploadBytes,
				ScorerName:    appCtr.Scorer.Name(),
			}, logger)

			server := &http.Server{Addr: cfg.HTTPAddr, Handler: router}

			ctx, cancel := context.WithCancel(ctx)
			defer cancel()

			errCh := make(chan error, 2)
			running := 1
			go func() {
				logger.Info("http api listening", zap.String("addr", cfg.HTTPAddr), zap.String("scorer", appCtr.Scorer.Name()))
				errCh <- rest.Serve(ctx, server, nil, cfg.ShutdownTimeout, logger)
			}()

			if cfg.TelegramToken != "" && !noBot {
				bot, err := telegram.NewBot(cfg.TelegramToken, appCtr.AssessmentService, cfg.MaxUploadBytes, logger)
				if err != nil {
					cancel()
					return errors.Join(err, <-errCh)
				}
				running++
				go func() {
					logger.Info("telegram bot is running")
					errCh <- bot.Run(ctx)
				}()
			} else {
				logger.Info("telegram bot is disabled")
			}

			// Первая ошибка или завершение любого компонента останавливает остальные.
			var errs []error
			for i := 0; i < running; i++ {
				errs = append(errs, <-errCh)
				cancel()
			}
			return errors.Join(errs...)
		},
	}

	cmd.Flags().BoolVar(&noBot, "no-bot", false, "do not start the Telegram bot even if TELEGRAM_TOKEN is set")
	return cmd
}
