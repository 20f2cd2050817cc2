package http

import (
	"log/slog"
	"path/filepath"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/spf13/cobra"
	"go.uber.org/fx"

	"github.com/Defimaso/Diario362-sub001/config"
	"github.com/Defimaso/Diario362-sub001/internal/api/http"
	"github.com/Defimaso/Diario362-sub001/internal/api/http/router"
	"github.com/Defimaso/Diario362-sub001/internal/app"
	"github.com/Defimaso/Diario362-sub001/pkg/logs"
)

func NewStartCommand() *cobra.Command {
	var shutdownTimeout time.Duration

	cmd := &cobra.Command{
		Use:   "start",
		Short: "Start the HTTP API server with the event worker and scheduler",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgPath, err := cmd.Root().PersistentFlags().GetString("config")
			if err != nil {
				return err
			}

			cfg, err := config.ReadConfig(filepath.Dir(cfgPath))
			if err != nil {
				return err
			}

			// Set up structured logger before fx starts so all logs use it.
			logger, err := logs.New(cfg)
			if err != nil {
				return err
			}
			defer logger.Close()
			slog.SetDefault(logger.Logger)

			fxApp := fx.New(
				fx.Supply(cfg),
				app.LoggerOption,
				app.InfraModule,
				app.ServiceModule,
				app.WorkerModule,
				app.SchedulerModule,
				router.Module,
				http.Module,
				fx.Invoke(func(*fiber.App) {}),
				fx.StopTimeout(shutdownTimeout),
			)

			fxApp.Run()
			return fxApp.Err()
		},
	}

	cmd.Flags().DurationVar(&shutdownTimeout, "shutdown-timeout", 30*time.Second, "Maximum time to wait for graceful shutdown")

	return cmd
}
