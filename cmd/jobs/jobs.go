package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/fx"

	"github.com/Defimaso/Diario362-sub001/config"
	"github.com/Defimaso/Diario362-sub001/internal/app"
	"github.com/Defimaso/Diario362-sub001/internal/service/absence"
	"github.com/Defimaso/Diario362-sub001/internal/service/reminder"
	"github.com/Defimaso/Diario362-sub001/pkg/logs"
)

func NewJobsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "jobs",
		Short: "Run a periodic job once and print its summary",
	}

	cmd.AddCommand(newJobCommand("absence-scan", "Alert coaches about clients who stopped checking in",
		func(ctx context.Context, s *absence.Scanner, _ *reminder.Broadcaster) (any, error) {
			return s.Run(ctx)
		}))
	cmd.AddCommand(newJobCommand("daily-reminder", "Push the check-in reminder to clients who have not checked in today",
		func(ctx context.Context, _ *absence.Scanner, b *reminder.Broadcaster) (any, error) {
			return b.Run(ctx)
		}))

	return cmd
}

type jobFunc func(ctx context.Context, s *absence.Scanner, b *reminder.Broadcaster) (any, error)

func newJobCommand(use, short string, run jobFunc) *cobra.Command {
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgPath, err := cmd.Root().PersistentFlags().GetString("config")
			if err != nil {
				return fmt.Errorf("failed to get config flag: %w", err)
			}
			cfg, err := config.ReadConfig(filepath.Dir(cfgPath))
			if err != nil {
				return fmt.Errorf("failed to read config: %w", err)
			}

			logger, err := logs.New(cfg)
			if err != nil {
				return err
			}
			defer logger.Close()
			slog.SetDefault(logger.Logger)

			var (
				scanner     *absence.Scanner
				broadcaster *reminder.Broadcaster
			)
			fxApp := fx.New(
				fx.Supply(cfg),
				app.LoggerOption,
				app.InfraModule,
				app.ServiceModule,
				fx.Populate(&scanner, &broadcaster),
			)

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			if err := fxApp.Start(ctx); err != nil {
				return fmt.Errorf("failed to start: %w", err)
			}
			defer func() {
				// Stop waits for events the scan queued.
				stopCtx, stopCancel := context.WithTimeout(context.Background(), 30*time.Second)
				defer stopCancel()
				if err := fxApp.Stop(stopCtx); err != nil {
					slog.Warn("shutdown", "err", err)
				}
			}()

			sum, err := run(ctx, scanner, broadcaster)
			if err != nil {
				return fmt.Errorf("%s: %w", use, err)
			}
			return printJSON(cmd.OutOrStdout(), sum)
		},
	}

	cmd.Flags().DurationVar(&timeout, "timeout", 5*time.Minute, "Maximum run time")

	return cmd
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
