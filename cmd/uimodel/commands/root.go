package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-uimodel"
	"github.com/goliatone/go-uimodel/internal/telemetry"
)

var (
	logLevel string
	logger   *slog.Logger
	rt       *uimodel.Runtime
	shutdown telemetry.ShutdownFunc
)

func Execute() error {
	return newRootCmd().ExecuteContext(context.Background())
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "uimodel",
		Short:        "Inspect, scaffold and run UI models",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := logLevel
			if level == "" {
				level = os.Getenv(telemetry.EnvLogLevel)
			}
			logger = telemetry.NewLogger(cmd.ErrOrStderr(), level)

			provider, stop, err := telemetry.Setup(cmd.Context())
			if err != nil {
				return fmt.Errorf("telemetry: %w", err)
			}
			shutdown = stop
			rt = uimodel.New(
				uimodel.WithLogger(logger),
				uimodel.WithTracerProvider(provider),
			)
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if shutdown == nil {
				return nil
			}
			return shutdown(cmd.Context())
		},
	}

	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "debug, info, warn or error (default $"+telemetry.EnvLogLevel+" or info)")

	root.AddCommand(componentsCmd(), propsCmd(), parseCmd(), scaffoldCmd(), runCmd(), playCmd())
	return root
}
