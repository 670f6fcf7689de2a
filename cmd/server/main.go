package main

import (
	"fmt"
	"os"
	"syscall"

	"github.com/ram-us/internal/app"
	"github.com/ram-us/internal/config"
	"github.com/ram-us/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

const (
	ansiReset = "\033[0m"
	ansiBold  = "\033[1m"
	ansiCyan  = "\033[36m"
)

func main() {
	if err := newServerCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newServerCommand() *cobra.Command {
	var mode string
	cmd := &cobra.Command{
		Use:           "ramus-server",
		Short:         "RAM-US storefront API and queue worker",
		SilenceUsage:  true,
		SilenceErrors: true,
		PreRunE: func(*cobra.Command, []string) error {
			return app.ValidateMode(mode)
		},
		RunE: func(*cobra.Command, []string) error {
			printBanner(mode)
			cfg := config.Load()
			logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
			if cfg.Server.Mode == "release" {
				gin.SetMode(gin.ReleaseMode)
			}

			err := app.Prepare(cfg, app.AdminSeed{
				Username: os.Getenv("RAMUS_DEFAULT_ADMIN_USERNAME"),
				Password: os.Getenv("RAMUS_DEFAULT_ADMIN_PASSWORD"),
			})
			if err == nil {
				err = app.Run(app.Options{
					Config:  cfg,
					Logger:  logger.S(),
					Signals: []os.Signal{syscall.SIGINT, syscall.SIGTERM},
					Mode:    mode,
				})
			}
			if err != nil {
				logger.Errorw("server_exit", "error", err)
				_ = logger.Z().Sync()
			}
			return err
		},
	}
	cmd.Flags().StringVar(&mode, "mode", app.ModeAll, "all | api | worker")
	return cmd
}

func printBanner(mode string) {
	fmt.Println(ansiCyan + ansiBold + "RAM-US" + ansiReset + ansiCyan + " · автозапчасти · mode=" + mode + ansiReset)
}
