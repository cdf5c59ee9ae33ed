package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/beatoz/beatoz-rwdpool/node"
	"github.com/beatoz/beatoz-rwdpool/rpc"
	"github.com/spf13/cobra"
	"github.com/tendermint/tendermint/libs/log"
)

func AddNodeFlags(cmd *cobra.Command) {
	cmd.Flags().String("rpc.laddr", rootConfig.RPC.ListenAddress, "RPC listen address. Port required")
	cmd.Flags().Bool("rpc.metrics_enabled", rootConfig.RPC.MetricsEnabled, "serve prometheus metrics at /metrics")
	cmd.Flags().String(
		"db_dir",
		rootConfig.DBPath,
		"database directory")
}

// NewRunNodeCmd returns the command serving the read-only API of the pool.
func NewRunNodeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "start",
		Aliases: []string{"run"},
		Short:   "Serve the reward pool API",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, xerr := node.NewPoolApp(rootConfig, logger)
			if xerr != nil {
				return fmt.Errorf("failed to create rwdpool: %w", xerr)
			}

			srv := rpc.NewServer(rootConfig.RPC.ListenAddress, rpc.NewRouter(app, app.Registry()), logger)
			if xerr := srv.Start(); xerr != nil {
				_ = app.Stop()
				return fmt.Errorf("failed to start rwdpool: %w", xerr)
			}

			logger.Info("Started rwdpool", "laddr", srv.Addr(), "height", app.Pool().Version())

			// Stop upon receiving SIGTERM or CTRL-C.
			trapSignal(logger, func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if xerr := srv.Stop(ctx); xerr != nil {
					logger.Error("unable to stop the rpc server", "error", xerr)
				}
				if xerr := app.Stop(); xerr != nil {
					logger.Error("unable to stop the rwdpool", "error", xerr)
				}
			})

			// Run forever.
			select {}
		},
	}

	AddNodeFlags(cmd)
	return cmd
}

// trapSignal() comes from tmos.TrapSignal
func trapSignal(logger log.Logger, cb func()) {
	var signals = []os.Signal{
		os.Interrupt,
		syscall.SIGHUP,
		syscall.SIGINT,
		syscall.SIGTERM,
	}

	c := make(chan os.Signal, 1)
	signal.Notify(c, signals...)
	go func() {
		for sig := range c {
			logger.Info("signal trapped", "msg", log.NewLazySprintf("captured %v, exiting...", sig.String()))
			if cb != nil {
				cb()
			}
			os.Exit(0)
		}
	}()
}
