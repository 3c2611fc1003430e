package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	sim "github.com/w0fv1/GamblerSimulation/sim"
	"github.com/w0fv1/GamblerSimulation/server"
)

// addrEnv overrides the default listen address when --addr is not given.
const addrEnv = "GAMBLER_ADDR"

var (
	serveAddr     string // Listen address
	serveSeed     int64  // Root seed for per-run generators
	serveLogLevel string // Log verbosity level
)

// serveCmd exposes the simulator over HTTP
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve simulations over HTTP",
	Run: func(cmd *cobra.Command, args []string) {
		setLogLevel(serveLogLevel)
		addr := listenAddr(cmd, os.Getenv(addrEnv))

		key := sim.NewSimulationKey(time.Now().UnixNano())
		if cmd.Flags().Changed("seed") {
			key = sim.NewSimulationKey(serveSeed)
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		runs := server.NewRegistry(ctx, key, server.NewMetrics(reg))
		srv := server.New(runs, reg)

		stopped := make(chan struct{})
		go func() {
			defer close(stopped)
			<-ctx.Done()
			logrus.Info("Shutting down")
			if err := srv.Shutdown(); err != nil {
				logrus.Errorf("Shutdown: %v", err)
			}
		}()

		if err := srv.Listen(addr); err != nil {
			logrus.Fatalf("Server failed: %v", err)
		}
		<-stopped
		logrus.Info("Server stopped.")
	},
}

// listenAddr picks --addr when set explicitly, else env, else the flag default.
func listenAddr(cmd *cobra.Command, env string) string {
	if !cmd.Flags().Changed("addr") && env != "" {
		return env
	}
	return serveAddr
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8080", "Listen address (env "+addrEnv+")")
	serveCmd.Flags().Int64Var(&serveSeed, "seed", 0, "Root seed for runs that do not set their own (default: time-derived)")
	serveCmd.Flags().StringVar(&serveLogLevel, "log", "info", "Log level (trace, debug, info, warn, error, fatal, panic)")

	rootCmd.AddCommand(serveCmd)
}
