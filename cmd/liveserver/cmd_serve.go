package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/liveserver/config"
	"github.com/shashiranjanraj/liveserver/pkg/logger"
	"github.com/shashiranjanraj/liveserver/pkg/server"
)

var (
	serveHost string
	servePort int
)

// liveserver serve
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the demo app until SIGINT/SIGTERM",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Load(); err != nil {
			return fmt.Errorf("config: %w", err)
		}

		host, port := config.ListenHost(), config.ListenPort()
		if cmd.Flags().Changed("host") {
			host = serveHost
		}
		if cmd.Flags().Changed("port") {
			port = servePort
		}

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		s := server.New(server.WithLogger(logger.L))
		registerDemo(s.App())

		base, err := s.Listen(ctx, port, host)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), base)

		<-ctx.Done()
		return s.Stop(context.Background())
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveHost, "host", "", "bind host (default: all interfaces)")
	serveCmd.Flags().IntVar(&servePort, "port", 0, "bind port (default: ephemeral)")
}
