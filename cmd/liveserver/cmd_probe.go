package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/liveserver/pkg/client"
	"github.com/shashiranjanraj/liveserver/pkg/logger"
	"github.com/shashiranjanraj/liveserver/pkg/server"
)

var probeMethod string

// liveserver probe [path]
var probeCmd = &cobra.Command{
	Use:   "probe [path]",
	Short: "Start the demo app, fetch one path and stop",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := "/"
		if len(args) == 1 {
			path = args[0]
		}

		return server.WithServer(cmd.Context(), func(ctx context.Context, s *server.Server) error {
			registerDemo(s.App())

			resp, err := s.Fetch(ctx, path, client.NewOptions(strings.ToUpper(probeMethod)))
			if err != nil {
				return err
			}
			body, err := client.ReadText(resp)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), resp.Status)
			fmt.Fprintln(cmd.OutOrStdout(), body)
			return nil
		}, server.WithLogger(logger.L))
	},
}

func init() {
	probeCmd.Flags().StringVarP(&probeMethod, "method", "X", "GET", "request method")
}
