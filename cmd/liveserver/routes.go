package main

import (
	"fmt"
	"net/http"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/liveserver/pkg/metrics"
	"github.com/shashiranjanraj/liveserver/pkg/middleware"
	"github.com/shashiranjanraj/liveserver/pkg/router"
)

// registerDemo installs the demo middleware stack and routes on r.
// Middleware must come first: chi rejects Use after a route exists.
func registerDemo(r *router.Router) {
	r.Use(metrics.Middleware())
	r.Use(middleware.Recovery)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger)

	r.Get("/", "home", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("Hello World!"))
	})
	r.Get("/healthz", "health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	r.HandleFunc("/metrics", metrics.Handler())
}

// liveserver routes
var routesCmd = &cobra.Command{
	Use:   "routes",
	Short: "List the demo routes",
	RunE: func(cmd *cobra.Command, args []string) error {
		r := router.New()
		registerDemo(r)

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "METHOD\tPATH\tNAME")
		fmt.Fprintln(w, "------\t----\t----")
		for _, ri := range r.Routes() {
			fmt.Fprintf(w, "%s\t%s\t%s\n", ri.Method, ri.Path, ri.Name)
		}
		return w.Flush()
	},
}
