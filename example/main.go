// Package main is a minimal liveserver program: serve "Hello World!" for
// ten seconds on an ephemeral port, then stop.
//
//	go run ./example
//	# Then: curl <printed URL>
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/shashiranjanraj/liveserver/pkg/server"
)

func main() {
	ctx := context.Background()

	// New also creates the router returned by App.
	s := server.New()

	s.App().Get("/", "home", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "Hello World!")
	})

	base, err := s.Listen(ctx, 0, "")
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(base)

	time.Sleep(10 * time.Second)

	if err := s.Stop(ctx); err != nil {
		log.Fatal(err)
	}
}
