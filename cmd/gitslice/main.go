package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bashhack/gitslice/internal/config"
)

// Version information - injected at build time
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// shutdownGrace is how long a blocked prompt may ignore cancellation before
// the process cleans up and exits on its own.
const shutdownGrace = 3 * time.Second

func main() {
	app := NewDefaultApp(config.VersionInfo{
		Version: version,
		Commit:  commit,
		Date:    date,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	go func() {
		sig := <-c
		_, _ = fmt.Fprintf(app.Stderr, "\nReceived signal %v, stopping gitslice...\n", sig)

		// Cancel the context so running git commands and the session stop
		cancel()

		// A prompt blocked on a terminal read cannot observe the context,
		// so release the lock and leave after a grace period.
		time.Sleep(shutdownGrace)
		_ = app.Close()
		app.exit(1)
	}()

	app.exit(app.Execute(ctx, os.Args[1:]))
}
