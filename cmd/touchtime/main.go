// touchtime: serves a browser watch face that tells the time by vibration.
// Phones connect over WebSocket; the server classifies touches and sends
// back haptic patterns for navigator.vibrate.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/teslashibe/go-touchtime/internal/config"
	"github.com/teslashibe/go-touchtime/internal/log"
	"github.com/teslashibe/go-touchtime/pkg/touchtime"
	"github.com/teslashibe/go-touchtime/pkg/watch"
	"github.com/teslashibe/go-touchtime/pkg/web"
)

var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// Command line flags override the environment
	port := flag.Int("port", cfg.Port, "HTTP server port")
	static := flag.String("static", cfg.StaticDir, "Directory holding the watch face page")
	level := flag.String("log-level", cfg.LogLevel, "Log level: debug, info, warn, error")
	zone := flag.String("tz", cfg.TimeZone, "Default time zone for faces that report no offset")
	debug := flag.Bool("debug", false, "Enable debug logging and request logs")
	flag.Parse()

	cfg.Port, cfg.StaticDir, cfg.TimeZone = *port, *static, *zone
	if *debug {
		*level = "debug"
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	log.Init(*level)
	logger := log.With("component", "main")

	loc, _ := cfg.Location()
	faces := watch.NewHub(
		watch.WithClock(touchtime.SystemClock{Location: loc}),
		watch.WithLogger(log.L()),
	)
	server := web.NewServer(faces,
		web.WithAddr(cfg.Addr()),
		web.WithStaticDir(cfg.StaticDir),
		web.WithVersion(version),
		web.WithRequestLog(*debug),
		web.WithLogger(log.L()),
	)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	logger.Info("touchtime starting",
		"version", version,
		"face", fmt.Sprintf("http://localhost:%d/", cfg.Port),
		"events", fmt.Sprintf("ws://localhost:%d/ws/events", cfg.Port),
		"zone", loc.String(),
	)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start(ctx)
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutting down")
	case err := <-errCh:
		if err != nil {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}

	done := make(chan struct{})
	go func() {
		server.Shutdown()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		logger.Warn("shutdown timed out")
	}
}
