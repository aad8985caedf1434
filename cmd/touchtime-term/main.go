// touchtime-term: a watch face in the terminal. Drag across the dial with
// the mouse; feedback plays on a tone, a Pro Controller's rumble motor, or
// the log.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/gdamore/tcell/v2"
	"github.com/teslashibe/go-touchtime/internal/config"
	"github.com/teslashibe/go-touchtime/internal/log"
	"github.com/teslashibe/go-touchtime/pkg/haptics"
	"github.com/teslashibe/go-touchtime/pkg/termface"
	"github.com/teslashibe/go-touchtime/pkg/touchtime"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	backend := flag.String("haptics", cfg.Haptics, "Feedback backend: log, tone, rumble")
	toneHz := flag.Float64("tone-hz", cfg.ToneHz, "Tone frequency for the tone backend")
	zone := flag.String("tz", cfg.TimeZone, "Time zone (default: local)")
	logFile := flag.String("log", "touchtime-term.log", "Log file (the terminal is taken by the face)")
	level := flag.String("log-level", cfg.LogLevel, "Log level: debug, info, warn, error")
	flag.Parse()

	cfg.Haptics, cfg.ToneHz, cfg.TimeZone = *backend, *toneHz, *zone
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	f, err := os.OpenFile(*logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: open log: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()
	log.InitWriter(f, *level)

	if err := run(cfg); err != nil {
		log.Error("touchtime-term failed", "error", err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(cfg config.Config) error {
	actuator, closeActuator, err := openActuator(cfg)
	if err != nil {
		return err
	}
	defer closeActuator()

	loc, _ := cfg.Location()
	engine := touchtime.NewEngine(actuator,
		touchtime.WithClock(touchtime.SystemClock{Location: loc}),
		touchtime.WithLogger(log.L()),
	)

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("init screen: %w", err)
	}
	defer screen.Fini()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	log.Info("terminal face started", "haptics", cfg.Haptics)
	err = termface.New(screen, engine, termface.WithLogger(log.L())).Run(ctx)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// openActuator builds the configured backend and its cleanup.
func openActuator(cfg config.Config) (haptics.Actuator, func(), error) {
	logger := log.L()

	switch strings.ToLower(cfg.Haptics) {
	case config.BackendTone:
		motor, err := haptics.NewToneMotor(cfg.ToneHz)
		if err != nil {
			return nil, nil, fmt.Errorf("tone backend: %w", err)
		}
		player := haptics.NewPlayer(motor, haptics.WithPlayerLogger(logger))
		return player, func() {
			player.Close()
			motor.Close()
		}, nil

	case config.BackendRumble:
		motor, err := haptics.OpenRumbleMotor()
		if err != nil {
			return nil, nil, fmt.Errorf("rumble backend: %w", err)
		}
		player := haptics.NewPlayer(motor, haptics.WithPlayerLogger(logger))
		return player, func() {
			player.Close()
			motor.Close()
		}, nil

	default:
		return haptics.NewLogActuator(logger), func() {}, nil
	}
}
