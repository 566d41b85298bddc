package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"
	"golang.org/x/term"

	"github.com/tomz197/kanji-shooter/internal/config"
	"github.com/tomz197/kanji-shooter/internal/draw"
	"github.com/tomz197/kanji-shooter/internal/loop/client"
	gameconfig "github.com/tomz197/kanji-shooter/internal/loop/config"
	"github.com/tomz197/kanji-shooter/internal/screen"
)

func main() {
	logger := config.NewLogger("game")

	cfg, err := gameconfig.Load(config.GetEnv("GAME_CONFIG", ""))
	if err != nil {
		logger.Fatal("failed to load game config", "err", err)
	}
	seed := config.GetEnvUint("GAME_SEED", uint64(time.Now().UnixNano()))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Logs would tear the frame while the game owns the terminal, so the
	// frontends run silent and only failures are reported afterwards.
	switch renderer := config.GetEnv("GAME_RENDERER", "ansi"); renderer {
	case "ansi":
		err = runANSI(ctx, cfg, seed)
	case "tcell":
		err = runTcell(ctx, cfg, seed)
	default:
		logger.Fatal("unknown renderer", "renderer", renderer)
	}
	if err != nil {
		logger.Error("game error", "err", err)
		os.Exit(1)
	}
}

func runANSI(ctx context.Context, cfg gameconfig.Config, seed uint64) error {
	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("enable raw mode: %w", err)
	}
	defer func() {
		_ = term.Restore(fd, oldState)
	}()

	c := client.NewClient(os.Stdin, os.Stdout, client.ClientOptions{
		Profile: draw.ColorProfile(os.Getenv("TERM"), os.Getenv("COLORTERM")),
		Config:  cfg,
		Seed:    seed,
	})
	return c.Run(ctx)
}

func runTcell(ctx context.Context, cfg gameconfig.Config, seed uint64) error {
	s, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("create screen: %w", err)
	}
	if err := s.Init(); err != nil {
		return fmt.Errorf("init screen: %w", err)
	}
	defer s.Fini()

	return screen.New(s, screen.Options{Config: cfg, Seed: seed}).Run(ctx)
}
