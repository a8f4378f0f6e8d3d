package app

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/vovakirdan/wirecircle/internal/config"
)

func TestNewRejectsInvalidConfig(t *testing.T) {
	logger := zerolog.New(nil)
	cfg := config.Default()
	cfg.MaxHistory = 0

	if _, err := New(&cfg, &logger); err == nil {
		t.Fatal("expected error for invalid config")
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	logger := zerolog.New(nil)
	cfg := config.Default()
	cfg.Addr = "127.0.0.1:0"
	cfg.StaticDir = ""
	cfg.ShutdownTimeout = time.Second

	application, err := New(&cfg, &logger)
	if err != nil {
		t.Fatalf("new app: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		errCh <- application.Run(ctx)
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-errCh:
		if err != nil {
			t.Fatalf("run returned error: %v", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("app did not stop after cancel")
	}
}

func TestRunReportsListenError(t *testing.T) {
	logger := zerolog.New(nil)
	cfg := config.Default()
	cfg.Addr = "256.0.0.1:bad"
	cfg.StaticDir = ""

	application, err := New(&cfg, &logger)
	if err != nil {
		t.Fatalf("new app: %v", err)
	}

	select {
	case err := <-runAsync(application):
		if err == nil {
			t.Fatal("expected listen error")
		}
	case <-time.After(3 * time.Second):
		t.Fatal("app did not fail on bad address")
	}
}

func runAsync(a *App) <-chan error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- a.Run(context.Background())
	}()
	return errCh
}
