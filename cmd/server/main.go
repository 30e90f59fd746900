package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"pairpad/internal/api"
	"pairpad/internal/config"
	"pairpad/internal/events"
	"pairpad/internal/exec"
	"pairpad/internal/routers"
	"pairpad/internal/session"
	"pairpad/internal/utils"
)

// seams for tests
var (
	listenAndServe = http.ListenAndServe
	exitFunc       = func(err error) { log.Fatal(err) }
)

func run(_ context.Context) error {
	logger := utils.NewLogger()
	defer logger.Sync()

	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		return err
	}

	publisher := events.NewPublisher(cfg.Redis.Addr, cfg.Redis.Channel, logger)
	defer func() { _ = publisher.Close() }()

	runner := exec.NewRunner(exec.Limits{
		WallTime: cfg.Sandbox.WallTime,
		MemoryB:  cfg.Sandbox.MemoryMB * 1024 * 1024,
		NanoCPUs: cfg.Sandbox.NanoCPUs,
	})

	registry := session.NewRegistry()
	handlers := api.NewHandlers(logger, registry, runner, publisher)

	r := chi.NewRouter()
	r.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Logger,
		middleware.Recoverer,
		middleware.Timeout(60*time.Second),
	)

	r.Mount("/", routers.New(handlers, cfg.Server.ClientOrigin))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) { _, _ = w.Write([]byte("ok")) })

	addr := ":" + cfg.Server.Port
	log.Printf("pairpad listening on %s", addr)
	return listenAndServe(addr, r)
}

func main() {
	if err := run(context.Background()); err != nil {
		exitFunc(err)
	}
}
