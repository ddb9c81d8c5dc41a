// Command reagentd serves the research engine over HTTP, backed by the
// demo customer-journey corpus and an OpenAI-compatible model.
//
// Configuration comes from a YAML file (see -config) plus environment
// variables; a .env file in the working directory is loaded when present.
// OPENAI_API_KEY must be set.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/tmc/langchaingo/llms/openai"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/journeyworks/reagent"
	"github.com/journeyworks/reagent/history"
	"github.com/journeyworks/reagent/internal/demo"
	"github.com/journeyworks/reagent/models"
	"github.com/journeyworks/reagent/server"
)

type config struct {
	Server server.Config `yaml:"server"`
	Model  struct {
		Name         string `yaml:"name"`
		BaseURL      string `yaml:"baseUrl"`
		RateLimitKey string `yaml:"rateLimitKey"`
	} `yaml:"model"`
	Engine struct {
		MaxIterations          int `yaml:"maxIterations"`
		MaxIterationsCap       int `yaml:"maxIterationsCap"`
		LLMTimeoutSeconds      int `yaml:"llmTimeoutSeconds"`
		MinToolForceIterations int `yaml:"minToolForceIterations"`
		ObservationLimit       int `yaml:"observationLimit"`
		MaxFollowUps           int `yaml:"maxFollowUps"`
	} `yaml:"engine"`
	Demo struct {
		Seed int64 `yaml:"seed"`
		Size int   `yaml:"size"`
	} `yaml:"demo"`
	LogLevel string `yaml:"logLevel"`
}

func loadConfig(path string) (*config, error) {
	cfg := &config{}
	cfg.Server.Addr = ":8080"
	cfg.Model.Name = "gpt-4o-mini"
	cfg.Demo.Seed = 42
	cfg.Demo.Size = 500
	cfg.LogLevel = "info"

	if path == "" {
		return cfg, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

func logLevel(name string) slog.Level {
	switch name {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "reagentd:", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "", "path to YAML config file")
	flag.Parse()

	// Missing .env is fine; real deployments use actual env vars.
	_ = godotenv.Load()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel(cfg.LogLevel),
	}))
	slog.SetDefault(logger)

	if os.Getenv("OPENAI_API_KEY") == "" {
		return errors.New("OPENAI_API_KEY is not set")
	}
	llmOpts := []openai.Option{openai.WithModel(cfg.Model.Name)}
	if cfg.Model.BaseURL != "" {
		llmOpts = append(llmOpts, openai.WithBaseURL(cfg.Model.BaseURL))
	}
	llm, err := openai.New(llmOpts...)
	if err != nil {
		return fmt.Errorf("init model: %w", err)
	}
	client := models.NewLCGClient(llm).WithModelName(cfg.Model.Name)

	corpus := demo.NewCorpus(cfg.Demo.Seed, cfg.Demo.Size, time.Now())
	registry := reagent.NewRegistry()
	if err := demo.NewToolSet(corpus).Register(registry); err != nil {
		return fmt.Errorf("register tools: %w", err)
	}
	logger.Info("demo corpus ready", "journeys", corpus.Len(), "tools", registry.Len())

	sessions := reagent.NewSessionRegistry()
	executor := reagent.NewExecutor(client, registry, reagent.Config{
		MaxIterations:          cfg.Engine.MaxIterations,
		MaxIterationsCap:       cfg.Engine.MaxIterationsCap,
		LLMTimeout:             time.Duration(cfg.Engine.LLMTimeoutSeconds) * time.Second,
		MinToolForceIterations: cfg.Engine.MinToolForceIterations,
		ObservationLimit:       cfg.Engine.ObservationLimit,
		MaxFollowUps:           cfg.Engine.MaxFollowUps,
		RateLimitKey:           cfg.Model.RateLimitKey,
	}).WithLogger(logger).WithSessions(sessions)

	srv := server.New(executor, sessions, history.NewStore(0), cfg.Server, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.Run(ctx)
	})
	return g.Wait()
}
