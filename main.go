package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Muddyscode/Customer-sentiment-dashboard/internal/config"
	"github.com/Muddyscode/Customer-sentiment-dashboard/internal/feed"
	"github.com/Muddyscode/Customer-sentiment-dashboard/internal/llm"
	"github.com/Muddyscode/Customer-sentiment-dashboard/internal/llm/gemini"
	"github.com/Muddyscode/Customer-sentiment-dashboard/internal/llm/openai"
	"github.com/Muddyscode/Customer-sentiment-dashboard/internal/store"
	"github.com/Muddyscode/Customer-sentiment-dashboard/internal/view"
	"github.com/Muddyscode/Customer-sentiment-dashboard/internal/wordcloud"
	"github.com/Muddyscode/Customer-sentiment-dashboard/server"
	"github.com/joho/godotenv"
)

func main() {
	configPath := flag.String("config", config.Path(config.DefaultPath), "path to the YAML config file")
	flag.Parse()

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Fatalf("Error loading .env file: %v", err)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	provider, err := newProvider(ctx, cfg)
	if err != nil {
		log.Fatalf("provider: %v", err)
	}

	cloud := wordcloud.DefaultOptions()
	cloud.Width, cloud.Height, cloud.Seed = cfg.Cloud.Width, cfg.Cloud.Height, cfg.Cloud.Seed
	renderer, err := view.NewRenderer(cloud)
	if err != nil {
		log.Fatalf("view: %v", err)
	}

	deps := server.Deps{
		Provider:    provider,
		Renderer:    renderer,
		Feed:        feed.NewClient(&http.Client{Timeout: cfg.FeedTimeout()}),
		FeedTimeout: cfg.FeedTimeout(),

		DashboardIdleTTL: cfg.DashboardIdleTTL(),
		MaxDashboards:    cfg.MaxDashboards,
	}
	if cfg.DBPath != "" {
		reports, err := store.New(cfg.DBPath)
		if err != nil {
			log.Fatalf("store: %v", err)
		}
		defer reports.Close()
		deps.Reports = reports
	}

	s, err := server.NewServer(deps)
	if err != nil {
		log.Fatalf("server: %v", err)
	}

	go func() {
		if err := s.Start(cfg.ListenAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("server: stopped: %v", err)
			stop()
		}
	}()
	log.Printf("dashboard: listening: addr=%s provider=%s archive=%q", cfg.ListenAddr, cfg.Provider, cfg.DBPath)

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.Shutdown(shutdownCtx); err != nil {
		log.Printf("server: shutdown: %v", err)
	}
}

func newProvider(ctx context.Context, cfg *config.Config) (llm.Provider, error) {
	switch cfg.Provider {
	case config.ProviderOpenAI:
		return openai.NewProvider(cfg.OpenAI.APIKey, openai.Models{
			Fast:     cfg.OpenAI.FastModel,
			Thinking: cfg.OpenAI.ThinkingModel,
			Chat:     cfg.OpenAI.ChatModel,
		}), nil
	default:
		return gemini.NewProvider(ctx, cfg.Gemini.APIKey, gemini.Models{
			Fast:           cfg.Gemini.FastModel,
			Thinking:       cfg.Gemini.ThinkingModel,
			Chat:           cfg.Gemini.ChatModel,
			ThinkingBudget: cfg.Gemini.ThinkingBudget,
		})
	}
}
