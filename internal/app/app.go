package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/deusflow/pronews/internal/config"
	"github.com/deusflow/pronews/internal/dashboard"
	"github.com/deusflow/pronews/internal/feeds"
	"github.com/deusflow/pronews/internal/logger"
	"github.com/deusflow/pronews/internal/metrics"
	"github.com/deusflow/pronews/internal/news"
	"github.com/deusflow/pronews/internal/ratelimit"
	"github.com/deusflow/pronews/internal/rss"
	"github.com/deusflow/pronews/internal/sentiment"
)

// App holds everything built once at startup. None of it is mutated afterwards.
type App struct {
	Config   *config.Config
	Feeds    *rss.FeedsConfig
	Metrics  *metrics.Metrics
	Limiter  *ratelimit.FetchLimiter
	Pipeline *dashboard.Pipeline

	closers []func()
}

// New builds the application from cfg.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	feedsCfg, fromFile, err := rss.LoadFeeds(cfg.FeedsConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load feeds: %w", err)
	}
	if !fromFile {
		logger.Info("feeds file not found, using built-in feeds", "path", cfg.FeedsConfigPath)
	}

	a := &App{
		Config:  cfg,
		Feeds:   feedsCfg,
		Metrics: metrics.New(),
		Limiter: ratelimit.NewFetchLimiter(cfg.FetchInterval, cfg.FetchBurst),
	}

	client := &http.Client{Timeout: cfg.RequestTimeout}
	collector := feeds.NewCollector(buildSources(feedsCfg, client), cfg.CacheTTL, a.Limiter, a.Metrics)

	scorer, err := a.buildScorer(ctx)
	if err != nil {
		return nil, err
	}

	classifier := news.NewClassifier(news.DefaultTaxonomy(), scorer)
	a.Pipeline = dashboard.NewPipeline(collector, classifier, cfg.Location, a.Metrics)
	return a, nil
}

// buildSources returns the aggregator first, then the RSS feeds, which is
// the order headlines are displayed in.
func buildSources(cfg *rss.FeedsConfig, client *http.Client) []feeds.Source {
	var sources []feeds.Source
	if !cfg.Aggregator.Disabled {
		sources = append(sources, rss.NewAggregator(cfg.Aggregator, client))
	}
	for _, f := range cfg.Feeds {
		sources = append(sources, rss.NewSource(f.Name, f.URL, client))
	}
	return sources
}

func (a *App) buildScorer(ctx context.Context) (sentiment.Scorer, error) {
	lexicon := sentiment.NewLexicon()
	if a.Config.GeminiAPIKey == "" {
		return lexicon, nil
	}

	g, err := sentiment.NewGemini(ctx, a.Config.GeminiAPIKey, a.Config.GeminiModel)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, g.Close)
	logger.Info("using Gemini sentiment scorer", "model", a.Config.GeminiModel)

	return sentiment.Fallback{
		Primary:   sentiment.NewCached(g, a.Config.CacheTTL),
		Secondary: lexicon,
	}, nil
}

// Close releases the remote clients.
func (a *App) Close() {
	for _, c := range a.closers {
		c()
	}
}

// Serve runs the dashboard until ctx is cancelled.
func (a *App) Serve(ctx context.Context) error {
	srv := dashboard.NewServer(a.Pipeline, a.Metrics, a.Config.RefreshInterval, map[string]dashboard.StatsFunc{
		"fetch_limiter": a.Limiter.GetStats,
	})

	httpSrv := &http.Server{
		Addr:              a.Config.HTTPAddr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting dashboard", "addr", a.Config.HTTPAddr)
		errCh <- httpSrv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		a.Metrics.SetError(err.Error())
		return fmt.Errorf("dashboard server: %w", err)
	case <-ctx.Done():
		logger.Info("shutting down dashboard")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return httpSrv.Shutdown(shutdownCtx)
	}
}
