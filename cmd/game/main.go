package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/tatianab/rigged-rps/internal/config"
	"github.com/tatianab/rigged-rps/internal/engine"
	"github.com/tatianab/rigged-rps/internal/logger"
	"github.com/tatianab/rigged-rps/internal/media"
	"github.com/tatianab/rigged-rps/internal/models"
	"github.com/tatianab/rigged-rps/internal/stats"
	"github.com/tatianab/rigged-rps/internal/tui"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}

	log, logFile, err := logger.New(cfg.LogFile, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		fmt.Printf("Error opening log file: %v\n", err)
		os.Exit(1)
	}
	defer logFile.Close()
	log = log.With().Str("session", uuid.NewString()).Logger()

	if err := run(ctx, cfg, log); err != nil {
		log.Error().Err(err).Msg("game exited with error")
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	script, err := loadScript(cfg.ScriptPath)
	if err != nil {
		return fmt.Errorf("load script: %w", err)
	}

	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("open %s stats store: %w", cfg.StatsBackend, err)
	}
	defer closeStore()

	notifier := stats.NewNotifier(store, cfg.StatsKey,
		stats.WithLogger(log),
		stats.WithTimeout(cfg.StatsTimeout),
	)
	defer notifier.Wait()

	updates := make(chan models.GlobalStats, 1)
	stop, err := notifier.Watch(ctx, func(s models.GlobalStats) {
		// Keep only the latest counters if the renderer falls behind.
		select {
		case updates <- s:
		default:
			select {
			case <-updates:
			default:
			}
			select {
			case updates <- s:
			default:
			}
		}
	})
	if err != nil {
		log.Warn().Err(err).Msg("global stats unavailable")
	} else {
		defer stop()
	}
	notifier.RecordVisit()

	if cfg.MetricsAddr != "" {
		srv := serveMetrics(cfg.MetricsAddr, log)
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	eng := engine.New(script, notifier,
		engine.WithLogger(log),
		engine.WithRand(engine.NewRand(cfg.Seed)),
	)

	log.Info().
		Str("backend", cfg.StatsBackend).
		Int("rounds", len(script.Rounds)).
		Msg("starting game")

	return tui.Run(eng, tui.Deps{
		Audio: media.NewPlayer(cfg.AudioPlayer, log),
		Video: media.NewPlayer(cfg.VideoPlayer, log),
		Stats: updates,
		Log:   log,
	})
}

func loadScript(path string) (*models.Script, error) {
	if path == "" {
		return models.DefaultScript()
	}
	return models.LoadScript(path)
}

func openStore(ctx context.Context, cfg *config.Config) (stats.Store, func(), error) {
	switch cfg.StatsBackend {
	case "redis":
		client, err := stats.DialRedis(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return nil, nil, err
		}
		return stats.NewRedisStore(client), func() { client.Close() }, nil
	case "postgres":
		pool, err := stats.ConnectPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		return stats.NewPostgresStore(pool), pool.Close, nil
	default:
		return stats.NewMemoryStore(), func() {}, nil
	}
}

func serveMetrics(addr string, log zerolog.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Warn().Err(err).Str("addr", addr).Msg("metrics server stopped")
		}
	}()
	return srv
}
