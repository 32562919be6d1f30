package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"SoftWork/internal/app"
	"SoftWork/internal/collector"
	"SoftWork/internal/config"
	"SoftWork/internal/logging"
	"SoftWork/internal/model"
	"SoftWork/internal/notifier"
	"SoftWork/internal/recorder"
	"SoftWork/internal/rotation"
	"SoftWork/internal/scheduler"
	"SoftWork/internal/subscription"
	"SoftWork/internal/web"
)

func main() {
	envErr := godotenv.Load()

	// Load config
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	log := logging.New("info")
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	log = logging.New(cfg.LogLevel)
	if envErr != nil {
		log.Debug().Msg("no .env file found, relying on environment variables")
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("config validation")
	}
	log.Info().Msg("SoftWork starting")

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Init recorder
	var rec recorder.Recorder
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath, log)
		if err != nil {
			log.Warn().Err(err).Msg("init sqlite recorder failed, using noop")
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}
	defer rec.Close()

	sinks := []subscription.Sink{recorder.LedgerSink{Recorder: rec}}

	// Optional Telegram operator channel
	var tn *notifier.TelegramNotifier
	if cfg.Telegram.BotToken != "" {
		tn = notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy, log)
		sinks = append(sinks, notifier.SubscriberAlerts{Notifier: tn, Ctx: ctx, Retries: 3})
	}

	// Timers
	sched := scheduler.NewCronTimers(log)
	sched.Start()
	defer sched.Stop()

	// Tips and subscriptions
	fetcher := collector.NewAlphaVantageFetcher(cfg.DataSource.BaseURL, cfg.DataSource.APIKey, cfg.Proxy)
	log.Info().Str("source", fetcher.Name()).Msg("quote source configured")
	col := collector.NewCollector(fetcher, cfg.DataSource.Symbols, cfg.DataSource.RequestDelay, log)
	tips := rotation.NewController(col, sched, cfg.Rotation.Interval, log)
	tips.OnLoad(func(source string, batch []model.TipRecord) {
		if err := rec.RecordTipBatch(&recorder.TipBatchEvent{Source: source, Tips: batch, At: time.Now()}); err != nil {
			log.Error().Err(err).Msg("record tip batch")
		}
	})
	ledger := subscription.NewLedger(sched, cfg.Subscription.StatusTTL, log, sinks...)
	a := app.New(tips, ledger)
	defer a.Close()

	srv, err := web.NewServer(cfg.HTTP.Addr, a, log)
	if err != nil {
		log.Fatal().Err(err).Msg("init web server")
	}
	go func() {
		if err := srv.Start(); err != nil {
			log.Error().Err(err).Msg("http server stopped")
			cancel()
		}
	}()

	go tips.Initialize(ctx)

	if tn != nil {
		go tn.StartPolling(ctx, a.HandleCommand)
		log.Info().Msg("telegram polling started")
	}

	log.Info().Str("addr", cfg.HTTP.Addr).Msg("SoftWork is running. Press Ctrl+C to stop.")

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sigCh:
		log.Info().Msg("shutdown signal received, stopping...")
	case <-ctx.Done():
	}

	cancel()
	if err := srv.Shutdown(context.Background()); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}
	log.Info().Msg("SoftWork stopped")
}
