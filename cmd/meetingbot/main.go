package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/Gorio76/meeting-notes-flow/internal/bot"
	"github.com/Gorio76/meeting-notes-flow/internal/config"
	"github.com/Gorio76/meeting-notes-flow/internal/storage"
	"github.com/Gorio76/meeting-notes-flow/pkg/api"
	"github.com/Gorio76/meeting-notes-flow/pkg/mailer"
	"github.com/Gorio76/meeting-notes-flow/pkg/redis"
)

// ENTRY POINT

func main() {
	rollback := flag.Bool("rollback", false, "roll back the last database migration and exit")
	flag.Parse()

	zapLogger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer zapLogger.Sync()

	cfg, err := config.Load()
	if err != nil {
		zapLogger.Fatal("Failed to load config", zap.Error(err))
	}

	ctx, cancel := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
	)
	defer cancel()

	redisClient := redis.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.TTL)
	defer redisClient.Close()

	pgStorage, err := storage.NewPostgresStorage(ctx, cfg.Database, redisClient, zapLogger)
	if err != nil {
		zapLogger.Fatal("Failed to init PostgreSQL storage", zap.Error(err))
	}
	defer pgStorage.Close()

	if *rollback {
		if err := storage.RollbackMigration(ctx, pgStorage.DB(), zapLogger); err != nil {
			zapLogger.Fatal("Failed to rollback migration", zap.Error(err))
		}
		return
	}

	if err := storage.RunMigrations(ctx, pgStorage.DB(), zapLogger); err != nil {
		zapLogger.Fatal("Failed to run migrations", zap.Error(err))
	}

	var reportMailer *mailer.Mailer
	if cfg.SMTP.Host != "" {
		reportMailer = mailer.New(
			cfg.SMTP.Host,
			cfg.SMTP.Port,
			cfg.SMTP.Username,
			cfg.SMTP.Password,
			cfg.SMTP.From,
			zapLogger,
		)
	} else {
		zapLogger.Warn("SMTP not configured, report email disabled")
	}

	var crmClient *api.Client
	if cfg.CRM.BaseURL != "" {
		crmClient = api.NewClient(cfg.CRM.BaseURL, cfg.CRM.APIKey, zapLogger)
	}

	tgBot, err := bot.New(
		cfg.TelegramToken,
		redisClient,
		pgStorage,
		reportMailer,
		crmClient,
		zapLogger,
		cfg,
	)
	if err != nil {
		zapLogger.Fatal("Failed to create bot", zap.Error(err))
	}

	if err := tgBot.Start(ctx); err != nil {
		zapLogger.Fatal("Bot stopped with error", zap.Error(err))
	}

	zapLogger.Info("Bot shutdown gracefully")
}
