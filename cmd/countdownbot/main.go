package main

import (
	"context"
	"errors"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"countdown-bot/internal/bot"
	"countdown-bot/internal/config"
	"countdown-bot/internal/health"
	"countdown-bot/internal/logger"
	"countdown-bot/internal/repository"
	"countdown-bot/internal/service"
)

func main() {
	// Local .env is optional; real deployments set env vars directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		// No logger yet; exit immediately.
		_, _ = os.Stderr.WriteString("config error: " + err.Error() + "\n")
		os.Exit(2)
	}

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		_, _ = os.Stderr.WriteString("logger init error: " + err.Error() + "\n")
		os.Exit(2)
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := repository.NewDB(cfg.DatabaseURL, log)
	if err != nil {
		log.Fatal("open database", zap.Error(err))
	}
	sqlDB, err := db.DB()
	if err == nil {
		defer sqlDB.Close()
	}

	repo := repository.NewCountdownRepository(db)

	api, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		log.Fatal("create bot api", zap.Error(err))
	}
	log.Info("bot authorized", zap.String("account", api.Self.UserName))

	sender := bot.NewSender(api)
	quotes := service.NewQuotePicker(rand.NewSource(time.Now().UnixNano()))
	countdownSvc := service.NewCountdownService(repo, sender, quotes, log)
	reminderSvc := service.NewReminderService(sender, log)
	telegramBot := bot.New(api, sender, countdownSvc, reminderSvc, log)

	scheduler := service.NewSchedulerService(time.Local)
	if _, err := scheduler.ScheduleEveryMinute(func() {
		tickCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		countdownSvc.Tick(tickCtx)
	}); err != nil {
		log.Fatal("schedule countdown tick", zap.Error(err))
	}
	scheduler.Start()
	defer scheduler.Stop()

	httpSrv := health.NewServer(cfg.HTTPAddr)
	go func() {
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("health server", zap.Error(err))
		}
	}()
	defer func() {
		shCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpSrv.Shutdown(shCtx); err != nil {
			log.Warn("health server shutdown", zap.Error(err))
		}
	}()

	log.Info("countdown bot started", zap.String("http", cfg.HTTPAddr))
	if err := telegramBot.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatal("bot stopped with error", zap.Error(err))
	}
	log.Info("shutdown complete")
}
