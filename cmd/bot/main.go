package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/otabek-dev/kinoteka-bot/internal/bot"
	"github.com/otabek-dev/kinoteka-bot/internal/broadcast"
	"github.com/otabek-dev/kinoteka-bot/internal/config"
	"github.com/otabek-dev/kinoteka-bot/internal/content"
	"github.com/otabek-dev/kinoteka-bot/internal/database"
	"github.com/otabek-dev/kinoteka-bot/internal/handler"
	"github.com/otabek-dev/kinoteka-bot/internal/ingest"
	"github.com/otabek-dev/kinoteka-bot/internal/payment"
	"github.com/otabek-dev/kinoteka-bot/internal/queue"
	"github.com/otabek-dev/kinoteka-bot/internal/repository"
	"github.com/otabek-dev/kinoteka-bot/internal/router"
	"github.com/otabek-dev/kinoteka-bot/internal/session"
	"github.com/otabek-dev/kinoteka-bot/internal/subscription"
	"github.com/otabek-dev/kinoteka-bot/internal/telegram"
)

func main() {
	_ = godotenv.Load() // .env is optional outside local dev
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("[main] open database: %v", err)
	}
	defer db.Close()

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("[main] redis unavailable, membership cache and login limits disabled")
	}

	api, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		log.Fatalf("[main] telegram: %v", err)
	}
	log.Printf("[main] authorized as @%s", api.Self.UserName)
	client := telegram.NewClient(api)

	users := repository.NewUserRepo(db)
	admins := repository.NewAdminRepo(db)
	movies := repository.NewMovieRepo(db)
	series := repository.NewSeriesRepo(db)
	fields := repository.NewFieldRepo(db)
	channels := repository.NewChannelRepo(db)
	payments := repository.NewPaymentRepo(db)
	settings := repository.NewSettingsRepo(db)
	codes := repository.NewCodeRepo(db)

	resolver := content.NewResolver(codes, cfg.CodeSearchCap)
	verifier := subscription.NewVerifier(channels, client, rdb)
	committer := ingest.NewService(client, channels, movies, series, fields, cfg.BotUsername)
	gateway := payment.NewGateway(cfg.PaymeMerchant, cfg.PaymeKey, payments, users, settings)
	reviewer := payment.NewReviewer(payments, users)
	sender := broadcast.NewSender(users, client, cfg.BroadcastDelay)

	go func() {
		if err := queue.StartBroadcastConsumer(sender, client); err != nil {
			log.Printf("[main] broadcast consumer stopped: %v", err)
		}
	}()

	b := bot.New(bot.Deps{
		API:         client,
		Sessions:    session.NewStore(),
		Users:       users,
		Admins:      admins,
		Movies:      movies,
		Series:      series,
		Fields:      fields,
		Channels:    channels,
		Settings:    settings,
		Payments:    payments,
		Codes:       resolver,
		Ingest:      committer,
		Gate:        verifier,
		Reviewer:    reviewer,
		Checkout:    gateway,
		Publish:     queue.PublishBroadcastRequested,
		BotUsername: cfg.BotUsername,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	updateCfg := tgbotapi.NewUpdate(0)
	updateCfg.Timeout = 30
	go b.Run(ctx, api.GetUpdatesChan(updateCfg))

	e := echo.New()
	e.HideBanner = true

	var payme *handler.PaymeHandler
	if cfg.PaymeMerchant != "" {
		payme = handler.NewPaymeHandler(gateway)
	}
	router.RegisterRoutes(e, payme)
	router.RegisterAuth(e, handler.NewAuthHandler(cfg, admins), rdb)
	router.RegisterDashboard(e,
		handler.NewDashboardHandler(users, admins, movies, series, fields, channels, payments, settings),
		handler.NewPaymentHandler(payments, reviewer),
		cfg.JWTSecret)

	go func() {
		<-ctx.Done()
		if err := e.Shutdown(context.Background()); err != nil {
			log.Printf("[main] shutdown: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("[main] listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Printf("[main] server stopped: %v", err)
	}
}
