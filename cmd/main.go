package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"inversiones-bot/internal/bot"
	"inversiones-bot/internal/config"
	"inversiones-bot/internal/database"
	"inversiones-bot/internal/handlers"
	"inversiones-bot/internal/jobs"
	"inversiones-bot/internal/notify"
	"inversiones-bot/internal/ocr"
	"inversiones-bot/internal/repository"
	"inversiones-bot/internal/services"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Connect to database
	if err := database.Connect(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run migrations
	if err := database.AutoMigrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Initialize bot API and notification gateway
	api, err := tgbotapi.NewBotAPI(cfg.Bot.Token)
	if err != nil {
		log.Fatalf("Failed to initialize bot API: %v", err)
	}
	notifier := notify.NewTelegram(api)

	// Initialize store and services
	store := repository.NewStore(database.GetDB())

	var extractor ocr.Extractor
	if t := ocr.Detect(cfg.Bot.TesseractCmd); t != nil {
		extractor = t
	} else {
		log.Println("OCR engine not found; receipt pre-checks will be skipped")
	}

	eligibilityService := services.NewEligibilityService(store)
	referralService := services.NewReferralService(store, notifier)
	investmentService := services.NewInvestmentService(store, eligibilityService, notifier, cfg.Bot.AdminID)
	profileService := services.NewProfileService(store)
	statsService := services.NewStatsService(store)
	verifier := services.NewReceiptVerifier(extractor, cfg.Bot.NequiNumber)

	// Front end
	front := bot.New(api, cfg.Bot, notifier, bot.Deps{
		Store:       store,
		Referrals:   referralService,
		Eligibility: eligibilityService,
		Investments: investmentService,
		Profiles:    profileService,
		Stats:       statsService,
		Verifier:    verifier,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go front.Run(ctx)

	// Start scheduled backup job
	backupJob := jobs.NewBackup(store, notifier, cfg.Bot.AdminID,
		time.Duration(cfg.Backup.IntervalHours)*time.Hour)
	go backupJob.Start()

	// Keep-alive web surface
	webHandler := handlers.NewWebHandler(store, cfg.Server.DownloadToken)
	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: webHandler.Router(),
	}

	go func() {
		log.Printf("Server starting on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Startup notice to the admin; best effort
	notifier.Send(cfg.Bot.AdminID, "🤖 Bot InversionesCT iniciado (modo estable 24/7).")

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down...")

	backupJob.Stop()
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Exited")
}
