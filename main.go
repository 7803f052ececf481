package main

import (
	"context"
	"log"

	api "emailbudget-backend/cmd/api"
	"emailbudget-backend/internal/categorizer"
	syncdomain "emailbudget-backend/internal/gmailsync/domain"
	"emailbudget-backend/internal/gmailsync/poller"
	syncRepo "emailbudget-backend/internal/gmailsync/repository"
	syncUsecase "emailbudget-backend/internal/gmailsync/usecase"
	txdomain "emailbudget-backend/internal/transaction/domain"
	txRepo "emailbudget-backend/internal/transaction/repository"
	txUsecase "emailbudget-backend/internal/transaction/usecase"
	"emailbudget-backend/pkg/config"
	"emailbudget-backend/pkg/database"
	"emailbudget-backend/pkg/gmailapi"
	"emailbudget-backend/pkg/oauth"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := database.NewPostgresConnection(cfg)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Auto-migrate database schemas
	if err := db.AutoMigrate(
		&txdomain.Transaction{},
		&txdomain.TransactionItem{},
		&txdomain.Category{},
		&txdomain.MerchantCategoryRule{},
		&txdomain.Budget{},
		&syncdomain.SyncState{},
		&syncdomain.ProcessedMessage{},
		&syncdomain.SenderFilter{},
		&syncdomain.TokenSet{},
		&syncdomain.OAuthCredentials{},
	); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	// Initialize repositories (dependency injection)
	transactionRepo := txRepo.NewTransactionRepository(db)
	categoryRepo := txRepo.NewCategoryRepository(db)
	ruleRepo := txRepo.NewMerchantRuleRepository(db)
	budgetRepo := txRepo.NewBudgetRepository(db)
	syncStateRepo := syncRepo.NewSyncStateRepository(db)
	processedRepo := syncRepo.NewProcessedMessageRepository(db)
	filterRepo := syncRepo.NewSenderFilterRepository(db)
	tokenRepo := syncRepo.NewTokenRepository(db)
	credentialsRepo := syncRepo.NewCredentialsRepository(db)

	// Seed built-in categories and sender filters
	if err := categoryRepo.SeedDefaults(txdomain.LocalUserID); err != nil {
		log.Fatal("Failed to seed categories:", err)
	}
	if err := filterRepo.SeedDefaults(syncdomain.LocalUserID); err != nil {
		log.Fatal("Failed to seed sender filters:", err)
	}

	// Initialize services
	oauthService := oauth.NewService(cfg.OAuthCallbackPort)
	mailAPIFactory := func(ctx context.Context, accessToken string) (syncdomain.MailAPI, error) {
		return gmailapi.NewClient(ctx, accessToken)
	}

	// Initialize use cases (dependency injection)
	resolver := categorizer.NewResolver(ruleRepo, transactionRepo, categoryRepo)
	tokenManager := syncUsecase.NewTokenManager(tokenRepo, credentialsRepo, oauthService,
		cfg.GoogleClientID, cfg.GoogleClientSecret)
	transactionUsecaseInstance := txUsecase.NewTransactionUsecase(transactionRepo, categoryRepo, ruleRepo, budgetRepo, resolver)
	syncUsecaseInstance := syncUsecase.NewSyncUsecase(tokenManager, syncStateRepo, processedRepo,
		filterRepo, transactionRepo, resolver, mailAPIFactory, cfg.SyncLookbackDays)
	accountUsecaseInstance := syncUsecase.NewAccountUsecase(tokenManager, tokenRepo, credentialsRepo,
		filterRepo, syncStateRepo, processedRepo, mailAPIFactory)

	// Background poller: one long-lived loop for the process lifetime.
	// It starts polling as soon as an account is connected.
	syncPoller := poller.New(syncUsecaseInstance, cfg.PollInterval)
	tokenManager.SetAuthRequiredHook(func() {
		log.Printf("[Main] re-authorization required, stopping poller")
		syncPoller.Stop()
	})
	go syncPoller.Run(context.Background())

	if token, err := tokenRepo.Get(syncdomain.LocalUserID); err == nil && token != nil {
		syncPoller.Start()
	}

	// Initialize HTTP handler
	handler := api.NewHandler(transactionUsecaseInstance, syncUsecaseInstance, accountUsecaseInstance, syncPoller)

	// Start server
	log.Printf("Server starting on port %s", cfg.Port)
	if err := handler.Start(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
