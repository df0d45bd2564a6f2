package main

import (
	"context"
	"log"

	"photo-inspect/config"
	telegram "photo-inspect/internal/api"
	"photo-inspect/internal/container"
	"photo-inspect/internal/domain/port"
	"photo-inspect/internal/infrastructure/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if cfg.TelegramToken == "" {
		log.Fatal("TELEGRAM_TOKEN is required")
	}

	policy, err := config.LoadPolicy(cfg.PolicyPath)
	if err != nil {
		log.Fatalf("Failed to load policy: %v", err)
	}

	// Хранилище сессий пользователей
	userRepo := storage.NewMemoryUserRepository()

	// Хранилище решений: Redis при наличии адреса, иначе память
	var decisionRepo port.DecisionRepository
	if cfg.RedisAddr != "" {
		redisRepo := storage.NewRedisDecisionRepository(storage.RedisOptions{
			Address:  cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err := redisRepo.Ping(context.Background()); err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer redisRepo.Close()
		decisionRepo = redisRepo
		log.Printf("Decision store: redis at %s", cfg.RedisAddr)
	} else {
		decisionRepo = storage.NewMemoryDecisionRepository()
		log.Println("Decision store: in-memory")
	}

	// Собираем сервисы приложения
	appContainer, err := container.New(cfg, policy, userRepo, decisionRepo)
	if err != nil {
		log.Fatalf("Failed to build services: %v", err)
	}

	// Создаём бота
	bot, err := telegram.NewBot(
		cfg.TelegramToken,
		appContainer.UserService,
		appContainer.InspectionService,
		appContainer.BatchService,
		appContainer.DecisionRepo,
	)
	if err != nil {
		log.Fatalf("Failed to create bot: %v", err)
	}

	log.Println("Bot is running...")
	if err := bot.Run(); err != nil {
		log.Fatalf("Bot error: %v", err)
	}
}
