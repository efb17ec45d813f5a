package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"school_chat_service/internal/chat/app"
	"school_chat_service/internal/chat/repository"
	"school_chat_service/internal/chat/router"
	"school_chat_service/pkg/config"
	"school_chat_service/pkg/database"
	"school_chat_service/pkg/logger"

	"github.com/gofiber/fiber/v2"
	fiber_log "github.com/gofiber/fiber/v2/middleware/logger"
	"go.uber.org/zap"
)

func main() {
	logger.Log = logger.Initialize(config.EnvConfig.ChatService, config.EnvConfig.ChatServiceLogPath)
	cfg := config.LoadConfig[config.Chat](config.EnvConfig.ChatService, config.EnvConfig.ChatServiceYAMLPath)

	// Mongo holds messages and the account lookup collections
	ctx := context.Background()
	uri := fmt.Sprintf("mongodb://%s:%s@%s:%d", cfg.MongoSQL.User, cfg.MongoSQL.Password, cfg.MongoSQL.Host, cfg.MongoSQL.Port)
	mongo, err := database.NewMongoDB(ctx,
		database.Connection{
			ConnectStr:    uri,
			RetryCount:    cfg.MongoSQL.RetryCount,
			RetryInterval: time.Duration(cfg.MongoSQL.RetryInterval),
		},
		cfg.MongoSQL.Database)
	if err != nil {
		logger.Log.Fatal(
			"Unable to connect to mongoDB database after retries",
			zap.String("address", fmt.Sprintf("[%s]", uri)),
			zap.Error(err),
		)
	}
	defer mongo.Close(ctx)

	// Redis carries the per-principal delivery channels
	redisAddr := config.GetRedisSetting()
	if cfg.Redis.Host != "" {
		redisAddr = fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port)
	}
	redisClient, err := database.NewRedisClient(redisAddr, cfg.Redis.RedisDB)
	if err != nil {
		logger.Log.Fatal(fmt.Sprintf("connect redis err : %v", err))
	}

	msgRepo := repository.NewMongoMessageRepository(mongo.Database)
	accountRepo := repository.NewMongoAccountRepository(mongo.Database)
	bus := repository.NewRedisPubSub(redisClient)

	resolver := app.NewPrincipalResolver(accountRepo)
	presence := app.NewPresenceRegistry()
	sendMessageUC := app.NewSendMessageUseCase(msgRepo, accountRepo)
	historyUC := app.NewHistoryUseCase(msgRepo)

	wsHandler := app.NewChatWebsocketHandler(resolver, sendMessageUC, presence, bus, cfg.AuthTimeout)
	chatHandler := app.NewChatHandler(resolver, historyUC)

	r := fiber.New()
	file, err := os.OpenFile(fmt.Sprintf("%s/access.log", config.EnvConfig.ChatServiceLogPath), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0666)
	if err != nil {
		log.Fatalf("Failed to open log file: %v", err)
	}
	defer file.Close()

	r.Use(fiber_log.New(fiber_log.Config{
		Output: file,
	}))

	router.RegisterRoutes(r, wsHandler, chatHandler)

	port := ":" + cfg.Port
	log.Printf("Chat Service listening on %s", port)
	if err := r.Listen(port); err != nil {
		log.Fatalf("Failed to start Fiber: %v", err)
	}
}
