package bootstrap

import (
	"context"
	"log"

	"pdf-chat-be/internal/config"
	"pdf-chat-be/internal/controller"
	"pdf-chat-be/internal/handler"
	"pdf-chat-be/internal/pkg/logger"
	"pdf-chat-be/internal/repository/implementation"
	"pdf-chat-be/internal/repository/kv"
	"pdf-chat-be/internal/repository/memory"
	"pdf-chat-be/internal/service"
	"pdf-chat-be/internal/websocket"
	"pdf-chat-be/pkg/answer/groq"
	"pdf-chat-be/pkg/ingestion/cohere"

	pktNats "pdf-chat-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
)

type Container struct {
	// Controllers
	ChatController controller.IChatController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	// WebSockets & Notification
	NotificationHandler *handler.NotificationHandler
	WebSocketHub        *websocket.Hub
}

func NewContainer(cfg *config.Config) *Container {
	// 1. Core Facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 2.5 Infrastructure
	// Redis is optional, it backs the session store and cross-instance fanout.
	var rdb *redis.Client
	if cfg.App.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.App.RedisURL)
		if err != nil {
			log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
			opt = &redis.Options{
				Addr: cfg.App.RedisURL,
			}
		}
		rdb = redis.NewClient(opt)
		if _, err := rdb.Ping(context.Background()).Result(); err != nil {
			log.Printf("[WARN] Failed to connect to Redis: %v", err)
		}
	}

	// Session Snapshot Store
	var store kv.Store
	if cfg.Store.Driver == "redis" && rdb != nil {
		store = kv.NewRedisStore(rdb)
		log.Printf("[INFO] Using Session Store: REDIS (key %s)", cfg.Store.Key)
	} else {
		fileStore, err := kv.NewFileStore(cfg.Store.Path)
		if err != nil {
			log.Fatalf("[FATAL] Failed to initialize file session store: %v", err)
		}
		store = fileStore
		log.Printf("[INFO] Using Session Store: FILE (%s)", cfg.Store.Path)
	}

	// NATS
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}
	natsSub, err := pktNats.NewSubscriber(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Subscriber: %v", err)
	}

	// WebSocket Hub
	wsLogger := logger.NewIsolatedLogger("logs/notification.log")
	wsHub := websocket.NewHub(rdb, wsLogger)
	go wsHub.Run()

	// 3. Persistence Pipeline
	publisherService := service.NewPublisherService(cfg.Topics.SessionSnapshot, pubSub)
	consumerService := service.NewConsumerService(
		pubSub,
		cfg.Topics.SessionSnapshot,
		store,
		cfg.Store.Key,
		sysLogger,
	)

	sessionRepo := implementation.NewSessionRepository(store, cfg.Store.Key, publisherService, sysLogger)
	sessionRepo.Load(context.Background())

	stateRepo := memory.NewStateRepository()

	// 4. Document/Answer Providers
	processor := cohere.NewCohereClient(cfg.Cohere.BaseURL, cfg.Cohere.APIKey)
	answerer := groq.NewGroqClient(cfg.Groq.BaseURL, cfg.Groq.APIKey, cfg.Groq.Model)
	log.Printf("[INFO] Using Answer Model: %s", cfg.Groq.Model)

	// 5. Notification System
	notifService := service.NewNotificationService(natsSub, wsHub, wsLogger) // Hub implements NotificationDelivery

	// Start Service (Worker)
	if natsSub != nil {
		go notifService.Start()
	}

	// Events raised by the chat flow go through NATS when available,
	// otherwise straight into the local notification pipeline.
	var eventSink service.EventPublisher
	if natsPub != nil {
		eventSink = natsPub
	} else {
		eventSink = notifService
	}

	chatService := service.NewChatService(
		sessionRepo,
		stateRepo,
		processor,
		answerer,
		eventSink,
		sysLogger,
	)

	notifHandler := handler.NewNotificationHandler(notifService, natsPub, wsHub, wsLogger)

	return &Container{
		ChatController:      controller.NewChatController(chatService),
		NotificationHandler: notifHandler,
		WebSocketHub:        wsHub,

		ConsumerService: consumerService,
	}
}
