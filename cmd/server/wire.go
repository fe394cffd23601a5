//go:build wireinject
// +build wireinject

// File: cmd/server/wire.go
package main

import (
	"context"
	"time"

	"github.com/google/wire"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Eden1011/todo-app-sub000/internal/config"
	"github.com/Eden1011/todo-app-sub000/internal/handlers"
	"github.com/Eden1011/todo-app-sub000/internal/ratelimit"
	chatrepo "github.com/Eden1011/todo-app-sub000/internal/repository/chat"
	messagerepo "github.com/Eden1011/todo-app-sub000/internal/repository/message"
	"github.com/Eden1011/todo-app-sub000/internal/services"
	"github.com/Eden1011/todo-app-sub000/internal/services/identity"
	"github.com/Eden1011/todo-app-sub000/internal/services/project"
	"github.com/Eden1011/todo-app-sub000/internal/ws"
)

// Application aggregates all services and handlers
type Application struct {
	Config         *config.Config
	Logger         services.Logger
	Mongo          *mongo.Client
	Hub            *ws.Hub
	ChatHandler    *handlers.ChatHandler
	MessageHandler *handlers.MessageHandler
	HealthHandler  *handlers.HealthHandler
	ConnLimiter    ConnectionLimiter
	MsgLimiter     MessageLimiter
}

// Wrapper types to avoid ambiguity between the two limiters
type ConnectionLimiter *ratelimit.FixedWindowLimiter
type MessageLimiter *ratelimit.FixedWindowLimiter

// Provider functions
func ProvideConfig() *config.Config {
	return config.Load()
}

func ProvideLogger() services.Logger {
	return services.NewLogger("chat-service")
}

func ProvideMongoClient(cfg *config.Config) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
}

func ProvideDatabase(cfg *config.Config, client *mongo.Client) *mongo.Database {
	return client.Database(cfg.MongoDBName)
}

func ProvideVerifier(cfg *config.Config, logger services.Logger) (identity.Verifier, error) {
	return identity.NewClient(identity.DefaultConfig(cfg.AuthServiceURL), logger)
}

func ProvideOracle(cfg *config.Config, logger services.Logger) (project.Oracle, error) {
	return project.NewClient(project.DefaultConfig(cfg.DBServiceURL), logger)
}

func ProvideConnectionLimiter(cfg *config.Config) ConnectionLimiter {
	return ratelimit.NewFixedWindowLimiter(&ratelimit.Config{
		Window:        cfg.ConnectionLimitWindow,
		MaxEvents:     cfg.ConnectionLimit,
		CleanupPeriod: 5 * time.Minute,
	})
}

func ProvideMessageLimiter(cfg *config.Config) MessageLimiter {
	return ratelimit.NewFixedWindowLimiter(&ratelimit.Config{
		Window:        cfg.MessageLimitWindow,
		MaxEvents:     cfg.MessageLimit,
		CleanupPeriod: 5 * time.Minute,
	})
}

func ProvideHub(
	cfg *config.Config,
	verifier identity.Verifier,
	oracle project.Oracle,
	chats *services.ChatService,
	messages *services.MessageService,
	connLimiter ConnectionLimiter,
	msgLimiter MessageLimiter,
	logger services.Logger,
) *ws.Hub {
	return ws.NewHub(verifier, oracle, chats, messages, connLimiter, msgLimiter, logger, ws.Options{
		BroadcastLeaveOnDisconnect: cfg.BroadcastLeaveOnDisconnect,
	})
}

// InitializeApplication builds the full dependency graph.
func InitializeApplication() (*Application, error) {
	wire.Build(
		ProvideConfig,
		ProvideLogger,
		ProvideMongoClient,
		ProvideDatabase,
		ProvideVerifier,
		ProvideOracle,
		ProvideConnectionLimiter,
		ProvideMessageLimiter,
		ProvideHub,
		chatrepo.NewChatRepository,
		messagerepo.NewMessageRepository,
		services.NewChatService,
		services.NewMessageService,
		handlers.NewChatHandler,
		handlers.NewMessageHandler,
		handlers.NewHealthHandler,
		wire.Struct(new(Application), "*"),
	)
	return nil, nil
}
