// File: cmd/server/main.go
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/Eden1011/todo-app-sub000/internal/config"
	"github.com/Eden1011/todo-app-sub000/internal/handlers"
	"github.com/Eden1011/todo-app-sub000/internal/middleware"
	"github.com/Eden1011/todo-app-sub000/internal/ratelimit"
	chatrepo "github.com/Eden1011/todo-app-sub000/internal/repository/chat"
	messagerepo "github.com/Eden1011/todo-app-sub000/internal/repository/message"
	"github.com/Eden1011/todo-app-sub000/internal/services"
	"github.com/Eden1011/todo-app-sub000/internal/services/identity"
	"github.com/Eden1011/todo-app-sub000/internal/services/project"
	"github.com/Eden1011/todo-app-sub000/internal/ws"
)

func main() {
	cfg := config.Load()
	logger := services.NewLogger("chat-service")

	// Mongo connection
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		log.Fatalf("Failed to ping MongoDB: %v", err)
	}
	db := client.Database(cfg.MongoDBName)
	log.Printf("[Main] Connected to MongoDB database %q", cfg.MongoDBName)

	// Repositories
	chatRepository := chatrepo.NewChatRepository(db)
	messageRepository := messagerepo.NewMessageRepository(db)
	if err := chatRepository.EnsureIndexes(ctx); err != nil {
		log.Fatalf("Failed to ensure chat indexes: %v", err)
	}

	// Upstream service clients
	verifier, err := identity.NewClient(identity.DefaultConfig(cfg.AuthServiceURL), logger)
	if err != nil {
		log.Fatalf("Failed to create auth client: %v", err)
	}
	oracle, err := project.NewClient(project.DefaultConfig(cfg.DBServiceURL), logger)
	if err != nil {
		log.Fatalf("Failed to create project client: %v", err)
	}

	// Domain services
	chatService, err := services.NewChatService(chatRepository, messageRepository, logger)
	if err != nil {
		log.Fatalf("Failed to create chat service: %v", err)
	}
	messageService, err := services.NewMessageService(chatRepository, messageRepository, logger)
	if err != nil {
		log.Fatalf("Failed to create message service: %v", err)
	}

	// Rate limiters: one window per user for connections, another for
	// messages. The message limiter is shared by the socket and REST
	// write paths so the budget holds across both.
	connLimiter := ratelimit.NewFixedWindowLimiter(&ratelimit.Config{
		Window:        cfg.ConnectionLimitWindow,
		MaxEvents:     cfg.ConnectionLimit,
		CleanupPeriod: 5 * time.Minute,
	})
	msgLimiter := ratelimit.NewFixedWindowLimiter(&ratelimit.Config{
		Window:        cfg.MessageLimitWindow,
		MaxEvents:     cfg.MessageLimit,
		CleanupPeriod: 5 * time.Minute,
	})

	hub := ws.NewHub(verifier, oracle, chatService, messageService, connLimiter, msgLimiter, logger, ws.Options{
		BroadcastLeaveOnDisconnect: cfg.BroadcastLeaveOnDisconnect,
	})

	// Handlers
	chatHandler := handlers.NewChatHandler(chatService, oracle)
	messageHandler := handlers.NewMessageHandler(messageService, oracle)
	healthHandler := handlers.NewHealthHandler(client)

	router := buildRouter(cfg, verifier, msgLimiter, hub, chatHandler, messageHandler, healthHandler)

	srv := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Printf("[Main] Chat service listening on :%s", cfg.ServerPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("[Main] Shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("[Main] Server shutdown error: %v", err)
	}
	connLimiter.Close()
	msgLimiter.Close()
	if err := client.Disconnect(shutdownCtx); err != nil {
		log.Printf("[Main] MongoDB disconnect error: %v", err)
	}
	log.Println("[Main] Shutdown complete")
}

// buildRouter wires middleware and routes. /health, the auto-provision
// callback and the socket endpoint stay public; the socket does its own
// token verification during the handshake.
func buildRouter(
	cfg *config.Config,
	verifier identity.Verifier,
	msgLimiter *ratelimit.FixedWindowLimiter,
	hub *ws.Hub,
	chatHandler *handlers.ChatHandler,
	messageHandler *handlers.MessageHandler,
	healthHandler *handlers.HealthHandler,
) *mux.Router {
	router := mux.NewRouter()
	router.Use(middleware.RecoverPanic)
	router.Use(middleware.LoggingMiddleware)
	router.Use(middleware.NewCORSMiddleware(cfg.CORSOrigin))

	router.HandleFunc("/health", healthHandler.Health).Methods(http.MethodGet)
	router.HandleFunc("/api/chat/auto-provision", chatHandler.AutoProvision).Methods(http.MethodPost)
	router.HandleFunc("/ws", hub.ServeWS)

	api := router.PathPrefix("/api").Subrouter()
	api.Use(middleware.NewAuthMiddleware(verifier))

	api.HandleFunc("/chat", chatHandler.CreateChat).Methods(http.MethodPost)
	api.HandleFunc("/chat/project/{projectId}", chatHandler.ListProjectChats).Methods(http.MethodGet)
	api.HandleFunc("/chat/project/{projectId}/default", chatHandler.GetDefaultChat).Methods(http.MethodGet)
	api.HandleFunc("/chat/{id}", chatHandler.DeleteChat).Methods(http.MethodDelete)

	rateLimited := middleware.NewRateLimitMiddleware(msgLimiter)
	api.Handle("/chat/{id}/messages",
		rateLimited(http.HandlerFunc(messageHandler.SendMessage))).Methods(http.MethodPost)
	api.HandleFunc("/chat/{id}/messages", messageHandler.ListMessages).Methods(http.MethodGet)
	api.HandleFunc("/chat/{id}/messages/search", messageHandler.SearchMessages).Methods(http.MethodGet)
	api.HandleFunc("/chat/{id}/messages/export", messageHandler.ExportMessages).Methods(http.MethodGet)
	api.HandleFunc("/message/{id}", messageHandler.EditMessage).Methods(http.MethodPut)
	api.HandleFunc("/message/{id}", messageHandler.DeleteMessage).Methods(http.MethodDelete)

	return router
}
