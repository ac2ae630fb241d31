package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"localit/internal/auth"
	"localit/internal/cache"
	"localit/internal/chatstate"
	"localit/internal/db"
	"localit/internal/handlers"
	"localit/internal/middleware"
	"localit/internal/observability"
	"localit/internal/rabbitmq"
	"localit/internal/repositories"
	"localit/internal/telemetry"
	"localit/internal/ws"
)

func main() {
	database, err := db.Connect()
	if err != nil {
		log.Fatalf("failed to connect to db: %v", err)
	}

	ctx := context.Background()
	shutdownTracing, err := telemetry.SetupTracing(ctx, "localit", getEnv("OTLP_ADDR", ""))
	if err != nil {
		log.Fatalf("failed to set up tracing: %v", err)
	}
	defer shutdownTracing(ctx)

	publisher := rabbitmq.NewPublisher(getEnv("AMQP_URL", ""), getEnv("AMQP_EXCHANGE", "localit.events"))
	defer publisher.Close()
	log.Printf("audit publisher mode=%s", rabbitmq.PublisherMode(publisher))
	audit := telemetry.NewAuditEmitter(publisher, "audit_log.localit", "localit", getEnv("ENVIRONMENT", "dev"))

	if amqpPublisher, err := observability.NewAMQPPublisher(getEnv("AMQP_URL", ""), getEnv("AMQP_EXCHANGE", "localit.events")); err == nil {
		observability.SetPublisher(amqpPublisher)
		defer amqpPublisher.Close()
	} else {
		log.Printf("ws event publishing disabled: %v", err)
	}

	tokens := auth.NewTokenManager(getEnv("JWT_SECRET", "dev-secret-change-me"), 24*time.Hour)

	userRepo := repositories.NewUserRepo(database)
	eventRepo := repositories.NewEventRepo(database)
	roomRepo := repositories.NewRoomRepo(database)
	subscriptionRepo := repositories.NewSubscriptionRepo(database)

	availability := cache.NewAvailabilityCache(getEnv("REDIS_ADDR", ""))
	store := chatstate.New()
	hub := ws.NewHub()

	authHandler := handlers.NewAuthHandler(userRepo, tokens, audit)
	chatHandler := handlers.NewChatHandler(store, hub, audit)
	eventHandler := handlers.NewEventHandler(eventRepo, audit)
	roomHandler := handlers.NewRoomHandler(roomRepo, availability, audit)
	subscriptionHandler := handlers.NewSubscriptionHandler(subscriptionRepo)
	chatWS := ws.NewChatWebSocketHandler(hub, tokens)

	router := gin.Default()

	// middlewares
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware("localit"))
	router.Use(observability.HTTPMetricsMiddleware())

	authMiddleware := middleware.AuthMiddleware(tokens)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	router.POST("/auth/signup", authHandler.Signup)
	router.POST("/auth/login", authHandler.Login)
	router.GET("/auth/me", authMiddleware, authHandler.Me)

	router.GET("/chats", authMiddleware, chatHandler.ListChats)
	router.GET("/contacts", authMiddleware, chatHandler.ListContacts)
	router.POST("/chats/:kind/:id/open", authMiddleware, chatHandler.OpenChat)
	router.GET("/chats/:kind/:id/messages", authMiddleware, chatHandler.GetMessages)
	router.GET("/chats/:kind/:id/members", authMiddleware, chatHandler.GetMembers)
	router.POST("/chats/:kind/:id/messages", authMiddleware, chatHandler.PostMessage)
	router.POST("/chats/:kind/:id/read", authMiddleware, chatHandler.MarkRead)
	router.DELETE("/chats/:kind/:id", authMiddleware, chatHandler.CloseChat)

	router.GET("/events", authMiddleware, eventHandler.ListEvents)
	router.POST("/events", authMiddleware, eventHandler.CreateEvent)
	router.GET("/events/:event_id", authMiddleware, eventHandler.GetEvent)
	router.POST("/series", authMiddleware, eventHandler.CreateSeries)
	router.POST("/events/:event_id/apply", authMiddleware, eventHandler.Apply)
	router.GET("/events/:event_id/participants", authMiddleware, eventHandler.Participants)
	router.POST("/events/:event_id/checkin", authMiddleware, eventHandler.CheckIn)

	router.GET("/rooms", authMiddleware, roomHandler.ListRooms)
	router.GET("/rooms/:room_id/slots", authMiddleware, roomHandler.GetSlots)
	router.POST("/rooms/:room_id/reservations", authMiddleware, roomHandler.CreateReservation)

	router.GET("/subscriptions", authMiddleware, subscriptionHandler.List)
	router.POST("/subscriptions", authMiddleware, subscriptionHandler.Subscribe)
	router.DELETE("/subscriptions", authMiddleware, subscriptionHandler.Unsubscribe)

	router.GET("/ws/chats/:kind/:id", chatWS.Handle)

	handlers.RegisterDebugRoutes(router, audit, getEnv("DEBUG_ROUTES", "") == "1")

	port := getEnv("PORT", "8080")
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}
