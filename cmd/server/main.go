package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"focusflow-backend/internal/config"
	"focusflow-backend/internal/database"
	"focusflow-backend/internal/handlers"
	"focusflow-backend/internal/middleware"
	"focusflow-backend/internal/repository"
	"focusflow-backend/internal/router"
	"focusflow-backend/internal/services"
	"focusflow-backend/internal/websocket"
	"focusflow-backend/internal/worker"
)

func main() {
	log.Println("🚀 Starting FocusFlow Backend...")

	// ──── Step 1: Load Environment Variables ────
	cfg := config.Load()
	log.Println("✓ Environment variables loaded")

	// ──── Step 2: Initialize PostgreSQL Connection Pool ────
	pool, err := database.NewPostgresPool(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("✗ PostgreSQL connection failed: %v", err)
	}
	defer pool.Close()
	log.Println("✓ PostgreSQL connected")

	// ──── Step 3: Initialize Redis Clients ────
	redisClients, err := database.NewRedisClients(cfg.RedisURL)
	if err != nil {
		log.Fatalf("✗ Redis connection failed: %v", err)
	}
	defer redisClients.Close()
	log.Println("✓ Redis connected")

	// ──── Step 4: Run Database Migrations ────
	if err := database.RunMigrations(pool, "migrations"); err != nil {
		log.Fatalf("✗ Database migration failed: %v", err)
	}
	log.Println("✓ Database migrations applied")

	// ──── Initialize Repositories ────
	userRepo := repository.NewUserRepo(pool)
	taskRepo := repository.NewTaskRepo(pool)
	sessionRepo := repository.NewSessionRepo(pool)

	// ──── Initialize Services ────
	jwtAuth := middleware.NewJWTAuth(cfg.JWTSecret)
	emailService := services.NewEmailService(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPFrom, cfg.FrontendURL)
	authService := services.NewAuthService(userRepo, redisClients.Queue, jwtAuth, emailService, cfg.GoogleClientID)
	gamificationService := services.NewGamificationService(userRepo, taskRepo, redisClients.Queue, redisClients.PubSub)
	sessionService := services.NewSessionService(sessionRepo, gamificationService)
	taskService := services.NewTaskService(taskRepo, gamificationService)

	// ──── Initialize Handlers ────
	authHandler := handlers.NewAuthHandler(authService, cfg.FrontendURL)
	taskHandler := handlers.NewTaskHandler(taskService)
	sessionHandler := handlers.NewSessionHandler(sessionService)
	gamificationHandler := handlers.NewGamificationHandler(userRepo, gamificationService)
	analyticsHandler := handlers.NewAnalyticsHandler(sessionRepo, taskRepo)
	userHandler := handlers.NewUserHandler(userRepo)

	// ──── Step 5: Start Notification Worker Pool ────
	workerPool := worker.NewPool(redisClients.Queue, emailService, userRepo, cfg.NotificationWorkers)
	workerPool.Start()
	log.Printf("✓ Notification worker pool started (%d goroutines)", cfg.NotificationWorkers)

	streakScheduler := services.NewStreakReminderScheduler(userRepo, emailService, redisClients.Queue, cfg.ReminderHourUTC, cfg.ReminderGraceDays)
	streakScheduler.Start()
	log.Println("✓ Streak reminder scheduler started")

	// ──── Step 6: Start WebSocket Hub ────
	wsHub := websocket.NewHub(redisClients.PubSub, cfg.JWTSecret)
	log.Println("✓ WebSocket hub started")

	// ──── Step 7: Start HTTP Server ────
	r := router.New(
		jwtAuth,
		authHandler,
		taskHandler,
		sessionHandler,
		gamificationHandler,
		analyticsHandler,
		userHandler,
		wsHub,
		cfg.FrontendURL,
	)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("Shutting down...")
		workerPool.Stop()
		streakScheduler.Stop()

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		server.Shutdown(ctx)
	}()

	log.Printf("✓ FocusFlow Backend ready on http://localhost:%s", cfg.Port)
	log.Printf("  API: http://localhost:%s/api/v1", cfg.Port)
	log.Printf("  WS:  ws://localhost:%s/api/v1/ws", cfg.Port)

	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatalf("Server error: %v", err)
	}
}
