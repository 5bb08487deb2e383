package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"focusflow-backend/internal/handlers"
	"focusflow-backend/internal/middleware"
	"focusflow-backend/internal/websocket"
)

func New(
	jwtAuth *middleware.JWTAuth,
	authHandler *handlers.AuthHandler,
	taskHandler *handlers.TaskHandler,
	sessionHandler *handlers.SessionHandler,
	gamificationHandler *handlers.GamificationHandler,
	analyticsHandler *handlers.AnalyticsHandler,
	userHandler *handlers.UserHandler,
	wsHub *websocket.Hub,
	frontendURL string,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.CORS(frontendURL))

	// Auth rate limiter (10 req/min per IP)
	authLimiter := middleware.NewRateLimiter(10, time.Minute)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api/v1", func(r chi.Router) {

		// ──── Auth Routes (public) ────
		r.Route("/auth", func(r chi.Router) {
			r.Use(authLimiter.Middleware)
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
			r.Post("/google", authHandler.GoogleLogin)
			r.Post("/refresh", authHandler.Refresh)
			r.Get("/verify-email", authHandler.VerifyEmail)
			r.Post("/resend-verification", authHandler.ResendVerification)
			r.Post("/forgot-password", authHandler.ForgotPassword)
			r.Post("/reset-password", authHandler.ResetPassword)

			// Logout requires auth
			r.Group(func(r chi.Router) {
				r.Use(jwtAuth.Middleware)
				r.Post("/logout", authHandler.Logout)
			})
		})

		// ──── Task Routes ────
		r.Route("/tasks", func(r chi.Router) {
			r.Use(jwtAuth.Middleware)
			r.Post("/", taskHandler.Create)
			r.Get("/", taskHandler.List)
			r.Get("/{id}", taskHandler.Get)
			r.Put("/{id}", taskHandler.Update)
			r.Post("/{id}/complete", taskHandler.Complete)
			r.Delete("/{id}", taskHandler.Delete)
		})

		// ──── Focus Session Routes ────
		r.Route("/sessions", func(r chi.Router) {
			r.Use(jwtAuth.Middleware)
			r.Post("/", sessionHandler.Create)
			r.Get("/", sessionHandler.List)
			r.Get("/active", sessionHandler.GetActive)
			r.Get("/{id}", sessionHandler.Get)
			r.Post("/{id}/start", sessionHandler.Start)
			r.Post("/{id}/pause", sessionHandler.Pause)
			r.Post("/{id}/resume", sessionHandler.Resume)
			r.Post("/{id}/complete", sessionHandler.Complete)
			r.Post("/{id}/cancel", sessionHandler.Cancel)
			r.Post("/{id}/distraction", sessionHandler.LogDistraction)
			r.Delete("/{id}", sessionHandler.Delete)
		})

		// ──── Gamification Routes ────
		r.Route("/gamification", func(r chi.Router) {
			r.Use(jwtAuth.Middleware)
			r.Get("/overview", gamificationHandler.Overview)
			r.Get("/badges", gamificationHandler.Badges)
			r.Get("/leaderboard", gamificationHandler.Leaderboard)
			r.Post("/check-achievements", gamificationHandler.CheckAchievements)
		})

		// ──── Analytics Routes ────
		r.Route("/analytics", func(r chi.Router) {
			r.Use(jwtAuth.Middleware)
			r.Get("/today", analyticsHandler.Today)
			r.Get("/productivity", analyticsHandler.Productivity)
		})

		// ──── User Routes ────
		r.Route("/user", func(r chi.Router) {
			r.Use(jwtAuth.Middleware)
			r.Get("/me", userHandler.GetMe)
			r.Put("/me", userHandler.UpdateMe)
			r.Put("/password", userHandler.ChangePassword)
			r.Delete("/me", userHandler.DeleteMe)
		})

		// ──── WebSocket ────
		r.Get("/ws", wsHub.HandleWebSocket)
	})

	return r
}
