package api

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/isdelr/fintrack-be/internal/api/handlers"
	"github.com/isdelr/fintrack-be/internal/auth"
	"github.com/isdelr/fintrack-be/internal/mail"
	"github.com/isdelr/fintrack-be/internal/monitoring"
	"github.com/isdelr/fintrack-be/internal/services"
	"github.com/isdelr/fintrack-be/internal/tasks"
	"github.com/isdelr/fintrack-be/internal/websocket"
)

// Dependencies bundles everything the router wires into handlers.
type Dependencies struct {
	DB       *sql.DB
	Tokens   *auth.Manager
	Users    services.UserServiceProvider
	Expenses services.ExpenseServiceProvider
	Events   services.EventServiceProvider
	Seed     services.SeedServiceProvider
	Checker  *monitoring.BalanceChecker
	Mailer   *mail.Mailer
	Queue    *tasks.Queue
	Hub      *websocket.Hub
	Limiter  RateLimiter

	AllowedOrigins []string
	SecureCookies  bool
	AuthRateLimit  int
	AuthRateWindow time.Duration
}

// NewRouter creates and configures a new Chi router.
func NewRouter(deps Dependencies) *chi.Mux {
	r := chi.NewRouter()

	// Basic middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   deps.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link", "X-RateLimit-Remaining", "Retry-After"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Initialize handlers
	userHandler := handlers.NewUserHandler(deps.Users, deps.Tokens, deps.Events, optionalMailer(deps.Mailer), optionalQueue(deps.Queue), deps.SecureCookies)
	expenseHandler := handlers.NewExpenseHandler(deps.Expenses, deps.Users, optionalChecker(deps.Checker), optionalQueue(deps.Queue))
	alertHandler := handlers.NewAlertHandler(optionalPassRunner(deps.Checker), deps.Events, optionalTestMailer(deps.Mailer))
	eventHandler := handlers.NewEventHandler(deps.Events)
	seedHandler := handlers.NewSeedHandler(deps.Seed)
	wsHandler := handlers.NewWebSocketHandler(deps.Hub, deps.AllowedOrigins)
	healthHandler := handlers.NewHealthHandler(deps.DB, deps.AllowedOrigins)

	r.Get("/health", healthHandler.Health)

	// API versioning
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/cors-test", healthHandler.CORSTest)

		r.Group(func(r chi.Router) {
			r.Use(RateLimit(deps.Limiter, "auth", deps.AuthRateLimit, deps.AuthRateWindow))
			r.Post("/auth/register", userHandler.Register)
			r.Post("/auth/login", userHandler.Login)
		})
		r.Post("/auth/logout", userHandler.Logout)

		// Routes below require a valid token.
		r.Group(func(r chi.Router) {
			r.Use(deps.Tokens.Middleware())

			r.Get("/ws", wsHandler.Serve)

			r.Route("/users/me", func(r chi.Router) {
				r.Get("/", userHandler.GetMe)
				r.Put("/", userHandler.UpdateMe)
			})

			r.Route("/expenses", func(r chi.Router) {
				r.Get("/", expenseHandler.GetAll)
				r.Post("/", expenseHandler.Create)
				r.Get("/stats", expenseHandler.Stats)
			})

			r.Post("/seed/expenses", seedHandler.SeedMine)
			r.Post("/mail/test", alertHandler.SendTestMail)

			r.Route("/admin", func(r chi.Router) {
				r.Use(auth.RequireAdmin)
				r.Post("/check-balance", alertHandler.CheckBalance)
				r.Get("/events", eventHandler.GetRecent)
				r.Post("/seed/all-users", seedHandler.SeedAll)
			})
		})
	})

	return r
}

// optionalQueue and its siblings keep typed nil pointers from reaching the
// handlers as non-nil interfaces.
func optionalQueue(q *tasks.Queue) handlers.TaskQueue {
	if q == nil {
		return nil
	}
	return q
}

func optionalMailer(m *mail.Mailer) handlers.WelcomeMailer {
	if m == nil {
		return nil
	}
	return m
}

func optionalChecker(c *monitoring.BalanceChecker) handlers.UserChecker {
	if c == nil {
		return nil
	}
	return c
}

func optionalPassRunner(c *monitoring.BalanceChecker) handlers.PassRunner {
	if c == nil {
		return nil
	}
	return c
}

func optionalTestMailer(m *mail.Mailer) handlers.TestMailer {
	if m == nil {
		return nil
	}
	return m
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"message": message})
}
