package server

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/hartmanbaily-coder/losttofound/internal/email"
	"github.com/hartmanbaily-coder/losttofound/internal/handler"
	"github.com/hartmanbaily-coder/losttofound/internal/middleware"
	"github.com/hartmanbaily-coder/losttofound/internal/payments"
	"github.com/hartmanbaily-coder/losttofound/internal/photo"
	"github.com/hartmanbaily-coder/losttofound/internal/push"
	"github.com/hartmanbaily-coder/losttofound/internal/store"
	ws "github.com/hartmanbaily-coder/losttofound/internal/websocket"
)

type Config struct {
	BaseURL     string
	Stripe      payments.Config
	Photo       photo.Config
	Push        push.Config
	EmailClient *email.Client
}

type Server struct {
	db           *sql.DB
	hub          *ws.Hub
	authH        *handler.AuthHandler
	petH         *handler.PetHandler
	finderH      *handler.FinderHandler
	billingH     *handler.BillingHandler
	webhookH     *handler.WebhookHandler
	pushH        *handler.PushHandler
	pageH        *handler.PageHandler
	sessionStore *store.SessionStore
	userStore    *store.UserStore
	rateLimiter  *middleware.RateLimiter
	logger       *slog.Logger
}

func New(db *sql.DB, cfg Config, logger *slog.Logger) *Server {
	hub := ws.NewHub(logger.With("component", "websocket"))

	userStore := store.NewUserStore(db)
	sessionStore := store.NewSessionStore(db)
	profileStore := store.NewProfileStore(db)
	petStore := store.NewPetStore(db)
	messageStore := store.NewFinderMessageStore(db)
	pushStore := store.NewPushStore(db)

	var stripeClient *payments.Client
	if cfg.Stripe.Configured() {
		stripeClient = payments.NewClient(cfg.Stripe)
	}

	photoStorage := photo.NewStorage(cfg.Photo)

	var pushSvc *push.Service
	if cfg.Push.VAPIDPublicKey != "" && cfg.Push.VAPIDPrivateKey != "" {
		pushSvc = push.NewService(cfg.Push.VAPIDPublicKey, cfg.Push.VAPIDPrivateKey)
	}

	return &Server{
		db:  db,
		hub: hub,
		authH: handler.NewAuthHandler(userStore, sessionStore, profileStore,
			logger.With("component", "auth")),
		petH: handler.NewPetHandler(petStore, messageStore, profileStore, photoStorage, hub,
			logger.With("component", "pet")),
		finderH: handler.NewFinderHandler(petStore, messageStore, userStore, pushStore,
			cfg.EmailClient, pushSvc, hub, logger.With("component", "finder")),
		billingH: handler.NewBillingHandler(stripeClient, profileStore, userStore,
			logger.With("component", "billing")),
		webhookH: handler.NewWebhookHandler(stripeClient, profileStore, userStore,
			logger.With("component", "webhook")),
		pushH: handler.NewPushHandler(pushStore, pushSvc,
			logger.With("component", "push")),
		pageH: handler.NewPageHandler(petStore, messageStore, profileStore,
			cfg.BaseURL, stripeClient != nil, logger.With("component", "pages")),
		sessionStore: sessionStore,
		userStore:    userStore,
		rateLimiter:  middleware.NewRateLimiter(),
		logger:       logger,
	}
}

// SessionStore returns the session store for cleanup tasks.
func (s *Server) SessionStore() *store.SessionStore {
	return s.sessionStore
}

// RateLimiter returns the rate limiter for cleanup tasks.
func (s *Server) RateLimiter() *middleware.RateLimiter {
	return s.rateLimiter
}

func (s *Server) Router() http.Handler {
	outerMux := http.NewServeMux()

	// Public routes (no auth required)
	outerMux.HandleFunc("GET /{$}", s.pageH.Landing)
	outerMux.HandleFunc("GET /login", s.authH.LoginPage)
	outerMux.HandleFunc("POST /login", s.rateLimitedHandler(s.authH.Login))
	outerMux.HandleFunc("GET /register", s.authH.RegisterPage)
	outerMux.HandleFunc("POST /register", s.rateLimitedHandler(s.authH.Register))
	outerMux.HandleFunc("GET /p/{slug}", s.pageH.PublicPet)
	outerMux.HandleFunc("GET /lost", s.pageH.LostBoard)
	outerMux.HandleFunc("POST /api/finder-message", s.rateLimitedHandler(s.finderH.Create))
	outerMux.HandleFunc("POST /webhooks/stripe", s.webhookH.HandleStripeWebhook)
	outerMux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.Dir("web/static"))))
	outerMux.HandleFunc("GET /health", s.healthHandler)

	// Protected routes behind RequireAuth
	protectedMux := http.NewServeMux()
	s.registerProtectedRoutes(protectedMux)

	authMiddleware := middleware.RequireAuth(s.sessionStore, s.userStore)
	outerMux.Handle("/", authMiddleware(protectedMux))

	return middleware.RequestLogger(s.logger.With("component", "http"))(outerMux)
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) rateLimitedHandler(h http.HandlerFunc) http.HandlerFunc {
	keyFunc := func(r *http.Request) string {
		return middleware.RealIP(r)
	}
	rl := middleware.RateLimit(s.rateLimiter, keyFunc, middleware.PublicWriteLimit, middleware.PublicWriteWindow)
	return func(w http.ResponseWriter, r *http.Request) {
		rl(http.HandlerFunc(h)).ServeHTTP(w, r)
	}
}

func (s *Server) registerProtectedRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /logout", s.authH.Logout)

	// Pages
	mux.HandleFunc("GET /dashboard", s.pageH.Dashboard)
	mux.HandleFunc("GET /billing", s.pageH.Billing)
	mux.HandleFunc("GET /poster/{slug}", s.pageH.Poster)

	// Pet API
	mux.HandleFunc("POST /api/pets", s.petH.Create)
	mux.HandleFunc("GET /api/pets", s.petH.List)
	mux.HandleFunc("GET /api/pets/{id}", s.petH.Get)
	mux.HandleFunc("PUT /api/pets/{id}", s.petH.Update)
	mux.HandleFunc("POST /api/pets/{id}/status", s.petH.UpdateStatus)
	mux.HandleFunc("PUT /api/pets/{id}/contacts", s.petH.UpdateContacts)
	mux.HandleFunc("PUT /api/pets/{id}/travel", s.petH.UpdateTravel)
	mux.HandleFunc("POST /api/pets/{id}/photos", s.petH.UploadPhoto)
	mux.HandleFunc("DELETE /api/pets/{id}/photos/{slot}", s.petH.DeletePhoto)
	mux.HandleFunc("GET /api/pets/{id}/messages", s.petH.Messages)

	// Finder message inbox
	mux.HandleFunc("GET /api/finder-messages", s.finderH.ListMessages)

	// Billing API
	mux.HandleFunc("POST /api/billing/checkout", s.billingH.Checkout)
	mux.HandleFunc("POST /api/billing/portal", s.billingH.Portal)
	mux.HandleFunc("POST /api/billing/mark-plus", s.billingH.MarkPlus)

	// Push notifications
	mux.HandleFunc("POST /api/push/subscribe", s.pushH.Subscribe)
	mux.HandleFunc("POST /api/push/unsubscribe", s.pushH.Unsubscribe)
	mux.HandleFunc("GET /api/push/subscriptions", s.pushH.ListSubscriptions)
	mux.HandleFunc("GET /api/push/vapid-key", s.pushH.VAPIDKey)

	// WebSocket
	mux.HandleFunc("GET /ws", ws.HandleWebSocket(s.hub))
}
