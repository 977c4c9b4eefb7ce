package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/EstateHub/marketplace-backend/internal/auth"
	"github.com/EstateHub/marketplace-backend/internal/config"
	"github.com/EstateHub/marketplace-backend/internal/db"
	"github.com/EstateHub/marketplace-backend/internal/middleware"
	"github.com/EstateHub/marketplace-backend/internal/notifications"
	"github.com/EstateHub/marketplace-backend/internal/pages"
	"github.com/EstateHub/marketplace-backend/internal/rfq"
	"github.com/EstateHub/marketplace-backend/internal/session"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

func main() {
	_ = godotenv.Load(".env.local")

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config: ", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal("Invalid config: ", err)
	}

	conn, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}

	if err := auth.Init(conn); err != nil {
		log.Fatal("Failed to init auth: ", err)
	}
	if err := notifications.Init(conn); err != nil {
		log.Fatal("Failed to init notifications: ", err)
	}
	if err := rfq.Init(conn); err != nil {
		log.Fatal("Failed to init rfq: ", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sessions, closeSessions := buildSessionStore(ctx, cfg, conn)
	defer closeSessions()

	if cfg.SweepInterval > 0 {
		go session.NewSweeper(sessions, cfg.SweepInterval).Run(ctx)
	}

	cookies := auth.CookieCodec{Secure: cfg.CookieSecure}
	authHandler := auth.NewHandler(sessions, auth.NewGormUsers(conn), cookies, cfg.SessionTTL, auth.NewLoginLimiter(cfg.LoginPerMinute))
	notificationHandler := notifications.NewHandler(notifications.NewGormRepository(conn))
	rfqHandler := rfq.NewHandler(rfq.NewGormRepository(conn))

	srv := &http.Server{
		Addr:              "0.0.0.0:" + cfg.Port,
		Handler:           newRouter(cfg, authHandler, notificationHandler, rfqHandler),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("Shutdown: %v", err)
		}
	}()

	log.Printf("Server listening on port :%s...", cfg.Port)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal(err)
	}
}

// newRouter mounts every feature behind CORS and the page guard. No RealIP:
// the login limiter must key on the socket address, not on forwarded headers.
func newRouter(cfg config.Config, authHandler *auth.Handler, notificationHandler *notifications.Handler, rfqHandler *rfq.Handler) http.Handler {
	resolver := authHandler.Resolver()
	guard := middleware.NewRouteGuard(cfg.ProtectedPaths, cfg.SignInPath, resolver)

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS(cfg.AllowedOrigins))
	r.Use(guard.Middleware)

	pages.Mount(r, cfg.ProtectedPaths)
	r.Route("/api", func(r chi.Router) {
		r.Mount("/auth", auth.SetupRoutes(authHandler))
		r.Mount("/notifications", notifications.SetupRoutes(notificationHandler, resolver))
		r.Mount("/rfq-requests", rfq.SetupRoutes(rfqHandler))
	})
	return r
}

// buildSessionStore picks the backing store and puts the redis cache in front
// of it when REDIS_URL is set. The returned func releases the redis client.
func buildSessionStore(ctx context.Context, cfg config.Config, conn *gorm.DB) (session.Store, func()) {
	var store session.Store = session.NewGormStore(conn)
	if cfg.SessionBackend == config.BackendMemory {
		log.Println("[session] using in-memory store, sessions will not survive a restart")
		store = session.NewMemoryStore()
	}

	if cfg.RedisURL == "" {
		return store, func() {}
	}

	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		log.Fatal("Invalid REDIS_URL: ", err)
	}
	rdb := redis.NewClient(opt)

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		log.Printf("[session] WARNING: redis ping failed, cache reads will fall through: %v", err)
	} else {
		log.Println("[session] redis session cache enabled")
	}

	return session.NewCachedStore(store, rdb, session.DefaultCacheTTL), func() { _ = rdb.Close() }
}
