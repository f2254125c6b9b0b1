package routes

import (
	"net/http"
	"time"

	"github.com/ringshq/rings/internal/app"
	"github.com/ringshq/rings/internal/handler"
	"github.com/ringshq/rings/internal/middleware"
	"github.com/ringshq/rings/internal/storage"
)

func SetupRoutes(app *app.App) http.Handler {
	// Handlers
	health := handler.NewHealthHandler(app.DB)
	auth := handler.NewAuthHandler(app.AuthService)
	ring := handler.NewRingHandler(app.RingService)
	post := handler.NewPostHandler(app.RingService, app.PostService)
	feed := handler.NewFeedHandler(app.PostService)

	// Rate limit tiers. The general tier wraps the whole mux below.
	authLimit := middleware.RateLimit(middleware.NewRateLimiter(5, time.Minute), middleware.KeyByIP)
	postLimit := middleware.RateLimit(middleware.NewRateLimiter(10, time.Minute), middleware.KeyByUser)
	searchLimit := middleware.RateLimit(middleware.NewRateLimiter(20, time.Minute), middleware.KeyByUser)

	mux := http.NewServeMux()

	// Health
	mux.HandleFunc("GET /api/health", health.Health)

	// Auth
	mux.HandleFunc("POST /api/auth/register", authLimit(auth.Register))
	mux.HandleFunc("POST /api/auth/login", authLimit(auth.Login))
	mux.HandleFunc("POST /api/auth/logout", middleware.RequireAuth(auth.Logout))
	mux.HandleFunc("GET /api/auth/me", middleware.RequireAuth(auth.Me))

	// News feed
	mux.HandleFunc("GET /api/news-feed", middleware.RequireAuth(searchLimit(feed.Feed)))

	// Rings
	mux.HandleFunc("GET /api/rings", middleware.RequireAuth(ring.List))
	mux.HandleFunc("POST /api/rings", middleware.RequireAuth(ring.Create))
	mux.HandleFunc("GET /api/rings/search", middleware.RequireAuth(searchLimit(ring.Search)))
	mux.HandleFunc("GET /api/rings/{id}", middleware.RequireAuth(ring.Get))
	mux.HandleFunc("POST /api/rings/{id}/join", middleware.RequireAuth(ring.Join))
	mux.HandleFunc("GET /api/rings/{id}/members", middleware.RequireAuth(ring.Members))
	mux.HandleFunc("POST /api/rings/{id}/members", middleware.RequireAuth(ring.AddMember))

	// Posts
	mux.HandleFunc("GET /api/rings/{id}/posts", middleware.RequireAuth(post.List))
	mux.HandleFunc("POST /api/rings/{id}/posts", middleware.RequireAuth(postLimit(post.Create)))

	// Uploaded images (local storage driver only; S3 serves its own URLs)
	if local, ok := app.Storage.(*storage.LocalStorage); ok {
		mux.Handle("GET /uploads/", http.StripPrefix("/uploads/", http.FileServer(http.Dir(local.Root()))))
	}

	// Global middleware - executed in order (top to bottom)
	return middleware.Chain(
		mux,
		middleware.CORS(app.Cfg.CORSOrigin),
		middleware.RequestID,
		middleware.RequestLogging,
		middleware.AuthMiddleware(app.AuthService),
		middleware.RateLimitAll(middleware.NewRateLimiter(100, time.Minute), middleware.KeyByUser),
	)
}
