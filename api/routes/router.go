package routes

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vivomercado/backend/api/controllers"
	"github.com/vivomercado/backend/api/middleware"
	"github.com/vivomercado/backend/internal/auth"
	"github.com/vivomercado/backend/internal/categories"
	"github.com/vivomercado/backend/internal/favorites"
	"github.com/vivomercado/backend/internal/listings"
	"github.com/vivomercado/backend/internal/purchases"
	"github.com/vivomercado/backend/internal/questions"
	"github.com/vivomercado/backend/internal/reports"
	"github.com/vivomercado/backend/internal/users"
	"github.com/vivomercado/backend/pkg/auth/session"
	"github.com/vivomercado/backend/pkg/config"
	"github.com/vivomercado/backend/pkg/db"
	"github.com/vivomercado/backend/pkg/enums"
	"github.com/vivomercado/backend/pkg/logger"
	"github.com/vivomercado/backend/pkg/metrics"
	"github.com/vivomercado/backend/pkg/redis"
)

type sessionManager interface {
	session.AccessSessionChecker
	Rotate(context.Context, string, string) (string, string, error)
	Revoke(context.Context, string) error
}

// Services bundles the application services the router exposes.
type Services struct {
	Auth       auth.Service
	Users      users.Service
	Listings   listings.Service
	Purchases  purchases.Service
	Questions  questions.Service
	Favorites  favorites.Service
	Categories categories.Service
	Reports    reports.Service
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbPinger db.Pinger,
	redisClient *redis.Client,
	sessions sessionManager,
	httpMetrics *metrics.HTTPMetrics,
	metricsHandler http.Handler,
	svcs Services,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(httpMetrics),
		middleware.CORS(),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, dbPinger, redisClient, logg))
	})

	if metricsHandler != nil {
		r.Handle("/metrics", metricsHandler)
	}

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(loginPolicy, redisClient, logg)).Post("/login", controllers.AuthLogin(svcs.Auth, logg))
		r.With(middleware.AuthRateLimit(registerPolicy, redisClient, logg)).Post("/register", controllers.AuthRegister(svcs.Users, logg))
		r.Post("/refresh", controllers.AuthRefresh(svcs.Auth, logg))
		r.With(middleware.Auth(cfg.JWT, sessions, logg)).Post("/logout", controllers.AuthLogout(svcs.Auth, logg))
	})

	// Public catalog. The optional token only fills in viewer-specific
	// fields such as the favorited flag.
	r.Group(func(r chi.Router) {
		r.Use(middleware.OptionalAuth(cfg.JWT, sessions))
		r.Get("/api/v1/categories", controllers.CategoriesList(svcs.Categories, logg))
		r.Get("/api/v1/listings", controllers.ListingsSearch(svcs.Listings, logg))
		r.Get("/api/v1/listings/{listingId}", controllers.ListingsGet(svcs.Listings, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, sessions, logg))

		r.Route("/users", func(r chi.Router) {
			r.Get("/me", controllers.UsersMe(svcs.Users, logg))
			r.Put("/me", controllers.UsersUpdateMe(svcs.Users, logg))
			r.Post("/me/deactivate", controllers.UsersDeactivateMe(svcs.Users, logg))
		})

		r.Route("/listings", func(r chi.Router) {
			r.Post("/", controllers.ListingsCreate(svcs.Listings, logg))
			r.Get("/mine", controllers.ListingsMine(svcs.Listings, logg))
			r.Put("/{listingId}", controllers.ListingsUpdate(svcs.Listings, logg))
			r.Delete("/{listingId}", controllers.ListingsDeactivate(svcs.Listings, logg))
		})

		r.Route("/purchases", func(r chi.Router) {
			r.Post("/", controllers.PurchasesCreate(svcs.Purchases, logg))
			r.Get("/", controllers.PurchasesMine(svcs.Purchases, logg))
			r.Get("/{purchaseId}", controllers.PurchasesGet(svcs.Purchases, logg))
			r.Patch("/{purchaseId}/status", controllers.PurchasesUpdateStatus(svcs.Purchases, logg))
			r.Post("/{purchaseId}/cancel", controllers.PurchasesCancel(svcs.Purchases, logg))
		})
		r.Get("/sales", controllers.SalesMine(svcs.Purchases, logg))

		r.Route("/questions", func(r chi.Router) {
			r.Post("/", controllers.QuestionsAsk(svcs.Questions, logg))
			r.Get("/asked", controllers.QuestionsAsked(svcs.Questions, logg))
			r.Get("/received", controllers.QuestionsReceived(svcs.Questions, logg))
			r.Get("/unread-count", controllers.QuestionsUnreadCount(svcs.Questions, logg))
			r.Put("/{questionId}", controllers.QuestionsEdit(svcs.Questions, logg))
			r.Delete("/{questionId}", controllers.QuestionsDelete(svcs.Questions, logg))
			r.Post("/{questionId}/answer", controllers.QuestionsAnswer(svcs.Questions, logg))
		})

		r.Route("/answers", func(r chi.Router) {
			r.Get("/", controllers.AnswersMine(svcs.Questions, logg))
			r.Put("/{answerId}", controllers.AnswersEdit(svcs.Questions, logg))
			r.Delete("/{answerId}", controllers.AnswersDelete(svcs.Questions, logg))
		})

		r.Route("/favorites", func(r chi.Router) {
			r.Get("/", controllers.FavoritesList(svcs.Favorites, logg))
			r.Post("/toggle", controllers.FavoritesToggle(svcs.Favorites, logg))
			r.Delete("/{favoriteId}", controllers.FavoritesRemove(svcs.Favorites, logg))
		})

		r.Route("/reports", func(r chi.Router) {
			r.Get("/purchases", controllers.ReportsPurchases(svcs.Reports, logg))
			r.Get("/sales", controllers.ReportsSales(svcs.Reports, logg))
		})
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, sessions, logg))
		r.Use(middleware.RequireRole(string(enums.UserRoleAdmin), logg))

		r.Get("/users", controllers.UsersList(svcs.Users, logg))

		r.Route("/categories", func(r chi.Router) {
			r.Post("/", controllers.CategoriesCreate(svcs.Categories, logg))
			r.Put("/{categoryId}", controllers.CategoriesUpdate(svcs.Categories, logg))
			r.Delete("/{categoryId}", controllers.CategoriesDeactivate(svcs.Categories, logg))
		})
	})

	return r
}
