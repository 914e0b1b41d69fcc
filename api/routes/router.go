package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tabegoro/tabegoro-backend/api/controllers"
	"github.com/tabegoro/tabegoro-backend/api/middleware"
	"github.com/tabegoro/tabegoro-backend/internal/auth"
	"github.com/tabegoro/tabegoro-backend/internal/public"
	"github.com/tabegoro/tabegoro-backend/internal/restaurants"
	"github.com/tabegoro/tabegoro-backend/internal/uploads"
	"github.com/tabegoro/tabegoro-backend/internal/users"
	"github.com/tabegoro/tabegoro-backend/pkg/config"
	"github.com/tabegoro/tabegoro-backend/pkg/db"
	"github.com/tabegoro/tabegoro-backend/pkg/logger"
	"github.com/tabegoro/tabegoro-backend/pkg/metrics"
	"github.com/tabegoro/tabegoro-backend/pkg/redis"
	"github.com/tabegoro/tabegoro-backend/pkg/storage/gcs"
)

// RouterParams carries everything the HTTP surface depends on.
type RouterParams struct {
	Config  *config.Config
	Logger  *logger.Logger
	Metrics *metrics.HTTPMetrics

	DB      db.Pinger
	Redis   *redis.Client
	Storage gcs.Pinger

	AuthService       auth.Service
	RegisterService   auth.RegisterService
	UsersService      users.Service
	RestaurantService restaurants.Service
	PublicService     public.Service
	UploadsService    uploads.Service
}

func NewRouter(p RouterParams) http.Handler {
	cfg := p.Config
	logg := p.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.CORS),
	)
	if p.Metrics != nil {
		r.Use(p.Metrics.Middleware)
	}

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

	deps := []controllers.Dependency{
		{Name: "postgres", Pinger: p.DB},
		{Name: "storage", Pinger: p.Storage},
	}
	if p.Redis != nil {
		deps = append(deps, controllers.Dependency{Name: "redis", Pinger: p.Redis})
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps...))
	})

	if p.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", p.Metrics.Handler())
	}

	r.Route("/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(registerPolicy, p.Redis, logg)).
			Post("/register", controllers.AuthRegister(p.RegisterService, logg))
		r.With(middleware.AuthRateLimit(loginPolicy, p.Redis, logg)).
			Post("/login", controllers.AuthLogin(p.AuthService, logg))
		r.With(middleware.Auth(cfg.JWT, logg)).
			Get("/me", controllers.AuthMe(p.AuthService, logg))
	})

	r.Route("/api/public/restaurants", func(r chi.Router) {
		r.Get("/", controllers.PublicRestaurants(p.PublicService, logg))
		r.Get("/{slug}", controllers.PublicRestaurantBySlug(p.PublicService, logg))
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))

		r.Route("/user", func(r chi.Router) {
			r.Get("/", controllers.UserGet(p.UsersService, logg))
			r.Patch("/", controllers.UserUpdateProfile(p.UsersService, logg))
			r.Patch("/username", controllers.UserUpdateUsername(p.UsersService, logg))
			r.Patch("/email", controllers.UserUpdateEmail(p.UsersService, logg))
			r.Patch("/password", controllers.UserUpdatePassword(p.UsersService, logg))
			r.Delete("/", controllers.UserDelete(p.UsersService, logg))
		})

		r.Route("/restaurants", func(r chi.Router) {
			r.Post("/", controllers.RestaurantCreate(p.RestaurantService, logg))
			r.Get("/", controllers.RestaurantList(p.RestaurantService, logg))
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", controllers.RestaurantGet(p.RestaurantService, logg))
				r.Patch("/", controllers.RestaurantUpdate(p.RestaurantService, logg))
				r.Delete("/", controllers.RestaurantDelete(p.RestaurantService, logg))
				r.Patch("/publish", controllers.RestaurantSetPublished(p.RestaurantService, logg, true))
				r.Patch("/unpublish", controllers.RestaurantSetPublished(p.RestaurantService, logg, false))
				r.Patch("/regenerate-slug", controllers.RestaurantRegenerateSlug(p.RestaurantService, logg))
			})
		})

		r.Post("/api/upload/image", controllers.UploadImage(p.UploadsService, logg))
	})

	return r
}
