package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/bernardo0921/AgriGuide-Backend/api/controllers"
	"github.com/bernardo0921/AgriGuide-Backend/api/middleware"
	"github.com/bernardo0921/AgriGuide-Backend/internal/auth"
	"github.com/bernardo0921/AgriGuide-Backend/internal/chat"
	"github.com/bernardo0921/AgriGuide-Backend/internal/community"
	"github.com/bernardo0921/AgriGuide-Backend/internal/media"
	"github.com/bernardo0921/AgriGuide-Backend/internal/profiles"
	"github.com/bernardo0921/AgriGuide-Backend/internal/tips"
	"github.com/bernardo0921/AgriGuide-Backend/internal/tutorials"
	"github.com/bernardo0921/AgriGuide-Backend/pkg/auth/session"
	"github.com/bernardo0921/AgriGuide-Backend/pkg/config"
	"github.com/bernardo0921/AgriGuide-Backend/pkg/enums"
	"github.com/bernardo0921/AgriGuide-Backend/pkg/logger"
	"github.com/bernardo0921/AgriGuide-Backend/pkg/metrics"
)

// Deps carries everything the HTTP surface needs. The prometheus registry is
// optional; when nil the /metrics endpoint is not mounted.
type Deps struct {
	Config          *config.Config
	Logger          *logger.Logger
	RateStore       middleware.RateLimiterStore
	Sessions        session.AccessSessionChecker
	AuthService     auth.Service
	RegisterService auth.RegisterService
	ProfileService  profiles.Service
	MediaService    media.Service
	Community       community.Service
	Tutorials       tutorials.Service
	Chat            chat.Service
	Tips            *tips.Service
	Prometheus      *prometheus.Registry
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)
	if deps.Prometheus != nil {
		httpMetrics := metrics.NewHTTPMetrics(deps.Prometheus)
		r.Use(middleware.Metrics(httpMetrics))
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Prometheus, promhttp.HandlerOpts{}))
	}

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginIdentifierLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg))
	})

	r.Route("/api/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(registerPolicy, deps.RateStore, logg)).
			Post("/register/farmer/", controllers.RegisterFarmer(deps.RegisterService, logg))
		r.With(middleware.AuthRateLimit(registerPolicy, deps.RateStore, logg)).
			Post("/register/extension-worker/", controllers.RegisterExtensionWorker(deps.RegisterService, logg))
		r.With(middleware.AuthRateLimit(loginPolicy, deps.RateStore, logg)).
			Post("/login/", controllers.AuthLogin(deps.AuthService, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, deps.Sessions, logg))
			r.Post("/logout/", controllers.AuthLogout(deps.AuthService, logg))
			r.Get("/profile/", controllers.ProfileGet(deps.ProfileService, logg))
			r.Put("/profile/update/", controllers.ProfileUpdate(deps.ProfileService, logg))
			r.Patch("/profile/update/", controllers.ProfileUpdate(deps.ProfileService, logg))
			r.Post("/profile/picture/", controllers.ProfilePictureUpload(deps.ProfileService, deps.MediaService, logg))
			r.Post("/change-password/", controllers.AuthChangePassword(deps.AuthService, logg))
			r.Get("/verify-token/", controllers.AuthVerify(deps.AuthService, logg))
		})
	})

	// Deep-link endpoints stay public so shared posts render without a login.
	r.Route("/api/post/{postID}", func(r chi.Router) {
		r.Get("/data/", controllers.DeepLinkPostData(deps.Community, logg))
		r.Get("/metadata/", controllers.DeepLinkPostMetadata(deps.Community, logg))
		r.Post("/track-share/", controllers.DeepLinkTrackShare(deps.Community, logg))
	})

	// Web fallback for devices without the app installed.
	r.Get("/post/{postID}/", controllers.DeepLinkPostFallback(deps.Community, logg))

	r.Route("/api/chat", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, deps.Sessions, logg))
		r.Post("/", controllers.ChatSend(deps.Chat, logg))
		r.Get("/sessions/", controllers.ChatSessions(deps.Chat, logg))
		r.Get("/history/{sessionID}/", controllers.ChatHistory(deps.Chat, logg))
		r.Post("/clear/", controllers.ChatClear(deps.Chat, logg))
		r.Delete("/delete/{sessionID}/", controllers.ChatDelete(deps.Chat, logg))
	})

	r.With(middleware.Auth(cfg.JWT, deps.Sessions, logg)).
		Get("/api/farming-tip/", controllers.FarmingTip(deps.Tips, logg))

	r.Route("/api/community", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, deps.Sessions, logg))
		r.Route("/posts", func(r chi.Router) {
			r.Post("/", controllers.PostCreate(deps.Community, logg))
			r.Get("/", controllers.PostList(deps.Community, logg))
			r.Route("/{postID}", func(r chi.Router) {
				r.Get("/", controllers.PostGet(deps.Community, logg))
				r.Put("/", controllers.PostUpdate(deps.Community, logg))
				r.Patch("/", controllers.PostUpdate(deps.Community, logg))
				r.Delete("/", controllers.PostDelete(deps.Community, logg))
				r.Post("/like/", controllers.PostLikeToggle(deps.Community, logg))
				r.Get("/comments/", controllers.CommentList(deps.Community, logg))
				r.Post("/comments/", controllers.CommentCreate(deps.Community, logg))
				r.Delete("/comments/{commentID}/", controllers.CommentDelete(deps.Community, logg))
			})
		})
		r.Get("/my-posts/", controllers.MyPosts(deps.Community, logg))
	})

	r.Route("/api/tutorials", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, deps.Sessions, logg))
		r.Get("/", controllers.TutorialList(deps.Tutorials, logg))
		r.Get("/categories/", controllers.TutorialCategories(deps.Tutorials, logg))
		r.With(middleware.RequireUserType(enums.UserTypeExtensionWorker, logg)).Group(func(r chi.Router) {
			r.Post("/", controllers.TutorialCreate(deps.Tutorials, logg))
			r.Get("/my_tutorials/", controllers.MyTutorials(deps.Tutorials, logg))
		})
		r.Route("/{tutorialID}", func(r chi.Router) {
			r.Get("/", controllers.TutorialGet(deps.Tutorials, logg))
			r.Put("/", controllers.TutorialUpdate(deps.Tutorials, logg))
			r.Patch("/", controllers.TutorialUpdate(deps.Tutorials, logg))
			r.Delete("/", controllers.TutorialDelete(deps.Tutorials, logg))
			r.Post("/increment_views/", controllers.TutorialIncrementViews(deps.Tutorials, logg))
		})
	})

	r.With(middleware.Auth(cfg.JWT, deps.Sessions, logg)).
		Post("/api/media/upload/", controllers.MediaUpload(deps.MediaService, logg))

	return r
}
