package routes

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/travel-places/internal/config"
	"github.com/ahmetcoskunkizilkaya/travel-places/internal/dto"
	"github.com/ahmetcoskunkizilkaya/travel-places/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/travel-places/internal/metrics"
	"github.com/ahmetcoskunkizilkaya/travel-places/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/travel-places/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

type Handlers struct {
	Auth   *handlers.AuthHandler
	Health *handlers.HealthHandler
	Place  *handlers.PlaceHandler
	Admin  *handlers.AdminHandler
}

func Setup(
	app *fiber.App,
	cfg *config.Config,
	authService *services.AuthService,
	h Handlers,
	m *metrics.Metrics,
	limiterStorage fiber.Storage,
) {
	app.Get("/metrics", m.Handler())

	api := app.Group("/api")

	// General API rate limit per IP
	if cfg.RateLimitMax > 0 {
		api.Use(rateLimiter("api", cfg.RateLimitMax, limiterStorage))
	}

	api.Get("/health", h.Health.Check)

	// JWT verification then identity resolution; admin routes add the role gate.
	authed := []fiber.Handler{middleware.JWTProtected(cfg), middleware.Authenticate(authService)}
	admin := with(authed, middleware.AdminRequired())

	// Auth: stricter limit on the credential endpoints only
	var credentials []fiber.Handler
	if cfg.AuthRateLimitMax > 0 {
		credentials = append(credentials, rateLimiter("auth", cfg.AuthRateLimitMax, limiterStorage))
	}
	auth := api.Group("/auth")
	auth.Post("/register", with(credentials, h.Auth.Register)...)
	auth.Post("/login", with(credentials, h.Auth.Login)...)
	auth.Post("/logout", with(authed, h.Auth.Logout)...)
	auth.Get("/me", with(authed, h.Auth.Me)...)
	auth.Put("/profile", with(authed, h.Auth.UpdateProfile)...)
	auth.Put("/change-password", with(authed, h.Auth.ChangePassword)...)

	// Places. The literal favorites path must be registered before /:id.
	places := api.Group("/places")
	places.Get("/", h.Place.List)
	places.Get("/favorites/me", with(authed, h.Place.ListFavorites)...)
	places.Get("/:id", h.Place.Get)
	places.Post("/", with(admin, h.Place.Create)...)
	places.Put("/:id", with(admin, h.Place.Update)...)
	places.Delete("/:id", with(admin, h.Place.Delete)...)
	places.Post("/:id/reviews", with(authed, h.Place.AddReview)...)
	places.Post("/:id/favorite", with(authed, h.Place.AddFavorite)...)
	places.Delete("/:id/favorite", with(authed, h.Place.RemoveFavorite)...)

	// Admin panel
	adminGroup := api.Group("/admin", admin...)
	adminGroup.Get("/users", h.Admin.ListUsers)
	adminGroup.Put("/users/:id/block", h.Admin.SetBlocked)
	adminGroup.Delete("/users/:id", h.Admin.DeleteUser)
	adminGroup.Get("/stats", h.Admin.Stats)
}

// rateLimiter keys counters by scope and client IP; scopes keep limiters apart
// when they share one storage.
func rateLimiter(scope string, limit int, storage fiber.Storage) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:               limit,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return scope + ":" + c.IP() },
		Storage:           storage,
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(dto.ErrorResponse{
				Error: "Too many requests, please try again later",
			})
		},
	})
}

func with(chain []fiber.Handler, h fiber.Handler) []fiber.Handler {
	out := make([]fiber.Handler, 0, len(chain)+1)
	out = append(out, chain...)
	return append(out, h)
}
