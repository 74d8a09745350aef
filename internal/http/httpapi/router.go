package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"impactseed/internal/http/handlers"
	"impactseed/internal/infra"
	"impactseed/internal/middleware"
)

// NewRouter wires the API routes with the shared middleware stack. The
// country lookup may be nil when no GeoIP database is configured.
func NewRouter(app *handlers.App, log zerolog.Logger, cfg *infra.Config, countries middleware.CountryLookup) http.Handler {
	r := chi.NewRouter()

	r.Use(
		chimw.RealIP,
		chimw.Recoverer,
		middleware.RequestID,
		middleware.Logger(log),
		middleware.CORS(cfg.AllowedOrigins),
		middleware.Currency(cfg.DefaultCurrency, countries),
	)

	limited := middleware.RateLimit(cfg.RateLimitPerMin, time.Minute)
	gated := middleware.RequireSession(app.Sessions, cfg.LoginURL)

	r.Get("/v1/healthz", app.Health)

	r.Route("/v1", func(r chi.Router) {
		r.Post("/session", app.SessionCreate)
		r.Delete("/session", app.SessionDelete)

		r.Route("/profile", func(r chi.Router) {
			r.Use(gated)
			r.Get("/", app.ProfileGet)
			r.Put("/", app.ProfileUpdate)
		})

		r.Route("/campaigns", func(r chi.Router) {
			r.Get("/", app.CampaignsList)
			r.With(limited).Post("/", app.CampaignsCreate)
			r.Get("/selected", app.CampaignSelected)
			r.Post("/selected", app.CampaignSelect)
		})

		r.With(limited).Post("/uploads/campaign-image", app.UploadCampaignImage)

		r.With(limited).Post("/donations", app.DonationsCreate)
		r.Get("/donations/last", app.DonationsLast)

		r.With(gated, limited).Post("/verification", app.VerificationSubmit)
	})

	return r
}
