package http

import (
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
	"github.com/timeyeet/timeyeet-backend-go/internal/handler/http/middleware"
	"github.com/timeyeet/timeyeet-backend-go/internal/pkg/jwt"
)

// RouterOptions carries the values stamped on request logs and the CORS
// allow list.
type RouterOptions struct {
	App            string
	Version        string
	Env            string
	AllowedOrigins []string
}

type Handlers struct {
	Auth      AuthHandler
	Profile   ProfileHandler
	Shift     ShiftHandler
	Expense   ExpenseHandler
	Timesheet TimesheetHandler
}

func NewRouter(JWTService jwt.Service, h Handlers, opts RouterOptions) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(opts.Env != "production")
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", opts.App),
		slog.String("version", opts.Version),
		slog.String("env", opts.Env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link", "Content-Disposition", exportWarningsHeader},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {

		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", h.Auth.Register)
			r.Post("/refresh", h.Auth.RefreshToken)
			r.Post("/logout", h.Auth.Logout)
			r.Route("/oauth/callback", func(r chi.Router) {
				r.Get("/google", h.Auth.OAuthCallbackGoogle)
			})

			r.Route("/login", func(r chi.Router) {
				r.Post("/", h.Auth.Login)
				r.Route("/oauth", func(r chi.Router) {
					r.Get("/google", h.Auth.LoginWithGoogle)
				})
			})
		})

		r.Route("/shifts", func(r chi.Router) {
			// EventSource cannot send an Authorization header, so the
			// stream authenticates with its own short-lived token.
			r.Get("/stream", h.Shift.Stream)

			r.Group(func(r chi.Router) {
				requireAuth(r, JWTService)
				r.Get("/", h.Shift.List)
				r.Post("/start", h.Shift.Start)
				r.Get("/active", h.Shift.Active)
				r.Post("/active/stop", h.Shift.StopActive)
				r.Get("/stream-token", h.Shift.StreamToken)
				r.Post("/{id}/stop", h.Shift.Stop)
			})
		})

		// Requires authentication
		r.Group(func(r chi.Router) {
			requireAuth(r, JWTService)

			r.Route("/profile", func(r chi.Router) {
				r.Get("/", h.Profile.GetMyProfile)
				r.Put("/", h.Profile.UpdateMyProfile)
			})

			r.Route("/expenses", func(r chi.Router) {
				r.Get("/", h.Expense.List)
				r.Post("/", h.Expense.Create)
				r.Delete("/{id}", h.Expense.Delete)
			})

			r.Route("/timesheet", func(r chi.Router) {
				r.Get("/export", h.Timesheet.Export)
				r.Get("/holidays", h.Timesheet.Holidays)
			})
		})
	})
	return r
}

func requireAuth(r chi.Router, JWTService jwt.Service) {
	r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
	r.Use(middleware.AuthRequired(JWTService.JWTAuth()))
}
