package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/timeyeet/timeyeet-backend-go/internal/config"
	appHTTP "github.com/timeyeet/timeyeet-backend-go/internal/handler/http"
	"github.com/timeyeet/timeyeet-backend-go/internal/pkg/cron"
	"github.com/timeyeet/timeyeet-backend-go/internal/pkg/database"
	"github.com/timeyeet/timeyeet-backend-go/internal/pkg/jwt"
	"github.com/timeyeet/timeyeet-backend-go/internal/pkg/oauth"
	"github.com/timeyeet/timeyeet-backend-go/internal/pkg/sse"
	"github.com/timeyeet/timeyeet-backend-go/internal/repository/postgresql"
	serviceAuth "github.com/timeyeet/timeyeet-backend-go/internal/service/auth"
	expenseService "github.com/timeyeet/timeyeet-backend-go/internal/service/expense"
	profileService "github.com/timeyeet/timeyeet-backend-go/internal/service/profile"
	shiftService "github.com/timeyeet/timeyeet-backend-go/internal/service/shift"
	timesheetService "github.com/timeyeet/timeyeet-backend-go/internal/service/timesheet"
	"github.com/timeyeet/timeyeet-backend-go/migrations"
)

const (
	appName    = "timeyeet"
	appVersion = "v1.0.0"
)

func main() {
	if err := run(); err != nil {
		slog.Error("Server exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	level, _ := cfg.SlogLevel()
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})).With(
		slog.String("app", appName),
		slog.String("env", cfg.App.Env),
	))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL(), database.PoolOptions{
		MaxConns: cfg.Database.MaxConns,
		MinConns: cfg.Database.MinConns,
	})
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer db.Close()

	if err := db.Migrate(ctx, migrations.FS); err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}

	userRepo := postgresql.NewUserRepository(db)
	JWTRepository := postgresql.NewJWTRepository(db)
	profileRepo := postgresql.NewProfileRepository(db)
	shiftRepo := postgresql.NewShiftRepository(db)
	expenseRepo := postgresql.NewExpenseRepository(db)
	transactor := postgresql.NewTransactor(db)

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration, cfg.JWT.RefreshExpiration, cfg.App.Env == "production")
	var GoogleService oauth.GoogleService
	if cfg.OAuth2Google.Enabled() {
		GoogleService = oauth.NewGoogleService(cfg.OAuth2Google.ClientID, cfg.OAuth2Google.ClientSecret, cfg.OAuth2Google.RedirectURL, cfg.OAuth2Google.Scopes)
	} else {
		slog.Warn("Google sign-in disabled: CLIENT_ID, CLIENT_SECRET or REDIRECT_URL not set")
	}
	hub := sse.NewHub()
	defer hub.Close()

	authService := serviceAuth.NewAuthService(transactor, userRepo, profileRepo, JWTService, JWTRepository)
	profileSvc := profileService.NewProfileService(profileRepo, userRepo)
	shiftSvc := shiftService.NewShiftService(shiftRepo, hub)
	expenseSvc := expenseService.NewExpenseService(expenseRepo)
	timesheetSvc := timesheetService.NewTimesheetService(profileSvc, shiftRepo, expenseRepo, cfg.Location(), slog.Default())

	scheduler := cron.NewScheduler(slog.Default())
	cron.NewAuthJobs(JWTRepository, slog.Default()).RegisterJobs(scheduler)
	scheduler.Start(ctx)
	defer scheduler.Stop()

	router := appHTTP.NewRouter(JWTService, appHTTP.Handlers{
		Auth:      appHTTP.NewAuthHandler(JWTService, authService, GoogleService, cfg.App.FrontendURL, cfg.App.Env == "production"),
		Profile:   appHTTP.NewProfileHandler(profileSvc),
		Shift:     appHTTP.NewShiftHandler(shiftSvc, JWTService),
		Expense:   appHTTP.NewExpenseHandler(expenseSvc),
		Timesheet: appHTTP.NewTimesheetHandler(timesheetSvc),
	}, appHTTP.RouterOptions{
		App:            appName,
		Version:        appVersion,
		Env:            cfg.App.Env,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("Server running", "addr", server.Addr, "version", appVersion)
		serverErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serverErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("Shutting down")
	// open event streams would otherwise hold Shutdown until the deadline
	hub.Close()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
