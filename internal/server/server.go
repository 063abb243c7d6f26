// Package server provides the HTTP server for the TsunaguLink API.
// It handles routing, middleware configuration, and server lifecycle management.
//
// The server package follows a structured initialization approach with explicit
// dependency injection: repositories, services, and handlers live on the server
// instance rather than in package globals, so two servers in one process never
// share state. It handles graceful shutdown, maintenance tasks, and recovery.
package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/challecara/tsunagulink/internal/auth"
	"github.com/challecara/tsunagulink/internal/config"
	"github.com/challecara/tsunagulink/internal/constants"
	"github.com/challecara/tsunagulink/internal/database"
	"github.com/challecara/tsunagulink/internal/handlers"
	"github.com/challecara/tsunagulink/internal/repository"
	"github.com/challecara/tsunagulink/internal/service"
	"github.com/challecara/tsunagulink/internal/utils/ratelimit"
	"github.com/challecara/tsunagulink/migrations"
	"github.com/challecara/tsunagulink/scripts"
)

// Repositories contains the data access layer for the application.
type Repositories struct {
	Account       repository.AccountRepository
	User          repository.UserRepository
	Session       repository.SessionRepository
	SocialLink    repository.SocialLinkRepository
	Idea          repository.IdeaRepository
	ProfileSecret repository.ProfileSecretRepository
	ProfileView   repository.ProfileViewRepository
}

// Services contains the business logic layer for the application.
type Services struct {
	Auth      *service.AuthService
	Profile   *service.ProfileService
	Secret    *service.SecretService
	Analytics *service.AnalyticsService
	Idea      *service.IdeaService
}

// Handlers contains all HTTP handlers for the application.
type Handlers struct {
	Auth      *handlers.AuthHandler
	Profile   *handlers.ProfileHandler
	Secret    *handlers.SecretHandler
	Analytics *handlers.AnalyticsHandler
	Idea      *handlers.IdeaHandler
}

// AuthProviders contains authentication components shared across layers.
type AuthProviders struct {
	// JWTService handles JWT token generation and validation
	JWTService *auth.JWTService

	// PasswordCfg contains password hashing parameters
	PasswordCfg *auth.PasswordConfig

	// Identity is the identity gateway behind registration and login
	Identity auth.IdentityGateway
}

// Server represents the TsunaguLink API server.
// It encapsulates all server components and handles server lifecycle
// management, including initialization, startup, and graceful shutdown.
type Server struct {
	// Config contains application configuration
	Config *config.AppConfig

	// Db provides database access
	Db *database.Pool

	// Repos contains the repository layer
	Repos *Repositories

	// Services contains the service layer
	Services *Services

	// Handlers contains all HTTP request handlers
	Handlers *Handlers

	// authProviders contains authentication services
	authProviders *AuthProviders

	// rateLimits throttles sensitive endpoints per client IP
	rateLimits *ratelimit.Store

	// router handles HTTP routing
	router chi.Router

	// httpServer is the underlying HTTP server
	httpServer *http.Server

	// maintenanceStop ends the background maintenance loop
	maintenanceStop chan struct{}
}

// NewServer creates a new server instance with all required components.
//
// The initialization follows a fixed order to satisfy dependencies:
// database → repositories → auth providers → services → handlers → routes.
func NewServer(cfg *config.AppConfig) (*Server, error) {
	s := &Server{
		Config:          cfg,
		maintenanceStop: make(chan struct{}),
	}

	if err := s.setupDatabase(); err != nil {
		return nil, fmt.Errorf("failed to set up database: %w", err)
	}

	s.setupRepositories()

	if err := s.setupAuthProviders(); err != nil {
		return nil, fmt.Errorf("failed to set up auth providers: %w", err)
	}

	s.setupServices()
	s.setupHandlers()
	s.setupRateLimits()

	if err := s.seedDevData(); err != nil {
		return nil, fmt.Errorf("failed to seed database: %w", err)
	}

	s.SetupRoutes()

	s.httpServer = &http.Server{
		Addr:         cfg.Server.ServerAddress(),
		Handler:      s.router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  constants.DefaultIdleTimeout,
	}

	return s, nil
}

// setupDatabase connects to the database and runs migrations.
func (s *Server) setupDatabase() error {
	db, err := database.Connect(s.Config)
	if err != nil {
		return err
	}

	s.Db = db

	migrator := migrations.NewMigrator(db)
	if err := migrator.RunMigrations(context.Background()); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	return nil
}

// setupRepositories initializes all data repositories over the shared pool.
func (s *Server) setupRepositories() {
	s.Repos = &Repositories{
		Account:       repository.NewAccountRepository(s.Db),
		User:          repository.NewUserRepository(s.Db),
		Session:       repository.NewSessionRepository(s.Db),
		SocialLink:    repository.NewSocialLinkRepository(s.Db),
		Idea:          repository.NewIdeaRepository(s.Db),
		ProfileSecret: repository.NewProfileSecretRepository(s.Db),
		ProfileView:   repository.NewProfileViewRepository(s.Db),
	}
}

// setupAuthProviders initializes JWT issuance, password hashing, and the
// identity gateway backed by the local account table.
func (s *Server) setupAuthProviders() error {
	if s.Repos == nil {
		return fmt.Errorf("repositories not initialized")
	}

	jwtService := auth.NewJWTService(&s.Config.JWT)
	passwordCfg := auth.ConfigFromAppConfig(s.Config)

	s.authProviders = &AuthProviders{
		JWTService:  jwtService,
		PasswordCfg: passwordCfg,
		Identity:    auth.NewLocalIdentityGateway(s.Repos.Account, passwordCfg, jwtService),
	}

	return nil
}

// setupServices initializes the business services from the repositories
// and auth providers.
func (s *Server) setupServices() {
	s.Services = &Services{
		Auth: service.NewAuthService(
			s.Repos.User,
			s.Repos.Session,
			s.authProviders.Identity,
			s.authProviders.JWTService,
		),
		Profile: service.NewProfileService(
			s.Repos.User,
			s.Repos.SocialLink,
			s.Repos.Idea,
			s.Repos.ProfileSecret,
			s.authProviders.Identity,
		),
		Secret: service.NewSecretService(
			s.Repos.ProfileSecret,
			s.Repos.User,
		),
		Analytics: service.NewAnalyticsService(
			s.Repos.ProfileView,
			s.Repos.User,
			&s.Config.Analytics,
		),
		Idea: service.NewIdeaService(s.Repos.Idea),
	}
}

// setupHandlers initializes the HTTP handlers from the services.
func (s *Server) setupHandlers() {
	s.Handlers = &Handlers{
		Auth:      handlers.NewAuthHandler(s.Services.Auth, s.Services.Profile, s.authProviders.JWTService),
		Profile:   handlers.NewProfileHandler(s.Services.Profile, s.Services.Secret, s.Services.Analytics),
		Secret:    handlers.NewSecretHandler(s.Services.Secret),
		Analytics: handlers.NewAnalyticsHandler(s.Services.Analytics),
		Idea:      handlers.NewIdeaHandler(s.Services.Idea),
	}
}

// setupRateLimits configures the per-IP budgets for sensitive endpoints.
func (s *Server) setupRateLimits() {
	s.rateLimits = ratelimit.NewStore(
		ratelimit.Rate{RequestsPerSecond: 10, Burst: 20},
		time.Hour,
	)

	// Credential and secret guessing get small budgets
	s.rateLimits.SetRate("auth", ratelimit.Rate{RequestsPerSecond: 0.5, Burst: 5})
	s.rateLimits.SetRate("verify", ratelimit.Rate{RequestsPerSecond: 0.5, Burst: 5})
}

// seedDevData populates demo data in development environments.
func (s *Server) seedDevData() error {
	if !s.Config.App.IsDevelopment() {
		return nil
	}

	seeder := scripts.NewSeeder(s.Db, s.authProviders.PasswordCfg)
	return seeder.SeedDatabase(context.Background())
}

// Start starts the HTTP server and sets up signal handling for graceful
// shutdown. It blocks until the server errors or a shutdown signal arrives.
func (s *Server) Start() error {
	serverErrors := make(chan error, 1)

	go func() {
		log.Info().
			Str("address", s.Config.Server.ServerAddress()).
			Msg("Starting server")

		serverErrors <- s.httpServer.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	s.SetupMaintenanceTasks()

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case sig := <-shutdown:
		log.Info().
			Str("signal", sig.String()).
			Msg("Shutdown signal received")

		ctx, cancel := context.WithTimeout(context.Background(), s.Config.Server.ShutdownTimeout)
		defer cancel()

		if err := s.Shutdown(ctx); err != nil {
			// Close the server immediately if graceful shutdown fails
			if closeErr := s.httpServer.Close(); closeErr != nil {
				log.Error().Err(closeErr).Msg("failed to close server")
			}
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully shuts down the server, letting in-flight requests
// finish before closing the database connection.
func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	log.Info().Msg("Server stopped gracefully")

	close(s.maintenanceStop)
	s.rateLimits.Close()

	s.Db.Close()
	log.Info().Msg("Database connection closed")

	return nil
}

// SetupMaintenanceTasks starts the periodic maintenance loop. It removes
// expired sessions on a fixed schedule so the sessions table doesn't
// accumulate dead rows.
func (s *Server) SetupMaintenanceTasks() {
	ticker := time.NewTicker(constants.DBMaintenanceInterval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)

				if count, err := s.Services.Auth.CleanupExpiredSessions(ctx); err != nil {
					log.Error().Err(err).Msg("Failed to cleanup expired sessions")
				} else if count > 0 {
					log.Info().Int64("count", count).Msg("Cleaned up expired sessions")
				}

				cancel()
			case <-s.maintenanceStop:
				return
			}
		}
	}()
}
