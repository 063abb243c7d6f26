package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/challecara/tsunagulink/internal/constants"
	"github.com/challecara/tsunagulink/internal/middleware"
	"github.com/challecara/tsunagulink/internal/utils"
)

// SetupRoutes configures the routes for the application.
// It creates a router hierarchy with middleware and grouped routes
// according to functionality for organized API structure.
//
// The configured routes include:
// - Health check and version endpoints (unprotected)
// - Authentication endpoints (signup, login, token management)
// - Profile endpoints (own profile, public pages, secret gate)
// - Idea endpoints (posts with draft/published state)
// - Analytics endpoints (view dashboard)
//
// Route protection is handled through middleware for authenticated endpoints.
func (s *Server) SetupRoutes() {
	r := chi.NewRouter()

	allowedOrigins := s.allowedOrigins()

	// Custom CORS middleware that applies to all routes
	r.Use(corsMiddleware(allowedOrigins))

	// Base middleware
	r.Use(chimiddleware.RequestID)
	r.Use(middleware.Recovery())
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.SecurityHeaders())

	// Unknown paths and wrong methods get the standard error envelope
	// instead of chi's plain-text defaults
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		utils.NotFound(w, "")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		utils.MethodNotAllowed(w)
	})

	// Health check and version routes (unprotected)
	r.Group(func(r chi.Router) {
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			if err := s.Db.HealthCheck(r.Context()); err != nil {
				log.Error().Err(err).Msg("Health check failed")
				utils.Error(w, http.StatusServiceUnavailable, "service_unavailable", "Service is not healthy", nil)
				return
			}

			utils.JSON(w, http.StatusOK, map[string]string{
				"status":  "healthy",
				"version": s.Config.App.Version,
			})
		})

		r.Get("/version", func(w http.ResponseWriter, r *http.Request) {
			utils.JSON(w, http.StatusOK, map[string]string{
				"version":     s.Config.App.Version,
				"environment": s.Config.App.Environment,
			})
		})

		r.Get("/api/routes", s.GetAPIRoutes)
	})

	// API routes
	r.Route(constants.APIBasePath, func(r chi.Router) {
		// Authentication routes
		r.Route("/auth", func(r chi.Router) {
			// Public auth endpoints
			r.Group(func(r chi.Router) {
				r.Use(middleware.RateLimit(s.rateLimits, "auth"))

				r.Post("/signup", s.Handlers.Auth.Register)
				r.Post("/login", s.Handlers.Auth.Login)
				r.Post("/refresh", s.Handlers.Auth.RefreshToken)
				r.Post("/logout", s.Handlers.Auth.Logout)
			})

			// Protected auth endpoints
			r.Group(func(r chi.Router) {
				r.Use(middleware.JWTAuth(s.authProviders.JWTService))

				r.Get("/verify", s.Handlers.Auth.VerifyToken)
				// security feature to log out all sessions
				r.Post("/logout-all", s.Handlers.Auth.LogoutAll)
			})
		})

		// Profile routes
		r.Route("/profiles", func(r chi.Router) {
			// Handle availability check during signup, never cached
			r.Group(func(r chi.Router) {
				r.Use(chimiddleware.NoCache)
				r.Get("/check", s.Handlers.Profile.CheckAccountID)
			})

			// Own profile endpoints
			r.Route("/me", func(r chi.Router) {
				r.Use(middleware.JWTAuth(s.authProviders.JWTService))

				r.Get("/", s.Handlers.Profile.GetCurrentProfile)
				r.Patch("/", s.Handlers.Profile.UpdateProfile)

				// Secret question configuration
				r.Route("/secret", func(r chi.Router) {
					r.Get("/", s.Handlers.Secret.GetSecret)
					r.Put("/", s.Handlers.Secret.SetSecret)
					r.Delete("/", s.Handlers.Secret.DeleteSecret)
					r.Post("/disable", s.Handlers.Secret.DisableSecret)
				})
			})

			// Public profile pages by shareable id
			r.Get("/{uniqueID}", s.Handlers.Profile.GetPublicProfile)

			// Secret answer attempts run under a tight budget
			r.Group(func(r chi.Router) {
				r.Use(middleware.RateLimit(s.rateLimits, "verify"))
				r.Post("/{uniqueID}/verify", s.Handlers.Profile.VerifySecret)
			})
		})

		// Idea routes
		r.Route("/ideas", func(r chi.Router) {
			// Published feed is public
			r.Get("/", s.Handlers.Idea.ListPublished)

			// Single post: drafts are visible to their owner only, so the
			// auth context is populated when a token is present
			r.Group(func(r chi.Router) {
				r.Use(middleware.OptionalJWTAuth(s.authProviders.JWTService))
				r.Get("/{ideaID}", s.Handlers.Idea.GetIdea)
			})

			// Authoring endpoints
			r.Group(func(r chi.Router) {
				r.Use(middleware.JWTAuth(s.authProviders.JWTService))

				r.Post("/", s.Handlers.Idea.CreateIdea)
				r.Get("/me", s.Handlers.Idea.ListMyIdeas)
				r.Get("/me/tags", s.Handlers.Idea.GetTagCounts)
				r.Put("/{ideaID}", s.Handlers.Idea.UpdateIdea)
				r.Delete("/{ideaID}", s.Handlers.Idea.DeleteIdea)
			})
		})

		// Analytics routes (all protected)
		r.Route("/analytics", func(r chi.Router) {
			r.Use(middleware.JWTAuth(s.authProviders.JWTService))

			r.Get("/me", s.Handlers.Analytics.GetAnalytics)
		})
	})

	s.router = r
}

// GetRouter returns the configured router.
// This method is primarily used for testing and for
// integrating the router with other components.
func (s *Server) GetRouter() chi.Router {
	return s.router
}

// allowedOrigins returns the configured CORS origins, falling back to
// localhost development origins when none are configured.
func (s *Server) allowedOrigins() []string {
	if len(s.Config.CORS.AllowedOrigins) > 0 {
		log.Info().Strs("allowed_origins", s.Config.CORS.AllowedOrigins).Msg("Using configured CORS allowed origins")
		return s.Config.CORS.AllowedOrigins
	}

	defaultOrigins := []string{"http://localhost:5173", "https://localhost:5173", "http://localhost:3000"}
	log.Info().Strs("allowed_origins", defaultOrigins).Msg("Using default CORS allowed origins")
	return defaultOrigins
}

// corsMiddleware creates a custom CORS middleware with the specified allowed origins.
// It handles Cross-Origin Resource Sharing to allow browsers to safely access the API
// from different domains while protecting against unauthorized cross-origin requests.
//
// The middleware checks incoming requests against the allowed origins list,
// adds appropriate CORS headers to responses, and handles OPTIONS preflight requests.
// It supports credentials mode for the refresh token cookie.
func corsMiddleware(allowedOrigins []string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")

			for _, allowedOrigin := range allowedOrigins {
				if allowedOrigin == "*" || allowedOrigin == origin {
					// Set CORS headers for all responses, not just OPTIONS
					w.Header().Set("Access-Control-Allow-Origin", origin)

					// Required for the refresh token cookie
					w.Header().Set("Access-Control-Allow-Credentials", "true")

					if r.Method != http.MethodOptions {
						next.ServeHTTP(w, r)
						return
					}

					// Handle OPTIONS preflight requests
					w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
					w.Header().Set("Access-Control-Allow-Headers", "Accept, Authorization, Content-Type, X-Request-ID")
					w.Header().Set("Access-Control-Max-Age", "300")

					w.WriteHeader(http.StatusNoContent)
					return
				}
			}

			// Origin not allowed, continue without CORS headers
			next.ServeHTTP(w, r)
		})
	}
}

// GetAPIRoutes returns documentation about all API routes.
// This provides a self-documenting endpoint that describes the available
// endpoints, their authentication requirements, and response shapes.
func (s *Server) GetAPIRoutes(w http.ResponseWriter, r *http.Request) {
	routes := map[string]interface{}{}

	routes["authentication"] = map[string]interface{}{
		"POST /api/auth/signup": map[string]interface{}{
			"description": "Register a new profile with optional social links and a first post",
			"body": map[string]interface{}{
				"account_id":   "string - Unique handle (3-20 alphanumeric)",
				"email":        "string - Unique email address",
				"password":     "string - Password (min 8 characters)",
				"nickname":     "string - Display name",
				"avatar":       "string (optional) - http(s) URL or base64 data URL",
				"social_links": "array (optional) - {provider, url} pairs",
				"first_idea":   "object (optional) - {title, content, tag} published immediately",
			},
		},
		"POST /api/auth/login": map[string]interface{}{
			"description": "Authenticate and receive an access token; the refresh token travels as an HTTP-only cookie",
			"body": map[string]interface{}{
				"email":    "string",
				"password": "string",
			},
		},
		"POST /api/auth/refresh": map[string]interface{}{
			"description":      "Rotate the refresh token and get a new access token",
			"cookies_required": []string{constants.RefreshTokenCookie},
		},
		"POST /api/auth/logout": map[string]interface{}{
			"description": "Revoke the current session and clear the refresh cookie",
		},
		"GET /api/auth/verify": map[string]interface{}{
			"description": "Verify current authentication status",
			"auth":        "Bearer token",
		},
		"POST /api/auth/logout-all": map[string]interface{}{
			"description": "Revoke every session for the authenticated user",
			"auth":        "Bearer token",
		},
	}

	routes["profiles"] = map[string]interface{}{
		"GET /api/profiles/check": map[string]interface{}{
			"description":  "Check whether a handle is available",
			"query_params": map[string]string{constants.QueryParamAccountID: "Handle to check"},
		},
		"GET /api/profiles/me": map[string]interface{}{
			"description": "Get the authenticated user's full profile including drafts",
			"auth":        "Bearer token",
		},
		"PATCH /api/profiles/me": map[string]interface{}{
			"description": "Update profile fields; the handle and shareable id are immutable",
			"auth":        "Bearer token",
		},
		"GET /api/profiles/{uniqueID}": map[string]interface{}{
			"description": "Public profile page; locked profiles expose only the basics and the question",
		},
		"POST /api/profiles/{uniqueID}/verify": map[string]interface{}{
			"description": "Answer the secret question to unlock a locked profile",
			"body":        map[string]string{"answer": "string"},
		},
		"PUT /api/profiles/me/secret": map[string]interface{}{
			"description": "Create or replace the secret question gate",
			"auth":        "Bearer token",
		},
		"POST /api/profiles/me/secret/disable": map[string]interface{}{
			"description": "Turn the gate off without discarding the secret",
			"auth":        "Bearer token",
		},
		"DELETE /api/profiles/me/secret": map[string]interface{}{
			"description": "Remove the secret entirely",
			"auth":        "Bearer token",
		},
	}

	routes["ideas"] = map[string]interface{}{
		"GET /api/ideas": map[string]interface{}{
			"description":  "Paginated feed of published posts",
			"query_params": map[string]string{"tag": "optional tag filter", "page": "page number", "page_size": "items per page"},
		},
		"GET /api/ideas/{ideaID}": map[string]interface{}{
			"description": "Single post; drafts are visible to their owner only",
		},
		"POST /api/ideas": map[string]interface{}{
			"description": "Create a post",
			"auth":        "Bearer token",
		},
		"GET /api/ideas/me": map[string]interface{}{
			"description": "All of the authenticated user's posts including drafts",
			"auth":        "Bearer token",
		},
		"GET /api/ideas/me/tags": map[string]interface{}{
			"description": "Post counts per tag for the authenticated user",
			"auth":        "Bearer token",
		},
		"PUT /api/ideas/{ideaID}": map[string]interface{}{
			"description": "Update an owned post",
			"auth":        "Bearer token",
		},
		"DELETE /api/ideas/{ideaID}": map[string]interface{}{
			"description": "Delete an owned post",
			"auth":        "Bearer token",
		},
	}

	routes["analytics"] = map[string]interface{}{
		"GET /api/analytics/me": map[string]interface{}{
			"description": "Lifetime view totals plus the per-day series for the trailing week",
			"auth":        "Bearer token",
		},
	}

	routes["system"] = map[string]interface{}{
		"GET /health":     map[string]interface{}{"description": "Health check endpoint"},
		"GET /version":    map[string]interface{}{"description": "Get application version"},
		"GET /api/routes": map[string]interface{}{"description": "This document"},
	}

	utils.JSON(w, http.StatusOK, routes)
}
