package api

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/opentracing/opentracing-go"

	"github.com/intentstack/intentstack/api/handlers"
	"github.com/intentstack/intentstack/api/middleware"
	"github.com/intentstack/intentstack/internal/repository"
	"github.com/intentstack/intentstack/internal/tracing"
	"github.com/intentstack/intentstack/services"
)

// RegisterRoutes sets up all API endpoints
func RegisterRoutes(ctx context.Context, r *gin.Engine, s *services.Services, repos *repository.Repositories, apikey string) {
	if s == nil {
		panic("Services cannot be nil")
	}
	if repos == nil {
		panic("Repositories cannot be nil")
	}

	// Add recovery middlewares
	r.Use(gin.Recovery())                                         // Gin's built-in recovery
	r.Use(tracing.RecoveryWithJaeger(opentracing.GlobalTracer())) // Our custom Jaeger recovery

	// setup handlers
	apiHandlers := handlers.InitHandlers(repos, s.Processor, s.Cipher)

	// Health check endpoint (no auth needed)
	r.GET("/health", handlers.HealthCheck)

	apiKeyMiddleware := middleware.APIKeyMiddleware(middleware.APIKeyConfig{
		HeaderName:  "X-INTENTSTACK-API-KEY",
		ValidAPIKey: apikey,
	})

	// API group with version
	api := r.Group("/v1")
	api.Use(apiKeyMiddleware)
	api.Use(middleware.TracingMiddleware()) // Add tracing for all /v1/* endpoints
	{
		// Email endpoints
		emails := api.Group("/emails")
		{
			emails.GET("", apiHandlers.Emails.List())
			emails.GET("/:id", apiHandlers.Emails.Get())
			emails.POST("/:id/reprocess", apiHandlers.Emails.Reprocess())
		}

		// Mailbox user endpoints
		users := api.Group("/users")
		{
			users.POST("", apiHandlers.Users.Create())
			users.GET("", apiHandlers.Users.List())
		}
	}
}
