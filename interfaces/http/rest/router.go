package rest

import (
	"net/http"
	"strings"

	"techtree-backend/application/commands/bus"
	"techtree-backend/application/ports"
	querybus "techtree-backend/application/queries/bus"
	"techtree-backend/application/services"
	"techtree-backend/interfaces/http/rest/handlers"
	"techtree-backend/interfaces/http/rest/middleware"
	"techtree-backend/pkg/common"
	pkgerrors "techtree-backend/pkg/errors"
	"techtree-backend/pkg/observability"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// AdminRole may trigger dataset reloads when authentication is enabled.
const AdminRole = "admin"

// Options holds the HTTP-facing settings of the router
type Options struct {
	EnableCORS       bool
	AllowedOrigins   []string
	DefaultAlgorithm string
	SecureCookies    bool
	Auth             middleware.AuthOptions
	Renderer         handlers.SnapshotRenderer
}

// Router creates and configures the HTTP router
type Router struct {
	commandBus *bus.CommandBus
	queryBus   *querybus.QueryBus
	chat       *services.ChatService
	source     ports.TechTreeSource
	metrics    *observability.Collector
	tracer     *observability.Tracer
	errors     *pkgerrors.ErrorHandler
	opts       Options
	logger     *zap.Logger
}

// NewRouter creates a new router instance
func NewRouter(
	commandBus *bus.CommandBus,
	queryBus *querybus.QueryBus,
	chat *services.ChatService,
	source ports.TechTreeSource,
	metrics *observability.Collector,
	tracer *observability.Tracer,
	errors *pkgerrors.ErrorHandler,
	opts Options,
	logger *zap.Logger,
) *Router {
	return &Router{
		commandBus: commandBus,
		queryBus:   queryBus,
		chat:       chat,
		source:     source,
		metrics:    metrics,
		tracer:     tracer,
		errors:     errors,
		opts:       opts,
		logger:     logger,
	}
}

// Setup configures all routes and middleware
func (rt *Router) Setup() http.Handler {
	router := chi.NewRouter()

	// Global middleware
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(rt.errors.Middleware)
	router.Use(middleware.Logger(rt.logger))
	router.Use(middleware.Metrics(rt.metrics))
	router.Use(rt.tracer.Middleware)
	router.Use(versionMiddleware)

	if rt.opts.EnableCORS {
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins:   rt.opts.AllowedOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID", middleware.SessionHeader},
			ExposedHeaders:   []string{"X-Request-ID", "X-Tree-Revision", "X-Request-Seq"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		rt.errors.HandleStatus(w, r, http.StatusNotFound, "route not found")
	})

	// Health check
	router.Get("/health", rt.healthCheck)
	router.Get("/ready", rt.readinessCheck)
	if rt.metrics != nil {
		router.Method(http.MethodGet, "/metrics", rt.metrics.Handler())
	}

	// API v1 routes (legacy - redirects to v2)
	router.Route("/api/v1", func(r chi.Router) {
		r.HandleFunc("/*", func(w http.ResponseWriter, req *http.Request) {
			target := strings.Replace(req.URL.Path, "/api/v1", "/api/v2", 1)
			if req.URL.RawQuery != "" {
				target += "?" + req.URL.RawQuery
			}
			http.Redirect(w, req, target, http.StatusPermanentRedirect)
		})
	})

	// API v2 routes (current)
	router.Route("/api/v2", func(r chi.Router) {
		r.Use(middleware.Authenticate(rt.opts.Auth))

		treeHandler := handlers.NewTreeHandler(rt.queryBus, rt.errors, rt.logger)
		r.Get("/tree", treeHandler.GetTree)
		r.Get("/nodes/{nodeID}", treeHandler.GetNode)
		r.Get("/groupings", treeHandler.ListGroupings)

		viewHandler := handlers.NewViewHandler(rt.queryBus, rt.opts.Renderer, rt.opts.DefaultAlgorithm, rt.errors, rt.logger)
		r.Post("/view", viewHandler.Derive)
		r.Post("/view/svg", viewHandler.Snapshot)

		r.Route("/chat", func(r chi.Router) {
			r.Use(middleware.Session(rt.opts.SecureCookies))

			chatHandler := handlers.NewChatHandler(rt.chat, rt.commandBus, rt.queryBus, rt.errors, rt.logger)
			r.Get("/status", chatHandler.Status)
			r.Get("/history", chatHandler.History)
			r.Delete("/history", chatHandler.Clear)
			r.Post("/", chatHandler.Submit)
			r.Put("/scroll", chatHandler.SaveScroll)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.RequireRole(AdminRole))

			adminHandler := handlers.NewAdminHandler(rt.commandBus, rt.source, rt.errors)
			r.Post("/reload", adminHandler.Reload)
		})
	})

	return router
}

// healthCheck handles health check requests
func (rt *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	common.RespondJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// readinessCheck reports ready once a dataset snapshot is active
func (rt *Router) readinessCheck(w http.ResponseWriter, req *http.Request) {
	tree := rt.source.Current()
	if tree == nil {
		common.RespondJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "loading"})
		return
	}

	chatEnabled, _ := rt.chat.Status()
	common.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"status":      "ready",
		"revision":    tree.Revision(),
		"chatEnabled": chatEnabled,
	})
}

// versionMiddleware adds API version headers to all responses
func versionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		version := "v2"
		if strings.HasPrefix(r.URL.Path, "/api/v1") {
			version = "v1"
		}

		w.Header().Set("X-API-Version", version)
		w.Header().Set("X-API-Latest", "v2")
		w.Header().Set("X-API-Deprecated", "false")
		if version == "v1" {
			w.Header().Set("X-API-Deprecated", "true")
		}

		next.ServeHTTP(w, r)
	})
}
