package httpapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/Overland-East-Bay/location-finder-api/internal/adapters/httpapi/oas"
)

type RouterOptions struct {
	// SubjectMiddleware resolves the request subject; nil leaves every request anonymous.
	SubjectMiddleware func(http.Handler) http.Handler
	// SubjectHeader is allowed through CORS alongside DefaultSubjectHeader.
	SubjectHeader string
	// AllowedOrigins is passed to the CORS handler; empty allows any origin.
	AllowedOrigins []string
	// AccessLog enables chi's request logger.
	AccessLog bool
	// RequestTimeout bounds handler time; zero disables it.
	RequestTimeout time.Duration
}

// NewRouter constructs the API HTTP router with default options.
func NewRouter(si oas.ServerInterface) http.Handler {
	return NewRouterWithOptions(si, RouterOptions{})
}

func NewRouterWithOptions(si oas.ServerInterface, opts RouterOptions) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	if opts.AccessLog {
		r.Use(middleware.Logger)
	}
	r.Use(middleware.Recoverer)
	if opts.RequestTimeout > 0 {
		r.Use(middleware.Timeout(opts.RequestTimeout))
	}

	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	headers := []string{"Accept", "Authorization", "Content-Type", DefaultSubjectHeader}
	if opts.SubjectHeader != "" && !strings.EqualFold(opts.SubjectHeader, DefaultSubjectHeader) {
		headers = append(headers, opts.SubjectHeader)
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders:   headers,
		ExposedHeaders:   []string{"X-Request-Id"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Health endpoint sits outside the API surface (used for infra checks).
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Group(func(r chi.Router) {
		if opts.SubjectMiddleware != nil {
			r.Use(opts.SubjectMiddleware)
		}
		_ = oas.HandlerWithOptions(si, oas.ChiServerOptions{
			BaseRouter:       r,
			ErrorHandlerFunc: handleParamError,
		})
	})
	return r
}
