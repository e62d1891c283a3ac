package server

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"todo_api/internal/auth"
	"todo_api/internal/stats"
	"todo_api/internal/telemetry"
	"todo_api/internal/todo"
)

type Options struct {
	DB          *sql.DB
	DBDriver    string
	Tokens      *auth.TokenService
	Credentials auth.CredentialChecker
	Metrics     *telemetry.Metrics
	Logger      *log.Logger
	CORSOrigins []string
}

// NewRouter 注册路由与中间件：/auth、/health、/metrics 公开，其余需要 bearer token
func NewRouter(opts Options) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(telemetry.RequestLogger(opts.Logger))
	r.Use(opts.Metrics.Middleware)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: opts.CORSOrigins,
		AllowedMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodPut,
			http.MethodDelete, http.MethodOptions,
		},
		AllowedHeaders: []string{"*"},
		ExposedHeaders: []string{"Location"},
	}))

	r.Get("/health", handleHealth)
	r.Method(http.MethodGet, "/metrics", opts.Metrics.Handler())

	authService := auth.NewService(opts.Credentials, opts.Tokens)
	r.Mount("/auth", auth.NewHandler(authService, opts.Logger).Routes())

	r.Group(func(r chi.Router) {
		r.Use(auth.Middleware(opts.Tokens, opts.Logger))
		r.Mount("/todos", todo.NewHandler(todo.NewStore(opts.DB, opts.DBDriver), opts.Logger).Routes())
		r.Mount("/stats", stats.NewHandler(stats.NewStore(opts.DB), opts.Logger).Routes())
	})

	return r
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	// 健康检查
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
