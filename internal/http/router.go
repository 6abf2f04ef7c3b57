package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"legalrag/internal/config"
	"legalrag/internal/handlers"
	"legalrag/internal/rag"
	"legalrag/internal/vectorstore"
)

// Deps holds dependencies for the HTTP router.
type Deps struct {
	Engine    rag.Engine
	Retriever handlers.DocumentSearcher
	Store     vectorstore.Store
	Config    *config.Config
}

// NewRouter creates a new HTTP router with the provided dependencies.
func NewRouter(deps *Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(LoggerMiddleware)
	r.Use(CORS(deps.Config.CORSAllowedOrigins))

	chatHandler := handlers.NewChatHandler(deps.Engine)
	searchHandler := handlers.NewSearchHandler(deps.Retriever)
	healthHandler := handlers.NewHealthHandler(deps.Store)
	debugHandler := handlers.NewDebugHandler(deps.Config, deps.Store)

	r.Route("/api/v1", func(r chi.Router) {
		r.Method(http.MethodPost, "/chat", chatHandler)
		r.Method(http.MethodPost, "/search", searchHandler)
		r.Method(http.MethodGet, "/debug", debugHandler)
	})

	r.Method(http.MethodGet, "/health", healthHandler)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"message":"Welcome to Legal AI RAG API"}`))
	})

	return r
}
