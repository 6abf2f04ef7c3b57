package handlers

import (
	"net/http"
	"os"
	"runtime"
	"time"

	"legalrag/internal/config"
	"legalrag/internal/contextutil"
	"legalrag/internal/vectorstore"
)

// DebugHandler exposes deployment diagnostics: which environment variables
// are present, the effective configuration, and a vector store connection
// check. Check failures are reported inside the JSON body rather than as a
// request failure, since this feeds a non-critical diagnostics view.
type DebugHandler struct {
	cfg   *config.Config
	store vectorstore.Store
}

// NewDebugHandler creates a new DebugHandler.
func NewDebugHandler(cfg *config.Config, store vectorstore.Store) *DebugHandler {
	return &DebugHandler{cfg: cfg, store: store}
}

// ConnectionTest reports the outcome of one dependency check.
type ConnectionTest struct {
	Status     string                  `json:"status"`
	Error      string                  `json:"error,omitempty"`
	IndexStats *vectorstore.IndexStats `json:"index_stats,omitempty"`
	Note       string                  `json:"note,omitempty"`
}

// DebugResponse represents the debug endpoint payload.
type DebugResponse struct {
	EnvironmentVariables map[string]bool           `json:"environment_variables"`
	ConfigValues         map[string]any            `json:"config_values"`
	ConnectionTests      map[string]ConnectionTest `json:"connection_tests"`
	SystemInfo           SystemInfo                `json:"system_info"`
}

// SystemInfo carries runtime details.
type SystemInfo struct {
	GoVersion   string `json:"go_version"`
	Timestamp   string `json:"timestamp"`
	ServerReady bool   `json:"server_ready"`
}

// ServeHTTP handles GET /api/v1/debug.
func (h *DebugHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodGet {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	envVars := map[string]bool{
		"OPENAI_API_KEY":     os.Getenv("OPENAI_API_KEY") != "",
		"OPENROUTER_API_KEY": os.Getenv("OPENROUTER_API_KEY") != "",
		"VECTOR_BACKEND":     os.Getenv("VECTOR_BACKEND") != "",
		"QDRANT_URL":         os.Getenv("QDRANT_URL") != "",
		"QDRANT_COLLECTION":  os.Getenv("QDRANT_COLLECTION") != "",
	}

	configValues := map[string]any{
		"vector_backend":      h.cfg.VectorBackend,
		"qdrant_collection":   h.cfg.QdrantCollection,
		"embedding_model":     h.cfg.EmbeddingModel,
		"embedding_dimension": h.cfg.EmbeddingDimension,
		"chat_model":          h.cfg.ChatModel,
	}

	tests := map[string]ConnectionTest{
		"vector_store": h.testVectorStore(r),
		"embeddings":   h.testEmbeddings(),
	}

	writeJSON(ctx, w, DebugResponse{
		EnvironmentVariables: envVars,
		ConfigValues:         configValues,
		ConnectionTests:      tests,
		SystemInfo: SystemInfo{
			GoVersion:   runtime.Version(),
			Timestamp:   time.Now().UTC().Format(time.RFC3339),
			ServerReady: true,
		},
	})
}

func (h *DebugHandler) testVectorStore(r *http.Request) ConnectionTest {
	stats, err := h.store.Stats(r.Context())
	if err != nil {
		return ConnectionTest{Status: "failed", Error: err.Error()}
	}
	return ConnectionTest{Status: "success", IndexStats: &stats}
}

// testEmbeddings only verifies that a credential is configured; an actual
// API call from a diagnostics endpoint would spend tokens.
func (h *DebugHandler) testEmbeddings() ConnectionTest {
	if h.cfg.EmbeddingAPIKey == "" {
		return ConnectionTest{Status: "not_configured", Error: "OPENAI_API_KEY is not set"}
	}
	return ConnectionTest{Status: "success", Note: "API key configured"}
}
