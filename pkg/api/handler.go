package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/mark3labs/mcp-go/server"

	"github.com/hazyhaar/gazetteer/pkg/kit"
)

// RouterOptions tunes the HTTP surface around the endpoints.
type RouterOptions struct {
	// Per-client limit on the question routes; 0 disables.
	RatePerMinute int
	RateBurst     int
	// "*" or a comma-separated list.
	AllowedOrigins string
	// Mounted at /mcp when non-nil.
	MCP *server.MCPServer
}

// NewRouter returns an http.Handler with all gazetteer API routes.
func NewRouter(svc *Service, opts RouterOptions) http.Handler {
	mux := http.NewServeMux()
	h := &handler{
		ep:      NewEndpoints(svc),
		svc:     svc,
		limiter: newClientLimiter(opts.RatePerMinute, opts.RateBurst),
	}

	mux.HandleFunc("GET /v1/resolve", h.limited(h.handleResolve))
	mux.HandleFunc("GET /v1/resolve/batch", methodNotAllowed) // prevent GET on batch
	mux.HandleFunc("POST /v1/resolve/batch", h.limited(h.handleResolveBatch))
	mux.HandleFunc("POST /v1/ask", h.limited(h.handleAsk))
	mux.HandleFunc("GET /v1/categories", h.handleListCategories)
	mux.HandleFunc("GET /v1/categories/{category}", h.handleListCategory)
	mux.HandleFunc("GET /v1/journal", h.handleJournal)
	mux.HandleFunc("GET /v1/health", h.handleHealth)

	if opts.MCP != nil {
		mux.Handle("/mcp", server.NewStreamableHTTPServer(opts.MCP))
	}

	return requestID(cors(opts.AllowedOrigins, mux))
}

type handler struct {
	ep      *Endpoints
	svc     *Service
	limiter *clientLimiter
}

// --- resolve ---

func (h *handler) handleResolve(w http.ResponseWriter, r *http.Request) {
	resp, err := h.ep.Resolve(r.Context(), &resolveReq{Query: r.URL.Query().Get("q")})
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// --- resolve batch ---

type httpBatchRequest struct {
	Queries []string `json:"queries"`
}

func (h *handler) handleResolveBatch(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 256*1024) // 256 KiB max
	var req httpBatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	resp, err := h.ep.ResolveBatch(r.Context(), &batchReq{Queries: req.Queries})
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// --- ask ---

type httpAskRequest struct {
	Question string `json:"question"`
	// Pergunta is the field name used by the original chat front end.
	Pergunta string `json:"pergunta"`
}

func (h *handler) handleAsk(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 64*1024) // 64 KiB max
	var req httpAskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	q := req.Question
	if q == "" {
		q = req.Pergunta
	}

	resp, err := h.ep.Ask(r.Context(), &askReq{Question: q})
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// --- categories ---

func (h *handler) handleListCategories(w http.ResponseWriter, r *http.Request) {
	resp, err := h.ep.ListCategories(r.Context(), nil)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *handler) handleListCategory(w http.ResponseWriter, r *http.Request) {
	limit, err := intParam(r, "limit", 0)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	resp, err := h.ep.ListCategory(r.Context(), &categoryReq{Category: r.PathValue("category"), Limit: min(limit, 100)})
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// --- journal ---

func (h *handler) handleJournal(w http.ResponseWriter, r *http.Request) {
	limit, err := intParam(r, "limit", 0)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	resp, err := h.ep.Journal(r.Context(), &journalReq{Limit: limit})
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// --- health ---

type healthResponse struct {
	Status     string `json:"status"`
	Dataset    string `json:"dataset,omitempty"`
	Version    string `json:"version,omitempty"`
	Entities   int    `json:"entities"`
	Generation uint64 `json:"generation"`
	Journal    bool   `json:"journal"`
}

func (h *handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	ix := h.svc.reg.Index()
	resp := healthResponse{
		Status:     "ok",
		Entities:   ix.Len(),
		Generation: ix.Generation(),
		Journal:    h.svc.journal != nil,
	}
	if m := h.svc.reg.Manifest(); m != nil {
		resp.Dataset, resp.Version = m.ID, m.Version
	} else {
		resp.Status = "no dataset"
	}
	writeJSON(w, http.StatusOK, resp)
}

// --- helpers ---

func statusFor(err error) int {
	switch {
	case errors.Is(err, ErrEmptyQuery), errors.Is(err, ErrQueryTooLong),
		errors.Is(err, ErrEmptyBatch), errors.Is(err, ErrBatchTooLarge):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnknownCategory), errors.Is(err, ErrJournalDisabled):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func intParam(r *http.Request, name string, def int) (int, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, errors.New("invalid " + name)
	}
	return n, nil
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}

func methodNotAllowed(w http.ResponseWriter, _ *http.Request) {
	writeError(w, http.StatusMethodNotAllowed, "method not allowed")
}

// limited applies the per-client rate limit.
func (h *handler) limited(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !h.limiter.Allow(kit.GetClient(r.Context())) {
			w.Header().Set("Retry-After", "60")
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}
		next(w, r)
	}
}
