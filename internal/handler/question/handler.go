package question

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"

	"github.com/ssbprep/interview-coach/backend/internal/model/question"
	"github.com/ssbprep/interview-coach/backend/pkg/utils"
)

const (
	defaultLimit = 10
	maxLimit     = 50
)

// Handler serves the static question catalog.
type Handler struct {
	catalog question.Store
}

// New creates the question handler.
func New(catalog question.Store) *Handler {
	return &Handler{catalog: catalog}
}

// RegisterRoutes registers catalog routes with their rate limits.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.With(perMinute(60)).Get("/questions", h.handleList)
}

// handleList returns a paginated slice of the catalog.
func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	start := queryInt(r, "start", 0)
	limit := queryInt(r, "limit", defaultLimit)

	if start < 0 {
		utils.RespondError(w, http.StatusBadRequest, "Start index cannot be negative")
		return
	}
	if limit < 1 || limit > maxLimit {
		utils.RespondError(w, http.StatusBadRequest, "Limit must be between 1 and 50")
		return
	}

	questions := h.catalog.List()
	total := len(questions)

	lo := start
	if lo > total {
		lo = total
	}
	hi := lo + limit
	if hi > total {
		hi = total
	}

	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"questions": questions[lo:hi],
		"total":     total,
		"start":     start,
		"limit":     limit,
	})
}

// queryInt reads an integer query parameter, keeping the default on missing
// or unparseable values.
func queryInt(r *http.Request, key string, def int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def
	}
	val, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return val
}

func perMinute(limit int) func(http.Handler) http.Handler {
	return httprate.Limit(limit, time.Minute,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			utils.RespondErrorMessage(w, http.StatusTooManyRequests, "Too many requests", "Rate limit exceeded")
		}),
	)
}
