package session

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"

	"github.com/ssbprep/interview-coach/backend/internal/model/interview"
	"github.com/ssbprep/interview-coach/backend/internal/service/feedback"
	"github.com/ssbprep/interview-coach/backend/internal/storage"
	"github.com/ssbprep/interview-coach/backend/pkg/utils"
)

// Handler serves session lifecycle and end-of-session feedback routes.
type Handler struct {
	store    *storage.Store
	feedback *feedback.Service
}

// New creates the session handler.
func New(store *storage.Store, feedbackSvc *feedback.Service) *Handler {
	return &Handler{store: store, feedback: feedbackSvc}
}

// RegisterRoutes registers session routes with their rate limits.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.With(perMinute(10)).Post("/sessions/create", h.handleCreate)
	r.With(perMinute(30)).Get("/sessions", h.handleList)
	r.With(perMinute(30)).Get("/sessions/{sessionID}", h.handleGet)
	r.With(perMinute(10)).Get("/sessions/{sessionID}/feedback", h.handleComprehensive)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	sess, err := h.store.Create("")
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Failed to create session")
		return
	}

	utils.RespondJSON(w, http.StatusCreated, map[string]string{
		"session_id": sess.SessionID,
		"message":    "Session created successfully",
	})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	ids, err := h.store.List()
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Failed to get sessions")
		return
	}
	if ids == nil {
		ids = []string{}
	}

	utils.RespondJSON(w, http.StatusOK, map[string]any{"sessions": ids})
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	sess, err := h.store.Load(sessionID)
	if err != nil {
		if errors.Is(err, storage.ErrSessionNotFound) {
			utils.RespondError(w, http.StatusNotFound, "Session not found")
			return
		}
		utils.RespondError(w, http.StatusInternalServerError, "Failed to get session")
		return
	}

	responses := sess.Responses
	if responses == nil {
		responses = []interview.Response{}
	}

	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"session_id": sessionID,
		"responses":  responses,
	})
}

func (h *Handler) handleComprehensive(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	sess, err := h.store.Load(sessionID)
	if err != nil {
		if errors.Is(err, storage.ErrSessionNotFound) {
			utils.RespondError(w, http.StatusNotFound, "Session not found")
			return
		}
		utils.RespondError(w, http.StatusInternalServerError, "Failed to get comprehensive feedback")
		return
	}

	if len(sess.Responses) == 0 {
		utils.RespondError(w, http.StatusNotFound, "No responses found in session")
		return
	}

	comprehensive := h.feedback.Comprehensive(r.Context(), sess)

	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"session_id":             sessionID,
		"comprehensive_feedback": comprehensive,
		"responses_count":        len(sess.Responses),
	})
}

func perMinute(limit int) func(http.Handler) http.Handler {
	return httprate.Limit(limit, time.Minute,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			utils.RespondErrorMessage(w, http.StatusTooManyRequests, "Too many requests", "Rate limit exceeded")
		}),
	)
}
