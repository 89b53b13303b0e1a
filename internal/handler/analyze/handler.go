package analyze

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"

	"github.com/ssbprep/interview-coach/backend/internal/model/interview"
	"github.com/ssbprep/interview-coach/backend/internal/service/feedback"
	"github.com/ssbprep/interview-coach/backend/internal/service/sentiment"
	"github.com/ssbprep/interview-coach/backend/internal/storage"
	"github.com/ssbprep/interview-coach/backend/pkg/utils"
)

// Handler orchestrates the analyze-response pipeline: classify sentiment,
// generate feedback, optionally append to a session.
type Handler struct {
	classifier sentiment.Classifier
	feedback   *feedback.Service
	store      *storage.Store
}

// New creates the analyze handler.
func New(classifier sentiment.Classifier, feedbackSvc *feedback.Service, store *storage.Store) *Handler {
	return &Handler{
		classifier: classifier,
		feedback:   feedbackSvc,
		store:      store,
	}
}

// RegisterRoutes registers the analyze route with its rate limit.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.With(perMinute(30)).Post("/analyze-response", h.handleAnalyze)
}

func (h *Handler) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	// Optional fields arrive as any JSON scalar from some clients; coerce
	// them to strings instead of rejecting.
	var payload struct {
		Response     any `json:"response"`
		QuestionID   any `json:"question_id"`
		QuestionText any `json:"question_text"`
		SessionID    any `json:"session_id"`
	}

	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondJSON(w, http.StatusBadRequest, map[string]any{
			"error":   "Invalid request data",
			"details": map[string][]string{"body": {"Invalid JSON body."}},
		})
		return
	}

	if payload.Response == nil {
		utils.RespondJSON(w, http.StatusBadRequest, map[string]any{
			"error":   "Invalid request data",
			"details": map[string][]string{"response": {"Missing data for required field."}},
		})
		return
	}

	responseText := coerceString(payload.Response)
	if strings.TrimSpace(responseText) == "" {
		utils.RespondError(w, http.StatusBadRequest, "Response text cannot be empty")
		return
	}

	questionID := "unknown"
	if payload.QuestionID != nil {
		questionID = coerceString(payload.QuestionID)
	}
	questionText := coerceString(payload.QuestionText)
	sessionID := coerceString(payload.SessionID)

	log.Printf("[analyze] processing response of length %d for question_id %s", len(responseText), questionID)

	snt := h.classifier.Classify(r.Context(), responseText)

	fb := h.feedback.Generate(r.Context(), responseText, snt.Label, snt.Score)
	if len(strings.TrimSpace(fb)) < 10 {
		log.Printf("[analyze] empty or very short feedback generated")
		fb = feedback.DegradedMessage
	}

	if sessionID != "" {
		record := interview.Response{
			QuestionID:        questionID,
			QuestionText:      questionText,
			ResponseText:      responseText,
			Sentiment:         snt,
			ImmediateFeedback: fb,
			Timestamp:         time.Now().UTC(),
		}
		// Storage failure degrades to an unsaved response, never a failed
		// request.
		if err := h.store.Append(sessionID, record); err != nil {
			log.Printf("[analyze] failed to store response in session %s: %v", sessionID, err)
		}
	}

	var sid any
	if sessionID != "" {
		sid = sessionID
	}
	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"response":   responseText,
		"feedback":   fb,
		"sentiment":  snt,
		"session_id": sid,
	})
}

func coerceString(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		return fmt.Sprintf("%v", val)
	}
}

func perMinute(limit int) func(http.Handler) http.Handler {
	return httprate.Limit(limit, time.Minute,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			utils.RespondErrorMessage(w, http.StatusTooManyRequests, "Too many requests", "Rate limit exceeded")
		}),
	)
}
