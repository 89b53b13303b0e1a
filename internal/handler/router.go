package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/ssbprep/interview-coach/backend/internal/handler/analyze"
	questionHandler "github.com/ssbprep/interview-coach/backend/internal/handler/question"
	sessionHandler "github.com/ssbprep/interview-coach/backend/internal/handler/session"
	middlewarePkg "github.com/ssbprep/interview-coach/backend/internal/middleware"
	questionModel "github.com/ssbprep/interview-coach/backend/internal/model/question"
	"github.com/ssbprep/interview-coach/backend/internal/service/feedback"
	"github.com/ssbprep/interview-coach/backend/internal/service/sentiment"
	"github.com/ssbprep/interview-coach/backend/internal/storage"
	"github.com/ssbprep/interview-coach/backend/pkg/utils"
)

// NewRouter wires HTTP routes to core services.
func NewRouter(catalog questionModel.Store, classifier sentiment.Classifier, feedbackSvc *feedback.Service, store *storage.Store, maxBodyBytes int64) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middlewarePkg.Recoverer)
	r.Use(middlewarePkg.CORS)
	r.Use(middleware.RequestSize(maxBodyBytes))

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		utils.RespondErrorMessage(w, http.StatusNotFound, "Not found", "The requested resource was not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		utils.RespondErrorMessage(w, http.StatusMethodNotAllowed, "Method not allowed", "The method is not allowed for the requested URL")
	})

	r.Route("/api", func(api chi.Router) {
		questionHandler.New(catalog).RegisterRoutes(api)
		analyze.New(classifier, feedbackSvc, store).RegisterRoutes(api)
		sessionHandler.New(store, feedbackSvc).RegisterRoutes(api)
	})

	return r
}
