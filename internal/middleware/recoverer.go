package middleware

import (
	"log"
	"net/http"
	"runtime/debug"

	"github.com/ssbprep/interview-coach/backend/pkg/utils"
)

// Recoverer converts panics into the generic 500 envelope instead of a
// dropped connection.
func Recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				log.Printf("panic handling %s %s: %v\n%s", r.Method, r.URL.Path, rec, debug.Stack())
				utils.RespondErrorMessage(w, http.StatusInternalServerError, "Server error", "An internal server error occurred")
			}
		}()
		next.ServeHTTP(w, r)
	})
}
