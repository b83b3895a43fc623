package middleware

import (
	"errors"
	"net/http"

	"notesmith-server/internal/service"
	"notesmith-server/pkg/response"
)

// LLMQuotaMiddleware consumes one unit of the caller's daily LLM quota
// before letting the request through. At the ceiling it answers 429 with
// the next reset time; the unit is spent even if the guarded call later
// fails.
func LLMQuotaMiddleware(quota *service.QuotaService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID := GetUserID(r)
			if userID == "" {
				response.Unauthorized(w, "You are not logged in. Please log in to get access.")
				return
			}

			if err := quota.Consume(userID); err != nil {
				var limitErr *service.LimitExceededError
				if errors.As(err, &limitErr) {
					response.LimitExceeded(w,
						"Daily LLM request limit reached. Limit resets at midnight.",
						limitErr.NextReset)
					return
				}
				if errors.Is(err, service.ErrNotFound) {
					response.NotFound(w, "User not found")
					return
				}
				response.InternalError(w, "Error checking rate limit")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
