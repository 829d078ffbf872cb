// ABOUTME: HTTP middleware enforcing the token gate on API endpoints
// ABOUTME: Extracts the bearer credential and maps rejections to 401/403

package auth

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
)

// extractBearerToken extracts a bearer token from the Authorization header.
// Returns the token and an error message (empty if successful).
func extractBearerToken(authHeader string) (string, string) {
	if authHeader == "" {
		return "", "missing authorization header"
	}
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return "", "invalid authorization header format"
	}
	token := strings.TrimPrefix(authHeader, "Bearer ")
	if token == "" {
		return "", "empty token"
	}
	return token, ""
}

// Middleware creates an HTTP middleware that validates the bearer credential
// on every request. Rejections carry one of three reasons: malformed
// credential and provider-rejected token both map to 401, a known identity
// missing from the allow list maps to 403.
func Middleware(validator *Validator, logger *slog.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, errMsg := extractBearerToken(r.Header.Get("Authorization"))
			if errMsg != "" {
				logger.Warn("auth failure", "reason", "token_extraction_failed", "detail", errMsg)
				http.Error(w, `{"error":"`+errMsg+`"}`, http.StatusUnauthorized)
				return
			}

			identity, err := validator.Validate(r.Context(), token)
			if err != nil {
				status, body, reason := rejectionResponse(err)
				logger.Warn("auth failure", "reason", reason)
				http.Error(w, body, status)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), identity)))
		})
	}
}

// rejectionResponse maps a validation error to an HTTP status, response
// body, and log reason. Bodies never include provider error detail.
func rejectionResponse(err error) (int, string, string) {
	switch {
	case errors.Is(err, ErrIdentityNotAllowed):
		return http.StatusForbidden, `{"error":"identity not authorized"}`, "identity_not_allowed"
	case errors.Is(err, ErrProviderRejected):
		return http.StatusUnauthorized, `{"error":"invalid token"}`, "provider_rejected"
	default:
		return http.StatusUnauthorized, `{"error":"invalid credential"}`, "malformed_credential"
	}
}
