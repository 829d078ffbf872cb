// ABOUTME: Interactive login flow for obtaining a delegated provider token
// ABOUTME: Implements the authorization-code redirect and callback exchange

package server

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
)

const stateCookieName = "chatvault_oauth_state"

// oauthConfig builds the provider configuration from server config. The
// redirect URL must match what the OAuth app registered with the provider.
func (s *Server) oauthConfig() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     s.cfg.Provider.ClientID,
		ClientSecret: s.cfg.Provider.ClientSecret,
		RedirectURL:  s.cfg.Provider.RedirectURL,
		Scopes:       []string{"read:user"},
		Endpoint: oauth2.Endpoint{
			AuthURL:  s.cfg.Provider.AuthURL,
			TokenURL: s.cfg.Provider.TokenURL,
		},
	}
}

// handleLogin handles GET /login by redirecting to the provider's
// authorization page. A random state nonce is pinned in a cookie so the
// callback can reject forged redirects.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	state := uuid.New().String()
	http.SetCookie(w, &http.Cookie{
		Name:     stateCookieName,
		Value:    state,
		Path:     "/auth/callback",
		MaxAge:   600,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	http.Redirect(w, r, s.oauthConfig().AuthCodeURL(state), http.StatusFound)
}

// handleCallback handles GET /auth/callback. On success it returns the
// provider access token as JSON; the caller presents it as a bearer token on
// subsequent search requests.
func (s *Server) handleCallback(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(stateCookieName)
	if err != nil || cookie.Value == "" || r.URL.Query().Get("state") != cookie.Value {
		s.logger.Warn("OAuth callback rejected", "reason", "state_mismatch")
		s.sendJSONError(w, http.StatusBadRequest, "state mismatch")
		return
	}

	// Expire the state cookie; it is single use.
	http.SetCookie(w, &http.Cookie{
		Name:   stateCookieName,
		Path:   "/auth/callback",
		MaxAge: -1,
	})

	code := r.URL.Query().Get("code")
	if code == "" {
		s.sendJSONError(w, http.StatusBadRequest, "missing authorization code")
		return
	}

	token, err := s.oauthConfig().Exchange(r.Context(), code)
	if err != nil {
		s.logger.Error("OAuth code exchange failed", "error", err)
		s.sendJSONError(w, http.StatusBadGateway, "token exchange failed")
		return
	}

	s.logger.Info("OAuth login completed")
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"access_token": token.AccessToken,
		"token_type":   "bearer",
	})
}
