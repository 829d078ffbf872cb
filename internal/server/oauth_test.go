// ABOUTME: Tests for the login redirect and the authorization-code callback.
// ABOUTME: Uses an httptest token endpoint to stand in for the provider.

package server

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newOAuthTestServer(t *testing.T, tokenURL string) *Server {
	t.Helper()
	srv := newTestServer(t, &stubSearcher{}, &stubProvider{subject: "octocat"})
	srv.cfg.Provider.ClientID = "client-id"
	srv.cfg.Provider.ClientSecret = "client-secret"
	srv.cfg.Provider.AuthURL = "https://provider.example/authorize"
	srv.cfg.Provider.TokenURL = tokenURL
	srv.cfg.Provider.RedirectURL = "http://localhost:8080/auth/callback"
	return srv
}

func TestLogin_RedirectsWithStateCookie(t *testing.T) {
	srv := newOAuthTestServer(t, "https://provider.example/token")
	handler := srv.Routes()

	req := httptest.NewRequest(http.MethodGet, "/login", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusFound, rec.Code)

	loc, err := url.Parse(rec.Header().Get("Location"))
	require.NoError(t, err)
	assert.Equal(t, "provider.example", loc.Host)
	assert.Equal(t, "client-id", loc.Query().Get("client_id"))

	var state string
	for _, c := range rec.Result().Cookies() {
		if c.Name == stateCookieName {
			state = c.Value
		}
	}
	require.NotEmpty(t, state)
	assert.Equal(t, state, loc.Query().Get("state"))
}

func TestCallback_StateMismatch(t *testing.T) {
	srv := newOAuthTestServer(t, "https://provider.example/token")
	handler := srv.Routes()

	req := httptest.NewRequest(http.MethodGet, "/auth/callback?code=abc&state=forged", nil)
	req.AddCookie(&http.Cookie{Name: stateCookieName, Value: "genuine"})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCallback_MissingCookie(t *testing.T) {
	srv := newOAuthTestServer(t, "https://provider.example/token")
	handler := srv.Routes()

	req := httptest.NewRequest(http.MethodGet, "/auth/callback?code=abc&state=whatever", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCallback_ExchangesCodeForToken(t *testing.T) {
	provider := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "authorization_code", r.Form.Get("grant_type"))
		assert.Equal(t, "good-code", r.Form.Get("code"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token":"gho_fresh","token_type":"bearer"}`))
	}))
	defer provider.Close()

	srv := newOAuthTestServer(t, provider.URL+"/token")
	handler := srv.Routes()

	req := httptest.NewRequest(http.MethodGet, "/auth/callback?code=good-code&state=nonce", nil)
	req.AddCookie(&http.Cookie{Name: stateCookieName, Value: "nonce"})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"access_token":"gho_fresh"`)
}

func TestCallback_ExchangeFailure(t *testing.T) {
	provider := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "bad_verification_code", http.StatusBadRequest)
	}))
	defer provider.Close()

	srv := newOAuthTestServer(t, provider.URL+"/token")
	handler := srv.Routes()

	req := httptest.NewRequest(http.MethodGet, "/auth/callback?code=stale&state=nonce", nil)
	req.AddCookie(&http.Cookie{Name: stateCookieName, Value: "nonce"})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.NotContains(t, rec.Body.String(), "bad_verification_code")
}
