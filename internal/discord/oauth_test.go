package discord

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeDiscord is an httptest server playing the token and profile
// endpoints. Handlers are swappable per test.
type fakeDiscord struct {
	srv     *httptest.Server
	token   http.HandlerFunc
	profile http.HandlerFunc

	tokenCalls   int
	profileCalls int
}

func newFakeDiscord(t *testing.T) *fakeDiscord {
	t.Helper()
	f := &fakeDiscord{}
	mux := http.NewServeMux()
	mux.HandleFunc("/api/oauth2/token", func(w http.ResponseWriter, r *http.Request) {
		f.tokenCalls++
		f.token(w, r)
	})
	mux.HandleFunc("/api/v10/users/@me", func(w http.ResponseWriter, r *http.Request) {
		f.profileCalls++
		f.profile(w, r)
	})
	f.srv = httptest.NewServer(mux)
	t.Cleanup(f.srv.Close)
	return f
}

func (f *fakeDiscord) provider() *Provider {
	return NewProvider("client-id", "client-secret", "http://localhost:3000/callback",
		WithEndpoints(
			f.srv.URL+"/oauth2/authorize",
			f.srv.URL+"/api/oauth2/token",
			f.srv.URL+"/api/v10",
		),
	)
}

func jsonResponse(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}
}

func TestAuthCodeURL(t *testing.T) {
	p := NewProvider("client-id", "client-secret", "http://localhost:3000/callback")

	u, err := url.Parse(p.AuthCodeURL())
	require.NoError(t, err)

	q := u.Query()
	assert.Equal(t, "client-id", q.Get("client_id"))
	assert.Equal(t, "http://localhost:3000/callback", q.Get("redirect_uri"))
	assert.Equal(t, "code", q.Get("response_type"))
	assert.Equal(t, "identify email guilds.join", q.Get("scope"))
}

func TestConfigured(t *testing.T) {
	assert.True(t, NewProvider("client-id", "", "").Configured())
	assert.False(t, NewProvider("", "", "").Configured())
}

func TestExchangeSuccess(t *testing.T) {
	f := newFakeDiscord(t)
	f.token = func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "abc123", r.Form.Get("code"))
		assert.Equal(t, "authorization_code", r.Form.Get("grant_type"))
		assert.Equal(t, "client-id", r.Form.Get("client_id"))
		assert.Equal(t, "identify email guilds.join", r.Form.Get("scope"))
		jsonResponse(`{"access_token":"tok1","token_type":"Bearer","scope":"identify email guilds.join"}`)(w, r)
	}

	tok, err := f.provider().Exchange(context.Background(), "abc123")
	require.NoError(t, err)
	assert.Equal(t, "tok1", tok.AccessToken)
	assert.Equal(t, "Bearer", tok.TokenType)
	assert.Equal(t, "identify email guilds.join", tok.Scope)
	assert.Equal(t, 1, f.tokenCalls)
}

func TestExchangeUpstreamRejects(t *testing.T) {
	f := newFakeDiscord(t)
	f.token = func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"invalid_grant"}`))
	}

	_, err := f.provider().Exchange(context.Background(), "bad-code")
	require.Error(t, err)
}

func TestExchangeMissingAccessToken(t *testing.T) {
	f := newFakeDiscord(t)
	f.token = jsonResponse(`{"token_type":"Bearer"}`)

	_, err := f.provider().Exchange(context.Background(), "abc123")
	require.Error(t, err)
}

func TestFetchProfileSuccess(t *testing.T) {
	f := newFakeDiscord(t)
	f.profile = func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok1", r.Header.Get("Authorization"))
		jsonResponse(`{"id":"999","username":"tester","email":"t@example.com"}`)(w, r)
	}

	profile, err := f.provider().FetchProfile(context.Background(), "tok1")
	require.NoError(t, err)
	assert.Equal(t, "999", profile.ID)
	assert.Equal(t, "t@example.com", profile.Email)
}

func TestFetchProfileNonSuccessStatus(t *testing.T) {
	f := newFakeDiscord(t)
	f.profile = func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}

	_, err := f.provider().FetchProfile(context.Background(), "expired")
	require.Error(t, err)
}

func TestFetchProfileMissingID(t *testing.T) {
	f := newFakeDiscord(t)
	f.profile = jsonResponse(`{"username":"tester"}`)

	_, err := f.provider().FetchProfile(context.Background(), "tok1")
	require.Error(t, err)
}
