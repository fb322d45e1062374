package oauth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFakeServer(t *testing.T, tokenBody, profileBody string, profileStatus int) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		w.Header().Set("Content-Type", "application/json")
		if r.PostForm.Get("code") != "good" {
			_, _ = w.Write([]byte(`{"error":"bad_verification_code"}`))
			return
		}
		_, _ = w.Write([]byte(tokenBody))
	})
	mux.HandleFunc("/user", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(profileStatus)
		_, _ = w.Write([]byte(profileBody))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func testConfig(srv *httptest.Server) Config {
	return Config{
		ClientID:     "client",
		ClientSecret: "secret",
		RedirectURL:  "http://127.0.0.1:8000/users/login/github/callback",
		AuthURL:      srv.URL + "/authorize",
		TokenURL:     srv.URL + "/token",
		ProfileURL:   srv.URL + "/user",
	}
}

func TestGithub_ExchangeAndProfile(t *testing.T) {
	srv := newFakeServer(t,
		`{"access_token":"tok","token_type":"bearer"}`,
		`{"login":"octo","name":null,"email":"octo@example.com","bio":"hi","avatar_url":"https://img/octo.png"}`,
		http.StatusOK)
	p := NewGithub(testConfig(srv), srv.Client())

	token, err := p.Exchange(context.Background(), "good")
	require.NoError(t, err)
	assert.Equal(t, "tok", token)

	profile, err := p.FetchProfile(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, &Profile{
		Provider:    GithubName,
		ExternalID:  "octo",
		Email:       "octo@example.com",
		DisplayName: "octo",
		Bio:         "hi",
		AvatarURL:   "https://img/octo.png",
	}, profile)
}

func TestGithub_ExchangeRejectsErrorBody(t *testing.T) {
	srv := newFakeServer(t, `{"access_token":"tok"}`, `{}`, http.StatusOK)
	p := NewGithub(testConfig(srv), srv.Client())

	_, err := p.Exchange(context.Background(), "bad")
	assert.ErrorIs(t, err, ErrTokenExchange)
}

func TestGithub_ExchangeRejectsMissingToken(t *testing.T) {
	srv := newFakeServer(t, `{"token_type":"bearer"}`, `{}`, http.StatusOK)
	p := NewGithub(testConfig(srv), srv.Client())

	_, err := p.Exchange(context.Background(), "good")
	assert.ErrorIs(t, err, ErrTokenExchange)
}

func TestProvider_ProfileServerErrorIsUnavailable(t *testing.T) {
	srv := newFakeServer(t, `{"access_token":"tok"}`, `oops`, http.StatusBadGateway)
	p := NewKakao(testConfig(srv), srv.Client())

	_, err := p.FetchProfile(context.Background(), "tok")
	assert.ErrorIs(t, err, ErrProviderUnavailable)

	_, err = p.FetchProfile(context.Background(), "revoked")
	assert.ErrorIs(t, err, ErrProfileRejected)
}

func TestProvider_UnreachableIsUnavailable(t *testing.T) {
	srv := newFakeServer(t, `{}`, `{}`, http.StatusOK)
	cfg := testConfig(srv)
	srv.Close()

	p := NewGithub(cfg, nil)
	_, err := p.Exchange(context.Background(), "good")
	assert.ErrorIs(t, err, ErrProviderUnavailable)
}

func TestProvider_BreakerOpensAfterRepeatedFailures(t *testing.T) {
	srv := newFakeServer(t, `{}`, `down`, http.StatusServiceUnavailable)
	p := NewGithub(testConfig(srv), srv.Client())

	for i := 0; i < 5; i++ {
		_, err := p.FetchProfile(context.Background(), "tok")
		require.ErrorIs(t, err, ErrProviderUnavailable)
	}
	_, err := p.(*provider).breaker.Execute(func() (interface{}, error) { return nil, nil })
	assert.Error(t, err, "breaker should be open")
}

func TestAuthCodeURL(t *testing.T) {
	p := NewKakao(Config{ClientID: "kid", RedirectURL: "http://127.0.0.1:8000/users/login/kakao/callback"}, nil)
	u, err := url.Parse(p.AuthCodeURL("st4te"))
	require.NoError(t, err)
	assert.Equal(t, "kauth.kakao.com", u.Host)
	assert.Equal(t, "code", u.Query().Get("response_type"))
	assert.Equal(t, "kid", u.Query().Get("client_id"))
	assert.Equal(t, "st4te", u.Query().Get("state"))
	assert.Equal(t, "http://127.0.0.1:8000/users/login/kakao/callback", u.Query().Get("redirect_uri"))
}

func TestNormalizeKakao(t *testing.T) {
	nested := normalizeKakao([]byte(`{"id":42,"kakao_account":{"email":"k@example.com","profile":{"nickname":"Kim","profile_image_url":"https://img/k.png"}}}`))
	assert.Equal(t, Profile{ExternalID: "42", Email: "k@example.com", DisplayName: "Kim", AvatarURL: "https://img/k.png"}, nested)

	legacy := normalizeKakao([]byte(`{"id":7,"properties":{"nickname":"Lee","profile_image":"https://img/l.png"},"kakao_account":{}}`))
	assert.Equal(t, "Lee", legacy.DisplayName)
	assert.Equal(t, "https://img/l.png", legacy.AvatarURL)
	assert.Empty(t, legacy.Email)
}

func TestRegistry(t *testing.T) {
	r := NewRegistry(NewGithub(Config{}, nil), NewKakao(Config{}, nil))
	p, err := r.Get("GitHub")
	require.NoError(t, err)
	assert.Equal(t, GithubName, p.Name())

	_, err = r.Get("facebook")
	assert.ErrorIs(t, err, ErrUnknownProvider)
}
