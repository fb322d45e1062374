package oauth

import (
	"net/http"

	"github.com/tidwall/gjson"
)

const (
	GithubName       = "github"
	githubAuthURL    = "https://github.com/login/oauth/authorize"
	githubTokenURL   = "https://github.com/login/oauth/access_token"
	githubProfileURL = "https://api.github.com/user"
)

func NewGithub(cfg Config, client *http.Client) Provider {
	if cfg.AuthURL == "" {
		cfg.AuthURL = githubAuthURL
	}
	if cfg.TokenURL == "" {
		cfg.TokenURL = githubTokenURL
	}
	if cfg.ProfileURL == "" {
		cfg.ProfileURL = githubProfileURL
	}
	if cfg.Scopes == nil {
		cfg.Scopes = []string{"read:user"}
	}
	return newProvider(GithubName, cfg, client, normalizeGithub)
}

// normalizeGithub falls back to the login handle when no display name is set.
func normalizeGithub(body []byte) Profile {
	r := gjson.ParseBytes(body)
	login := r.Get("login").String()
	name := r.Get("name").String()
	if name == "" {
		name = login
	}
	return Profile{
		ExternalID:  login,
		Email:       r.Get("email").String(),
		DisplayName: name,
		Bio:         r.Get("bio").String(),
		AvatarURL:   r.Get("avatar_url").String(),
	}
}
