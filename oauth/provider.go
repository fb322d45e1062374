// Package oauth runs the authorization-code flow against the supported
// identity providers and normalises their profile payloads.
package oauth

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
	"golang.org/x/oauth2"
)

var (
	ErrUnknownProvider     = errors.New("unknown identity provider")
	ErrTokenExchange       = errors.New("token exchange rejected")
	ErrProfileRejected     = errors.New("profile request rejected")
	ErrProviderUnavailable = errors.New("identity provider unavailable")
)

// Profile is the provider-independent view of an external account.
type Profile struct {
	Provider    string
	ExternalID  string
	Email       string
	DisplayName string
	Bio         string
	AvatarURL   string
}

type Provider interface {
	Name() string
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (string, error)
	FetchProfile(ctx context.Context, accessToken string) (*Profile, error)
}

// Config holds one provider's client registration. Empty URLs fall back to
// the provider's public endpoints.
type Config struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	AuthURL      string
	TokenURL     string
	ProfileURL   string
	Scopes       []string
}

type normalizer func(body []byte) Profile

type provider struct {
	name       string
	oauth      oauth2.Config
	profileURL string
	normalize  normalizer
	client     *http.Client
	breaker    *gobreaker.CircuitBreaker
}

func newProvider(name string, cfg Config, client *http.Client, normalize normalizer) *provider {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &provider{
		name: name,
		oauth: oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       cfg.Scopes,
			Endpoint: oauth2.Endpoint{
				AuthURL:   cfg.AuthURL,
				TokenURL:  cfg.TokenURL,
				AuthStyle: oauth2.AuthStyleInParams,
			},
		},
		profileURL: cfg.ProfileURL,
		normalize:  normalize,
		client:     client,
		breaker:    newBreaker(name),
	}
}

// newBreaker trips after consecutive transport-level failures. Rejections
// by a healthy provider (bad code, revoked token) do not count.
func newBreaker(name string) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "oauth-" + name,
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		IsSuccessful: func(err error) bool {
			return err == nil || !stderrors.Is(err, ErrProviderUnavailable)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logrus.WithFields(logrus.Fields{"breaker": name, "from": from.String(), "to": to.String()}).Warn("circuit breaker state changed")
		},
	})
}

func (p *provider) Name() string {
	return p.name
}

func (p *provider) AuthCodeURL(state string) string {
	return p.oauth.AuthCodeURL(state)
}

func (p *provider) Exchange(ctx context.Context, code string) (string, error) {
	out, err := p.call(func() (interface{}, error) {
		tok, err := p.oauth.Exchange(context.WithValue(ctx, oauth2.HTTPClient, p.client), code)
		if err != nil {
			var rerr *oauth2.RetrieveError
			if stderrors.As(err, &rerr) && rerr.Response != nil && rerr.Response.StatusCode < 500 {
				return nil, errors.Wrap(ErrTokenExchange, rerr.Error())
			}
			if rerr == nil && ctx.Err() == nil && isMalformedToken(err) {
				return nil, errors.Wrap(ErrTokenExchange, err.Error())
			}
			return nil, errors.Wrap(ErrProviderUnavailable, err.Error())
		}
		if tok.AccessToken == "" {
			return nil, ErrTokenExchange
		}
		return tok.AccessToken, nil
	})
	if err != nil {
		return "", err
	}
	return out.(string), nil
}

func (p *provider) FetchProfile(ctx context.Context, accessToken string) (*Profile, error) {
	out, err := p.call(func() (interface{}, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.profileURL, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Authorization", "Bearer "+accessToken)
		req.Header.Set("Accept", "application/json")

		resp, err := p.client.Do(req)
		if err != nil {
			return nil, errors.Wrap(ErrProviderUnavailable, err.Error())
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		if err != nil {
			return nil, errors.Wrap(ErrProviderUnavailable, err.Error())
		}
		switch {
		case resp.StatusCode >= 500:
			return nil, errors.Wrap(ErrProviderUnavailable, fmt.Sprintf("profile HTTP %d", resp.StatusCode))
		case resp.StatusCode >= 300:
			return nil, errors.Wrap(ErrProfileRejected, fmt.Sprintf("profile HTTP %d", resp.StatusCode))
		}
		profile := p.normalize(body)
		profile.Provider = p.name
		return &profile, nil
	})
	if err != nil {
		return nil, err
	}
	return out.(*Profile), nil
}

func (p *provider) call(fn func() (interface{}, error)) (interface{}, error) {
	out, err := p.breaker.Execute(fn)
	if stderrors.Is(err, gobreaker.ErrOpenState) || stderrors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, errors.Wrap(ErrProviderUnavailable, err.Error())
	}
	return out, err
}

// isMalformedToken matches x/oauth2's complaints about a 2xx token response
// that carries no usable token.
func isMalformedToken(err error) bool {
	msg := err.Error()
	return containsAny(msg, "missing access_token", "cannot parse json")
}
