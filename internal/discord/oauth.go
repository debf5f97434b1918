// Package discord talks to Discord's OAuth2 endpoints and REST API.
// Discord is plain OAuth 2.0 without ID tokens, so identity comes from a
// separate profile fetch with the user's access token.
package discord

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2"
)

const (
	defaultAuthURL  = "https://discord.com/oauth2/authorize"
	defaultTokenURL = "https://discord.com/api/oauth2/token"
	defaultAPIBase  = "https://discord.com/api/v10"

	requestTimeout = 10 * time.Second
)

// Scopes requested at authorize time and asserted again at exchange time.
// The two must stay in lockstep or Discord rejects the exchange.
var Scopes = []string{"identify", "email", "guilds.join"}

// Token is the relevant part of Discord's token-endpoint response.
type Token struct {
	AccessToken string
	TokenType   string
	Scope       string
}

// Profile is the authenticated user's identity from /users/@me.
// Email is empty unless the email scope was granted.
type Profile struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// Provider performs the authorization-code flow against Discord.
type Provider struct {
	cfg     *oauth2.Config
	apiBase string
	http    *http.Client
}

// Option overrides Provider defaults, used by tests to point at fake
// Discord endpoints.
type Option func(*Provider)

func WithEndpoints(authURL, tokenURL, apiBase string) Option {
	return func(p *Provider) {
		p.cfg.Endpoint.AuthURL = authURL
		p.cfg.Endpoint.TokenURL = tokenURL
		p.apiBase = apiBase
	}
}

func WithHTTPClient(client *http.Client) Option {
	return func(p *Provider) {
		p.http = client
	}
}

func NewProvider(clientID, clientSecret, redirectURL string, opts ...Option) *Provider {
	p := &Provider{
		cfg: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Endpoint: oauth2.Endpoint{
				AuthURL:   defaultAuthURL,
				TokenURL:  defaultTokenURL,
				AuthStyle: oauth2.AuthStyleInParams,
			},
			Scopes: Scopes,
		},
		apiBase: defaultAPIBase,
		http:    &http.Client{Timeout: requestTimeout},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Configured reports whether a client id is present. Without one the
// authorize redirect cannot be built and the surface must answer with a
// configuration error instead.
func (p *Provider) Configured() bool {
	return p.cfg.ClientID != ""
}

// AuthCodeURL builds the authorization redirect target.
func (p *Provider) AuthCodeURL() string {
	return p.cfg.AuthCodeURL("")
}

// Exchange trades an authorization code for an access token.
func (p *Provider) Exchange(ctx context.Context, code string) (*Token, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, p.http)

	tok, err := p.cfg.Exchange(ctx, code,
		oauth2.SetAuthURLParam("scope", strings.Join(p.cfg.Scopes, " ")),
	)
	if err != nil {
		return nil, fmt.Errorf("discord: token exchange: %w", err)
	}
	if tok.AccessToken == "" {
		return nil, errors.New("discord: token response missing access_token")
	}

	scope, _ := tok.Extra("scope").(string)
	return &Token{
		AccessToken: tok.AccessToken,
		TokenType:   tok.Type(),
		Scope:       scope,
	}, nil
}

// FetchProfile loads the authenticated user's profile with the freshly
// issued access token.
func (p *Provider) FetchProfile(ctx context.Context, accessToken string) (*Profile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.apiBase+"/users/@me", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Accept", "application/json")

	resp, err := p.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("discord: profile fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("discord: profile fetch: status %d", resp.StatusCode)
	}

	var profile Profile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return nil, fmt.Errorf("discord: decode profile: %w", err)
	}
	if profile.ID == "" {
		return nil, errors.New("discord: profile missing id")
	}
	return &profile, nil
}
