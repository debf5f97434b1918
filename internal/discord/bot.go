package discord

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
)

// BotClient issues privileged REST calls with the bot token: DM delivery
// and role grants. Distinct from the user's OAuth access token.
type BotClient struct {
	token   string
	apiBase string
	http    *http.Client
}

// BotOption overrides BotClient defaults for tests.
type BotOption func(*BotClient)

func WithBotAPIBase(apiBase string) BotOption {
	return func(b *BotClient) {
		b.apiBase = apiBase
	}
}

func NewBotClient(token string, opts ...BotOption) *BotClient {
	b := &BotClient{
		token:   token,
		apiBase: defaultAPIBase,
		http:    &http.Client{Timeout: requestTimeout},
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Configured reports whether a bot token is present.
func (b *BotClient) Configured() bool {
	return b.token != ""
}

// CreateDM opens (or fetches) a direct-message channel with the user and
// returns its channel id.
func (b *BotClient) CreateDM(ctx context.Context, userID string) (string, error) {
	body, _ := json.Marshal(map[string]string{"recipient_id": userID})

	resp, err := b.do(ctx, http.MethodPost, "/users/@me/channels", body)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("discord: create dm: status %d", resp.StatusCode)
	}

	var channel struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&channel); err != nil {
		return "", fmt.Errorf("discord: decode dm channel: %w", err)
	}
	if channel.ID == "" {
		return "", errors.New("discord: dm channel missing id")
	}
	return channel.ID, nil
}

// SendMessage posts a message to a channel.
func (b *BotClient) SendMessage(ctx context.Context, channelID, content string) error {
	body, _ := json.Marshal(map[string]string{"content": content})

	path := "/channels/" + url.PathEscape(channelID) + "/messages"
	resp, err := b.do(ctx, http.MethodPost, path, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("discord: send message: status %d", resp.StatusCode)
	}
	return nil
}

// AddGuildMemberRole grants a role to a guild member. Discord answers
// 204 on success.
func (b *BotClient) AddGuildMemberRole(ctx context.Context, guildID, userID, roleID string) error {
	path := "/guilds/" + url.PathEscape(guildID) +
		"/members/" + url.PathEscape(userID) +
		"/roles/" + url.PathEscape(roleID)

	resp, err := b.do(ctx, http.MethodPut, path, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent {
		return fmt.Errorf("discord: add role: status %d", resp.StatusCode)
	}
	return nil
}

func (b *BotClient) do(ctx context.Context, method, path string, body []byte) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, b.apiBase+path, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bot "+b.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := b.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("discord: %s %s: %w", method, path, err)
	}
	return resp, nil
}
