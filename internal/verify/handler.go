// Package verify implements the OAuth verification gate: the authorize
// redirect, the callback pipeline, and their error translation.
package verify

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/enj100/oduel-auth-server/internal/discord"
	"github.com/enj100/oduel-auth-server/internal/store"
)

// OAuthProvider is the slice of the Discord OAuth client the handler uses.
type OAuthProvider interface {
	Configured() bool
	AuthCodeURL() string
	Exchange(ctx context.Context, code string) (*discord.Token, error)
	FetchProfile(ctx context.Context, accessToken string) (*discord.Profile, error)
}

// Notifier is the slice of the bot client used for post-link side effects.
type Notifier interface {
	Configured() bool
	CreateDM(ctx context.Context, userID string) (string, error)
	SendMessage(ctx context.Context, channelID, content string) error
	AddGuildMemberRole(ctx context.Context, guildID, userID, roleID string) error
}

// LinkStore persists identity links.
type LinkStore interface {
	Upsert(ctx context.Context, discordID string, email *string, accessToken string) error
}

const confirmationMessage = "✅ *You have successfully authorized the bot! Thank you!*"

type Handler struct {
	provider OAuthProvider
	bot      Notifier
	links    LinkStore
	settings store.SettingsSource
	guildID  string
	log      *zap.Logger
}

func NewHandler(
	provider OAuthProvider,
	bot Notifier,
	links LinkStore,
	settings store.SettingsSource,
	guildID string,
	log *zap.Logger,
) *Handler {
	return &Handler{
		provider: provider,
		bot:      bot,
		links:    links,
		settings: settings,
		guildID:  guildID,
		log:      log,
	}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/", h.landing)
	r.GET("/auth", h.authorize)
	r.GET("/callback", h.callback)
}

func (h *Handler) landing(c *gin.Context) {
	c.String(http.StatusOK, "Hello! Visit /auth to authorize the bot.")
}

func (h *Handler) authorize(c *gin.Context) {
	if !h.provider.Configured() {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Missing CLIENT_ID configuration",
		})
		return
	}
	c.Redirect(http.StatusFound, h.provider.AuthCodeURL())
}

// callback runs the pipeline and writes exactly one response from its
// tagged result. Side-effect failures after the link is persisted never
// reach the response writer.
func (h *Handler) callback(c *gin.Context) {
	result := h.run(c.Request.Context(), c.Query("code"))
	h.respond(c, result)
}

func (h *Handler) respond(c *gin.Context, stepErr *StepError) {
	if stepErr == nil {
		if h.guildID != "" {
			c.Redirect(http.StatusFound, "https://discord.com/channels/"+h.guildID)
			return
		}
		c.String(http.StatusOK, "Authorization successful!")
		return
	}

	h.log.Error("verification failed",
		zap.String("step", stepErr.Step),
		zap.Error(stepErr.Err),
	)

	status := statusFor(stepErr.Kind)
	switch stepErr.Step {
	case StepReceiveCode:
		c.String(status, "Authorization code missing.")
	case StepTokenExchange:
		c.String(status, "Failed to get access token from Discord.")
	case StepProfileFetch:
		c.JSON(status, gin.H{
			"error": "Failed to fetch user data from Discord",
		})
	case StepPersistLink:
		c.String(status, "Failed to save user data.")
	default:
		// Causes stay server-side; the client gets a generic message.
		c.String(http.StatusInternalServerError, "Internal server error during authorization.")
	}
}

func statusFor(kind Kind) int {
	switch kind {
	case KindClientInput, KindUpstreamAuth:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
