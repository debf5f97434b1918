package verify

import (
	"context"
	"errors"

	"go.uber.org/zap"
)

// run executes the callback pipeline: exchange the code, fetch the
// profile, persist the link, then fire best-effort side effects. The
// first four steps are linear and any failure aborts with a StepError;
// the upsert is the only write, so failures before it leave no record.
// Side effects after persistence cannot fail the pipeline.
func (h *Handler) run(ctx context.Context, code string) *StepError {
	if code == "" {
		return stepErr(KindClientInput, StepReceiveCode, errors.New("authorization code missing"))
	}

	token, err := h.provider.Exchange(ctx, code)
	if err != nil {
		return stepErr(KindUpstreamAuth, StepTokenExchange, err)
	}

	profile, err := h.provider.FetchProfile(ctx, token.AccessToken)
	if err != nil {
		return stepErr(KindUpstreamAuth, StepProfileFetch, err)
	}

	var email *string
	if profile.Email != "" {
		email = &profile.Email
	}

	if err := h.links.Upsert(ctx, profile.ID, email, token.AccessToken); err != nil {
		return stepErr(KindPersistence, StepPersistLink, err)
	}

	h.log.Info("identity link persisted",
		zap.String("discord_id", profile.ID),
		zap.Bool("email_present", email != nil),
	)

	h.sendConfirmation(ctx, profile.ID)
	h.grantRole(ctx, profile.ID)

	return nil
}

// sendConfirmation DMs the user a fixed confirmation message. Failures
// are logged only; the user already holds a persisted link.
func (h *Handler) sendConfirmation(ctx context.Context, userID string) {
	if !h.bot.Configured() {
		return
	}

	channelID, err := h.bot.CreateDM(ctx, userID)
	if err != nil {
		h.log.Warn("failed to open dm channel",
			zap.String("discord_id", userID),
			zap.Error(err),
		)
		return
	}

	if err := h.bot.SendMessage(ctx, channelID, confirmationMessage); err != nil {
		h.log.Warn("failed to send confirmation dm",
			zap.String("discord_id", userID),
			zap.Error(err),
		)
	}
}

// grantRole reads the settings singleton and, when a role is configured,
// grants it to the user. Failures are logged only.
func (h *Handler) grantRole(ctx context.Context, userID string) {
	if h.guildID == "" || !h.bot.Configured() {
		return
	}

	settings, err := h.settings.Get(ctx)
	if err != nil {
		h.log.Warn("failed to load settings for role grant",
			zap.String("discord_id", userID),
			zap.Error(err),
		)
		return
	}
	if settings.RoleID == nil || *settings.RoleID == "" {
		return
	}

	if err := h.bot.AddGuildMemberRole(ctx, h.guildID, userID, *settings.RoleID); err != nil {
		h.log.Warn("failed to grant role",
			zap.String("discord_id", userID),
			zap.String("role_id", *settings.RoleID),
			zap.Error(err),
		)
	}
}
