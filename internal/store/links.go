// Package store implements the two persisted entities: identity links
// (Discord user id -> email/token) and the settings singleton.
package store

import (
	"context"
	"fmt"
	"time"

	"github.com/enj100/oduel-auth-server/internal/db"
)

// IdentityLink records that a Discord user completed verification.
// At most one row exists per discord_id.
type IdentityLink struct {
	DiscordID   string
	Email       *string
	AccessToken string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type LinkStore struct {
	db *db.DB
}

func NewLinkStore(db *db.DB) *LinkStore {
	return &LinkStore{db: db}
}

// Upsert creates the link on first verification and refreshes email and
// access token on every repeat login. Uniqueness is enforced by the
// primary key; concurrent callbacks for the same user resolve to
// last-writer-wins at the storage layer.
func (s *LinkStore) Upsert(ctx context.Context, discordID string, email *string, accessToken string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO identity_links (discord_id, email, access_token)
		VALUES ($1, $2, $3)
		ON CONFLICT (discord_id) DO UPDATE
		SET email        = EXCLUDED.email,
		    access_token = EXCLUDED.access_token,
		    updated_at   = NOW()
	`, discordID, email, accessToken)
	if err != nil {
		return fmt.Errorf("store: upsert link for %s: %w", discordID, err)
	}
	return nil
}
