package store

import (
	"context"
	"fmt"

	"github.com/enj100/oduel-auth-server/internal/db"
)

// Settings is the singleton configuration row (id 0) managed by the
// community's admin tooling. The verification flow only reads it.
type Settings struct {
	RoleID          *string `json:"role_id"`
	Color           *string `json:"color"`
	Thumbnail       *string `json:"thumbnail"`
	ServerName      *string `json:"server_name"`
	AuthLink        *string `json:"auth_link"`
	AuthDescription *string `json:"auth_description"`
}

type SettingsStore struct {
	db *db.DB
}

func NewSettingsStore(db *db.DB) *SettingsStore {
	return &SettingsStore{db: db}
}

// Get fetches the settings row, lazily creating it with column defaults
// on first access.
func (s *SettingsStore) Get(ctx context.Context) (*Settings, error) {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO settings (id) VALUES (0)
		ON CONFLICT (id) DO NOTHING
	`)
	if err != nil {
		return nil, fmt.Errorf("store: init settings: %w", err)
	}

	var st Settings
	err = s.db.QueryRowContext(ctx, `
		SELECT role_id, color, thumbnail, server_name, auth_link, auth_description
		FROM settings
		WHERE id = 0
	`).Scan(
		&st.RoleID,
		&st.Color,
		&st.Thumbnail,
		&st.ServerName,
		&st.AuthLink,
		&st.AuthDescription,
	)
	if err != nil {
		return nil, fmt.Errorf("store: get settings: %w", err)
	}
	return &st, nil
}
