package postgresql

import (
	"context"
	"fmt"

	"github.com/Nova-Gear/presence-api/internal/domain/presence"
	"github.com/Nova-Gear/presence-api/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type deviceMappingRepository struct {
	db *database.DB
}

func NewDeviceMappingRepository(db *database.DB) presence.DeviceMappingRepository {
	return &deviceMappingRepository{db: db}
}

// ResolveUserID implements presence.DeviceMappingRepository.
func (r *deviceMappingRepository) ResolveUserID(ctx context.Context, source presence.Source, identifier string) (string, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT user_id
		FROM device_mappings
		WHERE source = $1 AND identifier = $2 AND is_active
	`

	var userID string
	err := q.QueryRow(ctx, query, source, identifier).Scan(&userID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return "", presence.ErrUnresolvedIdentity
		}
		return "", fmt.Errorf("failed to resolve device identifier: %w", err)
	}

	return userID, nil
}
