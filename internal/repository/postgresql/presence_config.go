package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/Nova-Gear/presence-api/internal/domain/presenceconfig"
	"github.com/Nova-Gear/presence-api/internal/pkg/database"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type presenceConfigRepository struct {
	db *database.DB
}

func NewPresenceConfigRepository(db *database.DB) presenceconfig.ConfigRepository {
	return &presenceConfigRepository{db: db}
}

const configColumns = `
	c.id, c.company_id,
	c.checkin_start, c.checkin_end, c.checkout_start, c.checkout_end,
	c.is_active, c.created_at, c.updated_at
`

func scanConfig(row pgx.Row) (presenceconfig.Config, error) {
	var c presenceconfig.Config
	err := row.Scan(
		&c.ID, &c.CompanyID,
		&c.CheckinStart, &c.CheckinEnd, &c.CheckoutStart, &c.CheckoutEnd,
		&c.IsActive, &c.CreatedAt, &c.UpdatedAt,
	)
	return c, err
}

// Create implements presenceconfig.ConfigRepository.
func (r *presenceConfigRepository) Create(ctx context.Context, config *presenceconfig.Config) error {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO presence_configs (
			id, company_id,
			checkin_start, checkin_end, checkout_start, checkout_end,
			is_active, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := q.Exec(ctx, query,
		config.ID, config.CompanyID,
		config.CheckinStart, config.CheckinEnd, config.CheckoutStart, config.CheckoutEnd,
		config.IsActive, config.CreatedAt, config.UpdatedAt,
	)
	if err != nil {
		// The partial unique index allows one active config per company.
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return presenceconfig.ErrActiveConfigExists
		}
		return fmt.Errorf("failed to create presence config: %w", err)
	}

	return nil
}

// GetByID implements presenceconfig.ConfigRepository.
func (r *presenceConfigRepository) GetByID(ctx context.Context, id string) (presenceconfig.Config, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + configColumns + `
		FROM presence_configs c
		WHERE c.id = $1
	`

	config, err := scanConfig(q.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return presenceconfig.Config{}, presenceconfig.ErrConfigNotFound
		}
		return presenceconfig.Config{}, fmt.Errorf("failed to get presence config: %w", err)
	}

	return config, nil
}

// GetActiveByCompany implements presenceconfig.ConfigRepository.
func (r *presenceConfigRepository) GetActiveByCompany(ctx context.Context, companyID string) (presenceconfig.Config, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + configColumns + `
		FROM presence_configs c
		WHERE c.company_id = $1 AND c.is_active
		LIMIT 1
	`

	config, err := scanConfig(q.QueryRow(ctx, query, companyID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return presenceconfig.Config{}, presenceconfig.ErrNoActiveConfig
		}
		return presenceconfig.Config{}, fmt.Errorf("failed to get active presence config: %w", err)
	}

	return config, nil
}

// ListByCompany implements presenceconfig.ConfigRepository.
func (r *presenceConfigRepository) ListByCompany(ctx context.Context, companyID string) ([]presenceconfig.Config, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + configColumns + `
		FROM presence_configs c
		WHERE c.company_id = $1
		ORDER BY c.created_at DESC
	`

	rows, err := q.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list presence configs: %w", err)
	}
	defer rows.Close()

	var configs []presenceconfig.Config
	for rows.Next() {
		config, err := scanConfig(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan presence config: %w", err)
		}
		configs = append(configs, config)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate presence configs: %w", err)
	}

	return configs, nil
}

// Update implements presenceconfig.ConfigRepository.
func (r *presenceConfigRepository) Update(ctx context.Context, config *presenceconfig.Config) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE presence_configs
		SET checkin_start = $2, checkin_end = $3, checkout_start = $4, checkout_end = $5,
			is_active = $6, updated_at = $7
		WHERE id = $1
	`

	tag, err := q.Exec(ctx, query,
		config.ID,
		config.CheckinStart, config.CheckinEnd, config.CheckoutStart, config.CheckoutEnd,
		config.IsActive, config.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return presenceconfig.ErrActiveConfigExists
		}
		return fmt.Errorf("failed to update presence config: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return presenceconfig.ErrConfigNotFound
	}

	return nil
}

// Delete implements presenceconfig.ConfigRepository.
func (r *presenceConfigRepository) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM presence_configs WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete presence config: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return presenceconfig.ErrConfigNotFound
	}

	return nil
}
