package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Nova-Gear/presence-api/internal/domain/presence"
	"github.com/Nova-Gear/presence-api/internal/domain/user"
	"github.com/Nova-Gear/presence-api/internal/pkg/database"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolationCode = "23505"

type presenceRepository struct {
	db *database.DB
}

func NewPresenceRepository(db *database.DB) presence.PresenceRepository {
	return &presenceRepository{db: db}
}

const presenceColumns = `
	p.id, p.user_id, p.type, p.source, p.status,
	p.presence_time, p.presence_date,
	p.address, p.latitude, p.longitude, p.photo_path, p.notes, p.is_valid,
	p.created_at, p.updated_at,
	u.name, u.company_id
`

func scanPresence(row pgx.Row) (presence.Presence, error) {
	var p presence.Presence
	err := row.Scan(
		&p.ID, &p.UserID, &p.Type, &p.Source, &p.Status,
		&p.PresenceTime, &p.PresenceDate,
		&p.Address, &p.Latitude, &p.Longitude, &p.PhotoPath, &p.Notes, &p.IsValid,
		&p.CreatedAt, &p.UpdatedAt,
		&p.UserName, &p.CompanyID,
	)
	return p, err
}

// scopeCondition renders a visibility scope as a WHERE fragment against the
// joined users table. An unbounded non-super scope matches nothing.
func scopeCondition(scope user.Scope, args []interface{}) (string, []interface{}) {
	if scope.AllCompanies {
		return "", args
	}
	if scope.UserID != nil {
		args = append(args, *scope.UserID)
		return fmt.Sprintf("p.user_id = $%d", len(args)), args
	}
	if scope.CompanyID != nil {
		args = append(args, *scope.CompanyID)
		return fmt.Sprintf("u.company_id = $%d", len(args)), args
	}
	return "FALSE", args
}

// Create implements presence.PresenceRepository.
func (r *presenceRepository) Create(ctx context.Context, p *presence.Presence) error {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO presences (
			id, user_id, type, source, status,
			presence_time, presence_date,
			address, latitude, longitude, photo_path, notes, is_valid,
			created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15
		)
	`

	_, err := q.Exec(ctx, query,
		p.ID, p.UserID, p.Type, p.Source, p.Status,
		p.PresenceTime, p.PresenceDate,
		p.Address, p.Latitude, p.Longitude, p.PhotoPath, p.Notes, p.IsValid,
		p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return presence.ErrDuplicateEvent
		}
		return fmt.Errorf("failed to create presence: %w", err)
	}

	return nil
}

// GetByID implements presence.PresenceRepository.
func (r *presenceRepository) GetByID(ctx context.Context, id string, scope user.Scope) (presence.Presence, error) {
	q := GetQuerier(ctx, r.db)

	args := []interface{}{id}
	query := `
		SELECT ` + presenceColumns + `
		FROM presences p
		JOIN users u ON u.id = p.user_id
		WHERE p.id = $1
	`
	if cond, a := scopeCondition(scope, args); cond != "" {
		query += " AND " + cond
		args = a
	}

	p, err := scanPresence(q.QueryRow(ctx, query, args...))
	if err != nil {
		if err == pgx.ErrNoRows {
			return presence.Presence{}, presence.ErrPresenceNotFound
		}
		return presence.Presence{}, fmt.Errorf("failed to get presence: %w", err)
	}

	return p, nil
}

// GetEventOn implements presence.PresenceRepository.
func (r *presenceRepository) GetEventOn(ctx context.Context, userID string, date time.Time, eventType presence.EventType) (presence.Presence, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + presenceColumns + `
		FROM presences p
		JOIN users u ON u.id = p.user_id
		WHERE p.user_id = $1
		  AND p.presence_date = $2
		  AND p.type = $3
		LIMIT 1
	`

	p, err := scanPresence(q.QueryRow(ctx, query, userID, date, eventType))
	if err != nil {
		if err == pgx.ErrNoRows {
			return presence.Presence{}, presence.ErrPresenceNotFound
		}
		return presence.Presence{}, fmt.Errorf("failed to get presence event: %w", err)
	}

	return p, nil
}

// HasEventOn implements presence.PresenceRepository.
func (r *presenceRepository) HasEventOn(ctx context.Context, userID string, date time.Time) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT EXISTS (
			SELECT 1 FROM presences WHERE user_id = $1 AND presence_date = $2
		)
	`

	var exists bool
	if err := q.QueryRow(ctx, query, userID, date).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check presence existence: %w", err)
	}

	return exists, nil
}

// List implements presence.PresenceRepository.
func (r *presenceRepository) List(ctx context.Context, filter presence.ListFilter, scope user.Scope) ([]presence.Presence, int, error) {
	q := GetQuerier(ctx, r.db)

	var conditions []string
	var args []interface{}

	if cond, a := scopeCondition(scope, args); cond != "" {
		conditions = append(conditions, cond)
		args = a
	}
	if filter.UserID != "" {
		args = append(args, filter.UserID)
		conditions = append(conditions, fmt.Sprintf("p.user_id = $%d", len(args)))
	}
	if filter.CompanyID != "" {
		args = append(args, filter.CompanyID)
		conditions = append(conditions, fmt.Sprintf("u.company_id = $%d", len(args)))
	}
	if filter.Type != "" {
		args = append(args, filter.Type)
		conditions = append(conditions, fmt.Sprintf("p.type = $%d", len(args)))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		conditions = append(conditions, fmt.Sprintf("p.status = $%d", len(args)))
	}
	if filter.DateFrom != nil {
		args = append(args, *filter.DateFrom)
		conditions = append(conditions, fmt.Sprintf("p.presence_date >= $%d", len(args)))
	}
	if filter.DateTo != nil {
		args = append(args, *filter.DateTo)
		conditions = append(conditions, fmt.Sprintf("p.presence_date <= $%d", len(args)))
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	countQuery := `
		SELECT COUNT(*)
		FROM presences p
		JOIN users u ON u.id = p.user_id
	` + whereClause

	var total int
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count presences: %w", err)
	}

	args = append(args, filter.Limit, filter.Offset())
	query := `
		SELECT ` + presenceColumns + `
		FROM presences p
		JOIN users u ON u.id = p.user_id
	` + whereClause + fmt.Sprintf(`
		ORDER BY p.presence_time DESC
		LIMIT $%d OFFSET $%d
	`, len(args)-1, len(args))

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list presences: %w", err)
	}
	defer rows.Close()

	var records []presence.Presence
	for rows.Next() {
		p, err := scanPresence(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan presence: %w", err)
		}
		records = append(records, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate presences: %w", err)
	}

	return records, total, nil
}

// Delete implements presence.PresenceRepository.
func (r *presenceRepository) Delete(ctx context.Context, id string, scope user.Scope) error {
	q := GetQuerier(ctx, r.db)

	args := []interface{}{id}
	query := `
		DELETE FROM presences p
		USING users u
		WHERE u.id = p.user_id AND p.id = $1
	`
	if cond, a := scopeCondition(scope, args); cond != "" {
		query += " AND " + cond
		args = a
	}

	tag, err := q.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to delete presence: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return presence.ErrPresenceNotFound
	}

	return nil
}
