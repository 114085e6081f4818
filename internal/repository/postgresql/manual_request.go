package postgresql

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Nova-Gear/presence-api/internal/domain/manualrequest"
	"github.com/Nova-Gear/presence-api/internal/domain/user"
	"github.com/Nova-Gear/presence-api/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type manualRequestRepository struct {
	db *database.DB
}

func NewManualRequestRepository(db *database.DB) manualrequest.RequestRepository {
	return &manualRequestRepository{db: db}
}

const requestColumns = `
	r.id, r.user_id, r.type, r.start_date, r.end_date, r.reason, r.attachment_path,
	r.status, r.approved_by, r.approved_at, r.approval_notes,
	r.created_at, r.updated_at,
	u.name, a.name, u.company_id
`

func scanRequest(row pgx.Row) (manualrequest.Request, error) {
	var req manualrequest.Request
	err := row.Scan(
		&req.ID, &req.UserID, &req.Type, &req.StartDate, &req.EndDate, &req.Reason, &req.AttachmentPath,
		&req.Status, &req.ApprovedBy, &req.ApprovedAt, &req.ApprovalNotes,
		&req.CreatedAt, &req.UpdatedAt,
		&req.UserName, &req.ApproverName, &req.CompanyID,
	)
	return req, err
}

// requestScopeCondition mirrors scopeCondition for the request tables, where
// the owning user is joined as u.
func requestScopeCondition(scope user.Scope, args []interface{}) (string, []interface{}) {
	if scope.AllCompanies {
		return "", args
	}
	if scope.UserID != nil {
		args = append(args, *scope.UserID)
		return fmt.Sprintf("r.user_id = $%d", len(args)), args
	}
	if scope.CompanyID != nil {
		args = append(args, *scope.CompanyID)
		return fmt.Sprintf("u.company_id = $%d", len(args)), args
	}
	return "FALSE", args
}

// Create implements manualrequest.RequestRepository.
func (r *manualRequestRepository) Create(ctx context.Context, req *manualrequest.Request) error {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO manual_presence_requests (
			id, user_id, type, start_date, end_date, reason, attachment_path,
			status, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := q.Exec(ctx, query,
		req.ID, req.UserID, req.Type, req.StartDate, req.EndDate, req.Reason, req.AttachmentPath,
		req.Status, req.CreatedAt, req.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create manual request: %w", err)
	}

	return nil
}

// GetByID implements manualrequest.RequestRepository.
func (r *manualRequestRepository) GetByID(ctx context.Context, id string, scope user.Scope) (manualrequest.Request, error) {
	q := GetQuerier(ctx, r.db)

	args := []interface{}{id}
	query := `
		SELECT ` + requestColumns + `
		FROM manual_presence_requests r
		JOIN users u ON u.id = r.user_id
		LEFT JOIN users a ON a.id = r.approved_by
		WHERE r.id = $1
	`
	if cond, a := requestScopeCondition(scope, args); cond != "" {
		query += " AND " + cond
		args = a
	}

	req, err := scanRequest(q.QueryRow(ctx, query, args...))
	if err != nil {
		if err == pgx.ErrNoRows {
			return manualrequest.Request{}, manualrequest.ErrRequestNotFound
		}
		return manualrequest.Request{}, fmt.Errorf("failed to get manual request: %w", err)
	}

	return req, nil
}

// List implements manualrequest.RequestRepository.
func (r *manualRequestRepository) List(ctx context.Context, filter manualrequest.ListFilter, scope user.Scope) ([]manualrequest.Request, int, error) {
	q := GetQuerier(ctx, r.db)

	var conditions []string
	var args []interface{}

	if cond, a := requestScopeCondition(scope, args); cond != "" {
		conditions = append(conditions, cond)
		args = a
	}
	if filter.UserID != "" {
		args = append(args, filter.UserID)
		conditions = append(conditions, fmt.Sprintf("r.user_id = $%d", len(args)))
	}
	if filter.CompanyID != "" {
		args = append(args, filter.CompanyID)
		conditions = append(conditions, fmt.Sprintf("u.company_id = $%d", len(args)))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		conditions = append(conditions, fmt.Sprintf("r.status = $%d", len(args)))
	}
	if filter.Type != "" {
		args = append(args, filter.Type)
		conditions = append(conditions, fmt.Sprintf("r.type = $%d", len(args)))
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	countQuery := `
		SELECT COUNT(*)
		FROM manual_presence_requests r
		JOIN users u ON u.id = r.user_id
	` + whereClause

	var total int
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count manual requests: %w", err)
	}

	args = append(args, filter.Limit, filter.Offset())
	query := `
		SELECT ` + requestColumns + `
		FROM manual_presence_requests r
		JOIN users u ON u.id = r.user_id
		LEFT JOIN users a ON a.id = r.approved_by
	` + whereClause + fmt.Sprintf(`
		ORDER BY r.created_at DESC
		LIMIT $%d OFFSET $%d
	`, len(args)-1, len(args))

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list manual requests: %w", err)
	}
	defer rows.Close()

	var requests []manualrequest.Request
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan manual request: %w", err)
		}
		requests = append(requests, req)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate manual requests: %w", err)
	}

	return requests, total, nil
}

// HasOverlappingPending implements manualrequest.RequestRepository.
func (r *manualRequestRepository) HasOverlappingPending(ctx context.Context, userID string, start, end time.Time, excludeID string) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT 1
		FROM manual_presence_requests
		WHERE user_id = $1
		  AND status = 'pending'
		  AND start_date <= $3
		  AND end_date >= $2
	`
	args := []interface{}{userID, start, end}
	if excludeID != "" {
		args = append(args, excludeID)
		query += fmt.Sprintf(" AND id <> $%d", len(args))
	}

	var exists bool
	if err := q.QueryRow(ctx, "SELECT EXISTS ("+query+")", args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check overlapping requests: %w", err)
	}

	return exists, nil
}

// UpdateIfPending implements manualrequest.RequestRepository.
func (r *manualRequestRepository) UpdateIfPending(ctx context.Context, req *manualrequest.Request) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE manual_presence_requests
		SET type = $2, start_date = $3, end_date = $4, reason = $5, updated_at = $6
		WHERE id = $1 AND status = 'pending'
	`

	tag, err := q.Exec(ctx, query,
		req.ID, req.Type, req.StartDate, req.EndDate, req.Reason, req.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update manual request: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return manualrequest.ErrAlreadyProcessed
	}

	return nil
}

// DeleteIfPending implements manualrequest.RequestRepository.
func (r *manualRequestRepository) DeleteIfPending(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	query := `
		DELETE FROM manual_presence_requests
		WHERE id = $1 AND status = 'pending'
	`

	tag, err := q.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete manual request: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return manualrequest.ErrAlreadyProcessed
	}

	return nil
}

// UpdateStatusIfPending implements manualrequest.RequestRepository. The
// status guard in the WHERE clause makes concurrent decisions lose cleanly
// instead of double-processing.
func (r *manualRequestRepository) UpdateStatusIfPending(ctx context.Context, id string, status manualrequest.RequestStatus, approvedBy string, approvedAt time.Time, notes *string) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE manual_presence_requests
		SET status = $2, approved_by = $3, approved_at = $4, approval_notes = $5, updated_at = $4
		WHERE id = $1 AND status = 'pending'
	`

	tag, err := q.Exec(ctx, query, id, status, approvedBy, approvedAt, notes)
	if err != nil {
		return fmt.Errorf("failed to update manual request status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return manualrequest.ErrAlreadyProcessed
	}

	return nil
}
