package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/svelankar/armory/internal/model"
	"github.com/svelankar/armory/internal/pool"
)

// Request workflow errors.
var (
	ErrRequestNotFound   = errors.New("request not found")
	ErrRequestNotPending = errors.New("request is not pending")
)

// CreateRequest records an officer's intent. The request carries no
// inventory state; nothing happens to the pool until approval.
func CreateRequest(ctx context.Context, db *sql.DB, req *model.Request) (*model.Request, error) {
	if !model.ValidRequestType(req.Type) {
		return nil, fmt.Errorf("invalid request type %q", req.Type)
	}
	if req.Reason == "" {
		return nil, fmt.Errorf("reason is required")
	}
	if req.Type != model.RequestIssue && req.AssignedUniqueID == "" {
		return nil, fmt.Errorf("%s requests must name an item", req.Type)
	}
	if req.Type == model.RequestLost {
		if req.FIRNumber == "" || req.FIRDate == nil {
			return nil, fmt.Errorf("lost requests require FIR number and date")
		}
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	// Verify the pool exists up front so dangling requests never enter the
	// queue.
	var poolExists int
	err = tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM pools WHERE id = ?`, req.PoolID).Scan(&poolExists)
	if err != nil {
		return nil, fmt.Errorf("checking pool: %w", err)
	}
	if poolExists == 0 {
		return nil, ErrPoolNotFound
	}

	requestID, err := nextRequestID(ctx, tx)
	if err != nil {
		return nil, err
	}

	result, err := tx.ExecContext(ctx,
		`INSERT INTO requests (request_id, requested_by, pool_id, assigned_unique_id, type,
		                       reason, condition, fir_number, fir_date)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		requestID, req.RequestedBy, req.PoolID, nullString(req.AssignedUniqueID), req.Type,
		req.Reason, nullString(req.Condition), nullString(req.FIRNumber), req.FIRDate,
	)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing request: %w", err)
	}

	id, _ := result.LastInsertId()
	return GetRequest(ctx, db, id)
}

// nextRequestID generates a human-readable daily sequence ID like
// REQ-20250131-0007.
func nextRequestID(ctx context.Context, q dbtx) (string, error) {
	prefix := "REQ-" + time.Now().Format("20060102")

	var last sql.NullString
	err := q.QueryRowContext(ctx,
		`SELECT request_id FROM requests WHERE request_id LIKE ? ORDER BY request_id DESC LIMIT 1`,
		prefix+"-%",
	).Scan(&last)
	if err != nil && err != sql.ErrNoRows {
		return "", fmt.Errorf("finding last request id: %w", err)
	}

	sequence := 1
	if last.Valid {
		parts := strings.Split(last.String, "-")
		if n, err := strconv.Atoi(parts[len(parts)-1]); err == nil {
			sequence = n + 1
		}
	}
	return fmt.Sprintf("%s-%04d", prefix, sequence), nil
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

const requestColumns = `r.id, r.request_id, r.requested_by, r.pool_id, r.assigned_unique_id,
	r.type, r.status, r.reason, r.condition, r.fir_number, r.fir_date,
	r.admin_notes, r.processed_by, r.processed_date, r.created_at,
	p.pool_name, u.full_name, u.officer_id, u.designation`

const requestJoins = ` FROM requests r
	JOIN pools p ON p.id = r.pool_id
	JOIN users u ON u.id = r.requested_by`

// GetRequest returns a request by ID with pool and officer details joined.
func GetRequest(ctx context.Context, db *sql.DB, id int64) (*model.Request, error) {
	row := db.QueryRowContext(ctx, `SELECT `+requestColumns+requestJoins+` WHERE r.id = ?`, id)
	req, err := scanRequest(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting request: %w", err)
	}
	return req, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRequest(row rowScanner) (*model.Request, error) {
	req := &model.Request{}
	var assignedID, condition, firNumber, adminNotes sql.NullString
	err := row.Scan(&req.ID, &req.RequestID, &req.RequestedBy, &req.PoolID, &assignedID,
		&req.Type, &req.Status, &req.Reason, &condition, &firNumber, &req.FIRDate,
		&adminNotes, &req.ProcessedBy, &req.ProcessedDate, &req.CreatedAt,
		&req.PoolName, &req.OfficerName, &req.OfficerID, &req.Designation)
	if err != nil {
		return nil, err
	}
	req.AssignedUniqueID = assignedID.String
	req.Condition = condition.String
	req.FIRNumber = firNumber.String
	req.AdminNotes = adminNotes.String
	return req, nil
}

// ListRequests returns requests newest first, optionally filtered by status,
// type, and requesting officer (requestedBy > 0 limits to that user).
func ListRequests(ctx context.Context, db *sql.DB, status, requestType string, requestedBy int64) ([]model.Request, error) {
	query := `SELECT ` + requestColumns + requestJoins + ` WHERE 1=1`
	var args []any

	if status != "" {
		query += ` AND r.status = ?`
		args = append(args, status)
	}
	if requestType != "" {
		query += ` AND r.type = ?`
		args = append(args, requestType)
	}
	if requestedBy > 0 {
		query += ` AND r.requested_by = ?`
		args = append(args, requestedBy)
	}

	query += ` ORDER BY r.created_at DESC, r.id DESC`

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing requests: %w", err)
	}
	defer rows.Close()

	var requests []model.Request
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning request: %w", err)
		}
		requests = append(requests, *req)
	}
	return requests, rows.Err()
}

// ApproveRequest approves a pending request and applies its lifecycle
// operation to the pool, atomically with the request status change. A
// request that is no longer Pending fails the precondition check, so a
// doubled-up approval can never re-apply the effect.
func ApproveRequest(ctx context.Context, db *sql.DB, id, adminID int64, notes string) (*model.Request, error) {
	for attempt := 0; ; attempt++ {
		err := approveOnce(ctx, db, id, adminID, notes)
		if errors.Is(err, ErrVersionConflict) && attempt < maxRetries {
			continue
		}
		if err != nil {
			return nil, err
		}
		return GetRequest(ctx, db, id)
	}
}

func approveOnce(ctx context.Context, db *sql.DB, id, adminID int64, notes string) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	row := tx.QueryRowContext(ctx, `SELECT `+requestColumns+requestJoins+` WHERE r.id = ?`, id)
	req, err := scanRequest(row)
	if err == sql.ErrNoRows {
		return ErrRequestNotFound
	}
	if err != nil {
		return fmt.Errorf("getting request: %w", err)
	}
	if req.Status != model.RequestPending {
		return fmt.Errorf("%w: %s is %s", ErrRequestNotPending, req.RequestID, req.Status)
	}

	p, err := getPool(ctx, tx, req.PoolID)
	if err != nil {
		return err
	}
	if p == nil {
		return ErrPoolNotFound
	}

	assignedID := req.AssignedUniqueID
	switch req.Type {
	case model.RequestIssue:
		item, err := pool.Issue(p, pool.Custodian{
			UserID:      req.RequestedBy,
			OfficerID:   req.OfficerID,
			OfficerName: req.OfficerName,
			Designation: req.Designation,
		}, req.Reason, adminID)
		if err != nil {
			return err
		}
		assignedID = item.UniqueID
	case model.RequestReturn:
		if _, err := pool.Return(p, req.AssignedUniqueID, req.Condition, req.Reason, adminID); err != nil {
			return err
		}
	case model.RequestMaintenance:
		if _, err := pool.ReportProblem(p, req.AssignedUniqueID, req.Reason, req.OfficerName); err != nil {
			return err
		}
	case model.RequestLost:
		firDate := time.Now()
		if req.FIRDate != nil {
			firDate = *req.FIRDate
		}
		if _, err := pool.MarkLost(p, req.AssignedUniqueID, req.FIRNumber, firDate, req.Reason); err != nil {
			return err
		}
	default:
		return fmt.Errorf("invalid request type %q", req.Type)
	}

	if err := savePool(ctx, tx, p); err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE requests
		 SET status = ?, assigned_unique_id = ?, admin_notes = ?,
		     processed_by = ?, processed_date = CURRENT_TIMESTAMP
		 WHERE id = ? AND status = ?`,
		model.RequestApproved, nullString(assignedID), nullString(notes),
		adminID, id, model.RequestPending,
	)
	if err != nil {
		return fmt.Errorf("updating request: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing approval: %w", err)
	}
	return nil
}

// RejectRequest rejects a pending request. The pool is never touched.
func RejectRequest(ctx context.Context, db *sql.DB, id, adminID int64, reason string) (*model.Request, error) {
	return closeRequest(ctx, db, id, model.RequestRejected, &adminID, reason, 0)
}

// CancelRequest cancels a pending request on behalf of the officer who
// submitted it.
func CancelRequest(ctx context.Context, db *sql.DB, id, requestedBy int64) (*model.Request, error) {
	return closeRequest(ctx, db, id, model.RequestCancelled, nil, "", requestedBy)
}

func closeRequest(ctx context.Context, db *sql.DB, id int64, status string, adminID *int64, notes string, requestedBy int64) (*model.Request, error) {
	query := `UPDATE requests
	          SET status = ?, admin_notes = ?, processed_by = ?, processed_date = CURRENT_TIMESTAMP
	          WHERE id = ? AND status = ?`
	args := []any{status, nullString(notes), adminID, id, model.RequestPending}
	if requestedBy > 0 {
		query += ` AND requested_by = ?`
		args = append(args, requestedBy)
	}

	result, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("closing request: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("checking request close: %w", err)
	}
	if affected == 0 {
		req, err := GetRequest(ctx, db, id)
		if err != nil {
			return nil, err
		}
		if req == nil {
			return nil, ErrRequestNotFound
		}
		return nil, fmt.Errorf("%w: %s is %s", ErrRequestNotPending, req.RequestID, req.Status)
	}
	return GetRequest(ctx, db, id)
}
