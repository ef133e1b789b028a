package pg

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/expenso-dev/expenso/internal/domain"
	internal_errors "github.com/expenso-dev/expenso/internal/errors"
)

// requestColumns joins the submitter and (optional) approver accounts so a
// single query yields a fully populated request.
const requestSelect = `
    SELECT r.id, r.amount, r.category, r.description, r.receipt_url, r.status, r.feedback,
           r.submitted_at, r.approved_at,
           s.id, s.email, s.first_name, s.last_name,
           a.id, a.email, a.first_name, a.last_name
    FROM reimbursement_requests r
    JOIN accounts s ON s.id = r.submitted_by
    LEFT JOIN accounts a ON a.id = r.approved_by`

func requestNotFound() error {
	return &internal_errors.ErrorWithStatusCode{Message: "Request not found", StatusCode: http.StatusNotFound}
}

// =========================================================================
// Public Methods (satisfy the service.ReimbursementStorage interface)
// =========================================================================

func (s *Storage) CreateRequest(req domain.ReimbursementRequest) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	return s.withTx(ctx, func(tx *sql.Tx) error {
		return s.createRequest(tx, req)
	})
}

func (s *Storage) RequestByID(id domain.RequestID) (domain.ReimbursementRequest, error) {
	return s.requestsWhere(s.db, "WHERE r.id = $1", id)
}

func (s *Storage) RequestsBySubmitter(submitterID domain.AccountID) ([]domain.ReimbursementRequest, error) {
	return s.requestList(s.db, "WHERE r.submitted_by = $1 ORDER BY r.submitted_at DESC", submitterID)
}

func (s *Storage) AllRequests() ([]domain.ReimbursementRequest, error) {
	return s.requestList(s.db, "ORDER BY r.submitted_at DESC")
}

// UpdateRequestStatus stamps the decision, the approver and the decision time
// in one atomic update.
func (s *Storage) UpdateRequestStatus(id domain.RequestID, adminID domain.AccountID, status domain.RequestStatus, feedback *string, decidedAt time.Time) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	return s.withTx(ctx, func(tx *sql.Tx) error {
		result, err := tx.Exec(`
            UPDATE reimbursement_requests
            SET status = $1, feedback = $2, approved_by = $3, approved_at = $4
            WHERE id = $5`, status, feedback, adminID, decidedAt, id)
		if err != nil {
			return fmt.Errorf("failed to update request status: %w", err)
		}
		return oneRowAffected(result, requestNotFound())
	})
}

// =========================================================================
// Internal Methods (Core Database Logic)
// =========================================================================

func (s *Storage) createRequest(q Querier, req domain.ReimbursementRequest) error {
	_, err := q.Exec(`
        INSERT INTO reimbursement_requests(id, amount, category, description, receipt_url, status, submitted_by, submitted_at)
        VALUES($1, $2, $3, $4, $5, $6, $7, $8)`,
		req.Id, req.Amount, req.Category, req.Description, req.ReceiptURL, req.Status, req.SubmittedBy.Id, req.SubmittedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert reimbursement request: %w", err)
	}
	return nil
}

func (s *Storage) requestsWhere(q Querier, clause string, args ...interface{}) (domain.ReimbursementRequest, error) {
	row := q.QueryRow(requestSelect+" "+clause, args...)
	req, err := scanRequest(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ReimbursementRequest{}, requestNotFound()
		}
		return domain.ReimbursementRequest{}, fmt.Errorf("failed to query request: %w", err)
	}
	return req, nil
}

func (s *Storage) requestList(q Querier, clause string, args ...interface{}) ([]domain.ReimbursementRequest, error) {
	rows, err := q.Query(requestSelect+" "+clause, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query requests: %w", err)
	}
	defer rows.Close()

	var reqs []domain.ReimbursementRequest
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan request: %w", err)
		}
		reqs = append(reqs, req)
	}
	return reqs, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRequest(row rowScanner) (domain.ReimbursementRequest, error) {
	var req domain.ReimbursementRequest
	var approverID uuid.NullUUID
	var approverEmail, approverFirst, approverLast sql.NullString
	err := row.Scan(
		&req.Id, &req.Amount, &req.Category, &req.Description, &req.ReceiptURL, &req.Status, &req.Feedback,
		&req.SubmittedAt, &req.ApprovedAt,
		&req.SubmittedBy.Id, &req.SubmittedBy.Email, &req.SubmittedBy.FirstName, &req.SubmittedBy.LastName,
		&approverID, &approverEmail, &approverFirst, &approverLast,
	)
	if err != nil {
		return domain.ReimbursementRequest{}, err
	}
	if approverID.Valid {
		req.ApprovedBy = &domain.Summary{
			Id:        approverID.UUID,
			Email:     approverEmail.String,
			FirstName: approverFirst.String,
			LastName:  approverLast.String,
		}
	}
	return req, nil
}
