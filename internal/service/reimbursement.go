package service

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/expenso-dev/expenso/internal/domain"
	"github.com/expenso-dev/expenso/internal/errors"
	"github.com/expenso-dev/expenso/internal/logger"
)

type ReimbursementService interface {
	Create(submitterID domain.AccountID, input domain.ReimbursementInput) (domain.ReimbursementRequest, error)
	ByID(requestID domain.RequestID, callerID domain.AccountID) (domain.ReimbursementRequest, error)
	BySubmitter(callerID domain.AccountID) ([]domain.ReimbursementRequest, error)
	All() ([]domain.ReimbursementRequest, error)
	UpdateStatus(requestID domain.RequestID, adminID domain.AccountID, status domain.RequestStatus, feedback *string) (domain.ReimbursementRequest, error)
}

type ReimbursementStorage interface {
	CreateRequest(req domain.ReimbursementRequest) error
	RequestByID(id domain.RequestID) (domain.ReimbursementRequest, error)
	RequestsBySubmitter(submitterID domain.AccountID) ([]domain.ReimbursementRequest, error)
	AllRequests() ([]domain.ReimbursementRequest, error)
	UpdateRequestStatus(id domain.RequestID, adminID domain.AccountID, status domain.RequestStatus, feedback *string, decidedAt time.Time) error

	AccountByID(id domain.AccountID) (domain.Account, error)
	AdminEmails() ([]string, error)
}

type Reimbursement struct {
	storage  ReimbursementStorage
	notifier Notifier
}

func NewReimbursement(storage ReimbursementStorage, notifier Notifier) *Reimbursement {
	return &Reimbursement{storage: storage, notifier: notifier}
}

// Create persists a new pending request and notifies admins. Notification is
// best-effort: the request is already durable when mail goes out.
func (r *Reimbursement) Create(submitterID domain.AccountID, input domain.ReimbursementInput) (domain.ReimbursementRequest, error) {
	if !input.Category.Valid() {
		return domain.ReimbursementRequest{}, &errors.ErrorWithStatusCode{Message: "Unknown expense category", StatusCode: http.StatusBadRequest}
	}
	if input.Amount <= 0 {
		return domain.ReimbursementRequest{}, &errors.ErrorWithStatusCode{Message: "Amount must be positive", StatusCode: http.StatusBadRequest}
	}

	submitter, err := r.storage.AccountByID(submitterID)
	if err != nil {
		return domain.ReimbursementRequest{}, err
	}

	req := domain.ReimbursementRequest{
		Id:          uuid.New(),
		Amount:      input.Amount,
		Category:    input.Category,
		Description: input.Description,
		ReceiptURL:  input.ReceiptURL,
		Status:      domain.StatusPending,
		SubmittedBy: submitter.Summary(),
		SubmittedAt: time.Now().UTC(),
	}
	if err := r.storage.CreateRequest(req); err != nil {
		return domain.ReimbursementRequest{}, err
	}

	r.notifyAdmins(submitter, req)

	return req, nil
}

// ByID returns a request to its submitter or to an admin; everyone else is
// denied.
func (r *Reimbursement) ByID(requestID domain.RequestID, callerID domain.AccountID) (domain.ReimbursementRequest, error) {
	caller, err := r.storage.AccountByID(callerID)
	if err != nil {
		return domain.ReimbursementRequest{}, err
	}

	req, err := r.storage.RequestByID(requestID)
	if err != nil {
		return domain.ReimbursementRequest{}, err
	}

	if caller.Role != domain.RoleAdmin && req.SubmittedBy.Id != callerID {
		return domain.ReimbursementRequest{}, errors.Unauthorized()
	}
	return req, nil
}

func (r *Reimbursement) BySubmitter(callerID domain.AccountID) ([]domain.ReimbursementRequest, error) {
	return r.storage.RequestsBySubmitter(callerID)
}

func (r *Reimbursement) All() ([]domain.ReimbursementRequest, error) {
	return r.storage.AllRequests()
}

// UpdateStatus records an admin decision and tells the submitter about it.
// Role enforcement happens at the route; the admin id is only stamped here.
func (r *Reimbursement) UpdateStatus(requestID domain.RequestID, adminID domain.AccountID, status domain.RequestStatus, feedback *string) (domain.ReimbursementRequest, error) {
	if status != domain.StatusApproved && status != domain.StatusRejected {
		return domain.ReimbursementRequest{}, &errors.ErrorWithStatusCode{Message: "Status must be approved or rejected", StatusCode: http.StatusBadRequest}
	}

	if err := r.storage.UpdateRequestStatus(requestID, adminID, status, feedback, time.Now().UTC()); err != nil {
		return domain.ReimbursementRequest{}, err
	}

	req, err := r.storage.RequestByID(requestID)
	if err != nil {
		return domain.ReimbursementRequest{}, err
	}

	body := fmt.Sprintf("Your reimbursement request for %.2f has been %s", req.Amount, strings.ToLower(string(status)))
	if feedback != nil && *feedback != "" {
		body += "\n\nFeedback: " + *feedback
	}
	if err := r.notifier.Send(req.SubmittedBy.Email, fmt.Sprintf("Reimbursement Request %s", status), body); err != nil {
		logger.Log.Error("failed to notify submitter about decision", "request_id", req.Id, "error", err)
	}

	return req, nil
}

func (r *Reimbursement) notifyAdmins(submitter domain.Account, req domain.ReimbursementRequest) {
	admins, err := r.storage.AdminEmails()
	if err != nil {
		logger.Log.Error("failed to list admin emails", "error", err)
		return
	}
	subject := "New Reimbursement Request"
	body := fmt.Sprintf("A new reimbursement request has been submitted by %s %s for %.2f",
		submitter.FirstName, submitter.LastName, req.Amount)
	for _, email := range admins {
		if err := r.notifier.Send(email, subject, body); err != nil {
			logger.Log.Error("failed to notify admin", "email", email, "error", err)
		}
	}
}
