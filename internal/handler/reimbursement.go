package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/expenso-dev/expenso/internal/domain"
	mw "github.com/expenso-dev/expenso/internal/middleware"
	"github.com/expenso-dev/expenso/internal/utils"
)

type createReimbursementRequest struct {
	Amount      float64 `validate:"required,gt=0" json:"amount"`
	Category    string  `validate:"required" json:"category"`
	Description string  `validate:"required" json:"description"`
	ReceiptURL  string  `validate:"required,url" json:"receiptUrl"`
}

type reimbursementResponse struct {
	Id          domain.RequestID `json:"id"`
	Amount      float64          `json:"amount"`
	Category    string           `json:"category"`
	Description string           `json:"description"`
	ReceiptURL  string           `json:"receiptUrl"`
	Status      string           `json:"status"`
	Feedback    *string          `json:"feedback,omitempty"`
	SubmittedBy domain.Summary   `json:"submittedBy"`
	SubmittedAt time.Time        `json:"submittedAt"`
	ApprovedBy  *domain.Summary  `json:"approvedBy,omitempty"`
	ApprovedAt  *time.Time       `json:"approvedAt,omitempty"`
}

func toReimbursementResponse(req domain.ReimbursementRequest) reimbursementResponse {
	return reimbursementResponse{
		Id:          req.Id,
		Amount:      req.Amount,
		Category:    string(req.Category),
		Description: req.Description,
		ReceiptURL:  req.ReceiptURL,
		Status:      string(req.Status),
		Feedback:    req.Feedback,
		SubmittedBy: req.SubmittedBy,
		SubmittedAt: req.SubmittedAt,
		ApprovedBy:  req.ApprovedBy,
		ApprovedAt:  req.ApprovedAt,
	}
}

func toReimbursementList(reqs []domain.ReimbursementRequest) []reimbursementResponse {
	out := make([]reimbursementResponse, len(reqs))
	for i, req := range reqs {
		out[i] = toReimbursementResponse(req)
	}
	return out
}

func (h *Handler) CreateReimbursement(w http.ResponseWriter, r *http.Request) {
	claims := mw.GetClaimsFromContext(r)
	if claims == nil {
		http.Error(w, "Please sign-in", http.StatusUnauthorized)
		return
	}

	var body createReimbursementRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	req, err := h.reimbursement.Create(claims.AccountId, domain.ReimbursementInput{
		Amount:      body.Amount,
		Category:    domain.ExpenseCategory(body.Category),
		Description: body.Description,
		ReceiptURL:  body.ReceiptURL,
	})
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toReimbursementResponse(req))
}

func (h *Handler) MyReimbursements(w http.ResponseWriter, r *http.Request) {
	claims := mw.GetClaimsFromContext(r)
	if claims == nil {
		http.Error(w, "Please sign-in", http.StatusUnauthorized)
		return
	}

	reqs, err := h.reimbursement.BySubmitter(claims.AccountId)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toReimbursementList(reqs))
}

func (h *Handler) AllReimbursements(w http.ResponseWriter, r *http.Request) {
	reqs, err := h.reimbursement.All()
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toReimbursementList(reqs))
}

func (h *Handler) GetReimbursement(w http.ResponseWriter, r *http.Request) {
	claims := mw.GetClaimsFromContext(r)
	if claims == nil {
		http.Error(w, "Please sign-in", http.StatusUnauthorized)
		return
	}

	requestID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid request id", http.StatusBadRequest)
		return
	}

	req, err := h.reimbursement.ByID(requestID, claims.AccountId)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toReimbursementResponse(req))
}

type updateStatusRequest struct {
	Status   string  `validate:"required,oneof=approved rejected" json:"status"`
	Feedback *string `json:"feedback"`
}

func (h *Handler) UpdateReimbursementStatus(w http.ResponseWriter, r *http.Request) {
	claims := mw.GetClaimsFromContext(r)
	if claims == nil {
		http.Error(w, "Please sign-in", http.StatusUnauthorized)
		return
	}

	requestID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid request id", http.StatusBadRequest)
		return
	}

	var body updateStatusRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	req, err := h.reimbursement.UpdateStatus(requestID, claims.AccountId, domain.RequestStatus(body.Status), body.Feedback)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toReimbursementResponse(req))
}
