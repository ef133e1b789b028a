package domain

import (
	"time"

	"github.com/google/uuid"
)

type RequestID = uuid.UUID

type ExpenseCategory string

const (
	CategoryTravel    ExpenseCategory = "travel"
	CategoryMeals     ExpenseCategory = "meals"
	CategorySupplies  ExpenseCategory = "supplies"
	CategoryEquipment ExpenseCategory = "equipment"
	CategoryOther     ExpenseCategory = "other"
)

func (c ExpenseCategory) Valid() bool {
	switch c {
	case CategoryTravel, CategoryMeals, CategorySupplies, CategoryEquipment, CategoryOther:
		return true
	}
	return false
}

type RequestStatus string

const (
	StatusPending  RequestStatus = "pending"
	StatusApproved RequestStatus = "approved"
	StatusRejected RequestStatus = "rejected"
)

func (s RequestStatus) Valid() bool {
	return s == StatusPending || s == StatusApproved || s == StatusRejected
}

type ReimbursementRequest struct {
	Id          RequestID
	Amount      float64
	Category    ExpenseCategory
	Description string
	ReceiptURL  string

	Status   RequestStatus
	Feedback *string

	SubmittedBy Summary
	SubmittedAt time.Time

	ApprovedBy *Summary
	ApprovedAt *time.Time
}

// ReimbursementInput is the submitter-provided part of a request.
type ReimbursementInput struct {
	Amount      float64
	Category    ExpenseCategory
	Description string
	ReceiptURL  string
}
