package service

import (
	"slices"

	"github.com/expenso-dev/expenso/internal/domain"
	"github.com/expenso-dev/expenso/internal/errors"
	"github.com/expenso-dev/expenso/internal/logger"
)

// RoleReader is the slice of the credential store the guard needs.
type RoleReader interface {
	AccountByID(id domain.AccountID) (domain.Account, error)
}

// Guard makes the per-request authorization decision. Each protected route
// declares its required role set statically; the guard re-reads the caller's
// current role from storage at decision time rather than trusting a role
// claim minted into a long-lived token, so demotions and promotions take
// effect immediately.
type Guard struct {
	storage RoleReader
}

func NewGuard(storage RoleReader) *Guard {
	return &Guard{storage: storage}
}

// Authorize grants iff the caller's stored role is in required. An empty
// required set always permits. A caller that no longer exists is denied:
// the guard fails closed.
func (g *Guard) Authorize(callerID domain.AccountID, required []domain.Role) error {
	if len(required) == 0 {
		return nil
	}

	account, err := g.storage.AccountByID(callerID)
	if err != nil {
		if errors.IsNotFound(err) {
			return errors.Unauthorized()
		}
		logger.Log.Error("guard could not read caller role", "account_id", callerID, "error", err)
		return err
	}

	if !slices.Contains(required, account.Role) {
		return errors.Unauthorized()
	}
	return nil
}
