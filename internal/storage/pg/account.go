package pg

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/expenso-dev/expenso/internal/domain"
	internal_errors "github.com/expenso-dev/expenso/internal/errors"
)

// uniqueViolation is the pq error code for a violated unique constraint.
const uniqueViolation = "23505"

const accountColumns = `id, email, password_hash, first_name, last_name, role, is_email_verified,
	verification_token, verification_token_expiry, reset_password_token, reset_password_expiry, created_at`

// =========================================================================
// Public Methods (satisfy the service.AccountStorage interface)
// =========================================================================

// CreateAccount inserts a new account record. A duplicate email surfaces as
// the DuplicateAccount failure, everything else wraps the driver error.
func (s *Storage) CreateAccount(acc domain.Account) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	return s.withTx(ctx, func(tx *sql.Tx) error {
		return s.createAccount(tx, acc)
	})
}

// AccountByEmail is a read-only lookup against the pool.
func (s *Storage) AccountByEmail(email string) (domain.Account, error) {
	return s.accountBy(s.db, "email = $1", email)
}

func (s *Storage) AccountByID(id domain.AccountID) (domain.Account, error) {
	return s.accountBy(s.db, "id = $1", id)
}

// AccountByVerificationToken resolves a verification token, treating expired
// tokens exactly like absent ones.
func (s *Storage) AccountByVerificationToken(token string, now time.Time) (domain.Account, error) {
	return s.accountBy(s.db, "verification_token = $1 AND verification_token_expiry > $2", token, now)
}

// AccountByResetToken resolves a password-reset token with the same
// expiry-aware rule as verification tokens.
func (s *Storage) AccountByResetToken(token string, now time.Time) (domain.Account, error) {
	return s.accountBy(s.db, "reset_password_token = $1 AND reset_password_expiry > $2", token, now)
}

// MarkEmailVerified flips the verified flag and clears the verification token
// pair in one atomic update, making the token single-use.
func (s *Storage) MarkEmailVerified(id domain.AccountID) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	return s.withTx(ctx, func(tx *sql.Tx) error {
		return s.markEmailVerified(tx, id)
	})
}

// SetResetToken stores a fresh reset token pair, overwriting any outstanding
// one. Only the latest token is ever valid.
func (s *Storage) SetResetToken(id domain.AccountID, token string, expires time.Time) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	return s.withTx(ctx, func(tx *sql.Tx) error {
		return s.setResetToken(tx, id, token, expires)
	})
}

// UpdatePassword replaces the password hash and clears the reset token pair
// in the same atomic update.
func (s *Storage) UpdatePassword(id domain.AccountID, newHash string) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	return s.withTx(ctx, func(tx *sql.Tx) error {
		return s.updatePassword(tx, id, newHash)
	})
}

// AdminEmails lists delivery addresses for every admin account.
func (s *Storage) AdminEmails() ([]string, error) {
	rows, err := s.db.Query("SELECT email FROM accounts WHERE role = $1", domain.RoleAdmin)
	if err != nil {
		return nil, fmt.Errorf("failed to query admin emails: %w", err)
	}
	defer rows.Close()

	var emails []string
	for rows.Next() {
		var email string
		if err := rows.Scan(&email); err != nil {
			return nil, fmt.Errorf("failed to scan admin email: %w", err)
		}
		emails = append(emails, email)
	}
	return emails, rows.Err()
}

// =========================================================================
// Internal Methods (Core Database Logic)
// =========================================================================

func (s *Storage) createAccount(q Querier, acc domain.Account) error {
	_, err := q.Exec(`
        INSERT INTO accounts(id, email, password_hash, first_name, last_name, role, is_email_verified,
            verification_token, verification_token_expiry)
        VALUES($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		acc.Id, acc.Email, acc.PasswordHash, acc.FirstName, acc.LastName, acc.Role, acc.IsEmailVerified,
		acc.VerificationToken, acc.VerificationTokenExpiry,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return internal_errors.DuplicateAccount()
		}
		return fmt.Errorf("failed to insert account: %w", err)
	}
	return nil
}

func (s *Storage) accountBy(q Querier, where string, args ...interface{}) (domain.Account, error) {
	var acc domain.Account
	query := fmt.Sprintf("SELECT %s FROM accounts WHERE %s", accountColumns, where)
	err := q.QueryRow(query, args...).Scan(
		&acc.Id, &acc.Email, &acc.PasswordHash, &acc.FirstName, &acc.LastName, &acc.Role, &acc.IsEmailVerified,
		&acc.VerificationToken, &acc.VerificationTokenExpiry, &acc.ResetPasswordToken, &acc.ResetPasswordExpiry,
		&acc.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Account{}, internal_errors.AccountNotFound()
		}
		return domain.Account{}, fmt.Errorf("failed to query account: %w", err)
	}
	return acc, nil
}

func (s *Storage) markEmailVerified(q Querier, id domain.AccountID) error {
	result, err := q.Exec(`
        UPDATE accounts
        SET is_email_verified = TRUE, verification_token = NULL, verification_token_expiry = NULL
        WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to mark email verified: %w", err)
	}
	return oneRowAffected(result, internal_errors.AccountNotFound())
}

func (s *Storage) setResetToken(q Querier, id domain.AccountID, token string, expires time.Time) error {
	result, err := q.Exec(`
        UPDATE accounts
        SET reset_password_token = $1, reset_password_expiry = $2
        WHERE id = $3`, token, expires, id)
	if err != nil {
		return fmt.Errorf("failed to set reset token: %w", err)
	}
	return oneRowAffected(result, internal_errors.AccountNotFound())
}

func (s *Storage) updatePassword(q Querier, id domain.AccountID, newHash string) error {
	result, err := q.Exec(`
        UPDATE accounts
        SET password_hash = $1, reset_password_token = NULL, reset_password_expiry = NULL
        WHERE id = $2`, newHash, id)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return oneRowAffected(result, internal_errors.AccountNotFound())
}

func oneRowAffected(result sql.Result, notFound error) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows: %w", err)
	}
	if rowsAffected == 0 {
		return notFound
	}
	return nil
}
