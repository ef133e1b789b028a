package service

import (
	"time"

	"github.com/google/uuid"

	"github.com/expenso-dev/expenso/internal/config"
	"github.com/expenso-dev/expenso/internal/domain"
	"github.com/expenso-dev/expenso/internal/errors"
	"github.com/expenso-dev/expenso/internal/logger"
	"github.com/expenso-dev/expenso/internal/password"
	"github.com/expenso-dev/expenso/internal/utils"
)

const (
	verificationTokenTTL = 24 * time.Hour
	resetTokenTTL        = 1 * time.Hour
)

type AuthService interface {
	Register(email, pwd, firstName, lastName string) (RegisterResult, error)
	Login(email, pwd string) (LoginResult, error)
	VerifyEmail(token string) error
	ForgotPassword(email string) error
	ResetPassword(token, newPassword string) error
	ValidateCredentials(email, pwd string) (*domain.Account, error)
}

// AccountStorage is the credential store contract. All token lookups are
// expiry-aware: an expired token behaves exactly like an absent one.
type AccountStorage interface {
	CreateAccount(acc domain.Account) error
	AccountByEmail(email string) (domain.Account, error)
	AccountByID(id domain.AccountID) (domain.Account, error)
	AccountByVerificationToken(token string, now time.Time) (domain.Account, error)
	AccountByResetToken(token string, now time.Time) (domain.Account, error)
	MarkEmailVerified(id domain.AccountID) error
	SetResetToken(id domain.AccountID, token string, expires time.Time) error
	UpdatePassword(id domain.AccountID, newHash string) error
}

type Notifier interface {
	SendVerificationEmail(email, token string) error
	SendPasswordResetEmail(email, token string) error
	Send(recipientEmail, subject, body string) error
}

type Signer interface {
	NewToken(account domain.Account) (string, error)
}

type RegisterResult struct {
	Message string
	// VerificationToken is only populated in development mode, as a
	// convenience for local testing without a mailbox.
	VerificationToken string
}

type LoginResult struct {
	Token   string
	Account domain.Summary
}

type Auth struct {
	storage  AccountStorage
	notifier Notifier
	signer   Signer
	cfg      *config.Config
}

func NewAuth(storage AccountStorage, notifier Notifier, signer Signer, cfg *config.Config) *Auth {
	return &Auth{
		storage:  storage,
		notifier: notifier,
		signer:   signer,
		cfg:      cfg,
	}
}

// Register creates an unverified account and mails a verification link. A
// delivery failure is logged and swallowed: the account exists either way and
// can still be verified through support-assisted recovery.
func (a *Auth) Register(email, pwd, firstName, lastName string) (RegisterResult, error) {
	_, err := a.storage.AccountByEmail(email)
	if err == nil {
		return RegisterResult{}, errors.DuplicateAccount()
	}
	if !errors.IsNotFound(err) {
		return RegisterResult{}, err
	}

	passHash, err := password.Hash(pwd)
	if err != nil {
		logger.Log.Error("failed to hash password", "error", err)
		return RegisterResult{}, err
	}

	token, err := utils.GenerateToken()
	if err != nil {
		logger.Log.Error("failed to generate verification token", "error", err)
		return RegisterResult{}, err
	}
	expires := time.Now().UTC().Add(verificationTokenTTL)

	account := domain.Account{
		Id:                      uuid.New(),
		Email:                   email,
		PasswordHash:            passHash,
		FirstName:               firstName,
		LastName:                lastName,
		Role:                    domain.RoleMember,
		IsEmailVerified:         false,
		VerificationToken:       &token,
		VerificationTokenExpiry: &expires,
	}
	if err := a.storage.CreateAccount(account); err != nil {
		return RegisterResult{}, err
	}

	if err := a.notifier.SendVerificationEmail(email, token); err != nil {
		logger.Log.Error("failed to send verification email", "email", email, "error", err)
	}

	result := RegisterResult{Message: "Registration successful! Please check your email to verify your account."}
	if a.cfg.Development() {
		result.VerificationToken = token
	}
	return result, nil
}

// Login checks credentials and issues a session token. Unknown email and
// wrong password produce the identical failure so callers cannot tell them
// apart, and both paths burn a bcrypt comparison to keep timing comparable.
func (a *Auth) Login(email, pwd string) (LoginResult, error) {
	account, err := a.storage.AccountByEmail(email)
	if err != nil {
		if errors.IsNotFound(err) {
			password.VerifyDummy(pwd)
			return LoginResult{}, errors.InvalidCredentials()
		}
		return LoginResult{}, err
	}

	if !password.Verify(pwd, account.PasswordHash) {
		return LoginResult{}, errors.InvalidCredentials()
	}

	token, err := a.signer.NewToken(account)
	if err != nil {
		logger.Log.Error("failed to create session token", "account_id", account.Id, "error", err)
		return LoginResult{}, err
	}

	return LoginResult{Token: token, Account: account.Summary()}, nil
}

// VerifyEmail consumes a verification token. The storage lookup only matches
// non-expired tokens, and the update clears the pair, so a token is accepted
// exactly once.
func (a *Auth) VerifyEmail(token string) error {
	account, err := a.storage.AccountByVerificationToken(token, time.Now().UTC())
	if err != nil {
		if errors.IsNotFound(err) {
			return errors.InvalidOrExpiredToken()
		}
		return err
	}

	return a.storage.MarkEmailVerified(account.Id)
}

// ForgotPassword issues a fresh reset token, overwriting any outstanding one.
// Unlike registration, a delivery failure here propagates: the user has to
// know the reset link never left the building.
func (a *Auth) ForgotPassword(email string) error {
	account, err := a.storage.AccountByEmail(email)
	if err != nil {
		return err
	}

	token, err := utils.GenerateToken()
	if err != nil {
		logger.Log.Error("failed to generate reset token", "error", err)
		return err
	}
	expires := time.Now().UTC().Add(resetTokenTTL)

	if err := a.storage.SetResetToken(account.Id, token, expires); err != nil {
		return err
	}

	if err := a.notifier.SendPasswordResetEmail(email, token); err != nil {
		logger.Log.Error("failed to send password reset email", "email", email, "error", err)
		return errors.NotificationDeliveryFailed()
	}
	return nil
}

// ResetPassword consumes a reset token and replaces the password hash. The
// update clears the token pair atomically with the hash replacement.
func (a *Auth) ResetPassword(token, newPassword string) error {
	account, err := a.storage.AccountByResetToken(token, time.Now().UTC())
	if err != nil {
		if errors.IsNotFound(err) {
			return errors.InvalidOrExpiredToken()
		}
		return err
	}

	newHash, err := password.Hash(newPassword)
	if err != nil {
		logger.Log.Error("failed to hash new password", "error", err)
		return err
	}

	return a.storage.UpdatePassword(account.Id, newHash)
}

// ValidateCredentials is the read-only variant of Login for integrations
// that need the account rather than a session. Returns (nil, nil) when the
// credentials don't match; infrastructure failures come back as errors.
func (a *Auth) ValidateCredentials(email, pwd string) (*domain.Account, error) {
	account, err := a.storage.AccountByEmail(email)
	if err != nil {
		if errors.IsNotFound(err) {
			password.VerifyDummy(pwd)
			return nil, nil
		}
		return nil, err
	}

	if !password.Verify(pwd, account.PasswordHash) {
		return nil, nil
	}

	stripped := account.Stripped()
	return &stripped, nil
}
