package handler

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/expenso-dev/expenso/internal/domain"
	mw "github.com/expenso-dev/expenso/internal/middleware"
	"github.com/expenso-dev/expenso/internal/service"
)

func createRequest(t *testing.T, method, url string, body []byte, cookies ...*http.Cookie) *http.Request {
	t.Helper()
	req := httptest.NewRequest(method, url, bytes.NewBuffer(body))
	for _, c := range cookies {
		req.AddCookie(c)
	}
	return req
}

// withClaims injects session claims the way NeedAuth does, so handlers can be
// tested without running the middleware chain.
func withClaims(req *http.Request, claims *domain.SessionClaims) *http.Request {
	ctx := context.WithValue(req.Context(), mw.SessionClaimsKey, claims)
	return req.WithContext(ctx)
}

// --- Mocks ---

type MockAuthService struct {
	RegisterFunc            func(email, pwd, firstName, lastName string) (service.RegisterResult, error)
	LoginFunc               func(email, pwd string) (service.LoginResult, error)
	VerifyEmailFunc         func(token string) error
	ForgotPasswordFunc      func(email string) error
	ResetPasswordFunc       func(token, newPassword string) error
	ValidateCredentialsFunc func(email, pwd string) (*domain.Account, error)
}

func (m *MockAuthService) Register(email, pwd, firstName, lastName string) (service.RegisterResult, error) {
	if m.RegisterFunc != nil {
		return m.RegisterFunc(email, pwd, firstName, lastName)
	}
	return service.RegisterResult{Message: "ok"}, nil
}

func (m *MockAuthService) Login(email, pwd string) (service.LoginResult, error) {
	if m.LoginFunc != nil {
		return m.LoginFunc(email, pwd)
	}
	return service.LoginResult{Token: "mock_token"}, nil
}

func (m *MockAuthService) VerifyEmail(token string) error {
	if m.VerifyEmailFunc != nil {
		return m.VerifyEmailFunc(token)
	}
	return nil
}

func (m *MockAuthService) ForgotPassword(email string) error {
	if m.ForgotPasswordFunc != nil {
		return m.ForgotPasswordFunc(email)
	}
	return nil
}

func (m *MockAuthService) ResetPassword(token, newPassword string) error {
	if m.ResetPasswordFunc != nil {
		return m.ResetPasswordFunc(token, newPassword)
	}
	return nil
}

func (m *MockAuthService) ValidateCredentials(email, pwd string) (*domain.Account, error) {
	if m.ValidateCredentialsFunc != nil {
		return m.ValidateCredentialsFunc(email, pwd)
	}
	return nil, nil
}

type MockReimbursementService struct {
	CreateFunc       func(submitterID domain.AccountID, input domain.ReimbursementInput) (domain.ReimbursementRequest, error)
	ByIDFunc         func(requestID domain.RequestID, callerID domain.AccountID) (domain.ReimbursementRequest, error)
	BySubmitterFunc  func(callerID domain.AccountID) ([]domain.ReimbursementRequest, error)
	AllFunc          func() ([]domain.ReimbursementRequest, error)
	UpdateStatusFunc func(requestID domain.RequestID, adminID domain.AccountID, status domain.RequestStatus, feedback *string) (domain.ReimbursementRequest, error)
}

func (m *MockReimbursementService) Create(submitterID domain.AccountID, input domain.ReimbursementInput) (domain.ReimbursementRequest, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(submitterID, input)
	}
	return domain.ReimbursementRequest{}, nil
}

func (m *MockReimbursementService) ByID(requestID domain.RequestID, callerID domain.AccountID) (domain.ReimbursementRequest, error) {
	if m.ByIDFunc != nil {
		return m.ByIDFunc(requestID, callerID)
	}
	return domain.ReimbursementRequest{}, nil
}

func (m *MockReimbursementService) BySubmitter(callerID domain.AccountID) ([]domain.ReimbursementRequest, error) {
	if m.BySubmitterFunc != nil {
		return m.BySubmitterFunc(callerID)
	}
	return nil, nil
}

func (m *MockReimbursementService) All() ([]domain.ReimbursementRequest, error) {
	if m.AllFunc != nil {
		return m.AllFunc()
	}
	return nil, nil
}

func (m *MockReimbursementService) UpdateStatus(requestID domain.RequestID, adminID domain.AccountID, status domain.RequestStatus, feedback *string) (domain.ReimbursementRequest, error) {
	if m.UpdateStatusFunc != nil {
		return m.UpdateStatusFunc(requestID, adminID, status, feedback)
	}
	return domain.ReimbursementRequest{}, nil
}

func TestWriteJSON(t *testing.T) {
	rr := httptest.NewRecorder()

	writeJSON(rr, http.StatusCreated, map[string]string{"message": "hello"})

	assert.Equal(t, http.StatusCreated, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	assert.Equal(t, `{"message":"hello"}`+"\n", rr.Body.String())
}

func TestHealth(t *testing.T) {
	h := &Handler{}
	rr := httptest.NewRecorder()

	h.Health(rr, createRequest(t, http.MethodGet, "/v1/healthz", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "ok", rr.Body.String())
}
