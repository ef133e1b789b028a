package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/expenso-dev/expenso/internal/domain"
	internal_errors "github.com/expenso-dev/expenso/internal/errors"
)

func reimbursementRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()
	r.Post("/v1/reimbursements", h.CreateReimbursement)
	r.Get("/v1/reimbursements/me", h.MyReimbursements)
	r.Get("/v1/reimbursements/all", h.AllReimbursements)
	r.Get("/v1/reimbursements/{id}", h.GetReimbursement)
	r.Put("/v1/reimbursements/{id}/status", h.UpdateReimbursementStatus)
	return r
}

func TestCreateReimbursementHandler(t *testing.T) {
	callerID := uuid.New()
	claims := &domain.SessionClaims{AccountId: callerID, Email: "alice@example.com"}
	requestBody := []byte(`{"amount": 42.5, "category": "travel", "description": "Taxi", "receiptUrl": "https://receipts.example.com/1.pdf"}`)

	t.Run("successful request", func(t *testing.T) {
		mockService := &MockReimbursementService{
			CreateFunc: func(submitterID domain.AccountID, input domain.ReimbursementInput) (domain.ReimbursementRequest, error) {
				assert.Equal(t, callerID, submitterID)
				assert.Equal(t, 42.5, input.Amount)
				assert.Equal(t, domain.CategoryTravel, input.Category)
				return domain.ReimbursementRequest{
					Id:          uuid.New(),
					Amount:      input.Amount,
					Category:    input.Category,
					Status:      domain.StatusPending,
					SubmittedBy: domain.Summary{Id: submitterID},
					SubmittedAt: time.Now().UTC(),
				}, nil
			},
		}
		h := New(&MockAuthService{}, mockService, testConfig())

		req := withClaims(createRequest(t, http.MethodPost, "/v1/reimbursements", requestBody), claims)
		rr := httptest.NewRecorder()
		reimbursementRouter(h).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusCreated, rr.Code)
		var resp reimbursementResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.Equal(t, "pending", resp.Status)
		assert.Equal(t, callerID, resp.SubmittedBy.Id)
	})

	t.Run("missing session", func(t *testing.T) {
		h := New(&MockAuthService{}, &MockReimbursementService{}, testConfig())

		req := createRequest(t, http.MethodPost, "/v1/reimbursements", requestBody)
		rr := httptest.NewRecorder()
		reimbursementRouter(h).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("non-positive amount rejected", func(t *testing.T) {
		h := New(&MockAuthService{}, &MockReimbursementService{}, testConfig())

		body := []byte(`{"amount": -5, "category": "travel", "description": "Taxi", "receiptUrl": "https://receipts.example.com/1.pdf"}`)
		req := withClaims(createRequest(t, http.MethodPost, "/v1/reimbursements", body), claims)
		rr := httptest.NewRecorder()
		reimbursementRouter(h).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("receipt must be a url", func(t *testing.T) {
		h := New(&MockAuthService{}, &MockReimbursementService{}, testConfig())

		body := []byte(`{"amount": 42.5, "category": "travel", "description": "Taxi", "receiptUrl": "not-a-url"}`)
		req := withClaims(createRequest(t, http.MethodPost, "/v1/reimbursements", body), claims)
		rr := httptest.NewRecorder()
		reimbursementRouter(h).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestMyReimbursementsHandler(t *testing.T) {
	callerID := uuid.New()
	claims := &domain.SessionClaims{AccountId: callerID}

	t.Run("returns caller requests", func(t *testing.T) {
		mockService := &MockReimbursementService{
			BySubmitterFunc: func(id domain.AccountID) ([]domain.ReimbursementRequest, error) {
				assert.Equal(t, callerID, id)
				return []domain.ReimbursementRequest{
					{Id: uuid.New(), Status: domain.StatusPending},
					{Id: uuid.New(), Status: domain.StatusApproved},
				}, nil
			},
		}
		h := New(&MockAuthService{}, mockService, testConfig())

		req := withClaims(createRequest(t, http.MethodGet, "/v1/reimbursements/me", nil), claims)
		rr := httptest.NewRecorder()
		reimbursementRouter(h).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		var resp []reimbursementResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.Len(t, resp, 2)
	})

	t.Run("empty list serializes as array", func(t *testing.T) {
		h := New(&MockAuthService{}, &MockReimbursementService{}, testConfig())

		req := withClaims(createRequest(t, http.MethodGet, "/v1/reimbursements/me", nil), claims)
		rr := httptest.NewRecorder()
		reimbursementRouter(h).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "[]\n", rr.Body.String())
	})
}

func TestGetReimbursementHandler(t *testing.T) {
	callerID := uuid.New()
	requestID := uuid.New()
	claims := &domain.SessionClaims{AccountId: callerID}

	t.Run("successful request", func(t *testing.T) {
		mockService := &MockReimbursementService{
			ByIDFunc: func(id domain.RequestID, caller domain.AccountID) (domain.ReimbursementRequest, error) {
				assert.Equal(t, requestID, id)
				assert.Equal(t, callerID, caller)
				return domain.ReimbursementRequest{Id: id, Status: domain.StatusPending}, nil
			},
		}
		h := New(&MockAuthService{}, mockService, testConfig())

		req := withClaims(createRequest(t, http.MethodGet, "/v1/reimbursements/"+requestID.String(), nil), claims)
		rr := httptest.NewRecorder()
		reimbursementRouter(h).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("malformed id", func(t *testing.T) {
		h := New(&MockAuthService{}, &MockReimbursementService{}, testConfig())

		req := withClaims(createRequest(t, http.MethodGet, "/v1/reimbursements/not-a-uuid", nil), claims)
		rr := httptest.NewRecorder()
		reimbursementRouter(h).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("foreign request denied", func(t *testing.T) {
		mockService := &MockReimbursementService{
			ByIDFunc: func(id domain.RequestID, caller domain.AccountID) (domain.ReimbursementRequest, error) {
				return domain.ReimbursementRequest{}, internal_errors.Unauthorized()
			},
		}
		h := New(&MockAuthService{}, mockService, testConfig())

		req := withClaims(createRequest(t, http.MethodGet, "/v1/reimbursements/"+requestID.String(), nil), claims)
		rr := httptest.NewRecorder()
		reimbursementRouter(h).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusForbidden, rr.Code)
	})
}

func TestUpdateReimbursementStatusHandler(t *testing.T) {
	adminID := uuid.New()
	requestID := uuid.New()
	claims := &domain.SessionClaims{AccountId: adminID}
	route := "/v1/reimbursements/" + requestID.String() + "/status"

	t.Run("successful request", func(t *testing.T) {
		mockService := &MockReimbursementService{
			UpdateStatusFunc: func(id domain.RequestID, admin domain.AccountID, status domain.RequestStatus, feedback *string) (domain.ReimbursementRequest, error) {
				assert.Equal(t, requestID, id)
				assert.Equal(t, adminID, admin)
				assert.Equal(t, domain.StatusApproved, status)
				require.NotNil(t, feedback)
				assert.Equal(t, "Looks good", *feedback)
				return domain.ReimbursementRequest{Id: id, Status: status, Feedback: feedback}, nil
			},
		}
		h := New(&MockAuthService{}, mockService, testConfig())

		body := []byte(`{"status": "approved", "feedback": "Looks good"}`)
		req := withClaims(createRequest(t, http.MethodPut, route, body), claims)
		rr := httptest.NewRecorder()
		reimbursementRouter(h).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		var resp reimbursementResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.Equal(t, "approved", resp.Status)
	})

	t.Run("status outside decision set", func(t *testing.T) {
		h := New(&MockAuthService{}, &MockReimbursementService{}, testConfig())

		body := []byte(`{"status": "pending"}`)
		req := withClaims(createRequest(t, http.MethodPut, route, body), claims)
		rr := httptest.NewRecorder()
		reimbursementRouter(h).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("unknown request id", func(t *testing.T) {
		mockService := &MockReimbursementService{
			UpdateStatusFunc: func(id domain.RequestID, admin domain.AccountID, status domain.RequestStatus, feedback *string) (domain.ReimbursementRequest, error) {
				return domain.ReimbursementRequest{}, &internal_errors.ErrorWithStatusCode{Message: "Request not found", StatusCode: 404}
			},
		}
		h := New(&MockAuthService{}, mockService, testConfig())

		body := []byte(`{"status": "rejected"}`)
		req := withClaims(createRequest(t, http.MethodPut, route, body), claims)
		rr := httptest.NewRecorder()
		reimbursementRouter(h).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}
