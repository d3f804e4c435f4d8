package affiliations

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	gomock "go.uber.org/mock/gomock"

	"github.com/marketsaas/marketsaas/internal/domain"
	"github.com/marketsaas/marketsaas/internal/dto"
	"github.com/marketsaas/marketsaas/internal/service/affiliationservice"
	"github.com/marketsaas/marketsaas/pkg/auth"
)

func NewMock(t *testing.T) (*AffiliationHandler, *MockService) {
	ctrl := gomock.NewController(t)
	service := NewMockService(ctrl)
	handler := New(service)
	defer ctrl.Finish()
	return handler, service
}

func authedRequest(method, target, body string) *http.Request {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, bytes.NewBufferString(body))
	} else {
		req = httptest.NewRequest(method, target, http.NoBody)
	}
	return req.WithContext(context.WithValue(req.Context(), auth.UserIDKey, "user-1"))
}

func TestRequestAffiliationHandler(t *testing.T) {
	tests := []struct {
		name         string
		body         string
		prepareMock  func(service *MockService)
		expectedCode int
		checkBody    func(t *testing.T, body *bytes.Buffer)
	}{
		{
			name: "New request comes back pending",
			body: `{"product_id":"prod-1"}`,
			prepareMock: func(service *MockService) {
				service.EXPECT().Request(gomock.Any(), "user-1", "prod-1").Return(&affiliationservice.RequestResult{
					AffiliationID: "aff-1",
					Status:        domain.AffiliationPending,
				}, nil)
			},
			expectedCode: http.StatusOK,
			checkBody: func(t *testing.T, body *bytes.Buffer) {
				var resp dto.RequestAffiliationResponseDTO
				assert.NoError(t, json.NewDecoder(body).Decode(&resp))
				assert.Equal(t, "aff-1", resp.AffiliationID)
				assert.Equal(t, "pending", resp.Status)
				assert.False(t, resp.AlreadyRequested)
			},
		},
		{
			name: "Repeat request is reported, not rejected",
			body: `{"product_id":"prod-1"}`,
			prepareMock: func(service *MockService) {
				service.EXPECT().Request(gomock.Any(), "user-1", "prod-1").Return(&affiliationservice.RequestResult{
					AffiliationID:    "aff-1",
					Status:           domain.AffiliationPending,
					AlreadyRequested: true,
				}, nil)
			},
			expectedCode: http.StatusOK,
			checkBody: func(t *testing.T, body *bytes.Buffer) {
				var resp dto.RequestAffiliationResponseDTO
				assert.NoError(t, json.NewDecoder(body).Decode(&resp))
				assert.True(t, resp.AlreadyRequested)
			},
		},
		{
			name: "Unknown product",
			body: `{"product_id":"prod-9"}`,
			prepareMock: func(service *MockService) {
				service.EXPECT().Request(gomock.Any(), "user-1", "prod-9").
					Return(nil, affiliationservice.ErrProductNotFound)
			},
			expectedCode: http.StatusNotFound,
		},
		{
			name:         "Missing product id",
			body:         `{}`,
			prepareMock:  func(service *MockService) {},
			expectedCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, service := NewMock(t)
			tt.prepareMock(service)

			w := httptest.NewRecorder()
			handler.RequestAffiliation(w, authedRequest(http.MethodPost, "/api/affiliations", tt.body))

			assert.Equal(t, tt.expectedCode, w.Code)
			if tt.checkBody != nil {
				tt.checkBody(t, w.Body)
			}
		})
	}
}

func TestSetAffiliationStatusHandler(t *testing.T) {
	tests := []struct {
		name         string
		body         string
		serviceErr   error
		expectedCode int
	}{
		{name: "Approved", body: `{"status":"approved"}`, expectedCode: http.StatusOK},
		{name: "Invalid status", body: `{"status":"maybe"}`, serviceErr: affiliationservice.ErrInvalidStatus, expectedCode: http.StatusBadRequest},
		{name: "Already reviewed", body: `{"status":"rejected"}`, serviceErr: affiliationservice.ErrInvalidTransition, expectedCode: http.StatusBadRequest},
		{name: "Not the owner", body: `{"status":"approved"}`, serviceErr: affiliationservice.ErrNotProductOwner, expectedCode: http.StatusForbidden},
		{name: "Unknown affiliation", body: `{"status":"approved"}`, serviceErr: affiliationservice.ErrNotFound, expectedCode: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, service := NewMock(t)

			var req dto.SetAffiliationStatusDTO
			assert.NoError(t, json.Unmarshal([]byte(tt.body), &req))
			service.EXPECT().SetStatus(gomock.Any(), "user-1", "aff-1", domain.AffiliationStatus(req.Status)).
				Return(tt.serviceErr)

			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("id", "aff-1")
			r := authedRequest(http.MethodPatch, "/api/affiliations/aff-1/status", tt.body)
			r = r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))

			w := httptest.NewRecorder()
			handler.SetAffiliationStatus(w, r)

			assert.Equal(t, tt.expectedCode, w.Code)
		})
	}
}

func TestGetAffiliationsHandler(t *testing.T) {
	handler, service := NewMock(t)
	service.EXPECT().ListForUser(gomock.Any(), "user-1").Return([]domain.Affiliation{
		{ID: "aff-2", ReferralCode: "u1-p2-abc"},
		{ID: "aff-1", ReferralCode: "u1-p1-abc"},
	}, nil)

	w := httptest.NewRecorder()
	handler.GetAffiliations(w, authedRequest(http.MethodGet, "/api/affiliations", ""))

	assert.Equal(t, http.StatusOK, w.Code)
	var resp []dto.AffiliationResponseDTO
	assert.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Len(t, resp, 2)
	assert.Equal(t, "aff-2", resp[0].ID)
}
