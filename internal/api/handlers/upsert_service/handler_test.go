package upsert_service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SchedulingService/internal/service/schedule"
	"github.com/m04kA/SMC-SchedulingService/internal/service/schedule/models"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fakeService struct {
	got *models.ServiceRequest
	err error
}

func (f *fakeService) UpsertService(_ context.Context, contractorID, serviceID int64, req *models.ServiceRequest) (*models.ServiceResponse, error) {
	f.got = req
	if f.err != nil {
		return nil, f.err
	}
	return &models.ServiceResponse{ID: serviceID, ContractorID: contractorID, Name: req.Name, Price: req.Price, IsActive: true}, nil
}

func serve(h *Handler, target, body string) *httptest.ResponseRecorder {
	router := mux.NewRouter()
	router.HandleFunc("/api/v1/contractors/{contractorId}/services/{serviceId}", h.Handle).Methods(http.MethodPut)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, target, strings.NewReader(body)))
	return rec
}

func TestHandle(t *testing.T) {
	body := `{"name":"Deep clean","category":"cleaning","duration":90,"price":"150","preparationTime":15,"cleanupTime":15}`

	tests := []struct {
		name       string
		target     string
		service    *fakeService
		wantStatus int
	}{
		{name: "saved", target: "/api/v1/contractors/1/services/10", service: &fakeService{}, wantStatus: http.StatusOK},
		{name: "bad path", target: "/api/v1/contractors/1/services/zero", service: &fakeService{}, wantStatus: http.StatusBadRequest},
		{name: "owned elsewhere", target: "/api/v1/contractors/1/services/10", service: &fakeService{err: schedule.ErrServiceOwnership}, wantStatus: http.StatusConflict},
		{name: "invalid", target: "/api/v1/contractors/1/services/10", service: &fakeService{err: schedule.ErrInvalidInput}, wantStatus: http.StatusBadRequest},
		{name: "internal", target: "/api/v1/contractors/1/services/10", service: &fakeService{err: schedule.ErrInternal}, wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(NewHandler(tt.service, nopLogger{}), tt.target, body)
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestHandle_DecodesPayload(t *testing.T) {
	svc := &fakeService{}

	rec := serve(NewHandler(svc, nopLogger{}), "/api/v1/contractors/1/services/10",
		`{"name":"Deep clean","duration":90,"price":"150","depositRequired":true,"depositAmount":"40"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, svc.got)
	assert.Equal(t, 90, svc.got.Duration)
	require.NotNil(t, svc.got.DepositAmount)
	assert.True(t, svc.got.DepositAmount.Equal(decimal.NewFromInt(40)))
	assert.Nil(t, svc.got.IsActive)
}
