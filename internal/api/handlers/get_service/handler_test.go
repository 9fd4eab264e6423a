package get_service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"

	"github.com/m04kA/SMC-SchedulingService/internal/service/schedule"
	"github.com/m04kA/SMC-SchedulingService/internal/service/schedule/models"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fakeService struct{ err error }

func (f fakeService) GetService(_ context.Context, contractorID, serviceID int64) (*models.ServiceResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &models.ServiceResponse{ID: serviceID, ContractorID: contractorID}, nil
}

func TestHandle(t *testing.T) {
	serve := func(svc fakeService, target string) *httptest.ResponseRecorder {
		router := mux.NewRouter()
		router.HandleFunc("/api/v1/contractors/{contractorId}/services/{serviceId}", NewHandler(svc, nopLogger{}).Handle)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
		return rec
	}

	rec := serve(fakeService{}, "/api/v1/contractors/2/services/8")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"id":8`)

	rec = serve(fakeService{err: schedule.ErrServiceNotFound}, "/api/v1/contractors/2/services/8")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = serve(fakeService{}, "/api/v1/contractors/2/services/x")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
