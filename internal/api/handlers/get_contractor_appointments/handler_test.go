package get_contractor_appointments

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SchedulingService/internal/service/appointments"
	"github.com/m04kA/SMC-SchedulingService/internal/service/appointments/models"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fakeService struct {
	got *models.ListAppointmentsRequest
	err error
}

func (f *fakeService) ListByContractor(_ context.Context, req *models.ListAppointmentsRequest) (*models.AppointmentListResponse, error) {
	f.got = req
	if f.err != nil {
		return nil, f.err
	}
	return models.FromDomainAppointmentList(nil), nil
}

func serve(h *Handler, target string) *httptest.ResponseRecorder {
	router := mux.NewRouter()
	router.HandleFunc("/api/v1/contractors/{contractorId}/appointments", h.Handle).Methods(http.MethodGet)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestHandle_PassesFilters(t *testing.T) {
	svc := &fakeService{}

	rec := serve(NewHandler(svc, nopLogger{}), "/api/v1/contractors/3/appointments?from=2025-03-01&to=2025-03-08T00:00:00Z&status=CONFIRMED")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"appointments":[]}`, rec.Body.String())

	require.NotNil(t, svc.got)
	assert.Equal(t, int64(3), svc.got.ContractorID)
	require.NotNil(t, svc.got.From)
	assert.True(t, svc.got.From.Equal(time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)))
	require.NotNil(t, svc.got.To)
	assert.True(t, svc.got.To.Equal(time.Date(2025, 3, 8, 0, 0, 0, 0, time.UTC)))
	require.NotNil(t, svc.got.Status)
	assert.Equal(t, "CONFIRMED", *svc.got.Status)
}

func TestHandle_Errors(t *testing.T) {
	rec := serve(NewHandler(&fakeService{}, nopLogger{}), "/api/v1/contractors/3/appointments?from=yesterday")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	svc := &fakeService{err: fmt.Errorf("%w: unknown status", appointments.ErrInvalidInput)}
	rec = serve(NewHandler(svc, nopLogger{}), "/api/v1/contractors/3/appointments?status=LOST")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "VALIDATION_ERROR")

	svc = &fakeService{err: fmt.Errorf("%w: boom", appointments.ErrInternal)}
	rec = serve(NewHandler(svc, nopLogger{}), "/api/v1/contractors/3/appointments")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
