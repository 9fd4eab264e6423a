package get_scheduling_analytics

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	getAnalytics "github.com/m04kA/SMC-SchedulingService/internal/usecase/get_scheduling_analytics"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fakeUseCase struct {
	got  *getAnalytics.Request
	resp *getAnalytics.Response
	err  error
}

func (f *fakeUseCase) Execute(_ context.Context, req *getAnalytics.Request) (*getAnalytics.Response, error) {
	f.got = req
	return f.resp, f.err
}

func serve(h *Handler, target string) *httptest.ResponseRecorder {
	router := mux.NewRouter()
	router.HandleFunc("/api/v1/contractors/{contractorId}/analytics", h.Handle).Methods(http.MethodGet)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestHandle(t *testing.T) {
	uc := &fakeUseCase{resp: &getAnalytics.Response{
		Start: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC),
		Result: domain.AnalyticsResult{
			ContractorID:          2,
			TotalBookings:         4,
			StatusCounts:          map[domain.AppointmentStatus]int{domain.StatusCompleted: 2, domain.StatusCancelled: 2},
			TotalRevenue:          decimal.NewFromInt(175),
			AverageBookingValue:   decimal.RequireFromString("87.5"),
			BookingConversionRate: decimal.NewFromInt(50),
			Services:              []domain.ServiceBreakdown{{ServiceID: 1, Total: 4, Completed: 2, Revenue: decimal.NewFromInt(175)}},
		},
	}}

	rec := serve(NewHandler(uc, nopLogger{}), "/api/v1/contractors/2/analytics?start=2025-03-01&end=2025-03-31")

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, uc.got)
	assert.Equal(t, int64(2), uc.got.ContractorID)

	var body AnalyticsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "2025-03-01", body.StartDate)
	assert.Equal(t, "2025-03-31", body.EndDate)
	assert.Equal(t, 2, body.StatusCounts["COMPLETED"])
	assert.True(t, body.TotalRevenue.Equal(decimal.NewFromInt(175)))
	require.Len(t, body.Services, 1)
}

func TestHandle_BadRange(t *testing.T) {
	uc := &fakeUseCase{}

	rec := serve(NewHandler(uc, nopLogger{}), "/api/v1/contractors/2/analytics?start=2025-03-01")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Nil(t, uc.got)
}

func TestHandle_UseCaseValidation(t *testing.T) {
	uc := &fakeUseCase{err: getAnalytics.ErrInvalidInput}

	rec := serve(NewHandler(uc, nopLogger{}), "/api/v1/contractors/2/analytics?start=2025-03-31&end=2025-03-01")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "VALIDATION_ERROR")
}
