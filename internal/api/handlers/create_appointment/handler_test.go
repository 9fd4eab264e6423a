package create_appointment

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/internal/service/appointments/models"
	createAppointment "github.com/m04kA/SMC-SchedulingService/internal/usecase/create_appointment"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fakeUseCase struct {
	got  *createAppointment.Request
	resp *createAppointment.Response
	err  error
}

func (f *fakeUseCase) Execute(_ context.Context, req *createAppointment.Request) (*createAppointment.Response, error) {
	f.got = req
	return f.resp, f.err
}

func post(h *Handler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/appointments", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.Handle(rec, req)
	return rec
}

func TestHandle_Created(t *testing.T) {
	start := time.Date(2025, 3, 3, 10, 0, 0, 0, time.UTC)
	uc := &fakeUseCase{resp: &createAppointment.Response{Appointment: &domain.Appointment{
		ID:              7,
		ContractorID:    1,
		ServiceID:       2,
		AppointmentDate: time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC),
		StartTime:       start,
		EndTime:         start.Add(time.Hour),
		Status:          domain.StatusScheduled,
		TotalPrice:      decimal.NewFromInt(100),
	}}}
	h := NewHandler(uc, nopLogger{})

	rec := post(h, `{"contractorId":1,"serviceId":2,"appointmentDate":"2025-03-03","startTime":"10:00","endTime":"11:30","depositAmount":"25"}`)

	require.Equal(t, http.StatusCreated, rec.Code)
	require.NotNil(t, uc.got)
	assert.Equal(t, int64(1), uc.got.ContractorID)
	assert.Equal(t, "10:00", uc.got.StartTime.String())
	require.NotNil(t, uc.got.EndTime)
	assert.Equal(t, "11:30", uc.got.EndTime.String())
	require.NotNil(t, uc.got.DepositAmount)
	assert.True(t, uc.got.DepositAmount.Equal(decimal.NewFromInt(25)))

	var body models.AppointmentResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, int64(7), body.ID)
	assert.Equal(t, "SCHEDULED", body.Status)
	assert.Equal(t, "2025-03-03", body.AppointmentDate)
}

func TestHandle_BadInput(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "not json", body: `{`},
		{name: "unknown field", body: `{"contractorId":1,"foo":1}`},
		{name: "bad date", body: `{"contractorId":1,"serviceId":2,"appointmentDate":"03.03.2025","startTime":"10:00"}`},
		{name: "bad time", body: `{"contractorId":1,"serviceId":2,"appointmentDate":"2025-03-03","startTime":"25:00"}`},
		{name: "bad end time", body: `{"contractorId":1,"serviceId":2,"appointmentDate":"2025-03-03","startTime":"10:00","endTime":"x"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &fakeUseCase{}
			rec := post(NewHandler(uc, nopLogger{}), tt.body)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Nil(t, uc.got)
		})
	}
}

func TestHandle_UseCaseErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantKind   string
	}{
		{name: "conflict", err: fmt.Errorf("%w: 10:00 taken", createAppointment.ErrSlotConflict), wantStatus: http.StatusConflict, wantKind: domain.KindConflict},
		{name: "notice", err: fmt.Errorf("%w: 24h", createAppointment.ErrInsufficientNotice), wantStatus: http.StatusUnprocessableEntity, wantKind: domain.KindPolicyViolation},
		{name: "no schedule", err: createAppointment.ErrScheduleNotFound, wantStatus: http.StatusNotFound, wantKind: domain.KindNotFound},
		{name: "internal", err: fmt.Errorf("%w: boom", createAppointment.ErrInternal), wantStatus: http.StatusInternalServerError, wantKind: domain.KindInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &fakeUseCase{err: tt.err}
			rec := post(NewHandler(uc, nopLogger{}), `{"contractorId":1,"serviceId":2,"appointmentDate":"2025-03-03","startTime":"10:00"}`)

			assert.Equal(t, tt.wantStatus, rec.Code)

			var body handlers.ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantKind, body.Error.Kind)
			assert.NotEmpty(t, body.Error.Reason)
		})
	}
}
