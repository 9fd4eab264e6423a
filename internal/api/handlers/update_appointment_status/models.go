package update_appointment_status

import (
	"github.com/m04kA/SMC-SchedulingService/internal/service/appointments/models"
	updateStatus "github.com/m04kA/SMC-SchedulingService/internal/usecase/update_appointment_status"
)

// UpdateStatusRequest HTTP запрос на смену статуса
type UpdateStatusRequest struct {
	Status string  `json:"status"`
	Notes  *string `json:"notes,omitempty"`
}

// UpdateStatusResponse HTTP ответ
type UpdateStatusResponse struct {
	PreviousStatus string                      `json:"previousStatus"`
	Appointment    *models.AppointmentResponse `json:"appointment"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *UpdateStatusRequest) ToUseCaseRequest(appointmentID int64) *updateStatus.Request {
	return &updateStatus.Request{
		AppointmentID: appointmentID,
		Status:        r.Status,
		Notes:         r.Notes,
	}
}

// FromUseCaseResponse конвертирует ответ use case в HTTP ответ
func FromUseCaseResponse(resp *updateStatus.Response) *UpdateStatusResponse {
	return &UpdateStatusResponse{
		PreviousStatus: string(resp.PreviousStatus),
		Appointment:    models.FromDomainAppointment(resp.Appointment),
	}
}
