package update_appointment_status

import "github.com/m04kA/SMC-SchedulingService/internal/domain"

// Request модель запроса смены статуса
type Request struct {
	AppointmentID int64
	Status        string
	Notes         *string
}

// Response модель ответа
type Response struct {
	Appointment    *domain.Appointment
	PreviousStatus domain.AppointmentStatus
}
