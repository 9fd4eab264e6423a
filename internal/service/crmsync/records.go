package crmsync

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/internal/integrations/hubspot"
)

// record local entity flattened into CRM properties
type record struct {
	objectType string
	key        string
	properties map[string]string
	remoteID   *string
	store      SyncStateStore
	storeKey   int64
	version    time.Time // updated_at of the row that was pushed
}

// NaturalKey stable lookup key of an entity in the CRM
func NaturalKey(entityType domain.EntityType, id int64) string {
	return fmt.Sprintf("%s:%d", entityType, id)
}

func appointmentProperties(a *domain.Appointment) map[string]string {
	props := map[string]string{
		hubspot.KeyProperty:     NaturalKey(domain.EntityAppointment, a.ID),
		"smc_contractor_id":     strconv.FormatInt(a.ContractorID, 10),
		"smc_service_id":        strconv.FormatInt(a.ServiceID, 10),
		"smc_appointment_date":  a.AppointmentDate.Format(domain.DateFormat),
		"smc_start_time":        a.StartTime.UTC().Format(time.RFC3339),
		"smc_end_time":          a.EndTime.UTC().Format(time.RFC3339),
		"smc_status":            string(a.Status),
		"smc_total_price":       a.TotalPrice.StringFixed(2),
		"smc_deposit_amount":    a.Deposit().StringFixed(2),
		"smc_remaining_balance": a.RemainingBalance.StringFixed(2),
		"smc_late_fees":         a.LateFees.StringFixed(2),
		"smc_refund_amount":     a.RefundAmount.StringFixed(2),
		"smc_forfeited_amount":  a.ForfeitedAmount.StringFixed(2),
		"smc_balance_due":       strconv.FormatBool(a.BalanceDue),
	}
	if a.ClientID != nil {
		props["smc_client_id"] = strconv.FormatInt(*a.ClientID, 10)
	}
	if a.Notes != nil {
		props["smc_notes"] = *a.Notes
	}
	if a.StatusNotes != nil {
		props["smc_status_notes"] = *a.StatusNotes
	}
	return props
}

func configProperties(c *domain.ScheduleConfig) map[string]string {
	days := make([]string, 0, len(c.WorkingHours))
	for d := time.Sunday; d <= time.Saturday; d++ {
		day, ok := c.WorkingHours[domain.WeekdayKey(d)]
		if ok && day.Enabled {
			days = append(days, fmt.Sprintf("%s %s-%s", domain.WeekdayKey(d), day.Start, day.End))
		}
	}

	return map[string]string{
		hubspot.KeyProperty:         NaturalKey(domain.EntityScheduleConfig, c.ContractorID),
		"smc_contractor_id":         strconv.FormatInt(c.ContractorID, 10),
		"smc_timezone":              c.Timezone,
		"smc_working_hours":         strings.Join(days, "; "),
		"smc_buffer_minutes":        strconv.Itoa(c.BufferMinutes),
		"smc_advance_booking_days":  strconv.Itoa(c.AdvanceBookingDays),
		"smc_minimum_notice_hours":  strconv.Itoa(c.MinimumNoticeHours),
		"smc_accepting_bookings":    strconv.FormatBool(c.IsAcceptingBookings),
		"smc_auto_confirm":          strconv.FormatBool(c.AutoConfirmBookings),
		"smc_requires_deposit":      strconv.FormatBool(c.RequiresDeposit),
		"smc_deposit_percentage":    c.DepositPercentage.String(),
		"smc_allow_cancellation":    strconv.FormatBool(c.CancellationPolicy.AllowCancellation),
		"smc_cancellation_deadline": strconv.Itoa(c.CancellationPolicy.CancellationDeadlineHours),
		"smc_refund_policy":         string(c.CancellationPolicy.RefundPolicy),
	}
}

func serviceProperties(s *domain.ScheduleService) map[string]string {
	deposit := decimal.Zero
	if s.DepositAmount != nil {
		deposit = *s.DepositAmount
	}
	return map[string]string{
		hubspot.KeyProperty:       NaturalKey(domain.EntityScheduleService, s.ID),
		"name":                    s.Name,
		"smc_contractor_id":       strconv.FormatInt(s.ContractorID, 10),
		"smc_category":            s.Category,
		"smc_duration_minutes":    strconv.Itoa(s.DurationMinutes),
		"price":                   s.Price.StringFixed(2),
		"smc_deposit_required":    strconv.FormatBool(s.DepositRequired),
		"smc_deposit_amount":      deposit.StringFixed(2),
		"smc_preparation_minutes": strconv.Itoa(s.PreparationMinutes),
		"smc_cleanup_minutes":     strconv.Itoa(s.CleanupMinutes),
		"smc_active":              strconv.FormatBool(s.IsActive),
	}
}
