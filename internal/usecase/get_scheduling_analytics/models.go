package get_scheduling_analytics

import (
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// Request модель запроса аналитики, границы включительно
type Request struct {
	ContractorID int64
	Start        time.Time
	End          time.Time
}

// Response модель ответа
type Response struct {
	Start  time.Time
	End    time.Time
	Result domain.AnalyticsResult
}
