package appointment

import "github.com/m04kA/SMC-SchedulingService/pkg/dbmetrics"

// Переиспользуем интерфейсы из dbmetrics
type DBExecutor = dbmetrics.DBExecutor
