package crmsync

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

var (
	// ErrEntityNotFound local record of the job no longer exists
	ErrEntityNotFound = fmt.Errorf("crmsync: entity not found: %w", domain.ErrNotFound)

	// ErrUnknownEntityType job refers to an entity type this build does not mirror
	ErrUnknownEntityType = errors.New("crmsync: unknown entity type")

	// ErrRemote CRM call failed, the job will be retried
	ErrRemote = fmt.Errorf("crmsync: remote call failed: %w", domain.ErrSync)

	// ErrInternal local storage failed
	ErrInternal = errors.New("crmsync: internal error")
)
