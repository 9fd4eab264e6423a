package crmsync

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/internal/infra/storage/appointment"
	"github.com/m04kA/SMC-SchedulingService/internal/infra/storage/schedule"
	"github.com/m04kA/SMC-SchedulingService/internal/integrations/hubspot"
)

var tracer = otel.Tracer("smc.scheduling.crmsync")

// Reconciler mirrors one local entity into the CRM.
// Local state is authoritative, the remote record is overwritten.
type Reconciler struct {
	crm          CRMClient
	appointments AppointmentRepository
	schedules    ScheduleRepository
	stores       SyncStores
	objectTypes  ObjectTypes
	timeProvider TimeProvider
	logger       Logger
}

func NewReconciler(
	crm CRMClient,
	appointments AppointmentRepository,
	schedules ScheduleRepository,
	stores SyncStores,
	objectTypes ObjectTypes,
	logger Logger,
) *Reconciler {
	return &Reconciler{
		crm:          crm,
		appointments: appointments,
		schedules:    schedules,
		stores:       stores,
		objectTypes:  objectTypes,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Reconcile creates or updates the remote record of the entity.
// Without a known remote id the CRM is searched by natural key first,
// so a retried create never produces a duplicate.
func (r *Reconciler) Reconcile(ctx context.Context, entityType domain.EntityType, id int64) (err error) {
	ctx, span := tracer.Start(ctx, "crmsync.Reconcile")
	span.SetAttributes(
		attribute.String("smc.entity_type", string(entityType)),
		attribute.Int64("smc.entity_id", id),
	)
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	rec, err := r.load(ctx, entityType, id)
	if err != nil {
		return err
	}

	if rec.remoteID != nil {
		err := r.crm.UpdateRecord(ctx, rec.objectType, *rec.remoteID, rec.properties)
		if err == nil {
			return r.markSynced(ctx, rec, *rec.remoteID)
		}
		if !errors.Is(err, hubspot.ErrRecordNotFound) {
			return fmt.Errorf("%w: update %s %s: %v", ErrRemote, rec.objectType, *rec.remoteID, err)
		}

		r.logger.Warn("Reconcile: remote %s %s of %s is gone, looking up by key", rec.objectType, *rec.remoteID, rec.key)
		if err := rec.store.ClearRemoteID(ctx, rec.storeKey); err != nil {
			return fmt.Errorf("%w: clear remote id of %s: %v", ErrInternal, rec.key, err)
		}
	}

	found, err := r.crm.FindRecordByKey(ctx, rec.objectType, rec.key)
	if err != nil {
		return fmt.Errorf("%w: search %s by key %s: %v", ErrRemote, rec.objectType, rec.key, err)
	}

	if found != nil {
		if err := r.crm.UpdateRecord(ctx, rec.objectType, *found, rec.properties); err != nil {
			return fmt.Errorf("%w: update %s %s: %v", ErrRemote, rec.objectType, *found, err)
		}
		return r.markSynced(ctx, rec, *found)
	}

	remoteID, err := r.crm.CreateRecord(ctx, rec.objectType, rec.properties)
	if err != nil {
		return fmt.Errorf("%w: create %s for %s: %v", ErrRemote, rec.objectType, rec.key, err)
	}
	r.logger.Info("Reconcile: created %s %s for %s", rec.objectType, remoteID, rec.key)

	return r.markSynced(ctx, rec, remoteID)
}

// MarkEntity sets the sync status of the entity without touching the CRM
func (r *Reconciler) MarkEntity(ctx context.Context, entityType domain.EntityType, id int64, status domain.SyncStatus) error {
	store, err := r.storeFor(entityType)
	if err != nil {
		return err
	}
	if err := store.MarkStatus(ctx, id, status); err != nil {
		return fmt.Errorf("%w: mark %s:%d %s: %v", ErrInternal, entityType, id, status, err)
	}
	return nil
}

func (r *Reconciler) markSynced(ctx context.Context, rec *record, remoteID string) error {
	if err := rec.store.MarkSynced(ctx, rec.storeKey, remoteID, r.timeProvider.Now(), rec.version); err != nil {
		return fmt.Errorf("%w: mark %s synced: %v", ErrInternal, rec.key, err)
	}
	return nil
}

func (r *Reconciler) storeFor(entityType domain.EntityType) (SyncStateStore, error) {
	switch entityType {
	case domain.EntityAppointment:
		return r.stores.Appointments, nil
	case domain.EntityScheduleConfig:
		return r.stores.ScheduleConfigs, nil
	case domain.EntityScheduleService:
		return r.stores.ScheduleServices, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownEntityType, entityType)
}

func (r *Reconciler) load(ctx context.Context, entityType domain.EntityType, id int64) (*record, error) {
	store, err := r.storeFor(entityType)
	if err != nil {
		return nil, err
	}
	rec := &record{key: NaturalKey(entityType, id), store: store, storeKey: id}

	switch entityType {
	case domain.EntityAppointment:
		a, err := r.appointments.GetByID(ctx, id)
		if errors.Is(err, appointment.ErrAppointmentNotFound) {
			return nil, fmt.Errorf("%w: appointment %d", ErrEntityNotFound, id)
		}
		if err != nil {
			return nil, fmt.Errorf("%w: get appointment %d: %v", ErrInternal, id, err)
		}
		rec.objectType = r.objectTypes.Appointment
		rec.properties = appointmentProperties(a)
		rec.remoteID = a.HubspotObjectID
		rec.version = a.UpdatedAt

	case domain.EntityScheduleConfig:
		c, err := r.schedules.GetConfig(ctx, id)
		if errors.Is(err, schedule.ErrConfigNotFound) {
			return nil, fmt.Errorf("%w: schedule config of contractor %d", ErrEntityNotFound, id)
		}
		if err != nil {
			return nil, fmt.Errorf("%w: get schedule config %d: %v", ErrInternal, id, err)
		}
		rec.objectType = r.objectTypes.ScheduleConfig
		rec.properties = configProperties(c)
		rec.remoteID = c.HubspotObjectID
		rec.version = c.UpdatedAt

	case domain.EntityScheduleService:
		s, err := r.schedules.GetService(ctx, id)
		if errors.Is(err, schedule.ErrServiceNotFound) {
			return nil, fmt.Errorf("%w: service %d", ErrEntityNotFound, id)
		}
		if err != nil {
			return nil, fmt.Errorf("%w: get service %d: %v", ErrInternal, id, err)
		}
		rec.objectType = r.objectTypes.ScheduleService
		rec.properties = serviceProperties(s)
		rec.remoteID = s.HubspotObjectID
		rec.version = s.UpdatedAt
	}

	return rec, nil
}
