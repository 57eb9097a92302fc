package receiving

import (
	"context"

	"gorm.io/gorm"

	"github.com/jasperlim/tracelink-backend/pkg/enums"
	"github.com/jasperlim/tracelink-backend/pkg/outbox"
	"github.com/jasperlim/tracelink-backend/pkg/outbox/payloads"
)

// OutboxEmitter records case-received events through the transactional outbox.
type OutboxEmitter struct {
	svc *outbox.Service
	db  *gorm.DB
}

// NewOutboxEmitter binds the outbox service to the DB handle used for event rows.
func NewOutboxEmitter(svc *outbox.Service, db *gorm.DB) *OutboxEmitter {
	return &OutboxEmitter{svc: svc, db: db}
}

// EmitCaseReceived appends one warehouse.case_received event row.
func (e *OutboxEmitter) EmitCaseReceived(ctx context.Context, event payloads.CaseReceivedEvent, actor *outbox.ActorRef) error {
	return e.svc.Emit(ctx, e.db, outbox.DomainEvent{
		EventType:     enums.OutboxEventCaseReceived,
		AggregateType: enums.OutboxAggregateMasterCase,
		AggregateID:   event.MasterCaseID,
		Actor:         actor,
		Data:          event,
	})
}
