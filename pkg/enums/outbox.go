package enums

// OutboxEventType names a domain event stored in the outbox table.
type OutboxEventType string

const (
	OutboxEventCaseReceived OutboxEventType = "warehouse.case_received"
)

// OutboxAggregateType names the aggregate an outbox event belongs to.
type OutboxAggregateType string

const (
	OutboxAggregateMasterCase OutboxAggregateType = "master_case"
)
