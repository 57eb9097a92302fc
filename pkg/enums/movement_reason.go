package enums

// MovementReason classifies why a stock movement was recorded.
type MovementReason string

const (
	MovementReasonWarehouseReceive MovementReason = "warehouse_receive"
	MovementReasonStockAdjustment  MovementReason = "stock_adjustment"
	MovementReasonStockTransfer    MovementReason = "stock_transfer"
)

// String implements fmt.Stringer.
func (m MovementReason) String() string {
	return string(m)
}
