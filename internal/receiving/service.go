package receiving

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/jasperlim/tracelink-backend/internal/inventory"
	"github.com/jasperlim/tracelink-backend/pkg/db/models"
	"github.com/jasperlim/tracelink-backend/pkg/enums"
	"github.com/jasperlim/tracelink-backend/pkg/logger"
	"github.com/jasperlim/tracelink-backend/pkg/metrics"
	"github.com/jasperlim/tracelink-backend/pkg/outbox"
	"github.com/jasperlim/tracelink-backend/pkg/outbox/payloads"
)

const (
	warnMixedVariants     = "case contains mixed variants; case totals left unchanged"
	warnEstimatedCases    = "units per case unknown; case count increment estimated"
	warnUnitsLookupFailed = "units per case lookup failed; case count increments estimated"
	warnNoInventoryTally  = "inventory could not be updated automatically; no child codes and no single-variant order fallback"
	warnAggregateFailed   = "inventory aggregate adjustment failed; ledger entry already recorded"
	warnMovementLogFailed = "case movement audit log could not be written"
	warnBuyerOrgOverride  = "order buyer org overrides the case's stored warehouse org"
)

type caseStore interface {
	FindCaseByCode(ctx context.Context, code string) (*models.MasterCase, error)
	ReloadCase(ctx context.Context, id uuid.UUID) (*models.MasterCase, error)
	LoadChildCodes(ctx context.Context, caseID uuid.UUID) ([]models.UniqueCode, error)
	MarkCaseReceived(ctx context.Context, caseID, warehouseOrgID uuid.UUID, receivedAt time.Time, receivedBy *uuid.UUID) (int64, error)
	UpdateChildCodes(ctx context.Context, caseID, warehouseOrgID uuid.UUID, at time.Time, by *uuid.UUID) error
	FindOrderItems(ctx context.Context, orderID uuid.UUID) ([]models.OrderItem, error)
	InsertCaseMovementLog(ctx context.Context, entry models.CaseMovementLog) error
}

type inventoryStore interface {
	RecordReceiveMovement(ctx context.Context, p inventory.MovementParams) (uuid.UUID, error)
	ApplyReceiveAdjustment(ctx context.Context, variantID, orgID uuid.UUID, quantity decimal.Decimal, casesIncrement int) error
	UnitsPerCase(ctx context.Context, variantIDs []uuid.UUID) (map[uuid.UUID]int, error)
	Snapshot(ctx context.Context, variantID, orgID uuid.UUID) (*models.ProductInventory, error)
}

type eventEmitter interface {
	EmitCaseReceived(ctx context.Context, event payloads.CaseReceivedEvent, actor *outbox.ActorRef) error
}

// Service runs the master case receiving pipeline.
type Service struct {
	repo      caseStore
	inventory inventoryStore
	events    eventEmitter
	metrics   *metrics.ReceiveMetrics
	logg      *logger.Logger
}

// ServiceParams bundles the dependencies required to build a receiving service.
type ServiceParams struct {
	CaseRepo      caseStore
	InventoryRepo inventoryStore
	Events        eventEmitter
	Metrics       *metrics.ReceiveMetrics
	Logger        *logger.Logger
}

// NewService constructs the receiving service with the provided dependencies.
func NewService(params ServiceParams) (*Service, error) {
	if params.CaseRepo == nil {
		return nil, fmt.Errorf("case repository is required")
	}
	if params.InventoryRepo == nil {
		return nil, fmt.Errorf("inventory repository is required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	return &Service{
		repo:      params.CaseRepo,
		inventory: params.InventoryRepo,
		events:    params.Events,
		metrics:   params.Metrics,
		logg:      params.Logger,
	}, nil
}

// Receive processes every submitted code independently, in submission order.
// A datastore failure for one code becomes an error result for that code only.
func (s *Service) Receive(ctx context.Context, req ReceiveRequest, authUserID *uuid.UUID) *ReceiveResponse {
	userID := req.UserID
	if userID == nil {
		userID = authUserID
	}

	codes := req.Codes()
	seen := make(map[string]struct{}, len(codes))
	results := make([]ReceiveResult, 0, len(codes))

	for _, raw := range codes {
		normalized, ok := NormalizeCode(raw)
		if !ok {
			results = append(results, ReceiveResult{
				Outcome:    enums.ReceiveOutcomeInvalidFormat,
				Message:    "master code is empty or unreadable",
				MasterCode: raw,
			})
			continue
		}
		if _, dup := seen[normalized]; dup {
			results = append(results, ReceiveResult{
				Outcome:    enums.ReceiveOutcomeDuplicateRequest,
				Message:    fmt.Sprintf("master code %s was already submitted in this request", normalized),
				MasterCode: normalized,
			})
			continue
		}
		seen[normalized] = struct{}{}

		start := time.Now()
		result := s.receiveOne(ctx, normalized, req.OrderID, req.WarehouseOrgID, userID)
		s.metrics.ObserveReceive(result.Outcome, time.Since(start))
		results = append(results, result)
	}

	return buildResponse(results)
}

// lineage is the normalized batch/order join shape derived once per case.
type lineage struct {
	orderID           *uuid.UUID
	orderNo           string
	companyID         *uuid.UUID
	manufacturerOrgID *uuid.UUID
	warehouseOrgID    *uuid.UUID
}

// resolveLineage derives the effective order and org associations. The order's
// buyer org is authoritative over any stale warehouse assignment on the case;
// an override is reported so the caller can log it.
func resolveLineage(kase *models.MasterCase, requestWarehouseOrg *uuid.UUID) (lineage, bool) {
	lin := lineage{
		companyID:         kase.CompanyID,
		manufacturerOrgID: kase.ManufacturerOrgID,
	}

	var order *models.Order
	if kase.Batch != nil {
		order = kase.Batch.Order
		lin.orderID = kase.Batch.OrderID
	}
	if order != nil {
		id := order.ID
		lin.orderID = &id
		lin.orderNo = order.OrderNo
		if order.CompanyID != nil {
			lin.companyID = order.CompanyID
		}
		if lin.manufacturerOrgID == nil {
			lin.manufacturerOrgID = order.SellerOrgID
		}
	}

	lin.warehouseOrgID = kase.WarehouseOrgID
	if lin.warehouseOrgID == nil {
		if order != nil && order.BuyerOrgID != nil {
			lin.warehouseOrgID = order.BuyerOrgID
		} else {
			lin.warehouseOrgID = requestWarehouseOrg
		}
	}

	overridden := false
	if order != nil && order.BuyerOrgID != nil && lin.warehouseOrgID != nil && *lin.warehouseOrgID != *order.BuyerOrgID {
		lin.warehouseOrgID = order.BuyerOrgID
		overridden = true
	}

	return lin, overridden
}

func (s *Service) receiveOne(ctx context.Context, code string, expectedOrderID, requestWarehouseOrg, userID *uuid.UUID) ReceiveResult {
	ctx = s.logg.WithMasterCode(ctx, code)

	kase, err := s.repo.FindCaseByCode(ctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ReceiveResult{
				Outcome:    enums.ReceiveOutcomeNotFound,
				Message:    fmt.Sprintf("master code %s not found", code),
				MasterCode: code,
			}
		}
		s.logg.Error(ctx, "master case lookup failed", err)
		return errorResult(code, "master case lookup failed", err)
	}

	lin, overridden := resolveLineage(kase, requestWarehouseOrg)
	if overridden {
		s.logg.Warn(ctx, warnBuyerOrgOverride)
	}
	if lin.warehouseOrgID == nil {
		return errorResult(code, "no warehouse organization could be determined for this case", nil)
	}

	// Order mismatch is checked before any write.
	if expectedOrderID != nil && (lin.orderID == nil || *lin.orderID != *expectedOrderID) {
		return ReceiveResult{
			Outcome:        enums.ReceiveOutcomeWrongOrder,
			Message:        fmt.Sprintf("master code %s belongs to a different order", code),
			MasterCode:     code,
			OrderID:        lin.orderID,
			WarehouseOrgID: lin.warehouseOrgID,
		}
	}

	switch {
	case kase.Status == enums.CaseStatusReceivedWarehouse:
		return s.alreadyReceivedResult(code, kase, lin)
	case !kase.Status.IsReceivable():
		return ReceiveResult{
			Outcome:        enums.ReceiveOutcomeInvalidStatus,
			Message:        fmt.Sprintf("master case %s is in status %s and cannot be received", code, kase.Status),
			MasterCode:     code,
			OrderID:        lin.orderID,
			WarehouseOrgID: lin.warehouseOrgID,
		}
	}

	return s.runReceiveTransaction(ctx, code, kase, lin, userID)
}

// alreadyReceivedResult is the idempotent short-circuit: no writes, existing
// timestamp, empty inventory updates.
func (s *Service) alreadyReceivedResult(code string, kase *models.MasterCase, lin lineage) ReceiveResult {
	totalProducts := kase.ActualUnits
	if totalProducts == 0 {
		totalProducts = kase.ExpectedUnits
	}
	return ReceiveResult{
		Outcome:        enums.ReceiveOutcomeAlreadyReceived,
		Message:        fmt.Sprintf("master case %s was already received", code),
		MasterCode:     code,
		CaseInfo:       caseInfoFromModel(kase, lin, totalProducts),
		OrderID:        lin.orderID,
		WarehouseOrgID: lin.warehouseOrgID,
		ReceivedAt:     kase.WarehouseReceivedAt,
	}
}

func (s *Service) runReceiveTransaction(ctx context.Context, code string, kase *models.MasterCase, lin lineage, userID *uuid.UUID) ReceiveResult {
	warn := &warningAccumulator{}
	warehouseOrg := *lin.warehouseOrgID

	// Fatal: the tally and the short-circuit both depend on the child rows.
	children, err := s.repo.LoadChildCodes(ctx, kase.ID)
	if err != nil {
		s.logg.Error(ctx, "child code load failed", err)
		return errorResult(code, "child code load failed", err)
	}

	receivedAt := time.Now().UTC()

	affected, err := s.repo.MarkCaseReceived(ctx, kase.ID, warehouseOrg, receivedAt, userID)
	if err != nil {
		s.logg.Error(ctx, "case status update failed", err)
		return errorResult(code, "case status update failed", err)
	}
	if affected == 0 {
		// A concurrent request won the conditional update. Re-read for the
		// stored timestamp and report the receive as already done.
		current, err := s.repo.ReloadCase(ctx, kase.ID)
		if err != nil {
			s.logg.Error(ctx, "case re-read after lost update race failed", err)
			return errorResult(code, "case re-read failed", err)
		}
		return s.alreadyReceivedResult(code, current, lin)
	}

	kase.Status = enums.CaseStatusReceivedWarehouse
	kase.WarehouseOrgID = &warehouseOrg
	kase.WarehouseReceivedAt = &receivedAt
	kase.WarehouseReceivedBy = userID

	// Fatal: children must move with the case.
	if err := s.repo.UpdateChildCodes(ctx, kase.ID, warehouseOrg, receivedAt, userID); err != nil {
		s.logg.Error(ctx, "child code update failed", err)
		return errorResult(code, "child code update failed", err)
	}

	tally := s.buildTally(ctx, kase, lin, children, warn)

	unitsPerCase := map[uuid.UUID]int{}
	if len(tally.entries) > 0 {
		unitsPerCase, err = s.inventory.UnitsPerCase(ctx, tally.variantIDs())
		if err != nil {
			s.logg.Warn(ctx, warnUnitsLookupFailed)
			warn.Add(warnUnitsLookupFailed)
			unitsPerCase = map[uuid.UUID]int{}
		}
	}
	if tally.kind == tallyMultiVariant {
		warn.Add(warnMixedVariants)
	}

	updates := make([]InventoryUpdate, 0, len(tally.entries))
	totalUnits := 0
	for _, entry := range tally.entries {
		// Fatal: the ledger row is authoritative; failure aborts the
		// remaining variants while the case stays transitioned.
		movementID, err := s.inventory.RecordReceiveMovement(ctx, inventory.MovementParams{
			VariantID:  entry.VariantID,
			OrgID:      warehouseOrg,
			Quantity:   entry.Quantity,
			FromOrgID:  lin.manufacturerOrgID,
			RefOrderID: lin.orderID,
			RefOrderNo: optionalString(lin.orderNo),
			CompanyID:  lin.companyID,
			CreatedBy:  userID,
		})
		if err != nil {
			s.logg.Error(ctx, "inventory movement recording failed", err)
			res := errorResult(code, "inventory movement recording failed", err)
			res.CaseInfo = caseInfoFromModel(kase, lin, len(children))
			res.OrderID = lin.orderID
			res.WarehouseOrgID = lin.warehouseOrgID
			res.ReceivedAt = &receivedAt
			res.InventoryUpdates = updates
			return res
		}

		casesIncrement := tally.casesIncrement(entry, unitsPerCase, warn)

		if err := s.inventory.ApplyReceiveAdjustment(ctx, entry.VariantID, warehouseOrg, entry.Quantity, casesIncrement); err != nil {
			s.logg.Warn(ctx, warnAggregateFailed)
			warn.Add(warnAggregateFailed)
		}

		update := InventoryUpdate{
			VariantID:      entry.VariantID,
			Quantity:       entry.Quantity,
			MovementID:     &movementID,
			CasesIncrement: casesIncrement,
		}
		if snap, err := s.inventory.Snapshot(ctx, entry.VariantID, warehouseOrg); err != nil {
			s.logg.Warn(ctx, "inventory snapshot read failed")
		} else if snap != nil {
			onHand := snap.QuantityOnHand
			available := snap.QuantityAvailable
			update.QuantityOnHand = &onHand
			update.QuantityAvailable = &available
		}
		updates = append(updates, update)
		totalUnits += int(entry.Quantity.IntPart())
	}

	totalProducts := len(children)
	if totalProducts == 0 {
		totalProducts = kase.ActualUnits
		if totalProducts == 0 {
			totalProducts = kase.ExpectedUnits
		}
	}

	if err := s.repo.InsertCaseMovementLog(ctx, models.CaseMovementLog{
		MasterCaseID:  kase.ID,
		MasterCode:    code,
		MovementType:  enums.MovementTypeAddition,
		FromOrgID:     lin.manufacturerOrgID,
		ToOrgID:       &warehouseOrg,
		TotalProducts: totalProducts,
		CreatedBy:     userID,
	}); err != nil {
		s.logg.Warn(ctx, warnMovementLogFailed)
		warn.Add(warnMovementLogFailed)
	}

	s.emitCaseReceived(ctx, kase, lin, receivedAt, userID, totalProducts, updates)
	s.metrics.AddUnits(warehouseOrg.String(), totalUnits)

	return ReceiveResult{
		Outcome:          enums.ReceiveOutcomeReceived,
		Message:          fmt.Sprintf("master case %s received into warehouse", code),
		MasterCode:       code,
		CaseInfo:         caseInfoFromModel(kase, lin, totalProducts),
		OrderID:          lin.orderID,
		WarehouseOrgID:   lin.warehouseOrgID,
		ReceivedAt:       &receivedAt,
		InventoryUpdates: updates,
		InventoryWarning: warn.String(),
	}
}

func (s *Service) emitCaseReceived(ctx context.Context, kase *models.MasterCase, lin lineage, receivedAt time.Time, userID *uuid.UUID, totalProducts int, updates []InventoryUpdate) {
	if s.events == nil {
		return
	}
	variants := make([]payloads.CaseReceivedVariant, 0, len(updates))
	for _, u := range updates {
		variants = append(variants, payloads.CaseReceivedVariant{
			VariantID:      u.VariantID,
			Quantity:       u.Quantity,
			CasesIncrement: u.CasesIncrement,
		})
	}
	event := payloads.CaseReceivedEvent{
		MasterCaseID:   kase.ID,
		MasterCode:     kase.Code,
		BatchID:        kase.BatchID,
		OrderID:        lin.orderID,
		OrderNo:        lin.orderNo,
		WarehouseOrgID: lin.warehouseOrgID,
		ReceivedAt:     receivedAt,
		ReceivedBy:     userID,
		TotalProducts:  totalProducts,
		Variants:       variants,
	}
	var actor *outbox.ActorRef
	if userID != nil {
		actor = &outbox.ActorRef{UserID: *userID}
	}
	if err := s.events.EmitCaseReceived(ctx, event, actor); err != nil {
		s.logg.Error(ctx, "case received event emit failed", err)
	}
}

type tallyKind int

const (
	tallyEmpty tallyKind = iota
	tallySingleVariant
	tallyMultiVariant
)

type tallyEntry struct {
	VariantID uuid.UUID
	Quantity  decimal.Decimal
}

// variantTally groups child codes by variant. The single/multi distinction is
// computed once here and consumed uniformly by the case-increment calculation.
type variantTally struct {
	kind    tallyKind
	entries []tallyEntry
}

func (t variantTally) variantIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(t.entries))
	for _, entry := range t.entries {
		ids = append(ids, entry.VariantID)
	}
	return ids
}

// casesIncrement derives the case-count delta for one tally entry.
// Multi-variant cases never adjust case totals; the mixed-variants warning is
// attached once by the caller, not per entry.
func (t variantTally) casesIncrement(entry tallyEntry, unitsPerCase map[uuid.UUID]int, warn *warningAccumulator) int {
	if t.kind != tallySingleVariant {
		return 0
	}
	upc, known := unitsPerCase[entry.VariantID]
	if !known || upc <= 0 {
		warn.Add(warnEstimatedCases)
		return 1
	}
	increment := int(entry.Quantity.Div(decimal.NewFromInt(int64(upc))).Round(0).IntPart())
	if increment < 1 {
		increment = 1
	}
	return increment
}

func (s *Service) buildTally(ctx context.Context, kase *models.MasterCase, lin lineage, children []models.UniqueCode, warn *warningAccumulator) variantTally {
	counts := make(map[uuid.UUID]int64)
	order := make([]uuid.UUID, 0)
	for _, child := range children {
		if child.VariantID == nil {
			continue
		}
		if _, exists := counts[*child.VariantID]; !exists {
			order = append(order, *child.VariantID)
		}
		counts[*child.VariantID]++
	}

	if len(order) > 0 {
		entries := make([]tallyEntry, 0, len(order))
		for _, variantID := range order {
			entries = append(entries, tallyEntry{
				VariantID: variantID,
				Quantity:  decimal.NewFromInt(counts[variantID]),
			})
		}
		kind := tallySingleVariant
		if len(entries) > 1 {
			kind = tallyMultiVariant
		}
		return variantTally{kind: kind, entries: entries}
	}

	// Zero child codes: fall back to the order's single distinct item variant
	// with the case's actual-or-expected unit count.
	if lin.orderID != nil {
		items, err := s.repo.FindOrderItems(ctx, *lin.orderID)
		if err != nil {
			s.logg.Warn(ctx, "order item fallback lookup failed")
			warn.Add(warnNoInventoryTally)
			return variantTally{kind: tallyEmpty}
		}
		distinct := distinctItemVariants(items)
		if len(distinct) == 1 {
			quantity := kase.ActualUnits
			if quantity == 0 {
				quantity = kase.ExpectedUnits
			}
			if quantity > 0 {
				return variantTally{
					kind: tallySingleVariant,
					entries: []tallyEntry{{
						VariantID: distinct[0],
						Quantity:  decimal.NewFromInt(int64(quantity)),
					}},
				}
			}
		}
	}

	warn.Add(warnNoInventoryTally)
	return variantTally{kind: tallyEmpty}
}

func distinctItemVariants(items []models.OrderItem) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{})
	distinct := make([]uuid.UUID, 0, 1)
	for _, item := range items {
		if item.VariantID == nil {
			continue
		}
		if _, ok := seen[*item.VariantID]; ok {
			continue
		}
		seen[*item.VariantID] = struct{}{}
		distinct = append(distinct, *item.VariantID)
	}
	return distinct
}

// warningAccumulator keeps only the first non-fatal warning; later
// warning-worthy conditions are suppressed once one is set.
type warningAccumulator struct {
	msg string
}

func (w *warningAccumulator) Add(msg string) {
	if w.msg == "" {
		w.msg = msg
	}
}

func (w *warningAccumulator) String() string {
	return w.msg
}

func errorResult(code, message string, err error) ReceiveResult {
	result := ReceiveResult{
		Outcome:    enums.ReceiveOutcomeError,
		Message:    message,
		MasterCode: code,
	}
	if err != nil {
		result.Details = err.Error()
	}
	return result
}

func optionalString(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}
