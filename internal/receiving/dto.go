package receiving

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jasperlim/tracelink-backend/pkg/db/models"
	"github.com/jasperlim/tracelink-backend/pkg/enums"
)

// ReceiveRequest is the receive-master request body. Exactly one of
// MasterCode/MasterCodes must yield at least one entry.
type ReceiveRequest struct {
	MasterCode     string     `json:"master_code,omitempty"`
	MasterCodes    []string   `json:"master_codes,omitempty"`
	OrderID        *uuid.UUID `json:"order_id,omitempty"`
	WarehouseOrgID *uuid.UUID `json:"warehouse_org_id,omitempty"`
	UserID         *uuid.UUID `json:"user_id,omitempty"`
}

// Codes merges the single-code and batch fields preserving submission order.
func (r ReceiveRequest) Codes() []string {
	codes := make([]string, 0, len(r.MasterCodes)+1)
	if strings.TrimSpace(r.MasterCode) != "" {
		codes = append(codes, r.MasterCode)
	}
	codes = append(codes, r.MasterCodes...)
	return codes
}

// CaseInfo is the case detail block returned with receive results.
type CaseInfo struct {
	ID             uuid.UUID        `json:"id"`
	Code           string           `json:"code"`
	Status         enums.CaseStatus `json:"status"`
	CaseNumber     int              `json:"case_number"`
	ExpectedUnits  int              `json:"expected_units"`
	ActualUnits    int              `json:"actual_units"`
	OrderID        *uuid.UUID       `json:"order_id,omitempty"`
	OrderNo        string           `json:"order_no,omitempty"`
	WarehouseOrgID *uuid.UUID       `json:"warehouse_org_id,omitempty"`
	ReceivedAt     *time.Time       `json:"received_at,omitempty"`
	TotalProducts  int              `json:"total_products"`
}

// InventoryUpdate is one variant-level inventory effect, including the
// post-update snapshot when it could be read back.
type InventoryUpdate struct {
	VariantID         uuid.UUID        `json:"variant_id"`
	Quantity          decimal.Decimal  `json:"quantity"`
	MovementID        *uuid.UUID       `json:"movement_id,omitempty"`
	CasesIncrement    int              `json:"cases_increment"`
	QuantityOnHand    *decimal.Decimal `json:"quantity_on_hand,omitempty"`
	QuantityAvailable *decimal.Decimal `json:"quantity_available,omitempty"`
}

// ReceiveResult is one outcome record per submitted code.
type ReceiveResult struct {
	Outcome          enums.ReceiveOutcome `json:"outcome"`
	Message          string               `json:"message"`
	MasterCode       string               `json:"master_code"`
	CaseInfo         *CaseInfo            `json:"case_info,omitempty"`
	OrderID          *uuid.UUID           `json:"order_id,omitempty"`
	WarehouseOrgID   *uuid.UUID           `json:"warehouse_org_id,omitempty"`
	ReceivedAt       *time.Time           `json:"received_at,omitempty"`
	InventoryUpdates []InventoryUpdate    `json:"inventory_updates,omitempty"`
	InventoryWarning string               `json:"inventory_warning,omitempty"`
	Details          string               `json:"details,omitempty"`
}

// Summary counts results per outcome category.
type Summary struct {
	Received         int `json:"received"`
	AlreadyReceived  int `json:"alreadyReceived"`
	WrongOrder       int `json:"wrongOrder"`
	NotFound         int `json:"notFound"`
	InvalidStatus    int `json:"invalidStatus"`
	DuplicateRequest int `json:"duplicateRequest"`
	InvalidFormat    int `json:"invalidFormat"`
	Errors           int `json:"errors"`
}

// ReceiveResponse is the receive-master response body. Single-result requests
// promote the result's fields to the top level.
type ReceiveResponse struct {
	Success        bool            `json:"success"`
	Results        []ReceiveResult `json:"results"`
	Summary        Summary         `json:"summary"`
	CaseInfo       *CaseInfo       `json:"case_info,omitempty"`
	MasterCode     string          `json:"master_code,omitempty"`
	MasterStatus   string          `json:"master_status,omitempty"`
	OrderID        *uuid.UUID      `json:"order_id,omitempty"`
	WarehouseOrgID *uuid.UUID      `json:"warehouse_org_id,omitempty"`
	ReceivedAt     *time.Time      `json:"received_at,omitempty"`
	Message        string          `json:"message,omitempty"`

	HTTPStatus int `json:"-"`
}

func summarize(results []ReceiveResult) Summary {
	var s Summary
	for _, r := range results {
		switch r.Outcome {
		case enums.ReceiveOutcomeReceived:
			s.Received++
		case enums.ReceiveOutcomeAlreadyReceived:
			s.AlreadyReceived++
		case enums.ReceiveOutcomeWrongOrder:
			s.WrongOrder++
		case enums.ReceiveOutcomeNotFound:
			s.NotFound++
		case enums.ReceiveOutcomeInvalidStatus:
			s.InvalidStatus++
		case enums.ReceiveOutcomeDuplicateRequest:
			s.DuplicateRequest++
		case enums.ReceiveOutcomeInvalidFormat:
			s.InvalidFormat++
		default:
			s.Errors++
		}
	}
	return s
}

func buildResponse(results []ReceiveResult) *ReceiveResponse {
	summary := summarize(results)
	resp := &ReceiveResponse{
		Success:    summary.Received > 0,
		Results:    results,
		Summary:    summary,
		HTTPStatus: http.StatusOK,
	}
	if len(results) == 1 {
		only := results[0]
		resp.CaseInfo = only.CaseInfo
		resp.MasterCode = only.MasterCode
		if only.CaseInfo != nil {
			resp.MasterStatus = only.CaseInfo.Status.String()
		}
		resp.OrderID = only.OrderID
		resp.WarehouseOrgID = only.WarehouseOrgID
		resp.ReceivedAt = only.ReceivedAt
		resp.Message = only.Message
		resp.HTTPStatus = only.Outcome.HTTPStatus()
	}
	return resp
}

func caseInfoFromModel(kase *models.MasterCase, lin lineage, totalProducts int) *CaseInfo {
	return &CaseInfo{
		ID:             kase.ID,
		Code:           kase.Code,
		Status:         kase.Status,
		CaseNumber:     kase.CaseNumber,
		ExpectedUnits:  kase.ExpectedUnits,
		ActualUnits:    kase.ActualUnits,
		OrderID:        lin.orderID,
		OrderNo:        lin.orderNo,
		WarehouseOrgID: lin.warehouseOrgID,
		ReceivedAt:     kase.WarehouseReceivedAt,
		TotalProducts:  totalProducts,
	}
}
