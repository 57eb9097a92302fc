package routes

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/jasperlim/tracelink-backend/internal/auth"
	"github.com/jasperlim/tracelink-backend/internal/inventory"
	"github.com/jasperlim/tracelink-backend/internal/receiving"
	pkgAuth "github.com/jasperlim/tracelink-backend/pkg/auth"
	"github.com/jasperlim/tracelink-backend/pkg/auth/session"
	"github.com/jasperlim/tracelink-backend/pkg/config"
	"github.com/jasperlim/tracelink-backend/pkg/db/models"
	"github.com/jasperlim/tracelink-backend/pkg/enums"
	"github.com/jasperlim/tracelink-backend/pkg/logger"
	"github.com/jasperlim/tracelink-backend/pkg/redis"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error {
	return nil
}

type stubSessionChecker struct{}

func (stubSessionChecker) HasSession(ctx context.Context, accessID string) (bool, error) {
	return true, nil
}

type stubAuthService struct{}

func (stubAuthService) Login(ctx context.Context, req auth.LoginRequest) (*auth.LoginResponse, error) {
	return nil, fmt.Errorf("not implemented")
}

func (stubAuthService) Refresh(ctx context.Context, accessToken string, req auth.RefreshRequest) (*auth.RefreshResponse, error) {
	return nil, fmt.Errorf("not implemented")
}

func (stubAuthService) Logout(ctx context.Context, accessToken string) error {
	return nil
}

type stubCaseStore struct {
	kase *models.MasterCase
}

func (s *stubCaseStore) FindCaseByCode(ctx context.Context, code string) (*models.MasterCase, error) {
	if s.kase == nil || s.kase.Code != code {
		return nil, gorm.ErrRecordNotFound
	}
	return s.kase, nil
}

func (s *stubCaseStore) ReloadCase(ctx context.Context, id uuid.UUID) (*models.MasterCase, error) {
	return s.kase, nil
}

func (s *stubCaseStore) LoadChildCodes(ctx context.Context, caseID uuid.UUID) ([]models.UniqueCode, error) {
	return nil, nil
}

func (s *stubCaseStore) MarkCaseReceived(ctx context.Context, caseID, warehouseOrgID uuid.UUID, receivedAt time.Time, receivedBy *uuid.UUID) (int64, error) {
	return 1, nil
}

func (s *stubCaseStore) UpdateChildCodes(ctx context.Context, caseID, warehouseOrgID uuid.UUID, at time.Time, by *uuid.UUID) error {
	return nil
}

func (s *stubCaseStore) FindOrderItems(ctx context.Context, orderID uuid.UUID) ([]models.OrderItem, error) {
	return nil, nil
}

func (s *stubCaseStore) InsertCaseMovementLog(ctx context.Context, entry models.CaseMovementLog) error {
	return nil
}

type stubInventoryStore struct{}

func (stubInventoryStore) RecordReceiveMovement(ctx context.Context, p inventory.MovementParams) (uuid.UUID, error) {
	return uuid.New(), nil
}

func (stubInventoryStore) ApplyReceiveAdjustment(ctx context.Context, variantID, orgID uuid.UUID, quantity decimal.Decimal, casesIncrement int) error {
	return nil
}

func (stubInventoryStore) UnitsPerCase(ctx context.Context, variantIDs []uuid.UUID) (map[uuid.UUID]int, error) {
	return map[uuid.UUID]int{}, nil
}

func (stubInventoryStore) Snapshot(ctx context.Context, variantID, orgID uuid.UUID) (*models.ProductInventory, error) {
	return nil, nil
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test", Port: "0"},
		JWT: config.JWTConfig{
			Secret:            "router-test-secret",
			Issuer:            "tracelink-test",
			ExpirationMinutes: 15,
		},
	}
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "router-test", Output: io.Discard})
}

func newTestRouter(t *testing.T, cfg *config.Config, cases *stubCaseStore) http.Handler {
	t.Helper()

	svc, err := receiving.NewService(receiving.ServiceParams{
		CaseRepo:      cases,
		InventoryRepo: stubInventoryStore{},
		Logger:        testLogger(),
	})
	if err != nil {
		t.Fatalf("build receiving service: %v", err)
	}

	return NewRouter(Deps{
		Config:           cfg,
		Logger:           testLogger(),
		DB:               stubPinger{},
		Redis:            (*redis.Client)(nil),
		SessionChecker:   stubSessionChecker{},
		AuthService:      stubAuthService{},
		ReceivingService: svc,
	})
}

func buildToken(t *testing.T, cfg *config.Config, role enums.UserRole) string {
	t.Helper()

	warehouseOrg := uuid.New()
	token, err := pkgAuth.MintAccessToken(cfg.JWT, time.Now(), pkgAuth.AccessTokenPayload{
		UserID: uuid.New(),
		OrgID:  &warehouseOrg,
		Role:   role,
		JTI:    session.NewAccessID(),
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

func TestHealthLive(t *testing.T) {
	router := newTestRouter(t, testConfig(), &stubCaseStore{})
	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}

func TestWarehouseGroupRejectsMissingJWT(t *testing.T) {
	router := newTestRouter(t, testConfig(), &stubCaseStore{})
	req := httptest.NewRequest(http.MethodPost, "/api/warehouse/receive-master", strings.NewReader(`{"master_code":"X"}`))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token got %d", resp.Code)
	}

	// The envelope shape would fail this unmarshal; scanner failures are flat.
	var body map[string]string
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("parse 401 body: %v", err)
	}
	if body["message"] != "Unauthorized" {
		t.Fatalf("expected flat Unauthorized message, got %s", resp.Body.String())
	}
}

func TestWarehouseGroupRequiresWarehouseRole(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(t, cfg, &stubCaseStore{})

	req := httptest.NewRequest(http.MethodGet, "/api/warehouse/receiving-status", nil)
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRoleManufacturer))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for manufacturer got %d", resp.Code)
	}
}

func TestReceiveMasterRequiresACode(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(t, cfg, &stubCaseStore{})

	req := httptest.NewRequest(http.MethodPost, "/api/warehouse/receive-master", strings.NewReader(`{}`))
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRoleWarehouseStaff))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for empty body got %d", resp.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("parse 400 body: %v", err)
	}
	if body["message"] != "master_code is required" {
		t.Fatalf("expected flat master_code is required message, got %s", resp.Body.String())
	}
}

func TestReceiveMasterHappyPath(t *testing.T) {
	cfg := testConfig()
	warehouseOrg := uuid.New()
	cases := &stubCaseStore{
		kase: &models.MasterCase{
			ID:             uuid.New(),
			Code:           "CASE-ROUTER-1",
			Status:         enums.CaseStatusPacked,
			ExpectedUnits:  4,
			ActualUnits:    4,
			WarehouseOrgID: &warehouseOrg,
		},
	}
	router := newTestRouter(t, cfg, cases)

	req := httptest.NewRequest(http.MethodPost, "/api/warehouse/receive-master", strings.NewReader(`{"master_code":"CASE-ROUTER-1"}`))
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRoleWarehouseStaff))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}

	var body receiving.ReceiveResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !body.Success {
		t.Fatalf("expected success, got %+v", body)
	}
	if body.Summary.Received != 1 {
		t.Fatalf("expected one received, got %+v", body.Summary)
	}
	if body.MasterStatus != "received_warehouse" {
		t.Fatalf("expected promoted master_status, got %q", body.MasterStatus)
	}
}

func TestReceiveMasterNotFoundMapsTo404(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(t, cfg, &stubCaseStore{})

	req := httptest.NewRequest(http.MethodPost, "/api/warehouse/receive-master", strings.NewReader(`{"master_code":"MISSING"}`))
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRoleWarehouseStaff))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", resp.Code)
	}
}
