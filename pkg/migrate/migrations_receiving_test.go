package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func readMigration(t *testing.T, pattern string) string {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join("migrations", pattern))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no migration matching %q found", pattern)
	}
	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	return string(data)
}

func TestQRTrackingMigrationContainsConstraints(t *testing.T) {
	content := readMigration(t, "*_create_qr_tracking.sql")

	checks := []string{
		"CREATE TABLE IF NOT EXISTS qr_master_codes",
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_qr_master_codes_code",
		"'received_warehouse'",
		"CREATE TABLE IF NOT EXISTS qr_codes",
		"master_case_id           UUID REFERENCES qr_master_codes(id)",
		"CREATE TABLE IF NOT EXISTS qr_movements",
		"CREATE TABLE IF NOT EXISTS qr_reverse_jobs",
	}
	for _, want := range checks {
		if !strings.Contains(content, want) {
			t.Errorf("qr tracking migration missing %q", want)
		}
	}
}

func TestStockLedgerMigrationContainsConstraints(t *testing.T) {
	content := readMigration(t, "*_create_stock_ledger_and_outbox.sql")

	checks := []string{
		"CREATE TABLE IF NOT EXISTS stock_movements",
		"CHECK (quantity > 0)",
		"CREATE TABLE IF NOT EXISTS notifications_outbox",
		"WHERE published_at IS NULL",
	}
	for _, want := range checks {
		if !strings.Contains(content, want) {
			t.Errorf("stock ledger migration missing %q", want)
		}
	}
}

func TestInventoryProceduresMigrationDefinesFunctions(t *testing.T) {
	content := readMigration(t, "*_create_inventory_procedures.sql")

	checks := []string{
		"CREATE OR REPLACE FUNCTION record_stock_movement",
		"RETURNING id INTO v_movement_id",
		"CREATE OR REPLACE FUNCTION apply_inventory_receive_adjustment",
		"ON CONFLICT (variant_id, org_id) DO UPDATE",
	}
	for _, want := range checks {
		if !strings.Contains(content, want) {
			t.Errorf("inventory procedures migration missing %q", want)
		}
	}
}
