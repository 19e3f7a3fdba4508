package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/campuscart/campuscart-backend/pkg/migrate"
)

func TestMigrationsDirValidates(t *testing.T) {
	if err := migrate.ValidateDir("migrations"); err != nil {
		t.Fatalf("ValidateDir: %v", err)
	}
}

func TestMerchandiseMigrationContainsSchemas(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_create_merchandise_tables.sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no merchandise migration file found")
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	content := string(data)

	checks := []string{
		"CREATE TABLE IF NOT EXISTS merchandise",
		"CREATE TABLE IF NOT EXISTS merchandise_pictures",
		"CREATE TABLE IF NOT EXISTS variants",
		"CREATE TABLE IF NOT EXISTS sizes",
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_merch_categories_pair",
		"membership_price NUMERIC(12,2)",
		"tags TEXT[] NOT NULL DEFAULT ARRAY[]::TEXT[]",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestOrdersMigrationContainsSnapshots(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_create_orders_tables.sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no orders migration file found")
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	content := string(data)

	checks := []string{
		"CREATE TABLE IF NOT EXISTS orders",
		"merchandise_name TEXT NOT NULL",
		"variant_name TEXT NOT NULL",
		"unit_price NUMERIC(12,2) NOT NULL",
		"CREATE TABLE IF NOT EXISTS order_statuses",
		"order_id UUID NOT NULL UNIQUE REFERENCES orders(id) ON DELETE CASCADE",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}
