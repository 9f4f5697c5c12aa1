//go:build pact
// +build pact

package pacttest

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

const (
	ProviderName = "dairy-storefront-api"
	ConsumerName = "order-console"

	StateAdminAccount = "admin account dairy-admin exists"
	StateAdminSession = "admin session pact-admin-token is active"
	StateOrdersBase   = "orders baseline with one pending and one delivered order"
	StateNoSession    = "no session is active"
)

const (
	AdminUsername = "dairy-admin"
	AdminPassword = "churned-butter"
	AdminToken    = "pact-admin-token"

	PendingOrderID   = "ord-pending-1"
	DeliveredOrderID = "ord-delivered-1"
)

// PactDir returns the workspace-level directory for generated pact files.
func PactDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "pacts")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact dir: %v", err)
	}
	return dir
}

// PactFile returns the canonical pact file path for the order console consumer.
func PactFile(t testing.TB) string {
	t.Helper()
	return filepath.Join(PactDir(t), ConsumerName+"-"+ProviderName+".json")
}

// LogDir returns the log output directory for pact-go.
func LogDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "bin", "pact-logs")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact log dir: %v", err)
	}
	return dir
}

// ExamplePendingOrder is the order the consumer expects to see under the Pending filter.
func ExamplePendingOrder() map[string]any {
	return map[string]any{
		"id":     PendingOrderID,
		"status": "Pending",
		"items": []map[string]any{
			{"name": "Kefir 750ml", "quantity": 2, "price": "2.79"},
		},
		"total": "5.58",
		"customerInfo": map[string]any{
			"fullName": "Pact Customer",
			"email":    "pact.customer@example.com",
		},
	}
}

// projectRoot walks up from this file to the workspace root.
func projectRoot(t testing.TB) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("cannot determine caller for pact paths")
	}
	return filepath.Clean(filepath.Join(filepath.Dir(file), "..", ".."))
}
