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
	ProviderName = "storefront-api"
	ConsumerName = "checkout-web"

	StateCartReady        = "cart 101 is ready for checkout"
	StateCartExceedsStock = "cart 102 asks for more than is in stock"
	StateOrderMissing     = "no order with id 999"
)

const (
	UserID         int64 = 501
	ProductID      int64 = 201
	ReadyCartID    int64 = 101
	ShortCartID    int64 = 102
	MissingOrderID int64 = 999

	ProductName        = "Pact Lamp"
	ProductPrice       = "12.50"
	ProductStock int32 = 3
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

// PactFile returns the canonical pact file path for the checkout consumer.
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

// ExampleShipping is the destination the consumer sends on checkout.
func ExampleShipping() map[string]string {
	return map[string]string{
		"address": "742 Evergreen Terrace",
		"city":    "Springfield",
		"zipCode": "49007",
		"country": "US",
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
