package calclog

import (
	"path/filepath"
	"testing"
)

// setupTestCore opens a journal in a temp directory that is removed after the test.
func setupTestCore(t *testing.T) *Core {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	core, err := Open(dbPath)
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	t.Cleanup(func() {
		core.Close()
	})
	return core
}

// amountEquals compares decimal values regardless of exponent.
func amountEquals(a Amount, want float64) bool {
	return a.Equal(NewAmount(want).Decimal)
}
