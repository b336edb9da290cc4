package updater

import (
	"testing"
)

func TestCheckWritePermission(t *testing.T) {
	// The test binary lives in a writable temp dir, so this should pass.
	canWrite, reason := checkWritePermission()
	if !canWrite {
		t.Skipf("test binary directory not writable: %s", reason)
	}
	if reason != "" {
		t.Errorf("expected empty reason when writable, got %q", reason)
	}
}

func TestNew(t *testing.T) {
	u, err := New(DefaultRepository, false)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	if u.updater == nil {
		t.Error("expected configured updater")
	}
}
