package keyring

import (
	"testing"

	gokeyring "github.com/zalando/go-keyring"
)

func TestSetAndGetConnectionString(t *testing.T) {
	gokeyring.MockInit()

	testConnStr := "postgres://testuser@localhost:5432/chronos?sslmode=disable"
	if err := SetConnectionString(testConnStr); err != nil {
		t.Fatalf("SetConnectionString() failed: %v", err)
	}

	retrieved, err := GetConnectionString()
	if err != nil {
		t.Fatalf("GetConnectionString() failed: %v", err)
	}
	if retrieved != testConnStr {
		t.Errorf("GetConnectionString() = %q, want %q", retrieved, testConnStr)
	}
}

func TestSetEmpty(t *testing.T) {
	gokeyring.MockInit()

	if err := SetStatsToken(""); err == nil {
		t.Error("SetStatsToken(\"\") should return an error")
	}
}

func TestGetNotFound(t *testing.T) {
	gokeyring.MockInit()

	_ = Delete("missing-account")
	if _, err := Get("missing-account"); err != ErrNotFound {
		t.Errorf("Get() error = %v, want %v", err, ErrNotFound)
	}
}

func TestStatsTokenLifecycle(t *testing.T) {
	gokeyring.MockInit()

	if err := SetStatsToken("tok-123"); err != nil {
		t.Fatalf("SetStatsToken() failed: %v", err)
	}
	got, err := GetStatsToken()
	if err != nil || got != "tok-123" {
		t.Fatalf("GetStatsToken() = %q, %v", got, err)
	}

	if err := Delete("stats-token"); err != nil {
		t.Fatalf("Delete() failed: %v", err)
	}
	if _, err := GetStatsToken(); err != ErrNotFound {
		t.Errorf("after Delete, GetStatsToken() error = %v, want %v", err, ErrNotFound)
	}
	if err := Delete("stats-token"); err != ErrNotFound {
		t.Errorf("second Delete() error = %v, want %v", err, ErrNotFound)
	}
}

func TestIsAvailableWithMock(t *testing.T) {
	gokeyring.MockInit()
	if !IsAvailable() {
		t.Error("mock keyring should report available")
	}
}
