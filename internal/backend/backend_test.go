package backend

import (
	"context"
	"path/filepath"
	"testing"

	"moneytrack/internal/config"
)

func TestBackendTypeIsValid(t *testing.T) {
	tests := []struct {
		backendType BackendType
		valid       bool
	}{
		{SQLiteBackend, true},
		{MemoryBackend, true},
		{BackendType("sheets"), false},
		{BackendType(""), false},
	}

	for _, tt := range tests {
		if got := tt.backendType.IsValid(); got != tt.valid {
			t.Errorf("IsValid(%q) = %v, want %v", tt.backendType, got, tt.valid)
		}
	}
}

func TestCreateMemoryBackend(t *testing.T) {
	factory := NewFactory(nil)

	result, err := factory.Create(&config.Config{DataBackend: "memory"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	defer result.Cleanup()

	ctx := context.Background()
	if err := result.KV.Set(ctx, "k", "v"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	value, ok, err := result.KV.Get(ctx, "k")
	if err != nil || !ok || value != "v" {
		t.Errorf("Get = (%q, %v, %v), want (v, true, nil)", value, ok, err)
	}
}

func TestCreateSQLiteBackend(t *testing.T) {
	factory := NewFactory(nil)

	result, err := factory.Create(&config.Config{
		DataBackend:  "sqlite",
		SQLiteDBPath: filepath.Join(t.TempDir(), "test.db"),
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	defer result.Cleanup()

	ctx := context.Background()
	if err := result.KV.Set(ctx, "k", "v"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	value, ok, err := result.KV.Get(ctx, "k")
	if err != nil || !ok || value != "v" {
		t.Errorf("Get = (%q, %v, %v), want (v, true, nil)", value, ok, err)
	}
}

func TestCreateUnknownBackend(t *testing.T) {
	factory := NewFactory(nil)

	if _, err := factory.Create(&config.Config{DataBackend: "sheets"}); err == nil {
		t.Fatal("expected error for unknown backend")
	}
}
