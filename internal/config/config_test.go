package config

import (
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_MissingFile_ReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Workers != Default().Workers {
		t.Errorf("Workers = %d, want default %d", cfg.Workers, Default().Workers)
	}
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hydra.yaml")
	cfg := Default()
	cfg.Workers = 8
	cfg.CommitInterval = 10 * time.Second

	if err := Save(cfg, path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Workers != 8 {
		t.Errorf("Workers = %d, want 8", loaded.Workers)
	}
	if loaded.CommitInterval != 10*time.Second {
		t.Errorf("CommitInterval = %s, want 10s", loaded.CommitInterval)
	}
}

func TestValidate_RejectsBadHashAlgorithm(t *testing.T) {
	cfg := Default()
	cfg.HashAlgorithm = "md5"
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for unsupported hash algorithm")
	}
}

func TestValidate_RejectsNonPositiveWorkers(t *testing.T) {
	cfg := Default()
	cfg.Workers = 0
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for zero workers")
	}
}
