package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"TASKLIST_PORT", "PORT", "TASKLIST_DB_PATH", "DB_PATH", "TASKLIST_STORAGE_KEY"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Server.Port != "8080" {
		t.Errorf("Expected port '8080', got '%s'", cfg.Server.Port)
	}
	if cfg.Storage.Key != "tasks" {
		t.Errorf("Expected storage key 'tasks', got '%s'", cfg.Storage.Key)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Expected default config to be valid: %v", err)
	}
}

func TestLoad_WrittenDefaultMatchesDefaults(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "tasklist.yaml")

	if err := WriteDefault(path); err != nil {
		t.Fatalf("WriteDefault failed: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if *cfg != *DefaultConfig() {
		t.Errorf("Expected %+v, got %+v", *DefaultConfig(), *cfg)
	}
}

func TestWriteDefault_RefusesOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasklist.yaml")
	if err := os.WriteFile(path, []byte("server: {}\n"), 0644); err != nil {
		t.Fatal(err)
	}

	if err := WriteDefault(path); err == nil {
		t.Error("Expected error when file exists")
	}
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "tasklist.yaml")
	content := "server:\n  port: \"9090\"\nstorage:\n  path: /tmp/other.db\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Server.Port != "9090" {
		t.Errorf("Expected port '9090', got '%s'", cfg.Server.Port)
	}
	if cfg.Storage.Path != "/tmp/other.db" {
		t.Errorf("Expected path '/tmp/other.db', got '%s'", cfg.Storage.Path)
	}
	if cfg.Storage.Key != "tasks" {
		t.Errorf("Expected default key to survive, got '%s'", cfg.Storage.Key)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "tasklist.yaml")
	if err := os.WriteFile(path, []byte("server:\n  port: \"9090\"\n"), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("TASKLIST_PORT", "7070")
	t.Setenv("TASKLIST_STORAGE_KEY", "work")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Server.Port != "7070" {
		t.Errorf("Expected port '7070', got '%s'", cfg.Server.Port)
	}
	if cfg.Storage.Key != "work" {
		t.Errorf("Expected key 'work', got '%s'", cfg.Storage.Key)
	}
}

func TestLoad_LegacyEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "3000")
	t.Setenv("DB_PATH", "/var/lib/tasks.db")

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("Expected error for explicit missing config file")
	}

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Server.Port != "3000" {
		t.Errorf("Expected port '3000', got '%s'", cfg.Server.Port)
	}
	if cfg.Storage.Path != "/var/lib/tasks.db" {
		t.Errorf("Expected path '/var/lib/tasks.db', got '%s'", cfg.Storage.Path)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "non-numeric port", mutate: func(c *Config) { c.Server.Port = "http" }, wantErr: "invalid server port"},
		{name: "port out of range", mutate: func(c *Config) { c.Server.Port = "70000" }, wantErr: "invalid server port"},
		{name: "empty path", mutate: func(c *Config) { c.Storage.Path = "" }, wantErr: "storage path is required"},
		{name: "empty key", mutate: func(c *Config) { c.Storage.Key = "" }, wantErr: "storage key is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestYAML(t *testing.T) {
	out, err := DefaultConfig().YAML()
	if err != nil {
		t.Fatalf("YAML failed: %v", err)
	}
	if !strings.Contains(string(out), "key: tasks") {
		t.Errorf("Expected key in output, got:\n%s", out)
	}
}
