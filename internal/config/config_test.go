package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Addr != "127.0.0.1:8080" || cfg.DBPath != "omni-reader.db" {
		t.Fatalf("defaults = %+v", cfg)
	}
}

func TestLoad_MissingFileIsNotAnError(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.toml")); err != nil {
		t.Fatalf("Load: %v", err)
	}
}

func TestLoad_FileThenEnvPrecedence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "omni-reader.toml")
	content := "addr = \"0.0.0.0:9000\"\ndb_path = \"/var/lib/omni.db\"\nntfy_topic = \"https://ntfy.sh/omni\"\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Addr != "0.0.0.0:9000" || cfg.NtfyTopic != "https://ntfy.sh/omni" {
		t.Fatalf("file values = %+v", cfg)
	}

	// L'environnement gagne sur le fichier.
	t.Setenv("OMNI_ADDR", "127.0.0.1:7000")
	cfg, err = Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Addr != "127.0.0.1:7000" {
		t.Fatalf("env precedence: addr = %s", cfg.Addr)
	}
	if cfg.DBPath != "/var/lib/omni.db" {
		t.Fatalf("db_path = %s", cfg.DBPath)
	}
}

func TestLoad_MalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.toml")
	if err := os.WriteFile(path, []byte("addr = ["), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for malformed toml")
	}
}
