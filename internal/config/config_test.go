package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestInitCreatesDalaliLayout(t *testing.T) {
	baseDir := t.TempDir()
	if err := Init(baseDir); err != nil {
		t.Fatalf("Init returned error: %v", err)
	}
	for _, rel := range []string{"logs", "state"} {
		info, err := os.Stat(filepath.Join(baseDir, DalaliDir, rel))
		if err != nil {
			t.Fatalf("expected %s dir: %v", rel, err)
		}
		if !info.IsDir() {
			t.Fatalf("%s is not a directory", rel)
		}
	}
	data, err := os.ReadFile(filepath.Join(baseDir, DalaliDir, "config.yaml"))
	if err != nil {
		t.Fatalf("expected config.yaml: %v", err)
	}
	if !strings.Contains(string(data), "version: 1") {
		t.Fatalf("default config missing version: %s", data)
	}
}

func TestInitKeepsExistingConfig(t *testing.T) {
	baseDir := t.TempDir()
	if err := Init(baseDir); err != nil {
		t.Fatal(err)
	}
	custom := "version: 1\napi:\n  url: https://api.example.com\n"
	path := filepath.Join(baseDir, DalaliDir, "config.yaml")
	if err := os.WriteFile(path, []byte(custom), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := Init(baseDir); err != nil {
		t.Fatal(err)
	}
	data, _ := os.ReadFile(path)
	if string(data) != custom {
		t.Fatalf("Init overwrote an existing config file")
	}
}

func TestLoadDefaultsWhenFileMissing(t *testing.T) {
	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.APIURL() != "http://localhost:8000" {
		t.Fatalf("default api url = %q", cfg.APIURL())
	}
	if cfg.Timeout() != 15*time.Second {
		t.Fatalf("default timeout = %s", cfg.Timeout())
	}
}

func TestLoadParsesYamlAndTrimsSlash(t *testing.T) {
	baseDir := t.TempDir()
	if err := Init(baseDir); err != nil {
		t.Fatal(err)
	}
	yaml := "version: 1\napi:\n  url: https://houses.example.com/\n  timeout: 30\n"
	if err := os.WriteFile(filepath.Join(baseDir, DalaliDir, "config.yaml"), []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(baseDir)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.APIURL() != "https://houses.example.com" {
		t.Fatalf("api url = %q, want trailing slash trimmed", cfg.APIURL())
	}
	if cfg.Timeout() != 30*time.Second {
		t.Fatalf("timeout = %s, want 30s", cfg.Timeout())
	}
}

func TestLoadEnvOverridesFile(t *testing.T) {
	baseDir := t.TempDir()
	if err := Init(baseDir); err != nil {
		t.Fatal(err)
	}
	t.Setenv("DALALI_API_URL", "https://override.example.com")
	t.Setenv("DALALI_TIMEOUT", "45")
	cfg, err := Load(baseDir)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.APIURL() != "https://override.example.com" {
		t.Fatalf("env override lost: %q", cfg.APIURL())
	}
	if cfg.Timeout() != 45*time.Second {
		t.Fatalf("timeout = %s, want 45s", cfg.Timeout())
	}
}

func TestLoadDotEnvOverridesFile(t *testing.T) {
	baseDir := t.TempDir()
	if err := Init(baseDir); err != nil {
		t.Fatal(err)
	}
	t.Setenv("DALALI_API_URL", "")
	dotenv := "DALALI_API_URL=https://dotenv.example.com\n"
	if err := os.WriteFile(filepath.Join(baseDir, ".env"), []byte(dotenv), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(baseDir)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.APIURL() != "https://dotenv.example.com" {
		t.Fatalf(".env override lost: %q", cfg.APIURL())
	}
}

func TestLoadRejectsBadScheme(t *testing.T) {
	baseDir := t.TempDir()
	if err := Init(baseDir); err != nil {
		t.Fatal(err)
	}
	t.Setenv("DALALI_API_URL", "ftp://houses.example.com")
	if _, err := Load(baseDir); err == nil {
		t.Fatal("expected error for non-http scheme")
	}
}

func TestTokenRoundTrip(t *testing.T) {
	baseDir := t.TempDir()
	if err := Init(baseDir); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(baseDir)
	if err != nil {
		t.Fatal(err)
	}
	if got := cfg.ReadToken(); got != "" {
		t.Fatalf("fresh dir returned token %q", got)
	}
	if err := cfg.SaveToken("abc.def.ghi"); err != nil {
		t.Fatalf("SaveToken: %v", err)
	}
	if got := cfg.ReadToken(); got != "abc.def.ghi" {
		t.Fatalf("ReadToken = %q", got)
	}
	info, err := os.Stat(cfg.TokenPath())
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Fatalf("token file mode = %v, want 0600", info.Mode().Perm())
	}
	if err := cfg.ClearToken(); err != nil {
		t.Fatalf("ClearToken: %v", err)
	}
	if got := cfg.ReadToken(); got != "" {
		t.Fatalf("token survived clear: %q", got)
	}
	// Clearing twice must stay a no-op.
	if err := cfg.ClearToken(); err != nil {
		t.Fatalf("second ClearToken: %v", err)
	}
}

func TestSaveEmptyTokenClears(t *testing.T) {
	baseDir := t.TempDir()
	if err := Init(baseDir); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(baseDir)
	if err != nil {
		t.Fatal(err)
	}
	if err := cfg.SaveToken("something"); err != nil {
		t.Fatal(err)
	}
	if err := cfg.SaveToken("  "); err != nil {
		t.Fatal(err)
	}
	if got := cfg.ReadToken(); got != "" {
		t.Fatalf("blank save should clear, got %q", got)
	}
}
