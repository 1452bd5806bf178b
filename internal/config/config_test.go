package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestNew_Defaults(t *testing.T) {
	dir := t.TempDir()
	cfg, err := New(dir)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if cfg.Dir != dir {
		t.Errorf("Dir = %q, want %q", cfg.Dir, dir)
	}
	want := Settings{
		BackendURL:      DefaultBackendURL,
		Timeout:         DefaultTimeout,
		ListenAddr:      DefaultListenAddr,
		ValidateTimeout: DefaultValidateTimeout,
	}
	if cfg.Settings != want {
		t.Errorf("Settings = %+v, want %+v", cfg.Settings, want)
	}
	if err := cfg.Settings.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestNew_SettingsFile(t *testing.T) {
	dir := t.TempDir()
	yaml := "backend_url: https://tasks.example.com/api\ntimeout: 4s\nsecret_key: abc\n"
	if err := os.WriteFile(filepath.Join(dir, SettingsFile), []byte(yaml), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := New(dir)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if cfg.Settings.BackendURL != "https://tasks.example.com/api" {
		t.Errorf("BackendURL = %q", cfg.Settings.BackendURL)
	}
	if cfg.Settings.Timeout != 4*time.Second {
		t.Errorf("Timeout = %s", cfg.Settings.Timeout)
	}
	if cfg.Settings.SecretKey != "abc" {
		t.Errorf("SecretKey = %q", cfg.Settings.SecretKey)
	}
	if cfg.Settings.ListenAddr != DefaultListenAddr {
		t.Errorf("ListenAddr = %q", cfg.Settings.ListenAddr)
	}
}

func TestNew_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, SettingsFile), []byte("secret_key: from-file\n"), 0600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("TASKDASH_SECRET_KEY", "from-env")
	t.Setenv("TASKDASH_LISTEN_ADDR", "127.0.0.1:8080")

	cfg, err := New(dir)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if cfg.Settings.SecretKey != "from-env" {
		t.Errorf("SecretKey = %q, want from-env", cfg.Settings.SecretKey)
	}
	if cfg.Settings.ListenAddr != "127.0.0.1:8080" {
		t.Errorf("ListenAddr = %q", cfg.Settings.ListenAddr)
	}
}

func TestNew_BadSettingsFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, SettingsFile), []byte("timeout: [\n"), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := New(dir); err == nil {
		t.Error("expected error for malformed config.yaml")
	}
}

func TestSettingsValidate(t *testing.T) {
	good := Settings{BackendURL: DefaultBackendURL, Timeout: time.Second, ValidateTimeout: time.Second}

	tests := []struct {
		name   string
		mutate func(*Settings)
	}{
		{"empty url", func(s *Settings) { s.BackendURL = "" }},
		{"no scheme", func(s *Settings) { s.BackendURL = "localhost:5000/api" }},
		{"zero timeout", func(s *Settings) { s.Timeout = 0 }},
		{"negative validate timeout", func(s *Settings) { s.ValidateTimeout = -time.Second }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := good
			tt.mutate(&s)
			if err := s.Validate(); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestDefaultConfigDir(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	if got := DefaultConfigDir(); got != filepath.Join("/tmp/xdg", AppName) {
		t.Errorf("DefaultConfigDir() = %q", got)
	}
}

func TestPaths(t *testing.T) {
	dir := t.TempDir()
	cfg := &Config{Dir: filepath.Join(dir, "nested")}

	if err := cfg.EnsureDir(); err != nil {
		t.Fatalf("EnsureDir: %v", err)
	}
	info, err := os.Stat(cfg.Dir)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0700 {
		t.Errorf("dir mode = %o, want 0700", info.Mode().Perm())
	}

	if filepath.Base(cfg.SessionPath()) != "user" {
		t.Errorf("SessionPath = %q", cfg.SessionPath())
	}
	if cfg.HasGoogleClient() || cfg.HasGoogleToken() {
		t.Error("fresh dir should have no google files")
	}
	if err := os.WriteFile(cfg.GoogleTokenPath(), []byte("{}"), 0600); err != nil {
		t.Fatal(err)
	}
	if !cfg.HasGoogleToken() {
		t.Error("HasGoogleToken = false after write")
	}
	if err := cfg.RemoveGoogleToken(); err != nil {
		t.Fatal(err)
	}
	if cfg.HasGoogleToken() {
		t.Error("HasGoogleToken = true after remove")
	}
}
