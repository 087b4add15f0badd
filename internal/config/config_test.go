package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 37707 {
		t.Errorf("port = %d, want default 37707", cfg.Server.Port)
	}
	if cfg.Forward.Calendar != "none" {
		t.Errorf("calendar = %q, want none", cfg.Forward.Calendar)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `
storage:
  base_path: /tmp/notes
server:
  port: 9000
forward:
  calendar: caldav
  caldav_url: https://dav.example.com/todos
projects:
  - work
  - home
`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Storage.BasePath != "/tmp/notes" {
		t.Errorf("base_path = %q", cfg.Storage.BasePath)
	}
	if cfg.Server.Port != 9000 {
		t.Errorf("port = %d", cfg.Server.Port)
	}
	if cfg.Forward.Calendar != "caldav" {
		t.Errorf("calendar = %q", cfg.Forward.Calendar)
	}
	if len(cfg.Projects) != 2 || cfg.Projects[0] != "work" {
		t.Errorf("projects = %v", cfg.Projects)
	}
	// Unset fields keep their defaults.
	if cfg.Forward.SMTPPort != 587 {
		t.Errorf("smtp_port = %d, want default 587", cfg.Forward.SMTPPort)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("MINUTE_NOTES_PATH", "/env/notes")
	t.Setenv("MINUTE_CALDAV_TOKEN", "sekrit")
	t.Setenv("MINUTE_PORT", "8080")

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Storage.BasePath != "/env/notes" {
		t.Errorf("base_path = %q", cfg.Storage.BasePath)
	}
	if cfg.Forward.CalDAVToken != "sekrit" {
		t.Errorf("token not taken from env")
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("port = %d, want 8080", cfg.Server.Port)
	}
}

func TestListenAddr(t *testing.T) {
	cfg := Default()
	if got := cfg.ListenAddr(); got != "127.0.0.1:37707" {
		t.Errorf("ListenAddr = %q", got)
	}
}
