package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
database:
  driver: postgres
  host: localhost
  port: 5432
  user: moodsense
  name: moodsense
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Server.Port != 8000 {
		t.Errorf("port = %d, want 8000", cfg.Server.Port)
	}
	if cfg.Server.RateLimit.Capacity != 60 {
		t.Errorf("rate limit capacity = %d, want 60", cfg.Server.RateLimit.Capacity)
	}
	if cfg.Limits.MaxAudioMB != 10 || cfg.Limits.MaxImageMB != 5 {
		t.Errorf("limits = %+v", cfg.Limits)
	}
	if cfg.Limits.MaxMessageChars != 4000 {
		t.Errorf("max message chars = %d", cfg.Limits.MaxMessageChars)
	}
	if len(cfg.Limits.AudioExtensions) != 1 || cfg.Limits.AudioExtensions[0] != ".wav" {
		t.Errorf("audio extensions = %v", cfg.Limits.AudioExtensions)
	}
	if cfg.Risk.Medium != 0.5 || cfg.Risk.High != 0.7 || cfg.Risk.Critical != 0.85 {
		t.Errorf("risk thresholds = %+v", cfg.Risk)
	}
	if cfg.Privacy.StoreMedia {
		t.Error("media retention must default to off")
	}
}

func TestLoadOverrides(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9090
  apiKeys: ["k1", "k2"]
database:
  driver: mysql
  host: db.internal
  port: 3306
  user: app
  password: pw
  name: mood
privacy:
  storeMedia: true
risk:
  medium: 0.4
  high: 0.6
  critical: 0.8
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("port = %d", cfg.Server.Port)
	}
	if len(cfg.Server.APIKeys) != 2 {
		t.Errorf("api keys = %v", cfg.Server.APIKeys)
	}
	if !cfg.Privacy.StoreMedia {
		t.Error("storeMedia override lost")
	}
	if cfg.Risk.High != 0.6 {
		t.Errorf("risk high = %v", cfg.Risk.High)
	}
}

func TestLoadRejectsUnknownDriver(t *testing.T) {
	path := writeConfig(t, `
database:
  driver: sqlite
`)

	if _, err := Load(path); err == nil {
		t.Fatal("expected error for unknown driver")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestDSNHelpers(t *testing.T) {
	path := writeConfig(t, `
database:
  driver: mysql
  host: db.internal
  port: 3306
  user: app
  password: pw
  name: mood
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}

	dsn := cfg.MySQLDSN()
	if !strings.Contains(dsn, "app:pw@tcp(db.internal:3306)/mood") {
		t.Errorf("mysql dsn = %q", dsn)
	}
	if !strings.Contains(dsn, "parseTime=true") {
		t.Errorf("mysql dsn missing parseTime: %q", dsn)
	}

	cfg.Database.Driver = "postgres"
	pg := cfg.PostgresDSN()
	for _, part := range []string{"host=db.internal", "port=3306", "user=app", "dbname=mood", "password=pw", "sslmode=disable"} {
		if !strings.Contains(pg, part) {
			t.Errorf("postgres dsn missing %q: %q", part, pg)
		}
	}
}
