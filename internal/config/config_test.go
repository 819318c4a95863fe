package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"crossgrid/internal/grid"
)

func TestDecodeOverlaysDefaults(t *testing.T) {
	cfg := Default()
	want := cfg
	want.Grid.Rows = 7
	want.Log.Level = "debug"
	want.UI.MessageTTL = Duration(90 * time.Second)

	err := cfg.Decode([]byte(`
[grid]
rows = 7

[log]
level = "debug"

[ui]
message_ttl = "1m30s"
`))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeError(t *testing.T) {
	cfg := Default()
	err := cfg.Decode([]byte("[grid]\nrows = \n"))
	if err == nil || !strings.Contains(err.Error(), "config parse error") {
		t.Errorf("expected a parse error, got %v", err)
	}
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"CROSSGRID_GRID_COLS":          "9",
		"CROSSGRID_UI_SPLASH":          "false",
		"CROSSGRID_STORAGE_SESSION_DB": ":memory:",
		"CROSSGRID_UI_MESSAGE_TTL":     "250ms",
	}
	lookup := func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}

	cfg := Default()
	if err := cfg.ApplyEnv(lookup); err != nil {
		t.Fatalf("ApplyEnv failed: %v", err)
	}
	if cfg.Grid.Cols != 9 || cfg.UI.Splash || cfg.Storage.SessionDB != ":memory:" {
		t.Errorf("overrides not applied: %+v", cfg)
	}
	if time.Duration(cfg.UI.MessageTTL) != 250*time.Millisecond {
		t.Errorf("MessageTTL = %v", time.Duration(cfg.UI.MessageTTL))
	}

	env["CROSSGRID_GRID_ROWS"] = "many"
	if err := cfg.ApplyEnv(lookup); err == nil || !strings.Contains(err.Error(), "CROSSGRID_GRID_ROWS") {
		t.Errorf("expected an error naming the variable, got %v", err)
	}
}

func TestLoadPrecedence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	os.WriteFile(path, []byte("[grid]\nrows = 8\ncols = 8\n"), 0o644)
	t.Setenv("CROSSGRID_GRID_COLS", "4")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Size() != (grid.Size{Rows: 8, Cols: 4}) {
		t.Errorf("Size() = %v", cfg.Size())
	}
}

func TestLoadMissingFile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())
	if _, err := Load(""); err != nil {
		t.Errorf("missing default file should be ignored, got %v", err)
	}
	if _, err := Load(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Error("missing explicit file should be an error")
	}
}

func TestSizeClamped(t *testing.T) {
	cfg := Default()
	cfg.Grid = GridConfig{Rows: 1, Cols: 40}
	if got := cfg.Size(); got != (grid.Size{Rows: grid.MinSize, Cols: grid.MaxSize}) {
		t.Errorf("Size() = %v", got)
	}
}

func TestOpenLog(t *testing.T) {
	file := filepath.Join(t.TempDir(), "logs", "crossgrid.log")
	log, closeLog, err := LogConfig{Level: "warn", File: file}.OpenLog()
	if err != nil {
		t.Fatalf("OpenLog failed: %v", err)
	}
	log.Info("hidden")
	log.Warn("shown", "k", 1)
	closeLog()

	data, err := os.ReadFile(file)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(data), "hidden") || !strings.Contains(string(data), "msg=shown") {
		t.Errorf("unexpected log output: %q", data)
	}

	if _, _, err := (LogConfig{Level: "loud"}).OpenLog(); err == nil {
		t.Error("expected an error for an unknown level")
	}
}
