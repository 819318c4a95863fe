// Package config loads crossgrid settings. Values are layered: built-in
// defaults, then the TOML file, then CROSSGRID_* environment variables.
// Command-line flags are applied last by the caller.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"crossgrid/internal/grid"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "CROSSGRID_"

type Config struct {
	Grid    GridConfig    `toml:"grid"`
	Storage StorageConfig `toml:"storage"`
	Log     LogConfig     `toml:"log"`
	UI      UIConfig      `toml:"ui"`
}

type GridConfig struct {
	Rows int `toml:"rows"`
	Cols int `toml:"cols"`
}

type StorageConfig struct {
	ProjectsDir string `toml:"projects_dir"`
	SessionDB   string `toml:"session_db"`
}

type LogConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

type UIConfig struct {
	Splash     bool     `toml:"splash"`
	MessageTTL Duration `toml:"message_ttl"`
}

// Duration reads TOML strings such as "4s" or "1m30s".
type Duration time.Duration

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// Size returns the configured initial grid size, clamped to bounds.
func (c Config) Size() grid.Size {
	return grid.ClampSize(c.Grid.Rows, c.Grid.Cols)
}

// Default returns the built-in configuration. Paths live under the user's
// data directory.
func Default() Config {
	data := dataDir()
	return Config{
		Grid: GridConfig{Rows: grid.DefaultRows, Cols: grid.DefaultCols},
		Storage: StorageConfig{
			ProjectsDir: filepath.Join(data, "projects"),
			SessionDB:   filepath.Join(data, "session.db"),
		},
		Log: LogConfig{
			Level: "info",
			File:  filepath.Join(data, "crossgrid.log"),
		},
		UI: UIConfig{
			Splash:     true,
			MessageTTL: Duration(4 * time.Second),
		},
	}
}

// DefaultPath is where Load looks when no file is given.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "crossgrid.toml"
	}
	return filepath.Join(dir, "crossgrid", "config.toml")
}

func dataDir() string {
	if d := os.Getenv("XDG_DATA_HOME"); d != "" {
		return filepath.Join(d, "crossgrid")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".crossgrid"
	}
	return filepath.Join(home, ".local", "share", "crossgrid")
}

// Load builds the configuration from defaults, the file at path and the
// process environment. A missing file is not an error unless it was
// named explicitly.
func Load(path string) (Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}
	cfg := Default()
	if err := cfg.LoadFile(path); err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			err = nil
		}
		if err != nil {
			return cfg, err
		}
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return cfg, err
	}
	cfg.ExpandPaths()
	return cfg, nil
}

// LoadFile overlays the TOML file at path onto c. Keys absent from the
// file keep their current values.
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return c.Decode(data)
}

// Decode overlays TOML data onto c.
func (c *Config) Decode(data []byte) error {
	if err := toml.Unmarshal(data, c); err != nil {
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			row, col := derr.Position()
			return fmt.Errorf("config parse error at line %d, column %d: %w", row, col, err)
		}
		return fmt.Errorf("config parse error: %w", err)
	}
	return nil
}

// ApplyEnv applies CROSSGRID_* overrides found through lookup.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	for _, v := range []struct {
		name string
		set  func(string) error
	}{
		{"GRID_ROWS", intSetter(&c.Grid.Rows)},
		{"GRID_COLS", intSetter(&c.Grid.Cols)},
		{"STORAGE_PROJECTS_DIR", stringSetter(&c.Storage.ProjectsDir)},
		{"STORAGE_SESSION_DB", stringSetter(&c.Storage.SessionDB)},
		{"LOG_LEVEL", stringSetter(&c.Log.Level)},
		{"LOG_FILE", stringSetter(&c.Log.File)},
		{"UI_SPLASH", boolSetter(&c.UI.Splash)},
		{"UI_MESSAGE_TTL", c.UI.MessageTTL.set},
	} {
		val, ok := lookup(EnvPrefix + v.name)
		if !ok {
			continue
		}
		if err := v.set(strings.TrimSpace(val)); err != nil {
			return fmt.Errorf("%s%s: %w", EnvPrefix, v.name, err)
		}
	}
	return nil
}

func (d *Duration) set(s string) error {
	return d.UnmarshalText([]byte(s))
}

func intSetter(dst *int) func(string) error {
	return func(s string) error {
		n, err := strconv.Atoi(s)
		if err != nil {
			return err
		}
		*dst = n
		return nil
	}
}

func stringSetter(dst *string) func(string) error {
	return func(s string) error {
		*dst = s
		return nil
	}
}

func boolSetter(dst *bool) func(string) error {
	return func(s string) error {
		b, err := strconv.ParseBool(s)
		if err != nil {
			return err
		}
		*dst = b
		return nil
	}
}

// ExpandPaths resolves a leading ~ in the configured paths.
func (c *Config) ExpandPaths() {
	c.Storage.ProjectsDir = expandHome(c.Storage.ProjectsDir)
	if c.Storage.SessionDB != ":memory:" {
		c.Storage.SessionDB = expandHome(c.Storage.SessionDB)
	}
	c.Log.File = expandHome(c.Log.File)
}

func expandHome(p string) string {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~"))
}
