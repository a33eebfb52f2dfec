package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Config is the root configuration for pomo, stored in ~/.pomo/config.json.
// The file supports single-line // comments for documentation purposes.
type Config struct {
	Timer   TimerConfig   `json:"timer"`
	Server  ServerConfig  `json:"server"`
	Storage StorageConfig `json:"storage"`
	Log     LogConfig     `json:"log"`
	Outlook OutlookConfig `json:"outlook"`
}

// TimerConfig sets the process-wide interval lengths.
type TimerConfig struct {
	WorkMinutes  int `json:"work_minutes"`
	BreakMinutes int `json:"break_minutes"`
	// AutoLog records a finished work interval without prompting for a note.
	AutoLog bool `json:"auto_log"`
	// AutoBreak starts the break after an auto-logged interval.
	AutoBreak *bool `json:"auto_break,omitempty"`
}

type ServerConfig struct {
	Host string `json:"host"`
	Port int    `json:"port"`
}

type StorageConfig struct {
	// DBPath is the SQLite database file. Empty = ~/.pomo/pomodoro.db.
	DBPath string `json:"db_path"`
}

type LogConfig struct {
	Level string `json:"level"`
	JSON  bool   `json:"json"`
}

// OutlookConfig holds Microsoft Graph / Outlook calendar export settings.
type OutlookConfig struct {
	// TenantID is the Azure AD tenant. Use "common" for personal/multi-tenant accounts.
	TenantID string `json:"tenant_id"`
	// ClientID is the Azure app (client) ID for the OAuth2 device code flow.
	ClientID string `json:"client_id"`
	// Timezone is the IANA timezone for event times (e.g. "Europe/Berlin"). Empty = UTC.
	Timezone string `json:"timezone"`
}

const (
	DefaultWorkMinutes  = 25
	DefaultBreakMinutes = 5
	DefaultHost         = "127.0.0.1"
	DefaultPort         = 5050
	DefaultLogLevel     = "info"

	// DefaultTenantID is the Microsoft "common" tenant (supports personal and
	// multi-tenant organisational accounts without additional registration).
	DefaultTenantID = "common"
	// DefaultClientID is the well-known public Azure CLI app ID.
	// It supports device code flow without a client secret and requires no
	// app registration.
	DefaultClientID = "04b07795-8542-4c4a-95af-30b2c573d5ab"
)

var validLevels = map[string]bool{
	"trace": true, "debug": true, "info": true, "warn": true, "error": true, "off": true,
}

// Default returns a Config pre-filled with the built-in defaults.
func Default() Config {
	cfg := Config{}
	cfg.fillDefaults()
	return cfg
}

func (c *Config) fillDefaults() {
	if c.Timer.WorkMinutes == 0 {
		c.Timer.WorkMinutes = DefaultWorkMinutes
	}
	if c.Timer.BreakMinutes == 0 {
		c.Timer.BreakMinutes = DefaultBreakMinutes
	}
	if c.Timer.AutoBreak == nil {
		on := true
		c.Timer.AutoBreak = &on
	}
	if c.Server.Host == "" {
		c.Server.Host = DefaultHost
	}
	if c.Server.Port == 0 {
		c.Server.Port = DefaultPort
	}
	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
	if c.Outlook.TenantID == "" {
		c.Outlook.TenantID = DefaultTenantID
	}
	if c.Outlook.ClientID == "" {
		c.Outlook.ClientID = DefaultClientID
	}
}

// Validate reports every setting that cannot be used, joined into one error.
func (c Config) Validate() error {
	var errs []error
	if c.Timer.WorkMinutes <= 0 {
		errs = append(errs, fmt.Errorf("timer.work_minutes must be positive, got %d", c.Timer.WorkMinutes))
	}
	if c.Timer.BreakMinutes <= 0 {
		errs = append(errs, fmt.Errorf("timer.break_minutes must be positive, got %d", c.Timer.BreakMinutes))
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port out of range: %d", c.Server.Port))
	}
	if !validLevels[strings.ToLower(c.Log.Level)] {
		errs = append(errs, fmt.Errorf("log.level %q is not one of trace, debug, info, warn, error, off", c.Log.Level))
	}
	if c.Outlook.Timezone != "" {
		if _, err := time.LoadLocation(c.Outlook.Timezone); err != nil {
			errs = append(errs, fmt.Errorf("outlook.timezone: %w", err))
		}
	}
	return errors.Join(errs...)
}

// WorkDuration is the configured work interval.
func (c Config) WorkDuration() time.Duration {
	return time.Duration(c.Timer.WorkMinutes) * time.Minute
}

// BreakDuration is the configured break interval.
func (c Config) BreakDuration() time.Duration {
	return time.Duration(c.Timer.BreakMinutes) * time.Minute
}

// Addr is the host:port the query server listens on.
func (c Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// AutoBreakEnabled reports the effective auto_break setting.
func (c Config) AutoBreakEnabled() bool {
	return c.Timer.AutoBreak == nil || *c.Timer.AutoBreak
}

// configTemplate is the annotated config written on first run.
// Lines whose trimmed content starts with // are stripped before JSON parsing,
// allowing human-readable documentation inside the file.
const configTemplate = `// pomo configuration – ~/.pomo/config.json
//
// All settings are optional; the built-in defaults shown below work out of
// the box. Flags (--db, --port, --log-level) and POMO_* environment
// variables override values from this file.
{
  // ── Timer ────────────────────────────────────────────────────────────────
  "timer": {
    // Length of a focus interval and of the break that follows it, in minutes.
    "work_minutes": 25,
    "break_minutes": 5,

    // Record finished intervals without asking for a note.
    "auto_log": false,

    // When auto-logging, start the break right away (false = stay idle).
    "auto_break": true
  },

  // ── Query server / dashboard ─────────────────────────────────────────────
  "server": {
    "host": "127.0.0.1",
    "port": 5050
  },

  // ── Storage ──────────────────────────────────────────────────────────────
  "storage": {
    // SQLite database file. Leave empty for ~/.pomo/pomodoro.db.
    "db_path": ""
  },

  // ── Logging ──────────────────────────────────────────────────────────────
  "log": {
    // trace, debug, info, warn, error or off
    "level": "info",
    // Emit JSON lines instead of the human-readable format.
    "json": false
  },

  // ── Microsoft Graph / Outlook calendar export ────────────────────────────
  "outlook": {
    // Azure AD tenant ID.
    // • "common"  – personal Microsoft accounts and any organisation (default)
    // • Your organisation's tenant GUID
    "tenant_id": "common",

    // Azure application (client) ID used for the OAuth2 device code flow.
    // The built-in value is the public Azure CLI app – no app registration needed.
    "client_id": "04b07795-8542-4c4a-95af-30b2c573d5ab",

    // IANA timezone for calendar event times, e.g. "Europe/Berlin".
    // Leave empty to use UTC. Can be overridden with: pomo outlook sync --timezone <tz>
    "timezone": ""
  }
}
`

// FilePath returns the path to ~/.pomo/config.json.
func FilePath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".pomo", "config.json"), nil
}

// stripLineComments removes lines whose leading non-whitespace content starts
// with //. Only full-line comments are handled; inline comments are not stripped.
func stripLineComments(data []byte) []byte {
	var out []byte
	for _, line := range bytes.Split(data, []byte("\n")) {
		if bytes.HasPrefix(bytes.TrimLeft(line, " \t"), []byte("//")) {
			continue
		}
		out = append(out, line...)
		out = append(out, '\n')
	}
	return out
}

// Load reads ~/.pomo/config.json, creating it with annotated defaults on
// first run.
func Load() (Config, error) {
	path, err := FilePath()
	if err != nil {
		return Default(), err
	}
	return LoadFrom(path)
}

// LoadFrom reads the config at path. A missing file is created from the
// annotated template and the defaults are returned.
func LoadFrom(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		// First run: write the annotated template so users can discover options.
		if writeErr := writeDefault(path); writeErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not create config file %s: %v\n", path, writeErr)
		}
		return Default(), nil
	}
	if err != nil {
		return Default(), fmt.Errorf("reading config file %s: %w", path, err)
	}

	cleaned := stripLineComments(data)
	var cfg Config
	if err := json.Unmarshal(cleaned, &cfg); err != nil {
		return Default(), fmt.Errorf("parsing config file %s: %w\nTip: delete the file to regenerate defaults", path, err)
	}

	// Fill zero-value fields with built-in defaults so callers always get
	// a usable Config even if the user only partially fills in the file.
	cfg.fillDefaults()
	return cfg, nil
}

// writeDefault creates the config directory and writes the annotated default
// config template.
func writeDefault(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(configTemplate), 0o600); err != nil {
		return fmt.Errorf("writing default config: %w", err)
	}
	return nil
}
