package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadFromCreatesTemplate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.json")

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if cfg.Timer.WorkMinutes != DefaultWorkMinutes || cfg.Server.Port != DefaultPort {
		t.Errorf("defaults not applied: %+v", cfg)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("template not written: %v", err)
	}
	if !strings.HasPrefix(string(data), "// pomo configuration") {
		t.Errorf("unexpected template header: %q", string(data[:40]))
	}

	// The template must parse back to the same defaults.
	again, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if again.Timer.WorkMinutes != cfg.Timer.WorkMinutes || again.Timer.BreakMinutes != cfg.Timer.BreakMinutes {
		t.Errorf("reload timer = %+v, want %+v", again.Timer, cfg.Timer)
	}
	if again.Addr() != "127.0.0.1:5050" {
		t.Errorf("addr = %q", again.Addr())
	}
	if !again.AutoBreakEnabled() {
		t.Error("auto_break should default to true")
	}
}

func TestLoadFromPartialFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	content := `// only the timer is customised
{
  "timer": {
    // short intervals
    "work_minutes": 50,
    "auto_break": false
  },
  "log": {"level": "debug"}
}`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if cfg.Timer.WorkMinutes != 50 {
		t.Errorf("work_minutes = %d, want 50", cfg.Timer.WorkMinutes)
	}
	if cfg.Timer.BreakMinutes != DefaultBreakMinutes {
		t.Errorf("break_minutes = %d, want default", cfg.Timer.BreakMinutes)
	}
	if cfg.AutoBreakEnabled() {
		t.Error("auto_break false should be kept")
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("log level = %q", cfg.Log.Level)
	}
	if cfg.Outlook.TenantID != DefaultTenantID {
		t.Errorf("tenant = %q", cfg.Outlook.TenantID)
	}
	if got := cfg.WorkDuration().Minutes(); got != 50 {
		t.Errorf("WorkDuration = %v min", got)
	}
}

func TestLoadFromInvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte("{ not json"), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadFrom(path)
	if err == nil {
		t.Fatal("expected parse error")
	}
	if cfg.Server.Port != DefaultPort {
		t.Errorf("defaults should be returned on error, got %+v", cfg.Server)
	}
}

func TestStripLineComments(t *testing.T) {
	in := []byte("// head\n{\n  \t// inner\n  \"a\": \"http://x\"\n}")
	got := string(stripLineComments(in))
	if strings.Contains(got, "head") || strings.Contains(got, "inner") {
		t.Errorf("comments kept: %q", got)
	}
	if !strings.Contains(got, "http://x") {
		t.Errorf("inline // in values must survive: %q", got)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults", func(*Config) {}, ""},
		{"zero work", func(c *Config) { c.Timer.WorkMinutes = -1 }, "work_minutes"},
		{"zero break", func(c *Config) { c.Timer.BreakMinutes = -5 }, "break_minutes"},
		{"port high", func(c *Config) { c.Server.Port = 70000 }, "server.port"},
		{"bad level", func(c *Config) { c.Log.Level = "loud" }, "log.level"},
		{"bad timezone", func(c *Config) { c.Outlook.Timezone = "Mars/Olympus" }, "outlook.timezone"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("err = %v, want mention of %q", err, tt.wantErr)
			}
		})
	}
}
