package config

import (
	"reflect"
	"testing"
)

func testConfig() *Config {
	return &Config{
		Platforms: map[string]PlatformConfig{
			"weibo": {Enabled: true, Users: []string{"u1"}, MaxPosts: 50},
		},
		Monitor: MonitorConfig{
			Enabled:       true,
			Interval:      60,
			Keywords:      []string{"offer"},
			MatchMode:     MatchModeAny,
			Notify:        true,
			MaxConcurrent: 4,
		},
	}
}

func TestManagerKeywordLifecycle(t *testing.T) {
	m := NewManager(testConfig(), nil)

	if err := m.AddKeyword("sale"); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	// Duplicate add is a no-op
	if err := m.AddKeyword("sale"); err != nil {
		t.Fatalf("duplicate add failed: %v", err)
	}
	if got := m.Monitor().Keywords; !reflect.DeepEqual(got, []string{"offer", "sale"}) {
		t.Errorf("keywords = %v, want [offer sale]", got)
	}

	if err := m.RemoveKeyword("offer"); err != nil {
		t.Fatalf("remove failed: %v", err)
	}
	// Removing an absent keyword is a no-op
	if err := m.RemoveKeyword("absent"); err != nil {
		t.Fatalf("remove of absent keyword failed: %v", err)
	}
	if got := m.Monitor().Keywords; !reflect.DeepEqual(got, []string{"sale"}) {
		t.Errorf("keywords = %v, want [sale]", got)
	}

	if err := m.ClearKeywords(); err != nil {
		t.Fatalf("clear failed: %v", err)
	}
	if got := m.Monitor().Keywords; len(got) != 0 {
		t.Errorf("keywords = %v, want empty after clear", got)
	}

	if err := m.AddKeyword(""); err == nil {
		t.Error("adding an empty keyword should fail")
	}
}

func TestManagerSetMatchMode(t *testing.T) {
	m := NewManager(testConfig(), nil)

	if err := m.SetMatchMode(MatchModeAll); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	if got := m.Monitor().MatchMode; got != MatchModeAll {
		t.Errorf("match mode = %q, want %q", got, MatchModeAll)
	}

	if err := m.SetMatchMode("sometimes"); err == nil {
		t.Error("invalid match mode should be rejected")
	}
	if got := m.Monitor().MatchMode; got != MatchModeAll {
		t.Errorf("match mode = %q after rejected set, want %q", got, MatchModeAll)
	}
}

func TestManagerSetInterval(t *testing.T) {
	m := NewManager(testConfig(), nil)

	if err := m.SetInterval(300); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	if got := m.Monitor().Interval; got != 300 {
		t.Errorf("interval = %d, want 300", got)
	}

	if err := m.SetInterval(0); err == nil {
		t.Error("zero interval should be rejected")
	}
	if err := m.SetInterval(-5); err == nil {
		t.Error("negative interval should be rejected")
	}
}

func TestManagerSetMonitorEnabled(t *testing.T) {
	m := NewManager(testConfig(), nil)

	if err := m.SetMonitorEnabled(false); err != nil {
		t.Fatalf("disable failed: %v", err)
	}
	if m.Monitor().Enabled {
		t.Error("monitor should be disabled")
	}
	if err := m.SetMonitorEnabled(true); err != nil {
		t.Fatalf("enable failed: %v", err)
	}
	if !m.Monitor().Enabled {
		t.Error("monitor should be enabled")
	}
}

func TestManagerAccessorsReturnCopies(t *testing.T) {
	m := NewManager(testConfig(), nil)

	mc := m.Monitor()
	mc.Keywords[0] = "mutated"
	if got := m.Monitor().Keywords[0]; got != "offer" {
		t.Errorf("keyword = %q, caller mutation leaked into manager state", got)
	}

	platforms := m.Platforms()
	platforms["weibo"].Users[0] = "mutated"
	delete(platforms, "weibo")
	if got := m.Platforms()["weibo"].Users[0]; got != "u1" {
		t.Errorf("user = %q, caller mutation leaked into manager state", got)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "bad match mode", mutate: func(c *Config) { c.Monitor.MatchMode = "sometimes" }, wantErr: true},
		{name: "zero interval", mutate: func(c *Config) { c.Monitor.Interval = 0 }, wantErr: true},
		{name: "zero max concurrent", mutate: func(c *Config) { c.Monitor.MaxConcurrent = 0 }, wantErr: true},
		{name: "all mode accepted", mutate: func(c *Config) { c.Monitor.MatchMode = MatchModeAll }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
