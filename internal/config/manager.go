package config

import (
	"fmt"
	"sync"

	"github.com/spf13/viper"
)

// Manager owns the mutable configuration. Components read through
// accessor methods; mutations go through setters that also persist the
// change, so no component ever touches shared config state directly.
type Manager struct {
	mu  sync.RWMutex
	cfg *Config
	v   *viper.Viper
}

// NewManager wraps a loaded configuration. v may be nil for in-memory
// configurations (tests); mutations then skip persistence.
func NewManager(cfg *Config, v *viper.Viper) *Manager {
	return &Manager{cfg: cfg, v: v}
}

// Database returns the database settings.
func (m *Manager) Database() DatabaseConfig {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.cfg.Database
}

// Logging returns the logging settings.
func (m *Manager) Logging() LoggingConfig {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.cfg.Logging
}

// RateLimit returns the rate limit settings.
func (m *Manager) RateLimit() RateLimitConfig {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.cfg.RateLimit
}

// Monitor returns a copy of the monitor settings.
func (m *Manager) Monitor() MonitorConfig {
	m.mu.RLock()
	defer m.mu.RUnlock()
	mc := m.cfg.Monitor
	mc.Keywords = append([]string(nil), m.cfg.Monitor.Keywords...)
	return mc
}

// Platforms returns a copy of the per-platform settings.
func (m *Manager) Platforms() map[string]PlatformConfig {
	m.mu.RLock()
	defer m.mu.RUnlock()
	platforms := make(map[string]PlatformConfig, len(m.cfg.Platforms))
	for name, pc := range m.cfg.Platforms {
		pc.Users = append([]string(nil), pc.Users...)
		platforms[name] = pc
	}
	return platforms
}

// AddKeyword appends a keyword to the monitor keyword list and persists
// the change. Adding an already-present keyword is a no-op.
func (m *Manager) AddKeyword(keyword string) error {
	if keyword == "" {
		return fmt.Errorf("keyword must not be empty")
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.cfg.Monitor.Keywords {
		if existing == keyword {
			return nil
		}
	}
	m.cfg.Monitor.Keywords = append(m.cfg.Monitor.Keywords, keyword)
	return m.persistLocked("monitor.keywords", m.cfg.Monitor.Keywords)
}

// RemoveKeyword removes a keyword from the monitor keyword list and
// persists the change. Removing an absent keyword is a no-op.
func (m *Manager) RemoveKeyword(keyword string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.cfg.Monitor.Keywords[:0]
	removed := false
	for _, existing := range m.cfg.Monitor.Keywords {
		if existing == keyword {
			removed = true
			continue
		}
		kept = append(kept, existing)
	}
	if !removed {
		return nil
	}
	m.cfg.Monitor.Keywords = kept
	return m.persistLocked("monitor.keywords", m.cfg.Monitor.Keywords)
}

// ClearKeywords empties the monitor keyword list and persists the change.
func (m *Manager) ClearKeywords() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cfg.Monitor.Keywords = nil
	return m.persistLocked("monitor.keywords", []string{})
}

// SetMatchMode sets the keyword match mode and persists the change.
func (m *Manager) SetMatchMode(mode string) error {
	if mode != MatchModeAny && mode != MatchModeAll {
		return fmt.Errorf("match mode must be %q or %q, got %q", MatchModeAny, MatchModeAll, mode)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.cfg.Monitor.MatchMode = mode
	return m.persistLocked("monitor.match_mode", mode)
}

// SetMonitorEnabled toggles the global monitoring flag and persists it.
func (m *Manager) SetMonitorEnabled(enabled bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cfg.Monitor.Enabled = enabled
	return m.persistLocked("monitor.enabled", enabled)
}

// SetInterval sets the tick interval in seconds and persists it. The new
// interval takes effect the next time the scheduler starts.
func (m *Manager) SetInterval(seconds int) error {
	if seconds <= 0 {
		return fmt.Errorf("interval must be positive, got %d", seconds)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.cfg.Monitor.Interval = seconds
	return m.persistLocked("monitor.interval", seconds)
}

// persistLocked writes a single key back to the config file. Callers must
// hold m.mu.
func (m *Manager) persistLocked(key string, value interface{}) error {
	if m.v == nil {
		return nil
	}
	m.v.Set(key, value)
	if m.v.ConfigFileUsed() == "" {
		return m.v.WriteConfigAs("config.yaml")
	}
	return m.v.WriteConfig()
}
