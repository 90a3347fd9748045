package config

import "fmt"

// ServerConfig defines the HTTP listener.
type ServerConfig struct {
	Addr string `json:"addr"`
}

// SetDefaults applies sane defaults.
func (c *ServerConfig) SetDefaults() {
	if c.Addr == "" {
		c.Addr = ":8080"
	}
}

// Validate checks mandatory fields.
func (c ServerConfig) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("addr is required")
	}
	return nil
}

// CacheConfig selects the generation response cache.
type CacheConfig struct {
	// Backend selects the store type: "none", "memory" or "sqlite".
	Backend string `json:"backend"`
	// Path is the database location for the sqlite backend.
	Path       string `json:"path"`
	TTLMinutes int    `json:"ttl_minutes"`
}

// SetDefaults applies sane defaults.
func (c *CacheConfig) SetDefaults() {
	if c.Backend == "" {
		c.Backend = "memory"
	}
	if c.Backend == "sqlite" && c.Path == "" {
		c.Path = "classgrid.db"
	}
	if c.TTLMinutes == 0 {
		c.TTLMinutes = 60
	}
}

// Validate checks mandatory fields.
func (c CacheConfig) Validate() error {
	switch c.Backend {
	case "none", "memory":
	case "sqlite":
		if c.Path == "" {
			return fmt.Errorf("path is required")
		}
	default:
		return fmt.Errorf("unknown backend %s", c.Backend)
	}
	if c.TTLMinutes < 0 {
		return fmt.Errorf("ttl_minutes must not be negative")
	}
	return nil
}
