// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// Model defaults for the two call shapes.
const (
	DefaultSearchModel          = "gemini-2.5-flash"
	DefaultSimulationModel      = "gemini-3-pro-preview"
	DefaultThinkingBudget int32 = 2048

	DefaultSearchTimeout     = 60 * time.Second
	DefaultSimulationTimeout = 180 * time.Second

	DefaultServerAddr = ":8080"
)

// HTTPConfig holds transport settings for the client that talks to the model API.
type HTTPConfig struct {
	// Timeout bounds a single HTTP exchange. Zero leaves it to the
	// operation deadline.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// MaxRetries is the number of retries on HTTP 429. Zero disables retries.
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}

// AIConfig holds the process-wide credential for the Generative AI API.
// It is built once at startup and never mutated.
type AIConfig struct {
	HTTPConfig `yaml:",inline"`

	// APIKey is the authentication key for the Gemini API.
	APIKey string `json:"-" yaml:"-"`
}

// SearchConfig holds settings for grounded paper search.
type SearchConfig struct {
	// Model is the low-latency model used for grounded search.
	Model string `json:"model" yaml:"model"`

	// Timeout bounds one search operation (default 60s).
	Timeout time.Duration `json:"timeout" yaml:"timeout"`
}

// SimulationConfig holds settings for structured outcome simulation.
type SimulationConfig struct {
	// Model is the reasoning model used for simulation.
	Model string `json:"model" yaml:"model"`

	// ThinkingBudget caps the model's internal reasoning tokens (default 2048).
	ThinkingBudget int32 `json:"thinking_budget" yaml:"thinking_budget"`

	// Timeout bounds one simulation operation (default 180s).
	Timeout time.Duration `json:"timeout" yaml:"timeout"`
}

// ServerConfig holds settings for the dashboard HTTP server.
type ServerConfig struct {
	// Addr is the listen address (default ":8080").
	Addr string `json:"addr" yaml:"addr"`

	// ShutdownTimeout bounds graceful shutdown.
	ShutdownTimeout time.Duration `json:"shutdown_timeout" yaml:"shutdown_timeout"`
}

// JournalConfig holds settings for the diagnostics journal.
type JournalConfig struct {
	// Path is the SQLite database file. Empty disables the journal.
	Path string `json:"path" yaml:"path"`
}

// Config groups every component's configuration.
type Config struct {
	AI         AIConfig         `json:"ai" yaml:"ai"`
	Search     SearchConfig     `json:"search" yaml:"search"`
	Simulation SimulationConfig `json:"simulation" yaml:"simulation"`
	Server     ServerConfig     `json:"server" yaml:"server"`
	Journal    JournalConfig    `json:"journal" yaml:"journal"`
}

// WithDefaults returns a copy of c with zero fields replaced by defaults.
func (c Config) WithDefaults() Config {
	if c.Search.Model == "" {
		c.Search.Model = DefaultSearchModel
	}
	if c.Search.Timeout <= 0 {
		c.Search.Timeout = DefaultSearchTimeout
	}
	if c.Simulation.Model == "" {
		c.Simulation.Model = DefaultSimulationModel
	}
	if c.Simulation.ThinkingBudget <= 0 {
		c.Simulation.ThinkingBudget = DefaultThinkingBudget
	}
	if c.Simulation.Timeout <= 0 {
		c.Simulation.Timeout = DefaultSimulationTimeout
	}
	if c.Server.Addr == "" {
		c.Server.Addr = DefaultServerAddr
	}
	if c.Server.ShutdownTimeout <= 0 {
		c.Server.ShutdownTimeout = 10 * time.Second
	}
	return c
}
