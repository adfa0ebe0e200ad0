// Package config handles steward configuration loading.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// CredentialError reports missing or invalid third-party credentials at
// startup. It is fatal: the process fails closed rather than serving a
// sub-agent without working credentials.
type CredentialError struct {
	Scope   string
	Message string
}

// Error implements the error interface.
func (e *CredentialError) Error() string {
	return fmt.Sprintf("credential error (%s): %s", e.Scope, e.Message)
}

// DefaultSearchPaths returns the config file search order.
// An explicit path (from -config flag) is checked first.
// Then: ./config.yaml, ~/.config/steward/config.yaml, /etc/steward/config.yaml.
func DefaultSearchPaths() []string {
	paths := []string{"config.yaml"}

	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "steward", "config.yaml"))
	}

	paths = append(paths, "/etc/steward/config.yaml")
	return paths
}

// FindConfig locates a config file. If explicit is non-empty, it must exist.
// Otherwise, searches DefaultSearchPaths and returns the first that exists.
// Returns the path found, or an error if nothing was found.
func FindConfig(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", fmt.Errorf("config file not found: %s", explicit)
		}
		return explicit, nil
	}

	for _, p := range DefaultSearchPaths() {
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}

	return "", fmt.Errorf("no config file found (searched: %v)", DefaultSearchPaths())
}

// Config holds all steward configuration.
type Config struct {
	Model        ModelConfig        `yaml:"model"`
	Email        EmailConfig        `yaml:"email"`
	Calendar     CalendarConfig     `yaml:"calendar"`
	Orchestrator OrchestratorConfig `yaml:"orchestrator"`
	History      HistoryConfig      `yaml:"history"`
	LogLevel     string             `yaml:"log_level"`
}

// ModelConfig selects the language model backing every agent.
type ModelConfig struct {
	Provider    string  `yaml:"provider"` // openai, anthropic
	Name        string  `yaml:"name"`
	Temperature float64 `yaml:"temperature"`
	MaxTokens   int64   `yaml:"max_tokens"`
	APIKey      string  `yaml:"api_key"` // falls back to the provider's env var
}

// EmailConfig defines the email sub-agent's IMAP account.
type EmailConfig struct {
	Enabled       bool     `yaml:"enabled"`
	IMAP          IMAPConfig `yaml:"imap"`
	FromAddress   string   `yaml:"from_address"`
	FromName      string   `yaml:"from_name"`
	DraftsFolder  string   `yaml:"drafts_folder"`  // default "Drafts"
	AllowedLabels []string `yaml:"allowed_labels"` // labels the agent may apply
}

// IMAPConfig defines an IMAP connection.
type IMAPConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"` // default 993
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// CalendarConfig defines the calendar sub-agent's CalDAV account.
type CalendarConfig struct {
	Enabled  bool         `yaml:"enabled"`
	CalDAV   CalDAVConfig `yaml:"caldav"`
	Calendar string       `yaml:"calendar"` // display name; first found when empty
}

// CalDAVConfig defines a CalDAV connection.
type CalDAVConfig struct {
	URL      string `yaml:"url"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// OrchestratorConfig tunes the conversation core.
type OrchestratorConfig struct {
	// MaxIterations caps each agent's tool-calling loop. Values <= 0 disable
	// the cap.
	MaxIterations int `yaml:"max_iterations"`
}

// HistoryConfig selects where conversation history is persisted.
type HistoryConfig struct {
	Backend string `yaml:"backend"` // memory (default), sqlite
	Path    string `yaml:"path"`    // database path for the sqlite backend
}

// Load reads configuration from a YAML file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	// Expand environment variables
	expanded := os.ExpandEnv(string(data))

	cfg := Default()
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Default returns a default configuration.
func Default() *Config {
	return &Config{
		Model: ModelConfig{
			Provider:    "openai",
			Temperature: 0.7,
			MaxTokens:   4096,
		},
		Email: EmailConfig{
			IMAP:         IMAPConfig{Port: 993},
			DraftsFolder: "Drafts",
			AllowedLabels: []string{
				"Spam", "News", "University", "Financial", "Personal",
				"Work", "Promotions", "Meeting", "Other",
			},
		},
		Orchestrator: OrchestratorConfig{MaxIterations: 25},
		History:      HistoryConfig{Backend: "memory"},
		LogLevel:     "info",
	}
}

// Validate checks that every enabled component has usable credentials.
// Missing credentials are fatal; there is no degraded mode.
func (c *Config) Validate() error {
	switch c.Model.Provider {
	case "openai":
		if c.Model.APIKey == "" && os.Getenv("OPENAI_API_KEY") == "" {
			return &CredentialError{Scope: "model", Message: "openai api key not set (model.api_key or OPENAI_API_KEY)"}
		}
	case "anthropic":
		if c.Model.APIKey == "" && os.Getenv("ANTHROPIC_API_KEY") == "" {
			return &CredentialError{Scope: "model", Message: "anthropic api key not set (model.api_key or ANTHROPIC_API_KEY)"}
		}
	default:
		return fmt.Errorf("unknown model provider %q (expected openai or anthropic)", c.Model.Provider)
	}

	if c.Email.Enabled {
		var missing []string
		if c.Email.IMAP.Host == "" {
			missing = append(missing, "imap.host")
		}
		if c.Email.IMAP.Username == "" {
			missing = append(missing, "imap.username")
		}
		if c.Email.IMAP.Password == "" {
			missing = append(missing, "imap.password")
		}
		if len(missing) > 0 {
			return &CredentialError{Scope: "email", Message: "missing " + strings.Join(missing, ", ")}
		}
	}

	if c.Calendar.Enabled {
		var missing []string
		if c.Calendar.CalDAV.URL == "" {
			missing = append(missing, "caldav.url")
		}
		if c.Calendar.CalDAV.Username == "" {
			missing = append(missing, "caldav.username")
		}
		if c.Calendar.CalDAV.Password == "" {
			missing = append(missing, "caldav.password")
		}
		if len(missing) > 0 {
			return &CredentialError{Scope: "calendar", Message: "missing " + strings.Join(missing, ", ")}
		}
	}

	switch c.History.Backend {
	case "", "memory":
	case "sqlite":
		if c.History.Path == "" {
			return fmt.Errorf("history.path required for the sqlite backend")
		}
	default:
		return fmt.Errorf("unknown history backend %q (expected memory or sqlite)", c.History.Backend)
	}

	return nil
}
