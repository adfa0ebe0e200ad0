package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
model:
  provider: openai
  name: gpt-4o-mini
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "gpt-4o-mini", cfg.Model.Name)
	assert.Equal(t, 993, cfg.Email.IMAP.Port)
	assert.Equal(t, "Drafts", cfg.Email.DraftsFolder)
	assert.Equal(t, 25, cfg.Orchestrator.MaxIterations)
	assert.Equal(t, "memory", cfg.History.Backend)
	assert.Contains(t, cfg.Email.AllowedLabels, "Work")
}

func TestLoadExpandsEnvironment(t *testing.T) {
	t.Setenv("TEST_IMAP_PASSWORD", "s3cret")

	path := writeConfig(t, `
email:
  enabled: true
  imap:
    host: mail.example.com
    username: alice
    password: ${TEST_IMAP_PASSWORD}
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "s3cret", cfg.Email.IMAP.Password)
}

func TestFindConfigExplicitMissing(t *testing.T) {
	_, err := FindConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestFindConfigExplicit(t *testing.T) {
	path := writeConfig(t, "log_level: debug\n")
	found, err := FindConfig(path)
	require.NoError(t, err)
	assert.Equal(t, path, found)
}

func TestValidateMissingEmailCredentials(t *testing.T) {
	cfg := Default()
	cfg.Model.APIKey = "sk-test"
	cfg.Email.Enabled = true
	cfg.Email.IMAP.Host = "mail.example.com"

	err := cfg.Validate()
	var credErr *CredentialError
	require.ErrorAs(t, err, &credErr)
	assert.Equal(t, "email", credErr.Scope)
	assert.Contains(t, credErr.Message, "imap.username")
	assert.Contains(t, credErr.Message, "imap.password")
}

func TestValidateMissingCalendarCredentials(t *testing.T) {
	cfg := Default()
	cfg.Model.APIKey = "sk-test"
	cfg.Calendar.Enabled = true

	err := cfg.Validate()
	var credErr *CredentialError
	require.ErrorAs(t, err, &credErr)
	assert.Equal(t, "calendar", credErr.Scope)
}

func TestValidateMissingModelKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")

	cfg := Default()
	err := cfg.Validate()
	var credErr *CredentialError
	require.ErrorAs(t, err, &credErr)
	assert.Equal(t, "model", credErr.Scope)
}

func TestValidateUnknownProvider(t *testing.T) {
	cfg := Default()
	cfg.Model.Provider = "ollama"
	assert.Error(t, cfg.Validate())
}

func TestValidateSQLiteRequiresPath(t *testing.T) {
	cfg := Default()
	cfg.Model.APIKey = "sk-test"
	cfg.History.Backend = "sqlite"
	assert.Error(t, cfg.Validate())

	cfg.History.Path = "/tmp/history.db"
	assert.NoError(t, cfg.Validate())
}
