package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

// chdirTemp moves the test into an empty directory so no config.yaml from
// the working tree leaks into the run.
func chdirTemp(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	old, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd failed: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir failed: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(old) })
}

func TestLoad_DefaultsWithoutConfigFile(t *testing.T) {
	chdirTemp(t)

	cfg, err := Load()

	assert.NoError(t, err)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "memory", cfg.Database.DSN)
	assert.Equal(t, 20, cfg.Limits.DailyRequests)
	assert.Equal(t, 10, cfg.Limits.ContextWindow)
	assert.Equal(t, 4096, cfg.Limits.MaxMessageLength)
	assert.Equal(t, "gpt-4o-mini", cfg.AI.Model)
	assert.True(t, cfg.ModelAllowed("gpt-4o-mini"))
	assert.False(t, cfg.ModelAllowed("made-up-model"))
}

func TestLoad_ReadsConfigFile(t *testing.T) {
	chdirTemp(t)
	yaml := []byte("server:\n  port: \"9090\"\nlimits:\n  daily_requests: 5\n  context_window: 4\n")
	if err := os.WriteFile(filepath.Join(".", "config.yaml"), yaml, 0o644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	cfg, err := Load()

	assert.NoError(t, err)
	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, 5, cfg.Limits.DailyRequests)
	assert.Equal(t, 4, cfg.Limits.ContextWindow)
	// Untouched keys keep their defaults.
	assert.Equal(t, 4096, cfg.Limits.MaxMessageLength)
}

func TestLoad_RejectsUnlistedModel(t *testing.T) {
	chdirTemp(t)
	yaml := []byte("ai:\n  model: \"not-on-the-list\"\n")
	if err := os.WriteFile("config.yaml", yaml, 0o644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	_, err := Load()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "allowed model list")
}
