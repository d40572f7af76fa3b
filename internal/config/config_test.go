package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func validConfig() *Config {
	return &Config{
		GraphPath:   "graph.hcl",
		WorkerCount: 4,
		LogFormat:   "json",
		LogLevel:    "info",
	}
}

func TestConfig_ValidateAcceptsGoodConfig(t *testing.T) {
	assert.NoError(t, validConfig().Validate())
}

func TestConfig_ValidateRejectsMissingGraphPath(t *testing.T) {
	c := validConfig()
	c.GraphPath = ""
	assert.Error(t, c.Validate())
}

func TestConfig_ValidateRejectsNonPositiveWorkerCount(t *testing.T) {
	c := validConfig()
	c.WorkerCount = 0
	assert.Error(t, c.Validate())
}

func TestConfig_ValidateRejectsBadLogFormat(t *testing.T) {
	c := validConfig()
	c.LogFormat = "xml"
	assert.Error(t, c.Validate())
}

func TestConfig_ValidateRejectsBadLogLevel(t *testing.T) {
	c := validConfig()
	c.LogLevel = "verbose"
	assert.Error(t, c.Validate())
}

func TestConfig_ApplyEnvOverridesOverwritesFields(t *testing.T) {
	t.Setenv("TASKGRAPH_WORKERS", "8")
	t.Setenv("TASKGRAPH_LOG_LEVEL", "debug")
	t.Setenv("TASKGRAPH_WEBHOOK_TIMEOUT", "2s")

	c := validConfig()
	c.ApplyEnvOverrides()

	assert.Equal(t, 8, c.WorkerCount)
	assert.Equal(t, "debug", c.LogLevel)
	assert.Equal(t, 2*time.Second, c.WebhookTimeout)
}

func TestConfig_ApplyEnvOverridesIgnoresMalformedValues(t *testing.T) {
	t.Setenv("TASKGRAPH_WORKERS", "not-a-number")

	c := validConfig()
	c.ApplyEnvOverrides()

	assert.Equal(t, 4, c.WorkerCount)
}
