package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadFromFile_AppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
camunda:
  broker_address: "localhost:26500"
workers:
  analyze-essay:
    enabled: true
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "essay-mentor", cfg.App.Name)
	assert.Equal(t, 10, cfg.Camunda.MaxJobsActive)
	assert.Equal(t, DefaultMinEssayLength, cfg.Essay.MinEssayLength)
	assert.Equal(t, DefaultTargetWords, cfg.Essay.DefaultTargetWords)
	assert.Equal(t, 2500*time.Millisecond, cfg.Essay.AnalysisDelay())
	assert.Equal(t, time.Hour, cfg.Essay.CacheTTL())
	assert.False(t, cfg.Essay.PersonalizeFeedback)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, DefaultRegistryPath, cfg.RegistryPath)

	wc := GetWorkerConfig(cfg, "analyze-essay")
	assert.True(t, wc.Enabled)
	assert.Equal(t, 5, wc.MaxJobsActive)
	assert.Equal(t, 30000, wc.Timeout)
	assert.Equal(t, 3, wc.MaxRetries)
}

func TestLoadFromFile_ExplicitValues(t *testing.T) {
	path := writeConfig(t, `
camunda:
  broker_address: "zeebe:26500"
redis:
  address: "redis:6379"
essay:
  min_essay_length: 150
  default_target_words: 650
  analysis_delay_ms: 10
  personalize_feedback: true
  cache_ttl_seconds: 60
workers:
  classify-prompt:
    enabled: false
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "redis:6379", cfg.Redis.Address)
	assert.Equal(t, 150, cfg.Essay.MinEssayLength)
	assert.Equal(t, 650, cfg.Essay.DefaultTargetWords)
	assert.Equal(t, 10*time.Millisecond, cfg.Essay.AnalysisDelay())
	assert.Equal(t, time.Minute, cfg.Essay.CacheTTL())
	assert.True(t, cfg.Essay.PersonalizeFeedback)
	assert.False(t, IsWorkerEnabled(cfg, "classify-prompt"))
	assert.True(t, IsWorkerEnabled(cfg, "analyze-essay"))
}

func TestLoadFromFile_ExpandsEnvPlaceholders(t *testing.T) {
	t.Setenv("TEST_ZEEBE_HOST", "zeebe.internal:26500")
	path := writeConfig(t, `
camunda:
  broker_address: "${TEST_ZEEBE_HOST}"
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "zeebe.internal:26500", cfg.Camunda.BrokerAddress)
}

func TestLoadFromFile_Validation(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{
			name:    "missing broker",
			body:    "essay:\n  min_essay_length: 100\n",
			wantErr: "camunda.broker_address is required",
		},
		{
			name:    "negative delay",
			body:    "camunda:\n  broker_address: x\nessay:\n  analysis_delay_ms: -1\n",
			wantErr: "essay.analysis_delay_ms must not be negative",
		},
		{
			name:    "sample ratio out of range",
			body:    "camunda:\n  broker_address: x\ntracing:\n  sample_ratio: 2\n",
			wantErr: "tracing.sample_ratio",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("ZEEBE_ADDRESS", "")
			_, err := LoadFromFile(writeConfig(t, tt.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadFromFile_MissingFile(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestGetDuration(t *testing.T) {
	assert.Equal(t, 1500*time.Millisecond, GetDuration(1500))
	assert.Equal(t, time.Duration(0), GetDuration(0))
}

func TestDefaults(t *testing.T) {
	cfg := Defaults()
	assert.Equal(t, DefaultMinEssayLength, cfg.Essay.MinEssayLength)
	assert.Equal(t, 2500*time.Millisecond, cfg.Essay.AnalysisDelay())
	assert.Equal(t, DefaultRegistryPath, cfg.RegistryPath)
	assert.Empty(t, cfg.Camunda.BrokerAddress)
	assert.True(t, IsWorkerEnabled(cfg, "analyze-essay"))
}
