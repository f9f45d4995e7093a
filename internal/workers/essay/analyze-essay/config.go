// internal/workers/essay/analyze-essay/config.go
package analyzeessay

import (
	"time"

	"essay-mentor/internal/common/config"
)

type Config struct {
	Enabled       bool
	MaxJobsActive int
	Timeout       time.Duration
	// CacheTTL of zero disables result caching.
	CacheTTL time.Duration
}

// LoadConfig reads the worker's section and the essay cache TTL from the app config.
func LoadConfig(appCfg *config.Config) *Config {
	if appCfg == nil {
		return &Config{
			Enabled:       true,
			MaxJobsActive: 5,
			Timeout:       15 * time.Second,
			CacheTTL:      time.Duration(config.DefaultCacheTTLSeconds) * time.Second,
		}
	}
	wc := config.GetWorkerConfig(appCfg, TaskType)
	return &Config{
		Enabled:       wc.Enabled,
		MaxJobsActive: wc.MaxJobsActive,
		Timeout:       config.GetDuration(wc.Timeout),
		CacheTTL:      appCfg.Essay.CacheTTL(),
	}
}
