// internal/workers/essay/classify-prompt/config.go
package classifyprompt

import (
	"time"

	"essay-mentor/internal/common/config"
)

type Config struct {
	Enabled       bool
	MaxJobsActive int
	Timeout       time.Duration
}

// LoadConfig reads the worker's section of the app config, falling back to defaults.
func LoadConfig(appCfg *config.Config) *Config {
	if appCfg == nil {
		return &Config{Enabled: true, MaxJobsActive: 10, Timeout: 5 * time.Second}
	}
	wc := config.GetWorkerConfig(appCfg, TaskType)
	return &Config{
		Enabled:       wc.Enabled,
		MaxJobsActive: wc.MaxJobsActive,
		Timeout:       config.GetDuration(wc.Timeout),
	}
}
