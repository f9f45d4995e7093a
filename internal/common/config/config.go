// internal/common/config/config.go
package config

import "time"

// Config is the main application configuration struct.
type Config struct {
	App          AppConfig               `mapstructure:"app"`
	Camunda      CamundaConfig           `mapstructure:"camunda"`
	Redis        RedisConfig             `mapstructure:"redis"`
	Workers      map[string]WorkerConfig `mapstructure:"workers"`
	Logging      LoggingConfig           `mapstructure:"logging"`
	Essay        EssayConfig             `mapstructure:"essay"`
	Metrics      MetricsConfig           `mapstructure:"metrics"`
	Tracing      TracingConfig           `mapstructure:"tracing"`
	RegistryPath string                  `mapstructure:"registry_path"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type CamundaConfig struct {
	BrokerAddress  string `mapstructure:"broker_address"`
	MaxJobsActive  int    `mapstructure:"max_jobs_active"`
	Timeout        int    `mapstructure:"timeout"`         // milliseconds
	RequestTimeout int    `mapstructure:"request_timeout"` // milliseconds
}

// RedisConfig configures the analysis result cache. An empty address disables caching.
type RedisConfig struct {
	Address   string `mapstructure:"address"`
	Password  string `mapstructure:"password"`
	DB        int    `mapstructure:"db"`
	KeyPrefix string `mapstructure:"key_prefix"`
}

// WorkerConfig holds the core settings applicable to every worker.
type WorkerConfig struct {
	Enabled       bool `mapstructure:"enabled"`
	MaxJobsActive int  `mapstructure:"max_jobs_active"`
	Timeout       int  `mapstructure:"timeout"`     // milliseconds
	MaxRetries    int  `mapstructure:"max_retries"` // For error handling
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

// EssayConfig holds the tunables of the readiness pipeline and the session flow.
// Scoring weights and thresholds are not configurable.
type EssayConfig struct {
	MinEssayLength      int  `mapstructure:"min_essay_length"`
	DefaultTargetWords  int  `mapstructure:"default_target_words"`
	AnalysisDelayMs     int  `mapstructure:"analysis_delay_ms"`
	PersonalizeFeedback bool `mapstructure:"personalize_feedback"`
	CacheTTLSeconds     int  `mapstructure:"cache_ttl_seconds"`
}

// AnalysisDelay is the simulated latency before a session analysis completes.
func (e EssayConfig) AnalysisDelay() time.Duration {
	return GetDuration(e.AnalysisDelayMs)
}

// CacheTTL is how long analyze-essay keeps a computed result in Redis.
func (e EssayConfig) CacheTTL() time.Duration {
	return time.Duration(e.CacheTTLSeconds) * time.Second
}

type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Address string `mapstructure:"address"`
}

type TracingConfig struct {
	ServiceName    string  `mapstructure:"service_name"`
	JaegerEndpoint string  `mapstructure:"jaeger_endpoint"`
	SampleRatio    float64 `mapstructure:"sample_ratio"`
}
