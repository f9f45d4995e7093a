package camunda

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"essay-mentor/internal/common/config"
	apperrors "essay-mentor/internal/common/errors"
	"essay-mentor/internal/common/logger"
)

func newTestClient(t *testing.T, maxRetries int) *Client {
	return &Client{
		config: &ClientConfig{RetryConfig: &RetryConfig{
			MaxRetries: maxRetries,
			BaseDelay:  time.Millisecond,
			MaxDelay:   2 * time.Millisecond,
		}},
		log: logger.NewTestLogger(t),
	}
}

func TestExecuteWithRetry(t *testing.T) {
	tests := []struct {
		name      string
		failures  int
		errMsg    string
		wantCalls int
		wantErr   bool
	}{
		{"succeeds first time", 0, "", 1, false},
		{"recovers from transient errors", 2, "connection refused", 3, false},
		{"gives up after budget", 10, "rpc error: code = Unavailable", 4, true},
		{"does not retry permanent errors", 10, "permission denied", 1, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, 3)
			calls := 0
			err := c.ExecuteWithRetry(context.Background(), "op", func(context.Context) error {
				calls++
				if calls <= tt.failures {
					return errors.New(tt.errMsg)
				}
				return nil
			})
			assert.Equal(t, tt.wantCalls, calls)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, apperrors.ErrCodeBrokerUnavailable, apperrors.Normalize(err).Code)
		})
	}
}

func TestExecuteWithRetry_Cancelled(t *testing.T) {
	c := newTestClient(t, 3)
	c.config.RetryConfig.BaseDelay = time.Hour
	c.config.RetryConfig.MaxDelay = time.Hour

	ctx, cancel := context.WithCancel(context.Background())
	err := c.ExecuteWithRetry(ctx, "op", func(context.Context) error {
		cancel()
		return errors.New("timeout")
	})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestBackoff(t *testing.T) {
	r := &RetryConfig{BaseDelay: time.Second, MaxDelay: 5 * time.Second}
	assert.Equal(t, time.Second, backoff(r, 0))
	assert.Equal(t, 4*time.Second, backoff(r, 2))
	assert.Equal(t, 5*time.Second, backoff(r, 3))
	assert.Equal(t, 5*time.Second, backoff(r, 70))
}

func TestConfigFromApp(t *testing.T) {
	cfg := ConfigFromApp(config.CamundaConfig{BrokerAddress: "zeebe:26500", Timeout: 2000, RequestTimeout: 3000})
	assert.Equal(t, "zeebe:26500", cfg.GatewayAddress)
	assert.Equal(t, 2*time.Second, cfg.ConnectionTimeout)
	assert.Equal(t, 3*time.Second, cfg.RequestTimeout)
	assert.True(t, cfg.UsePlaintextConnection)
}

func TestStartWorker_Disabled(t *testing.T) {
	w := StartWorker(nil, "analyze-essay", config.WorkerConfig{Enabled: false}, nil, logger.NewTestLogger(t))
	assert.Nil(t, w)
	w.Stop()
}
