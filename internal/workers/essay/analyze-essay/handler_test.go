package analyzeessay

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"essay-mentor/internal/common/config"
	"essay-mentor/internal/common/database"
	apperrors "essay-mentor/internal/common/errors"
	"essay-mentor/internal/common/logger"
	"essay-mentor/internal/essay/pipeline"
	"essay-mentor/internal/models"
)

// ==========================
// Test Helper Functions
// ==========================

const testEssay = "Leading the debate club through its first national tournament taught me more than any class. " +
	"For example, I organized 14 practice rounds in 3 months. However, the real growth came from losing."

func createTestConfig() *Config {
	return &Config{Enabled: true, MaxJobsActive: 1, Timeout: 5 * time.Second, CacheTTL: time.Hour}
}

func createInput() *Input {
	return &Input{
		Prompt:    "Describe a leadership experience.",
		WordLimit: "650 words",
		Essay:     testEssay,
		RequestID: "req-1",
	}
}

func setupRedis(t *testing.T) (*database.RedisClient, *miniredis.Miniredis) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	c, err := database.NewRedis(config.RedisConfig{Address: mr.Addr(), KeyPrefix: "test:"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c, mr
}

func createTestHandler(t *testing.T, cache *database.RedisClient) *Handler {
	return NewHandler(HandlerOptions{
		Config: createTestConfig(),
		Cache:  cache,
		Logger: logger.NewTestLogger(t),
	})
}

func marshal(t *testing.T, v interface{}) string {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return string(b)
}

// ==========================
// Core Functionality Tests
// ==========================

func TestHandler_Execute_Success(t *testing.T) {
	h := createTestHandler(t, nil)

	out, err := h.Execute(context.Background(), createInput())
	require.NoError(t, err)

	assert.Equal(t, models.ArchetypeLeadership, out.PromptArchetype)
	assert.Equal(t, out.ReadinessScore, out.Feedback.ReadinessScore)
	assert.Equal(t, out.ReadinessScore, out.ScoreBreakdown.ReadinessScore)
	assert.Equal(t, out.Tier, out.Feedback.Tier)
	assert.Equal(t, 650, out.ScoreBreakdown.TargetWordCount)
	assert.True(t, out.Features.HasSpecificExamples)
	assert.True(t, out.Features.HasQuantifiableDetails)
	assert.GreaterOrEqual(t, out.ReadinessScore, 35)
	assert.LessOrEqual(t, out.ReadinessScore, 95)
	assert.NotEmpty(t, out.ReadinessLabel)
}

func TestHandler_Execute_Guards(t *testing.T) {
	tests := []struct {
		name     string
		input    *Input
		sentinel error
	}{
		{"blank prompt", &Input{Prompt: "  ", Essay: testEssay}, apperrors.ErrPromptEmpty},
		{"short essay", &Input{Prompt: "Why us?", Essay: "Too short."}, apperrors.ErrEssayTooShort},
	}
	h := createTestHandler(t, nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := h.Execute(context.Background(), tt.input)
			require.Error(t, err)
			assert.Nil(t, out)
			assert.ErrorIs(t, err, tt.sentinel)

			bpmn := apperrors.ConvertToBPMNError(apperrors.Normalize(err))
			assert.Equal(t, "INVALID_INPUT", bpmn.Code)
			assert.Zero(t, bpmn.Retries)
		})
	}
}

func TestHandler_Execute_CacheMissThenHit(t *testing.T) {
	cache, mr := setupRedis(t)
	h := createTestHandler(t, cache)
	ctx := context.Background()

	first, err := h.Execute(ctx, createInput())
	require.NoError(t, err)

	keys := mr.Keys()
	require.Len(t, keys, 1)
	assert.True(t, strings.HasPrefix(keys[0], "test:"+cacheKeyPrefix))
	assert.Equal(t, time.Hour, mr.TTL(keys[0]))

	second, err := h.Execute(ctx, createInput())
	require.NoError(t, err)
	assert.Equal(t, marshal(t, first), marshal(t, second))
}

func TestHandler_Execute_HitServesStoredResult(t *testing.T) {
	cache, mr := setupRedis(t)
	h := createTestHandler(t, cache)
	in := createInput()

	stored := Output{ReadinessScore: 88, Tier: models.TierHigh, ReadinessLabel: "stored"}
	key := h.cacheKey(in.submission())
	require.NoError(t, mr.Set("test:"+key, marshal(t, stored)))

	out, err := h.Execute(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, "stored", out.ReadinessLabel)
	assert.Equal(t, 88, out.ReadinessScore)
}

func TestHandler_Execute_CacheKeyVariesWithSettings(t *testing.T) {
	in := createInput().submission()
	plain := createTestHandler(t, nil)
	personal := NewHandler(HandlerOptions{
		Config:   createTestConfig(),
		Analyzer: pipeline.New(nil, pipeline.WithPersonalizedFeedback(true)),
	})

	assert.Equal(t, plain.cacheKey(in), createTestHandler(t, nil).cacheKey(in))
	assert.NotEqual(t, plain.cacheKey(in), personal.cacheKey(in))

	other := in
	other.WordLimitHint = "300"
	assert.NotEqual(t, plain.cacheKey(in), plain.cacheKey(other))
}

func TestHandler_Execute_CacheFailureIsBypassed(t *testing.T) {
	client, mock := redismock.NewClientMock()
	cache := database.NewRedisFromClient(client, "p:")
	h := createTestHandler(t, cache)
	in := createInput()
	key := "p:" + h.cacheKey(in.submission())

	// The write after the failed read is unexpected, so the mock fails it too.
	mock.ExpectGet(key).SetErr(errors.New("connection refused"))

	out, err := h.Execute(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, models.ArchetypeLeadership, out.PromptArchetype)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandler_Execute_CacheDisabledByTTL(t *testing.T) {
	cache, mr := setupRedis(t)
	cfg := createTestConfig()
	cfg.CacheTTL = 0
	h := NewHandler(HandlerOptions{Config: cfg, Cache: cache})

	_, err := h.Execute(context.Background(), createInput())
	require.NoError(t, err)
	assert.Empty(t, mr.Keys())
}

func TestHandler_Execute_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := createTestHandler(t, nil).Execute(ctx, createInput())
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrAnalysisTimeout)
	assert.True(t, apperrors.Normalize(err).Retryable)
}

// ==========================
// Input Decoding Tests
// ==========================

func TestHandler_Decode(t *testing.T) {
	tests := []struct {
		name      string
		variables string
		wantCode  apperrors.ErrorCode
		wantLimit WordLimit
	}{
		{"string limit", `{"prompt":"p","essay":"e","wordLimit":"650 words"}`, "", "650 words"},
		{"numeric limit", `{"prompt":"p","essay":"e","wordLimit":500}`, "", "500"},
		{"null limit", `{"prompt":"p","essay":"e","wordLimit":null}`, "", ""},
		{"no limit", `{"prompt":"p","essay":"e"}`, "", ""},
		{"missing essay", `{"prompt":"p"}`, apperrors.ErrCodeSchemaMismatch, ""},
		{"essay not a string", `{"prompt":"p","essay":12}`, apperrors.ErrCodeParseError, ""},
		{"bad limit", `{"prompt":"p","essay":"e","wordLimit":true}`, apperrors.ErrCodeParseError, ""},
		{"broken json", `{"prompt":`, apperrors.ErrCodeParseError, ""},
	}

	h := createTestHandler(t, nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in, err := h.Decode(tt.variables)
			if tt.wantCode != "" {
				require.Error(t, err)
				assert.Equal(t, tt.wantCode, apperrors.Normalize(err).Code)
				assert.True(t, apperrors.IsInvalidInput(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantLimit, in.WordLimit)
		})
	}
}

func TestLoadConfig(t *testing.T) {
	def := LoadConfig(nil)
	assert.Equal(t, time.Hour, def.CacheTTL)

	cfg := &config.Config{
		Essay:   config.EssayConfig{CacheTTLSeconds: 60},
		Workers: map[string]config.WorkerConfig{TaskType: {Enabled: true, MaxJobsActive: 3, Timeout: 2000}},
	}
	got := LoadConfig(cfg)
	assert.Equal(t, time.Minute, got.CacheTTL)
	assert.Equal(t, 2*time.Second, got.Timeout)
	assert.Equal(t, 3, got.MaxJobsActive)
}
