package redis_limiter

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memoryScripter 在内存中模拟两个Lua脚本
type memoryScripter struct {
	counts map[string]int64
	err    error
}

func newMemoryScripter() *memoryScripter {
	return &memoryScripter{counts: map[string]int64{}}
}

func (m *memoryScripter) EvalSha(ctx context.Context, sha1 string, keys []string, args ...interface{}) *redis.Cmd {
	if m.err != nil {
		return redis.NewCmdResult(nil, m.err)
	}
	key := keys[0]
	switch sha1 {
	case acquireScript.Hash():
		limit := int64(args[0].(int))
		if m.counts[key] >= limit {
			return redis.NewCmdResult(m.counts[key]+1, nil)
		}
		m.counts[key]++
		return redis.NewCmdResult(m.counts[key], nil)
	case releaseScript.Hash():
		m.counts[key]--
		if m.counts[key] <= 0 {
			delete(m.counts, key)
			return redis.NewCmdResult(int64(0), nil)
		}
		return redis.NewCmdResult(m.counts[key], nil)
	}
	return redis.NewCmdResult(nil, errors.New("NOSCRIPT unknown script"))
}

func (m *memoryScripter) Eval(ctx context.Context, script string, keys []string, args ...interface{}) *redis.Cmd {
	return redis.NewCmdResult(nil, errors.New("unexpected EVAL"))
}

func (m *memoryScripter) ScriptExists(ctx context.Context, hashes ...string) *redis.BoolSliceCmd {
	return redis.NewBoolSliceResult(nil, nil)
}

func (m *memoryScripter) ScriptLoad(ctx context.Context, script string) *redis.StringCmd {
	return redis.NewStringResult("", nil)
}

func TestAcquireAndRelease(t *testing.T) {
	logger, _ := test.NewNullLogger()
	scripter := newMemoryScripter()
	limiter := NewRedisLimiter(scripter, 1, "lock:", 10*time.Second, logger)
	ctx := context.Background()

	require.NoError(t, limiter.Acquire(ctx, "offer:1"))
	assert.ErrorIs(t, limiter.Acquire(ctx, "offer:1"), ErrSlotBusy)
	assert.NoError(t, limiter.Acquire(ctx, "offer:2"))
	assert.Equal(t, int64(1), scripter.counts["lock:offer:1"])

	limiter.Release(ctx, "offer:1")
	_, held := scripter.counts["lock:offer:1"]
	assert.False(t, held)
	assert.NoError(t, limiter.Acquire(ctx, "offer:1"))
}

func TestMultipleSlots(t *testing.T) {
	logger, _ := test.NewNullLogger()
	limiter := NewRedisLimiter(newMemoryScripter(), 2, "lock:", time.Minute, logger)
	ctx := context.Background()

	assert.NoError(t, limiter.Acquire(ctx, "k"))
	assert.NoError(t, limiter.Acquire(ctx, "k"))
	assert.ErrorIs(t, limiter.Acquire(ctx, "k"), ErrSlotBusy)
	assert.Equal(t, 2, limiter.GetMaxConcurrent())
}

func TestNewRedisLimiterClampsSettings(t *testing.T) {
	logger, _ := test.NewNullLogger()
	limiter := NewRedisLimiter(newMemoryScripter(), 0, "lock:", time.Millisecond, logger)

	assert.Equal(t, 1, limiter.GetMaxConcurrent())
	assert.Equal(t, time.Second, limiter.ttl)
}

func TestRedisErrors(t *testing.T) {
	logger, hook := test.NewNullLogger()
	scripter := newMemoryScripter()
	scripter.err = errors.New("connection refused")
	limiter := NewRedisLimiter(scripter, 1, "lock:", time.Second, logger)
	ctx := context.Background()

	err := limiter.Acquire(ctx, "offer:1")
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrSlotBusy))

	limiter.Release(ctx, "offer:1")
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
}
