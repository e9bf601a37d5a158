package redis_limiter

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
)

// ErrSlotBusy 槽位已满
var ErrSlotBusy = errors.New("slot busy")

// acquireScript 当前值小于上限时加一并设置过期时间，否则返回上限加一
var acquireScript = redis.NewScript(`
local current = redis.call('GET', KEYS[1])
if current == false then
	current = 0
else
	current = tonumber(current)
end
if current >= tonumber(ARGV[1]) then
	return current + 1
end
local newCount = redis.call('INCR', KEYS[1])
redis.call('EXPIRE', KEYS[1], tonumber(ARGV[2]))
return newCount`)

// releaseScript 减一，归零时删除key
var releaseScript = redis.NewScript(`
local count = redis.call('DECR', KEYS[1])
if tonumber(count) <= 0 then
	redis.call('DEL', KEYS[1])
	return 0
end
redis.call('EXPIRE', KEYS[1], tonumber(ARGV[1]))
return count`)

// RedisLimiter 基于Redis的槽位限制器，maxConcurrent=1 时即为互斥锁
type RedisLimiter struct {
	client        redis.Scripter
	maxConcurrent int
	keyPrefix     string
	ttl           time.Duration
	logger        logrus.FieldLogger
}

// NewRedisLimiter 创建基于Redis的槽位限制器
func NewRedisLimiter(client redis.Scripter, maxConcurrent int, keyPrefix string, ttl time.Duration, logger logrus.FieldLogger) *RedisLimiter {
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}
	if ttl < time.Second {
		ttl = time.Second
	}
	return &RedisLimiter{
		client:        client,
		maxConcurrent: maxConcurrent,
		keyPrefix:     keyPrefix,
		ttl:           ttl,
		logger:        logger,
	}
}

// Acquire 获取槽位，已满时返回 ErrSlotBusy
func (rl *RedisLimiter) Acquire(ctx context.Context, key string) error {
	result, err := acquireScript.Run(ctx, rl.client, []string{rl.keyPrefix + key}, rl.maxConcurrent, int(rl.ttl.Seconds())).Int()
	if err != nil {
		return fmt.Errorf("执行Lua脚本失败: %w", err)
	}

	if result > rl.maxConcurrent {
		rl.logger.WithFields(logrus.Fields{
			"key": key,
			"max": rl.maxConcurrent,
		}).Debug("slot busy")
		return ErrSlotBusy
	}
	return nil
}

// Release 释放槽位
func (rl *RedisLimiter) Release(ctx context.Context, key string) {
	_, err := releaseScript.Run(ctx, rl.client, []string{rl.keyPrefix + key}, int(rl.ttl.Seconds())).Result()
	if err != nil {
		rl.logger.WithField("key", key).WithError(err).Warn("release slot failed")
	}
}

// GetMaxConcurrent 获取最大并发数
func (rl *RedisLimiter) GetMaxConcurrent() int {
	return rl.maxConcurrent
}
