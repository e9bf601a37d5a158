package middleware

import (
	"context"
	"errors"

	"websecurity/internal/utils"
	"websecurity/pkg/redis_limiter"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Locker 实体修改锁
type Locker interface {
	Acquire(ctx context.Context, key string) error
	Release(ctx context.Context, key string)
}

// EntityLock 同一实体(scope:id)的修改请求同一时间只放行一个，占用时返回409
// locker 为nil时不加锁；Redis出错时放行，一致性仍由数据库事务保证
func EntityLock(locker Locker, scope string, logger logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if locker == nil {
			c.Next()
			return
		}

		key := scope + ":" + c.Param("id")
		if err := locker.Acquire(c.Request.Context(), key); err != nil {
			if errors.Is(err, redis_limiter.ErrSlotBusy) {
				utils.Conflict(c, "another change to this entity is in progress")
				c.Abort()
				return
			}
			logger.WithField("key", key).WithError(err).Warn("entity lock unavailable")
			c.Next()
			return
		}
		defer locker.Release(context.Background(), key)

		c.Next()
	}
}
