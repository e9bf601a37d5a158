package middleware

import (
	"websecurity/internal/utils"

	"github.com/gin-gonic/gin"
)

// AdminMiddleware 管理员权限中间件，只用于纯管理接口
// 否决等生命周期操作的管理员检查在服务层进行，以保证检查顺序
func AdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !IsAdmin(c) {
			utils.Forbidden(c, "admin privileges are required")
			c.Abort()
			return
		}
		c.Next()
	}
}
