/*
 * @Description: 请求日志中间件，为每个请求分配短请求ID
 * @Author: 安知鱼
 * @Date: 2025-09-04 16:02:55
 * @LastEditTime: 2025-09-10 09:31:27
 * @LastEditors: 安知鱼
 */
package middleware

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestLog 为每个请求生成 8 位请求ID，记录进出两条访问日志，
// 并通过 X-Request-ID 响应头回传给调用方。
func RequestLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := uuid.NewString()[:8]
		c.Set("request_id", requestID)
		c.Header("X-Request-ID", requestID)

		start := time.Now()
		log.Printf("📥 REQUEST [%s] FROM %s | %s %s", requestID, c.ClientIP(), c.Request.Method, c.Request.URL.Path)

		c.Next()

		log.Printf("📤 RESPONSE [%s] | 状态: %d | 耗时: %.3fs", requestID, c.Writer.Status(), time.Since(start).Seconds())
	}
}
