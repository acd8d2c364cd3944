/*
 * @Description:
 * @Author: 安知鱼
 * @Date: 2025-09-02 23:52:37
 * @LastEditTime: 2025-09-24 18:19:43
 * @LastEditors: 安知鱼
 */
// sleeve-detector/internal/infra/router/router.go
package router

import (
	"github.com/gin-gonic/gin"

	analyze_handler "github.com/anzhiyu-c/sleeve-detector/pkg/handler/analyze"
)

// Router 封装了应用的所有路由和其依赖的处理器。
type Router struct {
	analyzeHandler *analyze_handler.AnalyzeHandler
	rateLimiter    gin.HandlerFunc
}

// NewRouter 是 Router 的构造函数，通过依赖注入接收处理器与限流中间件。
func NewRouter(
	analyzeHandler *analyze_handler.AnalyzeHandler,
	rateLimiter gin.HandlerFunc,
) *Router {
	return &Router{
		analyzeHandler: analyzeHandler,
		rateLimiter:    rateLimiter,
	}
}

// Setup 注册全部路由。
// 公开的检测接口挂在限流中间件后面，存活探针和管理接口不限流。
func (r *Router) Setup(engine *gin.Engine) {
	engine.GET("/", r.analyzeHandler.HandleHome)

	public := engine.Group("/")
	public.Use(r.rateLimiter)
	{
		public.GET("/analyze", r.analyzeHandler.HandleAnalyze)
		public.GET("/dominant", r.analyzeHandler.HandleDominant)
	}

	engine.POST("/add_override", r.analyzeHandler.HandleAddOverride)
}
