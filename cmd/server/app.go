// sleeve-detector/cmd/server/app.go
package server

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/anzhiyu-c/sleeve-detector/internal/app/middleware"
	"github.com/anzhiyu-c/sleeve-detector/internal/app/task"
	"github.com/anzhiyu-c/sleeve-detector/internal/infra/config"
	"github.com/anzhiyu-c/sleeve-detector/internal/infra/router"
	analyze_handler "github.com/anzhiyu-c/sleeve-detector/pkg/handler/analyze"
	"github.com/anzhiyu-c/sleeve-detector/pkg/service/colorcache"
	"github.com/anzhiyu-c/sleeve-detector/pkg/service/detector"
	"github.com/anzhiyu-c/sleeve-detector/pkg/service/override"
	"github.com/anzhiyu-c/sleeve-detector/pkg/service/utility"
)

// App 结构体，用于封装应用的所有核心组件
type App struct {
	cfg        *config.Config
	engine     *gin.Engine
	taskBroker *task.Broker
}

// PrintBanner 打印应用启动 banner
func (a *App) PrintBanner() {
	banner := `

      ███████╗██╗     ███████╗███████╗██╗   ██╗███████╗
      ██╔════╝██║     ██╔════╝██╔════╝██║   ██║██╔════╝
      ███████╗██║     █████╗  █████╗  ██║   ██║█████╗
      ╚════██║██║     ██╔══╝  ██╔══╝  ╚██╗ ██╔╝██╔══╝
      ███████║███████╗███████╗███████╗ ╚████╔╝ ███████╗
      ╚══════╝╚══════╝╚══════╝╚══════╝  ╚═══╝  ╚══════╝

`
	log.Println(banner)
	log.Println("--------------------------------------------------------")
	log.Println(" Sleeve Detector - 袖子颜色检测服务")
	log.Println("--------------------------------------------------------")
}

// NewApp 是应用的构造函数，它执行所有的初始化和依赖注入工作
func NewApp() (*App, error) {
	// --- Phase 1: 加载外部配置 ---
	cfg, err := config.NewConfig()
	if err != nil {
		return nil, fmt.Errorf("加载配置失败: %w", err)
	}

	if !cfg.GetBool(config.KeyServerDebug) {
		gin.SetMode(gin.ReleaseMode)
	}

	// --- Phase 2: 初始化基础设施 ---
	fetchTimeout := cfg.GetInt(config.KeyDetectorFetchTimeout)
	httpClient := &http.Client{Timeout: detector.DefaultFetchTimeout}
	if fetchTimeout > 0 {
		httpClient.Timeout = time.Duration(fetchTimeout) * time.Second
	}

	// --- Phase 3: 初始化业务逻辑层 ---
	// 注意：这里的 Svc 变量都是接口类型，因为它们的构造函数返回接口
	overrideSvc := override.NewService()
	cacheSvc := colorcache.NewService(cfg.GetInt(config.KeyDetectorCacheCapacity))
	fetcher := detector.NewTextureFetcher(cfg.GetString(config.KeyDetectorAssetURL), httpClient)
	colorSvc := utility.NewColorService()
	detectorSvc := detector.NewService(fetcher, overrideSvc, cacheSvc)
	taskBroker := task.NewBroker(cacheSvc, overrideSvc, cfg.GetString(config.KeyTaskStatsCron))

	// --- Phase 4: 初始化表现层 (Handlers) ---
	analyzeHandler := analyze_handler.NewAnalyzeHandler(detectorSvc, overrideSvc, colorSvc, fetcher)

	// --- Phase 5: 初始化路由 ---
	appRouter := router.NewRouter(
		analyzeHandler,
		middleware.RateLimit(cfg.GetFloat64(config.KeyRateLimitQPS), cfg.GetInt(config.KeyRateLimitBurst)),
	)

	// --- Phase 6: 配置 Gin 引擎 ---
	engine := gin.Default()
	if err := engine.SetTrustedProxies(nil); err != nil {
		return nil, fmt.Errorf("设置信任代理失败: %w", err)
	}
	engine.ForwardedByClientIP = true
	engine.Use(middleware.Cors())
	engine.Use(middleware.RequestLog())
	appRouter.Setup(engine)

	// 将所有初始化好的组件装配到 App 实例中
	app := &App{
		cfg:        cfg,
		engine:     engine,
		taskBroker: taskBroker,
	}

	return app, nil
}

func (a *App) Config() *config.Config {
	return a.cfg
}

func (a *App) Engine() *gin.Engine {
	return a.engine
}

func (a *App) Run() error {
	a.taskBroker.RegisterCronJobs()
	a.taskBroker.Start()

	port := a.cfg.GetString(config.KeyServerPort)
	if port == "" {
		port = "8091"
	}
	fmt.Printf("应用程序启动成功，正在监听端口: %s\n", port)

	return a.engine.Run(":" + port)
}

func (a *App) Stop() {
	if a.taskBroker != nil {
		a.taskBroker.Stop()
		log.Println("任务调度器已停止。")
	}
}
