/*
 * @Description: 袖子检测 API 处理器
 * @Author: 安知鱼
 * @Date: 2025-09-04 09:15:26
 * @LastEditTime: 2025-09-23 22:41:09
 * @LastEditors: 安知鱼
 */
package analyze

import (
	"bytes"
	"fmt"
	"log"
	"net/http"
	"regexp"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/anzhiyu-c/sleeve-detector/pkg/domain/model"
	"github.com/anzhiyu-c/sleeve-detector/pkg/service/detector"
	"github.com/anzhiyu-c/sleeve-detector/pkg/service/override"
	"github.com/anzhiyu-c/sleeve-detector/pkg/service/utility"
)

// 贴图ID必须是纯数字字符串，校验只发生在这一层，core 不再重复校验
var textureIDPattern = regexp.MustCompile(`^\d+$`)

// AnalyzeHandler 袖子检测 API 处理器
type AnalyzeHandler struct {
	detectorSvc detector.Service
	overrideSvc override.Service
	colorSvc    *utility.ColorService
	fetcher     *detector.TextureFetcher
}

// NewAnalyzeHandler 创建袖子检测处理器实例
func NewAnalyzeHandler(
	detectorSvc detector.Service,
	overrideSvc override.Service,
	colorSvc *utility.ColorService,
	fetcher *detector.TextureFetcher,
) *AnalyzeHandler {
	return &AnalyzeHandler{
		detectorSvc: detectorSvc,
		overrideSvc: overrideSvc,
		colorSvc:    colorSvc,
		fetcher:     fetcher,
	}
}

// serverTimestamp 返回秒级浮点时间戳，保留亚秒精度。
func serverTimestamp() float64 {
	return float64(time.Now().UnixNano()) / float64(time.Second)
}

// HandleHome 存活探针
// @Summary      服务存活检测
// @Description  返回固定的存活标记文本
// @Tags         检测服务
// @Produce      plain
// @Success      200  {string}  string  "存活标记"
// @Router       / [get]
func (h *AnalyzeHandler) HandleHome(c *gin.Context) {
	c.String(http.StatusOK, "Ultimate Sleeve Detection Server")
}

// HandleAnalyze 分析贴图的袖子颜色
// @Summary      袖子颜色分析
// @Description  下载贴图并估算袖子区域的代表色，ID非法时返回400，检测失败兜底为白色
// @Tags         检测服务
// @Produce      json
// @Param        texture_id  query  string  true  "贴图ID（纯数字）"
// @Success      200  {object}  object{valid=bool,color=[]int,sleeve_type=string,texture_id=string,server_timestamp=number}
// @Failure      400  {object}  object{valid=bool,error=string,server_timestamp=number}
// @Router       /analyze [get]
func (h *AnalyzeHandler) HandleAnalyze(c *gin.Context) {
	textureID := c.Query("texture_id")
	if !textureIDPattern.MatchString(textureID) {
		log.Printf("[分析接口] 非法贴图ID: '%s'", textureID)
		c.JSON(http.StatusBadRequest, gin.H{
			"valid":            false,
			"error":            "Texture ID must be numeric",
			"server_timestamp": serverTimestamp(),
		})
		return
	}

	color := h.detectorSvc.Detect(c.Request.Context(), textureID)

	c.JSON(http.StatusOK, gin.H{
		"valid":            true,
		"color":            color.Slice(),
		"sleeve_type":      "short",
		"texture_id":       textureID,
		"server_timestamp": serverTimestamp(),
	})
}

// HandleDominant 提取贴图整体主色调（诊断用）
// @Summary      主色调提取
// @Description  对整张贴图做 K-Means 聚类并返回主色调，失败时兜底为白色
// @Tags         检测服务
// @Produce      json
// @Param        texture_id  query  string  true  "贴图ID（纯数字）"
// @Success      200  {object}  object{valid=bool,color=[]int,mode=string,texture_id=string,server_timestamp=number}
// @Failure      400  {object}  object{valid=bool,error=string,server_timestamp=number}
// @Router       /dominant [get]
func (h *AnalyzeHandler) HandleDominant(c *gin.Context) {
	textureID := c.Query("texture_id")
	if !textureIDPattern.MatchString(textureID) {
		log.Printf("[主色调接口] 非法贴图ID: '%s'", textureID)
		c.JSON(http.StatusBadRequest, gin.H{
			"valid":            false,
			"error":            "Texture ID must be numeric",
			"server_timestamp": serverTimestamp(),
		})
		return
	}

	color := model.SentinelWhite
	data, err := h.fetcher.Fetch(c.Request.Context(), textureID)
	if err != nil {
		log.Printf("[主色调接口] 下载贴图失败 ID: %s | %v", textureID, err)
	} else if dominant, derr := h.colorSvc.GetDominantColor(bytes.NewReader(data)); derr != nil {
		log.Printf("[主色调接口] 提取主色调失败 ID: %s | %v", textureID, derr)
	} else {
		color = dominant
	}

	c.JSON(http.StatusOK, gin.H{
		"valid":            true,
		"color":            color.Slice(),
		"mode":             "dominant",
		"texture_id":       textureID,
		"server_timestamp": serverTimestamp(),
	})
}

// overrideRequest 是 /add_override 的请求体
type overrideRequest struct {
	TextureID string `json:"texture_id"`
	Color     []int  `json:"color"`
}

// HandleAddOverride 写入手动覆盖颜色
// @Summary      添加颜色覆盖
// @Description  为指定贴图ID写入管理员指定的颜色，覆盖优先于自动检测
// @Tags         检测服务
// @Accept       json
// @Produce      json
// @Param        request  body  object{texture_id=string,color=[]int}  true  "覆盖请求"
// @Success      200  {object}  object{success=bool,message=string,total_overrides=int}
// @Failure      400  {object}  object{success=bool,error=string}
// @Failure      500  {object}  object{success=bool,error=string}
// @Router       /add_override [post]
func (h *AnalyzeHandler) HandleAddOverride(c *gin.Context) {
	var req overrideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Printf("[覆盖接口] 解析请求体失败: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   err.Error(),
		})
		return
	}

	if req.TextureID == "" || len(req.Color) != 3 {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Invalid parameters",
		})
		return
	}

	h.overrideSvc.Set(req.TextureID, model.ColorTriple{
		R: clampChannel(req.Color[0]),
		G: clampChannel(req.Color[1]),
		B: clampChannel(req.Color[2]),
	})

	c.JSON(http.StatusOK, gin.H{
		"success":         true,
		"message":         fmt.Sprintf("Override added for %s: %v", req.TextureID, req.Color),
		"total_overrides": h.overrideSvc.Count(),
	})
}

// clampChannel 把任意整数收敛到合法的 8 位通道取值
func clampChannel(v int) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
