/*
 * @Description: 袖子颜色检测编排服务
 * @Author: 安知鱼
 * @Date: 2025-09-03 14:21:33
 * @LastEditTime: 2025-09-22 19:47:10
 * @LastEditors: 安知鱼
 */
package detector

import (
	"bytes"
	"context"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"log"
	"time"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"
	"golang.org/x/sync/singleflight"

	"github.com/anzhiyu-c/sleeve-detector/pkg/domain/model"
	"github.com/anzhiyu-c/sleeve-detector/pkg/service/colorcache"
	"github.com/anzhiyu-c/sleeve-detector/pkg/service/override"
)

// Service 定义检测的对外契约：永远返回一个颜色，绝不向调用方抛错。
// 内部任何失败（下载、解码、无可用像素）都在本层收敛为兜底白色。
type Service interface {
	Detect(ctx context.Context, textureID string) model.ColorTriple
}

// fallbackReason 标记检测失败走兜底的原因，仅用于日志与测试区分。
type fallbackReason string

const (
	reasonNone   fallbackReason = ""
	reasonFetch  fallbackReason = "fetch"
	reasonDecode fallbackReason = "decode"
	reasonEmpty  fallbackReason = "empty"
)

// result 是检测管线的内部带标签结果，在编排边界收敛为纯颜色。
type result struct {
	color  model.ColorTriple
	reason fallbackReason
}

type detectService struct {
	fetcher   *TextureFetcher
	overrides override.Service
	cache     colorcache.Service
	group     singleflight.Group
}

// NewService 创建检测编排服务。覆盖表与结果缓存都由外部注入，
// 便于测试时替换为假实现。
func NewService(fetcher *TextureFetcher, overrides override.Service, cache colorcache.Service) Service {
	return &detectService{
		fetcher:   fetcher,
		overrides: overrides,
		cache:     cache,
	}
}

// Detect 按 覆盖表 → 缓存 → 下载检测 的顺序求解颜色。
// 覆盖命中直接返回，不写缓存，也不受历史缓存影响：覆盖永远优先。
// 未缓存的ID通过 singleflight 合流，并发请求同一ID时只跑一次下载管线。
func (s *detectService) Detect(ctx context.Context, textureID string) model.ColorTriple {
	if color, ok := s.overrides.Get(textureID); ok {
		log.Printf("[检测服务] 使用手动覆盖 ID: %s | 颜色: %s", textureID, color.Hex())
		return color
	}

	if color, ok := s.cache.Get(textureID); ok {
		return color
	}

	v, _, _ := s.group.Do(textureID, func() (any, error) {
		// 合流等待期间可能已有并发请求把结果写入缓存
		if color, ok := s.cache.Get(textureID); ok {
			return color, nil
		}

		res := s.detect(ctx, textureID)
		if res.reason != reasonNone {
			log.Printf("[检测服务] 检测失败 ID: %s | 原因: %s | 返回兜底色 %s", textureID, res.reason, res.color.Hex())
		}
		// 兜底结果同样缓存，单次失败对该ID是最终结果，不自动重试
		s.cache.Put(textureID, res.color)
		return res.color, nil
	})
	return v.(model.ColorTriple)
}

// detect 执行一次完整的下载→解码→采样→过滤→聚合管线。
func (s *detectService) detect(ctx context.Context, textureID string) result {
	start := time.Now()

	data, err := s.fetcher.Fetch(ctx, textureID)
	if err != nil {
		log.Printf("[检测服务] 下载贴图失败 ID: %s | %v", textureID, err)
		return result{color: model.SentinelWhite, reason: reasonFetch}
	}

	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		log.Printf("[检测服务] 解码贴图失败 ID: %s | %v", textureID, err)
		return result{color: model.SentinelWhite, reason: reasonDecode}
	}

	// 统一转为 8 位 NRGBA，保证每个像素都有可读的 alpha 通道
	img := imaging.Clone(src)
	width, height := img.Bounds().Dx(), img.Bounds().Dy()

	var opaque [][3]uint8
	for _, region := range SleeveRegions {
		before := len(opaque)
		opaque = collectOpaque(region.Crop(img), opaque)
		log.Printf("[检测服务] 扫描 %s ID: %s | 区域: %v | 不透明像素: %d",
			region.Label, textureID, region.Bounds(width, height), len(opaque)-before)
	}

	if len(opaque) == 0 {
		log.Printf("[检测服务] 四个区域均无不透明像素 ID: %s，回退为全图扫描", textureID)
		opaque = collectOpaque(img, nil)
		if len(opaque) == 0 {
			log.Printf("[检测服务] 全图也无不透明像素 ID: %s", textureID)
			return result{color: model.SentinelWhite, reason: reasonEmpty}
		}
	}

	color := averageColor(opaque)
	log.Printf("[检测服务] 检测完成 ID: %s | 颜色: %s | 耗时: %.3fs",
		textureID, color.Hex(), time.Since(start).Seconds())
	return result{color: color}
}
