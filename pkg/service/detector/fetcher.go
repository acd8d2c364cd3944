// sleeve-detector/pkg/service/detector/fetcher.go
package detector

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"
)

const (
	// DefaultAssetURL 是远端贴图资源服务的默认地址，按 id 参数寻址。
	DefaultAssetURL = "https://assetdelivery.roblox.com/v1/asset/"
	// DefaultFetchTimeout 是单次下载的超时时间，超时不重试，直接走兜底。
	DefaultFetchTimeout = 15 * time.Second

	userAgent = "Roblox Sleeve Detector/2.0"
)

// TextureFetcher 负责从远端资源服务下载原始贴图字节。
// 只下载原始字节，不缓存：缓存的是最终的检测结果而不是图片本身。
type TextureFetcher struct {
	baseURL string
	client  *http.Client
}

// NewTextureFetcher 创建贴图下载器。baseURL 为空时使用默认资源服务地址，
// client 为 nil 时创建一个带默认超时的客户端。
func NewTextureFetcher(baseURL string, client *http.Client) *TextureFetcher {
	if baseURL == "" {
		baseURL = DefaultAssetURL
	}
	if client == nil {
		client = &http.Client{Timeout: DefaultFetchTimeout}
	}
	return &TextureFetcher{
		baseURL: baseURL,
		client:  client,
	}
}

// Fetch 下载指定贴图ID的原始图片字节。
// 网络错误、超时、非200状态码都作为错误返回，由编排层决定兜底。
func (f *TextureFetcher) Fetch(ctx context.Context, textureID string) ([]byte, error) {
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.baseURL+"?id="+url.QueryEscape(textureID), nil)
	if err != nil {
		return nil, fmt.Errorf("创建下载请求失败: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "image/*")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("下载贴图失败: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("资源服务返回非200状态码: %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("读取贴图数据失败: %w", err)
	}

	log.Printf("[检测服务] 贴图下载完成 ID: %s | 大小: %.1fKB | 耗时: %.3fs",
		textureID, float64(len(data))/1024, time.Since(start).Seconds())
	return data, nil
}
