// sleeve-detector/pkg/service/utility/color.go
package utility

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"log"

	"github.com/EdlinOrg/prominentcolor"
	_ "golang.org/x/image/webp"

	"github.com/anzhiyu-c/sleeve-detector/pkg/domain/model"
)

// ColorService 使用 K-Means 聚类提取整张贴图的主色调。
// 它与袖子检测管线互不影响，只服务于 /dominant 诊断接口。
type ColorService struct{}

func NewColorService() *ColorService {
	log.Println("[ColorService] 初始化颜色服务：使用 'prominentcolor' (K-Means算法) 来查找主色调。")
	return &ColorService{}
}

func (s *ColorService) GetDominantColor(reader io.Reader) (model.ColorTriple, error) {
	imgData, err := io.ReadAll(reader)
	if err != nil {
		return model.ColorTriple{}, fmt.Errorf("读取图片数据失败: %w", err)
	}

	img, _, err := image.Decode(bytes.NewReader(imgData))
	if err != nil {
		return model.ColorTriple{}, fmt.Errorf("解码图片失败: %w", err)
	}

	colors, err := prominentcolor.KmeansWithArgs(prominentcolor.ArgumentNoCropping, img)
	if err != nil {
		return model.ColorTriple{}, fmt.Errorf("使用 prominentcolor (K-Means) 提取主色调失败: %w", err)
	}

	if len(colors) == 0 {
		return model.ColorTriple{}, fmt.Errorf("prominentcolor (K-Means) 未能找到任何主色调")
	}

	dominant := colors[0].Color
	return model.ColorTriple{
		R: uint8(dominant.R),
		G: uint8(dominant.G),
		B: uint8(dominant.B),
	}, nil
}
