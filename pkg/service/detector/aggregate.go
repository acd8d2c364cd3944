// sleeve-detector/pkg/service/detector/aggregate.go
package detector

import (
	"image"

	"github.com/anzhiyu-c/sleeve-detector/pkg/domain/model"
)

// opaqueAlphaThreshold 是不透明判定阈值：alpha 严格大于该值的像素
// 才被当作前景（衣服），等于或小于都按背景处理。
const opaqueAlphaThreshold = 128

// collectOpaque 把子图中不透明像素的 RGB 分量追加到 dst 并返回。
// 多个区域的像素在聚合前汇入同一个切片，区域处理顺序不影响最终结果。
func collectOpaque(img *image.NRGBA, dst [][3]uint8) [][3]uint8 {
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			i := img.PixOffset(x, y)
			if img.Pix[i+3] > opaqueAlphaThreshold {
				dst = append(dst, [3]uint8{img.Pix[i], img.Pix[i+1], img.Pix[i+2]})
			}
		}
	}
	return dst
}

// averageColor 对像素集合逐通道求算术平均，向下取整。
// 空集合（主区域和全图回退都没找到像素）返回兜底白色。
func averageColor(pixels [][3]uint8) model.ColorTriple {
	if len(pixels) == 0 {
		return model.SentinelWhite
	}
	var sumR, sumG, sumB uint64
	for _, p := range pixels {
		sumR += uint64(p[0])
		sumG += uint64(p[1])
		sumB += uint64(p[2])
	}
	n := uint64(len(pixels))
	return model.ColorTriple{
		R: uint8(sumR / n),
		G: uint8(sumG / n),
		B: uint8(sumB / n),
	}
}
