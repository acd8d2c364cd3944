// sleeve-detector/pkg/service/detector/region.go
package detector

import (
	"image"

	"github.com/disintegration/imaging"
)

// Region 表示一个以贴图宽高比例表达的检测区域，检测时换算为整数像素边界。
type Region struct {
	Label string
	X0    float64
	Y0    float64
	X1    float64
	Y1    float64
}

// SleeveRegions 是手工调参固定下来的四个候选区域。
// Full Arm 故意与其他区域重叠：重叠部分的像素会被重复计入，
// 相当于给手臂整体覆盖范围更高的权重，这是刻意为之而非缺陷。
var SleeveRegions = []Region{
	{Label: "Right Sleeve", X0: 0.7, Y0: 0.4, X1: 0.9, Y1: 0.6},
	{Label: "Left Sleeve", X0: 0.1, Y0: 0.4, X1: 0.3, Y1: 0.6},
	{Label: "Full Arm", X0: 0.1, Y0: 0.3, X1: 0.9, Y1: 0.7},
	{Label: "Shoulder", X0: 0.6, Y0: 0.2, X1: 0.8, Y1: 0.4},
}

// Bounds 按宽高把比例换算为整数像素矩形，换算一律向下取整。
func (r Region) Bounds(width, height int) image.Rectangle {
	return image.Rect(
		int(float64(width)*r.X0),
		int(float64(height)*r.Y0),
		int(float64(width)*r.X1),
		int(float64(height)*r.Y1),
	)
}

// Crop 从贴图中裁出该区域对应的子图。
func (r Region) Crop(img *image.NRGBA) *image.NRGBA {
	b := img.Bounds()
	return imaging.Crop(img, r.Bounds(b.Dx(), b.Dy()))
}
