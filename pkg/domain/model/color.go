// sleeve-detector/pkg/domain/model/color.go
package model

import "github.com/lucasb-eyer/go-colorful"

// ColorTriple 表示一个 RGB 颜色，每个通道取值范围 [0, 255]。
// 它既是检测结果的单位，也是缓存条目和手动覆盖值的单位。
type ColorTriple struct {
	R uint8
	G uint8
	B uint8
}

// SentinelWhite 是固定的兜底颜色：当图片完全透明、下载或解码失败时返回它，
// 用于区分"检测到了颜色"和"什么都没检测到"。
var SentinelWhite = ColorTriple{R: 255, G: 255, B: 255}

// Slice 以 [r, g, b] 数组形式返回颜色，用于 JSON 响应。
func (c ColorTriple) Slice() [3]int {
	return [3]int{int(c.R), int(c.G), int(c.B)}
}

// Hex 返回 #rrggbb 形式的十六进制表示，主要用于日志输出。
func (c ColorTriple) Hex() string {
	return colorful.Color{
		R: float64(c.R) / 255.0,
		G: float64(c.G) / 255.0,
		B: float64(c.B) / 255.0,
	}.Hex()
}
