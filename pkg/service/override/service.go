/*
 * @Description: 手动覆盖表服务，管理员指定的颜色优先于自动检测
 * @Author: 安知鱼
 * @Date: 2025-09-03 10:12:40
 * @LastEditTime: 2025-09-18 21:05:17
 * @LastEditors: 安知鱼
 */
package override

import (
	"log"
	"sync"

	"github.com/anzhiyu-c/sleeve-detector/pkg/domain/model"
)

// Service 定义覆盖表的对外契约。
// 覆盖表在每次检测前被查询，命中则完全跳过下载与检测。
// 键不做任何校验（校验是 HTTP 边界的职责），条目不过期、不淘汰，
// 随进程生命周期存在。
type Service interface {
	// Get 返回指定贴图ID的覆盖颜色，第二个返回值表示是否存在。
	Get(textureID string) (model.ColorTriple, bool)
	// Set 无条件插入或替换覆盖颜色。
	Set(textureID string, color model.ColorTriple)
	// Count 返回当前覆盖条目总数。
	Count() int
}

type memoryService struct {
	mu      sync.RWMutex
	entries map[string]model.ColorTriple
}

// NewService 创建进程内的覆盖表服务实例。
func NewService() Service {
	log.Println("[覆盖表服务] 初始化完成，覆盖表为空。")
	return &memoryService{
		entries: make(map[string]model.ColorTriple),
	}
}

func (s *memoryService) Get(textureID string) (model.ColorTriple, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	color, ok := s.entries[textureID]
	return color, ok
}

func (s *memoryService) Set(textureID string, color model.ColorTriple) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[textureID] = color
	log.Printf("[覆盖表服务] 已写入覆盖 ID: %s | 颜色: %s | 当前条目数: %d", textureID, color.Hex(), len(s.entries))
}

func (s *memoryService) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
