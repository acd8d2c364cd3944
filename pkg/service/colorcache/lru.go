/*
 * @Description: 检测结果缓存，带容量上限的 LRU 淘汰
 * @Author: 安知鱼
 * @Date: 2025-09-03 11:40:02
 * @LastEditTime: 2025-09-20 16:33:48
 * @LastEditors: 安知鱼
 */
package colorcache

import (
	"container/list"
	"log"
	"sync"

	"github.com/anzhiyu-c/sleeve-detector/pkg/domain/model"
)

// DefaultCapacity 是未配置时的缓存容量上限。
const DefaultCapacity = 100

// Stats 是缓存的运行时统计快照，由后台任务周期性上报。
type Stats struct {
	Size      int
	Capacity  int
	Hits      uint64
	Misses    uint64
	Evictions uint64
}

// Service 定义检测结果缓存的对外契约。
// 缓存键是原始的贴图ID字符串，不做任何归一化：两个写法不同的ID
// 即使指向同一张贴图也是两个条目。缓存只存在于进程生命周期内。
type Service interface {
	// Get 查询缓存，命中时刷新该条目的最近使用时间。
	Get(textureID string) (model.ColorTriple, bool)
	// Put 写入缓存；容量已满时先淘汰最久未使用的条目。
	Put(textureID string, color model.ColorTriple)
	// Stats 返回当前统计快照。
	Stats() Stats
}

type entry struct {
	key   string
	color model.ColorTriple
}

type lruService struct {
	mu       sync.Mutex
	capacity int
	// order 的队首是最近使用的条目，队尾是下一个被淘汰的条目。
	order *list.List
	index map[string]*list.Element

	hits      uint64
	misses    uint64
	evictions uint64
}

// NewService 创建进程内的 LRU 结果缓存。capacity 小于等于 0 时使用默认容量。
func NewService(capacity int) Service {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	log.Printf("[结果缓存] 初始化完成，容量上限: %d", capacity)
	return &lruService{
		capacity: capacity,
		order:    list.New(),
		index:    make(map[string]*list.Element),
	}
}

func (s *lruService) Get(textureID string) (model.ColorTriple, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	elem, ok := s.index[textureID]
	if !ok {
		s.misses++
		return model.ColorTriple{}, false
	}
	s.hits++
	s.order.MoveToFront(elem)
	return elem.Value.(*entry).color, true
}

func (s *lruService) Put(textureID string, color model.ColorTriple) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if elem, ok := s.index[textureID]; ok {
		elem.Value.(*entry).color = color
		s.order.MoveToFront(elem)
		return
	}

	if s.order.Len() >= s.capacity {
		oldest := s.order.Back()
		if oldest != nil {
			evicted := s.order.Remove(oldest).(*entry)
			delete(s.index, evicted.key)
			s.evictions++
			log.Printf("[结果缓存] 容量已满，淘汰最久未使用条目 ID: %s", evicted.key)
		}
	}

	s.index[textureID] = s.order.PushFront(&entry{key: textureID, color: color})
}

func (s *lruService) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Stats{
		Size:      s.order.Len(),
		Capacity:  s.capacity,
		Hits:      s.hits,
		Misses:    s.misses,
		Evictions: s.evictions,
	}
}
