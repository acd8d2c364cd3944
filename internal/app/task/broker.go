/*
 * @Description: 后台定时任务调度
 * @Author: 安知鱼
 * @Date: 2025-09-05 13:27:18
 * @LastEditTime: 2025-09-21 20:14:36
 * @LastEditors: 安知鱼
 */
package task

import (
	"log"

	"github.com/robfig/cron/v3"

	"github.com/anzhiyu-c/sleeve-detector/pkg/service/colorcache"
	"github.com/anzhiyu-c/sleeve-detector/pkg/service/override"
)

// defaultStatsSpec 是缓存统计上报的默认周期。
const defaultStatsSpec = "@every 10m"

// Broker 负责注册并调度所有后台定时任务。
type Broker struct {
	cron        *cron.Cron
	cacheSvc    colorcache.Service
	overrideSvc override.Service
	statsSpec   string
}

// NewBroker 创建任务调度器。statsSpec 为空时使用默认周期。
func NewBroker(cacheSvc colorcache.Service, overrideSvc override.Service, statsSpec string) *Broker {
	if statsSpec == "" {
		statsSpec = defaultStatsSpec
	}
	return &Broker{
		cron:        cron.New(),
		cacheSvc:    cacheSvc,
		overrideSvc: overrideSvc,
		statsSpec:   statsSpec,
	}
}

// RegisterCronJobs 注册所有定时任务。
func (b *Broker) RegisterCronJobs() {
	if _, err := b.cron.AddFunc(b.statsSpec, b.reportCacheStats); err != nil {
		log.Printf("[任务调度] 注册缓存统计任务失败 (%s): %v", b.statsSpec, err)
		return
	}
	log.Printf("[任务调度] 已注册缓存统计任务，周期: %s", b.statsSpec)
}

// reportCacheStats 把结果缓存与覆盖表的运行状态写入日志。
func (b *Broker) reportCacheStats() {
	stats := b.cacheSvc.Stats()
	log.Printf("[任务调度] 缓存统计 | 条目: %d/%d | 命中: %d | 未命中: %d | 淘汰: %d | 覆盖条目: %d",
		stats.Size, stats.Capacity, stats.Hits, stats.Misses, stats.Evictions, b.overrideSvc.Count())
}

func (b *Broker) Start() {
	b.cron.Start()
}

func (b *Broker) Stop() {
	b.cron.Stop()
}
