package monitor

import (
	"context"
	"log"
	"math"
	"sync"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

// StressCPU CPU 超过这个百分比就算高压
const StressCPU = 80.0

// Stats 一次采样的结果
type Stats struct {
	CPU      float64 // CPU 使用率 (0-100)
	Mem      float64 // 内存 使用率 (0-100)
	Stressed bool    // 是否处于高压状态 (CPU > 80)
}

// 采样函数，测试里可以换掉
type (
	cpuFunc func() (float64, error)
	memFunc func() (float64, error)
)

// Sampler 后台采集 CPU / 内存
// 谁创建谁负责：Run 跟着 ctx 走，ctx 取消就退出
type Sampler struct {
	interval time.Duration
	cpu      cpuFunc
	mem      memFunc

	mu    sync.RWMutex
	stats Stats
}

// NewSampler 每 interval 采一次
func NewSampler(interval time.Duration) *Sampler {
	return &Sampler{
		interval: interval,
		cpu:      readCPU,
		mem:      readMem,
	}
}

// Run 阻塞采样，直到 ctx 结束
func (s *Sampler) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.update()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.update()
		}
	}
}

// Stats 提供给外部读取数据的方法
func (s *Sampler) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stats
}

// update 内部逻辑：真正去干活获取数据的函数
// 某一项取不到就保留上一次的值
func (s *Sampler) update() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if v, err := s.mem(); err == nil {
		s.stats.Mem = round1(v)
	} else {
		log.Printf("[Monitor] memory: %v", err)
	}

	if c, err := s.cpu(); err == nil {
		s.stats.CPU = round1(c)
	} else {
		log.Printf("[Monitor] cpu: %v", err)
	}

	s.stats.Stressed = s.stats.CPU > StressCPU
}

// Percent(0, false) 用上次调用到现在的间隔计算，不阻塞
func readCPU() (float64, error) {
	c, err := cpu.Percent(0, false)
	if err != nil {
		return 0, err
	}
	if len(c) == 0 {
		return 0, nil
	}
	return c[0], nil
}

func readMem() (float64, error) {
	v, err := mem.VirtualMemory()
	if err != nil {
		return 0, err
	}
	return v.UsedPercent, nil
}

// 保留 1 位小数即可，看着干净
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
