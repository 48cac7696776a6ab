// Package health 映射可解析性检查
//
// 每个已映射的 key 对应一个检查项，检查即执行一次解析；
// Aggregator 并发执行全部检查项并汇总状态。
package health

import (
	"context"
	"sort"
	"time"
)

// Status 健康状态
type Status string

const (
	// StatusHealthy 健康
	StatusHealthy Status = "healthy"
	// StatusUnhealthy 不健康
	StatusUnhealthy Status = "unhealthy"
)

// Checker 检查项
type Checker interface {
	Name() string
	Check(ctx context.Context) error
}

// CheckResult 单个检查项的结果
type CheckResult struct {
	Name      string        `json:"name"`
	Status    Status        `json:"status"`
	Error     string        `json:"error,omitempty"`
	Timestamp time.Time     `json:"timestamp"`
	Duration  time.Duration `json:"duration,omitempty"`
}

// Response 汇总结果
type Response struct {
	Status    Status                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Duration  time.Duration          `json:"duration"`
	Checks    map[string]CheckResult `json:"checks"`
}

// IsHealthy 全部检查项通过
func (r *Response) IsHealthy() bool {
	return r.Status == StatusHealthy
}

// Failed 未通过的检查项名称，已排序
func (r *Response) Failed() []string {
	var names []string
	for name, c := range r.Checks {
		if c.Status != StatusHealthy {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}
