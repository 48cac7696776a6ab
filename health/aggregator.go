package health

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// DefaultTimeout 整体检查超时
const DefaultTimeout = 5 * time.Second

// Aggregator 检查项聚合器
type Aggregator struct {
	checkers []Checker
	timeout  time.Duration
	mu       sync.RWMutex
}

// NewAggregator timeout <= 0 时使用 DefaultTimeout
func NewAggregator(timeout time.Duration) *Aggregator {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Aggregator{timeout: timeout}
}

// Register 添加检查项
func (a *Aggregator) Register(checkers ...Checker) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.checkers = append(a.checkers, checkers...)
}

// Check 并发执行全部检查项
func (a *Aggregator) Check(ctx context.Context) *Response {
	start := time.Now()

	checkCtx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	a.mu.RLock()
	checkers := make([]Checker, len(a.checkers))
	copy(checkers, a.checkers)
	a.mu.RUnlock()

	type indexed struct {
		i int
		r CheckResult
	}
	// 缓冲区容纳全部结果，超时后迟到的 goroutine 仍可写入并退出
	results := make(chan indexed, len(checkers))
	for i, checker := range checkers {
		go func(i int, c Checker) {
			results <- indexed{i: i, r: checkOne(checkCtx, c)}
		}(i, checker)
	}

	checks := make(map[string]CheckResult, len(checkers))
	pending := make(map[int]Checker, len(checkers))
	for i, c := range checkers {
		pending[i] = c
	}

	status := StatusHealthy
collect:
	for len(pending) > 0 {
		select {
		case res := <-results:
			delete(pending, res.i)
			checks[res.r.Name] = res.r
			if res.r.Status != StatusHealthy {
				status = StatusUnhealthy
			}
		case <-checkCtx.Done():
			break collect
		}
	}

	for _, c := range pending {
		checks[c.Name()] = CheckResult{
			Name:      c.Name(),
			Status:    StatusUnhealthy,
			Error:     "timeout",
			Timestamp: start,
			Duration:  time.Since(start),
		}
		status = StatusUnhealthy
	}

	return &Response{
		Status:    status,
		Timestamp: time.Now(),
		Duration:  time.Since(start),
		Checks:    checks,
	}
}

// checkOne 执行单个检查项，panic 视为失败
func checkOne(ctx context.Context, checker Checker) (result CheckResult) {
	start := time.Now()
	result = CheckResult{Name: checker.Name(), Timestamp: start}

	defer func() {
		if r := recover(); r != nil {
			result.Status = StatusUnhealthy
			result.Error = fmt.Sprintf("panic: %v", r)
		}
		result.Duration = time.Since(start)
	}()

	if err := checker.Check(ctx); err != nil {
		result.Status = StatusUnhealthy
		result.Error = err.Error()
		return result
	}
	result.Status = StatusHealthy
	return result
}
