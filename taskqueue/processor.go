package taskqueue

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"
)

// Processor 处理单个链接，由调用方提供
type Processor interface {
	Process(ctx context.Context, url string) (string, error)
}

// ProcessorFunc 函数形式的 Processor
type ProcessorFunc func(ctx context.Context, url string) (string, error)

// Process xxx
func (f ProcessorFunc) Process(ctx context.Context, url string) (string, error) {
	return f(ctx, url)
}

// ErrSimulatedFailure 模拟的失败
var ErrSimulatedFailure = errors.New("taskqueue: simulated failure")

// SimulatedProcessor 演示用：等待 Delay 后按 FailureRate 随机失败
type SimulatedProcessor struct {
	Delay       time.Duration
	FailureRate float64
	Rand        *rand.Rand

	mu sync.Mutex
}

// Process xxx
func (p *SimulatedProcessor) Process(ctx context.Context, url string) (string, error) {
	if p.Delay > 0 {
		timer := time.NewTimer(p.Delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-timer.C:
		}
	}
	if p.roll() < p.FailureRate {
		return "", fmt.Errorf("%w: %s", ErrSimulatedFailure, url)
	}
	return "processed " + url, nil
}

func (p *SimulatedProcessor) roll() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.Rand == nil {
		p.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return p.Rand.Float64()
}
