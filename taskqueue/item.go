package taskqueue

import (
	"errors"
	"fmt"
	"time"
)

// Status 任务状态
type Status string

const (
	StatusWaiting    Status = "waiting"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// ErrInvalidTransition 非法的状态流转
var ErrInvalidTransition = errors.New("taskqueue: invalid status transition")

// Terminal 是否为终态
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// canTransit waiting -> processing -> completed|failed
func (s Status) canTransit(to Status) bool {
	switch s {
	case StatusWaiting:
		return to == StatusProcessing
	case StatusProcessing:
		return to.Terminal()
	}
	return false
}

// Item 一条待处理的链接
type Item struct {
	ID         string    `json:"id"`
	URL        string    `json:"url"`
	Status     Status    `json:"status"`
	Result     string    `json:"result,omitempty"`
	Err        string    `json:"error,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	StartedAt  time.Time `json:"started_at,omitempty"`
	FinishedAt time.Time `json:"finished_at,omitempty"`
}

func (it *Item) transit(to Status, now time.Time) error {
	if !it.Status.canTransit(to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, it.Status, to)
	}
	it.Status = to
	switch to {
	case StatusProcessing:
		it.StartedAt = now
	case StatusCompleted, StatusFailed:
		it.FinishedAt = now
	}
	return nil
}

// Duration 处理耗时，未结束时为0
func (it *Item) Duration() time.Duration {
	if it.FinishedAt.IsZero() || it.StartedAt.IsZero() {
		return 0
	}
	return it.FinishedAt.Sub(it.StartedAt)
}
