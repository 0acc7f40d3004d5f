package taskqueue

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/benbjohnson/clock"
	"github.com/magic-lib/go-plat-hotcache/cache"
	"github.com/magic-lib/go-plat-utils/id-generator/id"
	"github.com/magic-lib/go-plat-utils/utils"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

// ErrAlreadyRunning Run 不允许并发调用
var ErrAlreadyRunning = errors.New("taskqueue: queue is already running")

// Summary 队列统计
type Summary struct {
	Total       int     `json:"total"`
	Waiting     int     `json:"waiting"`
	Processing  int     `json:"processing"`
	Completed   int     `json:"completed"`
	Failed      int     `json:"failed"`
	SuccessRate float64 `json:"success_rate"`
}

// Options 队列参数
type Options struct {
	FilterCapacity int // 去重过滤器容量
	Clock          clock.Clock
	Logger         *zap.Logger
}

// Queue 批量链接处理队列，按加入顺序逐个处理
type Queue struct {
	processor Processor
	clock     clock.Clock
	logger    *zap.Logger
	capacity  int

	mu      sync.Mutex
	items   []*Item
	seen    cache.CommCache[bool]
	urls    map[string]struct{}
	full    bool // 过滤器插入失败过，之后一律用 urls 精确判断
	running bool
}

// New 新建队列
func New(processor Processor, opt Options) *Queue {
	q := &Queue{
		processor: processor,
		clock:     opt.Clock,
		logger:    opt.Logger,
		capacity:  opt.FilterCapacity,
	}
	if q.clock == nil {
		q.clock = clock.New()
	}
	if q.logger == nil {
		q.logger = zap.NewNop()
	}
	if q.capacity <= 0 {
		q.capacity = 4096
	}
	q.resetLocked()
	return q
}

// Add 加入链接，空白和重复的链接会被跳过，返回新加入的条目
func (q *Queue) Add(urls ...string) []*Item {
	q.mu.Lock()
	defer q.mu.Unlock()

	ctx := context.Background()
	added := make([]*Item, 0, len(urls))
	for _, raw := range lo.Map(urls, func(u string, _ int) string { return strings.TrimSpace(u) }) {
		if raw == "" {
			continue
		}
		// 过滤器未满且判定不存在时一定是新链接，其余情况以 urls 为准
		maybe, _ := q.seen.Get(ctx, raw)
		if maybe || q.full {
			if _, dup := q.urls[raw]; dup {
				continue
			}
		}
		if !maybe && !q.full {
			if ok, _ := q.seen.Set(ctx, raw, true, 0); !ok {
				q.full = true
				q.logger.Warn("dedupe filter is full, falling back to exact match",
					zap.Int("capacity", q.capacity), zap.Int("items", len(q.items)))
			}
		}
		q.urls[raw] = struct{}{}

		it := &Item{
			ID:        newID(),
			URL:       raw,
			Status:    StatusWaiting,
			CreatedAt: q.clock.Now(),
		}
		q.items = append(q.items, it)
		added = append(added, it)
	}
	return cloneItems(added)
}

// Run 逐个处理等待中的条目；ctx 取消后剩余条目保持 waiting
func (q *Queue) Run(ctx context.Context) (Summary, error) {
	q.mu.Lock()
	if q.running {
		q.mu.Unlock()
		return Summary{}, ErrAlreadyRunning
	}
	q.running = true
	q.mu.Unlock()

	defer func() {
		q.mu.Lock()
		q.running = false
		q.mu.Unlock()
	}()

	for {
		if err := ctx.Err(); err != nil {
			q.logger.Info("queue stopped", zap.Error(err))
			return q.Summary(), err
		}
		it := q.next()
		if it == nil {
			break
		}
		q.process(ctx, it)
	}
	sum := q.Summary()
	q.logger.Info("queue finished", zap.Int("completed", sum.Completed), zap.Int("failed", sum.Failed))
	return sum, nil
}

// next 取出第一个 waiting 条目并置为 processing
func (q *Queue) next() *Item {
	q.mu.Lock()
	defer q.mu.Unlock()
	it, ok := lo.Find(q.items, func(it *Item) bool { return it.Status == StatusWaiting })
	if !ok {
		return nil
	}
	_ = it.transit(StatusProcessing, q.clock.Now())
	return it
}

func (q *Queue) process(ctx context.Context, it *Item) {
	result, err := q.processor.Process(ctx, it.URL)

	q.mu.Lock()
	defer q.mu.Unlock()
	if err != nil {
		it.Err = err.Error()
		_ = it.transit(StatusFailed, q.clock.Now())
		q.logger.Warn("item failed", zap.String("id", it.ID), zap.String("url", it.URL), zap.Error(err))
		return
	}
	it.Result = result
	_ = it.transit(StatusCompleted, q.clock.Now())
	q.logger.Debug("item completed", zap.String("id", it.ID), zap.String("url", it.URL),
		zap.Duration("elapsed", it.Duration()))
}

// Items 全部条目的快照
func (q *Queue) Items() []*Item {
	q.mu.Lock()
	defer q.mu.Unlock()
	return cloneItems(q.items)
}

// Summary xxx
func (q *Queue) Summary() Summary {
	q.mu.Lock()
	defer q.mu.Unlock()
	counts := lo.CountValuesBy(q.items, func(it *Item) Status { return it.Status })
	sum := Summary{
		Total:      len(q.items),
		Waiting:    counts[StatusWaiting],
		Processing: counts[StatusProcessing],
		Completed:  counts[StatusCompleted],
		Failed:     counts[StatusFailed],
	}
	if done := sum.Completed + sum.Failed; done > 0 {
		sum.SuccessRate = float64(sum.Completed) / float64(done)
	}
	return sum
}

// Reset 清空队列，运行中不允许清空
func (q *Queue) Reset() error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.running {
		return ErrAlreadyRunning
	}
	q.resetLocked()
	return nil
}

func (q *Queue) resetLocked() {
	q.items = make([]*Item, 0)
	q.urls = make(map[string]struct{})
	q.seen = cache.NewCuckooFilter(q.capacity)
	q.full = false
}

func newID() string {
	idStr := id.NewUUID()
	if idStr == "" {
		idStr = utils.RandomString(10)
	}
	return idStr
}

func cloneItems(items []*Item) []*Item {
	return lo.Map(items, func(it *Item, _ int) *Item {
		c := *it
		return &c
	})
}
