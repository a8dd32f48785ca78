package service

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/d60-Lab/chirp/internal/cache"
	"github.com/d60-Lab/chirp/pkg/logger"
	"github.com/d60-Lab/chirp/pkg/metrics"
)

type invalidateJob struct {
	keys  []string
	enqAt time.Time
}

// CacheInvalidator 延迟双删的第二次删除：提交后已同步删过一次，这里在 delay 之后再删一次，
// 清掉提交前读到旧数据、晚于第一次删除才回填的缓存。队列满时丢弃并记日志，由缓存 TTL 兜底。
type CacheInvalidator struct {
	cache *cache.UserCache
	ch    chan invalidateJob
	delay time.Duration
	wg    sync.WaitGroup
}

func NewCacheInvalidator(c *cache.UserCache, queueSize int, delay time.Duration) *CacheInvalidator {
	if queueSize <= 0 {
		queueSize = 10000
	}
	if delay < 0 {
		delay = 0
	}
	return &CacheInvalidator{cache: c, ch: make(chan invalidateJob, queueSize), delay: delay}
}

// Start 启动 workers 个消费者，返回的 stop 函数会在 ctx 截止前尽量排空队列。
func (r *CacheInvalidator) Start(workers int) func(context.Context) error {
	if workers <= 0 {
		workers = 4
	}
	stopCh := make(chan struct{})
	for i := 0; i < workers; i++ {
		r.wg.Add(1)
		go func() {
			defer r.wg.Done()
			for {
				select {
				case job := <-r.ch:
					r.apply(job)
				case <-stopCh:
					// 退出前把剩余任务处理掉
					for {
						select {
						case job := <-r.ch:
							r.apply(job)
						default:
							return
						}
					}
				}
			}
		}()
	}

	var once sync.Once
	return func(ctx context.Context) error {
		once.Do(func() { close(stopCh) })
		done := make(chan struct{})
		go func() {
			r.wg.Wait()
			close(done)
		}()
		select {
		case <-done:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (r *CacheInvalidator) apply(job invalidateJob) {
	// 队列按入队时间有序，只需等到本任务到期
	if wait := time.Until(job.enqAt.Add(r.delay)); wait > 0 {
		time.Sleep(wait)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := r.cache.Invalidate(ctx, job.keys...); err != nil {
		logger.Warn("cache invalidation failed", zap.Strings("keys", job.keys), zap.Error(err))
		return
	}
	metrics.InvalidationLag.Observe(time.Since(job.enqAt).Seconds())
}

// Enqueue 非阻塞投递；队列满时丢弃。
func (r *CacheInvalidator) Enqueue(keys ...string) {
	if len(keys) == 0 {
		return
	}
	select {
	case r.ch <- invalidateJob{keys: keys, enqAt: time.Now()}:
	default:
		metrics.InvalidationDropped.Inc()
		logger.Warn("invalidator queue full, drop", zap.Strings("keys", keys))
	}
}

// QueueLen 返回当前队列长度（采样值）。
func (r *CacheInvalidator) QueueLen() int { return len(r.ch) }

// invalidateKeys 在事务提交后同步删除 keys，inv 非空时再投递一次延迟删除。
// 同步删除失败只记日志，请求本身已经成功。
func invalidateKeys(ctx context.Context, c *cache.UserCache, inv *CacheInvalidator, keys ...string) {
	if err := c.Invalidate(context.WithoutCancel(ctx), keys...); err != nil {
		logger.Warn("cache invalidation failed", zap.Strings("keys", keys), zap.Error(err))
	}
	if inv != nil {
		inv.Enqueue(keys...)
	}
}
