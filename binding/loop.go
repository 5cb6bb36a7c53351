package binding

import (
	"time"
)

// Loop 把异步结果投递回 UI 线程执行。
type Loop interface {
	Post(fn func())
	// AfterFunc 在 d 之后于 UI 线程执行 fn，返回的函数用于取消。
	AfterFunc(d time.Duration, fn func()) (stop func())
}

// QueueLoop 将投递的函数排队，由调用方在自己的线程上执行。
type QueueLoop struct {
	ch chan func()
}

// NewQueueLoop 创建队列。
func NewQueueLoop() *QueueLoop {
	return &QueueLoop{ch: make(chan func(), 64)}
}

func (q *QueueLoop) Post(fn func()) {
	q.ch <- fn
}

func (q *QueueLoop) AfterFunc(d time.Duration, fn func()) (stop func()) {
	t := time.AfterFunc(d, func() { q.Post(fn) })
	return func() { t.Stop() }
}

// Drain 执行所有已排队的函数，返回执行数量。
func (q *QueueLoop) Drain() (n int) {
	for {
		select {
		case fn := <-q.ch:
			fn()
			n++
		default:
			return
		}
	}
}

// Next 等待并执行一个排队的函数，超时返回 false。
func (q *QueueLoop) Next(timeout time.Duration) bool {
	select {
	case fn := <-q.ch:
		fn()
		return true
	case <-time.After(timeout):
		return false
	}
}
