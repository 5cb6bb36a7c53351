//go:build javascript
// +build javascript

package binding

import (
	"time"
)

// uiLoop 浏览器中所有 goroutine 都运行在同一个 JS 线程上，直接执行即可。
type uiLoop struct{}

// DefaultLoop 返回浏览器事件循环。
func DefaultLoop() Loop {
	return uiLoop{}
}

func (uiLoop) Post(fn func()) {
	fn()
}

func (uiLoop) AfterFunc(d time.Duration, fn func()) (stop func()) {
	t := time.AfterFunc(d, fn)
	return func() { t.Stop() }
}
