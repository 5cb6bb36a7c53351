//go:build !javascript
// +build !javascript

package binding

// DefaultLoop 非浏览器环境没有 UI 线程，返回一个需要调用方驱动的队列。
func DefaultLoop() Loop {
	return NewQueueLoop()
}
