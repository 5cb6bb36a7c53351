//go:build javascript
// +build javascript

package util

import (
	"context"
	"errors"

	"github.com/gopherjs/gopherjs/js"
)

type settled struct {
	value *js.Object
	err   error
}

// Await 等待 promise 完成。只能在独立的 goroutine 中调用，不能在 JS 回调中直接阻塞。
func Await(ctx context.Context, promise *js.Object) (*js.Object, error) {
	ch := make(chan settled, 1)
	promise.Call("then", func(value *js.Object) {
		ch <- settled{value: value}
	}, func(reason *js.Object) {
		ch <- settled{err: errors.New(reason.String())}
	})

	select {
	case r := <-ch:
		return r.value, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
