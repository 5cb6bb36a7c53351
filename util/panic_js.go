//go:build javascript
// +build javascript

package util

import (
	"errors"

	"github.com/gopherjs/gopherjs/js"
)

// RecoverPanic recovers a panic.
func RecoverPanic(err *error) {
	if e := recover(); nil != e {
		errMsg := ""
		switch x := e.(type) {
		case *js.Error:
			errMsg = x.Error()
		case error:
			errMsg = x.Error()
		case string:
			errMsg = x
		default:
			errMsg = "unknown panic"
		}
		if nil != err {
			*err = errors.New("PANIC RECOVERED: " + errMsg)
		}
	}
}
