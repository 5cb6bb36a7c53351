package util

// Safe 执行 fn，fn 返回的错误或 fn 中发生的 panic 都以 error 返回。
// 宿主回调入口使用它，保证插件内的任何异常都不会传播到宿主。
func Safe(fn func() error) (err error) {
	defer RecoverPanic(&err)
	err = fn()
	return
}
