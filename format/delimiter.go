package format

import (
	"errors"
	"strings"
)

const delimiter = "$"

// ErrUnbalancedDelimiter 外部格式化器的输出不再被一对 $ 包裹。
var ErrUnbalancedDelimiter = errors.New("formatter output lost math delimiters")

// Wrap 用 $ 包裹公式，外部格式化器据此按行内公式解析。
func Wrap(text string) string {
	return delimiter + text + delimiter
}

// Unwrap 去掉 Wrap 添加的定界符，首尾各一个字符。格式化器追加的行尾换行先被剔除；
// 结尾的 $ 被反斜杠转义时说明定界符已被破坏。
func Unwrap(out string) (string, error) {
	out = strings.TrimRight(out, "\r\n")
	if 2 > len(out) || !strings.HasPrefix(out, delimiter) || !strings.HasSuffix(out, delimiter) {
		return "", ErrUnbalancedDelimiter
	}
	if end := len(out) - 1; 1 < end && '\\' == out[end-1] && !escaped(out[1:end-1]) {
		return "", ErrUnbalancedDelimiter
	}
	return out[1 : len(out)-1], nil
}

// escaped 判断 s 末尾的反斜杠本身是否被转义（成对出现）。
func escaped(s string) bool {
	n := 0
	for i := len(s) - 1; 0 <= i && '\\' == s[i]; i-- {
		n++
	}
	return 1 == n%2
}
