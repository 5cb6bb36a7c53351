//go:build javascript
// +build javascript

package completion

import "strings"

// JS 版不引入 golang.org/x/text/cases，避免打包体积过大，仅做简单折叠
func hasFoldedPrefix(s, prefix string) bool {
	rs, rp := []rune(s), []rune(prefix)
	if len(rs) < len(rp) {
		return false
	}
	return strings.EqualFold(string(rs[:len(rp)]), prefix)
}
