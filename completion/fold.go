//go:build !javascript
// +build !javascript

package completion

import (
	"strings"

	"golang.org/x/text/cases"
)

func hasFoldedPrefix(s, prefix string) bool {
	c := cases.Fold()
	return strings.HasPrefix(c.String(s), c.String(prefix))
}
