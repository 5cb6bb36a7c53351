//go:build !javascript
// +build !javascript

package enhance

import (
	"github.com/pafthang/enhance/kernel"
)

func platformDefaults(e *Enhancer) {
	e.address = kernel.DefaultAddress
}
