//go:build javascript
// +build javascript

package format

import (
	"context"

	"github.com/gopherjs/gopherjs/js"
	"github.com/pafthang/enhance/util"
)

// Prettier 调用页面中已加载的 prettier 与 prettier-plugin-latex。
type Prettier struct {
	Options PrettierOptions
}

// NewPrettier 创建默认配置的 prettier 格式化器。
func NewPrettier() *Prettier {
	return &Prettier{Options: DefaultPrettierOptions}
}

func (p *Prettier) Format(ctx context.Context, text string) (string, error) {
	prettier := js.Global.Get("prettier")
	if js.Undefined == prettier {
		return "", ErrNoFormatter
	}
	plugin := js.Global.Get("prettierPlugins").Get("latex")

	promise := prettier.Call("format", text, map[string]interface{}{
		"printWidth": p.Options.PrintWidth,
		"useTabs":    p.Options.UseTabs,
		"tabWidth":   p.Options.TabWidth,
		"parser":     p.Options.Parser,
		"plugins":    []interface{}{plugin},
	})
	out, err := util.Await(ctx, promise)
	if nil != err {
		return "", err
	}
	return out.String(), nil
}
