//go:build javascript
// +build javascript

package enhance

import (
	"github.com/gopherjs/gopherjs/js"
	"github.com/pafthang/enhance/dom"
	"github.com/pafthang/enhance/surface"
)

func platformDefaults(e *Enhancer) {
	e.doc = dom.Global()
	e.engine = surface.NewCodeMirror()
	e.detach = dom.OnDetach
	e.host = SiYuanHost{}
	e.address = js.Global.Get("location").Get("origin").String()
	if api := siyuanConfig().Get("api"); js.Undefined != api {
		e.token = api.Get("token").String()
	}
}

func siyuanConfig() *js.Object {
	siyuan := js.Global.Get("siyuan")
	if js.Undefined == siyuan {
		return js.Global.Get("Object").New()
	}
	return siyuan.Get("config")
}

// SiYuanHost 从 window.siyuan.config 读取外观与键位。
type SiYuanHost struct{}

// Appearance 外观模式 0 为亮色，1 为暗色。
func (SiYuanHost) Appearance() surface.Appearance {
	appearance := siyuanConfig().Get("appearance")
	if js.Undefined == appearance || 1 != appearance.Get("mode").Int() {
		return surface.Light
	}
	return surface.Dark
}

func (SiYuanHost) Keymap() interface{} {
	return siyuanConfig().Get("keymap").Interface()
}
