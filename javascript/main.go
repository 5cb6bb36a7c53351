//go:build javascript
// +build javascript

package main

import (
	"context"

	"github.com/gopherjs/gopherjs/js"
	"github.com/pafthang/enhance"
	"github.com/pafthang/enhance/binding"
	"github.com/pafthang/enhance/dom"
	"github.com/pafthang/enhance/editor"
	"github.com/pafthang/enhance/util"
	"github.com/sirupsen/logrus"
)

func main() {
	js.Global.Set("EnhanceEditor", map[string]interface{}{
		"Version": enhance.Version,
		"New":     New,
	})
}

// New 绑定宿主插件实例，返回的对象在插件的 onLayoutReady/onunload 中调用。
func New(plugin *js.Object, devMode bool) *js.Object {
	return js.MakeWrapper(&Plugin{
		plugin:   plugin,
		enhancer: enhance.New(enhance.WithStore(enhance.PluginStore{Plugin: plugin}), enhance.WithDevMode(devMode)),
		logger:   logrus.WithField("component", "main"),
	})
}

type Plugin struct {
	plugin   *js.Object
	enhancer *enhance.Enhancer
	handler  *js.Object
	logger   *logrus.Entry
}

// OnLayoutReady 读取配置后开始监听块打开事件。
func (p *Plugin) OnLayoutReady() {
	go func() {
		if err := p.enhancer.Load(context.Background()); nil != err {
			p.logger.WithError(err).Warn("load settings failed")
		}
		p.handler = js.MakeFunc(func(this *js.Object, args []*js.Object) interface{} {
			p.onOpen(args[0])
			return nil
		})
		p.plugin.Get("eventBus").Call("on", editor.EventOpenNoneditableBlock, p.handler)
	}()
}

func (p *Plugin) OnUnload() {
	if nil != p.handler {
		p.plugin.Get("eventBus").Call("off", editor.EventOpenNoneditableBlock, p.handler)
		p.handler = nil
	}
	p.enhancer.Unload()
}

func (p *Plugin) onOpen(ev *js.Object) {
	detail := ev.Get("detail")
	p.logger.Debugf("event fired: %s", editor.EventOpenNoneditableBlock)
	opened := binding.BlockOpened{
		TypeTag: attribute(detail.Get("renderElement"), "data-type"),
		Toolbar: dom.Wrap(detail.Get("toolbar").Get("subElement")),
	}
	// 补全与格式化会等待 promise，不能阻塞事件回调
	go func() {
		if err := util.Safe(func() error { return p.enhancer.Open(context.Background(), opened) }); nil != err {
			p.logger.WithError(err).Warn("open block failed")
		}
	}()
}

func attribute(el *js.Object, name string) string {
	if js.Undefined == el || nil == el.Interface() {
		return ""
	}
	v := el.Call("getAttribute", name)
	if nil == v.Interface() {
		return ""
	}
	return v.String()
}
