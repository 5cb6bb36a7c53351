//go:build javascript
// +build javascript

package enhance

import (
	"context"

	"github.com/gopherjs/gopherjs/js"
	"github.com/pafthang/enhance/util"
)

// PluginStore 通过插件的 loadData/saveData 持久化数据。
type PluginStore struct {
	Plugin *js.Object
}

// Load 读取 name 对应的数据并序列化为 JSON，数据不存在时返回 nil。
func (s PluginStore) Load(ctx context.Context, name string) ([]byte, error) {
	value, err := util.Await(ctx, s.Plugin.Call("loadData", name))
	if nil != err {
		return nil, err
	}
	if js.Undefined == value || nil == value.Interface() || "" == value.String() {
		return nil, nil
	}
	return []byte(js.Global.Get("JSON").Call("stringify", value).String()), nil
}

func (s PluginStore) Save(ctx context.Context, name string, data []byte) error {
	value := js.Global.Get("JSON").Call("parse", string(data))
	s.Plugin.Get("data").Set(name, value)
	_, err := util.Await(ctx, s.Plugin.Call("saveData", name, value))
	return err
}
