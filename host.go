package enhance

import (
	"github.com/pafthang/enhance/surface"
)

// StaticHost 是固定外观的宿主，非浏览器环境下使用。
type StaticHost struct {
	Dark       bool
	KeymapList interface{}
}

func (h StaticHost) Appearance() surface.Appearance {
	if h.Dark {
		return surface.Dark
	}
	return surface.Light
}

func (h StaticHost) Keymap() interface{} {
	return h.KeymapList
}
