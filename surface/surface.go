// Package surface 根据编辑配置构造代码编辑器的配置，并定义编辑引擎的能力边界。
package surface

import (
	"github.com/pafthang/enhance/completion"
	"github.com/pafthang/enhance/dom"
	"github.com/pafthang/enhance/profile"
)

// Surface 是挂载后的编辑器实例，由绑定控制器独占。
type Surface interface {
	Doc() string
	// SetDoc 替换整个文档，变更监听照常触发。
	SetDoc(text string)
	SelectAll()
	Focus()
	Language() Language
	// OnChange 注册文档更新监听，返回的函数用于移除。
	OnChange(fn func(doc string)) (remove func())
	// Scroller 返回滚动区域元素，拖拽调整高度时使用。
	Scroller() dom.Element
	Destroy()
}

// Engine 是外部编辑引擎，负责把 Config 挂载到 parent 下。
type Engine interface {
	Mount(parent dom.Element, cfg *Config) (Surface, error)
}

// Config 是编辑器的完整配置描述。
type Config struct {
	Profile profile.Profile

	Doc      string   // 初始文档，构造时取一次快照
	Language Language // 初始语法
	Switch   *LanguageSwitch

	Keymap       []KeyBinding
	VSCodeKeymap bool
	Completion   *completion.Source

	CloseBrackets   bool
	BracketMatching bool
	LineWrapping    bool
	History         bool
	Theme           Theme

	// Warning 构造时预格式化失败的原因，此时 Doc 为未格式化的原文。
	Warning error
}

// Reconfigure 文档变更后由引擎调用，返回需要切换到的语法。
func (c *Config) Reconfigure(doc string) (Language, bool) {
	if nil == c.Switch {
		return c.Language, false
	}
	return c.Switch.Next(doc)
}
