package surface

import (
	"context"
	"errors"

	"github.com/pafthang/enhance/completion"
	"github.com/pafthang/enhance/dom"
	"github.com/pafthang/enhance/editor"
	"github.com/pafthang/enhance/format"
	"github.com/pafthang/enhance/profile"
	"github.com/sirupsen/logrus"
)

// ErrUnsupported 不支持的内容类别。
var ErrUnsupported = errors.New("unsupported content kind")

// Input 是构造编辑器配置的全部输入。
type Input struct {
	Profile    profile.Profile
	Text       string
	Mode       format.Mode
	Appearance Appearance
}

// Hooks 是编辑器运行期需要回调宿主或会话的能力。
type Hooks struct {
	// Passthrough 将键盘事件派发到原文本框。
	Passthrough func(ev *dom.Event)
	// Mode 读取当前格式化模式，每次调用都重新读取。
	Mode func() format.Mode
	// Notify 显示一条自动消失的提示。
	Notify func(text string)
	// Async 异步执行 work，work 返回的函数在会话仍然存活时回到 UI 线程执行。
	Async func(work func(ctx context.Context) (apply func()))
}

// Factory 构造编辑器配置。
type Factory struct {
	formatter *format.Adapter
	logger    *logrus.Entry
}

// NewFactory 创建配置工厂。
func NewFactory(formatter *format.Adapter, logger *logrus.Entry) *Factory {
	if nil == logger {
		logger = logrus.WithField("component", "loader")
	}
	if nil == formatter {
		formatter = format.New(nil, logger)
	}
	return &Factory{formatter: formatter, logger: logger}
}

// Build 按编辑配置构造编辑器配置。预格式化仅在完整模式下进行，失败时保留原文并记录 Warning。
func (f *Factory) Build(ctx context.Context, in Input, hooks Hooks) (ret *Config, err error) {
	ret = &Config{
		Profile:      in.Profile,
		Doc:          in.Text,
		Keymap:       CommonKeymap(hooks.Passthrough),
		VSCodeKeymap: true,
		LineWrapping: true,
		History:      true,
		Theme:        ThemeFor(in.Appearance),
	}

	switch in.Profile.Kind {
	case profile.Math:
		if format.Full == in.Mode {
			ret.Doc, ret.Warning = f.formatter.Format(ctx, in.Text, format.Full)
		}
		ret.Language = LaTeX
		ret.Completion = completion.NewSource()
		ret.CloseBrackets = format.Full == in.Mode
		ret.BracketMatching = true
		ret.Keymap = append(ret.Keymap, KeyBinding{
			Key:             editor.ShortcutFormat,
			Run:             f.formatRun(hooks),
			PreventDefault:  true,
			StopPropagation: true,
			High:            true,
		})
	case profile.ScriptOrQuery:
		ret.Switch = NewLanguageSwitch(in.Text, DetectScript)
		ret.Language = ret.Switch.Active()
		ret.CloseBrackets = true
		ret.BracketMatching = true
	case profile.Markup:
		ret.Language = HTML
	default:
		return nil, ErrUnsupported
	}
	f.logger.Debugf("built surface config [kind=%s, lang=%s, theme=%s]", in.Profile.Kind, ret.Language.Name, ret.Theme.Name)
	return
}

// formatRun 返回格式化快捷键的动作，每次按键都重新读取当前模式。
func (f *Factory) formatRun(hooks Hooks) func(s Surface) bool {
	return func(s Surface) bool {
		mode := hooks.Mode()
		switch mode {
		case format.Gentle:
			src := s.Doc()
			if formatted := format.GentleFormat(src); formatted != src {
				s.SetDoc(formatted)
			}
		case format.Full:
			src := s.Doc()
			hooks.Async(func(ctx context.Context) func() {
				formatted, err := f.formatter.Format(ctx, src, format.Full)
				return func() {
					if nil != err {
						hooks.Notify("Format failed: " + errors.Unwrap(err).Error())
						return
					}
					// 格式化期间文档已被编辑，放弃本次结果
					if s.Doc() != src || formatted == src {
						return
					}
					s.SetDoc(formatted)
				}
			})
		}
		hooks.Notify("Format: " + mode.Label())
		return true
	}
}
