package surface

import (
	"github.com/pafthang/enhance/dom"
	"github.com/pafthang/enhance/editor"
)

// Command 编辑引擎内置命令。
type Command string

const (
	OpenSearchPanel Command = "openSearchPanel"
	Undo            Command = "undo"
	Redo            Command = "redo"
)

// KeyBinding 快捷键绑定。Command 非空时执行引擎内置命令，否则执行 Run；Shift 为按住 Shift 时的变体。
type KeyBinding struct {
	Key             string
	Command         Command
	Run             func(s Surface) bool
	Shift           func(s Surface) bool
	Scope           string
	PreventDefault  bool
	StopPropagation bool
	High            bool // 高优先级，先于其他键位表匹配
}

// CommonKeymap 所有类型共用的键位：搜索、撤销、重做，以及把确认和取消转发给原文本框，
// 使宿主自身的按键处理依然生效。
func CommonKeymap(passthrough func(ev *dom.Event)) []KeyBinding {
	return []KeyBinding{
		{Key: editor.ShortcutSearch, Command: OpenSearchPanel, Scope: "editor search-panel", PreventDefault: true, StopPropagation: true},
		{Key: editor.ShortcutUndo, Command: Undo, Scope: "editor", PreventDefault: true, StopPropagation: true},
		{Key: editor.ShortcutRedo, Command: Redo, Scope: "editor", PreventDefault: true, StopPropagation: true},
		{
			Key: editor.ShortcutConfirm,
			Run: func(Surface) bool {
				passthrough(dom.NewKeyboardEvent(editor.KeyEnter, editor.KeyCodeEnter, true, false))
				return true
			},
			Shift: func(Surface) bool {
				passthrough(dom.NewKeyboardEvent(editor.KeyEnter, editor.KeyCodeEnter, true, true))
				return true
			},
			PreventDefault: true, StopPropagation: true,
		},
		{
			Key: editor.ShortcutCancel,
			Run: func(Surface) bool {
				passthrough(dom.NewKeyboardEvent(editor.KeyEscape, editor.KeyCodeEscape, false, false))
				return true
			},
			PreventDefault: true, StopPropagation: true,
		},
	}
}

// Find 返回 keymap 中 key 对应的绑定。
func Find(keymap []KeyBinding, key string) (KeyBinding, bool) {
	for _, b := range keymap {
		if key == b.Key {
			return b, true
		}
	}
	return KeyBinding{}, false
}
