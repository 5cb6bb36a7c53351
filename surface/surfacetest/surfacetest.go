// Package surfacetest 提供内存中的编辑引擎，供测试使用。
package surfacetest

import (
	"github.com/pafthang/enhance/completion"
	"github.com/pafthang/enhance/dom"
	"github.com/pafthang/enhance/dom/domtest"
	"github.com/pafthang/enhance/surface"
)

// Engine 记录每次挂载的编辑器。Err 非空时挂载失败。
type Engine struct {
	Mounted []*Surface
	Err     error
}

func (e *Engine) Mount(parent dom.Element, cfg *surface.Config) (surface.Surface, error) {
	if nil != e.Err {
		return nil, e.Err
	}

	s := &Surface{
		Config:       cfg,
		Root:         domtest.NewNode("div"),
		ScrollerNode: domtest.NewNode("div"),
		doc:          cfg.Doc,
		lang:         cfg.Language,
	}
	s.Root.SetAttribute("class", "cm-editor")
	s.ScrollerNode.SetAttribute("class", "cm-scroller")
	s.ScrollerNode.Height = 120
	s.Root.AppendChild(s.ScrollerNode)
	parent.AppendChild(s.Root)
	e.Mounted = append(e.Mounted, s)
	return s, nil
}

// Last 返回最近一次挂载的编辑器。
func (e *Engine) Last() *Surface {
	if 1 > len(e.Mounted) {
		return nil
	}
	return e.Mounted[len(e.Mounted)-1]
}

type changeListener struct {
	fn func(doc string)
}

// Surface 是内存中的编辑器。
type Surface struct {
	Config       *surface.Config
	Root         *domtest.Node
	ScrollerNode *domtest.Node

	SetDocCalls      int
	Reconfigurations int
	Commands         []surface.Command
	Focused          bool
	SelectionFrom    int
	SelectionTo      int
	Destroyed        bool

	doc       string
	lang      surface.Language
	listeners []*changeListener
}

func (s *Surface) Doc() string {
	return s.doc
}

func (s *Surface) SetDoc(text string) {
	s.SetDocCalls++
	s.update(text)
}

// Type 模拟用户编辑，不计入 SetDocCalls。
func (s *Surface) Type(text string) {
	s.update(text)
}

// update 是一次文档变更事务。与 CodeMirror 一致，替换全文即使内容相同也通知监听；
// 只改变选区的操作（SelectAll）不通知。
func (s *Surface) update(text string) {
	if s.Destroyed {
		panic("update on destroyed surface")
	}
	s.doc = text
	if lang, changed := s.Config.Reconfigure(text); changed {
		s.lang = lang
		s.Reconfigurations++
	}
	ls := append([]*changeListener(nil), s.listeners...)
	for _, l := range ls {
		l.fn(text)
	}
}

func (s *Surface) SelectAll() {
	s.SelectionFrom, s.SelectionTo = 0, len(s.doc)
}

func (s *Surface) Focus() {
	s.Focused = true
}

func (s *Surface) Language() surface.Language {
	return s.lang
}

func (s *Surface) OnChange(fn func(doc string)) (remove func()) {
	l := &changeListener{fn: fn}
	s.listeners = append(s.listeners, l)
	return func() {
		for i, x := range s.listeners {
			if x == l {
				s.listeners = append(s.listeners[:i:i], s.listeners[i+1:]...)
				return
			}
		}
	}
}

// Listeners 返回当前文档监听数量。
func (s *Surface) Listeners() int {
	return len(s.listeners)
}

func (s *Surface) Scroller() dom.Element {
	return s.ScrollerNode
}

func (s *Surface) Destroy() {
	s.Destroyed = true
	s.listeners = nil
	s.Root.Remove()
}

// Press 按下快捷键，返回是否有绑定处理了该按键。
func (s *Surface) Press(key string, shift bool) bool {
	b, ok := surface.Find(s.Config.Keymap, key)
	if !ok {
		return false
	}
	if "" != b.Command {
		s.Commands = append(s.Commands, b.Command)
		return true
	}
	if shift && nil != b.Shift {
		return b.Shift(s)
	}
	return b.Run(s)
}

// Complete 在 pos 处请求补全。
func (s *Surface) Complete(pos int, explicit bool) *completion.Result {
	if nil == s.Config.Completion {
		return nil
	}
	return s.Config.Completion.Complete(completion.Context{Doc: s.doc, Pos: pos, Explicit: explicit})
}
