//go:build javascript
// +build javascript

package surface

import (
	"github.com/gopherjs/gopherjs/js"
	"github.com/pafthang/enhance/completion"
	"github.com/pafthang/enhance/dom"
	"github.com/pafthang/enhance/util"
)

// editorTheme 编辑器内部样式，跟随宿主的代码字体与配色变量。
var editorTheme = map[string]interface{}{
	"&.cm-focused": map[string]interface{}{"outline": "none"},
	".cm-line":     map[string]interface{}{"font-family": "var(--b3-font-family-code)"},
	".cm-scroller": map[string]interface{}{
		"overflow":   "scroll",
		"max-height": "calc(-44px + 80vh)",
		"min-height": "48px",
		"min-width":  "268px",
	},
	"&.cm-editor":               map[string]interface{}{"background-color": "transparent"},
	".cm-nonmatchingBracket":    map[string]interface{}{"background-color": "#bb555544 !important"},
	".cm-tooltips-autocomplete": map[string]interface{}{"z-index": 2},
}

// CodeMirror 基于页面中打包好的 CodeMirror 6 模块（全局 EnhanceCM）实现 Engine。
type CodeMirror struct {
	cm *js.Object
}

// NewCodeMirror 创建 CodeMirror 引擎。
func NewCodeMirror() *CodeMirror {
	return &CodeMirror{cm: js.Global.Get("EnhanceCM")}
}

type cmListener struct {
	fn func(doc string)
}

type cmSurface struct {
	cm        *js.Object
	view      *js.Object
	langConf  *js.Object
	lang      Language
	listeners []*cmListener
}

func (c *CodeMirror) Mount(parent dom.Element, cfg *Config) (ret Surface, err error) {
	defer util.RecoverPanic(&err)

	cm := c.cm
	s := &cmSurface{cm: cm, lang: cfg.Language, langConf: cm.Get("Compartment").New()}
	view := cm.Get("EditorView")
	keymap := cm.Get("keymap")

	var normal, high []interface{}
	for _, b := range cfg.Keymap {
		if b.High {
			high = append(high, s.binding(b))
		} else {
			normal = append(normal, s.binding(b))
		}
	}
	if cfg.VSCodeKeymap {
		vscode := cm.Get("vscodeKeymap")
		for i := 0; i < vscode.Length(); i++ {
			normal = append(normal, vscode.Index(i))
		}
	}

	exts := []interface{}{
		keymap.Call("of", normal),
		view.Get("updateListener").Call("of", func(u *js.Object) {
			if !u.Get("docChanged").Bool() {
				return
			}
			s.fire(u.Get("state").Get("doc").Call("toString").String())
		}),
		s.langConf.Call("of", s.language(cfg.Language)),
		view.Call("theme", editorTheme),
		cm.Get("themes").Get(cfg.Theme.Name),
	}
	if 0 < len(high) {
		exts = append(exts, cm.Get("Prec").Call("high", keymap.Call("of", high)))
	}
	if cfg.LineWrapping {
		exts = append(exts, view.Get("lineWrapping"))
	}
	if nil != cfg.Switch {
		exts = append(exts, cm.Get("EditorState").Get("transactionExtender").Call("of", func(tr *js.Object) interface{} {
			if !tr.Get("docChanged").Bool() {
				return nil
			}
			lang, changed := cfg.Reconfigure(tr.Get("newDoc").Call("toString").String())
			if !changed {
				return nil
			}
			s.lang = lang
			return map[string]interface{}{"effects": s.langConf.Call("reconfigure", s.language(lang))}
		}))
	}
	if nil != cfg.Completion {
		exts = append(exts, cm.Call("autocompletion", map[string]interface{}{
			"defaultKeymap": false,
			"override":      []interface{}{s.completionSource(cfg.Completion)},
		}))
	} else {
		exts = append(exts, cm.Call("autocompletion"))
	}
	if cfg.CloseBrackets {
		exts = append(exts, cm.Call("closeBrackets"))
	}
	if cfg.BracketMatching {
		exts = append(exts, cm.Call("bracketMatching"))
	}
	if cfg.History {
		exts = append(exts, cm.Call("history"))
	}

	state := cm.Get("EditorState").Call("create", map[string]interface{}{"doc": cfg.Doc, "extensions": exts})
	s.view = view.New(map[string]interface{}{"state": state, "parent": dom.Unwrap(parent)})
	return s, nil
}

func (s *cmSurface) language(lang Language) *js.Object {
	return s.cm.Get("languages").Call(lang.Name)
}

func (s *cmSurface) binding(b KeyBinding) map[string]interface{} {
	ret := map[string]interface{}{
		"key":             b.Key,
		"preventDefault":  b.PreventDefault,
		"stopPropagation": b.StopPropagation,
	}
	if "" != b.Scope {
		ret["scope"] = b.Scope
	}
	if "" != b.Command {
		ret["run"] = s.cm.Get(string(b.Command))
		return ret
	}
	run := b.Run
	ret["run"] = func(*js.Object) bool { return run(s) }
	if nil != b.Shift {
		shift := b.Shift
		ret["shift"] = func(*js.Object) bool { return shift(s) }
	}
	return ret
}

func (s *cmSurface) completionSource(src *completion.Source) func(ctx *js.Object) interface{} {
	return func(ctx *js.Object) interface{} {
		doc := ctx.Get("state").Get("doc").Call("toString").String()
		res := src.Complete(completion.Context{
			Doc:      doc,
			Pos:      utf16ToByte(doc, ctx.Get("pos").Int()),
			Explicit: ctx.Get("explicit").Bool(),
		})
		if nil == res {
			return nil
		}

		options := make([]interface{}, 0, len(res.Options))
		for _, item := range res.Options {
			options = append(options, s.option(item))
		}
		return map[string]interface{}{
			"from":    byteToUTF16(doc, res.From),
			"to":      byteToUTF16(doc, res.To),
			"options": options,
		}
	}
}

func (s *cmSurface) option(item completion.Item) interface{} {
	o := map[string]interface{}{"label": item.Label}
	if "" != item.DisplayLabel {
		o["displayLabel"] = item.DisplayLabel
	}
	if "" != item.Type {
		o["type"] = item.Type
	}
	if "" != item.Detail {
		o["detail"] = item.Detail
	}
	if "" != item.Info {
		o["info"] = item.Info
	}
	if 0 != item.Boost {
		o["boost"] = item.Boost
	}
	if "" != item.Section {
		o["section"] = item.Section
	}
	if item.Snippet {
		return s.cm.Call("snippetCompletion", item.InsertText(), o)
	}
	if "" != item.Apply {
		o["apply"] = item.Apply
	}
	return o
}

func (s *cmSurface) fire(doc string) {
	ls := append([]*cmListener(nil), s.listeners...)
	for _, l := range ls {
		l.fn(doc)
	}
}

func (s *cmSurface) Doc() string {
	return s.view.Get("state").Get("doc").Call("toString").String()
}

func (s *cmSurface) SetDoc(text string) {
	length := s.view.Get("state").Get("doc").Get("length").Int()
	s.view.Call("dispatch", map[string]interface{}{
		"changes": map[string]interface{}{"from": 0, "to": length, "insert": text},
	})
}

func (s *cmSurface) SelectAll() {
	length := s.view.Get("state").Get("doc").Get("length").Int()
	s.view.Call("dispatch", map[string]interface{}{
		"selection": map[string]interface{}{"anchor": 0, "head": length},
	})
}

func (s *cmSurface) Focus() {
	s.view.Call("focus")
}

func (s *cmSurface) Language() Language {
	return s.lang
}

func (s *cmSurface) OnChange(fn func(doc string)) (remove func()) {
	l := &cmListener{fn: fn}
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

func (s *cmSurface) Scroller() dom.Element {
	return dom.Wrap(s.view.Get("scrollDOM"))
}

func (s *cmSurface) Destroy() {
	s.listeners = nil
	s.view.Call("destroy")
}

// utf16ToByte 将 CodeMirror 的 UTF-16 偏移转换为 Go 字符串的字节偏移。
func utf16ToByte(s string, pos int) int {
	units := 0
	for i, r := range s {
		if units >= pos {
			return i
		}
		units++
		if 0xFFFF < r {
			units++
		}
	}
	return len(s)
}

func byteToUTF16(s string, pos int) (units int) {
	for i, r := range s {
		if i >= pos {
			return
		}
		units++
		if 0xFFFF < r {
			units++
		}
	}
	return
}
