package surface

import (
	"strings"

	"github.com/pafthang/enhance/editor"
)

// Language 编辑器语法，Name 与 CodeMirror 语言包及 chroma 词法分析器的名称一致。
type Language struct {
	Name string
}

var (
	LaTeX      = Language{Name: "latex"}
	JavaScript = Language{Name: "javascript"}
	SQL        = Language{Name: "sql"}
	HTML       = Language{Name: "html"}
)

// DetectScript 文档前 ScriptMarkerWindow 个字符中出现脚本标记时按 JavaScript 处理，否则按 SQL。
func DetectScript(doc string) Language {
	head := doc
	if runes := []rune(doc); editor.ScriptMarkerWindow < len(runes) {
		head = string(runes[:editor.ScriptMarkerWindow])
	}
	if strings.Contains(head, editor.ScriptMarker) {
		return JavaScript
	}
	return SQL
}

// LanguageSwitch 在每次文档变更后重新检测语法，仅在检测结果翻转时要求重新配置。
type LanguageSwitch struct {
	detect func(doc string) Language
	active Language
}

// NewLanguageSwitch 创建以 doc 的检测结果为初始语法的切换器。
func NewLanguageSwitch(doc string, detect func(doc string) Language) *LanguageSwitch {
	return &LanguageSwitch{detect: detect, active: detect(doc)}
}

// Active 返回当前语法。
func (s *LanguageSwitch) Active() Language {
	return s.active
}

// Next 检测 doc 的语法，与当前语法不同时切换并返回 true。
func (s *LanguageSwitch) Next(doc string) (lang Language, changed bool) {
	lang = s.detect(doc)
	if lang == s.active {
		return
	}
	s.active = lang
	changed = true
	return
}
