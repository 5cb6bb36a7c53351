package completion

import (
	"regexp"
	"strings"
)

// mathTrigger 匹配光标前以反斜杠开头的标识符，允许包含花括号。
var mathTrigger = regexp.MustCompile(`\\[\w{}]*$`)

// Context 补全请求上下文。
type Context struct {
	Doc      string
	Pos      int  // 光标的字节偏移
	Explicit bool // 用户主动触发
}

// Result 补全结果，[From, To) 为被替换的范围。
type Result struct {
	From    int
	To      int
	Options []Item
}

// Source 公式补全源。数据异步加载，加载完成前不提供补全。
type Source struct {
	items []Item
	ready bool
}

// NewSource 创建尚未就绪的补全源。
func NewSource() *Source {
	return &Source{}
}

// SetItems 设置补全数据并标记为就绪。
func (s *Source) SetItems(items []Item) {
	s.items = items
	s.ready = true
}

// Ready 判断补全数据是否已加载。
func (s *Source) Ready() bool {
	return s.ready
}

// Items 返回补全数据。
func (s *Source) Items() []Item {
	return s.items
}

// Complete 计算补全。光标前没有触发符，或匹配为空且不是主动触发时返回 nil。
// 匹配中包含 { 时替换范围向后多覆盖一个字符，吞掉自动补齐的右括号。
func (s *Source) Complete(ctx Context) *Result {
	if !s.ready || 0 > ctx.Pos || len(ctx.Doc) < ctx.Pos {
		return nil
	}

	lineStart := strings.LastIndexByte(ctx.Doc[:ctx.Pos], '\n') + 1
	line := ctx.Doc[lineStart:ctx.Pos]
	loc := mathTrigger.FindStringIndex(line)
	if nil == loc {
		return nil
	}
	word := line[loc[0]:]
	if "" == word && !ctx.Explicit {
		return nil
	}

	ret := &Result{From: lineStart + loc[0], To: ctx.Pos, Options: filter(s.items, word)}
	if strings.Contains(word, "{") && ret.To < len(ctx.Doc) {
		ret.To++
	}
	return ret
}

// filter 按 { 之前的命令名做大小写折叠的前缀匹配。
func filter(items []Item, word string) (ret []Item) {
	name := word
	if i := strings.IndexByte(name, '{'); 0 <= i {
		name = name[:i]
	}
	if "\\" == name || "" == name {
		return items
	}
	for _, item := range items {
		if hasFoldedPrefix(item.Label, name) {
			ret = append(ret, item)
		}
	}
	return
}
