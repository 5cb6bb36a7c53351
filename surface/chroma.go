//go:build !javascript
// +build !javascript

package surface

import (
	"io"

	"github.com/alecthomas/chroma"
	chromahtml "github.com/alecthomas/chroma/formatters/html"
	"github.com/alecthomas/chroma/lexers"
	"github.com/alecthomas/chroma/styles"
)

// Lexer 返回语法对应的 chroma 词法分析器，未知语法返回 nil。
func (l Language) Lexer() chroma.Lexer {
	return lexers.Get(l.Name)
}

// ChromaStyle 返回主题对应的 chroma 风格。
func (t Theme) ChromaStyle() *chroma.Style {
	return styles.Get(t.Style)
}

// WriteCSS 将主题写为以 prefix 为类名前缀的样式表。
func (t Theme) WriteCSS(w io.Writer, prefix string) error {
	formatter := chromahtml.New(chromahtml.WithClasses(true), chromahtml.ClassPrefix(prefix))
	if _, err := io.WriteString(w, "/* "+t.Name+" */\n"); nil != err {
		return err
	}
	return formatter.WriteCSS(w, t.ChromaStyle())
}

// Highlight 以 t 的配色将 doc 按语法 l 渲染为 HTML 片段。
func (l Language) Highlight(w io.Writer, doc string, t Theme, prefix string) error {
	lexer := l.Lexer()
	if nil == lexer {
		lexer = lexers.Fallback
	}
	iterator, err := chroma.Coalesce(lexer).Tokenise(nil, doc)
	if nil != err {
		return err
	}
	formatter := chromahtml.New(chromahtml.WithClasses(true), chromahtml.ClassPrefix(prefix))
	return formatter.Format(w, t.ChromaStyle(), iterator)
}
