package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pafthang/enhance/surface"
)

const preview = `\frac{a}{b} + \sqrt{x^2}`

// 生成编辑器主题对应的 Chroma 样式。
func main() {
	dir := "chroma-styles"
	prefix := "highlight-"
	var b bytes.Buffer
	var names []string
	for _, theme := range surface.Themes {
		if err := theme.WriteCSS(&b, prefix); nil != err {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		os.WriteFile(filepath.Join(dir, theme.Name)+".css", b.Bytes(), 0644)
		b.Reset()

		if err := surface.LaTeX.Highlight(&b, preview, theme, prefix); nil == err {
			os.WriteFile(filepath.Join(dir, theme.Name)+".html", b.Bytes(), 0644)
		}
		b.Reset()
		names = append(names, theme.Name)
	}

	fmt.Println("[\"" + strings.Join(names, "\", \"") + "\"]")
}
