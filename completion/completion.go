// Package completion 加载并整理公式编辑的符号补全与片段补全。
package completion

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// 补全数据文件在宿主工作空间中的路径。
const (
	SymbolsPath  = "/data/plugins/siyuan-plugin-enhance-editor/completions/KaTex_Completions.json"
	SnippetsPath = "/data/plugins/siyuan-plugin-enhance-editor/completions/KaTex_Snippets.json"
)

// Item 补全项，字段与数据文件一致。
type Item struct {
	Label        string  `json:"label"`
	DisplayLabel string  `json:"displayLabel,omitempty"`
	Type         string  `json:"type,omitempty"`
	Detail       string  `json:"detail,omitempty"`
	Info         string  `json:"info,omitempty"`
	Apply        string  `json:"apply,omitempty"`
	Boost        float64 `json:"boost,omitempty"`
	Section      string  `json:"section,omitempty"`

	Snippet bool `json:"-"` // 片段补全，插入文本按模板展开
}

// InsertText 返回选中该项后插入的文本。
func (item Item) InsertText() string {
	if "" != item.Apply {
		return item.Apply
	}
	return item.Label
}

// FileReader 是宿主“按 JSON 读取文件”的能力。
type FileReader interface {
	ReadJSON(ctx context.Context, path string, v interface{}) error
}

// ErrFetch 补全数据加载失败，属于可降级错误。
var ErrFetch = errors.New("completion fetch failed")

// FetchError 记录加载失败的文件。
type FetchError struct {
	Path string
	Err  error
}

func (e *FetchError) Error() string {
	return "fetch completions [" + e.Path + "] failed: " + e.Err.Error()
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

func (e *FetchError) Is(target error) bool {
	return ErrFetch == target
}

// Provider 从宿主加载补全数据。
type Provider struct {
	SymbolsPath  string
	SnippetsPath string

	reader FileReader
	logger *logrus.Entry
}

// NewProvider 创建使用默认数据路径的加载器。
func NewProvider(reader FileReader, logger *logrus.Entry) *Provider {
	if nil == logger {
		logger = logrus.WithField("component", "completion")
	}
	return &Provider{SymbolsPath: SymbolsPath, SnippetsPath: SnippetsPath, reader: reader, logger: logger}
}

// Load 并发读取符号与片段两份数据，按先符号后片段的顺序拼接。任一失败都返回 *FetchError。
func (p *Provider) Load(ctx context.Context) (ret []Item, err error) {
	var symbols, snippets []Item
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return p.read(gctx, p.SymbolsPath, &symbols)
	})
	g.Go(func() error {
		return p.read(gctx, p.SnippetsPath, &snippets)
	})
	if err = g.Wait(); nil != err {
		p.logger.WithError(err).Warn("load completions failed")
		return nil, err
	}

	for i := range snippets {
		snippets[i].Snippet = true
		if "" == snippets[i].Apply {
			snippets[i].Apply = snippets[i].Label
		}
	}
	ret = make([]Item, 0, len(symbols)+len(snippets))
	ret = append(ret, symbols...)
	ret = append(ret, snippets...)
	p.logger.Debugf("loaded %d symbols, %d snippets", len(symbols), len(snippets))
	return
}

func (p *Provider) read(ctx context.Context, path string, items *[]Item) error {
	if nil == p.reader {
		return &FetchError{Path: path, Err: errors.New("no file reader")}
	}
	if err := p.reader.ReadJSON(ctx, path, items); nil != err {
		return &FetchError{Path: path, Err: err}
	}
	return nil
}
