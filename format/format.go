// Package format 提供公式文本的格式化适配：关闭、温和、完整三种模式。
package format

import (
	"context"
	"errors"
	"strings"
	"unicode"

	"github.com/pafthang/enhance/util"
	"github.com/sirupsen/logrus"
)

// Mode 格式化模式，按插件安装持久化。
type Mode int

const (
	Off Mode = iota
	Gentle
	Full
)

// ParseMode 解析持久化的模式值，"original" 为完整模式的持久化写法，未知值视为关闭。
func ParseMode(s string) Mode {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "gentle":
		return Gentle
	case "original", "full":
		return Full
	}
	return Off
}

// String 返回持久化写法。
func (m Mode) String() string {
	switch m {
	case Gentle:
		return "gentle"
	case Full:
		return "original"
	}
	return "off"
}

// Label 返回界面上展示的名称。
func (m Mode) Label() string {
	switch m {
	case Gentle:
		return "Gentle"
	case Full:
		return "Original"
	}
	return "Off"
}

// Modes 按界面顺序列出所有模式。
var Modes = []Mode{Off, Gentle, Full}

// Formatter 是外部结构化格式化器，作为纯文本变换使用。
type Formatter interface {
	Format(ctx context.Context, text string) (string, error)
}

// FormatterFunc 将函数适配为 Formatter。
type FormatterFunc func(ctx context.Context, text string) (string, error)

func (f FormatterFunc) Format(ctx context.Context, text string) (string, error) {
	return f(ctx, text)
}

// ErrNoFormatter 完整模式下没有可用的外部格式化器。
var ErrNoFormatter = errors.New("no full formatter configured")

// FormatError 完整模式格式化失败，文档应保持不变。
type FormatError struct {
	Err error
}

func (e *FormatError) Error() string {
	return "format failed: " + e.Err.Error()
}

func (e *FormatError) Unwrap() error {
	return e.Err
}

// Adapter 将外部格式化器包装为统一的 Format(text, mode) 调用。
type Adapter struct {
	full   Formatter
	logger *logrus.Entry
}

// New 创建适配器，full 可以为 nil，此时完整模式总是失败。
func New(full Formatter, logger *logrus.Entry) *Adapter {
	if nil == logger {
		logger = logrus.WithField("component", "format")
	}
	return &Adapter{full: full, logger: logger}
}

// Format 按 mode 格式化 text。失败时返回原文和 *FormatError，调用方据此提示但不改动文档。
func (a *Adapter) Format(ctx context.Context, text string, mode Mode) (ret string, err error) {
	switch mode {
	case Gentle:
		return GentleFormat(text), nil
	case Full:
		ret, err = a.fullFormat(ctx, text)
		if nil != err {
			a.logger.WithError(err).Warn("full format failed")
			return text, &FormatError{Err: err}
		}
		return
	}
	return text, nil
}

func (a *Adapter) fullFormat(ctx context.Context, text string) (ret string, err error) {
	if nil == a.full {
		return "", ErrNoFormatter
	}
	defer util.RecoverPanic(&err)

	out, err := a.full.Format(ctx, Wrap(text))
	if nil != err {
		return
	}
	return Unwrap(out)
}

// GentleFormat 统一换行符为 \n 并去除每行行尾空白，不重排内容。
func GentleFormat(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRightFunc(line, unicode.IsSpace)
	}
	return strings.Join(lines, "\n")
}
