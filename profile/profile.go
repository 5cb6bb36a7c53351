// Package profile 将宿主块类型映射为编辑配置。
package profile

import (
	"github.com/pafthang/enhance/editor"
)

// Kind 内容类别。
type Kind int

const (
	Unsupported Kind = iota
	Math
	ScriptOrQuery
	Markup
)

func (k Kind) String() string {
	switch k {
	case Math:
		return "math"
	case ScriptOrQuery:
		return "sql/js"
	case Markup:
		return "html"
	default:
		return "unknown"
	}
}

// Direction 同步方向。
type Direction int

const (
	// Bidirectional 编辑器与文本框双向同步。
	Bidirectional Direction = iota
	// SurfaceToSourceOnly 仅编辑器写入文本框，文本框的外部修改不回流。
	SurfaceToSourceOnly
)

func (d Direction) String() string {
	if SurfaceToSourceOnly == d {
		return "surface-to-source"
	}
	return "bidirectional"
}

// SyncPolicy 同步策略。
type SyncPolicy struct {
	Direction Direction
}

// Profile 描述了一类内容的编辑方式，由 Classify 产生，不可变。
type Profile struct {
	Kind              Kind
	Tag               string
	Sync              SyncPolicy
	Completions       bool // 是否安装数学补全
	FormattingCapable bool // 是否支持格式化快捷键
}

// Supported 判断是否需要增强该块。
func (p Profile) Supported() bool {
	return Unsupported != p.Kind
}

// Classify 根据块类型标记返回编辑配置，未知标记返回 Unsupported。
func Classify(tag string) Profile {
	switch tag {
	case editor.TypeInlineMath, editor.TypeMathBlock:
		// 外部格式化可能改写文本框中的公式，公式只从编辑器单向写出
		return Profile{Kind: Math, Tag: tag, Sync: SyncPolicy{Direction: SurfaceToSourceOnly}, Completions: true, FormattingCapable: true}
	case editor.TypeBlockQueryEmbed:
		return Profile{Kind: ScriptOrQuery, Tag: tag}
	case editor.TypeHTMLBlock:
		return Profile{Kind: Markup, Tag: tag}
	}
	return Profile{Kind: Unsupported, Tag: tag}
}
