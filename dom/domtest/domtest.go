// Package domtest 提供 dom 包的内存实现，供测试使用。
//
// 事件同步派发，支持冒泡；元素记录 SetValue 与 DispatchEvent 的调用次数，
// 便于断言同步写入是否产生回声。
package domtest

import (
	"strconv"
	"strings"

	"github.com/pafthang/enhance/dom"
)

// Document 是内存中的文档。
type Document struct {
	Win     *Node
	Created []*Node
}

// NewDocument 创建一个带 window 目标的文档。
func NewDocument() *Document {
	return &Document{Win: NewNode("window")}
}

func (d *Document) CreateElement(tag string) dom.Element {
	n := NewNode(tag)
	d.Created = append(d.Created, n)
	return n
}

func (d *Document) Window() dom.EventTarget {
	return d.Win
}

type listener struct {
	fn dom.Listener
}

// Node 是内存中的元素。
type Node struct {
	Tag      string
	Text     string
	Children []*Node

	Width  float64
	Height float64

	// SetValueCalls 记录 SetValue 调用次数。
	SetValueCalls int
	// Dispatched 记录在该节点上派发的事件。
	Dispatched []*dom.Event

	value     string
	parent    *Node
	attrs     map[string]string
	styles    map[string]string
	listeners map[string][]*listener
}

// NewNode 创建一个游离的节点。
func NewNode(tag string) *Node {
	return &Node{
		Tag:       tag,
		attrs:     map[string]string{},
		styles:    map[string]string{},
		listeners: map[string][]*listener{},
	}
}

// NewTextArea 创建一个挂在 parent 下、带初始值的 textarea。
func NewTextArea(parent *Node, value string) *Node {
	n := NewNode("textarea")
	n.value = value
	if nil != parent {
		parent.AppendChild(n)
	}
	return n
}

func (n *Node) AddEventListener(typ string, fn dom.Listener) (remove func()) {
	l := &listener{fn: fn}
	n.listeners[typ] = append(n.listeners[typ], l)
	return func() {
		ls := n.listeners[typ]
		for i, x := range ls {
			if x == l {
				n.listeners[typ] = append(ls[:i:i], ls[i+1:]...)
				return
			}
		}
	}
}

// ListenerCount 返回 typ 类型事件上的监听数量。
func (n *Node) ListenerCount(typ string) int {
	return len(n.listeners[typ])
}

// TotalListeners 返回所有类型的监听数量。
func (n *Node) TotalListeners() (ret int) {
	for _, ls := range n.listeners {
		ret += len(ls)
	}
	return
}

func (n *Node) DispatchEvent(ev *dom.Event) {
	n.Dispatched = append(n.Dispatched, ev)
	for cur := n; nil != cur; cur = cur.parent {
		ls := append([]*listener(nil), cur.listeners[ev.Type]...)
		for _, l := range ls {
			l.fn(ev)
		}
		if !ev.Bubbles || ev.PropagationStopped() {
			return
		}
	}
}

// Count 返回在该节点上派发过的 typ 类型事件数量。
func (n *Node) Count(typ string) (ret int) {
	for _, ev := range n.Dispatched {
		if typ == ev.Type {
			ret++
		}
	}
	return
}

func (n *Node) SetAttribute(name, value string) {
	n.attrs[name] = value
}

func (n *Node) Attribute(name string) string {
	return n.attrs[name]
}

func (n *Node) SetText(text string) {
	n.Text = text
}

// SetStyle 设置样式，width/height 以 px 为单位时同步到 Width/Height，模拟布局结果。
func (n *Node) SetStyle(prop, value string) {
	n.styles[prop] = value
	if px, ok := parsePx(value); ok {
		switch prop {
		case "width":
			n.Width = px
		case "height":
			n.Height = px
		}
	}
}

func parsePx(value string) (float64, bool) {
	if !strings.HasSuffix(value, "px") {
		return 0, false
	}
	f, err := strconv.ParseFloat(strings.TrimSuffix(value, "px"), 64)
	return f, nil == err
}

func (n *Node) Style(prop string) string {
	return n.styles[prop]
}

func (n *Node) Value() string {
	return n.value
}

func (n *Node) SetValue(value string) {
	n.SetValueCalls++
	n.value = value
}

// Type 模拟用户输入：直接修改值，不计入 SetValueCalls，然后派发 input 事件。
func (n *Node) Type(value string) {
	n.value = value
	n.DispatchEvent(dom.NewInputEvent())
}

func (n *Node) Parent() dom.Element {
	if nil == n.parent {
		return nil
	}
	return n.parent
}

// ParentNode 返回父节点。
func (n *Node) ParentNode() *Node {
	return n.parent
}

func (n *Node) AppendChild(child dom.Element) {
	c := child.(*Node)
	c.detach()
	c.parent = n
	n.Children = append(n.Children, c)
}

func (n *Node) InsertBefore(child, ref dom.Element) {
	c, r := child.(*Node), ref.(*Node)
	c.detach()
	for i, x := range n.Children {
		if x == r {
			c.parent = n
			n.Children = append(n.Children[:i], append([]*Node{c}, n.Children[i:]...)...)
			return
		}
	}
	n.AppendChild(c)
}

func (n *Node) Remove() {
	n.detach()
}

func (n *Node) detach() {
	if nil == n.parent {
		return
	}
	siblings := n.parent.Children
	for i, x := range siblings {
		if x == n {
			n.parent.Children = append(siblings[:i:i], siblings[i+1:]...)
			break
		}
	}
	n.parent = nil
}

// QuerySelector 仅支持 .class 与 tag 两种选择器，深度优先查找。
func (n *Node) QuerySelector(selector string) dom.Element {
	if found := n.find(selector); nil != found {
		return found
	}
	return nil
}

func (n *Node) find(selector string) *Node {
	for _, c := range n.Children {
		if c.matches(selector) {
			return c
		}
		if found := c.find(selector); nil != found {
			return found
		}
	}
	return nil
}

func (n *Node) matches(selector string) bool {
	if strings.HasPrefix(selector, ".") {
		for _, class := range strings.Fields(n.attrs["class"]) {
			if class == selector[1:] {
				return true
			}
		}
		return false
	}
	return n.Tag == selector
}

// Index 返回节点在父节点中的位置，游离节点返回 -1。
func (n *Node) Index() int {
	if nil == n.parent {
		return -1
	}
	for i, x := range n.parent.Children {
		if x == n {
			return i
		}
	}
	return -1
}

func (n *Node) OffsetWidth() float64 {
	return n.Width
}

func (n *Node) OffsetHeight() float64 {
	return n.Height
}
