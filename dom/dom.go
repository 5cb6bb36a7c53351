// Package dom 定义了插件使用到的最小 DOM 能力集合。
//
// 浏览器中由 gopherjs 实现（dom_js.go），测试中由 domtest 包提供内存实现。
package dom

// Listener 事件监听函数。
type Listener func(ev *Event)

// EventTarget 可监听、可派发事件的对象。
type EventTarget interface {
	// AddEventListener 注册监听，返回的函数用于移除该监听，重复调用无副作用。
	AddEventListener(typ string, fn Listener) (remove func())
	DispatchEvent(ev *Event)
}

// Element 描述了一个 DOM 元素。表单控件（textarea、select）通过 Value/SetValue 读写值，
// 其他元素的 Value 恒为空。
type Element interface {
	EventTarget

	SetAttribute(name, value string)
	Attribute(name string) string
	SetText(text string)
	SetStyle(prop, value string)
	Style(prop string) string

	Value() string
	SetValue(value string)

	Parent() Element
	AppendChild(child Element)
	InsertBefore(child, ref Element)
	Remove()
	QuerySelector(selector string) Element

	OffsetWidth() float64
	OffsetHeight() float64
}

// Document 用于创建元素以及获取全局窗口。
type Document interface {
	CreateElement(tag string) Element
	Window() EventTarget
}

// Native 是宿主原生事件对象上的操作。
type Native interface {
	PreventDefault()
	StopPropagation()
}

// Event 描述了一个 DOM 事件。Native 为空表示这是由插件构造的合成事件。
type Event struct {
	Type       string
	Key        string
	KeyCode    int
	CtrlKey    bool
	ShiftKey   bool
	ClientX    float64
	ClientY    float64
	Bubbles    bool
	Cancelable bool

	Native Native

	defaultPrevented   bool
	propagationStopped bool
}

// NewInputEvent 创建一个冒泡、可取消的 input 合成事件，宿主依赖它感知文本框内容变化。
func NewInputEvent() *Event {
	return &Event{Type: "input", Bubbles: true, Cancelable: true}
}

// NewKeyboardEvent 创建一个 keydown 合成事件。
func NewKeyboardEvent(key string, keyCode int, ctrl, shift bool) *Event {
	return &Event{Type: "keydown", Key: key, KeyCode: keyCode, CtrlKey: ctrl, ShiftKey: shift}
}

func (ev *Event) PreventDefault() {
	ev.defaultPrevented = true
	if nil != ev.Native {
		ev.Native.PreventDefault()
	}
}

func (ev *Event) StopPropagation() {
	ev.propagationStopped = true
	if nil != ev.Native {
		ev.Native.StopPropagation()
	}
}

func (ev *Event) DefaultPrevented() bool {
	return ev.defaultPrevented
}

func (ev *Event) PropagationStopped() bool {
	return ev.propagationStopped
}

// Same 判断 a 与 b 是否指向同一个元素。同一原生元素可能被包装多次，
// 实现了 Equal 的包装按原生对象比较。
func Same(a, b Element) bool {
	if nil == a || nil == b {
		return false
	}
	if a == b {
		return true
	}
	if eq, ok := a.(interface{ Equal(Element) bool }); ok {
		return eq.Equal(b)
	}
	return false
}
