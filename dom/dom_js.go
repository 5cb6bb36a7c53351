//go:build javascript
// +build javascript

package dom

import (
	"github.com/gopherjs/gopherjs/js"
)

// Wrap 将原生 DOM 元素包装为 Element，o 为空时返回 nil。
func Wrap(o *js.Object) Element {
	if nil == o || js.Undefined == o || nil == o.Interface() {
		return nil
	}
	return &element{Object: o}
}

// Unwrap 返回 Element 对应的原生对象。
func Unwrap(e Element) *js.Object {
	if el, ok := e.(*element); ok {
		return el.Object
	}
	return nil
}

// Global 返回浏览器的 document。
func Global() Document {
	return &document{Object: js.Global.Get("document")}
}

// OnDetach 在 el 从文档中移除后调用 fn 一次，返回的函数用于停止观察。
func OnDetach(el Element, fn func()) (stop func()) {
	target := Unwrap(el)
	doc := js.Global.Get("document")
	if nil == target || nil == doc.Get("body") {
		return func() {}
	}

	var observer *js.Object
	observer = js.Global.Get("MutationObserver").New(func(records, _ *js.Object) {
		if doc.Call("contains", target).Bool() {
			return
		}
		observer.Call("disconnect")
		fn()
	})
	observer.Call("observe", doc.Get("body"), map[string]interface{}{"childList": true, "subtree": true})
	return func() { observer.Call("disconnect") }
}

type native struct {
	*js.Object
}

func (n native) PreventDefault() {
	n.Call("preventDefault")
}

func (n native) StopPropagation() {
	n.Call("stopPropagation")
}

func wrapEvent(o *js.Object) *Event {
	return &Event{
		Type:       o.Get("type").String(),
		Key:        stringOf(o.Get("key")),
		KeyCode:    o.Get("keyCode").Int(),
		CtrlKey:    o.Get("ctrlKey").Bool(),
		ShiftKey:   o.Get("shiftKey").Bool(),
		ClientX:    o.Get("clientX").Float(),
		ClientY:    o.Get("clientY").Float(),
		Bubbles:    o.Get("bubbles").Bool(),
		Cancelable: o.Get("cancelable").Bool(),
		Native:     native{Object: o},
	}
}

func stringOf(o *js.Object) string {
	if js.Undefined == o || nil == o.Interface() {
		return ""
	}
	return o.String()
}

func nativeEvent(ev *Event) *js.Object {
	if n, ok := ev.Native.(native); ok {
		return n.Object
	}

	if "keydown" == ev.Type || "keyup" == ev.Type {
		return js.Global.Get("KeyboardEvent").New(ev.Type, map[string]interface{}{
			"key":        ev.Key,
			"keyCode":    ev.KeyCode,
			"ctrlKey":    ev.CtrlKey,
			"shiftKey":   ev.ShiftKey,
			"bubbles":    ev.Bubbles,
			"cancelable": ev.Cancelable,
		})
	}
	return js.Global.Get("Event").New(ev.Type, map[string]interface{}{
		"bubbles":    ev.Bubbles,
		"cancelable": ev.Cancelable,
	})
}

type target struct {
	*js.Object
}

func (t *target) AddEventListener(typ string, fn Listener) (remove func()) {
	cb := js.MakeFunc(func(this *js.Object, args []*js.Object) interface{} {
		fn(wrapEvent(args[0]))
		return nil
	})
	t.Call("addEventListener", typ, cb)
	removed := false
	return func() {
		if removed {
			return
		}
		removed = true
		t.Call("removeEventListener", typ, cb)
	}
}

func (t *target) DispatchEvent(ev *Event) {
	t.Call("dispatchEvent", nativeEvent(ev))
}

type element struct {
	*js.Object
}

func (e *element) AddEventListener(typ string, fn Listener) (remove func()) {
	return (&target{Object: e.Object}).AddEventListener(typ, fn)
}

func (e *element) DispatchEvent(ev *Event) {
	(&target{Object: e.Object}).DispatchEvent(ev)
}

func (e *element) Equal(other Element) bool {
	o, ok := other.(*element)
	return ok && e.Object == o.Object
}

func (e *element) SetAttribute(name, value string) {
	e.Call("setAttribute", name, value)
}

func (e *element) Attribute(name string) string {
	return stringOf(e.Call("getAttribute", name))
}

func (e *element) SetText(text string) {
	e.Set("textContent", text)
}

func (e *element) SetStyle(prop, value string) {
	e.Get("style").Call("setProperty", prop, value)
}

func (e *element) Style(prop string) string {
	return e.Get("style").Call("getPropertyValue", prop).String()
}

func (e *element) Value() string {
	return stringOf(e.Get("value"))
}

func (e *element) SetValue(value string) {
	e.Set("value", value)
}

func (e *element) Parent() Element {
	return Wrap(e.Get("parentNode"))
}

func (e *element) AppendChild(child Element) {
	e.Call("appendChild", Unwrap(child))
}

func (e *element) InsertBefore(child, ref Element) {
	e.Call("insertBefore", Unwrap(child), Unwrap(ref))
}

func (e *element) Remove() {
	e.Call("remove")
}

func (e *element) QuerySelector(selector string) Element {
	return Wrap(e.Call("querySelector", selector))
}

func (e *element) OffsetWidth() float64 {
	return e.Get("offsetWidth").Float()
}

func (e *element) OffsetHeight() float64 {
	return e.Get("offsetHeight").Float()
}

type document struct {
	*js.Object
}

func (d *document) CreateElement(tag string) Element {
	return Wrap(d.Call("createElement", tag))
}

func (d *document) Window() EventTarget {
	return &target{Object: js.Global}
}
