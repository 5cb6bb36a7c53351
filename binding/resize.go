package binding

import (
	"strconv"

	"github.com/pafthang/enhance/dom"
	"github.com/pafthang/enhance/editor"
)

// ResizeState 拖拽状态，仅在按下与松开之间变化。
type ResizeState struct {
	Active bool
	LastX  float64
	LastY  float64
}

// Resize 通过右下角手柄拖拽调整容器宽度与滚动区高度。
// move/up 监听挂在 window 上，拖出容器后仍能跟踪。
type Resize struct {
	State ResizeState

	win       dom.EventTarget
	container dom.Element
	scroller  dom.Element

	unDown func()
	unMove func()
	unUp   func()
}

// NewResize 创建拖拽状态机，scroller 为空时在按下时从容器中查找。
func NewResize(win dom.EventTarget, container, scroller dom.Element) *Resize {
	return &Resize{win: win, container: container, scroller: scroller}
}

// Install 在手柄上监听按下事件。
func (r *Resize) Install(handle dom.Element) {
	if nil != r.unDown {
		r.unDown()
	}
	r.unDown = handle.AddEventListener("mousedown", r.down)
}

func (r *Resize) down(ev *dom.Event) {
	ev.PreventDefault()
	if nil == r.scroller {
		r.scroller = r.container.QuerySelector(editor.ScrollerSelector)
	}
	r.State = ResizeState{Active: true, LastX: ev.ClientX, LastY: ev.ClientY}
	r.detachGlobal()
	r.unMove = r.win.AddEventListener("mousemove", r.move)
	r.unUp = r.win.AddEventListener("mouseup", r.up)
}

// move 按相对上次事件的增量累加尺寸，避免漏掉中间事件后发生漂移。
func (r *Resize) move(ev *dom.Event) {
	if !r.State.Active {
		return
	}

	dx, dy := ev.ClientX-r.State.LastX, ev.ClientY-r.State.LastY
	r.container.SetStyle("width", px(r.container.OffsetWidth()+dx))
	if nil != r.scroller {
		r.scroller.SetStyle("height", px(r.scroller.OffsetHeight()+dy))
	}
	r.State.LastX, r.State.LastY = ev.ClientX, ev.ClientY
}

func (r *Resize) up(*dom.Event) {
	r.State.Active = false
	r.detachGlobal()
}

func (r *Resize) detachGlobal() {
	if nil != r.unMove {
		r.unMove()
		r.unMove = nil
	}
	if nil != r.unUp {
		r.unUp()
		r.unUp = nil
	}
}

// Close 移除所有监听，包括拖拽中尚未松开时挂在 window 上的监听。
func (r *Resize) Close() {
	r.State.Active = false
	r.detachGlobal()
	if nil != r.unDown {
		r.unDown()
		r.unDown = nil
	}
}

func px(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + "px"
}
