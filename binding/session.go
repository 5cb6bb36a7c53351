package binding

import (
	"context"
	"errors"

	"github.com/pafthang/enhance/dom"
	"github.com/pafthang/enhance/editor"
	"github.com/pafthang/enhance/format"
	"github.com/pafthang/enhance/profile"
	"github.com/pafthang/enhance/surface"
	"github.com/pafthang/enhance/util"
	"github.com/sirupsen/logrus"
)

// ErrDetached 原文本框不在文档中，无法在其前面插入编辑器。
var ErrDetached = errors.New("source control is detached")

// errClosed 构造期间会话已被关闭。
var errClosed = errors.New("session closed during construction")

// session 是一次打开的全部运行期状态，关闭后不再响应任何回调。
type session struct {
	c       *Controller
	profile profile.Profile
	source  dom.Element
	logger  *logrus.Entry

	ctx    context.Context
	cancel context.CancelFunc
	alive  bool
	closed bool

	prevDisplay string
	container   dom.Element
	surface     surface.Surface
	resize      *Resize
	unlisten    []func()
	timers      []func()
}

func newSession(c *Controller, p profile.Profile, source dom.Element, logger *logrus.Entry) *session {
	ctx, cancel := context.WithCancel(context.Background())
	return &session{c: c, profile: p, source: source, logger: logger, ctx: ctx, cancel: cancel}
}

func (s *session) open(ctx context.Context) (err error) {
	parent := s.source.Parent()
	if nil == parent {
		return ErrDetached
	}

	s.alive = true
	s.prevDisplay = s.source.Style("display")
	s.container = s.c.doc.CreateElement("div")
	s.container.SetAttribute("id", editor.ContainerID)
	s.container.SetAttribute("class", editor.ContainerClass)
	s.container.SetAttribute("style", editor.ContainerStyle)
	parent.InsertBefore(s.container, s.source)
	s.source.SetStyle("display", "none")

	if s.profile.FormattingCapable {
		s.installModeSelect()
	}

	cfg, err := s.c.factory.Build(ctx, surface.Input{
		Profile:    s.profile,
		Text:       s.source.Value(),
		Mode:       s.c.mode(),
		Appearance: s.c.appearance(),
	}, surface.Hooks{
		Passthrough: s.passthrough,
		Mode:        s.c.mode,
		Notify:      s.notify,
		Async:       s.async,
	})
	if nil != err {
		return
	}
	if !s.alive {
		return errClosed
	}

	if s.surface, err = s.c.engine.Mount(s.container, cfg); nil != err {
		return
	}
	if nil != cfg.Warning {
		s.notify("Format failed: " + errors.Unwrap(cfg.Warning).Error())
	}

	s.unlisten = append(s.unlisten, s.surface.OnChange(s.pushToSource))
	// 预格式化后的文档需要立即写回，否则宿主保存的仍是原文
	s.pushToSource(s.surface.Doc())
	if profile.Bidirectional == s.profile.Sync.Direction {
		s.unlisten = append(s.unlisten, s.source.AddEventListener("input", s.pullFromSource))
	}

	handle := s.c.doc.CreateElement("div")
	handle.SetAttribute("style", editor.DragHandleStyle)
	s.container.AppendChild(handle)
	s.resize = NewResize(s.c.doc.Window(), s.container, s.surface.Scroller())
	s.resize.Install(handle)

	// 编辑器内的按键不再传给宿主
	s.unlisten = append(s.unlisten, s.container.AddEventListener("keydown", func(ev *dom.Event) {
		ev.StopPropagation()
	}))
	if nil != s.c.detach {
		s.unlisten = append(s.unlisten, s.c.detach(s.source, func() { s.c.Close(s.source) }))
	}

	if nil != cfg.Completion && nil != s.c.provider {
		src, provider := cfg.Completion, s.c.provider
		s.async(func(ctx context.Context) func() {
			items, err := provider.Load(ctx)
			if nil != err {
				return nil
			}
			return func() { src.SetItems(items) }
		})
	}

	s.surface.Focus()
	s.surface.SelectAll()
	return
}

// pushToSource 将编辑器文档写回原文本框并派发 input 事件，值相同时不写，避免回声。
func (s *session) pushToSource(doc string) {
	if !s.alive || doc == s.source.Value() {
		return
	}
	s.source.SetValue(doc)
	s.source.DispatchEvent(dom.NewInputEvent())
}

func (s *session) pullFromSource(*dom.Event) {
	if !s.alive {
		return
	}
	if value := s.source.Value(); value != s.surface.Doc() {
		s.surface.SetDoc(value)
	}
}

func (s *session) passthrough(ev *dom.Event) {
	if s.alive {
		s.source.DispatchEvent(ev)
	}
}

// async 在后台执行 work，结果回到 UI 线程后仅在会话存活时应用。
func (s *session) async(work func(ctx context.Context) (apply func())) {
	ctx, loop, logger := s.ctx, s.c.loop, s.logger
	go func() {
		var apply func()
		if err := util.Safe(func() error { apply = work(ctx); return nil }); nil != err {
			logger.WithError(err).Error("background work failed")
			return
		}
		if nil == apply {
			return
		}
		loop.Post(func() {
			if s.alive {
				apply()
			}
		})
	}()
}

func (s *session) notify(text string) {
	if !s.alive {
		return
	}
	n := s.c.doc.CreateElement("div")
	n.SetAttribute("style", editor.NoticeStyle)
	n.SetText(text)
	s.container.AppendChild(n)
	s.timers = append(s.timers, s.c.loop.AfterFunc(s.c.NoticeDuration, n.Remove))
}

func (s *session) installModeSelect() {
	sel := s.c.doc.CreateElement("select")
	sel.SetAttribute("style", editor.ModeSelectStyle)
	sel.SetAttribute("title", "Format: Off/Gentle/Original (toggle)")
	for _, m := range format.Modes {
		opt := s.c.doc.CreateElement("option")
		opt.SetAttribute("value", m.String())
		opt.SetText(m.Label())
		sel.AppendChild(opt)
	}
	sel.SetValue(s.c.mode().String())
	s.container.SetAttribute("data-formatting-mode", s.c.mode().String())
	s.container.AppendChild(sel)

	s.unlisten = append(s.unlisten, sel.AddEventListener("change", func(*dom.Event) {
		if nil == s.c.settings {
			return
		}
		mode := format.ParseMode(sel.Value())
		s.c.settings.SetMode(mode)
		s.container.SetAttribute("data-formatting-mode", mode.String())
		s.logger.Debugf("formatting mode [%s]", mode)
		settings, logger := s.c.settings, s.logger
		go func() {
			if err := util.Safe(func() error { return settings.Save(context.Background()) }); nil != err {
				logger.WithError(err).Warn("save settings failed")
			}
		}()
		s.notify("Format: " + mode.Label())
	}))
}

// close 释放会话持有的全部资源，重复调用无副作用。
func (s *session) close() {
	if s.closed {
		return
	}
	s.closed = true
	s.alive = false
	s.cancel()

	for i := len(s.unlisten) - 1; 0 <= i; i-- {
		s.unlisten[i]()
	}
	s.unlisten = nil
	for _, stop := range s.timers {
		stop()
	}
	s.timers = nil
	if nil != s.resize {
		s.resize.Close()
	}
	if nil != s.surface {
		s.surface.Destroy()
	}
	if nil != s.container {
		s.container.Remove()
		s.source.SetStyle("display", s.prevDisplay)
	}
	s.logger.Debug("surface closed")
}
