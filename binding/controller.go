// Package binding 负责编辑器的挂载、与原文本框的同步以及卸载。
package binding

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/pafthang/enhance/completion"
	"github.com/pafthang/enhance/dom"
	"github.com/pafthang/enhance/format"
	"github.com/pafthang/enhance/profile"
	"github.com/pafthang/enhance/surface"
	"github.com/pafthang/enhance/util"
	"github.com/sirupsen/logrus"
)

var (
	// ErrConstruction 编辑器构造失败，本次打开被放弃，原文本框恢复可见。
	ErrConstruction = errors.New("surface construction failed")
	// ErrNoSource 打开事件中找不到原文本框。
	ErrNoSource = errors.New("source control not found")
)

// NoticeDuration 提示的默认显示时长。
const NoticeDuration = time.Second

// BlockOpened 宿主打开不可编辑块的通知。Source 为空时在 Toolbar 中查找 textarea。
type BlockOpened struct {
	TypeTag string
	Source  dom.Element
	Toolbar dom.Element
}

// Settings 是持久化的插件设置，模式每次使用时重新读取。
type Settings interface {
	Mode() format.Mode
	SetMode(mode format.Mode)
	Save(ctx context.Context) error
}

// Host 是宿主外观与键位配置的只读查询。
type Host interface {
	Appearance() surface.Appearance
	Keymap() interface{}
}

// Controller 管理所有已打开的编辑器会话，同一文本框同一时刻最多绑定一个编辑器。
type Controller struct {
	NoticeDuration time.Duration

	doc      dom.Document
	engine   surface.Engine
	factory  *surface.Factory
	provider *completion.Provider
	settings Settings
	host     Host
	loop     Loop
	detach   func(el dom.Element, fn func()) (stop func())
	logger   *logrus.Entry
	sessions []*session
}

// Config 是创建 Controller 所需的依赖。Provider 为空时数学块不提供补全。
type Config struct {
	Document dom.Document
	Engine   surface.Engine
	Factory  *surface.Factory
	Provider *completion.Provider
	Settings Settings
	Host     Host
	Loop     Loop
	// Detach 在原文本框离开文档时回调 fn，浏览器中为 dom.OnDetach。
	Detach func(el dom.Element, fn func()) (stop func())
	Logger *logrus.Entry
}

// New 创建控制器。
func New(cfg Config) *Controller {
	ret := &Controller{
		NoticeDuration: NoticeDuration,
		doc:            cfg.Document,
		engine:         cfg.Engine,
		factory:        cfg.Factory,
		provider:       cfg.Provider,
		settings:       cfg.Settings,
		host:           cfg.Host,
		loop:           cfg.Loop,
		detach:         cfg.Detach,
		logger:         cfg.Logger,
	}
	if nil == ret.logger {
		ret.logger = logrus.WithField("component", "loader")
	}
	if nil == ret.factory {
		ret.factory = surface.NewFactory(nil, ret.logger)
	}
	if nil == ret.loop {
		ret.loop = DefaultLoop()
	}
	return ret
}

// Open 处理块打开通知。不支持的块静默忽略；构造失败时恢复原文本框并返回 ErrConstruction。
func (c *Controller) Open(ctx context.Context, ev BlockOpened) (err error) {
	p := profile.Classify(ev.TypeTag)
	if !p.Supported() {
		return nil
	}

	source := ev.Source
	if nil == source && nil != ev.Toolbar {
		source = ev.Toolbar.QuerySelector("textarea")
	}
	if nil == source {
		return fmt.Errorf("%w: %v", ErrConstruction, ErrNoSource)
	}

	logger := c.logger.WithField("type", ev.TypeTag)
	if nil != c.host {
		logger.WithField("keymap", c.host.Keymap()).Debug("host keymap")
	}
	c.Close(source)

	s := newSession(c, p, source, logger)
	c.sessions = append(c.sessions, s)
	if err = util.Safe(func() error { return s.open(ctx) }); nil != err {
		c.remove(s)
		s.close()
		if errors.Is(err, errClosed) {
			return nil
		}
		logger.WithError(err).Error("open surface failed")
		return fmt.Errorf("%w: %v", ErrConstruction, err)
	}
	logger.Debug("surface opened")
	return nil
}

// Close 卸载 source 上绑定的编辑器，未绑定时什么也不做。
func (c *Controller) Close(source dom.Element) {
	for _, s := range c.sessions {
		if dom.Same(s.source, source) {
			c.remove(s)
			s.close()
			return
		}
	}
}

// CloseAll 卸载所有编辑器，插件卸载时调用。
func (c *Controller) CloseAll() {
	sessions := c.sessions
	c.sessions = nil
	for _, s := range sessions {
		s.close()
	}
}

// Bound 判断 source 当前是否绑定了编辑器。
func (c *Controller) Bound(source dom.Element) bool {
	return nil != c.find(source)
}

// Surface 返回 source 上绑定的编辑器。
func (c *Controller) Surface(source dom.Element) surface.Surface {
	if s := c.find(source); nil != s {
		return s.surface
	}
	return nil
}

func (c *Controller) find(source dom.Element) *session {
	for _, s := range c.sessions {
		if dom.Same(s.source, source) {
			return s
		}
	}
	return nil
}

func (c *Controller) remove(s *session) {
	for i, x := range c.sessions {
		if x == s {
			c.sessions = append(c.sessions[:i:i], c.sessions[i+1:]...)
			return
		}
	}
}

func (c *Controller) mode() format.Mode {
	if nil == c.settings {
		return format.Off
	}
	return c.settings.Mode()
}

func (c *Controller) appearance() surface.Appearance {
	if nil == c.host {
		return surface.Light
	}
	return c.host.Appearance()
}
