// Package enhance 为宿主的公式块、嵌入查询块与 HTML 块提供代码编辑器，支持 Go 和 JavaScript。
package enhance

import (
	"context"
	"errors"

	"github.com/pafthang/enhance/binding"
	"github.com/pafthang/enhance/completion"
	"github.com/pafthang/enhance/dom"
	"github.com/pafthang/enhance/format"
	"github.com/pafthang/enhance/kernel"
	"github.com/pafthang/enhance/surface"
	"github.com/sirupsen/logrus"
)

const Version = "0.4.2"

// ErrNotReady 没有可用的文档或编辑引擎。
var ErrNotReady = errors.New("enhancer has no document or engine")

// Enhancer 描述了插件的顶层使用入口。
type Enhancer struct {
	Settings *Settings // 持久化配置

	store     Store
	host      binding.Host
	reader    completion.FileReader
	address   string
	token     string
	engine    surface.Engine
	doc       dom.Document
	loop      binding.Loop
	detach    func(el dom.Element, fn func()) (stop func())
	formatter format.Formatter
	devMode   bool
	log       *logrus.Logger

	controller *binding.Controller
	logger     *logrus.Entry
}

// Option 描述了构造选项设置函数签名。
type Option func(e *Enhancer)

// WithStore 设置配置存储。
func WithStore(store Store) Option {
	return func(e *Enhancer) { e.store = store }
}

// WithHost 设置宿主外观与键位来源。
func WithHost(host binding.Host) Option {
	return func(e *Enhancer) { e.host = host }
}

// WithReader 设置补全数据的读取方式，优先于 WithKernel。
func WithReader(reader completion.FileReader) Option {
	return func(e *Enhancer) { e.reader = reader }
}

// WithKernel 设置内核地址与 API token。
func WithKernel(address, token string) Option {
	return func(e *Enhancer) { e.address, e.token = address, token }
}

func WithEngine(engine surface.Engine) Option {
	return func(e *Enhancer) { e.engine = engine }
}

func WithDocument(doc dom.Document) Option {
	return func(e *Enhancer) { e.doc = doc }
}

func WithLoop(loop binding.Loop) Option {
	return func(e *Enhancer) { e.loop = loop }
}

// WithDetach 设置原文本框离开文档时的监听方式。
func WithDetach(detach func(el dom.Element, fn func()) (stop func())) Option {
	return func(e *Enhancer) { e.detach = detach }
}

// WithFormatter 设置完整格式化使用的外部格式化器，默认为 prettier。
func WithFormatter(formatter format.Formatter) Option {
	return func(e *Enhancer) { e.formatter = formatter }
}

// WithDevMode 开发模式下输出调试日志。
func WithDevMode(b bool) Option {
	return func(e *Enhancer) { e.devMode = b }
}

func WithLogger(log *logrus.Logger) Option {
	return func(e *Enhancer) { e.log = log }
}

// New 创建插件实例。
//
// 默认配置：
//   - 配置保存在内存中
//   - 补全数据从本机内核读取
//   - 完整格式化使用 prettier 与 LaTeX 插件
//
// 浏览器环境下默认使用页面的 document、CodeMirror 引擎与宿主配置。
func New(opts ...Option) (ret *Enhancer) {
	ret = &Enhancer{}
	platformDefaults(ret)
	for _, opt := range opts {
		opt(ret)
	}

	if nil == ret.log {
		ret.log = logrus.New()
	}
	if ret.devMode {
		ret.log.SetLevel(logrus.DebugLevel)
	}
	component := func(name string) *logrus.Entry {
		return ret.log.WithField("component", name)
	}
	ret.logger = component("loader")

	if nil == ret.store {
		ret.store = NewMemoryStore()
	}
	if nil == ret.host {
		ret.host = StaticHost{}
	}
	if nil == ret.reader {
		ret.reader = kernel.New(kernel.Config{Address: ret.address, Token: ret.token, Logger: component("kernel")})
	}
	if nil == ret.formatter {
		ret.formatter = format.NewPrettier()
	}

	ret.Settings = NewSettings(ret.store, component("settings"))
	ret.controller = binding.New(binding.Config{
		Document: ret.doc,
		Engine:   ret.engine,
		Factory:  surface.NewFactory(format.New(ret.formatter, component("format")), ret.logger),
		Provider: completion.NewProvider(ret.reader, component("completion")),
		Settings: ret.Settings,
		Host:     ret.host,
		Loop:     ret.loop,
		Detach:   ret.detach,
		Logger:   ret.logger,
	})
	return
}

// Load 读取持久化配置，宿主布局就绪后调用。
func (e *Enhancer) Load(ctx context.Context) error {
	err := e.Settings.Load(ctx)
	e.logger.Info("load")
	return err
}

// Open 响应宿主打开不可编辑块的事件。
func (e *Enhancer) Open(ctx context.Context, ev binding.BlockOpened) error {
	if nil == e.doc || nil == e.engine {
		return ErrNotReady
	}
	return e.controller.Open(ctx, ev)
}

// Close 卸载 source 上的编辑器。
func (e *Enhancer) Close(source dom.Element) {
	e.controller.Close(source)
}

// Unload 卸载所有编辑器。
func (e *Enhancer) Unload() {
	e.controller.CloseAll()
	e.logger.Info("unload")
}

// Controller 返回编辑器绑定控制器。
func (e *Enhancer) Controller() *binding.Controller {
	return e.controller
}
